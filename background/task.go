// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background

// Task - a single operation running on its own goroutine
type Task[R any] struct {
	done   chan struct{}
	result R
	err    error
}

// Go - start f and return a handle to its eventual result
func Go[R any](f func() (R, error)) *Task[R] {
	t := &Task[R]{
		done: make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		t.result, t.err = f()
	}()
	return t
}

// Done - closed once the task has finished
func (t *Task[R]) Done() <-chan struct{} {
	return t.done
}

// Wait - block until the task finishes and return its outcome
func (t *Task[R]) Wait() (R, error) {
	<-t.done
	return t.result, t.err
}
