// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

// fileWatcher - reports writes to and removal of one file
//
// the containing directory is watched so that editors which replace
// the file by renaming are still seen as a change
type fileWatcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	change   chan struct{}
	remove   chan struct{}
	done     chan struct{}
}

func newFileWatcher(targetFile string, log *logger.L) (*fileWatcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(targetFile))
	if nil != err {
		return nil, err
	}

	if _, err := os.Stat(filePath); nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	return &fileWatcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
		change:   make(chan struct{}, 1),
		remove:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

func (w *fileWatcher) Start() error {
	err := w.watcher.Add(filepath.Dir(w.filePath))
	if nil != err {
		w.log.Errorf("watcher add error: %s", err)
		return err
	}

	go w.loop()
	return nil
}

func (w *fileWatcher) Stop() {
	w.watcher.Close()
	<-w.done
}

func (w *fileWatcher) loop() {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.filePath {
				continue
			}
			w.log.Debugf("file event: %v", event)

			switch {
			case watcherEventFileRemove(event):
				if _, err := os.Stat(w.filePath); nil == err {
					// replaced in place
					w.sendEvent(w.change, "change")
					continue
				}
				w.log.Warnf("file: %s removed", w.filePath)
				w.sendEvent(w.remove, "remove")
			case watcherEventFileChange(event):
				w.sendEvent(w.change, "change")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watcher error: %s", err)
		}
	}
}

// channels hold at most one pending event
func (w *fileWatcher) sendEvent(ch chan<- struct{}, name string) {
	select {
	case ch <- struct{}{}:
	default:
		w.log.Debugf("event channel %s full, discard event", name)
	}
}

func watcherEventFileRemove(event fsnotify.Event) bool {
	return event.Op&fsnotify.Remove == fsnotify.Remove ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
