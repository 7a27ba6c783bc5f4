// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/pqvault/fixtures"
)

const eventTimeout = 5 * time.Second

func TestWatcherEvents(t *testing.T) {
	assert.True(t, watcherEventFileRemove(fsnotify.Event{Op: fsnotify.Remove}), "remove")
	assert.True(t, watcherEventFileRemove(fsnotify.Event{Op: fsnotify.Rename}), "rename")
	assert.False(t, watcherEventFileRemove(fsnotify.Event{Op: fsnotify.Write}), "write is not remove")

	assert.True(t, watcherEventFileChange(fsnotify.Event{Op: fsnotify.Write}), "write")
	assert.True(t, watcherEventFileChange(fsnotify.Event{Op: fsnotify.Create}), "create")
	assert.True(t, watcherEventFileChange(fsnotify.Event{Op: fsnotify.Chmod}), "chmod")
	assert.False(t, watcherEventFileChange(fsnotify.Event{Op: fsnotify.Remove}), "remove is not change")
}

func TestNewFileWatcherMissingFile(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, err := newFileWatcher(filepath.Join(t.TempDir(), "absent.conf"), logger.New("test"))
	assert.True(t, os.IsNotExist(err), "missing file: %v", err)
}

func TestFileWatcher(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	directory := t.TempDir()
	fileName := filepath.Join(directory, "pqvault.conf")
	require.NoError(t, os.WriteFile(fileName, []byte("return {}\n"), 0600), "create")

	w, err := newFileWatcher(fileName, logger.New("test"))
	require.NoError(t, err, "new watcher")
	require.NoError(t, w.Start(), "start")
	defer w.Stop()

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(directory, "other"), []byte("x"), 0600), "other file")

	require.NoError(t, os.WriteFile(fileName, []byte("return { rpc_url = \"x\" }\n"), 0600), "write")
	select {
	case <-w.change:
	case <-time.After(eventTimeout):
		t.Fatal("no change event")
	}

	require.NoError(t, os.Remove(fileName), "remove")
	select {
	case <-w.remove:
	case <-time.After(eventTimeout):
		t.Fatal("no remove event")
	}
}
