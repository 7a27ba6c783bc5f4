// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage_test

import (
	"os"
	"testing"

	"github.com/bitmark-inc/pqvault/fixtures"
	"github.com/bitmark-inc/pqvault/storage"
)

// test database file
const (
	databaseFileName = "test.leveldb"
)

// common test setup routines

// remove all files created by test
func removeFiles() {
	os.RemoveAll(databaseFileName)
}

// configure for testing
func setup(t *testing.T) {
	fixtures.SetupTestLogger()
	removeFiles()
	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	if nil != err {
		t.Fatalf("storage initialise error: %s", err)
	}
}

// post test cleanup
func teardown(t *testing.T) {
	storage.Finalise()
	removeFiles()
	fixtures.TeardownTestLogger()
}

// a string data item
type stringElement struct {
	key   string
	value string
}

// make an element array
func makeElements(input []stringElement) []storage.Element {
	output := make([]storage.Element, 0, len(input))
	for _, e := range input {
		output = append(output, storage.Element{
			Key:   []byte(e.key),
			Value: []byte(e.value),
		})
	}
	return output
}

// stored in this order
var inputElements = []stringElement{
	{"key-one", "data-one"},
	{"key-two", "data-two"},
	{"key-three", "data-three"},
	{"key-four", "data-four"},
	{"key-five", "data-five"},
}

// this is the expected order
var expectedElements = makeElements([]stringElement{
	{"key-five", "data-five"},
	{"key-four", "data-four"},
	{"key-one", "data-one"},
	{"key-three", "data-three"},
	{"key-two", "data-two"},
})

// a key that must not exist
var nonExistentKey = []byte("/nonexistent")

func putAll(t *testing.T, p *storage.PoolHandle) {
	for _, e := range inputElements {
		if err := p.Put([]byte(e.key), []byte(e.value)); nil != err {
			t.Fatalf("put: %q  error: %s", e.key, err)
		}
	}
}
