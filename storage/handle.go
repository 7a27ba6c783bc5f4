// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/fault"
)

// PoolHandle - one prefixed table in the database
type PoolHandle struct {
	prefix byte
	limit  []byte
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

func (p *PoolHandle) fullRange() *ldb_util.Range {
	return &ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return fault.NotInitialised
	}
	return poolData.db.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return fault.NotInitialised
	}
	return poolData.db.Delete(p.prefixKey(key), nil)
}

// Get - read a value for a given key
//
// returns nil if the key is not present
func (p *PoolHandle) Get(key []byte) []byte {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil
	}
	value, err := poolData.db.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)
	return value
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return false
	}
	value, err := poolData.db.Has(p.prefixKey(key), nil)
	logger.PanicIfError("pool.Has", err)
	return value
}

// Count - number of elements in the pool
func (p *PoolHandle) Count() int {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return 0
	}

	iter := poolData.db.NewIterator(p.fullRange(), nil)
	n := 0
	for iter.Next() {
		n += 1
	}
	iter.Release()
	logger.PanicIfError("pool.Count", iter.Error())
	return n
}

// LastElement - get the last element in a pool
func (p *PoolHandle) LastElement() (Element, bool) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return Element{}, false
	}

	iter := poolData.db.NewIterator(p.fullRange(), nil)

	found := false
	result := Element{}
	if iter.Last() {
		result = copyElement(iter.Key(), iter.Value())
		found = true
	}
	iter.Release()
	err := iter.Error()
	logger.PanicIfError("pool.LastElement", err)
	return result, found
}

// TrimOldest - delete the lowest keys until at most keep remain
//
// returns the number of deleted elements
func (p *PoolHandle) TrimOldest(keep int) (int, error) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return 0, fault.NotInitialised
	}

	keys := [][]byte{}
	iter := poolData.db.NewIterator(p.fullRange(), nil)
	for iter.Next() {
		keys = append(keys, append([]byte{}, iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return 0, err
	}

	excess := len(keys) - keep
	if excess <= 0 {
		return 0, nil
	}

	batch := new(leveldb.Batch)
	for _, k := range keys[:excess] {
		batch.Delete(k)
	}
	if err := poolData.db.Write(batch, nil); nil != err {
		return 0, err
	}
	return excess, nil
}

// contents of an iterator's slices must not be modified, and are
// only valid until the next call to Next
func copyElement(key []byte, value []byte) Element {
	dataKey := make([]byte, len(key)-1) // strip the prefix
	copy(dataKey, key[1:])              // ...

	dataValue := make([]byte, len(value))
	copy(dataValue, value)

	return Element{
		Key:   dataKey,
		Value: dataValue,
	}
}
