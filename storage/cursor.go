// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"math/big"

	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/pqvault/fault"
)

// FetchCursor - cursor structure
type FetchCursor struct {
	pool     *PoolHandle
	maxRange util.Range
}

// NewFetchCursor - initialise a cursor to the start of a key range
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	return &FetchCursor{
		pool:     p,
		maxRange: *p.fullRange(),
	}
}

// Seek - move cursor to specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	cursor.maxRange.Start = cursor.pool.prefixKey(key)
	return cursor
}

// to increment the key
var one = big.NewInt(1)

// Fetch - return some elements starting from key
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.InvalidCursor
	}
	if count <= 0 {
		return nil, fault.InvalidCount
	}

	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil, fault.NotInitialised
	}

	iter := poolData.db.NewIterator(&cursor.maxRange, nil)

	results := make([]Element, 0, count)
	n := 0
iterating:
	for iter.Next() {
		results = append(results, copyElement(iter.Key(), iter.Value()))
		n += 1
		if n >= count {
			break iterating
		}
	}
	iter.Release()
	err := iter.Error()

	if n > 0 {
		keyLen := len(results[n-1].Key)
		b := big.Int{}
		next := b.SetBytes(results[n-1].Key).Add(&b, one).Bytes()
		if len(next) > keyLen {
			// last possible key was returned
			cursor.maxRange.Start = cursor.maxRange.Limit
		} else {
			start := make([]byte, keyLen+1)
			start[0] = cursor.pool.prefix
			copy(start[1+keyLen-len(next):], next)
			cursor.maxRange.Start = start
		}
	}
	return results, err
}
