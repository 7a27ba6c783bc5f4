// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package history - snapshots of network lock and airdrop statistics
//
// entries are keyed by timestamp so the pool order is time order
package history

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/storage"
)

// MaximumEntries - snapshots retained per pool, 30 days of hourly samples
const MaximumEntries = 720

// entries read from the pool per cursor fetch
const pageSize = 100

// Timeframe - window for history queries
type Timeframe string

// supported windows
const (
	FiveMinutes Timeframe = "5m"
	OneDay      Timeframe = "1d"
	FiveDays    Timeframe = "5d"
	OneWeek     Timeframe = "1w"
	OneMonth    Timeframe = "1m"
	All         Timeframe = "all"
)

var windows = map[Timeframe]time.Duration{
	FiveMinutes: 5 * time.Minute,
	OneDay:      24 * time.Hour,
	FiveDays:    5 * 24 * time.Hour,
	OneWeek:     7 * 24 * time.Hour,
	OneMonth:    30 * 24 * time.Hour,
	All:         0,
}

// ParseTimeframe - case insensitive timeframe name
func ParseTimeframe(s string) (Timeframe, error) {
	t := Timeframe(strings.ToLower(s))
	if _, ok := windows[t]; !ok {
		return "", fault.InvalidTimeframe
	}
	return t, nil
}

// Since - earliest time included in the window ending at now
//
// the zero time for All
func (t Timeframe) Since(now time.Time) time.Time {
	d := windows[t]
	if 0 == d {
		return time.Time{}
	}
	return now.Add(-d)
}

// LockEntry - network wide locked total at one time
type LockEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Locked    uint64    `json:"locked"`
	Holders   uint64    `json:"holders"`
}

// AirdropEntry - airdrop pool state at one time
type AirdropEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Distributed uint64    `json:"distributed"`
	Remaining   uint64    `json:"remaining"`
}

// Counts - number of snapshots held in each pool
type Counts struct {
	Locks    int `json:"locks"`
	Airdrops int `json:"airdrops"`
}

var log *logger.L

func getLog() *logger.L {
	if nil == log {
		log = logger.New("history")
	}
	return log
}

// RecordLock - store a lock snapshot and drop the oldest beyond the limit
func RecordLock(e LockEntry) error {
	return record(storage.Pool.NetworkLocks, e.Timestamp, e.Locked, e.Holders)
}

// RecordAirdrop - store an airdrop snapshot and drop the oldest beyond the limit
func RecordAirdrop(e AirdropEntry) error {
	return record(storage.Pool.Airdrop, e.Timestamp, e.Distributed, e.Remaining)
}

// Locks - lock snapshots inside the window, oldest first
func Locks(timeframe Timeframe, now time.Time) ([]LockEntry, error) {
	entries := []LockEntry{}
	err := scan(storage.Pool.NetworkLocks, timeframe, now, func(ts time.Time, a uint64, b uint64) {
		entries = append(entries, LockEntry{Timestamp: ts, Locked: a, Holders: b})
	})
	return entries, err
}

// Airdrops - airdrop snapshots inside the window, oldest first
func Airdrops(timeframe Timeframe, now time.Time) ([]AirdropEntry, error) {
	entries := []AirdropEntry{}
	err := scan(storage.Pool.Airdrop, timeframe, now, func(ts time.Time, a uint64, b uint64) {
		entries = append(entries, AirdropEntry{Timestamp: ts, Distributed: a, Remaining: b})
	})
	return entries, err
}

// LatestLock - most recent lock snapshot
func LatestLock() (LockEntry, bool) {
	e, found := storage.Pool.NetworkLocks.LastElement()
	if !found {
		return LockEntry{}, false
	}
	ts, a, b, err := unpack(e.Key, e.Value)
	if nil != err {
		return LockEntry{}, false
	}
	return LockEntry{Timestamp: ts, Locked: a, Holders: b}, true
}

// Stored - snapshot counts of both pools
func Stored() (Counts, error) {
	if nil == storage.Pool.NetworkLocks || nil == storage.Pool.Airdrop {
		return Counts{}, fault.NotInitialised
	}
	return Counts{
		Locks:    storage.Pool.NetworkLocks.Count(),
		Airdrops: storage.Pool.Airdrop.Count(),
	}, nil
}

// a snapshot already stored for the same instant is kept
func record(pool *storage.PoolHandle, ts time.Time, a uint64, b uint64) error {
	if nil == pool {
		return fault.NotInitialised
	}

	key := timestampKey(ts)
	if pool.Has(key) {
		getLog().Debugf("snapshot at: %s already recorded", ts)
		return nil
	}
	value := make([]byte, 16)
	binary.BigEndian.PutUint64(value[:8], a)
	binary.BigEndian.PutUint64(value[8:], b)

	if err := pool.Put(key, value); nil != err {
		return err
	}

	n, err := pool.TrimOldest(MaximumEntries)
	if nil != err {
		return err
	}
	if n > 0 {
		getLog().Debugf("trimmed %d old entries", n)
	}
	return nil
}

func scan(pool *storage.PoolHandle, timeframe Timeframe, now time.Time, f func(time.Time, uint64, uint64)) error {
	if nil == pool {
		return fault.NotInitialised
	}
	if _, ok := windows[timeframe]; !ok {
		return fault.InvalidTimeframe
	}

	cursor := pool.NewFetchCursor()
	if since := timeframe.Since(now); !since.IsZero() {
		cursor.Seek(timestampKey(since))
	}

	for {
		elements, err := cursor.Fetch(pageSize)
		if nil != err {
			return err
		}
		for _, e := range elements {
			ts, a, b, err := unpack(e.Key, e.Value)
			if nil != err {
				getLog().Warnf("skip corrupt entry: %x  error: %s", e.Key, err)
				continue
			}
			f(ts, a, b)
		}
		if len(elements) < pageSize {
			return nil
		}
	}
}

func timestampKey(ts time.Time) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(ts.UnixNano()))
	return key
}

func unpack(key []byte, value []byte) (time.Time, uint64, uint64, error) {
	if 8 != len(key) || 16 != len(value) {
		return time.Time{}, 0, 0, fault.RecordTooShort
	}
	ts := time.Unix(0, int64(binary.BigEndian.Uint64(key))).UTC()
	return ts, binary.BigEndian.Uint64(value[:8]), binary.BigEndian.Uint64(value[8:]), nil
}
