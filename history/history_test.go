// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package history_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/fixtures"
	"github.com/bitmark-inc/pqvault/history"
	"github.com/bitmark-inc/pqvault/storage"
)

const databaseFileName = "history-test.leveldb"

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) {
	fixtures.SetupTestLogger()
	os.RemoveAll(databaseFileName)
	err := storage.Initialise(databaseFileName, storage.ReadWrite)
	require.NoError(t, err, "storage initialise")
}

func teardown() {
	storage.Finalise()
	os.RemoveAll(databaseFileName)
	fixtures.TeardownTestLogger()
}

func TestParseTimeframe(t *testing.T) {
	for _, s := range []string{"5m", "1D", "5d", "1w", "1M", "ALL"} {
		_, err := history.ParseTimeframe(s)
		assert.NoError(t, err, "timeframe: %s", s)
	}
	_, err := history.ParseTimeframe("2y")
	assert.Equal(t, fault.InvalidTimeframe, err, "unknown")

	assert.Equal(t, now.Add(-7*24*time.Hour), history.OneWeek.Since(now), "one week")
	assert.True(t, history.All.Since(now).IsZero(), "all")
}

func TestLockTimeframes(t *testing.T) {
	setup(t)
	defer teardown()

	ages := []time.Duration{
		40 * 24 * time.Hour,
		6 * 24 * time.Hour,
		2 * 24 * time.Hour,
		3 * time.Hour,
		2 * time.Minute,
	}
	for i, age := range ages {
		err := history.RecordLock(history.LockEntry{
			Timestamp: now.Add(-age),
			Locked:    uint64(1000 * (i + 1)),
			Holders:   uint64(i + 1),
		})
		require.NoError(t, err, "record: %d", i)
	}

	counts := map[history.Timeframe]int{
		history.FiveMinutes: 1,
		history.OneDay:      2,
		history.FiveDays:    3,
		history.OneWeek:     4,
		history.OneMonth:    4,
		history.All:         5,
	}
	for timeframe, expected := range counts {
		entries, err := history.Locks(timeframe, now)
		require.NoError(t, err, "timeframe: %s", timeframe)
		assert.Len(t, entries, expected, "timeframe: %s", timeframe)
	}

	entries, err := history.Locks(history.All, now)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), entries[0].Locked, "oldest first")
	assert.True(t, now.Add(-ages[0]).Equal(entries[0].Timestamp), "timestamp restored")

	latest, found := history.LatestLock()
	assert.True(t, found, "latest")
	assert.Equal(t, uint64(5000), latest.Locked, "latest amount")
	assert.Equal(t, uint64(5), latest.Holders, "latest holders")

	_, err = history.Locks(history.Timeframe("2y"), now)
	assert.Equal(t, fault.InvalidTimeframe, err, "unknown timeframe")
}

func TestLockHistoryIsCapped(t *testing.T) {
	setup(t)
	defer teardown()

	start := now.Add(-1000 * time.Hour)
	for i := 0; i < history.MaximumEntries+5; i += 1 {
		err := history.RecordLock(history.LockEntry{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Locked:    uint64(i),
		})
		require.NoError(t, err, "record: %d", i)
	}

	entries, err := history.Locks(history.All, now)
	require.NoError(t, err)
	assert.Len(t, entries, history.MaximumEntries, "capped")
	assert.Equal(t, uint64(5), entries[0].Locked, "oldest dropped first")
	for i, e := range entries {
		assert.Equal(t, uint64(i+5), e.Locked, "entry: %d read once and in order across pages", i)
	}

	counts, err := history.Stored()
	require.NoError(t, err)
	assert.Equal(t, history.MaximumEntries, counts.Locks, "stored locks")
	assert.Equal(t, 0, counts.Airdrops, "stored airdrops")
}

func TestSameTimestampKeepsFirstSnapshot(t *testing.T) {
	setup(t)
	defer teardown()

	err := history.RecordLock(history.LockEntry{Timestamp: now, Locked: 400, Holders: 4})
	require.NoError(t, err)
	err = history.RecordLock(history.LockEntry{Timestamp: now, Locked: 999, Holders: 9})
	require.NoError(t, err, "repeat is not an error")

	entries, err := history.Locks(history.All, now)
	require.NoError(t, err)
	require.Len(t, entries, 1, "one snapshot")
	assert.Equal(t, uint64(400), entries[0].Locked, "first value kept")
	assert.Equal(t, uint64(4), entries[0].Holders, "first holders kept")

	counts, err := history.Stored()
	require.NoError(t, err)
	assert.Equal(t, history.Counts{Locks: 1, Airdrops: 0}, counts, "counts")
}

func TestAirdropHistory(t *testing.T) {
	setup(t)
	defer teardown()

	err := history.RecordAirdrop(history.AirdropEntry{Timestamp: now.Add(-time.Hour), Distributed: 10, Remaining: 90})
	require.NoError(t, err)
	err = history.RecordAirdrop(history.AirdropEntry{Timestamp: now, Distributed: 25, Remaining: 75})
	require.NoError(t, err)

	entries, err := history.Airdrops(history.All, now)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(25), entries[1].Distributed, "distributed")
	assert.Equal(t, uint64(75), entries[1].Remaining, "remaining")

	locks, err := history.Locks(history.All, now)
	require.NoError(t, err)
	assert.Empty(t, locks, "separate pools")
}
