// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/history"
	"github.com/bitmark-inc/pqvault/storage"
)

type historyReply struct {
	Timeframe history.Timeframe      `json:"timeframe"`
	Since     *time.Time             `json:"since,omitempty"`
	Latest    *history.LockEntry     `json:"latest,omitempty"`
	Change    int64                  `json:"change"`
	Stored    history.Counts         `json:"stored"`
	Locks     []history.LockEntry    `json:"locks"`
	Airdrops  []history.AirdropEntry `json:"airdrops"`
}

func runHistory(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	timeframe, err := history.ParseTimeframe(c.String("timeframe"))
	if nil != err {
		return err
	}

	err = storage.Initialise(m.config.Database, storage.ReadWrite)
	if nil != err {
		return err
	}
	defer storage.Finalise()

	reply, err := historyWindow(timeframe, time.Now())
	if nil != err {
		return err
	}

	printJson(m.w, reply)
	return nil
}

// collect both histories for one window
func historyWindow(timeframe history.Timeframe, now time.Time) (*historyReply, error) {
	locks, err := history.Locks(timeframe, now)
	if nil != err {
		return nil, err
	}
	airdrops, err := history.Airdrops(timeframe, now)
	if nil != err {
		return nil, err
	}

	stored, err := history.Stored()
	if nil != err {
		return nil, err
	}

	reply := &historyReply{
		Timeframe: timeframe,
		Stored:    stored,
		Change:    lockChange(locks),
		Locks:     locks,
		Airdrops:  airdrops,
	}
	if since := timeframe.Since(now); !since.IsZero() {
		reply.Since = &since
	}
	if latest, ok := history.LatestLock(); ok {
		reply.Latest = &latest
	}
	return reply, nil
}

// locked total difference between the newest and oldest entries
func lockChange(locks []history.LockEntry) int64 {
	if len(locks) < 2 {
		return 0
	}
	return int64(locks[len(locks)-1].Locked) - int64(locks[0].Locked)
}
