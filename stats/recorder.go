// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stats

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/background"
	"github.com/bitmark-inc/pqvault/history"
)

// Recorder - periodically snapshots network totals into history
type Recorder struct {
	aggregator *Aggregator
	asset      address.Address
	airdropCap uint64
	interval   time.Duration
	log        *logger.L
}

// check interface is satisfied
var _ background.Process = &Recorder{}

// NewRecorder - snapshot every interval once started
func NewRecorder(aggregator *Aggregator, asset address.Address, airdropCap uint64, interval time.Duration) *Recorder {
	return &Recorder{
		aggregator: aggregator,
		asset:      asset,
		airdropCap: airdropCap,
		interval:   interval,
		log:        logger.New("recorder"),
	}
}

// Record - take one snapshot of the lock total and the airdrop pool
//
// the lock total may come from the cache
func (r *Recorder) Record(ctx context.Context, force bool) (*NetworkLock, error) {
	n, err := r.aggregator.NetworkLocked(ctx, r.asset, force)
	if nil != err {
		return nil, err
	}
	err = history.RecordLock(history.LockEntry{
		Timestamp: n.Timestamp,
		Locked:    n.Locked,
		Holders:   uint64(n.Holders),
	})
	if nil != err {
		return nil, err
	}

	airdrop, err := r.aggregator.MintStats(ctx, r.airdropCap)
	if nil != err {
		r.log.Warnf("airdrop statistics unavailable: %s", err)
		return n, nil
	}
	err = history.RecordAirdrop(history.AirdropEntry{
		Timestamp:   time.Now(),
		Distributed: airdrop.Distributed,
		Remaining:   airdrop.Remaining,
	})
	if nil != err {
		return nil, err
	}
	return n, nil
}

// Run - background process loop
func (r *Recorder) Run(args interface{}, shutdown <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-shutdown
		cancel()
	}()

	r.log.Info("starting…")

loop:
	for {
		n, err := r.Record(ctx, false)
		if nil != err {
			r.log.Errorf("snapshot error: %s", err)
		} else {
			r.log.Infof("snapshot total: %d  holders: %d", n.Locked, n.Holders)
		}

		select {
		case <-shutdown:
			break loop
		case <-time.After(r.interval):
		}
	}

	r.log.Info("shutting down…")
}
