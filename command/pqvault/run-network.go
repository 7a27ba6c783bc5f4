// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/stats"
	"github.com/bitmark-inc/pqvault/storage"
	"github.com/bitmark-inc/pqvault/util"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

type networkReply struct {
	*stats.NetworkLock
	Amount   string `json:"amount"`
	Recorded bool   `json:"recorded"`
}

func runNetwork(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	force := c.Bool("force")
	record := c.Bool("record")

	aggregator, err := m.aggregator()
	if nil != err {
		return err
	}
	asset := m.config.MintAddress()

	if m.verbose {
		fmt.Fprintf(m.e, "asset: %s\n", asset)
		fmt.Fprintf(m.e, "force: %t  record: %t\n", force, record)
	}

	var n *stats.NetworkLock
	if record {
		err = storage.Initialise(m.config.Database, storage.ReadWrite)
		if nil != err {
			return err
		}
		defer storage.Finalise()

		recorder := stats.NewRecorder(aggregator, asset, m.config.AirdropCap, m.config.Snapshot())
		n, err = runTask(func(ctx context.Context) (*stats.NetworkLock, error) {
			return recorder.Record(ctx, force)
		})
	} else {
		n, err = runTask(func(ctx context.Context) (*stats.NetworkLock, error) {
			return aggregator.NetworkLocked(ctx, asset, force)
		})
	}
	if nil != err {
		return err
	}

	printJson(m.w, networkReply{
		NetworkLock: n,
		Amount:      util.FormatAmount(n.Locked, vaultrecord.TokenDecimals),
		Recorded:    record,
	})
	return nil
}
