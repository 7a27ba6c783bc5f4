// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/stats"
	"github.com/bitmark-inc/pqvault/util"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

type airdropReply struct {
	*stats.Airdrop
	DistributedAmount string `json:"distributedAmount"`
	RemainingAmount   string `json:"remainingAmount"`
}

func runAirdrop(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	aggregator, err := m.aggregator()
	if nil != err {
		return err
	}

	airdrop, err := runTask(func(ctx context.Context) (*stats.Airdrop, error) {
		return aggregator.MintStats(ctx, m.config.AirdropCap)
	})
	if nil != err {
		return err
	}

	printJson(m.w, airdropReply{
		Airdrop:           airdrop,
		DistributedAmount: util.FormatAmount(airdrop.Distributed, vaultrecord.TokenDecimals),
		RemainingAmount:   util.FormatAmount(airdrop.Remaining, vaultrecord.TokenDecimals),
	})
	return nil
}
