// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/util"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

type balanceReply struct {
	Owner   address.Address `json:"owner"`
	Mint    address.Address `json:"mint"`
	Balance uint64          `json:"balance"`
	Amount  string          `json:"amount"`
}

func runBalance(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := m.addressOrOwner(c.String("owner"), ErrInvalidOwner)
	if nil != err {
		return err
	}
	lifecycle, err := m.lifecycle()
	if nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "owner: %s\n", owner)
		fmt.Fprintf(m.e, "mint: %s\n", m.config.MintAddress())
	}

	balance, err := runTask(func(ctx context.Context) (uint64, error) {
		return lifecycle.Balance(ctx, owner, m.config.MintAddress())
	})

	// no token account reads as an empty balance
	if nil != err && !fault.IsErrNotFound(err) {
		return err
	}

	printJson(m.w, balanceReply{
		Owner:   owner,
		Mint:    m.config.MintAddress(),
		Balance: balance,
		Amount:  util.FormatAmount(balance, vaultrecord.TokenDecimals),
	})
	return nil
}
