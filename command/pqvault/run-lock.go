// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

type lockReply struct {
	Vault     address.Address       `json:"vault"`
	Challenge vaultrecord.Challenge `json:"challenge"`
}

func runLock(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := m.owner()
	if nil != err {
		return err
	}
	lifecycle, err := m.lifecycle()
	if nil != err {
		return err
	}
	vaultAddress, err := address.Vault(owner.Address(), m.config.Program())
	if nil != err {
		return err
	}

	challenge, err := runTask(func(ctx context.Context) (vaultrecord.Challenge, error) {
		return lifecycle.Lock(ctx, owner)
	})
	if nil != err {
		return err
	}

	printJson(m.w, lockReply{
		Vault:     vaultAddress,
		Challenge: challenge,
	})
	return nil
}
