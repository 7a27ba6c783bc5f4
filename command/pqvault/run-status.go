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

type statusReply struct {
	Vault  address.Address    `json:"vault"`
	Record *vaultrecord.Vault `json:"record"`
}

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := m.addressOrOwner(c.String("owner"), ErrInvalidOwner)
	if nil != err {
		return err
	}
	lifecycle, err := m.lifecycle()
	if nil != err {
		return err
	}

	vaultAddress, err := address.Vault(owner, m.config.Program())
	if nil != err {
		return err
	}

	record, err := runTask(func(ctx context.Context) (*vaultrecord.Vault, error) {
		return lifecycle.Status(ctx, owner)
	})
	if nil != err {
		return err
	}

	printJson(m.w, statusReply{
		Vault:  vaultAddress,
		Record: record,
	})
	return nil
}
