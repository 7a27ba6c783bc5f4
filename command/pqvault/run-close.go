// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/ledger"
)

type closeReply struct {
	Vault    address.Address `json:"vault"`
	Receiver address.Address `json:"receiver"`
	TxId     ledger.TxId     `json:"txId"`
}

func runClose(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := m.owner()
	if nil != err {
		return err
	}

	receiver := owner.Address()
	if s := c.String("receiver"); "" != s {
		receiver, err = address.FromBase58(s)
		if nil != err {
			return ErrInvalidReceiver
		}
	}

	lifecycle, err := m.lifecycle()
	if nil != err {
		return err
	}
	vaultAddress, err := address.Vault(owner.Address(), m.config.Program())
	if nil != err {
		return err
	}

	txId, err := runTask(func(ctx context.Context) (ledger.TxId, error) {
		return lifecycle.Close(ctx, owner, receiver)
	})
	if nil != err {
		return err
	}

	printJson(m.w, closeReply{
		Vault:    vaultAddress,
		Receiver: receiver,
		TxId:     txId,
	})
	return nil
}
