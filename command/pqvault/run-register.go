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
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

type registerReply struct {
	Vault     address.Address      `json:"vault"`
	Owner     address.Address      `json:"owner"`
	Algorithm uint8                `json:"algorithm"`
	PublicKey vaultrecord.HexBytes `json:"publicKey"`
	TxId      ledger.TxId          `json:"txId"`
}

func runRegister(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := m.owner()
	if nil != err {
		return err
	}
	credentials, err := m.credentials()
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
	if m.verbose {
		fmt.Fprintf(m.e, "owner: %s\n", owner.Address())
		fmt.Fprintf(m.e, "vault: %s\n", vaultAddress)
	}

	txId, err := runTask(func(ctx context.Context) (ledger.TxId, error) {
		return lifecycle.Register(ctx, owner, vaultrecord.AlgorithmSphincsSHA2128s, credentials.PublicKey())
	})
	if nil != err {
		return err
	}

	printJson(m.w, registerReply{
		Vault:     vaultAddress,
		Owner:     owner.Address(),
		Algorithm: vaultrecord.AlgorithmSphincsSHA2128s,
		PublicKey: credentials.PublicKey(),
		TxId:      txId,
	})
	return nil
}
