// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/sphincs"
	"github.com/bitmark-inc/pqvault/util"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

type generateReply struct {
	PublicKey vaultrecord.HexBytes `json:"publicKey"`
	Directory string               `json:"directory"`
	Owner     *address.Address     `json:"owner,omitempty"`
}

func runGenerate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	directory := filepath.Dir(m.config.SphincsPublicKey)
	if m.verbose {
		fmt.Fprintf(m.e, "key directory: %s\n", directory)
	}

	withLedger := c.Bool("ledger")
	if withLedger && util.EnsureFileExists(m.config.Keypair) {
		return fault.KeyFileExists
	}

	keyPair, err := sphincs.Generate(directory)
	if nil != err {
		return err
	}

	reply := generateReply{
		PublicKey: keyPair.PublicKey(),
		Directory: directory,
	}

	if withLedger {
		owner, err := generateLedgerKeypair(m.config.Keypair)
		if nil != err {
			return err
		}
		a := owner.Address()
		reply.Owner = &a
	}

	printJson(m.w, reply)
	return nil
}

// write a fresh ed25519 keypair in the JSON array form LoadKeypair reads
func generateLedgerKeypair(fileName string) (*ledger.Keypair, error) {
	if util.EnsureFileExists(fileName) {
		return nil, fault.KeyFileExists
	}

	keypair, err := ledger.NewKeypair()
	if nil != err {
		return nil, err
	}
	data, err := json.Marshal(keypair)
	if nil != err {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fileName), 0700); nil != err {
		return nil, err
	}
	if err := os.WriteFile(fileName, data, 0600); nil != err {
		return nil, err
	}
	return keypair, nil
}
