// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/background"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/sphincs"
	"github.com/bitmark-inc/pqvault/stats"
	"github.com/bitmark-inc/pqvault/vault"
)

// connect on first use
func (m *metadata) ledger() (ledger.Gateway, error) {
	if nil == m.gateway {
		g, err := ledger.NewRPC(m.config.Ledger())
		if nil != err {
			return nil, err
		}
		m.gateway = g
	}
	return m.gateway, nil
}

func (m *metadata) lifecycle() (*vault.Lifecycle, error) {
	g, err := m.ledger()
	if nil != err {
		return nil, err
	}
	return vault.New(g, m.config.Program(), m.config.TokenProgramAddress()), nil
}

func (m *metadata) aggregator() (*stats.Aggregator, error) {
	g, err := m.ledger()
	if nil != err {
		return nil, err
	}
	return stats.New(g, m.config.Program(), m.config.TokenProgramAddress(), m.config.CacheLifetime()), nil
}

func (m *metadata) owner() (*ledger.Keypair, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "ledger keypair: %s\n", m.config.Keypair)
	}
	return ledger.LoadKeypair(m.config.Keypair)
}

func (m *metadata) credentials() (*sphincs.KeyPair, error) {
	if m.verbose {
		fmt.Fprintf(m.e, "public key: %s\n", m.config.SphincsPublicKey)
		fmt.Fprintf(m.e, "private key: %s\n", m.config.SphincsPrivateKey)
	}
	return sphincs.LoadKeyPair(m.config.SphincsPublicKey, m.config.SphincsPrivateKey)
}

// an explicit address, otherwise the ledger keypair's
func (m *metadata) addressOrOwner(s string, invalid error) (address.Address, error) {
	if "" != s {
		a, err := address.FromBase58(s)
		if nil != err {
			return address.Address{}, invalid
		}
		return a, nil
	}
	owner, err := m.owner()
	if nil != err {
		return address.Address{}, err
	}
	return owner.Address(), nil
}

// run f as a background task and wait for it; an interrupt cancels
// the context so f stops before its next ledger round trip
func runTask[R any](f func(ctx context.Context) (R, error)) (R, error) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	task := background.Go(func() (R, error) {
		return f(ctx)
	})
	<-task.Done()
	return task.Wait()
}

// progress - writes one line per completed unlock step
type progress struct {
	w io.Writer
}

func (p *progress) Report(current int, total int, message string) {
	fmt.Fprintf(p.w, "[%2d/%d] %s\n", current, total, message)
}
