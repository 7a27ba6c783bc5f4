// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stats

import (
	"context"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// DefaultAirdropCap - airdrop pool size in base units (3% of supply)
const DefaultAirdropCap = 128_849_018_880_000

// Airdrop - issuance and airdrop pool usage
type Airdrop struct {
	Authority   address.Address `json:"authority"`
	Asset       address.Address `json:"asset"`
	TotalMinted uint64          `json:"totalMinted"`
	Distributed uint64          `json:"distributed"`
	Remaining   uint64          `json:"remaining"`
	Cap         uint64          `json:"cap"`
}

// MintStats - read the mint state and measure it against the pool cap
func (a *Aggregator) MintStats(ctx context.Context, airdropCap uint64) (*Airdrop, error) {
	mintState, err := address.MintState(a.program)
	if nil != err {
		return nil, err
	}
	data, err := a.gateway.FetchAccount(ctx, mintState)
	if nil != err {
		return nil, err
	}
	m, err := vaultrecord.ParseMintState(data)
	if nil != err {
		return nil, err
	}

	remaining := uint64(0)
	if m.Distributed < airdropCap {
		remaining = airdropCap - m.Distributed
	}
	return &Airdrop{
		Authority:   m.Authority,
		Asset:       m.Asset,
		TotalMinted: m.TotalMinted,
		Distributed: m.Distributed,
		Remaining:   remaining,
		Cap:         airdropCap,
	}, nil
}
