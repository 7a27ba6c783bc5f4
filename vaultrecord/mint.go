// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultrecord

import (
	"encoding/binary"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
)

// mint state record offsets
const (
	mintAuthorityOffset   = 8
	mintAssetOffset       = 40
	mintTotalOffset       = 72
	mintDistributedOffset = 152
	mintStateSize         = 160
)

// token account offsets
const (
	tokenMintOffset   = 0
	tokenOwnerOffset  = 32
	tokenAmountOffset = 64
	tokenAccountSize  = 165
)

// TokenDecimals - display precision of the asset
const TokenDecimals = 6

// MintState - the program's global issuance record
type MintState struct {
	Authority   address.Address `json:"authority"`
	Asset       address.Address `json:"asset"`
	TotalMinted uint64          `json:"totalMinted"`
	Distributed uint64          `json:"distributed"`
}

// ParseMintState - decode the global issuance record
func ParseMintState(data []byte) (*MintState, error) {
	if len(data) < mintStateSize {
		return nil, fault.RecordTooShort
	}
	m := &MintState{
		TotalMinted: binary.LittleEndian.Uint64(data[mintTotalOffset:]),
		Distributed: binary.LittleEndian.Uint64(data[mintDistributedOffset:]),
	}
	copy(m.Authority[:], data[mintAuthorityOffset:mintAssetOffset])
	copy(m.Asset[:], data[mintAssetOffset:mintTotalOffset])
	return m, nil
}

// Pack - encode a mint state record
func (m *MintState) Pack() []byte {
	data := make([]byte, mintStateSize)
	copy(data[mintAuthorityOffset:], m.Authority[:])
	copy(data[mintAssetOffset:], m.Asset[:])
	binary.LittleEndian.PutUint64(data[mintTotalOffset:], m.TotalMinted)
	binary.LittleEndian.PutUint64(data[mintDistributedOffset:], m.Distributed)
	return data
}

// TokenAmount - balance held in a token account
func TokenAmount(data []byte) (uint64, error) {
	if len(data) < tokenAmountOffset+8 {
		return 0, fault.RecordTooShort
	}
	return binary.LittleEndian.Uint64(data[tokenAmountOffset:]), nil
}

// PackTokenAccount - encode the base part of a token account
func PackTokenAccount(mint address.Address, owner address.Address, amount uint64) []byte {
	data := make([]byte, tokenAccountSize)
	copy(data[tokenMintOffset:], mint[:])
	copy(data[tokenOwnerOffset:], owner[:])
	binary.LittleEndian.PutUint64(data[tokenAmountOffset:], amount)
	return data
}
