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

// account tags written by the program
var (
	VaultTag = [TagLength]byte{81, 235, 27, 116, 241, 246, 79, 58}
)

// Challenge - random value the vault owner must sign to unlock
type Challenge [ChallengeLength]byte

// MarshalText - hex text form for JSON output
func (c Challenge) MarshalText() ([]byte, error) {
	return HexBytes(c[:]).MarshalText()
}

// UnmarshalText - convert hex text back to a challenge
func (c *Challenge) UnmarshalText(s []byte) error {
	var h HexBytes
	if err := h.UnmarshalText(s); nil != err {
		return err
	}
	if ChallengeLength != len(h) {
		return fault.ChallengeLength
	}
	copy(c[:], h)
	return nil
}

// Vault - decoded vault record
type Vault struct {
	Owner     address.Address `json:"owner"`
	Algorithm uint8           `json:"algorithm"`
	PublicKey HexBytes        `json:"publicKey"`
	Locked    bool            `json:"locked"`
	Challenge Challenge       `json:"challenge"`
}

// ParseVault - decode a vault record
func ParseVault(data []byte) (*Vault, error) {
	l, err := LayoutOf(data)
	if nil != err {
		return nil, err
	}

	v := &Vault{
		Algorithm: data[AlgorithmOffset],
		PublicKey: append(HexBytes{}, data[KeyOffset:l.LockedOffset]...),
		Locked:    1 == data[l.LockedOffset],
	}
	copy(v.Owner[:], data[OwnerOffset:AlgorithmOffset])
	copy(v.Challenge[:], data[l.ChallengeOffset:l.ChallengeOffset+ChallengeLength])
	return v, nil
}

// Pack - encode a vault record
func (v *Vault) Pack() []byte {
	l := NewLayout(len(v.PublicKey))
	data := make([]byte, l.Size)
	copy(data, VaultTag[:])
	copy(data[OwnerOffset:], v.Owner[:])
	data[AlgorithmOffset] = v.Algorithm
	binary.LittleEndian.PutUint32(data[KeyLengthOffset:], uint32(len(v.PublicKey)))
	copy(data[KeyOffset:], v.PublicKey)
	if v.Locked {
		data[l.LockedOffset] = 1
	}
	copy(data[l.ChallengeOffset:], v.Challenge[:])
	return data
}

// Layout - offsets for this record
func (v *Vault) Layout() Layout {
	return NewLayout(len(v.PublicKey))
}
