// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vaultrecord - byte layouts of the vault program's records
// and the payloads of its instructions
//
// vault record:
//   [8 tag][32 owner][1 algorithm][4 key length LE][key][1 locked][32 challenge]
//
// everything after the key moves with the key length, so all offsets
// come from a Layout computed once from that length
package vaultrecord

import (
	"encoding/binary"

	"github.com/bitmark-inc/pqvault/fault"
)

// fixed part of the vault record
const (
	TagLength         = 8
	OwnerOffset       = 8
	AlgorithmOffset   = 40
	KeyLengthOffset   = 41
	KeyOffset         = 45
	ChallengeLength   = 32
	StandardKeyLength = 32
)

// algorithm identifiers stored in the record
const (
	AlgorithmSphincsSHA2128s uint8 = 2
)

// Layout - offsets that depend on the stored public key length
type Layout struct {
	KeyLength       int
	LockedOffset    int
	ChallengeOffset int
	Size            int
}

// Standard - layout for the usual 32 byte public key
var Standard = NewLayout(StandardKeyLength)

// NewLayout - compute the offsets for a given key length
func NewLayout(keyLength int) Layout {
	locked := KeyOffset + keyLength
	return Layout{
		KeyLength:       keyLength,
		LockedOffset:    locked,
		ChallengeOffset: locked + 1,
		Size:            locked + 1 + ChallengeLength,
	}
}

// LayoutOf - read the key length from a record and derive its layout
func LayoutOf(data []byte) (Layout, error) {
	if len(data) < KeyOffset {
		return Layout{}, fault.RecordTooShort
	}
	keyLength := int(binary.LittleEndian.Uint32(data[KeyLengthOffset:KeyOffset]))
	l := NewLayout(keyLength)
	if len(data) < l.Size {
		return Layout{}, fault.RecordTooShort
	}
	return l, nil
}
