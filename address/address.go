// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address - ledger addresses and program derived addresses
//
// An address is a 32 byte value shown as base58 text.  Program
// derived addresses are computed locally from seeds and never have a
// corresponding private key.
package address

import (
	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/pqvault/fault"
)

// Length - bytes in an address
const Length = 32

// Address - a ledger account or program identity
type Address [Length]byte

// well known programs
var (
	SystemProgram          = MustFromBase58("11111111111111111111111111111111")
	TokenProgram2022       = MustFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgram = MustFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

// FromBase58 - decode the text form of an address
func FromBase58(s string) (Address, error) {
	a := Address{}
	buffer, err := base58.Decode(s)
	if nil != err || Length != len(buffer) {
		return a, fault.InvalidAddress
	}
	copy(a[:], buffer)
	return a, nil
}

// MustFromBase58 - decode a compiled-in address, panics on error
func MustFromBase58(s string) Address {
	a, err := FromBase58(s)
	if nil != err {
		panic("invalid compiled-in address: " + s)
	}
	return a
}

// FromBytes - convert a byte slice into an address
func FromBytes(buffer []byte) (Address, error) {
	a := Address{}
	if Length != len(buffer) {
		return a, fault.InvalidAddress
	}
	copy(a[:], buffer)
	return a, nil
}

// Bytes - the address as a byte slice
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero - true for the all zero address
func (a Address) IsZero() bool {
	return Address{} == a
}

// String - base58 text form
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalText - for JSON output
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - convert base58 text back to an address
func (a *Address) UnmarshalText(s []byte) error {
	r, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*a = r
	return nil
}
