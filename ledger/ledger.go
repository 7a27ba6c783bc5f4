// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - access to the smart-contract ledger
//
// The Gateway interface is the only path by which the rest of the
// system reads or changes ledger state.  Every Submit is a single
// blocking round trip that returns only after the transaction is
// confirmed or has definitely failed.
package ledger

import (
	"context"

	"github.com/mr-tron/base58"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
)

// MaximumBatch - most accounts that may be fetched in one request
const MaximumBatch = 100

// AccountMeta - one account referenced by an instruction
type AccountMeta struct {
	Address  address.Address
	Signer   bool
	Writable bool
}

// Writable - a writable non-signer account
func Writable(a address.Address) AccountMeta {
	return AccountMeta{Address: a, Writable: true}
}

// ReadOnly - a read-only non-signer account
func ReadOnly(a address.Address) AccountMeta {
	return AccountMeta{Address: a}
}

// WritableSigner - an account that signs and may be debited
func WritableSigner(a address.Address) AccountMeta {
	return AccountMeta{Address: a, Signer: true, Writable: true}
}

// ReadOnlySigner - an account that signs but is not modified
func ReadOnlySigner(a address.Address) AccountMeta {
	return AccountMeta{Address: a, Signer: true}
}

// Instruction - a single program invocation
type Instruction struct {
	Program  address.Address
	Accounts []AccountMeta
	Data     []byte
}

// TxId - the first signature of a transaction identifies it
type TxId [64]byte

// String - base58 text form
func (t TxId) String() string {
	return base58.Encode(t[:])
}

// MarshalText - for JSON output
func (t TxId) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText - convert base58 text back to a transaction id
func (t *TxId) UnmarshalText(s []byte) error {
	buffer, err := base58.Decode(string(s))
	if nil != err {
		return err
	}
	if len(t) != len(buffer) {
		return fault.InvalidTransactionId
	}
	copy(t[:], buffer)
	return nil
}

// KeyedAccount - account data returned by a scan
type KeyedAccount struct {
	Address address.Address
	Data    []byte
}

// Memcmp - bytes expected at an offset of the account data
type Memcmp struct {
	Offset int
	Bytes  []byte
}

// ScanFilter - select accounts of exactly DataSize bytes (when non-zero)
// matching every Memcmp and return only the Slice of their data
type ScanFilter struct {
	Matches     []Memcmp
	DataSize    int
	SliceOffset int
	SliceLength int
}

// Signer - holder of a ledger signing key
type Signer interface {
	Address() address.Address
	Sign(message []byte) []byte
}

// Gateway - operations against the ledger
//
// FetchAccount returns fault.AccountNotFound for an absent account.
// FetchAccountsBatch returns one entry per address, nil for absent
// ones, and rejects more than MaximumBatch addresses.
type Gateway interface {
	Submit(ctx context.Context, instructions []Instruction, feePayer Signer, signers ...Signer) (TxId, error)
	FetchAccount(ctx context.Context, account address.Address) ([]byte, error)
	FetchAccountsBatch(ctx context.Context, accounts []address.Address) ([][]byte, error)
	ScanFilteredAccounts(ctx context.Context, program address.Address, filter ScanFilter) ([]KeyedAccount, error)
}
