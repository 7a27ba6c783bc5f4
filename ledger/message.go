// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
)

// MaximumTransactionSize - largest serialised transaction the ledger accepts
const MaximumTransactionSize = 1232

const signatureLength = 64

// Blockhash - recent ledger hash that bounds a transaction's lifetime
type Blockhash [32]byte

// account entry while compiling a message
type keyEntry struct {
	address  address.Address
	signer   bool
	writable bool
}

type compiledInstruction struct {
	programIndex byte
	accounts     []byte
	data         []byte
}

// Message - the signed portion of a transaction
type Message struct {
	RequiredSignatures  byte
	ReadOnlySigned      byte
	ReadOnlyUnsigned    byte
	Keys                []address.Address
	RecentBlockhash     Blockhash
	instructions        []compiledInstruction
}

// CompileMessage - order and deduplicate every referenced account
//
// the fee payer is always first; then writable signers, read-only
// signers, writable non-signers and read-only non-signers, each group
// in order of first appearance
func CompileMessage(instructions []Instruction, feePayer address.Address, blockhash Blockhash) (*Message, error) {

	entries := []*keyEntry{{address: feePayer, signer: true, writable: true}}
	index := map[address.Address]*keyEntry{feePayer: entries[0]}

	add := func(a address.Address, signer bool, writable bool) {
		if e, ok := index[a]; ok {
			e.signer = e.signer || signer
			e.writable = e.writable || writable
			return
		}
		e := &keyEntry{address: a, signer: signer, writable: writable}
		index[a] = e
		entries = append(entries, e)
	}

	for _, instruction := range instructions {
		for _, meta := range instruction.Accounts {
			add(meta.Address, meta.Signer, meta.Writable)
		}
		add(instruction.Program, false, false)
	}

	ordered := make([]address.Address, 0, len(entries))
	ordered = append(ordered, feePayer)
	m := &Message{
		RecentBlockhash: blockhash,
	}

	groups := []struct {
		signer   bool
		writable bool
	}{
		{true, true},
		{true, false},
		{false, true},
		{false, false},
	}
	for _, g := range groups {
		for _, e := range entries[1:] {
			if e.signer != g.signer || e.writable != g.writable {
				continue
			}
			ordered = append(ordered, e.address)
		}
	}

	for _, a := range ordered {
		e := index[a]
		if e.signer {
			m.RequiredSignatures += 1
			if !e.writable {
				m.ReadOnlySigned += 1
			}
		} else if !e.writable {
			m.ReadOnlyUnsigned += 1
		}
	}
	if len(ordered) > 256 {
		return nil, fault.TransactionTooLarge
	}
	m.Keys = ordered

	position := make(map[address.Address]byte, len(ordered))
	for i, a := range ordered {
		position[a] = byte(i)
	}

	for _, instruction := range instructions {
		c := compiledInstruction{
			programIndex: position[instruction.Program],
			accounts:     make([]byte, len(instruction.Accounts)),
			data:         instruction.Data,
		}
		for i, meta := range instruction.Accounts {
			c.accounts[i] = position[meta.Address]
		}
		m.instructions = append(m.instructions, c)
	}
	return m, nil
}

// Signers - the accounts that must sign, in signature order
func (m *Message) Signers() []address.Address {
	return m.Keys[:m.RequiredSignatures]
}

// Pack - serialise the message for signing
func (m *Message) Pack() []byte {
	buffer := []byte{m.RequiredSignatures, m.ReadOnlySigned, m.ReadOnlyUnsigned}

	buffer = appendCompactU16(buffer, len(m.Keys))
	for _, k := range m.Keys {
		buffer = append(buffer, k[:]...)
	}
	buffer = append(buffer, m.RecentBlockhash[:]...)

	buffer = appendCompactU16(buffer, len(m.instructions))
	for _, c := range m.instructions {
		buffer = append(buffer, c.programIndex)
		buffer = appendCompactU16(buffer, len(c.accounts))
		buffer = append(buffer, c.accounts...)
		buffer = appendCompactU16(buffer, len(c.data))
		buffer = append(buffer, c.data...)
	}
	return buffer
}

// SignTransaction - sign a message with every required signer and
// produce the wire form of the transaction
func SignTransaction(m *Message, signers []Signer) (TxId, []byte, error) {
	available := make(map[address.Address]Signer, len(signers))
	for _, s := range signers {
		available[s.Address()] = s
	}

	packed := m.Pack()
	required := m.Signers()

	buffer := appendCompactU16(nil, len(required))
	txId := TxId{}
	for i, a := range required {
		s, ok := available[a]
		if !ok {
			return TxId{}, nil, fault.MissingSigner
		}
		signature := s.Sign(packed)
		if signatureLength != len(signature) {
			return TxId{}, nil, fault.InvalidKeypair
		}
		if 0 == i {
			copy(txId[:], signature)
		}
		buffer = append(buffer, signature...)
	}
	buffer = append(buffer, packed...)

	if len(buffer) > MaximumTransactionSize {
		return TxId{}, nil, fault.TransactionTooLarge
	}
	return txId, buffer, nil
}

// seven bits per byte, high bit set on all but the last, at most three bytes
func appendCompactU16(buffer []byte, n int) []byte {
	v := uint16(n)
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if 0 == v {
			return append(buffer, b)
		}
		buffer = append(buffer, b|0x80)
	}
}
