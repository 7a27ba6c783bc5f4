// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledgertest - an in-memory ledger running the vault program
//
// Ledger implements ledger.Gateway and enforces the same ordering and
// ownership rules as the on-ledger program so that the client side
// protocol can be tested without a network.
package ledgertest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// SignatureLength - size of the scratch buffer the program allocates
const SignatureLength = 7856

// MaximumChunk - largest upload the program accepts
const MaximumChunk = 800

// Verifier - decides whether a signature is valid for a key and message
type Verifier func(publicKey []byte, message []byte, signature []byte) bool

// verification steps after init, in the only order the program accepts
var stepOrder = func() []vaultrecord.Discriminator {
	s := []vaultrecord.Discriminator{
		vaultrecord.ForsBatch1Code,
		vaultrecord.ForsBatch2Code,
		vaultrecord.ForsRootCode,
	}
	for layer := 0; layer < 7; layer += 1 {
		s = append(s,
			vaultrecord.WotsPart1Code,
			vaultrecord.WotsPart2Code,
			vaultrecord.WotsPart3Code,
			vaultrecord.MerkleCode,
		)
	}
	return append(s, vaultrecord.FinalizeCode)
}()

type storage struct {
	identifier string
	publicKey  []byte
	message    []byte
	buffer     []byte
}

type verification struct {
	storage   address.Address
	publicKey []byte
	message   []byte
	next      int
	done      bool
}

type account struct {
	owner address.Address
	data  []byte
}

// Ledger - simulated ledger state
type Ledger struct {
	sync.Mutex
	program  address.Address
	verify   Verifier
	accounts map[address.Address]account
	storages map[address.Address]storage
	states   map[address.Address]verification

	nonce       uint64
	failures    map[vaultrecord.Discriminator]error
	submissions map[vaultrecord.Discriminator]int
	log         []vaultrecord.Discriminator
	scans       int
	batches     int
}

// check interface is satisfied
var _ ledger.Gateway = &Ledger{}

// New - empty ledger hosting the vault program
func New(program address.Address, verify Verifier) *Ledger {
	if nil == verify {
		verify = FakeVerify
	}
	return &Ledger{
		program:     program,
		verify:      verify,
		accounts:    make(map[address.Address]account),
		storages:    make(map[address.Address]storage),
		states:      make(map[address.Address]verification),
		failures:    make(map[vaultrecord.Discriminator]error),
		submissions: make(map[vaultrecord.Discriminator]int),
	}
}

// FakeSignature - deterministic stand-in for a post-quantum signature
func FakeSignature(publicKey []byte, message []byte) []byte {
	signature := make([]byte, 0, SignatureLength+sha256.Size)
	counter := uint32(0)
	for len(signature) < SignatureLength {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], counter)
		h := sha256.New()
		h.Write(publicKey)
		h.Write(message)
		h.Write(n[:])
		signature = h.Sum(signature)
		counter += 1
	}
	return signature[:SignatureLength]
}

// FakeVerify - accepts only FakeSignature output
func FakeVerify(publicKey []byte, message []byte, signature []byte) bool {
	return bytes.Equal(FakeSignature(publicKey, message), signature)
}

// SetAccount - place raw account data owned by a program
func (l *Ledger) SetAccount(a address.Address, owner address.Address, data []byte) {
	l.Lock()
	defer l.Unlock()
	l.accounts[a] = account{owner: owner, data: append([]byte{}, data...)}
}

// SetVault - place a vault record at its derived address
func (l *Ledger) SetVault(v *vaultrecord.Vault) address.Address {
	a, err := address.Vault(v.Owner, l.program)
	if nil != err {
		panic(err)
	}
	l.SetAccount(a, l.program, v.Pack())
	return a
}

// FailNext - make the next instruction with this selector fail
func (l *Ledger) FailNext(code vaultrecord.Discriminator, err error) {
	l.Lock()
	defer l.Unlock()
	l.failures[code] = err
}

// Submissions - number of accepted instructions with a selector
func (l *Ledger) Submissions(code vaultrecord.Discriminator) int {
	l.Lock()
	defer l.Unlock()
	return l.submissions[code]
}

// History - selectors of every accepted instruction in order
func (l *Ledger) History() []vaultrecord.Discriminator {
	l.Lock()
	defer l.Unlock()
	return append([]vaultrecord.Discriminator{}, l.log...)
}

// Scans - number of filtered scans performed
func (l *Ledger) Scans() int {
	l.Lock()
	defer l.Unlock()
	return l.scans
}

// Batches - number of batch fetches performed
func (l *Ledger) Batches() int {
	l.Lock()
	defer l.Unlock()
	return l.batches
}

// StorageBuffer - copy of a signature storage buffer, nil if absent
func (l *Ledger) StorageBuffer(a address.Address) []byte {
	l.Lock()
	defer l.Unlock()
	s, ok := l.storages[a]
	if !ok {
		return nil
	}
	return append([]byte{}, s.buffer...)
}

// FetchAccount - read one account
func (l *Ledger) FetchAccount(ctx context.Context, a address.Address) ([]byte, error) {
	if err := ctx.Err(); nil != err {
		return nil, fault.Transport("fetch", err)
	}

	l.Lock()
	defer l.Unlock()
	acc, ok := l.accounts[a]
	if !ok {
		return nil, fault.AccountNotFound
	}
	return append([]byte{}, acc.data...), nil
}

// FetchAccountsBatch - read several accounts, nil for absent ones
func (l *Ledger) FetchAccountsBatch(ctx context.Context, accounts []address.Address) ([][]byte, error) {
	if len(accounts) > ledger.MaximumBatch {
		return nil, fault.BatchTooLarge
	}
	l.Lock()
	defer l.Unlock()
	l.batches += 1

	result := make([][]byte, len(accounts))
	for i, a := range accounts {
		if acc, ok := l.accounts[a]; ok {
			result[i] = append([]byte{}, acc.data...)
		}
	}
	return result, nil
}

// ScanFilteredAccounts - program accounts matching the filter
func (l *Ledger) ScanFilteredAccounts(ctx context.Context, program address.Address, filter ledger.ScanFilter) ([]ledger.KeyedAccount, error) {
	l.Lock()
	defer l.Unlock()
	l.scans += 1

	result := []ledger.KeyedAccount{}
	for a, acc := range l.accounts {
		if acc.owner != program {
			continue
		}
		if !matches(acc.data, filter) {
			continue
		}
		data := acc.data
		if filter.SliceLength > 0 {
			from := filter.SliceOffset
			to := from + filter.SliceLength
			if from > len(data) {
				from = len(data)
			}
			if to > len(data) {
				to = len(data)
			}
			data = data[from:to]
		}
		result = append(result, ledger.KeyedAccount{Address: a, Data: append([]byte{}, data...)})
	}
	return result, nil
}

func matches(data []byte, filter ledger.ScanFilter) bool {
	if filter.DataSize > 0 && len(data) != filter.DataSize {
		return false
	}
	for _, m := range filter.Matches {
		end := m.Offset + len(m.Bytes)
		if end > len(data) || !bytes.Equal(data[m.Offset:end], m.Bytes) {
			return false
		}
	}
	return true
}

// Submit - apply all instructions atomically
func (l *Ledger) Submit(ctx context.Context, instructions []ledger.Instruction, feePayer ledger.Signer, signers ...ledger.Signer) (ledger.TxId, error) {
	if err := ctx.Err(); nil != err {
		return ledger.TxId{}, fault.Transport("submit", err)
	}

	l.Lock()
	defer l.Unlock()

	signed := map[address.Address]bool{feePayer.Address(): true}
	for _, s := range signers {
		signed[s.Address()] = true
	}

	// snapshot for rollback
	accounts := copyMap(l.accounts)
	storages := copyMap(l.storages)
	states := copyMap(l.states)
	rollback := func() {
		l.accounts = accounts
		l.storages = storages
		l.states = states
	}

	applied := []vaultrecord.Discriminator{}
	for i, instruction := range instructions {
		for _, meta := range instruction.Accounts {
			if meta.Signer && !signed[meta.Address] {
				rollback()
				return ledger.TxId{}, fault.MissingSigner
			}
		}
		code, ok := vaultrecord.DiscriminatorOf(instruction.Data)
		if !ok || instruction.Program != l.program {
			rollback()
			return ledger.TxId{}, fault.ProcessError(fmt.Sprintf("instruction %d: unknown program entry", i))
		}
		if err, ok := l.failures[code]; ok {
			delete(l.failures, code)
			rollback()
			return ledger.TxId{}, err
		}
		if err := l.execute(code, instruction); nil != err {
			rollback()
			return ledger.TxId{}, fault.Process(fmt.Sprintf("instruction %d", i), err)
		}
		applied = append(applied, code)
	}

	for _, code := range applied {
		l.submissions[code] += 1
		l.log = append(l.log, code)
	}
	l.nonce += 1
	txId := ledger.TxId{}
	binary.BigEndian.PutUint64(txId[:], l.nonce)
	return txId, nil
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	r := make(map[K]V, len(m))
	for k, v := range m {
		r[k] = v
	}
	return r
}
