// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledgertest

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// program failures
var (
	errAccountInUse    = errors.New("account already in use")
	errAccountMissing  = errors.New("account does not exist")
	errAccountCount    = errors.New("not enough account keys")
	errBadSeeds        = errors.New("account does not match derived address")
	errNotOwner        = errors.New("signer does not own the vault")
	errAlreadyLocked   = errors.New("vault already locked")
	errNotLocked       = errors.New("vault not locked")
	errLocked          = errors.New("vault locked")
	errKeyAlreadySet   = errors.New("public key already written")
	errOutOfRange      = errors.New("write outside signature buffer")
	errChunkTooLarge   = errors.New("chunk too large")
	errWrongStep       = errors.New("verification step out of order")
	errWrongLayer      = errors.New("verification layer out of order")
	errStorageMismatch = errors.New("signature storage does not match")
	errUnknownEntry    = errors.New("unknown entry point")
)

func (l *Ledger) execute(code vaultrecord.Discriminator, instruction ledger.Instruction) error {
	accounts := instruction.Accounts
	need := func(n int) error {
		if len(accounts) < n {
			return errAccountCount
		}
		return nil
	}
	u := vaultrecord.NewUnpacker(instruction.Data)

	switch code {

	case vaultrecord.InitializeVaultCode:
		if err := need(2); nil != err {
			return err
		}
		algorithm := u.U8()
		if err := u.Err(); nil != err {
			return err
		}
		vault, owner := accounts[0].Address, accounts[1].Address
		if err := l.checkVaultAddress(vault, owner); nil != err {
			return err
		}
		if _, ok := l.accounts[vault]; ok {
			return errAccountInUse
		}
		v := &vaultrecord.Vault{Owner: owner, Algorithm: algorithm}
		l.accounts[vault] = account{owner: l.program, data: v.Pack()}

	case vaultrecord.WritePublicKeyCode:
		if err := need(2); nil != err {
			return err
		}
		publicKey := u.Bytes()
		if err := u.Err(); nil != err {
			return err
		}
		v, err := l.ownedVault(accounts[0].Address, accounts[1].Address)
		if nil != err {
			return err
		}
		if 0 != len(v.PublicKey) {
			return errKeyAlreadySet
		}
		v.PublicKey = append([]byte{}, publicKey...)
		l.putVault(accounts[0].Address, v)

	case vaultrecord.LockCode:
		if err := need(2); nil != err {
			return err
		}
		v, err := l.ownedVault(accounts[0].Address, accounts[1].Address)
		if nil != err {
			return err
		}
		if v.Locked {
			return errAlreadyLocked
		}
		v.Locked = true
		v.Challenge = l.nextChallenge()
		l.putVault(accounts[0].Address, v)

	case vaultrecord.CloseVaultCode:
		if err := need(3); nil != err {
			return err
		}
		v, err := l.ownedVault(accounts[0].Address, accounts[1].Address)
		if nil != err {
			return err
		}
		if v.Locked {
			return errLocked
		}
		delete(l.accounts, accounts[0].Address)

	case vaultrecord.InitializeStorageCode:
		if err := need(2); nil != err {
			return err
		}
		identifier := string(u.Bytes())
		publicKey := u.Raw(vaultrecord.StandardKeyLength)
		message := u.Bytes()
		if err := u.Err(); nil != err {
			return err
		}
		storageAddress, signer := accounts[0].Address, accounts[1].Address
		expected, err := address.SignatureStorage(signer, identifier, l.program)
		if nil != err {
			return err
		}
		if expected != storageAddress {
			return errBadSeeds
		}
		l.storages[storageAddress] = storage{
			identifier: identifier,
			publicKey:  append([]byte{}, publicKey...),
			message:    append([]byte{}, message...),
			buffer:     make([]byte, SignatureLength),
		}
		l.accounts[storageAddress] = account{owner: l.program, data: []byte(identifier)}

	case vaultrecord.UploadChunkCode:
		if err := need(2); nil != err {
			return err
		}
		offset := int(u.U32())
		chunk := u.Bytes()
		if err := u.Err(); nil != err {
			return err
		}
		s, ok := l.storages[accounts[0].Address]
		if !ok {
			return errAccountMissing
		}
		if len(chunk) > MaximumChunk {
			return errChunkTooLarge
		}
		if offset+len(chunk) > len(s.buffer) {
			return errOutOfRange
		}
		buffer := append([]byte{}, s.buffer...)
		copy(buffer[offset:], chunk)
		s.buffer = buffer
		l.storages[accounts[0].Address] = s

	case vaultrecord.VerifyInitCode:
		if err := need(3); nil != err {
			return err
		}
		identifier := string(u.Bytes())
		message := u.Bytes()
		publicKey := u.Raw(vaultrecord.StandardKeyLength)
		u.U64()
		if err := u.Err(); nil != err {
			return err
		}
		stateAddress, storageAddress, signer := accounts[0].Address, accounts[1].Address, accounts[2].Address
		expected, err := address.VerificationState(signer, identifier, l.program)
		if nil != err {
			return err
		}
		if expected != stateAddress {
			return errBadSeeds
		}
		s, ok := l.storages[storageAddress]
		if !ok {
			return errAccountMissing
		}
		if s.identifier != identifier {
			return errStorageMismatch
		}
		l.states[stateAddress] = verification{
			storage:   storageAddress,
			publicKey: append([]byte{}, publicKey...),
			message:   append([]byte{}, message...),
		}
		l.accounts[stateAddress] = account{owner: l.program, data: []byte{0}}

	case vaultrecord.ForsBatch1Code, vaultrecord.ForsBatch2Code, vaultrecord.ForsRootCode,
		vaultrecord.WotsPart1Code, vaultrecord.WotsPart2Code, vaultrecord.WotsPart3Code,
		vaultrecord.MerkleCode:
		if err := need(2); nil != err {
			return err
		}
		layer := -1
		switch code {
		case vaultrecord.WotsPart1Code, vaultrecord.WotsPart2Code, vaultrecord.WotsPart3Code, vaultrecord.MerkleCode:
			layer = int(u.U8())
		}
		if err := u.Err(); nil != err {
			return err
		}
		stateAddress := accounts[0].Address
		v, err := l.advance(stateAddress, code, layer)
		if nil != err {
			return err
		}
		if vaultrecord.ForsRootCode != code && v.storage != accounts[1].Address {
			return errStorageMismatch
		}
		l.states[stateAddress] = v

	case vaultrecord.FinalizeCode:
		if err := need(3); nil != err {
			return err
		}
		stateAddress, vaultAddress := accounts[0].Address, accounts[1].Address
		v, err := l.advance(stateAddress, code, -1)
		if nil != err {
			return err
		}
		acc, ok := l.accounts[vaultAddress]
		if !ok {
			return errAccountMissing
		}
		vault, err := vaultrecord.ParseVault(acc.data)
		if nil != err {
			return err
		}
		if !vault.Locked {
			return errNotLocked
		}
		s := l.storages[v.storage]
		if bytes.Equal(v.message, vault.Challenge[:]) &&
			bytes.Equal(v.publicKey, vault.PublicKey) &&
			l.verify(vault.PublicKey, vault.Challenge[:], s.buffer) {
			vault.Locked = false
			l.putVault(vaultAddress, vault)
		}
		v.done = true
		l.states[stateAddress] = v

	default:
		return errUnknownEntry
	}
	return nil
}

// move a verification state one step forward if the step is the expected one
func (l *Ledger) advance(stateAddress address.Address, code vaultrecord.Discriminator, layer int) (verification, error) {
	v, ok := l.states[stateAddress]
	if !ok {
		return v, errAccountMissing
	}
	if v.done || v.next >= len(stepOrder) || stepOrder[v.next] != code {
		return v, errWrongStep
	}
	if layer >= 0 && layer != (v.next-3)/4 {
		return v, errWrongLayer
	}
	v.next += 1
	return v, nil
}

func (l *Ledger) checkVaultAddress(vault address.Address, owner address.Address) error {
	expected, err := address.Vault(owner, l.program)
	if nil != err {
		return err
	}
	if expected != vault {
		return errBadSeeds
	}
	return nil
}

func (l *Ledger) ownedVault(vaultAddress address.Address, signer address.Address) (*vaultrecord.Vault, error) {
	acc, ok := l.accounts[vaultAddress]
	if !ok {
		return nil, errAccountMissing
	}
	v, err := vaultrecord.ParseVault(acc.data)
	if nil != err {
		return nil, err
	}
	if v.Owner != signer {
		return nil, errNotOwner
	}
	return v, nil
}

func (l *Ledger) putVault(a address.Address, v *vaultrecord.Vault) {
	l.accounts[a] = account{owner: l.program, data: v.Pack()}
}

func (l *Ledger) nextChallenge() vaultrecord.Challenge {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(l.log))+l.nonce)
	return vaultrecord.Challenge(sha256.Sum256(append([]byte("challenge"), n[:]...)))
}
