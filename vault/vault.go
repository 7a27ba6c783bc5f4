// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vault - register, lock, close and inspect vault records
package vault

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// Lifecycle - operations on the vault record of an owner
type Lifecycle struct {
	gateway      ledger.Gateway
	program      address.Address
	tokenProgram address.Address
	log          *logger.L
}

// New - lifecycle operations against a vault program
func New(gateway ledger.Gateway, program address.Address, tokenProgram address.Address) *Lifecycle {
	return &Lifecycle{
		gateway:      gateway,
		program:      program,
		tokenProgram: tokenProgram,
		log:          logger.New("vault"),
	}
}

// Register - create the owner's vault and store its public key
//
// both instructions go in one transaction so a vault never exists
// without a key
func (l *Lifecycle) Register(ctx context.Context, owner ledger.Signer, algorithm uint8, publicKey []byte) (ledger.TxId, error) {
	if 0 == len(publicKey) {
		return ledger.TxId{}, fault.PublicKeyLength
	}
	if vaultrecord.AlgorithmSphincsSHA2128s == algorithm && vaultrecord.StandardKeyLength != len(publicKey) {
		return ledger.TxId{}, fault.PublicKeyLength
	}

	vaultAddress, err := address.Vault(owner.Address(), l.program)
	if nil != err {
		return ledger.TxId{}, err
	}

	data, err := l.gateway.FetchAccount(ctx, vaultAddress)
	switch {
	case nil == err && 0 != len(data):
		return ledger.TxId{}, fault.AccountExists
	case nil == err, fault.IsErrNotFound(err):
	default:
		return ledger.TxId{}, err
	}

	instructions := []ledger.Instruction{
		vaultrecord.InitializeVault(l.program, vaultAddress, owner.Address(), algorithm),
		vaultrecord.WritePublicKey(l.program, vaultAddress, owner.Address(), publicKey),
	}
	txId, err := l.gateway.Submit(ctx, instructions, owner)
	if nil != err {
		l.log.Errorf("register vault: %s  error: %s", vaultAddress, err)
		return ledger.TxId{}, err
	}

	l.log.Infof("registered vault: %s  algorithm: %d  tx: %s", vaultAddress, algorithm, txId)
	return txId, nil
}

// Lock - lock the vault and return the challenge the ledger chose
func (l *Lifecycle) Lock(ctx context.Context, owner ledger.Signer) (vaultrecord.Challenge, error) {
	vaultAddress, v, err := l.read(ctx, owner.Address())
	if nil != err {
		return vaultrecord.Challenge{}, err
	}
	if v.Locked {
		return vaultrecord.Challenge{}, fault.AlreadyLocked
	}

	txId, err := l.gateway.Submit(ctx, []ledger.Instruction{vaultrecord.Lock(l.program, vaultAddress, owner.Address())}, owner)
	if nil != err {
		l.log.Errorf("lock vault: %s  error: %s", vaultAddress, err)
		return vaultrecord.Challenge{}, err
	}

	_, after, err := l.read(ctx, owner.Address())
	if nil != err {
		return vaultrecord.Challenge{}, err
	}
	if !after.Locked {
		return vaultrecord.Challenge{}, fault.NotLocked
	}

	l.log.Infof("locked vault: %s  challenge: %x  tx: %s", vaultAddress, after.Challenge, txId)
	return after.Challenge, nil
}

// Close - remove an unlocked vault, sending its rent to receiver
//
// a zero receiver means the owner
func (l *Lifecycle) Close(ctx context.Context, owner ledger.Signer, receiver address.Address) (ledger.TxId, error) {
	vaultAddress, v, err := l.read(ctx, owner.Address())
	if nil != err {
		return ledger.TxId{}, err
	}
	if v.Locked {
		return ledger.TxId{}, fault.VaultLocked
	}
	if receiver.IsZero() {
		receiver = owner.Address()
	}

	txId, err := l.gateway.Submit(ctx, []ledger.Instruction{vaultrecord.CloseVault(l.program, vaultAddress, owner.Address(), receiver)}, owner)
	if nil != err {
		l.log.Errorf("close vault: %s  error: %s", vaultAddress, err)
		return ledger.TxId{}, err
	}

	l.log.Infof("closed vault: %s  rent to: %s  tx: %s", vaultAddress, receiver, txId)
	return txId, nil
}

// Status - the owner's current vault record
func (l *Lifecycle) Status(ctx context.Context, owner address.Address) (*vaultrecord.Vault, error) {
	_, v, err := l.read(ctx, owner)
	return v, err
}

// Balance - the owner's token balance in base units
//
// an owner without a token account has a zero balance and
// fault.AccountNotFound is returned alongside it
func (l *Lifecycle) Balance(ctx context.Context, owner address.Address, mint address.Address) (uint64, error) {
	tokenAccount, err := address.TokenAccount(owner, mint, l.tokenProgram)
	if nil != err {
		return 0, err
	}
	data, err := l.gateway.FetchAccount(ctx, tokenAccount)
	if nil != err {
		return 0, err
	}
	return vaultrecord.TokenAmount(data)
}

func (l *Lifecycle) read(ctx context.Context, owner address.Address) (address.Address, *vaultrecord.Vault, error) {
	vaultAddress, err := address.Vault(owner, l.program)
	if nil != err {
		return address.Address{}, nil, err
	}
	data, err := l.gateway.FetchAccount(ctx, vaultAddress)
	if nil != err {
		return vaultAddress, nil, err
	}
	if 0 == len(data) {
		return vaultAddress, nil, fault.AccountNotFound
	}
	v, err := vaultrecord.ParseVault(data)
	if nil != err {
		return vaultAddress, nil, err
	}
	return vaultAddress, v, nil
}
