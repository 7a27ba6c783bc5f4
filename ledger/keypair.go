// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"crypto/rand"
	"encoding/json"
	"io/ioutil"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
)

// Keypair - an ed25519 ledger credential
type Keypair struct {
	privateKey ed25519.PrivateKey
	address    address.Address
}

// NewKeypair - generate a fresh random credential
func NewKeypair() (*Keypair, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, err
	}
	return keypairFromPrivateKey(privateKey)
}

// KeypairFromSeed - deterministic credential, used by tests
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.InvalidKeypair
	}
	return keypairFromPrivateKey(ed25519.NewKeyFromSeed(seed))
}

// LoadKeypair - read the usual JSON array of 64 byte values
func LoadKeypair(fileName string) (*Keypair, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	var values []byte
	var ints []int
	if err := json.Unmarshal(data, &ints); nil != err {
		return nil, fault.InvalidKeypair
	}
	for _, v := range ints {
		if v < 0 || v > 255 {
			return nil, fault.InvalidKeypair
		}
		values = append(values, byte(v))
	}
	if ed25519.PrivateKeySize != len(values) {
		return nil, fault.InvalidKeypair
	}
	return keypairFromPrivateKey(ed25519.PrivateKey(values))
}

func keypairFromPrivateKey(privateKey ed25519.PrivateKey) (*Keypair, error) {
	a, err := address.FromBytes(privateKey.Public().(ed25519.PublicKey))
	if nil != err {
		return nil, err
	}

	// the public half stored in the file must agree with the seed
	check := ed25519.NewKeyFromSeed(privateKey.Seed())
	if !check.Public().(ed25519.PublicKey).Equal(ed25519.PublicKey(privateKey[ed25519.SeedSize:])) {
		return nil, fault.InvalidKeypair
	}

	return &Keypair{
		privateKey: privateKey,
		address:    a,
	}, nil
}

// Address - the public identity of the credential
func (k *Keypair) Address() address.Address {
	return k.address
}

// Sign - ed25519 signature over a message
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.privateKey, message)
}

// MarshalJSON - write in the same form that LoadKeypair reads
func (k *Keypair) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(k.privateKey))
	for i, b := range k.privateKey {
		ints[i] = int(b)
	}
	return json.Marshal(ints)
}
