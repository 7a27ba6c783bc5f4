// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sphincs - SLH-DSA-SHA2-128s key material for unlocking vaults
package sphincs

import (
	"bytes"
	"crypto/rand"
	"os"
	"path/filepath"

	"github.com/luxfi/crypto/slhdsa"

	"github.com/bitmark-inc/pqvault/fault"
)

// sizes for the SHA2-128s parameter set
const (
	PublicKeyLength  = 32
	PrivateKeyLength = 64
	SignatureLength  = 7856
)

// default file names inside a key directory
const (
	PublicKeyFile  = "sphincs_public.key"
	PrivateKeyFile = "sphincs_private.key"
)

var mode = slhdsa.SHA2_128s

// KeyPair - a loaded signing key
type KeyPair struct {
	privateKey *slhdsa.PrivateKey
	publicKey  []byte
}

// New - a random key pair held only in memory
func New() (*KeyPair, error) {
	privateKey, err := slhdsa.GenerateKey(rand.Reader, mode)
	if nil != err {
		return nil, err
	}
	return &KeyPair{
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey.Bytes(),
	}, nil
}

// FromBytes - key pair from raw encodings
//
// the private key embeds the public key in its last 32 bytes and the
// two must agree
func FromBytes(publicKey []byte, privateKey []byte) (*KeyPair, error) {
	if PublicKeyLength != len(publicKey) {
		return nil, fault.PublicKeyLength
	}
	if PrivateKeyLength != len(privateKey) {
		return nil, fault.PrivateKeyLength
	}
	if !bytes.Equal(privateKey[PrivateKeyLength-PublicKeyLength:], publicKey) {
		return nil, fault.InvalidKeypair
	}

	key, err := slhdsa.PrivateKeyFromBytes(mode, privateKey)
	if nil != err {
		return nil, err
	}
	return &KeyPair{
		privateKey: key,
		publicKey:  append([]byte{}, publicKey...),
	}, nil
}

// LoadKeyPair - read raw key files
func LoadKeyPair(publicFile string, privateFile string) (*KeyPair, error) {
	publicKey, err := os.ReadFile(publicFile)
	if nil != err {
		return nil, err
	}
	privateKey, err := os.ReadFile(privateFile)
	if nil != err {
		return nil, err
	}
	return FromBytes(publicKey, privateKey)
}

// Generate - create a key pair and write it into directory
//
// existing key files are never overwritten
func Generate(directory string) (*KeyPair, error) {
	publicFile := filepath.Join(directory, PublicKeyFile)
	privateFile := filepath.Join(directory, PrivateKeyFile)

	for _, f := range []string{publicFile, privateFile} {
		if _, err := os.Stat(f); nil == err {
			return nil, fault.KeyFileExists
		}
	}

	if err := os.MkdirAll(directory, 0700); nil != err {
		return nil, err
	}

	k, err := New()
	if nil != err {
		return nil, err
	}

	if err := os.WriteFile(privateFile, k.privateKey.Bytes(), 0600); nil != err {
		return nil, err
	}
	if err := os.WriteFile(publicFile, k.publicKey, 0600); nil != err {
		return nil, err
	}
	return k, nil
}

// PublicKey - raw public key
func (k *KeyPair) PublicKey() []byte {
	return append([]byte{}, k.publicKey...)
}

// Sign - randomised signature over message with an empty context
func (k *KeyPair) Sign(message []byte) ([]byte, error) {
	signature, err := k.privateKey.Sign(rand.Reader, message, nil)
	if nil != err {
		return nil, err
	}
	if SignatureLength != len(signature) {
		return nil, fault.SignatureLength
	}
	return signature, nil
}

// Verify - check a signature against a raw public key
func Verify(publicKey []byte, message []byte, signature []byte) bool {
	if PublicKeyLength != len(publicKey) || SignatureLength != len(signature) {
		return false
	}
	key, err := slhdsa.PublicKeyFromBytes(publicKey, mode)
	if nil != err {
		return false
	}
	return key.Verify(message, signature, nil)
}
