// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"crypto/sha256"
	"encoding/hex"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/pqvault/fault"
)

// limits imposed by the ledger runtime
const (
	MaximumSeedLength = 32
	MaximumSeeds      = 16
)

// seed prefixes understood by the vault program
var (
	vaultSeed        = []byte("pq_account")
	storageSeed      = []byte("sphincs_sig")
	verificationSeed = []byte("sphincs_verify")
	mintStateSeed    = []byte("state")
)

const pdaMarker = "ProgramDerivedAddress"

// CreateProgramAddress - hash the seeds with a program id
//
// fails if the result is a valid curve point since such an address
// could be signed for
func CreateProgramAddress(seeds [][]byte, program Address) (Address, error) {
	if len(seeds) > MaximumSeeds {
		return Address{}, fault.TooManySeeds
	}

	h := sha256.New()
	for _, s := range seeds {
		if len(s) > MaximumSeedLength {
			return Address{}, fault.InvalidSeed
		}
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte(pdaMarker))

	a := Address{}
	copy(a[:], h.Sum(nil))

	if isOnCurve(a[:]) {
		return Address{}, fault.InvalidAddress
	}
	return a, nil
}

// FindProgramAddress - search bumps from 255 down for the first off-curve address
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	if len(seeds) >= MaximumSeeds {
		return Address{}, 0, fault.TooManySeeds
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump -= 1 {
		withBump[len(seeds)] = []byte{byte(bump)}
		a, err := CreateProgramAddress(withBump, program)
		switch err {
		case nil:
			return a, uint8(bump), nil
		case fault.InvalidAddress:
			// on curve, try the next bump
		default:
			return Address{}, 0, err
		}
	}
	return Address{}, 0, fault.NoProgramAddress
}

// a point decodes only if it lies on the curve
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return nil == err
}

// Vault - the vault record owned by a wallet
func Vault(owner Address, program Address) (Address, error) {
	a, _, err := FindProgramAddress([][]byte{vaultSeed, owner[:]}, program)
	return a, err
}

// SignatureStorage - scratch buffer receiving an uploaded signature
func SignatureStorage(signer Address, identifier string, program Address) (Address, error) {
	a, _, err := FindProgramAddress([][]byte{storageSeed, signer[:], []byte(identifier)}, program)
	return a, err
}

// VerificationState - scratch record tracking verification progress
func VerificationState(signer Address, identifier string, program Address) (Address, error) {
	a, _, err := FindProgramAddress([][]byte{verificationSeed, signer[:], []byte(identifier)}, program)
	return a, err
}

// MintState - the program's global mint record
func MintState(program Address) (Address, error) {
	a, _, err := FindProgramAddress([][]byte{mintStateSeed}, program)
	return a, err
}

// TokenAccount - associated token account holding a wallet's balance of a mint
func TokenAccount(wallet Address, mint Address, tokenProgram Address) (Address, error) {
	a, _, err := FindProgramAddress([][]byte{wallet[:], tokenProgram[:], mint[:]}, AssociatedTokenProgram)
	return a, err
}

// ScratchIdentifier - short name derived from a quantum public key
//
// distinct keys sharing one ledger credential get separate scratch
// namespaces; the hex form keeps the seed printable and under the
// seed length limit
func ScratchIdentifier(publicKey []byte) string {
	digest := sha3.Sum256(publicKey)
	return hex.EncodeToString(digest[:8])
}
