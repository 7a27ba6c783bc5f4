// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/fixtures"
)

var (
	program = address.MustFromBase58("HyC27AVHW4VwkEiWwWxevaUpvkiAqPUueaa94og9HmLQ")
	mint    = address.MustFromBase58("3V6ogu16de86nChsmC5wHMKJmCx5YdGXA6fbp3y3497n")
	owner   = address.Address(fixtures.Bytes32("owner"))
)

func testPublicKey() []byte {
	pk := make([]byte, 32)
	for i := range pk {
		pk[i] = byte(i)
	}
	return pk
}

func TestFindProgramAddressKnownVector(t *testing.T) {
	a, bump, err := address.FindProgramAddress([][]byte{[]byte("helloWorld")}, address.SystemProgram)
	require.NoError(t, err, "find")
	assert.Equal(t, "46GZzzetjCURsdFPb7rcnspbEMnCBXe9kpjrsZAkKb6X", a.String(), "address")
	assert.Equal(t, uint8(254), bump, "bump")
}

func TestDerivedAddresses(t *testing.T) {
	identifier := address.ScratchIdentifier(testPublicKey())
	assert.Equal(t, "050a48733bd5c275", identifier, "identifier")

	vault, err := address.Vault(owner, program)
	require.NoError(t, err, "vault")
	assert.Equal(t, "AhUgwWckxkzdAYDGj7djyEf2zVwHsMhe4nz7TaMJoasJ", vault.String(), "vault")

	storage, err := address.SignatureStorage(owner, identifier, program)
	require.NoError(t, err, "storage")
	assert.Equal(t, "7HDLB8oUYz9NmRNR1hQ5mqbMR3moLWgHKkwSwE5em3q7", storage.String(), "storage")

	state, err := address.VerificationState(owner, identifier, program)
	require.NoError(t, err, "verification state")
	assert.Equal(t, "CyPcgJLA4KfENVk5QSh26CeqJuTobeUzAV4byjoemAeE", state.String(), "verification state")

	mintState, err := address.MintState(program)
	require.NoError(t, err, "mint state")
	assert.Equal(t, "FiDwkEcXCR3TFqfA8y7TQnoduLZwtnKr7pZ4hXx5Bqxq", mintState.String(), "mint state")

	token, err := address.TokenAccount(owner, mint, address.TokenProgram2022)
	require.NoError(t, err, "token account")
	assert.Equal(t, "9MrpYcrtawmHZq7RBfddehPPNReQHLNDgUN4NQ9KwhUg", token.String(), "token account")
}

func TestDerivationIsDeterministic(t *testing.T) {
	identifier := address.ScratchIdentifier(testPublicKey())
	for i := 0; i < 3; i += 1 {
		a1, err := address.SignatureStorage(owner, identifier, program)
		require.NoError(t, err)
		a2, err := address.SignatureStorage(owner, identifier, program)
		require.NoError(t, err)
		assert.Equal(t, a1, a2, "same inputs must give the same address")
	}

	other := address.Address(fixtures.Bytes32("other"))
	a1, _ := address.Vault(owner, program)
	a2, _ := address.Vault(other, program)
	assert.NotEqual(t, a1, a2, "different owners must differ")

	s, _ := address.SignatureStorage(owner, identifier, program)
	v, _ := address.VerificationState(owner, identifier, program)
	assert.NotEqual(t, s, v, "storage and verification state must differ")
}

func TestScratchIdentifierSeparatesKeys(t *testing.T) {
	k1 := testPublicKey()
	k2 := testPublicKey()
	k2[31] ^= 0xff

	id1 := address.ScratchIdentifier(k1)
	id2 := address.ScratchIdentifier(k2)
	assert.NotEqual(t, id1, id2, "identifiers")
	assert.Len(t, id1, 16, "identifier length")
}

func TestSeedLimits(t *testing.T) {
	long := make([]byte, address.MaximumSeedLength+1)
	_, _, err := address.FindProgramAddress([][]byte{long}, program)
	assert.Equal(t, fault.InvalidSeed, err, "long seed")

	seeds := make([][]byte, address.MaximumSeeds)
	_, _, err = address.FindProgramAddress(seeds, program)
	assert.Equal(t, fault.TooManySeeds, err, "no room for bump")
}

func TestText(t *testing.T) {
	_, err := address.FromBase58("not-base58-0OIl")
	assert.Equal(t, fault.InvalidAddress, err, "bad text")

	_, err = address.FromBase58("11111111")
	assert.Equal(t, fault.InvalidAddress, err, "short")

	buffer, err := json.Marshal(struct {
		Owner address.Address `json:"owner"`
	}{Owner: program})
	require.NoError(t, err)
	assert.Equal(t, `{"owner":"HyC27AVHW4VwkEiWwWxevaUpvkiAqPUueaa94og9HmLQ"}`, string(buffer))

	var back struct {
		Owner address.Address `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(buffer, &back))
	assert.Equal(t, program, back.Owner)
	assert.True(t, address.Address{}.IsZero())
	assert.Equal(t, "11111111111111111111111111111111", address.SystemProgram.String())
}
