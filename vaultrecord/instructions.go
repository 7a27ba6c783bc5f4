// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultrecord

import (
	"bytes"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/ledger"
)

// DiscriminatorLength - bytes that select the program entry point
const DiscriminatorLength = 8

// Discriminator - leading bytes of every instruction payload
type Discriminator [DiscriminatorLength]byte

// entry points of the vault program
var (
	InitializeVaultCode   = Discriminator{185, 126, 40, 29, 205, 105, 111, 213}
	WritePublicKeyCode    = Discriminator{69, 199, 141, 25, 213, 45, 192, 226}
	LockCode              = Discriminator{136, 11, 32, 232, 161, 117, 54, 211}
	CloseVaultCode        = Discriminator{213, 32, 12, 184, 191, 154, 92, 97}
	InitializeStorageCode = Discriminator{140, 15, 169, 242, 61, 148, 238, 70}
	UploadChunkCode       = Discriminator{194, 98, 90, 80, 66, 99, 246, 39}
	VerifyInitCode        = Discriminator{220, 238, 45, 110, 130, 122, 244, 163}
	ForsBatch1Code        = Discriminator{172, 180, 149, 174, 231, 243, 99, 8}
	ForsBatch2Code        = Discriminator{171, 180, 113, 96, 124, 173, 99, 26}
	ForsRootCode          = Discriminator{49, 50, 138, 190, 206, 224, 103, 217}
	WotsPart1Code         = Discriminator{91, 71, 30, 151, 123, 241, 249, 203}
	WotsPart2Code         = Discriminator{175, 251, 183, 24, 194, 124, 11, 9}
	WotsPart3Code         = Discriminator{232, 111, 23, 93, 206, 103, 19, 220}
	MerkleCode            = Discriminator{200, 98, 174, 105, 13, 24, 123, 28}
	FinalizeCode          = Discriminator{34, 44, 245, 31, 130, 88, 38, 184}
)

// DiscriminatorOf - first 8 bytes of a payload
func DiscriminatorOf(data []byte) (Discriminator, bool) {
	d := Discriminator{}
	if len(data) < DiscriminatorLength {
		return d, false
	}
	copy(d[:], data)
	return d, true
}

// Is - true if the payload starts with this discriminator
func (d Discriminator) Is(data []byte) bool {
	return len(data) >= DiscriminatorLength && bytes.Equal(d[:], data[:DiscriminatorLength])
}

func (d Discriminator) start() Packed {
	return append(Packed{}, d[:]...)
}

// InitializeVault - create an empty vault record for the owner
func InitializeVault(program address.Address, vault address.Address, owner address.Address, algorithm uint8) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(vault),
			ledger.WritableSigner(owner),
			ledger.ReadOnly(address.SystemProgram),
		},
		Data: InitializeVaultCode.start().u8(algorithm),
	}
}

// WritePublicKey - store the quantum public key in a new vault record
func WritePublicKey(program address.Address, vault address.Address, owner address.Address, publicKey []byte) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(vault),
			ledger.WritableSigner(owner),
			ledger.ReadOnly(address.SystemProgram),
		},
		Data: WritePublicKeyCode.start().bytes(publicKey),
	}
}

// Lock - set the locked flag and a fresh challenge
func Lock(program address.Address, vault address.Address, owner address.Address) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(vault),
			ledger.ReadOnlySigner(owner),
		},
		Data: LockCode.start(),
	}
}

// CloseVault - remove an unlocked vault record and return its rent
func CloseVault(program address.Address, vault address.Address, owner address.Address, receiver address.Address) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(vault),
			ledger.WritableSigner(owner),
			ledger.Writable(receiver),
		},
		Data: CloseVaultCode.start(),
	}
}

// InitializeStorage - create or reset a signature scratch buffer
func InitializeStorage(program address.Address, storage address.Address, signer address.Address, identifier string, publicKey []byte, message []byte) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(storage),
			ledger.WritableSigner(signer),
			ledger.ReadOnly(address.SystemProgram),
		},
		Data: InitializeStorageCode.start().bytes([]byte(identifier)).raw(publicKey).bytes(message),
	}
}

// UploadChunk - write bytes into the scratch buffer at an offset
func UploadChunk(program address.Address, storage address.Address, signer address.Address, offset uint32, chunk []byte) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(storage),
			ledger.ReadOnlySigner(signer),
		},
		Data: UploadChunkCode.start().u32(offset).bytes(chunk),
	}
}

// VerifyInit - create the verification state for an uploaded signature
//
// unlockSlots of zero unlocks immediately on success
func VerifyInit(program address.Address, state address.Address, storage address.Address, signer address.Address, identifier string, message []byte, publicKey []byte, unlockSlots uint64) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(state),
			ledger.Writable(storage),
			ledger.WritableSigner(signer),
			ledger.ReadOnly(address.SystemProgram),
		},
		Data: VerifyInitCode.start().bytes([]byte(identifier)).bytes(message).raw(publicKey).u64(unlockSlots),
	}
}

// VerifyStep - a verification step reading the uploaded signature
//
// layer is appended only for per-layer steps
func VerifyStep(code Discriminator, program address.Address, state address.Address, storage address.Address, signer address.Address, layer int) ledger.Instruction {
	data := code.start()
	if layer >= 0 {
		data = data.u8(uint8(layer))
	}
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(state),
			ledger.ReadOnly(storage),
			ledger.ReadOnlySigner(signer),
		},
		Data: data,
	}
}

// VerifyForsRoot - combine the FORS results, no signature access
func VerifyForsRoot(program address.Address, state address.Address, signer address.Address) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(state),
			ledger.ReadOnlySigner(signer),
		},
		Data: ForsRootCode.start(),
	}
}

// VerifyFinalize - compare the computed root and clear the lock flag
func VerifyFinalize(program address.Address, state address.Address, vault address.Address, signer address.Address) ledger.Instruction {
	return ledger.Instruction{
		Program: program,
		Accounts: []ledger.AccountMeta{
			ledger.Writable(state),
			ledger.Writable(vault),
			ledger.WritableSigner(signer),
		},
		Data: FinalizeCode.start(),
	}
}
