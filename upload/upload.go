// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package upload - write a signature into a ledger scratch buffer in
// bounded chunks
package upload

import (
	"context"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// ChunkSize - most signature bytes the program accepts per write
const ChunkSize = 800

// Range - half open [Offset, End) span of a blob
type Range struct {
	Offset int
	End    int
}

// Chunks - split [0, length) into consecutive ranges of at most size bytes
func Chunks(length int, size int) []Range {
	if length <= 0 || size <= 0 {
		return nil
	}
	r := make([]Range, 0, ChunkCount(length, size))
	for offset := 0; offset < length; offset += size {
		end := offset + size
		if end > length {
			end = length
		}
		r = append(r, Range{Offset: offset, End: end})
	}
	return r
}

// ChunkCount - ceil(length / size)
func ChunkCount(length int, size int) int {
	if length <= 0 || size <= 0 {
		return 0
	}
	return (length + size - 1) / size
}

// Uploader - persists a blob into one signature storage account
type Uploader struct {
	gateway ledger.Gateway
	program address.Address
	signer  ledger.Signer
	log     *logger.L
}

// New - uploader paying with and signing as signer
func New(gateway ledger.Gateway, program address.Address, signer ledger.Signer) *Uploader {
	return &Uploader{
		gateway: gateway,
		program: program,
		signer:  signer,
		log:     logger.New("upload"),
	}
}

// Initialize - create or reset the storage account
//
// always issued, repeating it is harmless and clears any earlier
// partial upload
func (u *Uploader) Initialize(ctx context.Context, storage address.Address, identifier string, expectedPublicKey []byte, message []byte) error {
	if vaultrecord.StandardKeyLength != len(expectedPublicKey) {
		return fault.PublicKeyLength
	}
	instruction := vaultrecord.InitializeStorage(u.program, storage, u.signer.Address(), identifier, expectedPublicKey, message)
	txId, err := u.gateway.Submit(ctx, []ledger.Instruction{instruction}, u.signer)
	if nil != err {
		u.log.Errorf("initialise storage: %s  error: %s", storage, err)
		return err
	}
	u.log.Infof("initialised storage: %s  identifier: %q  tx: %s", storage, identifier, txId)
	return nil
}

// UploadChunk - write one chunk at its offset
func (u *Uploader) UploadChunk(ctx context.Context, storage address.Address, offset int, chunk []byte) error {
	if len(chunk) > ChunkSize {
		return fault.ChunkTooLarge
	}
	if offset < 0 {
		return fault.InvalidError("negative chunk offset")
	}
	instruction := vaultrecord.UploadChunk(u.program, storage, u.signer.Address(), uint32(offset), chunk)
	txId, err := u.gateway.Submit(ctx, []ledger.Instruction{instruction}, u.signer)
	if nil != err {
		u.log.Errorf("upload chunk at: %d  error: %s", offset, err)
		return err
	}
	u.log.Debugf("uploaded %d bytes at: %d  tx: %s", len(chunk), offset, txId)
	return nil
}

// Upload - write every chunk of a blob in increasing offset order,
// stopping at the first failure
func (u *Uploader) Upload(ctx context.Context, storage address.Address, blob []byte) error {
	for _, r := range Chunks(len(blob), ChunkSize) {
		if err := u.UploadChunk(ctx, storage, r.Offset, blob[r.Offset:r.End]); nil != err {
			return err
		}
	}
	return nil
}
