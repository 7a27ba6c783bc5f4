// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultrecord

import (
	"encoding/binary"

	"github.com/bitmark-inc/pqvault/fault"
)

// Packed - instruction payload under construction
//
// variable fields are a u32 LE length followed by the bytes, numbers
// are fixed width LE and fixed arrays are written raw
type Packed []byte

func (p Packed) u8(n uint8) Packed {
	return append(p, n)
}

func (p Packed) u32(n uint32) Packed {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	return append(p, b[:]...)
}

func (p Packed) u64(n uint64) Packed {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	return append(p, b[:]...)
}

func (p Packed) bytes(b []byte) Packed {
	return append(p.u32(uint32(len(b))), b...)
}

func (p Packed) raw(b []byte) Packed {
	return append(p, b...)
}

// Unpacker - sequential reader for instruction payloads
type Unpacker struct {
	data []byte
	n    int
	err  error
}

// NewUnpacker - read the fields following an 8 byte discriminator
func NewUnpacker(data []byte) *Unpacker {
	u := &Unpacker{data: data, n: DiscriminatorLength}
	if len(data) < DiscriminatorLength {
		u.err = fault.RecordTooShort
	}
	return u
}

func (u *Unpacker) take(count int) []byte {
	if nil != u.err {
		return nil
	}
	if count < 0 || u.n+count > len(u.data) {
		u.err = fault.RecordTooShort
		return nil
	}
	b := u.data[u.n : u.n+count]
	u.n += count
	return b
}

// U8 - one byte
func (u *Unpacker) U8() uint8 {
	b := u.take(1)
	if nil == b {
		return 0
	}
	return b[0]
}

// U32 - little endian 32 bit value
func (u *Unpacker) U32() uint32 {
	b := u.take(4)
	if nil == b {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64 - little endian 64 bit value
func (u *Unpacker) U64() uint64 {
	b := u.take(8)
	if nil == b {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// Bytes - length prefixed byte string
func (u *Unpacker) Bytes() []byte {
	n := u.U32()
	return u.take(int(n))
}

// Raw - fixed count of bytes
func (u *Unpacker) Raw(count int) []byte {
	return u.take(count)
}

// Err - first error encountered, or fault.InvalidError if bytes remain
func (u *Unpacker) Err() error {
	if nil != u.err {
		return u.err
	}
	if u.n != len(u.data) {
		return fault.InvalidError("trailing bytes in payload")
	}
	return nil
}
