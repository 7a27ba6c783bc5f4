// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the local on-disk history store
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++        = concatenation of byte data
// 3. timestamp = unix nanoseconds as big endian uint64 (8 bytes)
// 4. amount    = token base units as big endian uint64 (8 bytes)
// 5. count     = big endian uint64 (8 bytes)
//
// Network locks:
//
//   L ++ timestamp             - network wide lock snapshot
//                                data: amount ++ count
//
// Airdrop:
//
//   A ++ timestamp             - airdrop pool snapshot
//                                data: distributed amount ++ remaining amount
//
// Testing:
//   Z ++ key                   - testing data
package storage
