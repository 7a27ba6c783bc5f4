// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// pqvault - command line client for post-quantum vaults
//
// every command except version reads a Lua configuration file
// (--config, default ./pqvault.conf) and prints its result as JSON on
// stdout; progress and verbose details go to stderr
//
// a minimal configuration:
//
//	local M = {}
//	M.data_directory = "."
//	M.rpc_url = "https://api.devnet.solana.com"
//	M.keypair = "id.json"
//	M.logging = { console = false }
//	return M
//
// typical use:
//
//	pqvault generate --ledger
//	pqvault register
//	pqvault lock
//	pqvault unlock
//	pqvault network --record
package main
