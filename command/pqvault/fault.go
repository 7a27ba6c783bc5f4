// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitmark-inc/pqvault/fault"
)

// common errors - keep in alphabetic order
const (
	ErrConfigurationRemoved = fault.ProcessError("configuration file removed")
	ErrInvalidOwner         = fault.InvalidError("invalid owner address")
	ErrInvalidReceiver      = fault.InvalidError("invalid receiver address")
	ErrMissingConfiguration = fault.InvalidError("configuration file name is required")
)
