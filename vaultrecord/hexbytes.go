// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vaultrecord

import (
	"encoding/hex"
)

// HexBytes - byte slice that is shown as hex text
type HexBytes []byte

// String - hex text form
func (h HexBytes) String() string {
	return hex.EncodeToString(h)
}

// MarshalText - for JSON output
func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText - convert hex text back to bytes
func (h *HexBytes) UnmarshalText(s []byte) error {
	buffer, err := hex.DecodeString(string(s))
	if nil != err {
		return err
	}
	*h = buffer
	return nil
}
