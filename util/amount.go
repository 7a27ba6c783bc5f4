// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"strconv"
	"strings"
)

// FormatAmount - base units as a decimal string with trailing zeros removed
func FormatAmount(units uint64, decimals int) string {
	s := strconv.FormatUint(units, 10)
	if decimals <= 0 {
		return s
	}
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}
	whole := s[:len(s)-decimals]
	fraction := strings.TrimRight(s[len(s)-decimals:], "0")
	if "" == fraction {
		return whole
	}
	return whole + "." + fraction
}
