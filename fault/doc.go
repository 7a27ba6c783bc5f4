// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error classes shared by every vault component
//
// each error is a single value of one of the class types so callers
// compare by identity or ask IsErrX for the class, which also works
// through wrapped errors
package fault
