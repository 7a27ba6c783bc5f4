// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pqvault/util"
)

func TestFormatAmount(t *testing.T) {
	items := []struct {
		units    uint64
		decimals int
		expected string
	}{
		{0, 6, "0"},
		{1, 6, "0.000001"},
		{1000000, 6, "1"},
		{1250000, 6, "1.25"},
		{128849018880000, 6, "128849018.88"},
		{42, 0, "42"},
	}
	for i, item := range items {
		assert.Equal(t, item.expected, util.FormatAmount(item.units, item.decimals), "%d: units: %d", i, item.units)
	}
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/keys/a.key", util.EnsureAbsolute("/data", "keys/a.key"), "relative")
	assert.Equal(t, "/etc/a.key", util.EnsureAbsolute("/data", "/etc/a.key"), "absolute")
	assert.Equal(t, "/data/a.key", util.EnsureAbsolute("/data", "./x/../a.key"), "cleaned")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if nil != err {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, ".qdum"), util.ExpandHome("~/.qdum"), "home prefix")
	assert.Equal(t, home, util.ExpandHome("~"), "home")
	assert.Equal(t, "~user/x", util.ExpandHome("~user/x"), "other user untouched")
	assert.Equal(t, "a/b", util.ExpandHome("a/b"), "relative untouched")
}
