// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package unlock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pqvault/unlock"
)

func TestNextWalksEveryPhaseOnce(t *testing.T) {
	expected := []string{"SIGN", "INIT_STORAGE", "UPLOAD", "INIT", "FORS_BATCH_1", "FORS_BATCH_2", "FORS_ROOT"}
	for layer := 0; layer < unlock.Layers; layer += 1 {
		for _, name := range []string{"WOTS_PART_1", "WOTS_PART_2", "WOTS_PART_3", "MERKLE"} {
			expected = append(expected, name+"["+string(rune('0'+layer))+"]")
		}
	}
	expected = append(expected, "FINALIZE", "UNLOCKED")

	actual := []string{}
	p := unlock.Start
	for {
		actual = append(actual, p.String())
		if p.Terminal() {
			break
		}
		p = unlock.Next(p, true)
	}
	assert.Equal(t, expected, actual, "phase order")
}

func TestNextFailureAborts(t *testing.T) {
	for p := unlock.Start; !p.Terminal(); p = unlock.Next(p, true) {
		assert.Equal(t, unlock.PhaseAborted, unlock.Next(p, false).Phase, "failure at: %s", p)
	}

	unlocked := unlock.Position{Phase: unlock.PhaseUnlocked}
	aborted := unlock.Position{Phase: unlock.PhaseAborted}
	assert.Equal(t, unlocked, unlock.Next(unlocked, false), "terminal unlocked")
	assert.Equal(t, aborted, unlock.Next(aborted, true), "terminal aborted")
}

func TestVerificationPlan(t *testing.T) {
	plan := unlock.VerificationPlan()
	assert.Len(t, plan, 33, "ledger verification steps")
	assert.Equal(t, unlock.PhaseInit, plan[0].Phase, "first")
	assert.Equal(t, unlock.PhaseFinalize, plan[32].Phase, "last")
	assert.Equal(t, unlock.Position{Phase: unlock.PhaseWotsPart1, Layer: 0}, plan[4], "first layer step")
	assert.Equal(t, unlock.Position{Phase: unlock.PhaseMerkle, Layer: 6}, plan[31], "last layer step")

	assert.Equal(t, 45, unlock.TotalSteps(10), "total steps for ten chunks")
	assert.Equal(t, "PHASE(99)", unlock.Phase(99).String(), "unknown phase")
}
