// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package unlock

import (
	"fmt"

	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// Layers - hypertree layers checked one by one on the ledger
const Layers = 7

// Phase - position in the unlock sequence
//
// the first three phases run on the client and upload the signature;
// the remainder are the ledger side verification steps
type Phase int

// all phases in execution order
const (
	PhaseSign Phase = iota
	PhaseStorage
	PhaseUpload
	PhaseInit
	PhaseForsBatch1
	PhaseForsBatch2
	PhaseForsRoot
	PhaseWotsPart1
	PhaseWotsPart2
	PhaseWotsPart3
	PhaseMerkle
	PhaseFinalize
	PhaseUnlocked
	PhaseAborted
)

var phaseNames = map[Phase]string{
	PhaseSign:       "SIGN",
	PhaseStorage:    "INIT_STORAGE",
	PhaseUpload:     "UPLOAD",
	PhaseInit:       "INIT",
	PhaseForsBatch1: "FORS_BATCH_1",
	PhaseForsBatch2: "FORS_BATCH_2",
	PhaseForsRoot:   "FORS_ROOT",
	PhaseWotsPart1:  "WOTS_PART_1",
	PhaseWotsPart2:  "WOTS_PART_2",
	PhaseWotsPart3:  "WOTS_PART_3",
	PhaseMerkle:     "MERKLE",
	PhaseFinalize:   "FINALIZE",
	PhaseUnlocked:   "UNLOCKED",
	PhaseAborted:    "ABORTED",
}

// String - upper case name of the phase
func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("PHASE(%d)", int(p))
}

// IsLayerPhase - true for the four steps repeated for every layer
func (p Phase) IsLayerPhase() bool {
	return p >= PhaseWotsPart1 && p <= PhaseMerkle
}

// Position - a phase plus, for layer phases, the 0-indexed layer
type Position struct {
	Phase Phase
	Layer int
}

// Start - where every unlock attempt begins
var Start = Position{Phase: PhaseSign}

// Terminal - no transition leaves this position
func (p Position) Terminal() bool {
	return PhaseUnlocked == p.Phase || PhaseAborted == p.Phase
}

// String - phase name with layer when relevant
func (p Position) String() string {
	if p.Phase.IsLayerPhase() {
		return fmt.Sprintf("%s[%d]", p.Phase, p.Layer)
	}
	return p.Phase.String()
}

// Next - the transition function
//
// any failure aborts, terminal positions never change and success
// moves to the single permitted successor
func Next(p Position, ok bool) Position {
	if p.Terminal() {
		return p
	}
	if !ok {
		return Position{Phase: PhaseAborted}
	}

	switch p.Phase {
	case PhaseSign, PhaseStorage, PhaseUpload, PhaseInit, PhaseForsBatch1, PhaseForsBatch2:
		return Position{Phase: p.Phase + 1}
	case PhaseForsRoot:
		return Position{Phase: PhaseWotsPart1, Layer: 0}
	case PhaseWotsPart1, PhaseWotsPart2, PhaseWotsPart3:
		return Position{Phase: p.Phase + 1, Layer: p.Layer}
	case PhaseMerkle:
		if p.Layer+1 < Layers {
			return Position{Phase: PhaseWotsPart1, Layer: p.Layer + 1}
		}
		return Position{Phase: PhaseFinalize}
	case PhaseFinalize:
		return Position{Phase: PhaseUnlocked}
	}
	return Position{Phase: PhaseAborted}
}

// VerificationPlan - every ledger verification step from INIT to FINALIZE
func VerificationPlan() []Position {
	plan := []Position{}
	for p := (Position{Phase: PhaseInit}); !p.Terminal(); p = Next(p, true) {
		plan = append(plan, p)
	}
	return plan
}

// TotalSteps - client and ledger steps for a signature of the given
// number of chunks
func TotalSteps(chunks int) int {
	return 1 + 1 + chunks + len(VerificationPlan())
}

// selector for each ledger verification phase
var phaseCode = map[Phase]vaultrecord.Discriminator{
	PhaseInit:       vaultrecord.VerifyInitCode,
	PhaseForsBatch1: vaultrecord.ForsBatch1Code,
	PhaseForsBatch2: vaultrecord.ForsBatch2Code,
	PhaseForsRoot:   vaultrecord.ForsRootCode,
	PhaseWotsPart1:  vaultrecord.WotsPart1Code,
	PhaseWotsPart2:  vaultrecord.WotsPart2Code,
	PhaseWotsPart3:  vaultrecord.WotsPart3Code,
	PhaseMerkle:     vaultrecord.MerkleCode,
	PhaseFinalize:   vaultrecord.FinalizeCode,
}
