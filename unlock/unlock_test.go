// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package unlock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/fixtures"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/ledger/ledgertest"
	"github.com/bitmark-inc/pqvault/ledger/mocks"
	"github.com/bitmark-inc/pqvault/unlock"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

var program = address.Address(fixtures.Bytes32("program"))

type fakeCredentials struct {
	publicKey []byte
	message   []byte // sign this instead of the challenge when set
	length    int    // truncate the signature when set
	err       error
}

func (f *fakeCredentials) PublicKey() []byte {
	return f.publicKey
}

func (f *fakeCredentials) Sign(message []byte) ([]byte, error) {
	if nil != f.err {
		return nil, f.err
	}
	if nil != f.message {
		message = f.message
	}
	signature := ledgertest.FakeSignature(f.publicKey, message)
	if f.length > 0 {
		signature = signature[:f.length]
	}
	return signature, nil
}

type report struct {
	current int
	total   int
}

type recorder struct {
	reports []report
}

func (r *recorder) Report(current int, total int, message string) {
	r.reports = append(r.reports, report{current, total})
}

func publicKey(label string) []byte {
	k := fixtures.Bytes32(label)
	return k[:]
}

func owner(t *testing.T) *ledger.Keypair {
	seed := fixtures.Bytes32("owner")
	k, err := ledger.KeypairFromSeed(seed[:])
	require.NoError(t, err)
	return k
}

// a ledger holding one vault for the owner
func setupLedger(t *testing.T, locked bool) (*ledgertest.Ledger, *ledger.Keypair, address.Address) {
	fixtures.SetupTestLogger()

	l := ledgertest.New(program, nil)
	o := owner(t)
	vault := l.SetVault(&vaultrecord.Vault{
		Owner:     o.Address(),
		Algorithm: vaultrecord.AlgorithmSphincsSHA2128s,
		PublicKey: publicKey("quantum key"),
		Locked:    locked,
		Challenge: vaultrecord.Challenge(fixtures.Bytes32("challenge")),
	})
	return l, o, vault
}

func isLocked(t *testing.T, l *ledgertest.Ledger, vault address.Address) bool {
	data, err := l.FetchAccount(context.Background(), vault)
	require.NoError(t, err, "vault")
	v, err := vaultrecord.ParseVault(data)
	require.NoError(t, err, "parse")
	return v.Locked
}

func expectedHistory() []vaultrecord.Discriminator {
	h := []vaultrecord.Discriminator{vaultrecord.InitializeStorageCode}
	for i := 0; i < 10; i += 1 {
		h = append(h, vaultrecord.UploadChunkCode)
	}
	h = append(h,
		vaultrecord.VerifyInitCode,
		vaultrecord.ForsBatch1Code,
		vaultrecord.ForsBatch2Code,
		vaultrecord.ForsRootCode,
	)
	for i := 0; i < unlock.Layers; i += 1 {
		h = append(h,
			vaultrecord.WotsPart1Code,
			vaultrecord.WotsPart2Code,
			vaultrecord.WotsPart3Code,
			vaultrecord.MerkleCode,
		)
	}
	return append(h, vaultrecord.FinalizeCode)
}

func TestUnlockSuccess(t *testing.T) {
	l, o, vault := setupLedger(t, true)
	defer fixtures.TeardownTestLogger()

	progress := &recorder{}
	orchestrator := unlock.New(l, program, o, &fakeCredentials{publicKey: publicKey("quantum key")}, progress)

	result, err := orchestrator.Unlock(context.Background())
	require.NoError(t, err, "unlock")
	assert.False(t, isLocked(t, l, vault), "vault unlocked")
	assert.Equal(t, unlock.PhaseUnlocked, orchestrator.Position().Phase, "final phase")

	assert.Equal(t, vault, result.Vault, "vault address")
	assert.Equal(t, 45, result.Steps, "steps")
	assert.Len(t, result.Transactions, 33, "verification transactions")
	assert.Equal(t, expectedHistory(), l.History(), "submission order")

	require.Len(t, progress.reports, 45, "a report per step")
	for i, r := range progress.reports {
		assert.Equal(t, report{i + 1, 45}, r, "report: %d", i)
	}
}

func TestUnlockWrongChallengeStaysLocked(t *testing.T) {
	l, o, vault := setupLedger(t, true)
	defer fixtures.TeardownTestLogger()

	credentials := &fakeCredentials{
		publicKey: publicKey("quantum key"),
		message:   []byte("some other message"),
	}
	_, err := unlock.New(l, program, o, credentials, nil).Unlock(context.Background())
	require.Error(t, err, "unlock must fail")
	assert.True(t, fault.IsErrVerification(err), "verification failure: %v", err)
	assert.True(t, errors.Is(err, fault.StillLocked), "still locked")

	var stepError *unlock.StepError
	require.True(t, errors.As(err, &stepError), "tagged error")
	assert.Equal(t, unlock.PhaseFinalize, stepError.Position.Phase, "phase")
	assert.Equal(t, vault, stepError.Account, "account")

	assert.True(t, isLocked(t, l, vault), "vault still locked")
}

func TestUnlockWrongKeyStaysLocked(t *testing.T) {
	l, o, vault := setupLedger(t, true)
	defer fixtures.TeardownTestLogger()

	credentials := &fakeCredentials{publicKey: publicKey("some other key")}
	_, err := unlock.New(l, program, o, credentials, nil).Unlock(context.Background())
	assert.True(t, fault.IsErrVerification(err), "verification failure: %v", err)
	assert.True(t, isLocked(t, l, vault), "vault still locked")
}

func TestUnlockPreconditions(t *testing.T) {
	l, o, _ := setupLedger(t, false)
	defer fixtures.TeardownTestLogger()

	credentials := &fakeCredentials{publicKey: publicKey("quantum key")}

	_, err := unlock.New(l, program, o, credentials, nil).Unlock(context.Background())
	assert.Equal(t, fault.NotLocked, err, "unlock while unlocked")
	assert.True(t, fault.IsErrState(err), "state class")

	stranger, err := ledger.NewKeypair()
	require.NoError(t, err)
	_, err = unlock.New(l, program, stranger, credentials, nil).Unlock(context.Background())
	assert.Equal(t, fault.AccountNotFound, err, "no vault")

	assert.Empty(t, l.History(), "nothing submitted")
}

func TestUnlockSizeChecks(t *testing.T) {
	l, o, _ := setupLedger(t, true)
	defer fixtures.TeardownTestLogger()

	_, err := unlock.New(l, program, o, &fakeCredentials{publicKey: make([]byte, 31)}, nil).Unlock(context.Background())
	assert.Equal(t, fault.PublicKeyLength, err, "key size")

	credentials := &fakeCredentials{publicKey: publicKey("quantum key"), length: 7000}
	orchestrator := unlock.New(l, program, o, credentials, nil)
	_, err = orchestrator.Unlock(context.Background())
	assert.True(t, errors.Is(err, fault.SignatureLength), "signature size: %v", err)

	var stepError *unlock.StepError
	require.True(t, errors.As(err, &stepError), "tagged error")
	assert.Equal(t, unlock.PhaseSign, stepError.Position.Phase, "failed while signing")
	assert.Equal(t, unlock.PhaseAborted, orchestrator.Position().Phase, "aborted")
	assert.Empty(t, l.History(), "nothing submitted")

	_, err = orchestrator.Unlock(context.Background())
	assert.Equal(t, fault.InvalidPhase, err, "an orchestrator runs once")
}

func TestUnlockAbortsAtFirstFailure(t *testing.T) {
	l, o, vault := setupLedger(t, true)
	defer fixtures.TeardownTestLogger()

	failure := fault.TransportError("node unavailable")
	l.FailNext(vaultrecord.WotsPart2Code, failure)

	credentials := &fakeCredentials{publicKey: publicKey("quantum key")}
	orchestrator := unlock.New(l, program, o, credentials, nil)
	_, err := orchestrator.Unlock(context.Background())
	require.Error(t, err)
	assert.True(t, fault.IsErrTransport(err), "transport class preserved")

	var stepError *unlock.StepError
	require.True(t, errors.As(err, &stepError), "tagged error")
	assert.Equal(t, unlock.Position{Phase: unlock.PhaseWotsPart2, Layer: 0}, stepError.Position, "failing phase")
	state, _ := address.VerificationState(o.Address(), address.ScratchIdentifier(credentials.publicKey), program)
	assert.Equal(t, state, stepError.Account, "verification state account")

	assert.Equal(t, 0, l.Submissions(vaultrecord.WotsPart3Code), "nothing after the failure")
	assert.Equal(t, 0, l.Submissions(vaultrecord.FinalizeCode), "never finalised")
	assert.True(t, isLocked(t, l, vault), "still locked")

	// a fresh attempt starts from the beginning and succeeds
	_, err = unlock.New(l, program, o, credentials, nil).Unlock(context.Background())
	require.NoError(t, err, "second attempt")
	assert.False(t, isLocked(t, l, vault), "unlocked")
	assert.Equal(t, 2, l.Submissions(vaultrecord.InitializeStorageCode), "storage reinitialised")
	assert.Equal(t, 2, l.Submissions(vaultrecord.VerifyInitCode), "verification reinitialised")
}

func TestUnlockCancelledBetweenSteps(t *testing.T) {
	l, o, vault := setupLedger(t, true)
	defer fixtures.TeardownTestLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progress := unlock.ProgressFunc(func(current int, total int, message string) {
		if 5 == current {
			cancel()
		}
	})
	credentials := &fakeCredentials{publicKey: publicKey("quantum key")}
	_, err := unlock.New(l, program, o, credentials, progress).Unlock(ctx)
	assert.True(t, errors.Is(err, context.Canceled), "cancelled: %v", err)
	assert.Equal(t, 3, l.Submissions(vaultrecord.UploadChunkCode), "stopped after the step in progress")
	assert.True(t, isLocked(t, l, vault), "still locked")
}

func TestUnlockCancelledAfterFinalize(t *testing.T) {
	l, o, vault := setupLedger(t, true)
	defer fixtures.TeardownTestLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	progress := unlock.ProgressFunc(func(current int, total int, message string) {
		if current == total {
			cancel()
		}
	})
	credentials := &fakeCredentials{publicKey: publicKey("quantum key")}
	orchestrator := unlock.New(l, program, o, credentials, progress)

	result, err := orchestrator.Unlock(ctx)
	require.NoError(t, err, "the ledger already unlocked the vault")
	assert.Equal(t, 45, result.Steps, "steps")
	assert.Equal(t, unlock.PhaseUnlocked, orchestrator.Position().Phase, "final phase")
	assert.False(t, isLocked(t, l, vault), "vault unlocked")
}

func TestUnlockStorageFailureSubmitsNothingElse(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	o := owner(t)
	vaultAddress, err := address.Vault(o.Address(), program)
	require.NoError(t, err)
	v := &vaultrecord.Vault{
		Owner:     o.Address(),
		PublicKey: publicKey("quantum key"),
		Locked:    true,
	}

	failure := fault.ProcessError("insufficient funds for rent")
	gateway := mocks.NewMockGateway(ctl)
	gateway.EXPECT().FetchAccount(gomock.Any(), vaultAddress).Return(v.Pack(), nil).Times(1)
	gateway.EXPECT().Submit(gomock.Any(), gomock.Any(), o).Return(ledger.TxId{}, failure).Times(1)

	credentials := &fakeCredentials{publicKey: publicKey("quantum key")}
	_, err = unlock.New(gateway, program, o, credentials, nil).Unlock(context.Background())
	assert.True(t, fault.IsErrProcess(err), "process class: %v", err)

	var stepError *unlock.StepError
	require.True(t, errors.As(err, &stepError), "tagged error")
	assert.Equal(t, unlock.PhaseStorage, stepError.Position.Phase, "phase")
}
