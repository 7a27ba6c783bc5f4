// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package unlock - drive the multi-step ledger verification of a
// post-quantum signature over a vault's challenge
//
// The sequence is strictly ordered and not resumable: every attempt
// starts by signing the current challenge and reinitialising the
// scratch accounts.  The first failing step aborts the attempt.
package unlock

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/upload"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// SignatureLength - bytes in an SLH-DSA-SHA2-128s signature
const SignatureLength = 7856

// CredentialStore - holder of the post-quantum secret
type CredentialStore interface {
	PublicKey() []byte
	Sign(message []byte) ([]byte, error)
}

// ProgressSink - receives a report after every completed step
type ProgressSink interface {
	Report(current int, total int, message string)
}

// ProgressFunc - adapt a function to ProgressSink
type ProgressFunc func(current int, total int, message string)

// Report - call the function
func (f ProgressFunc) Report(current int, total int, message string) {
	f(current, total, message)
}

type discard struct{}

func (discard) Report(int, int, string) {}

// StepError - failure of one step, tagged with where it happened
type StepError struct {
	Position Position
	Account  address.Address
	Err      error
}

// Error - describe the failing step
func (e *StepError) Error() string {
	return fmt.Sprintf("unlock step: %s  account: %s  error: %s", e.Position, e.Account, e.Err)
}

// Unwrap - expose the underlying fault class
func (e *StepError) Unwrap() error {
	return e.Err
}

// Result - outcome of a successful unlock
type Result struct {
	Vault        address.Address `json:"vault"`
	Storage      address.Address `json:"signatureStorage"`
	State        address.Address `json:"verificationState"`
	Steps        int             `json:"steps"`
	Transactions []ledger.TxId   `json:"transactions"`
}

// Orchestrator - one unlock attempt for one vault
type Orchestrator struct {
	gateway     ledger.Gateway
	program     address.Address
	owner       ledger.Signer
	credentials CredentialStore
	progress    ProgressSink
	uploader    *upload.Uploader
	log         *logger.L

	position     Position
	step         int
	total        int
	transactions []ledger.TxId
}

// New - prepare an attempt; a nil progress sink discards reports
func New(gateway ledger.Gateway, program address.Address, owner ledger.Signer, credentials CredentialStore, progress ProgressSink) *Orchestrator {
	if nil == progress {
		progress = discard{}
	}
	return &Orchestrator{
		gateway:     gateway,
		program:     program,
		owner:       owner,
		credentials: credentials,
		progress:    progress,
		uploader:    upload.New(gateway, program, owner),
		log:         logger.New("unlock"),
		position:    Start,
	}
}

// Position - current phase of the attempt
func (o *Orchestrator) Position() Position {
	return o.position
}

// Unlock - run the whole sequence
//
// returns fault.AccountNotFound if there is no vault,
// fault.NotLocked if it is not locked, a LengthError for bad key or
// signature sizes, and a *StepError for any step that fails; the
// StepError wraps fault.StillLocked if every step succeeded but the
// ledger did not accept the signature
func (o *Orchestrator) Unlock(ctx context.Context) (*Result, error) {
	if Start != o.position {
		return nil, fault.InvalidPhase
	}

	vaultAddress, err := address.Vault(o.owner.Address(), o.program)
	if nil != err {
		return nil, err
	}
	vault, err := o.readVault(ctx, vaultAddress)
	if nil != err {
		return nil, err
	}
	if !vault.Locked {
		return nil, fault.NotLocked
	}

	publicKey := o.credentials.PublicKey()
	if vaultrecord.StandardKeyLength != len(publicKey) {
		return nil, fault.PublicKeyLength
	}
	if string(publicKey) != string(vault.PublicKey) {
		o.log.Warnf("vault: %s  public key differs from the registered key", vaultAddress)
	}

	identifier := address.ScratchIdentifier(publicKey)
	storage, err := address.SignatureStorage(o.owner.Address(), identifier, o.program)
	if nil != err {
		return nil, err
	}
	state, err := address.VerificationState(o.owner.Address(), identifier, o.program)
	if nil != err {
		return nil, err
	}

	chunks := upload.Chunks(SignatureLength, upload.ChunkSize)
	o.total = TotalSteps(len(chunks))
	challenge := vault.Challenge[:]

	o.log.Infof("unlock vault: %s  identifier: %s  steps: %d", vaultAddress, identifier, o.total)

	// sign
	signature, err := o.credentials.Sign(challenge)
	if nil == err && SignatureLength != len(signature) {
		err = fault.SignatureLength
	}
	if err = o.complete(ctx, vaultAddress, err, "signature generated"); nil != err {
		return nil, err
	}

	// reinitialise storage
	err = o.uploader.Initialize(ctx, storage, identifier, publicKey, challenge)
	if err = o.complete(ctx, storage, err, "signature storage initialised"); nil != err {
		return nil, err
	}

	// upload
	for i, r := range chunks {
		err = o.uploader.UploadChunk(ctx, storage, r.Offset, signature[r.Offset:r.End])
		if nil != err {
			return nil, o.abort(storage, err)
		}
		if i+1 == len(chunks) {
			if err := o.complete(ctx, storage, nil, "upload complete"); nil != err {
				return nil, err
			}
		} else {
			if err := o.checkpoint(ctx, storage, fmt.Sprintf("uploaded chunk %d of %d", i+1, len(chunks))); nil != err {
				return nil, err
			}
		}
	}

	// ledger verification
	for !o.position.Terminal() {
		var instruction ledger.Instruction
		account := state

		switch p := o.position; p.Phase {
		case PhaseInit:
			instruction = vaultrecord.VerifyInit(o.program, state, storage, o.owner.Address(), identifier, challenge, publicKey, 0)
		case PhaseForsBatch1, PhaseForsBatch2:
			instruction = vaultrecord.VerifyStep(phaseCode[p.Phase], o.program, state, storage, o.owner.Address(), -1)
		case PhaseForsRoot:
			instruction = vaultrecord.VerifyForsRoot(o.program, state, o.owner.Address())
		case PhaseWotsPart1, PhaseWotsPart2, PhaseWotsPart3, PhaseMerkle:
			instruction = vaultrecord.VerifyStep(phaseCode[p.Phase], o.program, state, storage, o.owner.Address(), p.Layer)
		case PhaseFinalize:
			instruction = vaultrecord.VerifyFinalize(o.program, state, vaultAddress, o.owner.Address())
			account = vaultAddress
		default:
			return nil, o.abort(state, fault.InvalidPhase)
		}

		txId, err := o.gateway.Submit(ctx, []ledger.Instruction{instruction}, o.owner)
		if nil == err {
			o.transactions = append(o.transactions, txId)
			o.log.Debugf("step: %s  tx: %s", o.position, txId)
		}
		if err = o.complete(ctx, account, err, "verified "+o.position.String()); nil != err {
			return nil, err
		}
	}

	// the finalise step may succeed without unlocking; the ledger has
	// decided by now so the read back ignores cancellation
	after, err := o.readVault(context.WithoutCancel(ctx), vaultAddress)
	if nil != err {
		o.position = Position{Phase: PhaseAborted}
		return nil, &StepError{Position: Position{Phase: PhaseFinalize}, Account: vaultAddress, Err: err}
	}
	if after.Locked {
		o.position = Position{Phase: PhaseAborted}
		o.log.Errorf("vault: %s  still locked after verification", vaultAddress)
		return nil, &StepError{Position: Position{Phase: PhaseFinalize}, Account: vaultAddress, Err: fault.StillLocked}
	}

	o.log.Infof("vault: %s  unlocked in %d steps", vaultAddress, o.step)
	return &Result{
		Vault:        vaultAddress,
		Storage:      storage,
		State:        state,
		Steps:        o.step,
		Transactions: o.transactions,
	}, nil
}

// finish the current phase: abort on error otherwise report and advance
func (o *Orchestrator) complete(ctx context.Context, account address.Address, err error, message string) error {
	if nil != err {
		return o.abort(account, err)
	}
	if err := o.checkpoint(ctx, account, message); nil != err {
		return err
	}
	o.position = Next(o.position, true)
	return nil
}

// count a finished step and stop if the caller has given up
//
// nothing is left to stop once FINALIZE is confirmed
func (o *Orchestrator) checkpoint(ctx context.Context, account address.Address, message string) error {
	o.step += 1
	o.progress.Report(o.step, o.total, message)
	if PhaseFinalize == o.position.Phase {
		return nil
	}
	if err := ctx.Err(); nil != err {
		return o.abort(account, err)
	}
	return nil
}

func (o *Orchestrator) abort(account address.Address, err error) error {
	e := &StepError{Position: o.position, Account: account, Err: err}
	o.log.Errorf("%s", e)
	o.position = Next(o.position, false)
	return e
}

func (o *Orchestrator) readVault(ctx context.Context, vaultAddress address.Address) (*vaultrecord.Vault, error) {
	data, err := o.gateway.FetchAccount(ctx, vaultAddress)
	if nil != err {
		return nil, err
	}
	return vaultrecord.ParseVault(data)
}
