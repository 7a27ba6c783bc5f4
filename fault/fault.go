// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of errors to allow easy comparison.
// Each class is a distinct string type so that callers can decide
// on retry or abort without inspecting the message text.
package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type LengthError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type StateError GenericError
type TransportError GenericError
type VerificationError GenericError

// common errors - keep in alphabetic order
var (
	AccountExists            = ExistsError("account already exists")
	AccountNotFound          = NotFoundError("account not found")
	AlreadyInitialised       = InvalidError("already initialised")
	AlreadyLocked            = StateError("vault is already locked")
	BatchTooLarge            = InvalidError("batch exceeds maximum account count")
	ChallengeLength          = LengthError("challenge length is invalid")
	ChunkTooLarge            = LengthError("chunk exceeds maximum size")
	ConfigurationFileMissing = NotFoundError("configuration file is not found")
	ConfigurationNotTable    = InvalidError("configuration file must return a table")
	InvalidAddress           = InvalidError("invalid address")
	InvalidAmount            = InvalidError("invalid amount")
	InvalidCount             = InvalidError("invalid count")
	InvalidCursor            = InvalidError("invalid cursor")
	InvalidKeypair           = InvalidError("invalid keypair")
	InvalidPhase             = StateError("verification phase out of order")
	InvalidSeed              = InvalidError("seed exceeds maximum length")
	InvalidTimeframe         = InvalidError("invalid timeframe")
	InvalidTransactionId     = InvalidError("invalid transaction id")
	KeyFileExists            = ExistsError("key file already exists")
	MissingSigner            = InvalidError("missing signer for account")
	NoProgramAddress         = ProcessError("unable to find a viable program address bump")
	NotInitialised           = InvalidError("not initialised")
	NotLocked                = StateError("vault is not locked")
	PrivateKeyLength         = LengthError("private key length is invalid")
	PublicKeyLength          = LengthError("public key length is invalid")
	RecordTooShort           = LengthError("record is too short")
	SignatureLength          = LengthError("signature length is invalid")
	StillLocked              = VerificationError("verification did not unlock the vault")
	SubmitTimeout            = TransportError("transaction confirmation timed out")
	TooManySeeds             = InvalidError("too many seeds")
	TransactionTooLarge      = LengthError("transaction exceeds maximum size")
	VaultLocked              = StateError("vault is locked")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string       { return string(e) }
func (e InvalidError) Error() string      { return string(e) }
func (e LengthError) Error() string       { return string(e) }
func (e NotFoundError) Error() string     { return string(e) }
func (e ProcessError) Error() string      { return string(e) }
func (e StateError) Error() string        { return string(e) }
func (e TransportError) Error() string    { return string(e) }
func (e VerificationError) Error() string { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool {
	var t ExistsError
	return errors.As(e, &t)
}

func IsErrInvalid(e error) bool {
	var t InvalidError
	return errors.As(e, &t)
}

func IsErrLength(e error) bool {
	var t LengthError
	return errors.As(e, &t)
}

func IsErrNotFound(e error) bool {
	var t NotFoundError
	return errors.As(e, &t)
}

func IsErrProcess(e error) bool {
	var t ProcessError
	return errors.As(e, &t)
}

func IsErrState(e error) bool {
	var t StateError
	return errors.As(e, &t)
}

func IsErrTransport(e error) bool {
	var t TransportError
	return errors.As(e, &t)
}

func IsErrVerification(e error) bool {
	var t VerificationError
	return errors.As(e, &t)
}

// Transport - wrap a lower level failure as a TransportError so that
// the caller may decide to retry
func Transport(format string, err error) error {
	if nil == err {
		return nil
	}
	return &wrapped{class: TransportError(format), err: err}
}

// Process - wrap a ledger rejection as a ProcessError
func Process(format string, err error) error {
	if nil == err {
		return nil
	}
	return &wrapped{class: ProcessError(format), err: err}
}

// keeps the class visible to errors.As while preserving the cause
type wrapped struct {
	class error
	err   error
}

func (w *wrapped) Error() string {
	return w.class.Error() + ": " + w.err.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.class, w.err}
}
