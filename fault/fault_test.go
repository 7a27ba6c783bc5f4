// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/pqvault/fault"
)

var (
	ErrExistsOne       = fault.ExistsError("exists one ")
	ErrExistsTwo       = fault.ExistsError("exists two")
	ErrInvalidOne      = fault.InvalidError("invalid one")
	ErrInvalidTwo      = fault.InvalidError("invalid two")
	ErrLengthOne       = fault.LengthError("length one")
	ErrLengthTwo       = fault.LengthError("length two")
	ErrNotFoundOne     = fault.NotFoundError("not found one")
	ErrNotFoundTwo     = fault.NotFoundError("not found two")
	ErrProcessOne      = fault.ProcessError("process one")
	ErrProcessTwo      = fault.ProcessError("process two")
	ErrStateOne        = fault.StateError("state one")
	ErrTransportOne    = fault.TransportError("transport one")
	ErrVerificationOne = fault.VerificationError("verification one")
)

type classes struct {
	exists       bool
	invalid      bool
	length       bool
	notFound     bool
	process      bool
	state        bool
	transport    bool
	verification bool
}

func classify(err error) classes {
	return classes{
		exists:       fault.IsErrExists(err),
		invalid:      fault.IsErrInvalid(err),
		length:       fault.IsErrLength(err),
		notFound:     fault.IsErrNotFound(err),
		process:      fault.IsErrProcess(err),
		state:        fault.IsErrState(err),
		transport:    fault.IsErrTransport(err),
		verification: fault.IsErrVerification(err),
	}
}

// test that the various errors can be subclassed
func TestClasses(t *testing.T) {
	errorList := []struct {
		err      error
		expected classes
	}{
		{ErrExistsOne, classes{exists: true}},
		{ErrExistsTwo, classes{exists: true}},
		{ErrInvalidOne, classes{invalid: true}},
		{ErrInvalidTwo, classes{invalid: true}},
		{ErrLengthOne, classes{length: true}},
		{ErrLengthTwo, classes{length: true}},
		{ErrNotFoundOne, classes{notFound: true}},
		{ErrNotFoundTwo, classes{notFound: true}},
		{ErrProcessOne, classes{process: true}},
		{ErrProcessTwo, classes{process: true}},
		{ErrStateOne, classes{state: true}},
		{ErrTransportOne, classes{transport: true}},
		{ErrVerificationOne, classes{verification: true}},
		{fault.AlreadyLocked, classes{state: true}},
		{fault.StillLocked, classes{verification: true}},
	}

	for i, e := range errorList {
		assert.Equal(t, e.expected, classify(e.err), "%d: wrong class for: %v", i, e.err)
	}
}

func TestWrappedClasses(t *testing.T) {
	wrapped := fmt.Errorf("lock: %w", fault.AlreadyLocked)
	assert.True(t, fault.IsErrState(wrapped), "wrapped state error")
	assert.False(t, fault.IsErrNotFound(wrapped), "wrapped state error is not a not found error")

	cause := errors.New("connection refused")
	err := fault.Transport("rpc request failed", cause)
	assert.True(t, fault.IsErrTransport(err), "transport class")
	assert.True(t, errors.Is(err, cause), "cause preserved")
	assert.Equal(t, "rpc request failed: connection refused", err.Error())

	err = fault.Process("transaction rejected", cause)
	assert.True(t, fault.IsErrProcess(err), "process class")
	assert.False(t, fault.IsErrTransport(err), "process is not transport")

	assert.Nil(t, fault.Transport("nothing", nil))
	assert.Nil(t, fault.Process("nothing", nil))
}
