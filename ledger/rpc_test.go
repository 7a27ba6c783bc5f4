// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/fixtures"
	"github.com/bitmark-inc/pqvault/ledger"
)

// minimal ledger node answering the methods the gateway uses
type fakeNode struct {
	sync.Mutex
	t         *testing.T
	accounts  map[string][]byte
	statuses  []string // returned in order, last one repeats
	sendError bool
	calls     map[string]int
	params    map[string]json.RawMessage
}

type rpcRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Id     json.RawMessage `json:"id"`
}

func newFakeNode(t *testing.T) *fakeNode {
	return &fakeNode{
		t:        t,
		accounts: make(map[string][]byte),
		calls:    make(map[string]int),
		params:   make(map[string]json.RawMessage),
	}
}

func encodedAccount(data []byte) interface{} {
	if nil == data {
		return nil
	}
	return map[string]interface{}{
		"data":     []string{base64.StdEncoding.EncodeToString(data), "base64"},
		"lamports": 1,
		"owner":    address.SystemProgram.String(),
	}
}

func (f *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.Lock()
	defer f.Unlock()

	request := rpcRequest{}
	if err := json.NewDecoder(r.Body).Decode(&request); nil != err {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.calls[request.Method] += 1
	f.params[request.Method] = request.Params

	var params []json.RawMessage
	_ = json.Unmarshal(request.Params, &params)

	var result interface{}
	var rpcError interface{}

	switch request.Method {
	case "getAccountInfo":
		var key string
		_ = json.Unmarshal(params[0], &key)
		result = map[string]interface{}{"value": encodedAccount(f.accounts[key])}

	case "getMultipleAccounts":
		var keys []string
		_ = json.Unmarshal(params[0], &keys)
		values := make([]interface{}, len(keys))
		for i, k := range keys {
			values[i] = encodedAccount(f.accounts[k])
		}
		result = map[string]interface{}{"value": values}

	case "getProgramAccounts":
		items := []interface{}{}
		for k, v := range f.accounts {
			items = append(items, map[string]interface{}{
				"pubkey":  k,
				"account": encodedAccount(v[8:40]),
			})
		}
		result = items

	case "getLatestBlockhash":
		result = map[string]interface{}{
			"value": map[string]interface{}{
				"blockhash":            base58.Encode(make([]byte, 32)),
				"lastValidBlockHeight": 100,
			},
		}

	case "sendTransaction":
		if f.sendError {
			rpcError = map[string]interface{}{"code": -32002, "message": "simulation failed"}
			break
		}
		var encoded string
		_ = json.Unmarshal(params[0], &encoded)
		wire, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(f.t, err, "transaction encoding")
		signature := wire[1:65]
		message := wire[65:]
		payer := message[4:36]
		assert.True(f.t, ed25519.Verify(ed25519.PublicKey(payer), message, signature), "payer signature")
		result = base58.Encode(signature)

	case "getSignatureStatuses":
		var status interface{}
		if len(f.statuses) > 0 {
			s := f.statuses[0]
			if len(f.statuses) > 1 {
				f.statuses = f.statuses[1:]
			}
			switch s {
			case "":
			case "failed":
				status = map[string]interface{}{
					"slot":               5,
					"err":                map[string]interface{}{"InstructionError": []interface{}{0, map[string]int{"Custom": 6001}}},
					"confirmationStatus": "confirmed",
				}
			default:
				status = map[string]interface{}{"slot": 5, "err": nil, "confirmationStatus": s}
			}
		}
		result = map[string]interface{}{"value": []interface{}{status}}

	default:
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      request.Id,
	}
	if nil != rpcError {
		response["error"] = rpcError
	} else {
		response["result"] = result
	}
	_ = json.NewEncoder(w).Encode(response)
}

func (f *fakeNode) count(method string) int {
	f.Lock()
	defer f.Unlock()
	return f.calls[method]
}

func setupGateway(t *testing.T, node *fakeNode) (*ledger.RPC, func()) {
	fixtures.SetupTestLogger()
	server := httptest.NewServer(node)

	gateway, err := ledger.NewRPC(ledger.RPCConfiguration{
		URL:               server.URL,
		SubmitTimeout:     200 * time.Millisecond,
		PollInterval:      time.Millisecond,
		RequestsPerSecond: 10000,
	})
	require.NoError(t, err, "gateway")

	return gateway, func() {
		server.Close()
		fixtures.TeardownTestLogger()
	}
}

func testSigner(t *testing.T) *ledger.Keypair {
	seed := fixtures.Bytes32("fee payer")
	k, err := ledger.KeypairFromSeed(seed[:])
	require.NoError(t, err, "keypair")
	return k
}

func TestNewRPCRequiresURL(t *testing.T) {
	_, err := ledger.NewRPC(ledger.RPCConfiguration{})
	assert.True(t, fault.IsErrInvalid(err), "missing url")
}

func TestFetchAccount(t *testing.T) {
	node := newFakeNode(t)
	present := address.Address(fixtures.Bytes32("present"))
	absent := address.Address(fixtures.Bytes32("absent"))
	node.accounts[present.String()] = []byte{1, 2, 3, 4}

	gateway, teardown := setupGateway(t, node)
	defer teardown()

	data, err := gateway.FetchAccount(context.Background(), present)
	require.NoError(t, err, "present account")
	assert.Equal(t, []byte{1, 2, 3, 4}, data, "data")

	_, err = gateway.FetchAccount(context.Background(), absent)
	assert.Equal(t, fault.AccountNotFound, err, "absent account")
}

func TestFetchAccountsBatch(t *testing.T) {
	node := newFakeNode(t)
	a1 := address.Address(fixtures.Bytes32("one"))
	a2 := address.Address(fixtures.Bytes32("two"))
	a3 := address.Address(fixtures.Bytes32("three"))
	node.accounts[a1.String()] = []byte{1}
	node.accounts[a3.String()] = []byte{3}

	gateway, teardown := setupGateway(t, node)
	defer teardown()

	result, err := gateway.FetchAccountsBatch(context.Background(), []address.Address{a1, a2, a3})
	require.NoError(t, err, "batch")
	assert.Equal(t, [][]byte{{1}, nil, {3}}, result, "absent entry is nil")

	tooMany := make([]address.Address, ledger.MaximumBatch+1)
	_, err = gateway.FetchAccountsBatch(context.Background(), tooMany)
	assert.Equal(t, fault.BatchTooLarge, err, "over the limit")
	assert.Equal(t, 1, node.count("getMultipleAccounts"), "oversize batch is not sent")
}

func TestScanFilteredAccounts(t *testing.T) {
	node := newFakeNode(t)
	record := make([]byte, 110)
	owner := fixtures.Bytes32("owner")
	copy(record[8:40], owner[:])
	vault := address.Address(fixtures.Bytes32("vault"))
	node.accounts[vault.String()] = record

	gateway, teardown := setupGateway(t, node)
	defer teardown()

	filter := ledger.ScanFilter{
		Matches: []ledger.Memcmp{
			{Offset: 0, Bytes: []byte{1, 2}},
			{Offset: 77, Bytes: []byte{1}},
		},
		DataSize:    110,
		SliceOffset: 8,
		SliceLength: 32,
	}
	program := address.Address(fixtures.Bytes32("program"))
	result, err := gateway.ScanFilteredAccounts(context.Background(), program, filter)
	require.NoError(t, err, "scan")
	require.Len(t, result, 1, "matches")
	assert.Equal(t, vault, result[0].Address, "key")
	assert.Equal(t, owner[:], result[0].Data, "owner slice")

	var params []json.RawMessage
	require.NoError(t, json.Unmarshal(node.params["getProgramAccounts"], &params))
	var options struct {
		Filters []struct {
			DataSize *int `json:"dataSize"`
			Memcmp   *struct {
				Offset int    `json:"offset"`
				Bytes  string `json:"bytes"`
			} `json:"memcmp"`
		} `json:"filters"`
		DataSlice struct {
			Offset int `json:"offset"`
			Length int `json:"length"`
		} `json:"dataSlice"`
	}
	require.NoError(t, json.Unmarshal(params[1], &options))
	require.Len(t, options.Filters, 3, "filters")
	require.NotNil(t, options.Filters[0].DataSize, "data size filter")
	assert.Equal(t, 110, *options.Filters[0].DataSize, "data size")
	require.NotNil(t, options.Filters[1].Memcmp, "tag filter")
	assert.Equal(t, 0, options.Filters[1].Memcmp.Offset, "tag offset")
	assert.Equal(t, "5T", options.Filters[1].Memcmp.Bytes, "base58 of 0x0102")
	require.NotNil(t, options.Filters[2].Memcmp, "locked filter")
	assert.Equal(t, 77, options.Filters[2].Memcmp.Offset, "filter offset")
	assert.Equal(t, "2", options.Filters[2].Memcmp.Bytes, "base58 of a single 1 byte")
	assert.Equal(t, 8, options.DataSlice.Offset, "slice offset")
	assert.Equal(t, 32, options.DataSlice.Length, "slice length")
}

func memoInstruction(signer address.Address) []ledger.Instruction {
	return []ledger.Instruction{
		{
			Program:  address.Address(fixtures.Bytes32("program")),
			Accounts: []ledger.AccountMeta{ledger.ReadOnlySigner(signer)},
			Data:     []byte("hello"),
		},
	}
}

func TestSubmitWaitsForConfirmation(t *testing.T) {
	node := newFakeNode(t)
	node.statuses = []string{"", "processed", "confirmed"}

	gateway, teardown := setupGateway(t, node)
	defer teardown()

	signer := testSigner(t)
	txId, err := gateway.Submit(context.Background(), memoInstruction(signer.Address()), signer)
	require.NoError(t, err, "submit")
	assert.NotEqual(t, ledger.TxId{}, txId, "transaction id")
	assert.Equal(t, 1, node.count("sendTransaction"), "sent once")
	assert.Equal(t, 3, node.count("getSignatureStatuses"), "polled until confirmed")
}

func TestSubmitTransactionFailure(t *testing.T) {
	node := newFakeNode(t)
	node.statuses = []string{"failed"}

	gateway, teardown := setupGateway(t, node)
	defer teardown()

	signer := testSigner(t)
	_, err := gateway.Submit(context.Background(), memoInstruction(signer.Address()), signer)
	assert.True(t, fault.IsErrProcess(err), "ledger error is a process error: %v", err)
	assert.False(t, fault.IsErrTransport(err), "not a transport error")
}

func TestSubmitRejected(t *testing.T) {
	node := newFakeNode(t)
	node.sendError = true

	gateway, teardown := setupGateway(t, node)
	defer teardown()

	signer := testSigner(t)
	_, err := gateway.Submit(context.Background(), memoInstruction(signer.Address()), signer)
	assert.True(t, fault.IsErrProcess(err), "preflight rejection: %v", err)
	assert.Equal(t, 0, node.count("getSignatureStatuses"), "no polling after rejection")
}

func TestSubmitTimeout(t *testing.T) {
	node := newFakeNode(t)
	node.statuses = []string{""}

	gateway, teardown := setupGateway(t, node)
	defer teardown()

	signer := testSigner(t)
	_, err := gateway.Submit(context.Background(), memoInstruction(signer.Address()), signer)
	assert.True(t, fault.IsErrTransport(err), "timeout is a transport error: %v", err)
	assert.True(t, errors.Is(err, fault.SubmitTimeout), "timeout class")
}

func TestTransportFailure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gateway, err := ledger.NewRPC(ledger.RPCConfiguration{URL: server.URL})
	require.NoError(t, err, "gateway")

	_, err = gateway.FetchAccount(context.Background(), address.SystemProgram)
	assert.True(t, fault.IsErrTransport(err), "bad gateway: %v", err)
}
