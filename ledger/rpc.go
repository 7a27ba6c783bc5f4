// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/mr-tron/base58"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
)

// defaults for an RPC gateway
const (
	DefaultCommitment        = "confirmed"
	DefaultSubmitTimeout     = 60 * time.Second
	DefaultPollInterval      = 500 * time.Millisecond
	DefaultRequestsPerSecond = 10
	defaultHTTPTimeout       = 30 * time.Second
)

// RPCConfiguration - how to reach a ledger node
type RPCConfiguration struct {
	URL               string
	Commitment        string
	SubmitTimeout     time.Duration
	PollInterval      time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// RPC - Gateway over the ledger's JSON-RPC 2.0 interface
type RPC struct {
	url           string
	commitment    string
	submitTimeout time.Duration
	pollInterval  time.Duration
	client        *http.Client
	limiter       *rate.Limiter
	log           *logger.L
}

// NewRPC - create a gateway; zero configuration values take defaults
func NewRPC(configuration RPCConfiguration) (*RPC, error) {
	if "" == configuration.URL {
		return nil, fault.InvalidError("rpc url is required")
	}

	r := &RPC{
		url:           configuration.URL,
		commitment:    configuration.Commitment,
		submitTimeout: configuration.SubmitTimeout,
		pollInterval:  configuration.PollInterval,
		client:        configuration.HTTPClient,
		log:           logger.New("ledger"),
	}
	if "" == r.commitment {
		r.commitment = DefaultCommitment
	}
	if r.submitTimeout <= 0 {
		r.submitTimeout = DefaultSubmitTimeout
	}
	if r.pollInterval <= 0 {
		r.pollInterval = DefaultPollInterval
	}
	if nil == r.client {
		r.client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	rps := configuration.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	r.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)

	return r, nil
}

// wire forms of the replies
type accountInfo struct {
	Data     []string `json:"data"`
	Lamports uint64   `json:"lamports"`
	Owner    string   `json:"owner"`
}

type accountReply struct {
	Value *accountInfo `json:"value"`
}

type multipleAccountsReply struct {
	Value []*accountInfo `json:"value"`
}

type programAccount struct {
	Pubkey  string      `json:"pubkey"`
	Account accountInfo `json:"account"`
}

type blockhashReply struct {
	Value struct {
		Blockhash string `json:"blockhash"`
	} `json:"value"`
}

type signatureStatus struct {
	Slot               uint64          `json:"slot"`
	Err                json.RawMessage `json:"err"`
	ConfirmationStatus string          `json:"confirmationStatus"`
}

type signatureStatusesReply struct {
	Value []*signatureStatus `json:"value"`
}

// FetchAccount - read a single account
func (r *RPC) FetchAccount(ctx context.Context, account address.Address) ([]byte, error) {
	reply := accountReply{}
	params := []interface{}{
		account.String(),
		map[string]interface{}{
			"encoding":   "base64",
			"commitment": r.commitment,
		},
	}
	if err := r.call(ctx, "getAccountInfo", params, &reply); nil != err {
		return nil, err
	}
	if nil == reply.Value {
		return nil, fault.AccountNotFound
	}
	return decodeData(reply.Value.Data)
}

// FetchAccountsBatch - read up to MaximumBatch accounts in one request
func (r *RPC) FetchAccountsBatch(ctx context.Context, accounts []address.Address) ([][]byte, error) {
	if len(accounts) > MaximumBatch {
		return nil, fault.BatchTooLarge
	}
	if 0 == len(accounts) {
		return [][]byte{}, nil
	}

	keys := make([]string, len(accounts))
	for i, a := range accounts {
		keys[i] = a.String()
	}

	reply := multipleAccountsReply{}
	params := []interface{}{
		keys,
		map[string]interface{}{
			"encoding":   "base64",
			"commitment": r.commitment,
		},
	}
	if err := r.call(ctx, "getMultipleAccounts", params, &reply); nil != err {
		return nil, err
	}
	if len(reply.Value) != len(accounts) {
		return nil, fault.TransportError("account count mismatch in batch reply")
	}

	result := make([][]byte, len(accounts))
	for i, info := range reply.Value {
		if nil == info {
			continue
		}
		data, err := decodeData(info.Data)
		if nil != err {
			return nil, err
		}
		result[i] = data
	}
	return result, nil
}

// ScanFilteredAccounts - find program accounts matching every filter
func (r *RPC) ScanFilteredAccounts(ctx context.Context, program address.Address, filter ScanFilter) ([]KeyedAccount, error) {
	filters := make([]interface{}, 0, len(filter.Matches)+1)
	if filter.DataSize > 0 {
		filters = append(filters, map[string]interface{}{
			"dataSize": filter.DataSize,
		})
	}
	for _, m := range filter.Matches {
		filters = append(filters, map[string]interface{}{
			"memcmp": map[string]interface{}{
				"offset": m.Offset,
				"bytes":  base58.Encode(m.Bytes),
			},
		})
	}
	options := map[string]interface{}{
		"encoding":   "base64",
		"commitment": r.commitment,
		"filters":    filters,
	}
	if filter.SliceLength > 0 {
		options["dataSlice"] = map[string]interface{}{
			"offset": filter.SliceOffset,
			"length": filter.SliceLength,
		}
	}

	reply := []programAccount{}
	if err := r.call(ctx, "getProgramAccounts", []interface{}{program.String(), options}, &reply); nil != err {
		return nil, err
	}

	result := make([]KeyedAccount, 0, len(reply))
	for _, item := range reply {
		a, err := address.FromBase58(item.Pubkey)
		if nil != err {
			return nil, fault.Transport("invalid account key in scan reply", err)
		}
		data, err := decodeData(item.Account.Data)
		if nil != err {
			return nil, err
		}
		result = append(result, KeyedAccount{Address: a, Data: data})
	}
	r.log.Debugf("scan: program: %s  filters: %d  matches: %d", program, len(filters), len(result))
	return result, nil
}

// Submit - sign, send and wait for confirmation
//
// no retry is attempted; the per-submission timeout bounds the wait
func (r *RPC) Submit(ctx context.Context, instructions []Instruction, feePayer Signer, signers ...Signer) (TxId, error) {

	blockhash, err := r.latestBlockhash(ctx)
	if nil != err {
		return TxId{}, err
	}

	message, err := CompileMessage(instructions, feePayer.Address(), blockhash)
	if nil != err {
		return TxId{}, err
	}
	txId, wire, err := SignTransaction(message, append([]Signer{feePayer}, signers...))
	if nil != err {
		return TxId{}, err
	}

	var sent string
	params := []interface{}{
		base64.StdEncoding.EncodeToString(wire),
		map[string]interface{}{
			"encoding":            "base64",
			"preflightCommitment": r.commitment,
		},
	}
	if err := r.call(ctx, "sendTransaction", params, &sent); nil != err {
		return TxId{}, err
	}
	if sent != txId.String() {
		r.log.Warnf("node returned signature: %s  expected: %s", sent, txId)
	}
	r.log.Debugf("sent: %s  size: %d", txId, len(wire))

	if err := r.waitForConfirmation(ctx, txId); nil != err {
		return txId, err
	}
	return txId, nil
}

func (r *RPC) latestBlockhash(ctx context.Context) (Blockhash, error) {
	reply := blockhashReply{}
	params := []interface{}{
		map[string]interface{}{"commitment": r.commitment},
	}
	if err := r.call(ctx, "getLatestBlockhash", params, &reply); nil != err {
		return Blockhash{}, err
	}

	b, err := base58.Decode(reply.Value.Blockhash)
	if nil != err || len(b) != len(Blockhash{}) {
		return Blockhash{}, fault.TransportError("invalid blockhash in reply")
	}
	blockhash := Blockhash{}
	copy(blockhash[:], b)
	return blockhash, nil
}

// poll the signature status until confirmed, failed or timed out
func (r *RPC) waitForConfirmation(ctx context.Context, txId TxId) error {
	ctx, cancel := context.WithTimeout(ctx, r.submitTimeout)
	defer cancel()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	params := []interface{}{
		[]string{txId.String()},
		map[string]interface{}{"searchTransactionHistory": false},
	}

	for {
		reply := signatureStatusesReply{}
		err := r.call(ctx, "getSignatureStatuses", params, &reply)
		if nil != err && nil != ctx.Err() {
			return fault.Transport(fault.SubmitTimeout.Error(), ctx.Err())
		}
		if nil != err {
			r.log.Warnf("status of: %s  error: %s", txId, err)
		} else if 1 == len(reply.Value) && nil != reply.Value[0] {
			status := reply.Value[0]
			if len(status.Err) > 0 && "null" != string(status.Err) {
				r.log.Errorf("transaction: %s  failed: %s", txId, status.Err)
				return fault.Process("transaction failed", errors.New(string(status.Err)))
			}
			if r.reached(status.ConfirmationStatus) {
				r.log.Debugf("confirmed: %s  slot: %d", txId, status.Slot)
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fault.Transport(fault.SubmitTimeout.Error(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// confirmation levels in increasing strength
var commitmentRank = map[string]int{
	"processed": 1,
	"confirmed": 2,
	"finalized": 3,
}

func (r *RPC) reached(status string) bool {
	got, ok := commitmentRank[status]
	if !ok {
		return false
	}
	return got >= commitmentRank[r.commitment]
}

// one rate limited JSON-RPC round trip
func (r *RPC) call(ctx context.Context, method string, params interface{}, reply interface{}) error {
	if err := r.limiter.Wait(ctx); nil != err {
		return fault.Transport("rate limiter", err)
	}

	body, err := json2.EncodeClientRequest(method, params)
	if nil != err {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if nil != err {
		return fault.Transport(method, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := r.client.Do(request)
	if nil != err {
		return fault.Transport(method, err)
	}
	defer response.Body.Close()

	if http.StatusOK != response.StatusCode {
		return fault.Transport(method, fmt.Errorf("http status: %s", response.Status))
	}

	err = json2.DecodeClientResponse(response.Body, reply)
	if nil == err {
		return nil
	}

	var rpcError *json2.Error
	if errors.As(err, &rpcError) {
		r.log.Debugf("%s: rpc error: %d: %s", method, rpcError.Code, rpcError.Message)
		if "sendTransaction" == method {
			return fault.Process("transaction rejected", rpcError)
		}
	}
	return fault.Transport(method, err)
}

func decodeData(data []string) ([]byte, error) {
	if 2 != len(data) || "base64" != data[1] {
		return nil, fault.TransportError("unexpected account data encoding")
	}
	b, err := base64.StdEncoding.DecodeString(data[0])
	if nil != err {
		return nil, fault.Transport("account data", err)
	}
	return b, nil
}
