// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package stats - network wide totals of locked vault balances
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/vaultrecord"
)

// DefaultTTL - lifetime of a cached network total
const DefaultTTL = 300 * time.Second

// NetworkLock - total locked across every vault holding the asset
type NetworkLock struct {
	Asset     address.Address `json:"asset"`
	Locked    uint64          `json:"locked"`
	Holders   int             `json:"holders"`
	Timestamp time.Time       `json:"timestamp"`
}

// Aggregator - computes and memoises network totals
type Aggregator struct {
	sync.Mutex

	gateway      ledger.Gateway
	program      address.Address
	tokenProgram address.Address
	cache        *cache.Cache
	log          *logger.L
}

// New - aggregator with results kept for ttl, zero meaning DefaultTTL
func New(gateway ledger.Gateway, program address.Address, tokenProgram address.Address, ttl time.Duration) *Aggregator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Aggregator{
		gateway:      gateway,
		program:      program,
		tokenProgram: tokenProgram,
		cache:        cache.New(ttl, 2*ttl),
		log:          logger.New("stats"),
	}
}

// NetworkLocked - total and holder count for asset
//
// a cached value younger than the ttl is returned unless force is set;
// a forced refresh still replaces the cached value
func (a *Aggregator) NetworkLocked(ctx context.Context, asset address.Address, force bool) (*NetworkLock, error) {
	a.Lock()
	defer a.Unlock()

	key := asset.String()
	if !force {
		if v, found := a.cache.Get(key); found {
			n := v.(NetworkLock)
			a.log.Debugf("cached total: %d  holders: %d  age: %s", n.Locked, n.Holders, time.Since(n.Timestamp))
			return &n, nil
		}
	}

	n, err := a.aggregate(ctx, asset)
	if nil != err {
		return nil, err
	}
	a.cache.Set(key, *n, cache.DefaultExpiration)
	return n, nil
}

// CacheAge - age of the cached total for asset, false if none is cached
func (a *Aggregator) CacheAge(asset address.Address) (time.Duration, bool) {
	a.Lock()
	defer a.Unlock()

	v, found := a.cache.Get(asset.String())
	if !found {
		return 0, false
	}
	return time.Since(v.(NetworkLock).Timestamp), true
}

// scan locked vaults, derive their token accounts and sum the balances
func (a *Aggregator) aggregate(ctx context.Context, asset address.Address) (*NetworkLock, error) {
	// other program records can carry a 1 at the locked offset
	filter := ledger.ScanFilter{
		Matches: []ledger.Memcmp{
			{Offset: 0, Bytes: vaultrecord.VaultTag[:]},
			{Offset: vaultrecord.Standard.LockedOffset, Bytes: []byte{1}},
		},
		DataSize:    vaultrecord.Standard.Size,
		SliceOffset: vaultrecord.OwnerOffset,
		SliceLength: address.Length,
	}
	vaults, err := a.gateway.ScanFilteredAccounts(ctx, a.program, filter)
	if nil != err {
		return nil, err
	}

	tokenAccounts := make([]address.Address, 0, len(vaults))
	for _, v := range vaults {
		owner, err := address.FromBytes(v.Data)
		if nil != err {
			a.log.Warnf("vault: %s  unreadable owner: %s", v.Address, err)
			continue
		}
		tokenAccount, err := address.TokenAccount(owner, asset, a.tokenProgram)
		if nil != err {
			return nil, err
		}
		tokenAccounts = append(tokenAccounts, tokenAccount)
	}

	n := &NetworkLock{
		Asset: asset,
	}
	for start := 0; start < len(tokenAccounts); start += ledger.MaximumBatch {
		end := start + ledger.MaximumBatch
		if end > len(tokenAccounts) {
			end = len(tokenAccounts)
		}
		accounts, err := a.gateway.FetchAccountsBatch(ctx, tokenAccounts[start:end])
		if nil != err {
			return nil, err
		}
		for i, data := range accounts {
			if nil == data {
				continue
			}
			amount, err := vaultrecord.TokenAmount(data)
			if nil != err {
				a.log.Warnf("token account: %s  error: %s", tokenAccounts[start+i], err)
				continue
			}
			if 0 == amount {
				continue
			}
			n.Locked += amount
			n.Holders += 1
		}
	}
	n.Timestamp = time.Now()

	a.log.Infof("locked vaults: %d  holders: %d  total: %d", len(vaults), n.Holders, n.Locked)
	return n, nil
}
