// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/unlock"
)

func runUnlock(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	owner, err := m.owner()
	if nil != err {
		return err
	}
	credentials, err := m.credentials()
	if nil != err {
		return err
	}
	gateway, err := m.ledger()
	if nil != err {
		return err
	}

	orchestrator := unlock.New(gateway, m.config.Program(), owner, credentials, &progress{w: m.e})

	result, err := runTask(func(ctx context.Context) (*unlock.Result, error) {
		return orchestrator.Unlock(ctx)
	})
	if nil != err {
		return err
	}

	printJson(m.w, result)
	return nil
}
