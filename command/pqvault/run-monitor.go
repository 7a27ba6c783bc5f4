// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/background"
	"github.com/bitmark-inc/pqvault/configuration"
	"github.com/bitmark-inc/pqvault/stats"
	"github.com/bitmark-inc/pqvault/storage"
)

// snapshot network totals until a signal arrives
//
// a change to the configuration file restarts the recorder with the
// new ledger, cache and snapshot settings; the database and logging
// settings need a restart
func runMonitor(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)
	log := logger.New("monitor")

	err := storage.Initialise(m.config.Database, storage.ReadWrite)
	if nil != err {
		return err
	}
	defer storage.Finalise()

	watcher, err := newFileWatcher(m.file, log)
	if nil != err {
		return err
	}
	err = watcher.Start()
	if nil != err {
		return err
	}
	defer watcher.Stop()

	processes, err := startRecorder(m)
	if nil != err {
		return err
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	fmt.Fprintf(m.e, "recording every: %s  into: %s\n", m.config.Snapshot(), m.config.Database)

loop:
	for {
		select {
		case sig := <-ch:
			log.Infof("received signal: %v", sig)
			fmt.Fprintf(m.e, "\nreceived signal: %v\n", sig)
			break loop

		case <-watcher.change:
			conf, err := configuration.GetConfiguration(m.file)
			if nil != err {
				log.Errorf("configuration reload error: %s", err)
				continue loop
			}
			log.Info("configuration changed, restarting recorder")
			processes.Stop()

			m.config = reloaded(m.config, conf)
			m.gateway = nil
			processes, err = startRecorder(m)
			if nil != err {
				return err
			}

		case <-watcher.remove:
			processes.Stop()
			return ErrConfigurationRemoved
		}
	}

	log.Info("shutting down…")
	processes.Stop()
	return nil
}

func startRecorder(m *metadata) (*background.T, error) {
	aggregator, err := m.aggregator()
	if nil != err {
		return nil, err
	}
	recorder := stats.NewRecorder(aggregator, m.config.MintAddress(), m.config.AirdropCap, m.config.Snapshot())
	return background.Start(background.Processes{recorder}, nil), nil
}

// take the new configuration but keep the open database and logger
func reloaded(current *configuration.Configuration, next *configuration.Configuration) *configuration.Configuration {
	next.Database = current.Database
	next.Logging = current.Logging
	return next
}
