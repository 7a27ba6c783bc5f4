// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/pqvault/configuration"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/util"
)

type metadata struct {
	file    string
	config  *configuration.Configuration
	gateway ledger.Gateway
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	defer exitwithstatus.Handler()

	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("terminated with error: %s", err)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "pqvault"
	app.Usage = "post-quantum vault client"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "config, c",
			Value:  "pqvault.conf",
			EnvVar: "PQVAULT_CONFIG",
			Usage:  " configuration `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate SLH-DSA key files, never overwriting existing ones",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "ledger, l",
					Usage: " also create the ledger keypair file",
				},
			},
			Action: runGenerate,
		},
		{
			Name:   "register",
			Usage:  "create a vault for the ledger keypair holding the SLH-DSA public key",
			Action: runRegister,
		},
		{
			Name:      "status",
			Usage:     "show a vault record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " vault owner `ADDRESS` [default ledger keypair]",
				},
			},
			Action: runStatus,
		},
		{
			Name:      "balance",
			Usage:     "token balance of an owner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " owner `ADDRESS` [default ledger keypair]",
				},
			},
			Action: runBalance,
		},
		{
			Name:   "lock",
			Usage:  "lock the vault and display the new challenge",
			Action: runLock,
		},
		{
			Name:   "unlock",
			Usage:  "sign the challenge and run the on-ledger verification",
			Action: runUnlock,
		},
		{
			Name:      "close",
			Usage:     "close an unlocked vault and reclaim its rent",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: " rent receiver `ADDRESS` [default ledger keypair]",
				},
			},
			Action: runClose,
		},
		{
			Name:  "network",
			Usage: "total locked across every vault",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "force, f",
					Usage: " ignore any cached total",
				},
				cli.BoolFlag{
					Name:  "record, r",
					Usage: " store the result in the local history",
				},
			},
			Action: runNetwork,
		},
		{
			Name:  "history",
			Usage: "recorded network totals and airdrop snapshots",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "timeframe, t",
					Value: "all",
					Usage: " window `TIMEFRAME` [5m|1d|5d|1w|1m|all]",
				},
			},
			Action: runHistory,
		},
		{
			Name:   "airdrop",
			Usage:  "issuance and airdrop pool usage",
			Action: runAirdrop,
		},
		{
			Name:   "monitor",
			Usage:  "record network snapshots periodically until interrupted",
			Action: runMonitor,
		},
		{
			Name:  "version",
			Usage: "display pqvault version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		switch command {
		case "", "version", "help", "h":
			return nil
		}

		file := c.GlobalString("config")
		if "" == file {
			return ErrMissingConfiguration
		}
		file = util.ExpandHome(file)

		if verbose {
			fmt.Fprintf(e, "reading config file: %s\n", file)
		}

		conf, err := configuration.GetConfiguration(file)
		if nil != err {
			return fmt.Errorf("configuration file: %q  error: %s", file, err)
		}

		err = logger.Initialise(conf.Logger())
		if nil != err {
			return fmt.Errorf("logger setup failed with error: %s", err)
		}

		c.App.Metadata["config"] = &metadata{
			file:    file,
			config:  conf,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		if _, ok := c.App.Metadata["config"].(*metadata); ok {
			logger.Finalise()
		}
		return nil
	}

	return app
}
