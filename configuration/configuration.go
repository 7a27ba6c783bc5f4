// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2026 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/pqvault/address"
	"github.com/bitmark-inc/pqvault/fault"
	"github.com/bitmark-inc/pqvault/ledger"
	"github.com/bitmark-inc/pqvault/sphincs"
	"github.com/bitmark-inc/pqvault/stats"
	"github.com/bitmark-inc/pqvault/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "."

	DefaultRPCURL       = "https://api.devnet.solana.com"
	DefaultProgramID    = "HyC27AVHW4VwkEiWwWxevaUpvkiAqPUueaa94og9HmLQ"
	DefaultMint         = "3V6ogu16de86nChsmC5wHMKJmCx5YdGXA6fbp3y3497n"
	defaultKeypairFile  = "id.json"
	defaultDatabaseFile = "history.leveldb"

	defaultSubmitTimeout     = "60s"
	defaultPollInterval      = "500ms"
	defaultRequestsPerSecond = 10
	defaultCacheTTL          = "300s"
	defaultSnapshotInterval  = "1h"

	defaultLogDirectory = "log"
	defaultLogFile      = "pqvault.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// LoggerType - logging section
type LoggerType struct {
	Directory string      `gluamapper:"directory" json:"directory"`
	File      string      `gluamapper:"file" json:"file"`
	Size      int         `gluamapper:"size" json:"size"`
	Count     int         `gluamapper:"count" json:"count"`
	Console   bool        `gluamapper:"console" json:"console"`
	Levels    LoglevelMap `gluamapper:"levels" json:"levels"`
}

// Configuration - everything read from the configuration file
type Configuration struct {
	DataDirectory     string     `gluamapper:"data_directory" json:"data_directory"`
	RPCURL            string     `gluamapper:"rpc_url" json:"rpc_url"`
	ProgramID         string     `gluamapper:"program_id" json:"program_id"`
	Mint              string     `gluamapper:"mint" json:"mint"`
	TokenProgram      string     `gluamapper:"token_program" json:"token_program"`
	Keypair           string     `gluamapper:"keypair" json:"keypair"`
	SphincsPublicKey  string     `gluamapper:"sphincs_public_key" json:"sphincs_public_key"`
	SphincsPrivateKey string     `gluamapper:"sphincs_private_key" json:"sphincs_private_key"`
	Database          string     `gluamapper:"database" json:"database"`
	SubmitTimeout     string     `gluamapper:"submit_timeout" json:"submit_timeout"`
	PollInterval      string     `gluamapper:"poll_interval" json:"poll_interval"`
	RequestsPerSecond float64    `gluamapper:"requests_per_second" json:"requests_per_second"`
	CacheTTL          string     `gluamapper:"cache_ttl" json:"cache_ttl"`
	AirdropCap        uint64     `gluamapper:"airdrop_cap" json:"airdrop_cap"`
	SnapshotInterval  string     `gluamapper:"snapshot_interval" json:"snapshot_interval"`
	Logging           LoggerType `gluamapper:"logging" json:"logging"`

	// resolved by GetConfiguration
	program          address.Address
	mint             address.Address
	tokenProgram     address.Address
	submitTimeout    time.Duration
	pollInterval     time.Duration
	cacheTTL         time.Duration
	snapshotInterval time.Duration
}

// Defaults - a configuration populated with default values only
func Defaults() *Configuration {
	return &Configuration{
		DataDirectory:     defaultDataDirectory,
		RPCURL:            DefaultRPCURL,
		ProgramID:         DefaultProgramID,
		Mint:              DefaultMint,
		TokenProgram:      address.TokenProgram2022.String(),
		Keypair:           defaultKeypairFile,
		SphincsPublicKey:  sphincs.PublicKeyFile,
		SphincsPrivateKey: sphincs.PrivateKeyFile,
		Database:          defaultDatabaseFile,
		SubmitTimeout:     defaultSubmitTimeout,
		PollInterval:      defaultPollInterval,
		RequestsPerSecond: defaultRequestsPerSecond,
		CacheTTL:          defaultCacheTTL,
		AirdropCap:        stats.DefaultAirdropCap,
		SnapshotInterval:  defaultSnapshotInterval,

		Logging: LoggerType{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: LoglevelMap{
				logger.DefaultTag: "critical",
			},
		},
	}
}

// GetConfiguration - read, decode and verify the configuration
func GetConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	if !util.EnsureFileExists(configurationFileName) {
		return nil, fault.ConfigurationFileMissing
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := Defaults()

	if err := ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	if err := options.resolve(dataDirectory); nil != err {
		return nil, err
	}
	return options, nil
}

// convert and check every value, making paths absolute
func (c *Configuration) resolve(configurationDirectory string) error {
	var err error

	switch c.DataDirectory {
	case "":
		return fmt.Errorf("path: %q is not a valid directory", c.DataDirectory)
	case ".":
		c.DataDirectory = configurationDirectory // same directory as the configuration file
	default:
		c.DataDirectory = filepath.Clean(util.ExpandHome(c.DataDirectory))
	}

	if err := os.MkdirAll(c.DataDirectory, 0700); nil != err {
		return err
	}

	addresses := []struct {
		name  string
		value string
		to    *address.Address
	}{
		{"program_id", c.ProgramID, &c.program},
		{"mint", c.Mint, &c.mint},
		{"token_program", c.TokenProgram, &c.tokenProgram},
	}
	for _, a := range addresses {
		*a.to, err = address.FromBase58(a.value)
		if nil != err {
			return fmt.Errorf("%s: %q: %s", a.name, a.value, err)
		}
	}

	durations := []struct {
		name  string
		value string
		to    *time.Duration
	}{
		{"submit_timeout", c.SubmitTimeout, &c.submitTimeout},
		{"poll_interval", c.PollInterval, &c.pollInterval},
		{"cache_ttl", c.CacheTTL, &c.cacheTTL},
		{"snapshot_interval", c.SnapshotInterval, &c.snapshotInterval},
	}
	for _, d := range durations {
		*d.to, err = time.ParseDuration(d.value)
		if nil != err {
			return fmt.Errorf("%s: %q: %s", d.name, d.value, err)
		}
		if *d.to <= 0 {
			return fmt.Errorf("%s: %q: must be positive", d.name, d.value)
		}
	}

	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second: %v: must be positive", c.RequestsPerSecond)
	}

	mustBeAbsolute := []*string{
		&c.Keypair,
		&c.SphincsPublicKey,
		&c.SphincsPrivateKey,
		&c.Database,
		&c.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(c.DataDirectory, util.ExpandHome(*f))
	}

	if d := filepath.Dir(c.Logging.File); "." != d && "" != d {
		return fmt.Errorf("files: %q is not plain name", c.Logging.File)
	}
	return os.MkdirAll(c.Logging.Directory, 0700)
}

// Program - vault program address
func (c *Configuration) Program() address.Address {
	return c.program
}

// MintAddress - token mint address
func (c *Configuration) MintAddress() address.Address {
	return c.mint
}

// TokenProgramAddress - token program owning the balance accounts
func (c *Configuration) TokenProgramAddress() address.Address {
	return c.tokenProgram
}

// CacheLifetime - lifetime of cached network totals
func (c *Configuration) CacheLifetime() time.Duration {
	return c.cacheTTL
}

// Snapshot - interval between history snapshots
func (c *Configuration) Snapshot() time.Duration {
	return c.snapshotInterval
}

// Ledger - gateway settings
func (c *Configuration) Ledger() ledger.RPCConfiguration {
	return ledger.RPCConfiguration{
		URL:               c.RPCURL,
		SubmitTimeout:     c.submitTimeout,
		PollInterval:      c.pollInterval,
		RequestsPerSecond: c.RequestsPerSecond,
	}
}

// Logger - settings for logger.Initialise
func (c *Configuration) Logger() logger.Configuration {
	return logger.Configuration{
		Directory: c.Logging.Directory,
		File:      c.Logging.File,
		Size:      c.Logging.Size,
		Count:     c.Logging.Count,
		Console:   c.Logging.Console,
		Levels:    c.Logging.Levels,
	}
}
