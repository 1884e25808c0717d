// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the stake database",
	}
	dbEngineFlag = cli.StringFlag{
		Name:  "db-engine",
		Value: "leveldb",
		Usage: "database engine (leveldb|pebble)",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 64,
		Usage: "megabytes of ram allocated to the database read cache",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the genesis yaml document",
	}
	devnetFlag = cli.IntFlag{
		Name:  "devnet",
		Usage: "initialize with n deterministic development validators instead of a genesis document",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "validator address",
	}
	rewardAddressFlag = cli.StringFlag{
		Name:  "reward-address",
		Usage: "address receiving the staking rewards",
	}
	consensusKeyFlag = cli.StringFlag{
		Name:  "consensus-key",
		Usage: "hex encoded secp256k1 public key",
	}
	epochFlag = cli.Uint64Flag{
		Name:  "epoch",
		Usage: "current epoch",
	}
	dumpFlag = cli.BoolFlag{
		Name:  "dump",
		Usage: "dump the raw records",
	}
	jsonFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "print the validator set as JSON",
	}
	tokenFlag = cli.StringFlag{
		Name:  "token",
		Usage: "token address",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "source address",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "target address",
	}
	amountFlag = cli.Uint64Flag{
		Name:  "amount",
		Usage: "amount of tokens",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
)
