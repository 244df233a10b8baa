// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/cybar-labs/cybar/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the ledger database",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to a yaml genesis file",
	}
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "use the built-in dev genesis",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	verbosityLedgerFlag = cli.Uint64Flag{
		Name:  "verbosity-ledger",
		Value: log.LegacyLevelError,
		Usage: "log verbosity for the ledger engine (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	dumpMetricsFlag = cli.BoolFlag{
		Name:  "dump-metrics",
		Usage: "print collected metrics in prometheus text format on exit",
	}

	blockFlag = cli.Uint64Flag{
		Name:  "block",
		Usage: "current block number",
	}
	timeFlag = cli.Uint64Flag{
		Name:  "time",
		Usage: "current block time in unix seconds (defaults to now)",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "caller address, or dev:<n> for a dev account",
	}

	poolFlag = cli.Uint64Flag{
		Name:  "pool",
		Usage: "pool id",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "amount in hex or decimal",
	}
	weightFlag = cli.Uint64Flag{
		Name:  "weight",
		Usage: "allocation weight",
	}
	assetFlag = cli.StringFlag{
		Name:  "asset",
		Usage: "asset address",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "account address, or dev:<n> for a dev account",
	}
	withSyncFlag = cli.BoolFlag{
		Name:  "with-sync",
		Usage: "sync every pool before changing weights",
	}
	feeFlag = cli.Uint64Flag{
		Name:  "fee",
		Usage: "withdrawal fee in basis points",
	}
	windowFlag = cli.Uint64Flag{
		Name:  "window",
		Usage: "withdrawal fee window in seconds",
	}
	multiplierFlag = cli.Uint64Flag{
		Name:  "multiplier",
		Usage: "emission multiplier",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "new address, or dev:<n> for a dev account",
	}
)
