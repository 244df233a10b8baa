// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

var commonFlags = []cli.Flag{
	dataDirFlag,
	verbosityFlag,
	verbosityLedgerFlag,
	jsonLogsFlag,
	dumpMetricsFlag,
}

// callFlags are accepted by every ledger call.
var callFlags = append([]cli.Flag{blockFlag, timeFlag, callerFlag}, commonFlags...)

func withFlags(base []cli.Flag, flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, flags...), base...)
}

func newApp() *cli.App {
	return &cli.App{
		Version:   fullVersion(),
		Name:      "cybar",
		Usage:     "Pooled reward ledger with an auto-compounding staking pool",
		Copyright: "2025 Cybar Labs",
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "create the ledger from a genesis file",
				Flags:  withFlags(commonFlags, genesisFlag, devFlag),
				Action: initAction,
			},
			{
				Name:   "dump-genesis",
				Usage:  "print the dev genesis as yaml",
				Action: dumpGenesisAction,
			},
			{
				Name:   "fund",
				Usage:  "mint an asset to an account (dev ledger)",
				Flags:  withFlags(commonFlags, assetFlag, accountFlag, amountFlag),
				Action: ledgerAction(fundAction),
			},
			{
				Name:   "balance",
				Usage:  "print the balance of an account",
				Flags:  withFlags(commonFlags, assetFlag, accountFlag),
				Action: ledgerAction(balanceAction),
			},
			{
				Name:   "add",
				Usage:  "register a collateral pool (owner)",
				Flags:  withFlags(callFlags, weightFlag, assetFlag, withSyncFlag),
				Action: ledgerAction(addAction),
			},
			{
				Name:   "set",
				Usage:  "change the weight of a pool (owner)",
				Flags:  withFlags(callFlags, poolFlag, weightFlag, withSyncFlag),
				Action: ledgerAction(setAction),
			},
			{
				Name:   "set-withdrawal",
				Usage:  "set the early withdrawal fee of a pool (owner)",
				Flags:  withFlags(callFlags, poolFlag, feeFlag, windowFlag),
				Action: ledgerAction(setWithdrawalAction),
			},
			{
				Name:   "update-multiplier",
				Usage:  "change the emission multiplier (owner)",
				Flags:  withFlags(callFlags, multiplierFlag),
				Action: ledgerAction(updateMultiplierAction),
			},
			{
				Name:   "dev",
				Usage:  "hand the dev role to another address (dev)",
				Flags:  withFlags(callFlags, addressFlag),
				Action: ledgerAction(devAction),
			},
			{
				Name:   "transfer-ownership",
				Usage:  "hand the owner role to another address (owner)",
				Flags:  withFlags(callFlags, addressFlag),
				Action: ledgerAction(transferOwnershipAction),
			},
			{
				Name:   "deposit",
				Usage:  "deposit collateral into a pool, harvesting pending reward",
				Flags:  withFlags(callFlags, poolFlag, amountFlag),
				Action: ledgerAction(depositAction),
			},
			{
				Name:   "withdraw",
				Usage:  "withdraw collateral from a pool, harvesting pending reward",
				Flags:  withFlags(callFlags, poolFlag, amountFlag),
				Action: ledgerAction(withdrawAction),
			},
			{
				Name:   "enter-staking",
				Usage:  "stake the reward asset, compounding pending reward",
				Flags:  withFlags(callFlags, amountFlag),
				Action: ledgerAction(enterStakingAction),
			},
			{
				Name:   "leave-staking",
				Usage:  "unstake the reward asset, compounding pending reward",
				Flags:  withFlags(callFlags, amountFlag),
				Action: ledgerAction(leaveStakingAction),
			},
			{
				Name:   "emergency-withdraw",
				Usage:  "withdraw the whole position, forfeiting pending reward",
				Flags:  withFlags(callFlags, poolFlag),
				Action: ledgerAction(emergencyWithdrawAction),
			},
			{
				Name:   "pending",
				Usage:  "print the pending reward of an account",
				Flags:  withFlags(commonFlags, blockFlag, poolFlag, accountFlag),
				Action: ledgerAction(pendingAction),
			},
			{
				Name:   "inspect",
				Usage:  "dump ledger globals, pools and positions",
				Flags:  withFlags(commonFlags, poolFlag),
				Action: ledgerAction(inspectAction),
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}
