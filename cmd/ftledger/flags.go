// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/ftledger/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases and receiver scripts",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML config file",
	}
	callerFlag = cli.StringFlag{
		Name:  "caller",
		Usage: "account id of the caller",
	}
	attachFlag = cli.StringFlag{
		Name:  "attach",
		Value: "0",
		Usage: "value attached to the call, in yocto",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelWarn,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	metricsFileFlag = cli.StringFlag{
		Name:  "metrics-file",
		Usage: "write metrics in text exposition format to the file on exit",
	}

	// command flags
	memoFlag = cli.StringFlag{
		Name:  "memo",
		Usage: "memo of the transfer",
	}
	msgFlag = cli.StringFlag{
		Name:  "msg",
		Usage: "message passed to the receiver",
	}
	accountFlag = cli.StringFlag{
		Name:  "account",
		Usage: "account to deposit for, the caller if not set",
	}
	registrationOnlyFlag = cli.BoolFlag{
		Name:  "registration-only",
		Usage: "refund any deposit above the minimum",
	}
	forceFlag = cli.BoolFlag{
		Name:  "force",
		Usage: "burn the remaining balance",
	}
	kindFlag = cli.StringFlag{
		Name:  "kind",
		Usage: "event kind (ft_transfer|ft_mint|ft_burn)",
	}
	fromSeqFlag = cli.Uint64Flag{
		Name:  "from",
		Usage: "first sequence number",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 100,
		Usage: "maximum number of events (0 means unlimited)",
	}
	descFlag = cli.BoolFlag{
		Name:  "desc",
		Usage: "newest first",
	}
)
