// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/ftledger/eventdb"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/log"
	"github.com/vechain/ftledger/transfer"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "ftledger")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	return &cli.App{
		Version: fullVersion(),
		Name:    "ftledger",
		Usage:   "Fungible token ledger",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			callerFlag,
			attachFlag,
			verbosityFlag,
			jsonLogsFlag,
			metricsFileFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			initMetrics(ctx)
			return nil
		},
		After: writeMetrics,
		Commands: []cli.Command{
			{
				Name:      "init",
				Usage:     "create the ledger, minting the total supply to owner",
				ArgsUsage: "<owner> <total-supply>",
				Action:    initAction,
			},
			{
				Name:      "burn",
				Usage:     "burn tokens of the caller",
				ArgsUsage: "<amount>",
				Action:    burnAction,
			},
			{
				Name:      "transfer",
				Usage:     "transfer tokens from the caller",
				ArgsUsage: "<receiver> <amount>",
				Flags:     []cli.Flag{memoFlag},
				Action:    transferAction,
			},
			{
				Name:      "transfer-call",
				Usage:     "transfer tokens and notify the receiver script",
				ArgsUsage: "<receiver> <amount>",
				Flags:     []cli.Flag{memoFlag, msgFlag},
				Action:    transferCallAction,
			},
			{
				Name:   "total-supply",
				Usage:  "print the total supply",
				Action: totalSupplyAction,
			},
			{
				Name:      "balance-of",
				Usage:     "print the balance of an account",
				ArgsUsage: "<account>",
				Action:    balanceOfAction,
			},
			{
				Name:   "storage-deposit",
				Usage:  "register or top up a storage deposit with the attached value",
				Flags:  []cli.Flag{accountFlag, registrationOnlyFlag},
				Action: storageDepositAction,
			},
			{
				Name:      "storage-withdraw",
				Usage:     "withdraw available storage deposit, all if amount is omitted",
				ArgsUsage: "[amount]",
				Action:    storageWithdrawAction,
			},
			{
				Name:   "storage-unregister",
				Usage:  "close the caller's account",
				Flags:  []cli.Flag{forceFlag},
				Action: storageUnregisterAction,
			},
			{
				Name:   "storage-bounds",
				Usage:  "print the storage deposit bounds",
				Action: storageBoundsAction,
			},
			{
				Name:      "storage-balance-of",
				Usage:     "print the storage balance of an account",
				ArgsUsage: "<account>",
				Action:    storageBalanceOfAction,
			},
			{
				Name:   "events",
				Usage:  "query the event journal",
				Flags:  []cli.Flag{kindFlag, accountFlag, fromSeqFlag, limitFlag, descFlag},
				Action: eventsAction,
			},
			{
				Name:   "check",
				Usage:  "verify the total supply equals the sum of balances",
				Action: checkAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

type amountResult struct {
	Amount string `json:"amount"`
}

type resolutionResult struct {
	ID        string `json:"id"`
	Used      string `json:"used"`
	Refunded  string `json:"refunded"`
	NotifyErr string `json:"notifyError,omitempty"`
	RefundErr string `json:"refundError,omitempty"`
}

func newResolutionResult(res *transfer.Resolution) *resolutionResult {
	r := &resolutionResult{
		ID:       res.ID,
		Used:     res.Used.Dec(),
		Refunded: res.Refunded.Dec(),
	}
	if res.NotifyErr != nil {
		r.NotifyErr = res.NotifyErr.Error()
	}
	if res.RefundErr != nil {
		r.RefundErr = res.RefundErr.Error()
	}
	return r
}

func initAction(ctx *cli.Context) error {
	owner, err := accountArg(ctx, 0, "owner")
	if err != nil {
		return err
	}
	totalSupply, err := amountArg(ctx, 1, "total-supply")
	if err != nil {
		return err
	}
	l, err := openLedger(ctx, true, owner, totalSupply)
	if err != nil {
		return err
	}
	defer l.Close()

	return printJSON(ctx.App.Writer, &amountResult{totalSupply.Dec()})
}

// withLedger opens the existing ledger and runs fn on it.
func withLedger(ctx *cli.Context, fn func(l *ledger) error) error {
	l, err := openLedger(ctx, false, "", nil)
	if err != nil {
		return err
	}
	defer l.Close()
	return fn(l)
}

// withCall is withLedger with the call taken from the global flags.
func withCall(ctx *cli.Context, fn func(l *ledger, call ft.Call) error) error {
	call, err := callFromFlags(ctx)
	if err != nil {
		return err
	}
	return withLedger(ctx, func(l *ledger) error {
		return fn(l, call)
	})
}

func burnAction(ctx *cli.Context) error {
	amount, err := amountArg(ctx, 0, "amount")
	if err != nil {
		return err
	}
	return withCall(ctx, func(l *ledger, call ft.Call) error {
		return l.Burn(call, amount)
	})
}

func transferAction(ctx *cli.Context) error {
	receiver, err := accountArg(ctx, 0, "receiver")
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx, 1, "amount")
	if err != nil {
		return err
	}
	return withCall(ctx, func(l *ledger, call ft.Call) error {
		return l.Transfer(call, receiver, amount, ctx.String(memoFlag.Name))
	})
}

func transferCallAction(ctx *cli.Context) error {
	receiver, err := accountArg(ctx, 0, "receiver")
	if err != nil {
		return err
	}
	amount, err := amountArg(ctx, 1, "amount")
	if err != nil {
		return err
	}
	return withCall(ctx, func(l *ledger, call ft.Call) error {
		res, err := l.TransferCall(context.Background(), call, receiver, amount, ctx.String(memoFlag.Name), ctx.String(msgFlag.Name))
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, newResolutionResult(res))
	})
}

func totalSupplyAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		supply, err := l.TotalSupply()
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, &amountResult{supply.Dec()})
	})
}

func balanceOfAction(ctx *cli.Context) error {
	id, err := accountArg(ctx, 0, "account")
	if err != nil {
		return err
	}
	return withLedger(ctx, func(l *ledger) error {
		balance, err := l.BalanceOf(id)
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, &amountResult{balance.Dec()})
	})
}

func storageDepositAction(ctx *cli.Context) error {
	var account *ft.AccountID
	if s := ctx.String(accountFlag.Name); s != "" {
		id, err := ft.ParseAccountID(s)
		if err != nil {
			return err
		}
		account = &id
	}
	return withCall(ctx, func(l *ledger, call ft.Call) error {
		bal, err := l.StorageDeposit(call, account, ctx.Bool(registrationOnlyFlag.Name))
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, bal)
	})
}

func storageWithdrawAction(ctx *cli.Context) error {
	var amount *uint256.Int
	if ctx.NArg() > 0 {
		var err error
		if amount, err = amountArg(ctx, 0, "amount"); err != nil {
			return err
		}
	}
	return withCall(ctx, func(l *ledger, call ft.Call) error {
		bal, err := l.StorageWithdraw(call, amount)
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, bal)
	})
}

func storageUnregisterAction(ctx *cli.Context) error {
	return withCall(ctx, func(l *ledger, call ft.Call) error {
		removed, err := l.StorageUnregister(call, ctx.Bool(forceFlag.Name))
		if err != nil {
			return err
		}
		return printJSON(ctx.App.Writer, removed)
	})
}

func storageBoundsAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		return printJSON(ctx.App.Writer, l.StorageBalanceBounds())
	})
}

func storageBalanceOfAction(ctx *cli.Context) error {
	id, err := accountArg(ctx, 0, "account")
	if err != nil {
		return err
	}
	return withLedger(ctx, func(l *ledger) error {
		bal, err := l.StorageBalanceOf(id)
		if err != nil {
			return err
		}
		// null for unregistered accounts
		return printJSON(ctx.App.Writer, bal)
	})
}

type eventResult struct {
	Seq   uint64        `json:"seq"`
	Op    string        `json:"op"`
	Time  int64         `json:"time"`
	Event *events.Event `json:"event"`
}

func eventsAction(ctx *cli.Context) error {
	filter := &eventdb.Filter{
		Kind:    events.Kind(ctx.String(kindFlag.Name)),
		Account: ft.AccountID(ctx.String(accountFlag.Name)),
		FromSeq: ctx.Uint64(fromSeqFlag.Name),
		Limit:   ctx.Uint64(limitFlag.Name),
		Order:   eventdb.ASC,
	}
	if ctx.Bool(descFlag.Name) {
		filter.Order = eventdb.DESC
	}
	return withLedger(ctx, func(l *ledger) error {
		recs, err := l.journal.Filter(filter)
		if err != nil {
			return err
		}
		list := make([]*eventResult, 0, len(recs))
		for _, r := range recs {
			list = append(list, &eventResult{r.Seq, r.Op, r.Time.Unix(), r.Event})
		}
		return printJSON(ctx.App.Writer, list)
	})
}

func checkAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		if err := l.CheckInvariant(); err != nil {
			return err
		}
		supply, err := l.TotalSupply()
		if err != nil {
			return err
		}
		logger.Info("invariant holds", "supply", supply.Dec())
		return printJSON(ctx.App.Writer, &amountResult{supply.Dec()})
	})
}
