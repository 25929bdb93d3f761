// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/holiman/uint256"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/ftledger/eventdb"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/log"
	"github.com/vechain/ftledger/lvldb"
	"github.com/vechain/ftledger/metrics"
	"github.com/vechain/ftledger/receiver"
	"github.com/vechain/ftledger/token"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".ftledger"
	}
	return filepath.Join(home, ".ftledger")
}

func initLogger(ctx *cli.Context) {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler := log.NewHandler(os.Stderr, ctx.GlobalBool(jsonLogsFlag.Name), useColor, int(ctx.GlobalUint64(verbosityFlag.Name)))
	log.SetDefault(handler)
}

func initMetrics(ctx *cli.Context) {
	if ctx.GlobalString(metricsFileFlag.Name) != "" {
		metrics.InitializePrometheusMetrics()
	}
}

func writeMetrics(ctx *cli.Context) error {
	path := ctx.GlobalString(metricsFileFlag.Name)
	if path == "" {
		return nil
	}
	return errors.Wrap(metrics.WriteTextfile(path), "write metrics")
}

type ledger struct {
	*token.Token
	db      *lvldb.LevelDB
	journal *eventdb.EventDB
}

func (l *ledger) Close() {
	if l.Token != nil {
		l.Token.Close()
	}
	if err := l.journal.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	if err := l.db.Close(); err != nil {
		logger.Warn("failed to close ledger database", "err", err)
	}
}

// openLedger opens the databases under the data dir and the token on top.
// With init set, the token is constructed with owner and totalSupply.
func openLedger(ctx *cli.Context, init bool, owner ft.AccountID, totalSupply *uint256.Int) (*ledger, error) {
	cfg, err := loadConfig(ctx.GlobalString(configFlag.Name))
	if err != nil {
		return nil, err
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, errors.Wrap(err, "storage policy")
	}

	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer data dir, use --%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, errors.Wrapf(err, "create data dir at '%v'", dataDir)
	}
	receiversDir := cfg.ReceiversDir
	if receiversDir == "" {
		receiversDir = filepath.Join(dataDir, "receivers")
	}
	receivers, err := receiver.LoadDir(receiversDir)
	if err != nil {
		return nil, errors.Wrapf(err, "load receivers at '%v'", receiversDir)
	}

	dir := filepath.Join(dataDir, "ledger")
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: 16, OpenFilesCacheCapacity: 64})
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger database at '%v'", dir)
	}
	path := filepath.Join(dataDir, "events.db")
	journal, err := eventdb.New(path)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "open event database at '%v'", path)
	}
	l := &ledger{db: db, journal: journal}

	opts := token.Options{
		Policy:        policy,
		Receivers:     receivers,
		Journal:       journal,
		Refunder:      token.RefunderFunc(logRefund),
		NotifyTimeout: cfg.NotifyTimeout,
	}
	if init {
		l.Token, err = token.New(db, owner, totalSupply, opts)
	} else {
		l.Token, err = token.Open(db, opts)
	}
	if err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// logRefund reports native value owed back to an account. Settling it is up to the host.
func logRefund(to ft.AccountID, amount *uint256.Int, reason string) error {
	logger.Info("refund", "to", to, "amount", amount.Dec(), "reason", reason)
	return nil
}

func callFromFlags(ctx *cli.Context) (ft.Call, error) {
	caller, err := ft.ParseAccountID(ctx.GlobalString(callerFlag.Name))
	if err != nil {
		return ft.Call{}, errors.Wrap(err, "caller")
	}
	attached, err := ft.ParseAmount(ctx.GlobalString(attachFlag.Name))
	if err != nil {
		return ft.Call{}, errors.Wrap(err, "attach")
	}
	return ft.NewCall(caller, attached), nil
}

func accountArg(ctx *cli.Context, i int, name string) (ft.AccountID, error) {
	if ctx.NArg() <= i {
		return "", errors.Errorf("missing argument <%v>", name)
	}
	id, err := ft.ParseAccountID(ctx.Args().Get(i))
	return id, errors.Wrap(err, name)
}

func amountArg(ctx *cli.Context, i int, name string) (*uint256.Int, error) {
	if ctx.NArg() <= i {
		return nil, errors.Errorf("missing argument <%v>", name)
	}
	amount, err := ft.ParseAmount(ctx.Args().Get(i))
	return amount, errors.Wrap(err, name)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
