// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package receiver runs transfer receivers written in JavaScript.
//
// A script defines
//
//	function onTransfer(sender, amount, msg) { ... }
//
// amount is a decimal string. The function returns the unused part of amount,
// as a decimal string or an integer. Returning nothing means all used. A thrown
// exception fails the notification.
package receiver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dop251/goja"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/transfer"
	"golang.org/x/sync/errgroup"
)

// EntryPoint is the name of the function invoked on transfer.
const EntryPoint = "onTransfer"

// Script is a compiled receiver.
type Script struct {
	name    string
	program *goja.Program
}

var _ transfer.Receiver = (*Script)(nil)

// Compile compiles the source of a receiver.
func Compile(name, src string) (*Script, error) {
	program, err := goja.Compile(name, src, true)
	if err != nil {
		return nil, errors.Wrapf(err, "compile receiver %v", name)
	}
	return &Script{name, program}, nil
}

// Name returns the script name.
func (s *Script) Name() string {
	return s.name
}

// OnTransfer runs the script in a fresh runtime. The runtime is interrupted
// once ctx is done.
func (s *Script) OnTransfer(ctx context.Context, sender ft.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error) {
	vm := goja.New()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	if _, err := vm.RunProgram(s.program); err != nil {
		return nil, errors.Wrapf(err, "run receiver %v", s.name)
	}
	fn, ok := goja.AssertFunction(vm.Get(EntryPoint))
	if !ok {
		return nil, errors.Errorf("receiver %v: %v is not a function", s.name, EntryPoint)
	}
	ret, err := fn(goja.Undefined(), vm.ToValue(string(sender)), vm.ToValue(amount.Dec()), vm.ToValue(msg))
	if err != nil {
		return nil, errors.Wrapf(err, "receiver %v", s.name)
	}
	if ret == nil || goja.IsUndefined(ret) || goja.IsNull(ret) {
		return ft.Zero(), nil
	}
	unused, err := ft.ParseAmount(ret.String())
	if err != nil {
		return nil, errors.Wrapf(err, "receiver %v returned %q", s.name, ret.String())
	}
	return unused, nil
}

// LoadDir compiles every <account id>.js file in dir into a directory of receivers.
// A missing dir yields an empty directory.
func LoadDir(dir string) (transfer.Directory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return transfer.Directory{}, nil
		}
		return nil, err
	}
	var (
		ids   []ft.AccountID
		files []string
	)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".js" {
			continue
		}
		id, err := ft.ParseAccountID(strings.TrimSuffix(e.Name(), ".js"))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
		files = append(files, e.Name())
	}

	scripts := make([]*Script, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, name := range files {
		g.Go(func() error {
			src, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			scripts[i], err = Compile(name, string(src))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := make(transfer.Directory, len(ids))
	for i, id := range ids {
		d[id] = scripts[i]
	}
	return d, nil
}
