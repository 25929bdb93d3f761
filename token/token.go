// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is the operation surface of the ledger.
//
// Operations are admitted one at a time. Each runs against a state checkpoint;
// on success the changes are committed in one batch and the recorded events are
// published, on failure the checkpoint is restored and the events dropped.
// The receiver notification of a transfer call runs outside of any operation.
package token

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/accounting"
	"github.com/vechain/ftledger/co"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/kv"
	"github.com/vechain/ftledger/log"
	"github.com/vechain/ftledger/mintburn"
	"github.com/vechain/ftledger/state"
	"github.com/vechain/ftledger/supply"
	"github.com/vechain/ftledger/transfer"
)

var logger = log.WithContext("pkg", "token")

// operation names
const (
	opNew               = "new"
	opBurn              = "burn"
	opTransfer          = "ft_transfer"
	opTransferCall      = "ft_transfer_call"
	opResolveTransfer   = "ft_resolve_transfer"
	opStorageDeposit    = "storage_deposit"
	opStorageWithdraw   = "storage_withdraw"
	opStorageUnregister = "storage_unregister"
)

// Token is the ledger.
type Token struct {
	mu    sync.Mutex // admits one operation at a time
	pubMu sync.Mutex // keeps publishing in commit order

	opts       Options
	state      *state.State
	ledger     *supply.Ledger
	accounting *accounting.Accounting
	protocol   *transfer.Protocol
	minter     *mintburn.Controller
	recorder   *events.Recorder

	feed  event.Feed
	scope event.SubscriptionScope
	goes  co.Goes
}

type payout struct {
	to     ft.AccountID
	amount *uint256.Int
	reason string
}

type payouts []payout

func (p *payouts) add(to ft.AccountID, amount *uint256.Int, reason string) {
	if amount != nil && !amount.IsZero() {
		*p = append(*p, payout{to, amount.Clone(), reason})
	}
}

func newToken(db kv.Store, opts Options) (*Token, error) {
	if opts.Policy.StorageByteCost == nil {
		opts.Policy = accounting.DefaultPolicy()
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, errors.Wrap(err, "storage policy")
	}
	st := state.New(db)
	ledger := supply.New(st)
	rec := &events.Recorder{}
	return &Token{
		opts:       opts,
		state:      st,
		ledger:     ledger,
		accounting: accounting.New(opts.Policy, st, ledger, rec),
		protocol:   transfer.New(ledger, rec),
		minter:     mintburn.New(ledger, rec),
		recorder:   rec,
	}, nil
}

// New constructs the ledger on an empty store, crediting totalSupply to owner.
func New(db kv.Store, owner ft.AccountID, totalSupply *uint256.Int, opts Options) (*Token, error) {
	t, err := newToken(db, opts)
	if err != nil {
		return nil, err
	}
	if err := t.exec(opNew, func(*payouts) error {
		return t.minter.Initialize(owner, totalSupply, t.accounting.Bounds().Min)
	}); err != nil {
		return nil, err
	}
	return t, nil
}

// Open opens a ledger previously constructed on the store.
func Open(db kv.Store, opts Options) (*Token, error) {
	t, err := newToken(db, opts)
	if err != nil {
		return nil, err
	}
	ok, err := t.state.IsInitialized()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ft.ErrNotInitialized
	}
	return t, nil
}

// exec runs fn as one operation.
func (t *Token) exec(op string, fn func(pay *payouts) error) error {
	start := time.Now()

	t.mu.Lock()
	var pay payouts
	rev := t.state.NewCheckpoint()
	err := fn(&pay)
	if err == nil {
		err = t.state.Commit()
	}
	if err != nil {
		t.state.RevertTo(rev)
		t.recorder.Reset()
		t.mu.Unlock()

		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": "error"})
		logger.Debug("operation failed", "op", op, "err", err)
		return err
	}
	evs := t.recorder.Take()
	metricPendingTransfers().Set(int64(t.protocol.Len()))

	t.pubMu.Lock()
	t.mu.Unlock()
	defer t.pubMu.Unlock()

	t.publish(op, evs)
	t.payout(pay)

	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	metricOpDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})
	return nil
}

func (t *Token) publish(op string, evs []*events.Event) {
	if len(evs) == 0 {
		return
	}
	if t.opts.Journal != nil {
		if err := t.opts.Journal.Insert(op, evs, time.Now()); err != nil {
			logger.Warn("failed to journal events", "op", op, "err", err)
		}
	}
	for _, ev := range evs {
		logger.Debug(ev.String())
		metricEventCount().AddWithLabel(1, map[string]string{"kind": string(ev.Kind)})
		t.feed.Send(ev)
	}
}

func (t *Token) payout(pay payouts) {
	for _, p := range pay {
		if t.opts.Refunder == nil {
			logger.Debug("refund", "to", p.to, "amount", p.amount.Dec(), "reason", p.reason)
			continue
		}
		if err := t.opts.Refunder.Refund(p.to, p.amount, p.reason); err != nil {
			logger.Warn("failed to refund", "to", p.to, "amount", p.amount.Dec(), "reason", p.reason, "err", err)
		}
	}
}

// view runs a read under the admission lock.
func (t *Token) view(fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn()
}

// Owner returns the account the supply was minted to.
func (t *Token) Owner() (owner ft.AccountID, err error) {
	err = t.view(func() error {
		owner, err = t.state.Owner()
		return err
	})
	return
}

// Burn destroys amount of the caller's balance.
func (t *Token) Burn(call ft.Call, amount *uint256.Int) error {
	return t.exec(opBurn, func(*payouts) error {
		return t.minter.Burn(call, amount)
	})
}

// Transfer moves amount from the caller to receiver.
func (t *Token) Transfer(call ft.Call, receiver ft.AccountID, amount *uint256.Int, memo string) error {
	return t.exec(opTransfer, func(*payouts) error {
		return t.protocol.Transfer(call, receiver, amount, memo)
	})
}

// BeginTransferCall credits receiver with amount and returns the pending record,
// which must be resolved by ResolveTransferCall.
func (t *Token) BeginTransferCall(call ft.Call, receiver ft.AccountID, amount *uint256.Int, memo, msg string) (*transfer.Pending, error) {
	var pt *transfer.Pending
	err := t.exec(opTransferCall, func(*payouts) (err error) {
		pt, err = t.protocol.Begin(call, receiver, amount, memo, msg)
		return
	})
	if err != nil {
		if pt != nil {
			// begun but not committed
			t.mu.Lock()
			t.protocol.Discard(pt.ID)
			t.mu.Unlock()
		}
		return nil, err
	}
	return pt, nil
}

// ResolveTransferCall completes a pending transfer with the notification outcome.
func (t *Token) ResolveTransferCall(id string, out transfer.Outcome) (*transfer.Resolution, error) {
	var (
		res *transfer.Resolution
		pt  *transfer.Pending
	)
	err := t.exec(opResolveTransfer, func(*payouts) (err error) {
		pt, _ = t.protocol.Pending(id)
		res, err = t.protocol.Resolve(id, out)
		return
	})
	if err != nil {
		if res != nil && pt != nil {
			// resolved but not committed
			t.mu.Lock()
			t.protocol.Restore(pt)
			t.mu.Unlock()
		}
		return nil, err
	}
	if res.RefundErr != nil {
		metricRefundFailed().Add(1)
		logger.Warn("transfer call resolved without refund", "id", id, "err", res.RefundErr)
	}
	return res, nil
}

// notify invokes the receiver of pt. It must be called without holding the admission lock.
func (t *Token) notify(ctx context.Context, pt *transfer.Pending) transfer.Outcome {
	if t.opts.NotifyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.opts.NotifyTimeout)
		defer cancel()
	}
	start := time.Now()
	out := t.protocol.Notify(ctx, t.opts.Receivers.Lookup(pt.Receiver), pt)

	result := "ok"
	if out.Err != nil {
		result = "failed"
		logger.Debug("receiver notification failed", "id", pt.ID, "receiver", pt.Receiver, "err", out.Err)
	}
	metricNotifyDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"result": result})
	return out
}

// TransferCall credits receiver, notifies it and refunds the unused part to the caller.
// Other operations are admitted while the receiver runs.
func (t *Token) TransferCall(ctx context.Context, call ft.Call, receiver ft.AccountID, amount *uint256.Int, memo, msg string) (*transfer.Resolution, error) {
	pt, err := t.BeginTransferCall(call, receiver, amount, memo, msg)
	if err != nil {
		return nil, err
	}
	return t.ResolveTransferCall(pt.ID, t.notify(ctx, pt))
}

// TransferCallAsync is TransferCall with the notification run in background.
// The resolution is delivered on the returned channel, which is closed afterwards.
func (t *Token) TransferCallAsync(ctx context.Context, call ft.Call, receiver ft.AccountID, amount *uint256.Int, memo, msg string) (*transfer.Pending, <-chan *transfer.Resolution, error) {
	pt, err := t.BeginTransferCall(call, receiver, amount, memo, msg)
	if err != nil {
		return nil, nil, err
	}
	ch := make(chan *transfer.Resolution, 1)
	t.goes.Go(func() {
		defer close(ch)
		res, err := t.ResolveTransferCall(pt.ID, t.notify(ctx, pt))
		if err != nil {
			logger.Error("failed to resolve transfer call", "id", pt.ID, "err", err)
			return
		}
		ch <- res
	})
	return pt, ch, nil
}

// TotalSupply returns the total supply.
func (t *Token) TotalSupply() (supply *uint256.Int, err error) {
	err = t.view(func() error {
		supply, err = t.ledger.TotalSupply()
		return err
	})
	return
}

// BalanceOf returns the balance of an account, zero for unknown accounts.
func (t *Token) BalanceOf(id ft.AccountID) (balance *uint256.Int, err error) {
	err = t.view(func() error {
		balance, err = t.ledger.BalanceOf(id)
		return err
	})
	return
}

// StorageDeposit registers or tops up the storage deposit of account, the caller if nil.
// Any part of the attached value not kept is refunded to the caller.
func (t *Token) StorageDeposit(call ft.Call, account *ft.AccountID, registrationOnly bool) (bal ft.StorageBalance, err error) {
	err = t.exec(opStorageDeposit, func(pay *payouts) error {
		var refund *uint256.Int
		bal, refund, err = t.accounting.Deposit(call, account, registrationOnly)
		if err != nil {
			return err
		}
		pay.add(call.Caller, refund, opStorageDeposit)
		return nil
	})
	return
}

// StorageWithdraw withdraws amount, or all available if nil, from the caller's storage deposit.
func (t *Token) StorageWithdraw(call ft.Call, amount *uint256.Int) (bal ft.StorageBalance, err error) {
	err = t.exec(opStorageWithdraw, func(pay *payouts) error {
		var out *uint256.Int
		bal, out, err = t.accounting.Withdraw(call, amount)
		if err != nil {
			return err
		}
		pay.add(call.Caller, out, opStorageWithdraw)
		return nil
	})
	return
}

// StorageUnregister removes the caller's account and refunds its deposit.
func (t *Token) StorageUnregister(call ft.Call, force bool) (removed bool, err error) {
	err = t.exec(opStorageUnregister, func(pay *payouts) error {
		var refund *uint256.Int
		removed, refund, err = t.accounting.Unregister(call, force)
		if err != nil {
			return err
		}
		pay.add(call.Caller, refund, opStorageUnregister)
		return nil
	})
	return
}

// StorageBalanceBounds returns the storage deposit bounds.
func (t *Token) StorageBalanceBounds() ft.StorageBalanceBounds {
	return t.accounting.Bounds()
}

// StorageBalanceOf returns the storage balance of an account, nil if not registered.
func (t *Token) StorageBalanceOf(id ft.AccountID) (bal *ft.StorageBalance, err error) {
	err = t.view(func() error {
		bal, err = t.accounting.BalanceOf(id)
		return err
	})
	return
}

// PendingTransfers returns the transfer calls awaiting resolution, oldest first.
func (t *Token) PendingTransfers() (list []*transfer.Pending) {
	t.view(func() error {
		list = t.protocol.PendingTransfers()
		return nil
	})
	return
}

// CheckInvariant verifies that the total supply equals the sum of all balances.
func (t *Token) CheckInvariant() error {
	return t.view(func() error {
		var (
			sum      = ft.Zero()
			overflow bool
		)
		if err := t.state.ForEach(func(acc *state.Account) bool {
			if _, overflow = sum.AddOverflow(sum, acc.Balance); overflow {
				return false
			}
			return true
		}); err != nil {
			return err
		}
		if overflow {
			return errors.New("sum of balances overflows")
		}
		supply, err := t.ledger.TotalSupply()
		if err != nil {
			return err
		}
		if !supply.Eq(sum) {
			return errors.Errorf("total supply %v differs from sum of balances %v", supply.Dec(), sum.Dec())
		}
		return nil
	})
}

// SubscribeEvents subscribes to committed events.
// Delivery blocks publishing, so ch should be buffered and drained.
func (t *Token) SubscribeEvents(ch chan<- *events.Event) event.Subscription {
	return t.scope.Track(t.feed.Subscribe(ch))
}

// Close waits for background notifications and ends all subscriptions.
// The store is left open.
func (t *Token) Close() {
	t.goes.Wait()
	t.scope.Close()
}
