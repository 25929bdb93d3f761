// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package transfer implements direct transfers and the two-phase notify-transfer.
//
// A notify-transfer credits the receiver in Begin, then the receiver is notified
// outside of any ledger operation, and Resolve refunds the unused part. Protocol
// is not safe for concurrent use; callers serialize Begin, Resolve and Transfer.
package transfer

import (
	"context"
	"sort"
	"time"

	"github.com/holiman/uint256"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/log"
	"github.com/vechain/ftledger/supply"
)

var logger = log.WithContext("pkg", "transfer")

// Protocol runs transfers on top of the supply ledger.
type Protocol struct {
	ledger   *supply.Ledger
	recorder *events.Recorder
	pending  map[string]*Pending
}

// New creates a transfer protocol.
func New(ledger *supply.Ledger, recorder *events.Recorder) *Protocol {
	return &Protocol{
		ledger:   ledger,
		recorder: recorder,
		pending:  make(map[string]*Pending),
	}
}

func checkTransfer(call ft.Call, receiver ft.AccountID, amount *uint256.Int) error {
	if err := call.AssertOneYocto(); err != nil {
		return err
	}
	if call.Caller == receiver {
		return ft.ErrSelfTransfer
	}
	if amount == nil || amount.IsZero() {
		return ft.ErrZeroAmount
	}
	return nil
}

func (p *Protocol) move(sender, receiver ft.AccountID, amount *uint256.Int, memo string) error {
	if err := p.ledger.Transfer(sender, receiver, amount); err != nil {
		return err
	}
	p.recorder.Record(events.NewTransfer(sender, receiver, amount, memo))
	logger.Debug("transfer", "from", sender, "to", receiver, "amount", amount.Dec())
	return nil
}

// Transfer moves amount from the caller to receiver.
func (p *Protocol) Transfer(call ft.Call, receiver ft.AccountID, amount *uint256.Int, memo string) error {
	if err := checkTransfer(call, receiver, amount); err != nil {
		return err
	}
	return p.move(call.Caller, receiver, amount, memo)
}

// Begin starts a notify-transfer. The full amount is moved to receiver
// immediately and the returned record awaits notification.
func (p *Protocol) Begin(call ft.Call, receiver ft.AccountID, amount *uint256.Int, memo, msg string) (*Pending, error) {
	if err := checkTransfer(call, receiver, amount); err != nil {
		return nil, err
	}
	pt := &Pending{
		ID:       uuid.New(),
		Sender:   call.Caller,
		Receiver: receiver,
		Amount:   amount.Clone(),
		Memo:     memo,
		Msg:      msg,
		Stage:    Initiated,
		Created:  time.Now(),
	}
	if err := p.move(pt.Sender, pt.Receiver, pt.Amount, memo); err != nil {
		return nil, err
	}
	pt.Stage = AwaitingNotification
	p.pending[pt.ID] = pt
	return pt.copy(), nil
}

// Discard forgets a pending transfer without resolving it.
// Used when the operation that began it is reverted.
func (p *Protocol) Discard(id string) {
	delete(p.pending, id)
}

// Restore puts back a pending transfer whose resolution was reverted.
func (p *Protocol) Restore(pt *Pending) {
	pt = pt.copy()
	pt.Stage = AwaitingNotification
	p.pending[pt.ID] = pt
}

// Notify invokes the receiver of a pending transfer. A nil receiver, a returned
// error or a panic all become a failed outcome.
func (p *Protocol) Notify(ctx context.Context, r Receiver, pt *Pending) (out Outcome) {
	if r == nil {
		return Failed(errors.Wrapf(ft.ErrReceiverNotificationFailed, "%v has no receiver", pt.Receiver))
	}
	defer func() {
		if e := recover(); e != nil {
			out = Failed(errors.Wrapf(ft.ErrReceiverNotificationFailed, "receiver %v panicked: %v", pt.Receiver, e))
		}
	}()

	unused, err := r.OnTransfer(ctx, pt.Sender, pt.Amount.Clone(), pt.Msg)
	if err != nil {
		return Failed(errors.Wrapf(ft.ErrReceiverNotificationFailed, "receiver %v: %v", pt.Receiver, err))
	}
	if unused == nil {
		unused = ft.Zero()
	}
	return Unused(unused)
}

// Resolve completes a pending transfer with the notification outcome.
// The unused amount, clamped to the sent amount, is transferred back to the sender.
// If that refund fails the receiver keeps the funds and RefundErr is set.
func (p *Protocol) Resolve(id string, out Outcome) (*Resolution, error) {
	pt, ok := p.pending[id]
	if !ok {
		return nil, errors.Wrapf(ft.ErrUnknownTransfer, "id %v", id)
	}
	delete(p.pending, id)
	pt.Stage = Resolved

	res := &Resolution{ID: id, NotifyErr: out.Err, Refunded: ft.Zero()}

	var unused *uint256.Int
	if out.Err != nil {
		logger.Debug("notification failed, refunding all", "id", id, "err", out.Err)
		unused = pt.Amount.Clone()
	} else if out.Unused == nil {
		unused = ft.Zero()
	} else {
		unused = ft.Min(out.Unused, pt.Amount)
	}

	if !unused.IsZero() {
		if err := p.move(pt.Receiver, pt.Sender, unused, events.MemoRefund); err != nil {
			res.RefundErr = errors.Wrapf(ft.ErrRefundFailed, "%v from %v to %v: %v", unused.Dec(), pt.Receiver, pt.Sender, err)
			logger.Warn("refund abandoned, receiver keeps the funds", "id", id, "err", err)
		} else {
			res.Refunded = unused
		}
	}
	res.Used = new(uint256.Int).Sub(pt.Amount, res.Refunded)
	return res, nil
}

// Pending returns a copy of the pending transfer.
func (p *Protocol) Pending(id string) (*Pending, bool) {
	pt, ok := p.pending[id]
	if !ok {
		return nil, false
	}
	return pt.copy(), true
}

// Len returns the count of pending transfers.
func (p *Protocol) Len() int {
	return len(p.pending)
}

// PendingTransfers returns copies of all pending transfers, oldest first.
func (p *Protocol) PendingTransfers() []*Pending {
	list := make([]*Pending, 0, len(p.pending))
	for _, pt := range p.pending {
		list = append(list, pt.copy())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Created.Equal(list[j].Created) {
			return list[i].ID < list[j].ID
		}
		return list[i].Created.Before(list[j].Created)
	})
	return list
}
