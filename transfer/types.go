// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	"github.com/vechain/ftledger/ft"
)

// Stage is the stage of a notify-transfer.
type Stage int

// stages of a notify-transfer
const (
	Initiated Stage = iota
	AwaitingNotification
	Resolved
)

func (s Stage) String() string {
	switch s {
	case Initiated:
		return "initiated"
	case AwaitingNotification:
		return "awaiting-notification"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Pending is a notify-transfer whose amount has been credited to the receiver
// and whose notification outcome is not yet resolved.
type Pending struct {
	ID       string
	Sender   ft.AccountID
	Receiver ft.AccountID
	Amount   *uint256.Int
	Memo     string
	Msg      string
	Stage    Stage
	Created  time.Time
}

func (p *Pending) copy() *Pending {
	cpy := *p
	cpy.Amount = p.Amount.Clone()
	return &cpy
}

// Outcome is what the notification produced: either the amount
// the receiver did not use, or a failure.
type Outcome struct {
	Unused *uint256.Int
	Err    error
}

// Unused creates an outcome of a receiver returning u as unused.
func Unused(u *uint256.Int) Outcome {
	return Outcome{Unused: u}
}

// Failed creates a failed outcome.
func Failed(err error) Outcome {
	return Outcome{Err: err}
}

// Resolution is the result of a resolved notify-transfer.
// RefundErr is set when the refund was abandoned; the transfer itself still stands.
type Resolution struct {
	ID        string
	Used      *uint256.Int
	Refunded  *uint256.Int
	NotifyErr error
	RefundErr error
}

// Receiver is the untrusted party notified of incoming transfers.
// It returns the portion of amount it did not use.
type Receiver interface {
	OnTransfer(ctx context.Context, sender ft.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error)
}

// ReceiverFunc adapts a function to Receiver.
type ReceiverFunc func(ctx context.Context, sender ft.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error)

// OnTransfer implements Receiver.
func (f ReceiverFunc) OnTransfer(ctx context.Context, sender ft.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error) {
	return f(ctx, sender, amount, msg)
}

// Directory maps accounts to their receivers.
type Directory map[ft.AccountID]Receiver

// Lookup returns the receiver of account, nil if it has none.
func (d Directory) Lookup(id ft.AccountID) Receiver {
	if d == nil {
		return nil
	}
	return d[id]
}
