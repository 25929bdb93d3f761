// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/vechain/ftledger/accounting"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/transfer"
)

// Journal records committed events.
type Journal interface {
	Insert(op string, evs []*events.Event, at time.Time) error
}

// Refunder pays native value back to an account: deposit refunds and storage withdrawals.
type Refunder interface {
	Refund(to ft.AccountID, amount *uint256.Int, reason string) error
}

// RefunderFunc adapts a function to Refunder.
type RefunderFunc func(to ft.AccountID, amount *uint256.Int, reason string) error

// Refund implements Refunder.
func (f RefunderFunc) Refund(to ft.AccountID, amount *uint256.Int, reason string) error {
	return f(to, amount, reason)
}

// Options options for the token.
type Options struct {
	Policy        accounting.Policy  // DefaultPolicy if StorageByteCost is nil
	Receivers     transfer.Directory // receivers notified by transfer calls
	Journal       Journal            // optional
	Refunder      Refunder           // optional
	NotifyTimeout time.Duration      // 0 means no timeout
}
