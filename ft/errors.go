// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ft

import "github.com/pkg/errors"

// storage accounting
var (
	ErrInsufficientDeposit          = errors.New("insufficient deposit for registration")
	ErrNotRegistered                = errors.New("account is not registered")
	ErrInsufficientAvailableBalance = errors.New("amount exceeds available storage balance")
	ErrPositiveBalanceRequiresForce = errors.New("can't unregister account with positive balance without force")
	ErrAuthorizationRequired        = errors.New("authorization required")
)

// supply ledger
var (
	ErrAccountNotRegistered = errors.New("account not registered")
	ErrBalanceOverflow      = errors.New("balance overflow")
	ErrSupplyOverflow       = errors.New("total supply overflow")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrAlreadyInitialized   = errors.New("ledger already initialized")
	ErrNotInitialized       = errors.New("ledger not initialized")
)

// transfer protocol
var (
	ErrSelfTransfer               = errors.New("sender and receiver should be different")
	ErrZeroAmount                 = errors.New("amount should be positive")
	ErrReceiverNotificationFailed = errors.New("receiver notification failed")
	ErrRefundFailed               = errors.New("refund failed")
	ErrUnknownTransfer            = errors.New("unknown pending transfer")
)
