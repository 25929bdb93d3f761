// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accounting ties account existence to a prepaid storage deposit.
package accounting

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/log"
	"github.com/vechain/ftledger/state"
	"github.com/vechain/ftledger/supply"
)

var logger = log.WithContext("pkg", "accounting")

// Accounting manages storage deposits.
type Accounting struct {
	policy   Policy
	state    *state.State
	ledger   *supply.Ledger
	recorder *events.Recorder
}

// New creates a storage accounting instance.
func New(policy Policy, state *state.State, ledger *supply.Ledger, recorder *events.Recorder) *Accounting {
	return &Accounting{policy, state, ledger, recorder}
}

// Bounds returns the deposit bounds derived from the policy.
func (a *Accounting) Bounds() ft.StorageBalanceBounds {
	b := ft.StorageBalanceBounds{Min: a.policy.MinDeposit()}
	if a.policy.MaxDeposit != nil {
		b.Max = a.policy.MaxDeposit.Clone()
	}
	return b
}

func (a *Accounting) storageBalance(acc *state.Account) ft.StorageBalance {
	return ft.StorageBalance{
		Total:     acc.StorageDeposit.Clone(),
		Available: ft.SaturatingSub(acc.StorageDeposit, a.policy.MinDeposit()),
	}
}

// capped splits deposit into the part kept under the maximum and the excess.
func (a *Accounting) capped(deposit *uint256.Int) (kept, excess *uint256.Int) {
	if a.policy.MaxDeposit != nil && deposit.Gt(a.policy.MaxDeposit) {
		return a.policy.MaxDeposit.Clone(), new(uint256.Int).Sub(deposit, a.policy.MaxDeposit)
	}
	return deposit.Clone(), ft.Zero()
}

// Deposit registers or tops up the storage deposit of account, which defaults to the caller.
// The attached value is the deposit. It returns the resulting storage balance and the amount
// to refund to the caller.
func (a *Accounting) Deposit(call ft.Call, account *ft.AccountID, registrationOnly bool) (ft.StorageBalance, *uint256.Int, error) {
	id := call.Caller
	if account != nil {
		id = *account
	}
	attached := call.AttachedValue()

	acc, err := a.state.GetAccount(id)
	if err != nil {
		return ft.StorageBalance{}, nil, err
	}

	if acc != nil {
		if registrationOnly {
			logger.Debug("account already registered, refunding the deposit", "account", id, "amount", attached.Dec())
			return a.storageBalance(acc), attached, nil
		}
		total, ok := ft.CheckedAdd(acc.StorageDeposit, attached)
		if !ok {
			return ft.StorageBalance{}, nil, errors.Wrapf(ft.ErrBalanceOverflow, "storage deposit of %v", id)
		}
		kept, refund := a.capped(total)
		acc.StorageDeposit = kept
		a.state.SetAccount(acc)
		return a.storageBalance(acc), refund, nil
	}

	minDeposit := a.policy.MinDeposit()
	if attached.Lt(minDeposit) {
		return ft.StorageBalance{}, nil, errors.Wrapf(ft.ErrInsufficientDeposit, "attached %v, minimum %v", attached.Dec(), minDeposit.Dec())
	}
	deposit := minDeposit
	if !registrationOnly {
		deposit, _ = a.capped(attached)
	}
	acc = state.NewAccount(id, deposit)
	a.state.SetAccount(acc)
	logger.Debug("account registered", "account", id, "deposit", deposit.Dec())

	return a.storageBalance(acc), new(uint256.Int).Sub(attached, deposit), nil
}

// Withdraw withdraws amount, or all available if nil, from the caller's storage deposit.
// It returns the resulting storage balance and the amount paid out.
func (a *Accounting) Withdraw(call ft.Call, amount *uint256.Int) (ft.StorageBalance, *uint256.Int, error) {
	if err := call.AssertOneYocto(); err != nil {
		return ft.StorageBalance{}, nil, err
	}
	acc, err := a.state.GetAccount(call.Caller)
	if err != nil {
		return ft.StorageBalance{}, nil, err
	}
	if acc == nil {
		return ft.StorageBalance{}, nil, errors.Wrapf(ft.ErrNotRegistered, "account %v", call.Caller)
	}

	available := ft.SaturatingSub(acc.StorageDeposit, a.policy.MinDeposit())
	if amount == nil {
		amount = available
	} else if amount.Gt(available) {
		return ft.StorageBalance{}, nil, errors.Wrapf(ft.ErrInsufficientAvailableBalance, "requested %v, available %v", amount.Dec(), available.Dec())
	}

	acc.StorageDeposit = new(uint256.Int).Sub(acc.StorageDeposit, amount)
	a.state.SetAccount(acc)
	return a.storageBalance(acc), amount.Clone(), nil
}

// Unregister removes the caller's account and refunds its full deposit.
// A positive balance is burned when force is set, otherwise it's an error.
// It returns false for accounts never registered.
func (a *Accounting) Unregister(call ft.Call, force bool) (bool, *uint256.Int, error) {
	if err := call.AssertOneYocto(); err != nil {
		return false, nil, err
	}
	id := call.Caller
	acc, err := a.state.GetAccount(id)
	if err != nil {
		return false, nil, err
	}
	if acc == nil {
		logger.Debug("unregister of unknown account", "account", id)
		return false, ft.Zero(), nil
	}

	if !acc.Balance.IsZero() {
		if !force {
			return false, nil, errors.Wrapf(ft.ErrPositiveBalanceRequiresForce, "account %v has %v", id, acc.Balance.Dec())
		}
		if err := a.ledger.Withdraw(id, acc.Balance); err != nil {
			return false, nil, err
		}
		a.recorder.Record(events.NewBurn(id, acc.Balance, events.MemoUnregister))
		logger.Info("closed account with positive balance", "account", id, "burned", acc.Balance.Dec())
	}

	a.state.DeleteAccount(id)
	return true, acc.StorageDeposit.Clone(), nil
}

// BalanceOf returns the storage balance of an account, nil if not registered.
func (a *Accounting) BalanceOf(id ft.AccountID) (*ft.StorageBalance, error) {
	acc, err := a.state.GetAccount(id)
	if err != nil || acc == nil {
		return nil, err
	}
	b := a.storageBalance(acc)
	return &b, nil
}

// IsRegistered returns whether an account is registered.
func (a *Accounting) IsRegistered(id ft.AccountID) (bool, error) {
	return a.state.Exists(id)
}
