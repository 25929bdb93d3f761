// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package supply keeps balances and the total supply in step.
// Every mutation is checked before anything is written, so either both the
// balance and the supply change or neither does.
package supply

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/state"
)

// Ledger is the supply ledger.
type Ledger struct {
	state *state.State
}

// New creates a supply ledger on the given state.
func New(state *state.State) *Ledger {
	return &Ledger{state}
}

// TotalSupply returns the supply counter.
func (l *Ledger) TotalSupply() (*uint256.Int, error) {
	return l.state.GetTotalSupply()
}

// BalanceOf returns the balance of an account, zero for unknown accounts.
func (l *Ledger) BalanceOf(id ft.AccountID) (*uint256.Int, error) {
	return l.state.GetBalance(id)
}

func (l *Ledger) mustGet(id ft.AccountID) (*state.Account, error) {
	acc, err := l.state.GetAccount(id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, errors.Wrapf(ft.ErrAccountNotRegistered, "account %v", id)
	}
	return acc, nil
}

func (l *Ledger) credit(acc *state.Account, amount *uint256.Int) error {
	balance, ok := ft.CheckedAdd(acc.Balance, amount)
	if !ok {
		return errors.Wrapf(ft.ErrBalanceOverflow, "account %v", acc.ID)
	}
	supply, err := l.state.GetTotalSupply()
	if err != nil {
		return err
	}
	newSupply, ok := ft.CheckedAdd(supply, amount)
	if !ok {
		return ft.ErrSupplyOverflow
	}

	acc.Balance = balance
	l.state.SetAccount(acc)
	return l.state.SetTotalSupply(newSupply)
}

// Deposit credits amount to a registered account and grows the supply.
func (l *Ledger) Deposit(id ft.AccountID, amount *uint256.Int) error {
	acc, err := l.mustGet(id)
	if err != nil {
		return err
	}
	return l.credit(acc, amount)
}

// Bootstrap registers the owner when absent, with the given storage deposit,
// credits amount and marks the ledger initialized. It can only be used once.
func (l *Ledger) Bootstrap(owner ft.AccountID, amount, storageDeposit *uint256.Int) error {
	initialized, err := l.state.IsInitialized()
	if err != nil {
		return err
	}
	if initialized {
		return ft.ErrAlreadyInitialized
	}
	if amount.Gt(ft.MaxAmount) {
		return ft.ErrSupplyOverflow
	}

	acc, err := l.state.GetAccount(owner)
	if err != nil {
		return err
	}
	if acc == nil {
		acc = state.NewAccount(owner, storageDeposit)
	}
	if err := l.credit(acc, amount); err != nil {
		return err
	}
	l.state.SetInitialized(owner)
	return nil
}

// Withdraw debits amount from an account and shrinks the supply.
func (l *Ledger) Withdraw(id ft.AccountID, amount *uint256.Int) error {
	acc, err := l.mustGet(id)
	if err != nil {
		return err
	}
	balance, ok := ft.CheckedSub(acc.Balance, amount)
	if !ok {
		return errors.Wrapf(ft.ErrInsufficientBalance, "account %v has %v, needs %v", id, acc.Balance.Dec(), amount.Dec())
	}
	supply, err := l.state.GetTotalSupply()
	if err != nil {
		return err
	}
	newSupply, ok := ft.CheckedSub(supply, amount)
	if !ok {
		// supply is the sum of balances, so it can never be less than a single balance
		panic("total supply underflow")
	}

	acc.Balance = balance
	l.state.SetAccount(acc)
	return l.state.SetTotalSupply(newSupply)
}

// Transfer moves amount between two registered accounts. The supply is unchanged.
// Both sides are validated before either is written.
func (l *Ledger) Transfer(from, to ft.AccountID, amount *uint256.Int) error {
	sender, err := l.mustGet(from)
	if err != nil {
		return err
	}
	receiver, err := l.mustGet(to)
	if err != nil {
		return err
	}
	fromBalance, ok := ft.CheckedSub(sender.Balance, amount)
	if !ok {
		return errors.Wrapf(ft.ErrInsufficientBalance, "account %v has %v, needs %v", from, sender.Balance.Dec(), amount.Dec())
	}
	if from == to {
		return nil
	}
	toBalance, ok := ft.CheckedAdd(receiver.Balance, amount)
	if !ok {
		return errors.Wrapf(ft.ErrBalanceOverflow, "account %v", to)
	}

	sender.Balance = fromBalance
	receiver.Balance = toBalance
	l.state.SetAccount(sender)
	l.state.SetAccount(receiver)
	return nil
}
