// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package mintburn creates the supply once and lets holders destroy their own tokens.
package mintburn

import (
	"github.com/holiman/uint256"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/log"
	"github.com/vechain/ftledger/supply"
)

var logger = log.WithContext("pkg", "mintburn")

// Controller mints at construction and burns on request.
type Controller struct {
	ledger   *supply.Ledger
	recorder *events.Recorder
}

// New creates a controller.
func New(ledger *supply.Ledger, recorder *events.Recorder) *Controller {
	return &Controller{ledger, recorder}
}

// Initialize registers owner, bypassing the deposit minimum, with bootstrapDeposit
// recorded as its storage deposit and credits it the whole totalSupply.
// It fails with ft.ErrAlreadyInitialized on a second call.
func (c *Controller) Initialize(owner ft.AccountID, totalSupply, bootstrapDeposit *uint256.Int) error {
	if err := c.ledger.Bootstrap(owner, totalSupply, bootstrapDeposit); err != nil {
		return err
	}
	c.recorder.Record(events.NewMint(owner, totalSupply, events.MemoNew))
	logger.Info("Deposit "+totalSupply.Dec()+" token to "+owner.String(), "owner", owner)
	return nil
}

// Burn destroys amount of the caller's own balance.
func (c *Controller) Burn(call ft.Call, amount *uint256.Int) error {
	if err := c.ledger.Withdraw(call.Caller, amount); err != nil {
		return err
	}
	c.recorder.Record(events.NewBurn(call.Caller, amount, ""))
	logger.Debug("burn", "account", call.Caller, "amount", amount.Dec())
	return nil
}

// Mint credits amount to a registered account.
func (c *Controller) Mint(owner ft.AccountID, amount *uint256.Int, memo string) error {
	if err := c.ledger.Deposit(owner, amount); err != nil {
		return err
	}
	c.recorder.Record(events.NewMint(owner, amount, memo))
	return nil
}
