// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounting

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/ft"
)

// Policy prices the storage an account occupies.
type Policy struct {
	AccountStorageUsage uint64       // bytes per account record
	StorageByteCost     *uint256.Int // cost per byte
	SafetyMarginPercent uint64       // applied on top of the raw cost
	MaxDeposit          *uint256.Int // nil means unbounded
}

// DefaultPolicy returns the reference policy:
// 100 bytes at 10^19 per byte with a 125% margin, no maximum.
func DefaultPolicy() Policy {
	return Policy{
		AccountStorageUsage: 100,
		StorageByteCost:     new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(19)),
		SafetyMarginPercent: 125,
	}
}

// MinDeposit returns usage * byteCost * percent / 100.
func (p Policy) MinDeposit() *uint256.Int {
	x := new(uint256.Int).Mul(uint256.NewInt(p.AccountStorageUsage), p.StorageByteCost)
	x.Mul(x, uint256.NewInt(p.SafetyMarginPercent))
	return x.Div(x, uint256.NewInt(100))
}

// Validate checks the policy is usable.
func (p Policy) Validate() error {
	if p.StorageByteCost == nil {
		return errors.New("storage byte cost required")
	}
	if p.SafetyMarginPercent < 100 {
		return errors.Errorf("safety margin %d%% below 100%%", p.SafetyMarginPercent)
	}
	minDeposit := p.MinDeposit()
	if minDeposit.Gt(ft.MaxAmount) {
		return errors.New("minimum deposit out of range")
	}
	if p.MaxDeposit != nil && p.MaxDeposit.Lt(minDeposit) {
		return errors.Errorf("max deposit %v less than min deposit %v", p.MaxDeposit.Dec(), minDeposit.Dec())
	}
	return nil
}
