// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ft

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Call is the context of an externally invoked operation.
// Caller is verified by the host before the call reaches the ledger.
type Call struct {
	Caller   AccountID
	Attached *uint256.Int // value attached to the call, nil means none
}

// NewCall creates a call of caller with attached value.
func NewCall(caller AccountID, attached *uint256.Int) Call {
	return Call{Caller: caller, Attached: attached}
}

// OneYoctoCall creates a call of caller with exactly the minimal control unit attached.
func OneYoctoCall(caller AccountID) Call {
	return Call{Caller: caller, Attached: OneYocto.Clone()}
}

// AttachedValue returns the attached value, zero if none.
func (c Call) AttachedValue() *uint256.Int {
	if c.Attached == nil {
		return Zero()
	}
	return c.Attached.Clone()
}

// AssertOneYocto checks that exactly the minimal control unit is attached.
func (c Call) AssertOneYocto() error {
	if c.Attached == nil || !c.Attached.Eq(OneYocto) {
		return errors.Wrapf(ErrAuthorizationRequired, "requires attached deposit of exactly %v", OneYocto)
	}
	return nil
}
