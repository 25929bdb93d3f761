// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ft

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// MaxAmount is the largest representable amount, 2^128-1.
var MaxAmount = new(uint256.Int).SubUint64(new(uint256.Int).Lsh(uint256.NewInt(1), 128), 1)

// OneYocto is the minimal control unit that must be attached to guarded calls.
var OneYocto = uint256.NewInt(1)

// Zero returns a new zero amount.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// CheckedAdd returns a+b, or false if the sum exceeds MaxAmount.
func CheckedAdd(a, b *uint256.Int) (*uint256.Int, bool) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || sum.Gt(MaxAmount) {
		return nil, false
	}
	return sum, true
}

// CheckedSub returns a-b, or false if b is greater than a.
func CheckedSub(a, b *uint256.Int) (*uint256.Int, bool) {
	if a.Lt(b) {
		return nil, false
	}
	return new(uint256.Int).Sub(a, b), true
}

// SaturatingSub returns a-b, or zero if b is greater than a.
func SaturatingSub(a, b *uint256.Int) *uint256.Int {
	if d, ok := CheckedSub(a, b); ok {
		return d
	}
	return Zero()
}

// Min returns a copy of the smaller of a and b.
func Min(a, b *uint256.Int) *uint256.Int {
	if a.Lt(b) {
		return a.Clone()
	}
	return b.Clone()
}

// ParseAmount parses a decimal string into an amount within the representable range.
func ParseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse amount %q", s)
	}
	if v.Gt(MaxAmount) {
		return nil, errors.Errorf("parse amount %q: exceeds max amount", s)
	}
	return v, nil
}

// MustParseAmount is like ParseAmount but panics on error.
func MustParseAmount(s string) *uint256.Int {
	v, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return v
}
