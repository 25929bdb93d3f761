// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ft

import (
	"encoding/json"

	"github.com/holiman/uint256"
)

// StorageBalance is the storage deposit of an account.
type StorageBalance struct {
	Total     *uint256.Int
	Available *uint256.Int
}

// MarshalJSON encodes amounts as decimal strings.
func (b StorageBalance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Total     string `json:"total"`
		Available string `json:"available"`
	}{b.Total.Dec(), b.Available.Dec()})
}

// StorageBalanceBounds are the bounds of the storage deposit.
// A nil Max means unbounded.
type StorageBalanceBounds struct {
	Min *uint256.Int
	Max *uint256.Int
}

// MarshalJSON encodes amounts as decimal strings, a nil Max as null.
func (b StorageBalanceBounds) MarshalJSON() ([]byte, error) {
	var maxDec *string
	if b.Max != nil {
		s := b.Max.Dec()
		maxDec = &s
	}
	return json.Marshal(struct {
		Min string  `json:"min"`
		Max *string `json:"max"`
	}{b.Min.Dec(), maxDec})
}
