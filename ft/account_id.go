// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ft

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

const (
	// MinAccountIDLen is the shortest valid account id.
	MinAccountIDLen = 2
	// MaxAccountIDLen is the longest valid account id.
	MaxAccountIDLen = 64
)

// AccountID identifies an account. The ledger treats it as opaque,
// validation happens where ids enter the system.
type AccountID string

// String implements the stringer interface.
func (id AccountID) String() string {
	return string(id)
}

// Hash returns the keccak256 hash of the id, used as the storage key.
func (id AccountID) Hash() []byte {
	return crypto.Keccak256([]byte(id))
}

// ParseAccountID validates s and converts it into AccountID.
// A valid id is 2-64 chars long and consists of lowercase alphanumeric
// parts separated by a single '-', '_' or '.'.
func ParseAccountID(s string) (AccountID, error) {
	if len(s) < MinAccountIDLen || len(s) > MaxAccountIDLen {
		return "", errors.Errorf("invalid account id %q: length out of range", s)
	}
	lastSep := true // no leading separator
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			lastSep = false
		case c == '-' || c == '_' || c == '.':
			if lastSep {
				return "", errors.Errorf("invalid account id %q: unexpected separator at %d", s, i)
			}
			lastSep = true
		default:
			return "", errors.Errorf("invalid account id %q: invalid char at %d", s, i)
		}
	}
	if lastSep {
		return "", errors.Errorf("invalid account id %q: trailing separator", s)
	}
	return AccountID(s), nil
}

// MustParseAccountID is like ParseAccountID but panics on error.
func MustParseAccountID(s string) AccountID {
	id, err := ParseAccountID(s)
	if err != nil {
		panic(err)
	}
	return id
}
