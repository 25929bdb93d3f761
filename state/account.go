// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/kv"
)

// Account is the ledger representation of an account.
// RLP encoded objects are stored in the account bucket, keyed by hash of ID.
type Account struct {
	ID             ft.AccountID
	Balance        *uint256.Int
	StorageDeposit *uint256.Int
}

// NewAccount creates an account with zero balance and the given deposit.
func NewAccount(id ft.AccountID, deposit *uint256.Int) *Account {
	return &Account{
		ID:             id,
		Balance:        ft.Zero(),
		StorageDeposit: deposit.Clone(),
	}
}

// Copy returns a deep copy.
func (a *Account) Copy() *Account {
	cpy := Account{ID: a.ID, Balance: ft.Zero(), StorageDeposit: ft.Zero()}
	if a.Balance != nil {
		cpy.Balance.Set(a.Balance)
	}
	if a.StorageDeposit != nil {
		cpy.StorageDeposit.Set(a.StorageDeposit)
	}
	return &cpy
}

// loadAccount load an account by id from the account bucket.
// It returns nil if no account found.
func loadAccount(getter kv.Getter, id ft.AccountID) (*Account, error) {
	data, err := getter.Get(id.Hash())
	if err != nil {
		if getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var a Account
	if err := rlp.DecodeBytes(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount save account into the account bucket.
// If the given account is nil, the value for given id is deleted.
func saveAccount(putter kv.Putter, id ft.AccountID, a *Account) error {
	if a == nil {
		return putter.Delete(id.Hash())
	}
	data, err := rlp.EncodeToBytes(a)
	if err != nil {
		return err
	}
	return putter.Put(id.Hash(), data)
}
