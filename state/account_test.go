// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/lvldb"
)

func TestAccountCopy(t *testing.T) {
	a := NewAccount("alice", uint256.NewInt(10))
	cpy := a.Copy()
	cpy.Balance.SetUint64(5)
	cpy.StorageDeposit.SetUint64(1)

	assert.True(t, a.Balance.IsZero())
	assert.Equal(t, uint64(10), a.StorageDeposit.Uint64())

	assert.Equal(t, ft.Zero(), (&Account{ID: "bob"}).Copy().Balance)
}

func TestLoadSaveAccount(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	acc, err := loadAccount(db, "alice")
	require.NoError(t, err)
	assert.Nil(t, acc)

	want := &Account{ID: "alice", Balance: ft.MaxAmount.Clone(), StorageDeposit: uint256.NewInt(7)}
	require.NoError(t, saveAccount(db, "alice", want))

	acc, err = loadAccount(db, "alice")
	require.NoError(t, err)
	assert.Equal(t, want, acc)

	require.NoError(t, saveAccount(db, "alice", nil))
	acc, err = loadAccount(db, "alice")
	require.NoError(t, err)
	assert.Nil(t, acc)
}
