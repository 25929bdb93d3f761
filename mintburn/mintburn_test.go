// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mintburn

import (
	"errors"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/lvldb"
	"github.com/vechain/ftledger/state"
	"github.com/vechain/ftledger/supply"
)

func newController(t *testing.T) (*Controller, *supply.Ledger, *state.State, *events.Recorder) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	ledger := supply.New(st)
	rec := &events.Recorder{}
	return New(ledger, rec), ledger, st, rec
}

func TestInitialize(t *testing.T) {
	c, ledger, st, rec := newController(t)

	require.NoError(t, c.Initialize("owner", uint256.NewInt(1000), uint256.NewInt(3)))

	bal, _ := ledger.BalanceOf("owner")
	assert.Equal(t, uint256.NewInt(1000), bal)
	acc, _ := st.GetAccount("owner")
	assert.Equal(t, uint256.NewInt(3), acc.StorageDeposit)

	evs := rec.Take()
	require.Len(t, evs, 1)
	assert.Equal(t, events.NewMint("owner", uint256.NewInt(1000), events.MemoNew), evs[0])

	err := c.Initialize("owner", uint256.NewInt(1), uint256.NewInt(3))
	assert.True(t, errors.Is(err, ft.ErrAlreadyInitialized))
	assert.Equal(t, 0, rec.Len())
}

func TestInitializeOverflow(t *testing.T) {
	c, _, _, rec := newController(t)
	over := new(uint256.Int).AddUint64(ft.MaxAmount, 1)

	err := c.Initialize("owner", over, uint256.NewInt(3))
	assert.True(t, errors.Is(err, ft.ErrSupplyOverflow))
	assert.Equal(t, 0, rec.Len())
}

func TestBurn(t *testing.T) {
	c, ledger, _, rec := newController(t)
	require.NoError(t, c.Initialize("owner", uint256.NewInt(1000), uint256.NewInt(3)))
	rec.Reset()

	require.NoError(t, c.Burn(ft.NewCall("owner", nil), uint256.NewInt(300)))
	bal, _ := ledger.BalanceOf("owner")
	assert.Equal(t, uint256.NewInt(700), bal)
	total, _ := ledger.TotalSupply()
	assert.Equal(t, uint256.NewInt(700), total)

	err := c.Burn(ft.NewCall("owner", nil), uint256.NewInt(701))
	assert.True(t, errors.Is(err, ft.ErrInsufficientBalance))

	err = c.Burn(ft.NewCall("stranger", nil), uint256.NewInt(1))
	assert.True(t, errors.Is(err, ft.ErrAccountNotRegistered))

	evs := rec.Take()
	require.Len(t, evs, 1)
	assert.Equal(t, events.KindBurn, evs[0].Kind)
}

func TestMintBurnRoundTrip(t *testing.T) {
	c, ledger, _, _ := newController(t)
	require.NoError(t, c.Initialize("owner", uint256.NewInt(1000), uint256.NewInt(3)))

	require.NoError(t, c.Mint("owner", uint256.NewInt(250), ""))
	require.NoError(t, c.Burn(ft.NewCall("owner", nil), uint256.NewInt(250)))

	bal, _ := ledger.BalanceOf("owner")
	assert.Equal(t, uint256.NewInt(1000), bal)
	total, _ := ledger.TotalSupply()
	assert.Equal(t, uint256.NewInt(1000), total)
}
