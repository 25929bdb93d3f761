// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vechain/ftledger/accounting"
	"github.com/vechain/ftledger/eventdb"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/kv"
	"github.com/vechain/ftledger/lvldb"
	"github.com/vechain/ftledger/receiver"
	"github.com/vechain/ftledger/token"
	"github.com/vechain/ftledger/transfer"
)

func u(v uint64) *uint256.Int { return uint256.NewInt(v) }

var minDeposit = accounting.DefaultPolicy().MinDeposit()

type refund struct {
	to     ft.AccountID
	amount string
	reason string
}

type refunds struct {
	mu   sync.Mutex
	list []refund
}

func (r *refunds) Refund(to ft.AccountID, amount *uint256.Int, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, refund{to, amount.Dec(), reason})
	return nil
}

func newDB(t *testing.T) kv.StoreCloser {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// newToken creates a token with 1000 minted to owner and each of accounts registered.
func newToken(t *testing.T, opts token.Options, accounts ...ft.AccountID) *token.Token {
	tk, err := token.New(newDB(t), "owner", u(1000), opts)
	require.NoError(t, err)
	t.Cleanup(tk.Close)

	for _, id := range accounts {
		_, err := tk.StorageDeposit(ft.NewCall(id, minDeposit), nil, true)
		require.NoError(t, err)
	}
	return tk
}

func balance(t *testing.T, tk *token.Token, id ft.AccountID) uint64 {
	b, err := tk.BalanceOf(id)
	require.NoError(t, err)
	return b.Uint64()
}

func supply(t *testing.T, tk *token.Token) uint64 {
	s, err := tk.TotalSupply()
	require.NoError(t, err)
	return s.Uint64()
}

func TestNew(t *testing.T) {
	j, err := eventdb.NewMem()
	require.NoError(t, err)
	defer j.Close()

	tk := newToken(t, token.Options{Journal: j})

	assert.Equal(t, uint64(1000), supply(t, tk))
	assert.Equal(t, uint64(1000), balance(t, tk, "owner"))
	owner, err := tk.Owner()
	require.NoError(t, err)
	assert.Equal(t, ft.AccountID("owner"), owner)

	bal, err := tk.StorageBalanceOf("owner")
	require.NoError(t, err)
	require.NotNil(t, bal)
	assert.Equal(t, minDeposit, bal.Total)

	recs, err := j.Filter(&eventdb.Filter{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "new", recs[0].Op)
	assert.Equal(t, events.NewMint("owner", u(1000), events.MemoNew), recs[0].Event)
}

func TestNewInvalid(t *testing.T) {
	_, err := token.New(newDB(t), "owner", new(uint256.Int).AddUint64(ft.MaxAmount, 1), token.Options{})
	assert.ErrorIs(t, err, ft.ErrSupplyOverflow)

	_, err = token.New(newDB(t), "owner", u(1), token.Options{Policy: accounting.Policy{StorageByteCost: u(0)}})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	db := newDB(t)

	_, err := token.Open(db, token.Options{})
	assert.ErrorIs(t, err, ft.ErrNotInitialized)

	tk, err := token.New(db, "owner", u(1000), token.Options{})
	require.NoError(t, err)
	_, err = tk.StorageDeposit(ft.NewCall("alice", minDeposit), nil, false)
	require.NoError(t, err)
	require.NoError(t, tk.Transfer(ft.OneYoctoCall("owner"), "alice", u(10), ""))
	tk.Close()

	_, err = token.New(db, "other", u(1), token.Options{})
	assert.ErrorIs(t, err, ft.ErrAlreadyInitialized)

	tk, err = token.Open(db, token.Options{})
	require.NoError(t, err)
	defer tk.Close()

	assert.Equal(t, uint64(1000), supply(t, tk))
	assert.Equal(t, uint64(990), balance(t, tk, "owner"))
	assert.Equal(t, uint64(10), balance(t, tk, "alice"))
	require.NoError(t, tk.CheckInvariant())
}

func TestTransferReverted(t *testing.T) {
	var rf refunds
	tk := newToken(t, token.Options{Refunder: &rf}, "alice")

	err := tk.Transfer(ft.OneYoctoCall("owner"), "bob", u(1), "")
	assert.ErrorIs(t, err, ft.ErrAccountNotRegistered)
	err = tk.Transfer(ft.OneYoctoCall("owner"), "alice", u(1001), "")
	assert.ErrorIs(t, err, ft.ErrInsufficientBalance)
	err = tk.Transfer(ft.NewCall("owner", nil), "alice", u(1), "")
	assert.ErrorIs(t, err, ft.ErrAuthorizationRequired)

	assert.Equal(t, uint64(1000), balance(t, tk, "owner"))
	assert.Equal(t, uint64(0), balance(t, tk, "alice"))
	require.NoError(t, tk.CheckInvariant())
}

func TestTransferCall(t *testing.T) {
	tests := []struct {
		name     string
		receiver transfer.Receiver
		owner    uint64
		recv     uint64
		used     uint64
		notify   bool
	}{
		{"uses all", transfer.ReceiverFunc(func(context.Context, ft.AccountID, *uint256.Int, string) (*uint256.Int, error) {
			return u(0), nil
		}), 900, 100, 100, false},
		{"uses part", transfer.ReceiverFunc(func(context.Context, ft.AccountID, *uint256.Int, string) (*uint256.Int, error) {
			return u(40), nil
		}), 940, 60, 60, false},
		{"claims more than sent", transfer.ReceiverFunc(func(context.Context, ft.AccountID, *uint256.Int, string) (*uint256.Int, error) {
			return u(1000), nil
		}), 1000, 0, 0, false},
		{"fails", transfer.ReceiverFunc(func(context.Context, ft.AccountID, *uint256.Int, string) (*uint256.Int, error) {
			return nil, errors.New("rejected")
		}), 1000, 0, 0, true},
		{"panics", transfer.ReceiverFunc(func(context.Context, ft.AccountID, *uint256.Int, string) (*uint256.Int, error) {
			panic("boom")
		}), 1000, 0, 0, true},
		{"missing", nil, 1000, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := transfer.Directory{}
			if tt.receiver != nil {
				dir["dex"] = tt.receiver
			}
			tk := newToken(t, token.Options{Receivers: dir}, "dex")

			res, err := tk.TransferCall(context.Background(), ft.OneYoctoCall("owner"), "dex", u(100), "", "msg")
			require.NoError(t, err)

			assert.Equal(t, tt.used, res.Used.Uint64())
			assert.Equal(t, 100-tt.used, res.Refunded.Uint64())
			assert.NoError(t, res.RefundErr)
			if tt.notify {
				assert.ErrorIs(t, res.NotifyErr, ft.ErrReceiverNotificationFailed)
			} else {
				assert.NoError(t, res.NotifyErr)
			}
			assert.Equal(t, tt.owner, balance(t, tk, "owner"))
			assert.Equal(t, tt.recv, balance(t, tk, "dex"))
			assert.Equal(t, uint64(1000), supply(t, tk))
			assert.Empty(t, tk.PendingTransfers())
			require.NoError(t, tk.CheckInvariant())
		})
	}
}

func TestTransferCallRefundFails(t *testing.T) {
	// the receiver spends the tokens before the refund
	var tk *token.Token
	dir := transfer.Directory{
		"dex": transfer.ReceiverFunc(func(ctx context.Context, sender ft.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error) {
			return amount, tk.Transfer(ft.OneYoctoCall("dex"), "alice", amount, "")
		}),
	}
	tk = newToken(t, token.Options{Receivers: dir}, "dex", "alice")

	res, err := tk.TransferCall(context.Background(), ft.OneYoctoCall("owner"), "dex", u(100), "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, res.RefundErr, ft.ErrRefundFailed)
	assert.Equal(t, uint64(100), res.Used.Uint64())
	assert.Equal(t, uint64(900), balance(t, tk, "owner"))
	assert.Equal(t, uint64(100), balance(t, tk, "alice"))
	require.NoError(t, tk.CheckInvariant())
}

func TestTransferCallTimeout(t *testing.T) {
	s, err := receiver.Compile("dex", `function onTransfer() { for (;;) {} }`)
	require.NoError(t, err)
	tk := newToken(t, token.Options{
		Receivers:     transfer.Directory{"dex": s},
		NotifyTimeout: 50 * time.Millisecond,
	}, "dex")

	res, err := tk.TransferCall(context.Background(), ft.OneYoctoCall("owner"), "dex", u(100), "", "")
	require.NoError(t, err)
	assert.ErrorIs(t, res.NotifyErr, ft.ErrReceiverNotificationFailed)
	assert.Equal(t, uint64(1000), balance(t, tk, "owner"))
}

func TestTransferCallScript(t *testing.T) {
	s, err := receiver.Compile("dex", `function onTransfer(sender, amount, msg) { return msg === "half" ? "50" : "0"; }`)
	require.NoError(t, err)
	tk := newToken(t, token.Options{Receivers: transfer.Directory{"dex": s}}, "dex")

	res, err := tk.TransferCall(context.Background(), ft.OneYoctoCall("owner"), "dex", u(100), "", "half")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), res.Used.Uint64())
	assert.Equal(t, uint64(950), balance(t, tk, "owner"))
	assert.Equal(t, uint64(50), balance(t, tk, "dex"))
}

func TestTransferCallManual(t *testing.T) {
	tk := newToken(t, token.Options{}, "dex")

	pt, err := tk.BeginTransferCall(ft.OneYoctoCall("owner"), "dex", u(100), "memo", "msg")
	require.NoError(t, err)
	assert.Equal(t, transfer.AwaitingNotification, pt.Stage)
	assert.Equal(t, uint64(900), balance(t, tk, "owner"))
	assert.Equal(t, uint64(100), balance(t, tk, "dex"))

	list := tk.PendingTransfers()
	require.Len(t, list, 1)
	assert.Equal(t, pt.ID, list[0].ID)

	// other operations proceed while pending
	require.NoError(t, tk.Transfer(ft.OneYoctoCall("dex"), "owner", u(10), ""))

	res, err := tk.ResolveTransferCall(pt.ID, transfer.Unused(u(30)))
	require.NoError(t, err)
	assert.Equal(t, uint64(70), res.Used.Uint64())
	assert.Equal(t, uint64(940), balance(t, tk, "owner"))
	assert.Equal(t, uint64(60), balance(t, tk, "dex"))

	_, err = tk.ResolveTransferCall(pt.ID, transfer.Unused(u(0)))
	assert.ErrorIs(t, err, ft.ErrUnknownTransfer)

	_, err = tk.BeginTransferCall(ft.OneYoctoCall("owner"), "nobody", u(1), "", "")
	assert.ErrorIs(t, err, ft.ErrAccountNotRegistered)
	assert.Empty(t, tk.PendingTransfers())
}

func TestTransferCallAsync(t *testing.T) {
	release := make(chan struct{})
	dir := transfer.Directory{
		"dex": transfer.ReceiverFunc(func(ctx context.Context, sender ft.AccountID, amount *uint256.Int, msg string) (*uint256.Int, error) {
			<-release
			return u(25), nil
		}),
	}
	tk := newToken(t, token.Options{Receivers: dir}, "dex", "alice")

	pt, ch, err := tk.TransferCallAsync(context.Background(), ft.OneYoctoCall("owner"), "dex", u(100), "", "")
	require.NoError(t, err)

	// the ledger stays available during notification
	require.NoError(t, tk.Transfer(ft.OneYoctoCall("owner"), "alice", u(5), ""))
	assert.Len(t, tk.PendingTransfers(), 1)

	close(release)
	res := <-ch
	require.NotNil(t, res)
	assert.Equal(t, pt.ID, res.ID)
	assert.Equal(t, uint64(75), res.Used.Uint64())
	_, ok := <-ch
	assert.False(t, ok)

	assert.Equal(t, uint64(920), balance(t, tk, "owner"))
	assert.Equal(t, uint64(75), balance(t, tk, "dex"))
	require.NoError(t, tk.CheckInvariant())
}

func TestBurn(t *testing.T) {
	tk := newToken(t, token.Options{}, "alice")

	require.NoError(t, tk.Burn(ft.NewCall("owner", nil), u(100)))
	assert.Equal(t, uint64(900), supply(t, tk))
	assert.Equal(t, uint64(900), balance(t, tk, "owner"))

	assert.ErrorIs(t, tk.Burn(ft.NewCall("owner", nil), u(901)), ft.ErrInsufficientBalance)
	assert.Equal(t, uint64(900), supply(t, tk))
	require.NoError(t, tk.CheckInvariant())
}

func TestStorage(t *testing.T) {
	var rf refunds
	tk := newToken(t, token.Options{Refunder: &rf})

	bounds := tk.StorageBalanceBounds()
	assert.Equal(t, minDeposit, bounds.Min)
	assert.Nil(t, bounds.Max)

	bal, err := tk.StorageBalanceOf("alice")
	require.NoError(t, err)
	assert.Nil(t, bal)

	_, err = tk.StorageDeposit(ft.NewCall("alice", u(1)), nil, false)
	assert.ErrorIs(t, err, ft.ErrInsufficientDeposit)
	assert.Empty(t, rf.list)

	extra := new(uint256.Int).AddUint64(minDeposit, 7)
	got, err := tk.StorageDeposit(ft.NewCall("alice", extra), nil, true)
	require.NoError(t, err)
	assert.Equal(t, minDeposit, got.Total)
	require.Len(t, rf.list, 1)
	assert.Equal(t, refund{"alice", "7", "storage_deposit"}, rf.list[0])

	_, err = tk.StorageWithdraw(ft.NewCall("alice", nil), nil)
	assert.ErrorIs(t, err, ft.ErrAuthorizationRequired)

	require.NoError(t, tk.Transfer(ft.OneYoctoCall("owner"), "alice", u(50), ""))

	_, err = tk.StorageUnregister(ft.OneYoctoCall("alice"), false)
	assert.ErrorIs(t, err, ft.ErrPositiveBalanceRequiresForce)

	removed, err := tk.StorageUnregister(ft.OneYoctoCall("alice"), true)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, uint64(950), supply(t, tk))
	assert.Equal(t, uint64(0), balance(t, tk, "alice"))
	require.Len(t, rf.list, 2)
	assert.Equal(t, "storage_unregister", rf.list[1].reason)
	assert.Equal(t, minDeposit.Dec(), rf.list[1].amount)

	removed, err = tk.StorageUnregister(ft.OneYoctoCall("alice"), false)
	require.NoError(t, err)
	assert.False(t, removed)
	require.NoError(t, tk.CheckInvariant())
}

func TestSubscribeEvents(t *testing.T) {
	j, err := eventdb.NewMem()
	require.NoError(t, err)
	defer j.Close()

	tk := newToken(t, token.Options{Journal: j}, "alice")

	ch := make(chan *events.Event, 16)
	sub := tk.SubscribeEvents(ch)
	defer sub.Unsubscribe()

	require.NoError(t, tk.Transfer(ft.OneYoctoCall("owner"), "alice", u(60), "hi"))
	_, err = tk.StorageUnregister(ft.OneYoctoCall("alice"), true)
	require.NoError(t, err)

	want := []*events.Event{
		events.NewTransfer("owner", "alice", u(60), "hi"),
		events.NewBurn("alice", u(60), events.MemoUnregister),
	}
	for _, w := range want {
		select {
		case ev := <-ch:
			assert.Equal(t, w, ev)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}

	recs, err := j.Filter(&eventdb.Filter{Account: "alice", Order: eventdb.ASC})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "ft_transfer", recs[0].Op)
	assert.Equal(t, "storage_unregister", recs[1].Op)

	// failed operations publish nothing
	assert.Error(t, tk.Transfer(ft.OneYoctoCall("owner"), "alice", u(1), ""))
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v", ev)
	default:
	}
}
