// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/vechain/ftledger/cache"
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/kv"
	"github.com/vechain/ftledger/stackedmap"
)

const (
	// AccountBucket is the bucket name of accounts.
	AccountBucket = "a"
	// MetaBucket is the bucket name of ledger-wide values.
	MetaBucket = "m"

	accountCacheSize = 4096
)

// meta keys
const (
	totalSupplyKey = metaKey("total-supply")
	initializedKey = metaKey("initialized")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the underlying error.
func (e *Error) Cause() error {
	return e.cause
}

type (
	accountKey ft.AccountID
	metaKey    string
)

// State manages accounts and the supply counter.
type State struct {
	db       kv.Store
	accounts kv.Store
	meta     kv.Store
	cache    *cache.LRU                        // committed accounts
	sm       *stackedmap.StackedMap[any, any] // keeps revisions of uncommitted changes
}

// New create state object on top of the given store.
func New(db kv.Store) *State {
	lru, _ := cache.NewLRU(accountCacheSize)
	s := State{
		db:       db,
		accounts: kv.Bucket(AccountBucket).NewStore(db),
		meta:     kv.Bucket(MetaBucket).NewStore(db),
		cache:    lru,
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return &s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case accountKey:
		v, err := s.cache.GetOrLoad(ft.AccountID(k), func(interface{}) (interface{}, error) {
			metricAccountCounter().AddWithLabel(1, map[string]string{"type": "read", "target": "store"})
			return loadAccount(s.accounts, ft.AccountID(k))
		})
		if err != nil {
			return nil, false, err
		}
		acc := v.(*Account)
		return acc, acc != nil, nil
	case metaKey:
		data, err := s.meta.Get([]byte(k))
		if err != nil {
			if s.meta.IsNotFound(err) {
				return []byte(nil), false, nil
			}
			return nil, false, err
		}
		return data, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) getAccount(id ft.AccountID) (*Account, error) {
	v, _, err := s.sm.Get(accountKey(id))
	if err != nil {
		return nil, &Error{err}
	}
	return v.(*Account), nil
}

func (s *State) getMeta(key metaKey) ([]byte, error) {
	v, _, err := s.sm.Get(key)
	if err != nil {
		return nil, &Error{err}
	}
	return v.([]byte), nil
}

// GetAccount returns a copy of the account, or nil if the account does not exist.
func (s *State) GetAccount(id ft.AccountID) (*Account, error) {
	acc, err := s.getAccount(id)
	if err != nil || acc == nil {
		return nil, err
	}
	return acc.Copy(), nil
}

// Exists returns whether an account exists.
func (s *State) Exists(id ft.AccountID) (bool, error) {
	acc, err := s.getAccount(id)
	if err != nil {
		return false, err
	}
	return acc != nil, nil
}

// GetBalance returns balance for the given account. Zero for unknown accounts.
func (s *State) GetBalance(id ft.AccountID) (*uint256.Int, error) {
	acc, err := s.getAccount(id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return ft.Zero(), nil
	}
	return acc.Balance.Clone(), nil
}

// SetAccount creates or replaces the account.
func (s *State) SetAccount(acc *Account) {
	s.sm.Put(accountKey(acc.ID), acc.Copy())
}

// DeleteAccount removes the account.
func (s *State) DeleteAccount(id ft.AccountID) {
	s.sm.Put(accountKey(id), (*Account)(nil))
}

// GetTotalSupply returns the supply counter.
func (s *State) GetTotalSupply() (*uint256.Int, error) {
	data, err := s.getMeta(totalSupplyKey)
	if err != nil {
		return nil, err
	}
	supply := ft.Zero()
	if len(data) == 0 {
		return supply, nil
	}
	if err := rlp.DecodeBytes(data, supply); err != nil {
		return nil, &Error{err}
	}
	return supply, nil
}

// SetTotalSupply sets the supply counter.
func (s *State) SetTotalSupply(supply *uint256.Int) error {
	data, err := rlp.EncodeToBytes(supply)
	if err != nil {
		return &Error{err}
	}
	s.sm.Put(totalSupplyKey, data)
	return nil
}

// IsInitialized returns whether the one-time construction has happened.
func (s *State) IsInitialized() (bool, error) {
	data, err := s.getMeta(initializedKey)
	if err != nil {
		return false, err
	}
	return len(data) > 0, nil
}

// Owner returns the account recorded at construction.
func (s *State) Owner() (ft.AccountID, error) {
	data, err := s.getMeta(initializedKey)
	if err != nil {
		return "", err
	}
	return ft.AccountID(data), nil
}

// SetInitialized marks the construction as done by the given owner.
func (s *State) SetInitialized(owner ft.AccountID) {
	s.sm.Put(initializedKey, []byte(owner))
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// ForEach iterates all accounts, committed ones merged with uncommitted changes.
// Iteration stops when fn returns false.
func (s *State) ForEach(fn func(acc *Account) bool) error {
	dirty := make(map[ft.AccountID]*Account)
	s.sm.Journal(func(k, v any) bool {
		if key, ok := k.(accountKey); ok {
			dirty[ft.AccountID(key)] = v.(*Account)
		}
		return true
	})

	iter := s.accounts.Iterate(kv.Range{})
	defer iter.Release()
	for iter.Next() {
		var acc Account
		if err := rlp.DecodeBytes(iter.Value(), &acc); err != nil {
			return &Error{err}
		}
		if _, ok := dirty[acc.ID]; ok {
			continue
		}
		if !fn(&acc) {
			return nil
		}
	}
	if err := iter.Error(); err != nil {
		return &Error{err}
	}

	ids := make([]string, 0, len(dirty))
	for id, acc := range dirty {
		if acc != nil {
			ids = append(ids, string(id))
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !fn(dirty[ft.AccountID(id)].Copy()) {
			return nil
		}
	}
	return nil
}

// Stage makes a stage object to commit all changes.
func (s *State) Stage() (*Stage, error) {
	var (
		accounts = make(map[ft.AccountID]*Account)
		metas    = make(map[metaKey][]byte)
	)
	// traverse journal to build net changes
	s.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case accountKey:
			accounts[ft.AccountID(key)] = v.(*Account)
		case metaKey:
			metas[key] = v.([]byte)
		}
		return true
	})

	bulk := s.db.Bulk()
	accPutter := kv.Bucket(AccountBucket).NewPutter(bulk)
	metaPutter := kv.Bucket(MetaBucket).NewPutter(bulk)

	for id, acc := range accounts {
		if err := saveAccount(accPutter, id, acc); err != nil {
			return nil, &Error{err}
		}
	}
	for key, data := range metas {
		var err error
		if len(data) == 0 {
			err = metaPutter.Delete([]byte(key))
		} else {
			err = metaPutter.Put([]byte(key), data)
		}
		if err != nil {
			return nil, &Error{err}
		}
	}
	return &Stage{bulk: bulk, accounts: accounts}, nil
}

// Commit writes all changes since the last commit to the store in one bulk,
// then resets the journal.
func (s *State) Commit() error {
	stage, err := s.Stage()
	if err != nil {
		return err
	}
	if err := stage.Commit(); err != nil {
		return &Error{err}
	}
	for id, acc := range stage.accounts {
		s.cache.Add(id, acc)
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return nil
}

// Dirty returns whether there are uncommitted changes.
func (s *State) Dirty() bool {
	dirty := false
	s.sm.Journal(func(any, any) bool {
		dirty = true
		return false
	})
	return dirty
}
