// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/ftledger/ft"
	"github.com/vechain/ftledger/kv"
)

// Stage abstracts the net changes of a state, ready to be written.
type Stage struct {
	bulk     kv.Bulk
	accounts map[ft.AccountID]*Account
}

// Len returns the number of buffered writes.
func (s *Stage) Len() int {
	return s.bulk.Len()
}

// Commit writes all changes atomically.
func (s *Stage) Commit() error {
	if err := s.bulk.Write(); err != nil {
		return err
	}
	metricAccountCounter().AddWithLabel(int64(len(s.accounts)), map[string]string{"type": "write", "target": "store"})
	return nil
}
