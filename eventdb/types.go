// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"fmt"
	"time"

	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
)

// Record is an event stored in the journal.
type Record struct {
	Seq   uint64
	Op    string // the operation which emitted the event
	Time  time.Time
	Event *events.Event
}

func (r *Record) String() string {
	return fmt.Sprintf(`
		Record(
			seq:	%v,
			op:	%v,
			time:	%v,
			event:	%v)`,
		r.Seq,
		r.Op,
		r.Time.UTC().Format(time.RFC3339),
		r.Event)
}

// Order the order of records.
type Order string

const (
	// ASC asc order
	ASC Order = "asc"
	// DESC desc order
	DESC Order = "desc"
)

// Filter filters records.
type Filter struct {
	Kind    events.Kind  // empty matches any kind
	Account ft.AccountID // matches either side, empty matches any account
	FromSeq uint64       // records with seq >= FromSeq
	Limit   uint64       // 0 means no limit
	Order   Order
}
