// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb journals committed ledger events in sqlite.
package eventdb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/events"
	"github.com/vechain/ftledger/ft"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	op TEXT NOT NULL,
	kind TEXT NOT NULL,
	fromID TEXT NOT NULL,
	toID TEXT NOT NULL,
	amount TEXT NOT NULL,
	memo TEXT NOT NULL,
	time INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS event_i_from ON event(fromID);
CREATE INDEX IF NOT EXISTS event_i_to ON event(toID);`

// EventDB manages the event journal.
type EventDB struct {
	path          string
	db            *sql.DB
	sqliteVersion string
}

// New open an event db.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open event db")
	}
	// a memory db lives in a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create event table")
	}
	s, _, _ := sqlite3.Version()
	return &EventDB{
		path:          path,
		db:            db,
		sqliteVersion: s,
	}, nil
}

// NewMem create a memory sqlite db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Insert journals events emitted by op in one transaction.
func (db *EventDB) Insert(op string, evs []*events.Event, at time.Time) error {
	if len(evs) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range evs {
		if _, err = tx.Exec("INSERT INTO event(op, kind, fromID, toID, amount, memo, time) VALUES (?, ?, ?, ?, ?, ?, ?);",
			op,
			string(ev.Kind),
			string(ev.From),
			string(ev.To),
			ev.Amount.Dec(),
			ev.Memo,
			at.Unix()); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Filter returns records matching the filter.
func (db *EventDB) Filter(filter *Filter) ([]*Record, error) {
	if filter == nil {
		filter = &Filter{}
	}
	var (
		conds = []string{"seq >= ?"}
		args  = []interface{}{filter.FromSeq}
	)
	if filter.Kind != "" {
		conds = append(conds, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Account != "" {
		conds = append(conds, "(fromID = ? OR toID = ?)")
		args = append(args, string(filter.Account), string(filter.Account))
	}

	stmt := "SELECT seq, op, kind, fromID, toID, amount, memo, time FROM event WHERE " + strings.Join(conds, " AND ")
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	return db.query(stmt, args...)
}

// query query records
func (db *EventDB) query(stmt string, args ...interface{}) ([]*Record, error) {
	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			seq      uint64
			op       string
			kind     string
			from     string
			to       string
			amount   string
			memo     string
			unixTime int64
		)
		if err := rows.Scan(
			&seq,
			&op,
			&kind,
			&from,
			&to,
			&amount,
			&memo,
			&unixTime,
		); err != nil {
			return nil, err
		}
		value, err := ft.ParseAmount(amount)
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", seq)
		}
		records = append(records, &Record{
			Seq:  seq,
			Op:   op,
			Time: time.Unix(unixTime, 0),
			Event: &events.Event{
				Kind:   events.Kind(kind),
				From:   ft.AccountID(from),
				To:     ft.AccountID(to),
				Amount: value,
				Memo:   memo,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Path return db's path.
func (db *EventDB) Path() string {
	return db.path
}

// SQLiteVersion returns the version of the linked sqlite.
func (db *EventDB) SQLiteVersion() string {
	return db.sqliteVersion
}

// Close close sqlite.
func (db *EventDB) Close() error {
	return db.db.Close()
}
