// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events defines the ledger events and their NEP-297 encoding.
package events

import (
	"encoding/json"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/vechain/ftledger/ft"
)

// Kind is the event kind.
type Kind string

// event kinds
const (
	KindTransfer Kind = "ft_transfer"
	KindMint     Kind = "ft_mint"
	KindBurn     Kind = "ft_burn"
)

const (
	// Standard is the event standard name.
	Standard = "nep141"
	// Version is the event standard version.
	Version = "1.0.0"
	// LogPrefix prefixes the JSON of an event when written as a log line.
	LogPrefix = "EVENT_JSON:"
)

// memos set by the ledger itself
const (
	MemoRefund     = "refund"
	MemoUnregister = "storage_unregister"
	MemoNew        = "new"
)

// Event is a balance movement.
// For mint events only To is set, for burn events only From.
type Event struct {
	Kind   Kind
	From   ft.AccountID
	To     ft.AccountID
	Amount *uint256.Int
	Memo   string
}

// NewTransfer creates a transfer event.
func NewTransfer(from, to ft.AccountID, amount *uint256.Int, memo string) *Event {
	return &Event{Kind: KindTransfer, From: from, To: to, Amount: amount.Clone(), Memo: memo}
}

// NewMint creates a mint event.
func NewMint(owner ft.AccountID, amount *uint256.Int, memo string) *Event {
	return &Event{Kind: KindMint, To: owner, Amount: amount.Clone(), Memo: memo}
}

// NewBurn creates a burn event.
func NewBurn(owner ft.AccountID, amount *uint256.Int, memo string) *Event {
	return &Event{Kind: KindBurn, From: owner, Amount: amount.Clone(), Memo: memo}
}

type transferData struct {
	OldOwnerID ft.AccountID `json:"old_owner_id"`
	NewOwnerID ft.AccountID `json:"new_owner_id"`
	Amount     string       `json:"amount"`
	Memo       string       `json:"memo,omitempty"`
}

type ownerData struct {
	OwnerID ft.AccountID `json:"owner_id"`
	Amount  string       `json:"amount"`
	Memo    string       `json:"memo,omitempty"`
}

type envelope struct {
	Standard string          `json:"standard"`
	Version  string          `json:"version"`
	Event    Kind            `json:"event"`
	Data     json.RawMessage `json:"data"`
}

// MarshalJSON encodes the event in NEP-297 form.
func (e *Event) MarshalJSON() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch e.Kind {
	case KindTransfer:
		data, err = json.Marshal([]transferData{{e.From, e.To, e.Amount.Dec(), e.Memo}})
	case KindMint:
		data, err = json.Marshal([]ownerData{{e.To, e.Amount.Dec(), e.Memo}})
	case KindBurn:
		data, err = json.Marshal([]ownerData{{e.From, e.Amount.Dec(), e.Memo}})
	default:
		return nil, errors.Errorf("unknown event kind %q", e.Kind)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(&envelope{Standard, Version, e.Kind, data})
}

// UnmarshalJSON decodes an event in NEP-297 form. Only the first data entry is kept.
func (e *Event) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if env.Standard != Standard {
		return errors.Errorf("unsupported standard %q", env.Standard)
	}

	var (
		ev     = Event{Kind: env.Event}
		amount string
	)
	switch env.Event {
	case KindTransfer:
		var data []transferData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return err
		}
		if len(data) == 0 {
			return errors.New("empty event data")
		}
		ev.From, ev.To, amount, ev.Memo = data[0].OldOwnerID, data[0].NewOwnerID, data[0].Amount, data[0].Memo
	case KindMint, KindBurn:
		var data []ownerData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return err
		}
		if len(data) == 0 {
			return errors.New("empty event data")
		}
		if env.Event == KindMint {
			ev.To = data[0].OwnerID
		} else {
			ev.From = data[0].OwnerID
		}
		amount, ev.Memo = data[0].Amount, data[0].Memo
	default:
		return errors.Errorf("unknown event kind %q", env.Event)
	}

	var err error
	if ev.Amount, err = ft.ParseAmount(amount); err != nil {
		return err
	}
	*e = ev
	return nil
}

// String returns the log line form, EVENT_JSON:{...}.
func (e *Event) String() string {
	data, err := e.MarshalJSON()
	if err != nil {
		return LogPrefix + "{}"
	}
	return LogPrefix + string(data)
}
