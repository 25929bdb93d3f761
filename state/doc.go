// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages ledger accounts and the supply counter.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv bulk ]
//	         |
//	  [ account cache ]
//	         |
//	    [ kv store ]
//
// Reads fall through the stacked map to an LRU of committed accounts and then to the
// store. Writes stay in the stacked map until Commit, which writes the net journal as
// a single bulk.
package state
