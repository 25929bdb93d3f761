// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ft defines the basic types shared by all ledger components:
// account identifiers, amounts, the caller context of an operation,
// storage balances and the error taxonomy.
package ft
