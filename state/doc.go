// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages contract storage of the ledger.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv batch ]
//	         |
//	  [ lru cache ]
//	         |
//	  [ read-only kv ]
//
// Every ledger call takes a checkpoint before it mutates anything and reverts
// to it on failure, so a failed call leaves no trace in the journal.
package state
