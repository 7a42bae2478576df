// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the in-memory world state of a development chain.
// It follows the flow as below:
//
//	            o
//	            |
//	[ revertable state ] ------ [ snapshots: root -> layers ]
//	            |
//	    [ layer stack ]   (checkpoint pushes a copy, revert pops)
//	            |
//	    [ top layer ] -> [ accounts | storages | codes ] -> [ trie hasher ] -> root
//
// Every layer is a complete copy of the world state. Roots are computed lazily
// and cached per layer and per account storage until the next mutation.
//
// A State is not safe for concurrent use. Owners are expected to serialise access.
package state
