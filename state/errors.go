// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/devnet-tools/layerstate/devchain"
)

// ErrCannotRevert is returned when there's no checkpoint below the current layer.
var ErrCannotRevert = errors.New("state: no checkpoint to revert to")

// InvalidCodeHashError is returned when a code hash has no code in the current layer.
type InvalidCodeHashError struct {
	Hash devchain.Bytes32
}

func (e *InvalidCodeHashError) Error() string {
	return fmt.Sprintf("state: invalid code hash %v", e.Hash)
}

// InvalidStateRootError is returned when restoring to a root without snapshot.
type InvalidStateRootError struct {
	Root devchain.Bytes32
}

func (e *InvalidStateRootError) Error() string {
	return fmt.Sprintf("state: unknown snapshot %v", e.Root)
}

// IsInvalidCodeHash returns whether the error is caused by an invalid code hash.
func IsInvalidCodeHash(err error) bool {
	var target *InvalidCodeHashError
	return errors.As(err, &target)
}

// IsInvalidStateRoot returns whether the error is caused by an unknown snapshot root.
func IsInvalidStateRoot(err error) bool {
	var target *InvalidStateRootError
	return errors.As(err, &target)
}
