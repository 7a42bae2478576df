// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layerstack

import (
	"iter"

	"github.com/pkg/errors"
)

// ErrInvalidLayerIndex is returned when a layer index is out of the stack range.
var ErrInvalidLayerIndex = errors.New("invalid layer index")

// Layer defines the methods a stacked value must provide.
type Layer[L any] interface {
	// Copy returns a deep copy of the layer.
	Copy() L
	// New returns an empty layer of the same kind.
	New() L
}

// Stack maintains layers in a stack.
// Index 0 is the oldest layer, the top one is the current writable layer.
// It acts as undo history with checkpoint-revert manner and never becomes empty.
type Stack[L Layer[L]] struct {
	layers []L
}

// WithBase creates a stack holding the base layer only.
func WithBase[L Layer[L]](base L) *Stack[L] {
	return &Stack[L]{layers: []L{base}}
}

// Depth returns depth of stack.
func (s *Stack[L]) Depth() int {
	return len(s.layers)
}

// TopIndex returns index of the top layer.
func (s *Stack[L]) TopIndex() int {
	return len(s.layers) - 1
}

// Top returns the layer at top of stack.
func (s *Stack[L]) Top() L {
	return s.layers[len(s.layers)-1]
}

// Push pushes a layer on stack and returns its index.
func (s *Stack[L]) Push(layer L) int {
	s.layers = append(s.layers, layer)
	return len(s.layers) - 1
}

// PushDefault pushes an empty layer on stack and returns its index.
func (s *Stack[L]) PushDefault() int {
	return s.Push(s.Top().New())
}

// TruncateTo removes all layers above index, making the layer at index the top one.
func (s *Stack[L]) TruncateTo(index int) error {
	if index < 0 || index >= len(s.layers) {
		return errors.WithMessagef(ErrInvalidLayerIndex, "index %d, depth %d", index, len(s.layers))
	}
	clear(s.layers[index+1:])
	s.layers = s.layers[:index+1]
	return nil
}

// All returns a sequence of layers from the newest to the oldest, paired with their indexes.
func (s *Stack[L]) All() iter.Seq2[int, L] {
	return func(yield func(int, L) bool) {
		for i := len(s.layers) - 1; i >= 0; i-- {
			if !yield(i, s.layers[i]) {
				return
			}
		}
	}
}

// Copy returns a deep copy of the stack.
func (s *Stack[L]) Copy() *Stack[L] {
	layers := make([]L, len(s.layers))
	for i, layer := range s.layers {
		layers[i] = layer.Copy()
	}
	return &Stack[L]{layers: layers}
}
