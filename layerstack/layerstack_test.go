// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package layerstack_test

import (
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devnet-tools/layerstate/layerstack"
)

type kvLayer struct {
	kvs map[string]string
}

func newKV(kvs map[string]string) *kvLayer {
	if kvs == nil {
		kvs = make(map[string]string)
	}
	return &kvLayer{kvs}
}

func (l *kvLayer) Copy() *kvLayer { return newKV(maps.Clone(l.kvs)) }
func (l *kvLayer) New() *kvLayer  { return newKV(nil) }

func TestStack(t *testing.T) {
	assert := assert.New(t)

	s := layerstack.WithBase(newKV(map[string]string{"foo": "bar"}))

	tests := []struct {
		f        func()
		depth    int
		putKey   string
		putValue string
		getKey   string
		want     string
	}{
		{func() {}, 1, "", "", "foo", "bar"},
		{func() { s.Push(s.Top().Copy()) }, 2, "foo", "baz", "foo", "baz"},
		{func() {}, 2, "foo", "baz1", "foo", "baz1"},
		{func() { s.Push(s.Top().Copy()) }, 3, "foo", "qux", "foo", "qux"},
		{func() { require.NoError(t, s.TruncateTo(1)) }, 2, "", "", "foo", "baz1"},
		{func() { require.NoError(t, s.TruncateTo(0)) }, 1, "", "", "foo", "bar"},
		{func() { s.PushDefault() }, 2, "", "", "foo", ""},
		{func() { require.NoError(t, s.TruncateTo(0)) }, 1, "", "", "foo", "bar"},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(test.depth, s.Depth())
		assert.Equal(test.depth-1, s.TopIndex())
		if test.putKey != "" {
			s.Top().kvs[test.putKey] = test.putValue
		}
		if test.getKey != "" {
			assert.Equal(test.want, s.Top().kvs[test.getKey])
		}
	}
}

func TestStackTruncateOutOfRange(t *testing.T) {
	s := layerstack.WithBase(newKV(nil))
	s.PushDefault()

	for _, index := range []int{-1, 2, 10} {
		err := s.TruncateTo(index)
		assert.True(t, errors.Is(err, layerstack.ErrInvalidLayerIndex), "index %d", index)
	}
	assert.Equal(t, 2, s.Depth(), "failed truncation must not touch the stack")
}

func TestStackPushIndex(t *testing.T) {
	s := layerstack.WithBase(newKV(nil))
	assert.Equal(t, 1, s.Push(newKV(nil)))
	assert.Equal(t, 2, s.PushDefault())
}

func TestStackAll(t *testing.T) {
	s := layerstack.WithBase(newKV(map[string]string{"n": "0"}))
	s.Push(newKV(map[string]string{"n": "1"}))
	s.Push(newKV(map[string]string{"n": "2"}))

	var got []string
	for i, layer := range s.All() {
		assert.Equal(t, layer.kvs["n"], string(rune('0'+i)))
		got = append(got, layer.kvs["n"])
	}
	assert.Equal(t, []string{"2", "1", "0"}, got)

	// restartable and stoppable
	got = got[:0]
	for _, layer := range s.All() {
		got = append(got, layer.kvs["n"])
		break
	}
	assert.Equal(t, []string{"2"}, got)
}

func TestStackCopy(t *testing.T) {
	s := layerstack.WithBase(newKV(map[string]string{"a": "1"}))
	s.Push(s.Top().Copy())

	cpy := s.Copy()
	s.Top().kvs["a"] = "2"
	require.NoError(t, s.TruncateTo(0))

	assert.Equal(t, 2, cpy.Depth())
	assert.Equal(t, "1", cpy.Top().kvs["a"])
	assert.Equal(t, 1, s.Depth())
}
