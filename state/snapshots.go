// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/devnet-tools/layerstate/devchain"
	"github.com/devnet-tools/layerstate/layerstack"
)

type layers = layerstack.Stack[*Layer]

// snapshotRegistry keeps full copies of the layer stack keyed by state root.
type snapshotRegistry interface {
	get(root devchain.Bytes32) (*layers, bool)
	add(root devchain.Bytes32, stack *layers)
	remove(root devchain.Bytes32) bool
	len() int
}

func newSnapshotRegistry(maxSnapshots int) snapshotRegistry {
	if maxSnapshots <= 0 {
		// entries never expire
		return make(snapshotMap)
	}
	return newSnapshotLRU(maxSnapshots)
}

type snapshotMap map[devchain.Bytes32]*layers

func (m snapshotMap) get(root devchain.Bytes32) (*layers, bool) {
	s, ok := m[root]
	return s, ok
}

func (m snapshotMap) add(root devchain.Bytes32, stack *layers) {
	m[root] = stack
}

func (m snapshotMap) remove(root devchain.Bytes32) bool {
	_, ok := m[root]
	delete(m, root)
	return ok
}

func (m snapshotMap) len() int {
	return len(m)
}

// snapshotLRU bounds the count of snapshots, evicting the least recently used one.
type snapshotLRU struct {
	cache    *lru.Cache
	removing bool
}

func newSnapshotLRU(size int) *snapshotLRU {
	s := &snapshotLRU{}
	cache, err := lru.NewWithEvict(size, func(key, _ interface{}) {
		if !s.removing {
			logger.Warn("snapshot evicted", "root", key.(devchain.Bytes32).AbbrevString(), "limit", size)
			metricSnapshotEvicted().Add(1)
		}
	})
	if err != nil {
		panic(err)
	}
	s.cache = cache
	return s
}

func (s *snapshotLRU) get(root devchain.Bytes32) (*layers, bool) {
	v, ok := s.cache.Get(root)
	if !ok {
		return nil, false
	}
	return v.(*layers), true
}

func (s *snapshotLRU) add(root devchain.Bytes32, stack *layers) {
	s.cache.Add(root, stack)
}

func (s *snapshotLRU) remove(root devchain.Bytes32) bool {
	if !s.cache.Contains(root) {
		return false
	}
	s.removing = true
	s.cache.Remove(root)
	s.removing = false
	return true
}

func (s *snapshotLRU) len() int {
	return s.cache.Len()
}
