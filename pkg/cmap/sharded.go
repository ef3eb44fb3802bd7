// Package cmap provides a concurrent map sharded by key hash.
package cmap

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the shard count used when none (or an invalid one) is given.
const DefaultShardCount = 16

// Map is a concurrent-safe map from string keys to V.
type Map[V any] struct {
	shards    []*shard[V]
	shardMask uint64
}

type shard[V any] struct {
	mu    sync.Mutex
	items map[string]V
}

// NewWithShards creates a map with the given number of shards.
// shardCount must be a power of 2, otherwise DefaultShardCount is used.
func NewWithShards[V any](shardCount int) *Map[V] {
	if !IsValidShardCount(shardCount) {
		shardCount = DefaultShardCount
	}

	m := &Map[V]{
		shards:    make([]*shard[V], shardCount),
		shardMask: uint64(shardCount - 1),
	}
	for i := range m.shards {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

// IsValidShardCount reports whether n can be used as a shard count.
func IsValidShardCount(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func (m *Map[V]) shardFor(key string) *shard[V] {
	return m.shards[murmur3.Sum64([]byte(key))&m.shardMask]
}

// ShardCount returns the number of shards.
func (m *Map[V]) ShardCount() int {
	return len(m.shards)
}

// Set stores value under key, replacing any previous value.
func (m *Map[V]) Set(key string, value V) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// Compute runs fn while holding the lock of key's shard.
//
// fn receives the current value and whether it exists, and returns the
// value to store and whether to keep the key. Returning keep=false removes
// the key (a no-op if it was absent). fn must not call back into the map.
func (m *Map[V]) Compute(key string, fn func(value V, ok bool) (V, bool)) {
	s := m.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[key]
	next, keep := fn(cur, ok)
	if keep {
		s.items[key] = next
		return
	}
	if ok {
		delete(s.items, key)
	}
}

// Count returns the total number of items across all shards.
// Shards are locked one at a time, so the result is not a point-in-time snapshot.
func (m *Map[V]) Count() int {
	n := 0
	for _, s := range m.shards {
		s.mu.Lock()
		n += len(s.items)
		s.mu.Unlock()
	}
	return n
}
