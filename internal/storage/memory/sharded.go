package memory

import (
	"sync/atomic"

	"github.com/yndnr/kvlite-go/pkg/cmap"
)

// ShardedStore spreads keys over independently locked shards.
// It offers the same operations as Store; each is atomic for its key.
type ShardedStore struct {
	m     *cmap.Map[entry]
	clock Clock

	expired atomic.Uint64
}

// NewSharded creates a ShardedStore with the given shard count.
// An invalid count (not a power of two) falls back to cmap.DefaultShardCount.
func NewSharded(shards int, opts ...Option) *ShardedStore {
	o := buildOptions(opts)
	return &ShardedStore{
		m:     cmap.NewWithShards[entry](shards),
		clock: o.clock,
	}
}

// Get returns the value stored under key, removing it if it has expired.
func (s *ShardedStore) Get(key string) (string, bool) {
	var (
		value string
		found bool
	)
	s.m.Compute(key, func(e entry, ok bool) (entry, bool) {
		if !ok {
			return e, false
		}
		if e.expired(s.clock.NowMilli()) {
			s.expired.Add(1)
			return e, false
		}
		value, found = e.value, true
		return e, true
	})
	return value, found
}

// Set stores value under key with no expiry.
func (s *ShardedStore) Set(key, value string) {
	s.m.Set(key, entry{value: value})
}

// SetWithTTL stores value under key, expiring ttlMillis after now.
func (s *ShardedStore) SetWithTTL(key, value string, ttlMillis uint64) {
	s.m.Compute(key, func(entry, bool) (entry, bool) {
		return entry{
			value:    value,
			expires:  true,
			expireAt: deadline(s.clock.NowMilli(), ttlMillis),
		}, true
	})
}

// Remove deletes key and reports whether a live entry was removed.
func (s *ShardedStore) Remove(key string) bool {
	removed := false
	s.m.Compute(key, func(e entry, ok bool) (entry, bool) {
		if !ok {
			return e, false
		}
		if e.expired(s.clock.NowMilli()) {
			s.expired.Add(1)
		} else {
			removed = true
		}
		return e, false
	})
	return removed
}

// Len returns the number of entries held across all shards.
func (s *ShardedStore) Len() int {
	return s.m.Count()
}

// Expired returns how many entries have been dropped on access after expiring.
func (s *ShardedStore) Expired() uint64 {
	return s.expired.Load()
}

// Shards returns the shard count in use.
func (s *ShardedStore) Shards() int {
	return s.m.ShardCount()
}
