// Package cmap provides a concurrent map sharded by key hash.
//
// Keys are strings and are routed to one of a power-of-two number of
// shards by their murmur3 hash. Each shard owns a plain map guarded by
// its own mutex, so operations on keys in different shards never contend.
//
// Usage:
//
//	m := cmap.NewWithShards[entry](32)
//	m.Set("key", e)
//	m.Compute("key", func(cur entry, ok bool) (entry, bool) {
//		return cur, ok && !cur.expired(now)
//	})
//
// Compute runs a read-modify-write step under the shard lock and is the
// building block for operations that must be atomic per key, such as
// reading an entry and dropping it once it has expired.
package cmap
