// Package memory provides the in-memory keyspace for kvlite.
//
// Two implementations share one capability set (Get, Set, SetWithTTL,
// Remove):
//
//   - Store: one map guarded by one mutex. Every operation, including
//     reading the clock, holds the lock for its whole duration.
//   - ShardedStore: keys spread over power-of-two shards (pkg/cmap), each
//     with its own mutex. Operations are atomic per key.
//
// Expiration is lazy. An entry whose expiry is at or before the current
// time is removed by the Get that observes it; nothing sweeps in the
// background.
//
// Time comes from an injected Clock so TTL behavior can be tested without
// sleeping.
package memory
