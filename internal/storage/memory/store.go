// Package memory provides the in-memory keyspace for kvlite.
package memory

import (
	"math"
	"sync"
	"sync/atomic"
)

// entry is one stored value with an optional absolute expiry.
type entry struct {
	value    string
	expires  bool
	expireAt int64 // ms since epoch, meaningful only when expires is set
}

// expired reports whether e is no longer visible at now.
func (e entry) expired(now int64) bool {
	return e.expires && now >= e.expireAt
}

// deadline returns now+ttlMillis, saturating at math.MaxInt64.
func deadline(now int64, ttlMillis uint64) int64 {
	if ttlMillis >= math.MaxInt64 || now > math.MaxInt64-int64(ttlMillis) {
		return math.MaxInt64
	}
	return now + int64(ttlMillis)
}

type options struct {
	clock Clock
}

// Option configures a store.
type Option func(*options)

// WithClock sets the time source used for expiry. Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = SystemClock{}
	}
	return o
}

// Store is a key-value map guarded by a single mutex.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   Clock

	expired atomic.Uint64
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	o := buildOptions(opts)
	return &Store{
		entries: make(map[string]entry),
		clock:   o.clock,
	}
}

// Get returns the value stored under key.
// An entry found expired is removed and reported as absent.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if e.expired(s.clock.NowMilli()) {
		delete(s.entries, key)
		s.expired.Add(1)
		return "", false
	}
	return e.value, true
}

// Set stores value under key with no expiry, replacing any previous entry
// and its expiry.
func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value}
}

// SetWithTTL stores value under key, expiring ttlMillis after now.
func (s *Store) SetWithTTL(key, value string, ttlMillis uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:    value,
		expires:  true,
		expireAt: deadline(s.clock.NowMilli(), ttlMillis),
	}
}

// Remove deletes key and reports whether a live entry was removed.
func (s *Store) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return false
	}
	delete(s.entries, key)
	if e.expired(s.clock.NowMilli()) {
		s.expired.Add(1)
		return false
	}
	return true
}

// Len returns the number of entries held, including expired entries that
// have not been read since they expired.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Expired returns how many entries have been dropped on access after expiring.
func (s *Store) Expired() uint64 {
	return s.expired.Load()
}
