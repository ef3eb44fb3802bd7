package cmap

import (
	"fmt"
	"sync"
	"testing"
)

// lookup reads key through Compute without changing the map.
func lookup[V any](m *Map[V], key string) (V, bool) {
	var (
		v     V
		found bool
	)
	m.Compute(key, func(cur V, ok bool) (V, bool) {
		v, found = cur, ok
		return cur, ok
	})
	return v, found
}

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{0, DefaultShardCount},
		{-1, DefaultShardCount},
		{3, DefaultShardCount},
		{1, 1},
		{2, 2},
		{8, 8},
		{32, 32},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("shards=%d", tt.input), func(t *testing.T) {
			m := NewWithShards[int](tt.input)
			if m.ShardCount() != tt.expected {
				t.Errorf("NewWithShards(%d) shard count = %d, want %d",
					tt.input, m.ShardCount(), tt.expected)
			}
		})
	}
}

func TestSetOverwrite(t *testing.T) {
	m := NewWithShards[int](DefaultShardCount)

	m.Set("key1", 100)
	m.Set("key2", 200)
	m.Set("key1", 300)

	if v, ok := lookup(m, "key1"); !ok || v != 300 {
		t.Errorf("key1 = (%d, %v), want (300, true)", v, ok)
	}
	if v, ok := lookup(m, "nonexistent"); ok {
		t.Errorf("nonexistent = (%d, %v), want (0, false)", v, ok)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestCompute(t *testing.T) {
	m := NewWithShards[int](DefaultShardCount)

	// Insert through Compute.
	m.Compute("counter", func(v int, ok bool) (int, bool) {
		if ok {
			t.Error("counter should not exist yet")
		}
		return 1, true
	})
	m.Compute("counter", func(v int, ok bool) (int, bool) {
		return v + 1, true
	})
	if v, _ := lookup(m, "counter"); v != 2 {
		t.Errorf("counter = %d, want 2", v)
	}

	// keep=false removes the key.
	m.Compute("counter", func(v int, ok bool) (int, bool) {
		return 0, false
	})
	if _, ok := lookup(m, "counter"); ok {
		t.Error("counter should be removed")
	}

	// keep=false on an absent key is a no-op.
	m.Compute("absent", func(v int, ok bool) (int, bool) {
		return 0, false
	})
	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}
}

func TestCount_AcrossShards(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("k%d", i), i)
	}
	if m.Count() != 10 {
		t.Errorf("Count() = %d, want 10", m.Count())
	}
}

func TestConcurrentCompute(t *testing.T) {
	m := NewWithShards[int](8)
	var wg sync.WaitGroup
	const goroutines, ops = 50, 200

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < ops; j++ {
				m.Compute(fmt.Sprintf("k%d", j%10), func(v int, _ bool) (int, bool) {
					return v + 1, true
				})
			}
		}()
	}
	wg.Wait()

	total := 0
	for j := 0; j < 10; j++ {
		v, _ := lookup(m, fmt.Sprintf("k%d", j))
		total += v
	}
	if total != goroutines*ops {
		t.Errorf("total = %d, want %d", total, goroutines*ops)
	}
}
