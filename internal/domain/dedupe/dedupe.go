// Package dedupe tracks identifiers already seen within one aggregation cycle.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen keys so repeated records are dropped.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// inMemoryDeduper implements Deduper with a mutex-guarded set.
// A new deduper is created per cycle, so the set never needs eviction.
type inMemoryDeduper struct {
	mu           sync.Mutex
	seen         map[string]struct{}
	expectedSize int
	size         atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.expectedSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Unique keeps the first element for every key and returns how many were dropped.
func Unique[T any](ctx context.Context, d Deduper, in []T, key func(T) string) ([]T, int) {
	out := make([]T, 0, len(in))
	dropped := 0
	for _, v := range in {
		if d.SeenAndRecord(ctx, key(v)) {
			dropped++
			continue
		}
		out = append(out, v)
	}
	return out, dropped
}
