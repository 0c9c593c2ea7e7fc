// Package repository holds the latest aggregation snapshot and a short cycle history.
package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/pactum/internal/domain/risk"
	"github.com/okian/pactum/internal/domain/types"
)

const defaultHistorySize = 20

// CycleSummary is the compact record of a stored cycle.
type CycleSummary struct {
	CycleID     string      `json:"cycleId"`
	CompletedAt time.Time   `json:"completedAt"`
	State       types.State `json:"state"`
	DurationMS  float64     `json:"durationMs"`
	Counts      risk.Counts `json:"counts"`
	Warnings    int         `json:"warnings"`
}

// Store provides read/write access to the latest snapshot.
type Store interface {
	// Put replaces the current snapshot wholesale.
	Put(ctx context.Context, s *types.Snapshot) error
	// Latest returns the current snapshot or ErrNoSnapshot.
	Latest(ctx context.Context) (*types.Snapshot, error)
	// History returns summaries of recent cycles, newest first.
	History(ctx context.Context) []CycleSummary
	// Count returns the number of snapshots stored since start.
	Count(ctx context.Context) int64
}

// SnapshotStore is an in-memory Store. Readers never block writers and always
// observe a complete snapshot.
type SnapshotStore struct {
	current atomic.Pointer[types.Snapshot]
	stored  atomic.Int64

	mu          sync.Mutex
	history     []CycleSummary
	historySize int
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{historySize: defaultHistorySize}
	for _, opt := range opts {
		opt(s)
	}
	s.history = make([]CycleSummary, 0, s.historySize)
	return s
}

func (s *SnapshotStore) Put(_ context.Context, snap *types.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	s.current.Store(snap)
	s.stored.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	summary := CycleSummary{
		CycleID:     snap.CycleID,
		CompletedAt: snap.CompletedAt,
		State:       snap.State,
		DurationMS:  float64(snap.Duration().Microseconds()) / 1000,
		Counts:      snap.Counts,
		Warnings:    len(snap.Warnings),
	}
	if len(s.history) == s.historySize {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, summary)
	return nil
}

func (s *SnapshotStore) Latest(_ context.Context) (*types.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func (s *SnapshotStore) History(_ context.Context) []CycleSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CycleSummary, len(s.history))
	for i, h := range s.history {
		out[len(s.history)-1-i] = h
	}
	return out
}

func (s *SnapshotStore) Count(_ context.Context) int64 {
	return s.stored.Load()
}
