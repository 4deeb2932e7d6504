// Package store holds the published record snapshot. A load commits its
// result here only after the whole pipeline succeeded, and only if no
// newer load has committed in the meantime, so readers never observe a
// partial or order-inconsistent record sequence.
package store

import (
	"sync"
	"time"

	"github.com/luizfelipehx/vales-analytics/internal/models"
)

// Snapshot is one fully-loaded record sequence plus its provenance.
type Snapshot struct {
	Records   []models.VoucherRecord
	SheetName string
	Source    string
	LoadedAt  time.Time
}

// SnapshotStore publishes snapshots atomically. Loads are identified by a
// monotonically increasing sequence; a stale load (sequence older than the
// last committed one) is rejected at commit time.
type SnapshotStore struct {
	mu        sync.RWMutex
	seq       uint64
	committed uint64
	current   *Snapshot
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Begin allocates the sequence number for a new load. Call it before the
// fetch starts so that a later-started load always supersedes an earlier
// one regardless of completion order.
func (s *SnapshotStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Commit publishes the snapshot for the given load sequence. It returns
// false without touching the published state when a newer load has already
// committed.
func (s *SnapshotStore) Commit(seq uint64, snap *Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.committed {
		return false
	}
	s.committed = seq
	s.current = snap
	return true
}

// Current returns the published snapshot, or nil when nothing has loaded
// yet. The returned snapshot is shared and must be treated as read-only.
func (s *SnapshotStore) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
