package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/interview-assistant-team/interview-assistant/internal/usecase/live"
)

// MemorySnapshotStore keeps live snapshots in process memory. Drop-in
// replacement for the Redis-backed store in tests and single-node
// development setups without Redis.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[uuid.UUID]*memorySnapshot
}

type memorySnapshot struct {
	snapshot live.Snapshot
	expireAt time.Time
}

// NewMemorySnapshotStore creates an in-memory snapshot store with the
// given entry TTL
func NewMemorySnapshotStore(ttl time.Duration) *MemorySnapshotStore {
	store := &MemorySnapshotStore{
		ttl:   ttl,
		items: make(map[uuid.UUID]*memorySnapshot),
	}

	// Expired sessions are swept in the background so the map never grows
	// past the set of recently active interviews
	go store.cleanupExpired()

	return store
}

// SetSnapshot stores the latest snapshot, replacing any previous one
func (ms *MemorySnapshotStore) SetSnapshot(_ context.Context, interviewID uuid.UUID, snapshot live.Snapshot) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[interviewID] = &memorySnapshot{
		snapshot: snapshot,
		expireAt: time.Now().Add(ms.ttl),
	}
	return nil
}

// GetSnapshot returns the latest snapshot, or nil when none exists or the
// entry has expired
func (ms *MemorySnapshotStore) GetSnapshot(_ context.Context, interviewID uuid.UUID) (*live.Snapshot, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[interviewID]
	if !exists || time.Now().After(item.expireAt) {
		return nil, nil
	}

	snapshot := item.snapshot
	return &snapshot, nil
}

// cleanupExpired periodically removes expired snapshots
func (ms *MemorySnapshotStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for id, item := range ms.items {
			if now.After(item.expireAt) {
				delete(ms.items, id)
			}
		}
		ms.mu.Unlock()
	}
}
