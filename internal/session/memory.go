package session

import (
	"context"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Used for tests and
// throwaway deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]Snapshot)}
}

// Name returns the backend name.
func (*MemoryStore) Name() string { return BackendMemory }

// Load returns a copy of the saved snapshot for id.
func (s *MemoryStore) Load(_ context.Context, id string) (Snapshot, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snaps[id].Clone(), nil
}

// Save replaces the snapshot for id.
func (s *MemoryStore) Save(_ context.Context, id string, snap Snapshot) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[id] = snap.Persistable()
	return nil
}

// Delete forgets id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.snaps, id)
	return nil
}

// Ping always succeeds.
func (*MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (*MemoryStore) Close() error { return nil }
