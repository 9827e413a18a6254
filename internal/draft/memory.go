package draft

import "sync"

// MemoryStore holds the snapshot in process memory. Used in tests and as a
// fallback when no database is configured.
type MemoryStore struct { // implements Store
	mu       sync.Mutex
	snapshot *Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(snapshot Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = &snapshot
}

func (m *MemoryStore) Load() (*Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return nil, false
	}
	s := *m.snapshot
	return &s, true
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
}
