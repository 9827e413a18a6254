package blob

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

const memoryURLPrefix = "memory://"

// MemoryStore keeps blobs in process memory. Used in tests and when no
// object storage is configured.
type MemoryStore struct { // implements Store
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

func (m *MemoryStore) Upload(ctx context.Context, path string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[path] = buf

	return memoryURLPrefix + path, nil
}

func (m *MemoryStore) Delete(ctx context.Context, url string) error {
	key := strings.TrimPrefix(url, memoryURLPrefix)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("object not found: %s", key)
	}
	delete(m.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
