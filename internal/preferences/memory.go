package preferences

import (
	"context"
	"sync"

	"github.com/chrissnell/muadhin/pkg/prayertimes"
)

type memoryKey struct {
	location string
	prayer   prayertimes.Prayer
}

// MemoryStore keeps flags in process memory; they are lost on restart
type MemoryStore struct {
	mu    sync.RWMutex
	flags map[memoryKey]bool
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[memoryKey]bool)}
}

func (m *MemoryStore) Enabled(_ context.Context, location string, p prayertimes.Prayer) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.flags[memoryKey{location, p}]
	return v || !ok, nil
}

func (m *MemoryStore) SetEnabled(_ context.Context, location string, p prayertimes.Prayer, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flags[memoryKey{location, p}] = enabled
	return nil
}

func (m *MemoryStore) List(_ context.Context, location string) (map[prayertimes.Prayer]bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := make(map[prayertimes.Prayer]bool)
	for k, v := range m.flags {
		if k.location == location {
			stored[k.prayer] = v
		}
	}
	return withDefaults(stored), nil
}

func (m *MemoryStore) Close() error { return nil }
