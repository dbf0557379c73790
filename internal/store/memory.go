package store

import (
	"context"
	"slices"
	"sync"
)

type memoryNamespace struct {
	records map[string][]byte
	order   []string
	seeded  bool
}

// MemoryBackend keeps everything in process memory
type MemoryBackend struct {
	mu         sync.RWMutex
	namespaces map[string]*memoryNamespace
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{namespaces: make(map[string]*memoryNamespace)}
}

// namespace must be called with mu held for writing
func (m *MemoryBackend) namespace(ns string) *memoryNamespace {
	n, ok := m.namespaces[ns]
	if !ok {
		n = &memoryNamespace{records: make(map[string][]byte)}
		m.namespaces[ns] = n
	}
	return n
}

func (m *MemoryBackend) Get(_ context.Context, ns, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.namespaces[ns]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := n.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

func (m *MemoryBackend) Put(_ context.Context, ns, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.namespace(ns)
	if _, ok := n.records[id]; !ok {
		n.order = append(n.order, id)
	}
	n.records[id] = slices.Clone(data)
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, ns, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.namespaces[ns]
	if !ok {
		return false, nil
	}
	if _, ok := n.records[id]; !ok {
		return false, nil
	}
	delete(n.records, id)
	n.order = slices.DeleteFunc(n.order, func(s string) bool { return s == id })
	return true, nil
}

func (m *MemoryBackend) IDs(_ context.Context, ns string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.namespaces[ns]
	if !ok {
		return []string{}, nil
	}
	return slices.Clone(n.order), nil
}

func (m *MemoryBackend) Exists(_ context.Context, ns, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.namespaces[ns]
	if !ok {
		return false, nil
	}
	_, ok = n.records[id]
	return ok, nil
}

func (m *MemoryBackend) Count(_ context.Context, ns string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.namespaces[ns]
	if !ok {
		return 0, nil
	}
	return len(n.order), nil
}

func (m *MemoryBackend) MarkSeeded(_ context.Context, ns string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.namespace(ns)
	if n.seeded {
		return false, nil
	}
	n.seeded = true
	return true, nil
}

func (m *MemoryBackend) UnmarkSeeded(_ context.Context, ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.namespace(ns).seeded = false
	return nil
}

func (m *MemoryBackend) Close() error { return nil }
