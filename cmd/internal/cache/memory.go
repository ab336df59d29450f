package cache

import (
	"sync"
)

type Memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	opts    options
}

func NewMemory(opts ...Option) *Memory {
	return &Memory{
		entries: make(map[string]*Entry),
		opts:    newOptions(opts),
	}
}

func (m *Memory) Get(key string) (*Entry, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}

	if m.opts.expired(entry.StoredAt) {
		m.mu.Lock()
		// Another writer may have refreshed the key meanwhile
		if current, ok := m.entries[key]; ok && m.opts.expired(current.StoredAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, nil
	}
	return entry, nil
}

// Set stores the entry, stamping StoredAt with the current time when unset.
func (m *Memory) Set(key string, entry *Entry) error {
	if entry.StoredAt == 0 {
		entry.StoredAt = m.opts.now()
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	m.entries = make(map[string]*Entry)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Sweep() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if m.opts.expired(entry.StoredAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed, nil
}

func (m *Memory) Len() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}
