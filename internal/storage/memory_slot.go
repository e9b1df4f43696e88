package storage

import "context"

type MemorySlot struct {
	entries map[string]string
	writes  int
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{entries: make(map[string]string)}
}

func (m *MemorySlot) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemorySlot) Set(_ context.Context, key, value string) error {
	m.entries[key] = value
	m.writes++
	return nil
}

func (m *MemorySlot) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func (m *MemorySlot) Close() error { return nil }

// Writes counts successful Set calls.
func (m *MemorySlot) Writes() int { return m.writes }
