package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Slot is a durable string key-value store. A missing key is reported with
// ok=false and a nil error.
type Slot interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the slot for backend. SQLite slots are migrated before use.
func Open(ctx context.Context, backend, path string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSQLite, "":
		slot, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := MigrateUp(ctx, slot.db); err != nil {
			_ = slot.Close()
			return nil, fmt.Errorf("migrate %s: %w", path, err)
		}
		return slot, nil
	case BackendFile:
		return NewFileSlot(path)
	case BackendMemory:
		return NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
