package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/todo/internal/model"
)

const DefaultKey = "todos"

// Adapter reads and writes the whole task list as one blob under a fixed
// key. It is the only place that knows the persisted layout.
type Adapter struct {
	slot   Slot
	key    string
	logger *slog.Logger
}

func NewAdapter(slot Slot, key string, logger *slog.Logger) *Adapter {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{slot: slot, key: key, logger: logger}
}

func (a *Adapter) Key() string { return a.key }

// Load never fails: a missing, unreadable or corrupt snapshot yields an
// empty list and a warning in the log.
func (a *Adapter) Load(ctx context.Context) []model.Task {
	raw, ok, err := a.slot.Get(ctx, a.key)
	if err != nil {
		a.logger.Warn("read task snapshot failed", "key", a.key, "err", err)
		return []model.Task{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []model.Task{}
	}
	tasks, skipped, err := DecodeTasks([]byte(raw))
	if err != nil {
		a.logger.Warn("discarding corrupt task snapshot", "key", a.key, "err", err)
		return []model.Task{}
	}
	for _, s := range skipped {
		a.logger.Warn("skipping invalid task record", "key", a.key, "index", s.Index, "reason", s.Reason)
	}
	a.logger.Debug("task snapshot loaded", "key", a.key, "tasks", len(tasks))
	return tasks
}

func (a *Adapter) Save(ctx context.Context, tasks []model.Task) error {
	payload, err := EncodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := a.slot.Set(ctx, a.key, string(payload)); err != nil {
		a.logger.Error("write task snapshot failed", "key", a.key, "err", err)
		return fmt.Errorf("write %s: %w", a.key, err)
	}
	a.logger.Debug("task snapshot saved", "key", a.key, "tasks", len(tasks))
	return nil
}
