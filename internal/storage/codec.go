package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/todo/internal/model"
)

// createdAtLayout mirrors JavaScript's Date.toISOString.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrMalformedSnapshot = errors.New("storage: malformed task snapshot")

// SkippedRecord describes an entry dropped while decoding.
type SkippedRecord struct {
	Index  int
	Reason string
}

func EncodeTasks(tasks []model.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, taskRecord{
			ID:        json.Number(strconv.FormatInt(t.ID, 10)),
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UTC().Format(createdAtLayout),
		})
	}
	return json.Marshal(records)
}

// DecodeTasks parses a snapshot. A value that is not a JSON array fails with
// ErrMalformedSnapshot. Entries with a bad id, blank text or a repeated id
// are dropped and reported; an unreadable createdAt keeps the entry with a
// zero timestamp.
func DecodeTasks(raw []byte) ([]model.Task, []SkippedRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil, fmt.Errorf("%w: not a JSON array", ErrMalformedSnapshot)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	tasks := make([]model.Task, 0, len(entries))
	var skipped []SkippedRecord
	seen := make(map[int64]bool, len(entries))
	for i, entry := range entries {
		task, err := decodeRecord(entry)
		if err != nil {
			skipped = append(skipped, SkippedRecord{Index: i, Reason: err.Error()})
			continue
		}
		if seen[task.ID] {
			skipped = append(skipped, SkippedRecord{Index: i, Reason: fmt.Sprintf("duplicate id %d", task.ID)})
			continue
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}
	return tasks, skipped, nil
}

func decodeRecord(entry json.RawMessage) (model.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	var rec taskRecord
	if err := dec.Decode(&rec); err != nil {
		return model.Task{}, err
	}
	id, err := strconv.ParseInt(rec.ID.String(), 10, 64)
	if err != nil {
		return model.Task{}, fmt.Errorf("invalid id %q", rec.ID.String())
	}
	task := model.Task{
		ID:        id,
		Text:      strings.TrimSpace(rec.Text),
		Completed: rec.Completed,
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if created, parseErr := time.Parse(time.RFC3339Nano, rec.CreatedAt); parseErr == nil {
		task.CreatedAt = created.UTC()
	}
	return task, nil
}
