package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSlot keeps every key in one JSON object on disk. Writes go through a
// temp file and a rename so a crash never leaves a half-written file.
type FileSlot struct {
	path string
}

func NewFileSlot(path string) (*FileSlot, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: file slot path is required")
	}
	return &FileSlot{path: trimmed}, nil
}

func (f *FileSlot) Close() error { return nil }

func (f *FileSlot) Get(_ context.Context, key string) (string, bool, error) {
	entries, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := entries[key]
	return value, ok, nil
}

func (f *FileSlot) Set(_ context.Context, key, value string) error {
	entries, err := f.readForWrite()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.write(entries)
}

func (f *FileSlot) Delete(_ context.Context, key string) error {
	entries, err := f.readForWrite()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.write(entries)
}

func (f *FileSlot) read() (map[string]string, error) {
	out := make(map[string]string)
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode slot file %s: %w", f.path, err)
	}
	return out, nil
}

// readForWrite is read for mutators. An undecodable file is moved aside to
// CorruptPath and writing starts over from an empty map.
func (f *FileSlot) readForWrite() (map[string]string, error) {
	entries, err := f.read()
	if err == nil {
		return entries, nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
		return nil, err
	}
	if err := os.Rename(f.path, f.CorruptPath()); err != nil {
		return nil, fmt.Errorf("move corrupt slot file aside: %w", err)
	}
	return make(map[string]string), nil
}

// CorruptPath is where an undecodable slot file is kept once it is replaced.
func (f *FileSlot) CorruptPath() string {
	return f.path + ".corrupt"
}

func (f *FileSlot) write(entries map[string]string) error {
	dir := filepath.Dir(f.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}
