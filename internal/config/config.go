// Package config resolves runtime settings. Later sources win: built-in
// defaults, then the YAML file, then TODO_* environment variables, then
// command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultStorageKey       = "todos"
	defaultInputErrorFlash  = 500 * time.Millisecond
	defaultRemoveTransition = 400 * time.Millisecond
)

var ErrInvalidConfig = errors.New("config: invalid runtime config")

type RuntimeConfig struct {
	StorageBackend   string
	StoragePath      string
	StorageKey       string
	LogPath          string
	LogLevel         string
	InputErrorFlash  time.Duration
	RemoveTransition time.Duration
}

// fileConfig is the on-disk YAML shape. Durations are milliseconds.
type fileConfig struct {
	Storage struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"`
		Key     string `yaml:"key"`
	} `yaml:"storage"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	UI struct {
		InputErrorFlashMS  int `yaml:"input_error_flash_ms"`
		RemoveTransitionMS int `yaml:"remove_transition_ms"`
	} `yaml:"ui"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		StorageBackend:   "sqlite",
		StoragePath:      defaultDataPath("todo.db"),
		StorageKey:       defaultStorageKey,
		LogLevel:         "info",
		InputErrorFlash:  defaultInputErrorFlash,
		RemoveTransition: defaultRemoveTransition,
	}
}

// DefaultConfigPath is where LoadFile looks when no --config flag is given.
func DefaultConfigPath() string {
	return defaultDataPath("config.yaml")
}

func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "." + name
	}
	return filepath.Join(dir, "todo", name)
}

// LoadFile overlays the YAML file at path onto base. A missing file is not
// an error.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	cfg := base
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", trimmed, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", trimmed, err)
	}
	if v := strings.TrimSpace(fc.Storage.Backend); v != "" {
		cfg.StorageBackend = v
	}
	if v := strings.TrimSpace(fc.Storage.Path); v != "" {
		cfg.StoragePath = v
	}
	if v := strings.TrimSpace(fc.Storage.Key); v != "" {
		cfg.StorageKey = v
	}
	if v := strings.TrimSpace(fc.Log.File); v != "" {
		cfg.LogPath = v
	}
	if v := strings.TrimSpace(fc.Log.Level); v != "" {
		cfg.LogLevel = v
	}
	if fc.UI.InputErrorFlashMS > 0 {
		cfg.InputErrorFlash = time.Duration(fc.UI.InputErrorFlashMS) * time.Millisecond
	}
	if fc.UI.RemoveTransitionMS > 0 {
		cfg.RemoveTransition = time.Duration(fc.UI.RemoveTransitionMS) * time.Millisecond
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TODO_STORAGE_BACKEND"); ok {
		cfg.StorageBackend = v
	}
	if v, ok := getEnvString("TODO_STORAGE_PATH"); ok {
		cfg.StoragePath = v
	}
	if v, ok := getEnvString("TODO_STORAGE_KEY"); ok {
		cfg.StorageKey = v
	}
	if v, ok := getEnvString("TODO_LOG_FILE"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvString("TODO_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvInt("TODO_INPUT_FLASH_MS"); ok && v > 0 {
		cfg.InputErrorFlash = time.Duration(v) * time.Millisecond
	}
	if v, ok := getEnvInt("TODO_REMOVE_TRANSITION_MS"); ok && v > 0 {
		cfg.RemoveTransition = time.Duration(v) * time.Millisecond
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.StorageBackend)) {
	case "", "sqlite", "file":
		if strings.TrimSpace(c.StoragePath) == "" {
			return fmt.Errorf("%w: storage path is required for %s backend", ErrInvalidConfig, c.StorageBackend)
		}
	case "memory":
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.StorageBackend)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("%w: storage key is required", ErrInvalidConfig)
	}
	if c.InputErrorFlash <= 0 || c.RemoveTransition <= 0 {
		return fmt.Errorf("%w: ui delays must be positive", ErrInvalidConfig)
	}
	return nil
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
