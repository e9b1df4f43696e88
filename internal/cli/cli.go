// Package cli wires configuration, storage and logging into the todo
// command: the interactive list by default, plus one-shot subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/logging"
	"github.com/sandeepkv93/todo/internal/model"
	"github.com/sandeepkv93/todo/internal/storage"
	"github.com/sandeepkv93/todo/internal/store"
	"github.com/sandeepkv93/todo/internal/update"
	"github.com/sandeepkv93/todo/internal/views"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	backend    string
	path       string
	key        string
	logFile    string
	logLevel   string
}

// runProgram starts the interactive list. Tests replace it.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func NewRootCommand(stdout io.Writer) *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "A small terminal task list",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, flags, func(s *session) error {
				m := update.NewModel(s.tasks, update.Options{
					Persister:        s.adapter,
					Logger:           s.logger,
					InputErrorFlash:  s.cfg.InputErrorFlash,
					RemoveTransition: s.cfg.RemoveTransition,
				})
				return runProgram(m)
			})
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to the YAML config file")
	pf.StringVar(&flags.backend, "storage", "", "Storage backend: sqlite, file or memory")
	pf.StringVar(&flags.path, "path", "", "Path of the storage database or file")
	pf.StringVar(&flags.key, "key", "", "Storage key holding the task list")
	pf.StringVar(&flags.logFile, "log-file", "", "Write JSON logs to this file")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(
		newAddCmd(stdout, flags),
		newListCmd(stdout, flags),
		newToggleCmd(stdout, flags),
		newRemoveCmd(stdout, flags),
		newClearCompletedCmd(stdout, flags),
	)
	return cmd
}

func newAddCmd(stdout io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to the top of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(s *session) error {
				task, err := s.tasks.Add(strings.Join(args, " "))
				if err != nil {
					return err
				}
				if err := s.save(); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "added %d  %s\n", task.ID, views.EscapeText(task.Text))
				return nil
			})
		},
	}
}

func newListCmd(stdout io.Writer, flags *globalFlags) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the tasks matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				vm := views.Project(views.ProjectInput{Tasks: s.tasks.Tasks(), Filter: f})
				_, _ = fmt.Fprintln(stdout, views.RenderPlain(vm))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(model.FilterAll), "Filter: all, active or completed")
	return cmd
}

func newToggleCmd(stdout io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				if !s.tasks.Toggle(id) {
					_, _ = fmt.Fprintf(stdout, "no task with id %d\n", id)
					return nil
				}
				if err := s.save(); err != nil {
					return err
				}
				task, _ := s.tasks.Get(id)
				state := "active"
				if task.Completed {
					state = "completed"
				}
				_, _ = fmt.Fprintf(stdout, "%d is now %s\n", id, state)
				return nil
			})
		},
	}
}

func newRemoveCmd(stdout io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(s *session) error {
				if !s.tasks.Remove(id) {
					_, _ = fmt.Fprintf(stdout, "no task with id %d\n", id)
					return nil
				}
				if err := s.save(); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "removed %d\n", id)
				return nil
			})
		},
	}
}

func newClearCompletedCmd(stdout io.Writer, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd, flags, func(s *session) error {
				n := s.tasks.ClearCompleted()
				if n == 0 {
					_, _ = fmt.Fprintln(stdout, "no completed tasks")
					return nil
				}
				if err := s.save(); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(stdout, "cleared %d\n", n)
				return nil
			})
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q: %w", raw, model.ErrInvalidID)
	}
	return id, nil
}

type session struct {
	ctx     context.Context
	cfg     config.RuntimeConfig
	logger  *slog.Logger
	slot    storage.Slot
	adapter *storage.Adapter
	tasks   *store.Store
}

func (s *session) save() error {
	return s.adapter.Save(s.ctx, s.tasks.Tasks())
}

// withSession resolves configuration, opens logging and storage, loads the
// list and hands it to fn. Everything opened here is closed on return.
func withSession(cmd *cobra.Command, flags *globalFlags, fn func(*session) error) (err error) {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logCloser.Close()
	}()

	ctx := cmd.Context()
	slot, err := storage.Open(ctx, cfg.StorageBackend, cfg.StoragePath)
	if err != nil {
		logger.Error("open storage failed", "backend", cfg.StorageBackend, "path", cfg.StoragePath, "err", err)
		return err
	}
	defer func() {
		if cerr := slot.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	adapter := storage.NewAdapter(slot, cfg.StorageKey, logger)
	s := &session{
		ctx:     ctx,
		cfg:     cfg,
		logger:  logger,
		slot:    slot,
		adapter: adapter,
		tasks:   store.New(adapter.Load(ctx)),
	}
	logger.Debug("session opened", "command", cmd.Name(), "backend", cfg.StorageBackend, "tasks", s.tasks.Len())
	return fn(s)
}

// resolveConfig applies defaults, then the YAML file, then the environment,
// then any flags that were set explicitly.
func resolveConfig(cmd *cobra.Command, flags *globalFlags) (config.RuntimeConfig, error) {
	path := flags.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFile(path, config.DefaultRuntimeConfig())
	if err != nil {
		return config.RuntimeConfig{}, err
	}
	cfg = config.RuntimeConfigFromEnv(cfg)

	changed := cmd.Flags().Changed
	if changed("storage") {
		cfg.StorageBackend = flags.backend
	}
	if changed("path") {
		cfg.StoragePath = flags.path
	}
	if changed("key") {
		cfg.StorageKey = flags.key
	}
	if changed("log-file") {
		cfg.LogPath = flags.logFile
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.RuntimeConfig{}, err
	}
	return cfg, nil
}
