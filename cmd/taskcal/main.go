package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"taskcal/internal/config"
	"taskcal/internal/storage"
	"taskcal/internal/task"
	"taskcal/internal/ui"
)

var Version = "dev"

type app struct {
	configPath string
	ephemeral  bool

	cfg     config.Config
	log     *slog.Logger
	logFile io.Closer
	backend storage.Backend
	store   *task.Store
}

func main() {
	a := &app{}
	err := a.rootCmd().Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskcal",
		Short:         "Track tasks with due dates on a month calendar",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ui.Run(a.store, a.cfg, a.log)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.ResolveConfigPath(), "path to config.toml")
	cmd.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "keep tasks in memory only for this session")

	cmd.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.doneCmd(),
		a.editCmd(),
		a.rmCmd(),
		a.clearCmd(),
		a.calCmd(),
		a.exportCmd(),
	)
	return cmd
}

func (a *app) open() error {
	cfg, err := config.LoadOrCreate(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	log, closer, err := openLogger(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	a.log, a.logFile = log, closer

	kind, path := cfg.Backend, cfg.StorePath
	if a.ephemeral {
		kind = storage.BackendMemory
	}
	backend, err := storage.Open(kind, path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	a.backend = backend

	store, err := task.Open(backend, cfg.StorageKey, task.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	a.store = store
	log.Info("session started", "backend", kind, "path", path)
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.backend != nil {
		errs = append(errs, a.backend.Close())
	}
	if a.logFile != nil {
		errs = append(errs, a.logFile.Close())
	}
	return errors.Join(errs...)
}

// openLogger writes JSON lines to path. With no path, logs are discarded since
// the TUI owns the terminal.
func openLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewJSONHandler(f, nil)), f, nil
}
