package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"taskcal/internal/storage"
	"taskcal/internal/task"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "taskcal.db"
	appDir                = "taskcal"
)

type Keymap struct {
	Quit            string `toml:"quit"`
	Add             string `toml:"add"`
	Up              string `toml:"up"`
	Down            string `toml:"down"`
	Left            string `toml:"left"`
	Right           string `toml:"right"`
	Toggle          string `toml:"toggle"`
	Delete          string `toml:"delete"`
	Edit            string `toml:"edit"`
	Confirm         string `toml:"confirm"`
	Cancel          string `toml:"cancel"`
	NextField       string `toml:"next_field"`
	FilterAll       string `toml:"filter_all"`
	FilterActive    string `toml:"filter_active"`
	FilterCompleted string `toml:"filter_completed"`
	ClearCompleted  string `toml:"clear_completed"`
	Calendar        string `toml:"calendar"`
}

type Config struct {
	Backend       string `toml:"backend"`
	StorePath     string `toml:"store_path"`
	StorageKey    string `toml:"storage_key"`
	DefaultFilter string `toml:"default_filter"`
	LogPath       string `toml:"log_path"`
	Keys          Keymap `toml:"keys"`
}

// ResolveConfigPath returns $XDG_CONFIG_HOME/taskcal/config.toml, falling back
// to ~/.config and finally the working directory.
func ResolveConfigPath() string {
	return filepath.Join(configDir(), DefaultConfigFileName)
}

func configDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appDir)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDir)
	}
	return "."
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	cfg.StorePath = ""
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.StorePath == "" {
		cfg.StorePath = defaultStorePath(filepath.Dir(path), cfg.Backend)
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = task.DefaultKey
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.Backend {
	case "", storage.BackendSQLite, storage.BackendJSON, storage.BackendMemory:
	default:
		return fmt.Errorf("backend %q: %w", c.Backend, storage.ErrUnknownBackend)
	}
	if _, err := task.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	return nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultStorePath(dir, backend string) string {
	if backend == storage.BackendJSON {
		return filepath.Join(dir, "data")
	}
	return filepath.Join(dir, DefaultDBName)
}

func defaultConfig(dir string) Config {
	return Config{
		Backend:       storage.BackendSQLite,
		StorePath:     defaultStorePath(dir, storage.BackendSQLite),
		StorageKey:    task.DefaultKey,
		DefaultFilter: "all",
		Keys:          DefaultKeymap(),
	}
}

func DefaultKeymap() Keymap {
	return Keymap{
		Quit:            "q",
		Add:             "a",
		Up:              "k",
		Down:            "j",
		Left:            "h",
		Right:           "l",
		Toggle:          " ",
		Delete:          "d",
		Edit:            "e",
		Confirm:         "enter",
		Cancel:          "esc",
		NextField:       "tab",
		FilterAll:       "1",
		FilterActive:    "2",
		FilterCompleted: "3",
		ClearCompleted:  "c",
		Calendar:        "C",
	}
}
