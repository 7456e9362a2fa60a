package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskcal/internal/storage"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, storage.BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "nested", DefaultDBName), cfg.StorePath)
	assert.Equal(t, "tasks", cfg.StorageKey)
	assert.Equal(t, "all", cfg.DefaultFilter)
	assert.Equal(t, DefaultKeymap(), cfg.Keys)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadOrCreate_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`
backend = "json"
default_filter = "active"

[keys]
add = "n"
`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Backend)
	assert.Equal(t, "active", cfg.DefaultFilter)
	assert.Equal(t, "n", cfg.Keys.Add)
	assert.Equal(t, "q", cfg.Keys.Quit)
	assert.Equal(t, "tasks", cfg.StorageKey)
}

func TestLoadOrCreate_EmptyStorePathFollowsBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("backend = \"json\"\nstore_path = \"\"\n"), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.StorePath)
}

func TestLoadOrCreate_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":    "backend = ",
		"bad backend": `backend = "postgres"`,
		"bad filter":  `default_filter = "someday"`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultConfigFileName)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			_, err := LoadOrCreate(path)
			assert.Error(t, err)
		})
	}
}

func TestResolveConfigPath_UsesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "taskcal", DefaultConfigFileName), ResolveConfigPath())
}

func TestLoadOrCreate_JSONBackendDefaultsToDataDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`backend = "json"`), 0o644))

	cfg, err := LoadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.StorePath)
}
