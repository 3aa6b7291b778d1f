package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if cfg.StorageKey != want.StorageKey {
		t.Errorf("expected storage key %s, got %s", want.StorageKey, cfg.StorageKey)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.Dir != ".kanban" {
		t.Errorf("unexpected storage defaults: %#v", cfg.Storage)
	}
	if cfg.Web.Addr != ":8000" {
		t.Errorf("expected :8000, got %s", cfg.Web.Addr)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage_key: my-board
storage:
  backend: redis
  redis:
    url: redis://localhost:6379/2
    prefix: "me:"
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorageKey != "my-board" {
		t.Errorf("expected my-board, got %s", cfg.StorageKey)
	}
	if cfg.Storage.Backend != "redis" || cfg.Storage.Redis.URL != "redis://localhost:6379/2" || cfg.Storage.Redis.Prefix != "me:" {
		t.Errorf("unexpected storage config: %#v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug, got %s", cfg.Log.Level)
	}
	// Keys not in the file keep their defaults.
	if cfg.Log.Format != "text" || cfg.Web.Addr != ":8000" {
		t.Errorf("expected defaults for unset keys, got %#v %#v", cfg.Log, cfg.Web)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KANBAN_STORAGE_BACKEND", "sqlite")
	t.Setenv("KANBAN_STORAGE_SQLITE_PATH", "/tmp/board.db")
	t.Setenv("KANBAN_WEB_ADDR", ":9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLite != "/tmp/board.db" {
		t.Errorf("expected env overrides, got %#v", cfg.Storage)
	}
	if cfg.Web.Addr != ":9999" {
		t.Errorf("expected :9999, got %s", cfg.Web.Addr)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("KANBAN_STORAGE_KEY=from-dotenv\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("KANBAN_STORAGE_KEY") })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorageKey != "from-dotenv" {
		t.Errorf("expected key from .env, got %s", cfg.StorageKey)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestWriteDefaultLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".kanban", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != "file" || cfg.StorageKey != "kanban-board" {
		t.Errorf("unexpected config from starter file: %#v", cfg)
	}
}

func TestStoreOptions(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "aztables"
	cfg.Storage.Azure.ConnectionString = "UseDevelopmentStorage=true"

	opts := cfg.StoreOptions()
	if opts.Backend != "aztables" || opts.AzureConnectionString != "UseDevelopmentStorage=true" || opts.AzureTable != "kanban" {
		t.Errorf("unexpected options %#v", opts)
	}
	if opts.Path != cfg.Storage.SQLite || opts.Dir != cfg.Storage.Dir {
		t.Errorf("expected paths carried over, got %#v", opts)
	}
}
