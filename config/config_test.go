package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Environment(t *testing.T) {
	t.Setenv("OSABRIDGE_EXECUTOR_COMMAND", "/usr/local/bin/osahelper")
	t.Setenv("OSABRIDGE_APP_NAME", "Finder")
	t.Setenv("OSABRIDGE_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Executor.Command != "/usr/local/bin/osahelper" {
		t.Errorf("command not read: %q", cfg.Executor.Command)
	}
	if cfg.App.Name != "Finder" {
		t.Errorf("app name not read: %q", cfg.App.Name)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level not read: %q", cfg.Logging.Level)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Development {
		t.Error("expected development off by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "osabridge.yaml")
	body := `
executor:
  command: osahelper
  args: ["--verbose"]
app:
  name: Mail
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file failed: %v", err)
	}
	if cfg.Executor.Command != "osahelper" {
		t.Errorf("command not parsed: %q", cfg.Executor.Command)
	}
	if len(cfg.Executor.Args) != 1 || cfg.Executor.Args[0] != "--verbose" {
		t.Errorf("args not parsed: %v", cfg.Executor.Args)
	}
	if cfg.App.Name != "Mail" {
		t.Errorf("app name not parsed: %q", cfg.App.Name)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level not parsed: %q", cfg.Logging.Level)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
