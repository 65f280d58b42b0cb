package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/clip-trimmer/host"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(EnvConfigFile, "")
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogFormat, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvMpvSocket, "")
	t.Setenv(EnvAddr, "")
	t.Setenv(EnvStepSize, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
}

func TestNew_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.MpvSocket != DefaultMpvSocket {
		t.Errorf("MpvSocket = %q", cfg.MpvSocket)
	}
	if cfg.StepSize != DefaultStepSize {
		t.Errorf("StepSize = %v", cfg.StepSize)
	}
	if cfg.DoubleClickWindow() != 400*time.Millisecond {
		t.Errorf("DoubleClickWindow = %v", cfg.DoubleClickWindow())
	}
	if filepath.Base(cfg.DBPath()) != DBFilename {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
}

func TestNew_FileThenEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`log_level: debug
addr: 127.0.0.1:9999
step_size: 0.5
double_click_ms: 250
theme:
  base: dark
  primary_color: "#123456"
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvAddr, "127.0.0.1:7000")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Addr != "127.0.0.1:7000" {
		t.Errorf("Addr = %q, env should win", cfg.Addr)
	}
	if cfg.StepSize != 0.5 || cfg.DoubleClickWindow() != 250*time.Millisecond {
		t.Errorf("StepSize=%v DoubleClick=%v", cfg.StepSize, cfg.DoubleClickWindow())
	}
	theme := cfg.ThemeOr(host.Args{})
	if theme.Base != "dark" || theme.PrimaryColor != "#123456" {
		t.Errorf("theme = %+v", theme)
	}
	if theme.TextColor != host.DefaultTheme().TextColor {
		t.Errorf("theme not completed from defaults: %+v", theme)
	}

	hostTheme := &host.Theme{Base: "light", PrimaryColor: "#ABCDEF"}
	if got := cfg.ThemeOr(host.Args{Theme: hostTheme}); got.PrimaryColor != "#ABCDEF" {
		t.Errorf("host theme should win, got %+v", got)
	}
}

func TestNew_MissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv(EnvConfigFile, filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := New(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestNew_InvalidStep(t *testing.T) {
	isolate(t)
	for _, v := range []string{"abc", "0", "-1"} {
		t.Setenv(EnvStepSize, v)
		if _, err := New(); err == nil {
			t.Errorf("%s=%q: expected error", EnvStepSize, v)
		}
	}
}
