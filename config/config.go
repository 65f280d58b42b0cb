// Package config provides configuration for clip-trimmer.
// Defaults are overridden by an optional YAML file, then by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/clip-trimmer/host"
)

const (
	// Default values
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultAddr          = "127.0.0.1:8790"
	DefaultMpvSocket     = "/tmp/clip-trimmer-mpv.sock"
	DefaultStepSize      = 1.0
	DefaultDoubleClickMS = 400
	DefaultDataDirName   = "clip-trimmer"

	// Environment variable names
	EnvConfigFile = "CLIP_TRIMMER_CONFIG"
	EnvLogLevel   = "CLIP_TRIMMER_LOG_LEVEL"
	EnvLogFormat  = "CLIP_TRIMMER_LOG_FORMAT"
	EnvDataDir    = "CLIP_TRIMMER_DATA_DIR"
	EnvMpvSocket  = "CLIP_TRIMMER_MPV_SOCKET"
	EnvAddr       = "CLIP_TRIMMER_ADDR"
	EnvStepSize   = "CLIP_TRIMMER_STEP"

	// DBFilename is the task store inside the data directory.
	DBFilename = "trims.db"
)

// Config holds the runtime settings.
type Config struct {
	LogLevel      string      `yaml:"log_level"`
	LogFormat     string      `yaml:"log_format"`
	DataDir       string      `yaml:"data_dir"`
	MpvSocket     string      `yaml:"mpv_socket"`
	Addr          string      `yaml:"addr"`
	StepSize      float64     `yaml:"step_size"`
	DoubleClickMS int         `yaml:"double_click_ms"`
	Theme         *host.Theme `yaml:"theme"`
}

// New builds the configuration from defaults, the config file and the environment.
func New() (*Config, error) {
	cfg := &Config{
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		DataDir:       defaultDataDir(),
		MpvSocket:     DefaultMpvSocket,
		Addr:          DefaultAddr,
		StepSize:      DefaultStepSize,
		DoubleClickMS: DefaultDoubleClickMS,
	}

	path := os.Getenv(EnvConfigFile)
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvMpvSocket); v != "" {
		c.MpvSocket = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvStepSize); v != "" {
		step, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvStepSize, err)
		}
		if step <= 0 {
			return fmt.Errorf("invalid %s: step must be positive", EnvStepSize)
		}
		c.StepSize = step
	}
	return nil
}

// DBPath returns the full path to the SQLite task store.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFilename)
}

// ThumbnailDir returns where pre-rendered thumbnails for a video are written.
func (c *Config) ThumbnailDir(videoPath string) string {
	base := filepath.Base(videoPath)
	return filepath.Join(c.DataDir, "thumbnails", base)
}

// DoubleClickWindow is the maximum gap between two presses on the same marker.
func (c *Config) DoubleClickWindow() time.Duration {
	if c.DoubleClickMS <= 0 {
		return DefaultDoubleClickMS * time.Millisecond
	}
	return time.Duration(c.DoubleClickMS) * time.Millisecond
}

// ThemeOr returns the configured theme, or the host-supplied one when set.
func (c *Config) ThemeOr(args host.Args) host.Theme {
	if args.Theme == nil && c != nil && c.Theme != nil {
		args.Theme = c.Theme
	}
	return args.ThemeOrDefault()
}

// defaultDataDir returns ~/.local/share/clip-trimmer.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDirName
	}
	return filepath.Join(home, ".local", "share", DefaultDataDirName)
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, DefaultDataDirName, "config.yaml")
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)
