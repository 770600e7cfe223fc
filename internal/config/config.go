// Package config loads planloom settings from defaults, TOML files and the
// environment. CLI flags are applied last by the caller.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAddr            = ":7272"
	DefaultMaxTasks        = 5000
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultServerURL       = "http://localhost:7272"
	DefaultMaxRetries      = 3
	DefaultClientTimeout   = 15 * time.Second

	// FileName is the project config file; a dot-prefixed variant is also read.
	FileName = "planloom.toml"
)

// Config is the full planloom configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Client ClientConfig `toml:"client"`
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	// MaxTasks caps the number of tasks accepted in one request.
	MaxTasks int `toml:"max_tasks"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text, json
}

// ClientConfig controls the CLI when it talks to a remote server.
type ClientConfig struct {
	ServerURL  string        `toml:"server_url"`
	MaxRetries int           `toml:"max_retries"`
	Timeout    time.Duration `toml:"timeout"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxTasks:        DefaultMaxTasks,
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Client: ClientConfig{
			ServerURL:  DefaultServerURL,
			MaxRetries: DefaultMaxRetries,
			Timeout:    DefaultClientTimeout,
		},
	}
}

// Load builds the configuration in priority order:
// 1. Defaults
// 2. User config file ($XDG_CONFIG_HOME/planloom/planloom.toml)
// 3. Project config file (planloom.toml or .planloom.toml), or explicitPath if set
// 4. Environment variables
//
// The result is not validated; callers apply flag overrides first and then
// call Validate.
func Load(explicitPath string) (*Config, error) {
	cfg := Default()

	if path := userConfigFile(); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	projectFile := explicitPath
	if projectFile == "" {
		projectFile = findProjectConfigFile(".")
	}
	if projectFile != "" {
		if err := loadFile(cfg, projectFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", projectFile, err)
		}
	}

	if err := loadFromEnv(cfg, os.Getenv); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	return cfg, nil
}

// loadFile overlays the keys present in a TOML file onto cfg.
func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "planloom", FileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func findProjectConfigFile(dir string) string {
	for _, name := range []string{FileName, "." + FileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadFromEnv overrides config from PLANLOOM_* variables.
func loadFromEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("PLANLOOM_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("PLANLOOM_MAX_TASKS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PLANLOOM_MAX_TASKS: %w", err)
		}
		cfg.Server.MaxTasks = n
	}
	if v := getenv("PLANLOOM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("PLANLOOM_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv("PLANLOOM_SERVER_URL"); v != "" {
		cfg.Client.ServerURL = v
	}
	return nil
}

// Validate rejects settings the rest of the program cannot honor.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	if c.Server.MaxTasks < 1 {
		return fmt.Errorf("config: server.max_tasks must be positive, got %d", c.Server.MaxTasks)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is empty")
	}
	if c.Client.MaxRetries < 0 {
		return fmt.Errorf("config: client.max_retries must not be negative")
	}
	return nil
}
