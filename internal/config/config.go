package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Store selects the persistence backend for the task list.
type Store struct {
	Backend string `toml:"backend"`
}

// Network contains configuration for network classification.
type Network struct {
	Detector         string   `toml:"detector"`
	HomeInterfaces   []string `toml:"home_interfaces"`
	SimulateSchedule string   `toml:"simulate_schedule"`
	Seed             int64    `toml:"seed"`
}

// Notifications contains configuration for reminder delivery.
type Notifications struct {
	Channel          string `toml:"channel"`
	DeliveryDelayMS  int    `toml:"delivery_delay_ms"`
	NtfyTopic        string `toml:"ntfy_topic"`
	RequestTimeout   int    `toml:"request_timeout"`
	TelegramToken    string `toml:"telegram_token"`
	TelegramChatID   int64  `toml:"telegram_chat_id"`
	DueCheckSchedule string `toml:"due_check_schedule"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for netdo.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Store: task persistence backend (sqlite or memory)
//   - Network: detector strategy, home interfaces, simulation schedule
//   - Notifications: delivery channel, delivery delay, ntfy/Telegram settings
//   - Logging: log format, level, and archive retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Store         Store         `toml:"store"`
	Network       Network       `toml:"network"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("netdo.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the SQLite database location.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.DataDir, "netdo.db")
}

// LockPath returns the watch daemon lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "netdo.lock")
}

// DeliveryDelay returns the simulated delivery delay as a duration.
func (c *Config) DeliveryDelay() time.Duration {
	return time.Duration(c.Notifications.DeliveryDelayMS) * time.Millisecond
}

// RequestTimeout returns the HTTP timeout used by remote delivery channels.
func (c *Config) RequestTimeout() time.Duration {
	timeout := time.Duration(c.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultRequestTimeout * time.Second
	}
	return timeout
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
