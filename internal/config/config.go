// Package config holds the persistent defaults of the launcher: values a
// user sets once instead of repeating them on every key binding.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/open-dynaMIX/raiseorlaunch/internal/logger"
)

// Config are the file-backed defaults. Command line flags override them.
type Config struct {
	// EventTimeLimit is the default listening window in seconds after a
	// launch, when a mark, scratchpad or target workspace is requested.
	EventTimeLimit float64 `json:"event_time_limit" yaml:"event_time_limit"`
	// IgnoreCase makes criteria matching case-insensitive by default.
	IgnoreCase bool   `json:"ignore_case" yaml:"ignore_case"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
	PrettyLog  bool   `json:"pretty_log" yaml:"pretty_log"`
}

// Manager handles loading and saving the configuration file.
type Manager struct {
	configPath string
	config     *Config
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		EventTimeLimit: 2,
		IgnoreCase:     false,
		LogLevel:       "warn",
		PrettyLog:      true,
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "raiseorlaunch", "config.yaml"), nil
}

// NewManager creates a manager for the given config file, or the default
// location when empty. A missing file is not an error; the built-in
// defaults apply.
func NewManager(configFile string) (*Manager, error) {
	path := configFile
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	m := &Manager{configPath: path}
	if err := m.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		m.config = Defaults()
		log := logger.WithComponent("config")
		log.Debug().
			Str("path", path).
			Msg("config file not found, using defaults")
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	m.config = cfg
	log := logger.WithComponent("config")
	log.Debug().
		Str("path", m.configPath).
		Msg("config loaded")
	return nil
}

// Get returns the loaded configuration.
func (m *Manager) Get() *Config {
	return m.config
}

// Save writes the configuration back to disk, creating the directory if
// needed.
func (m *Manager) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GetConfigPath returns the path of the configuration file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}
