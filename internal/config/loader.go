package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/agentwire/agentwire/internal/compactor"
)

const (
	// ConfigDir is the default config directory name.
	ConfigDir = ".agentwire"
	// ConfigFile is the default config file name.
	ConfigFile = "config.json"
)

// ConfigPath returns the path to the config file. AGENTWIRE_CONFIG overrides
// the file location, AGENTWIRE_HOME the base directory; both accept a
// leading "~".
func ConfigPath() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("AGENTWIRE_CONFIG")); explicit != "" {
		return expandHome(explicit)
	}
	home, err := resolveHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDir, ConfigFile), nil
}

func resolveHomeDir() (string, error) {
	if h := strings.TrimSpace(os.Getenv("AGENTWIRE_HOME")); h != "" {
		return expandHome(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	base, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, path[1:]), nil
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	home, _ := resolveHomeDir()
	return &Config{
		Paths: PathsConfig{
			DataDir: filepath.Join(home, ConfigDir),
		},
		Gateway: GatewayConfig{
			Host: "127.0.0.1",
			Port: 8087,
		},
		Store: StoreConfig{
			DBFile:     "conversations.db",
			Workers:    4,
			QueueDepth: 256,
		},
		Compaction: compactor.DefaultConfig(),
	}
}

// Load reads the config file (if present), overlays environment variables,
// and fills defaults. A missing file is not an error; an unreadable or
// malformed one is.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// First run; defaults plus environment only.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	envconfig.Process("AGENTWIRE_PATHS", &cfg.Paths)
	envconfig.Process("AGENTWIRE_GATEWAY", &cfg.Gateway)
	envconfig.Process("AGENTWIRE_STORE", &cfg.Store)
	envconfig.Process("AGENTWIRE_COMPACTION", &cfg.Compaction)
	envconfig.Process("AGENTWIRE_RELAY", &cfg.Relay)

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = def.Paths.DataDir
	}
	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = def.Gateway.Host
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = def.Gateway.Port
	}
	if cfg.Store.DBFile == "" {
		cfg.Store.DBFile = def.Store.DBFile
	}
	if cfg.Store.Workers <= 0 {
		cfg.Store.Workers = def.Store.Workers
	}
	if cfg.Store.QueueDepth <= 0 {
		cfg.Store.QueueDepth = def.Store.QueueDepth
	}
}

// DBPath returns the absolute path of the conversation database.
func (c *Config) DBPath() string {
	if filepath.IsAbs(c.Store.DBFile) {
		return c.Store.DBFile
	}
	return filepath.Join(c.Paths.DataDir, c.Store.DBFile)
}
