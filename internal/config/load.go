package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvConfig    = "REVERSAAR_CONFIG"
	EnvServer    = "REVERSAAR_SERVER"
	EnvStateDir  = "REVERSAAR_STATE_DIR"
	EnvLogLevel  = "REVERSAAR_LOG_LEVEL"
	EnvLogFormat = "REVERSAAR_LOG_FORMAT"
	EnvTimeout   = "REVERSAAR_TIMEOUT"
)

// Load builds the configuration from defaults, the config file and the
// environment, in that order of increasing precedence. A .env file in the
// working directory is loaded first.
//
// path names the config file; when empty, $REVERSAAR_CONFIG or DefaultPath
// is used and a missing file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath()
	}

	if err := cfg.readFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := env(EnvServer); v != "" {
		c.Server = v
	}
	if v := env(EnvStateDir); v != "" {
		c.StateDir = v
	}
	if v := env(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := env(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := env(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
