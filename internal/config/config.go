package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the CLI configuration.
type Config struct {
	Server   string        `yaml:"server"`
	StateDir string        `yaml:"state_dir"`
	Timeout  time.Duration `yaml:"timeout"`
	Log      LogConfig     `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:   "http://localhost:7331",
		StateDir: defaultDir(),
		Timeout:  30 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath is the config file read when none is named.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".reversaar"
	}
	return filepath.Join(dir, "reversaar")
}
