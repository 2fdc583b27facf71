package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/pthm/reversaar/internal/observability"
)

// Validate checks the configuration.
//
// Ensures:
//   - server is an absolute http or https URL
//   - state_dir is non-empty
//   - timeout is not negative
//   - log.level and log.format are known
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("invalid server %q: %w", c.Server, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid server %q: must be an http or https URL", c.Server)
	}
	if c.StateDir == "" {
		return errors.New("state_dir must be set")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if _, err := observability.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	if !observability.ValidFormat(c.Log.Format) {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}
