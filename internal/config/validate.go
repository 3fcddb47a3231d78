package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable for commands that reach the
// remote service.
func (c *Config) Validate() error {
	if err := c.validateFlywheel(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFlywheel() error {
	if c.Flywheel.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/fwbids/config.toml"
		}
		return fmt.Errorf("flywheel.api_key is required. Set FLYWHEEL_API_KEY or edit %s (create with 'fwbids config init')", defaultPath)
	}
	if c.Flywheel.BaseURL == "" {
		return errors.New("flywheel.base_url must be set")
	}
	if c.Flywheel.TimeoutSeconds < 0 {
		return errors.New("flywheel.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateAudit() error {
	if c.Audit.Enabled && strings.TrimSpace(c.Audit.Path) == "" {
		return errors.New("audit.path must be set when audit.enabled is true")
	}
	return nil
}
