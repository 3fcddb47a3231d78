package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fwbids/internal/config"
	"fwbids/internal/flywheel"
	"fwbids/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// newLogger builds the run logger, honouring --verbose over the configured
// level.
func (c *commandContext) newLogger(cfg *config.Config, verbose bool) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	return logger, nil
}

// newClient validates the config and connects to the remote service.
func (c *commandContext) newClient(cfg *config.Config) (*flywheel.HTTPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Flywheel.TimeoutSeconds) * time.Second
	client, err := flywheel.New(cfg.Flywheel.APIKey, cfg.Flywheel.BaseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("create flywheel client: %w", err)
	}
	return client, nil
}
