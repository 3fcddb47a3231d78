// Package testsupport provides shared helpers for package tests: a config
// builder seeded with temp directories and a fake Flywheel client that can
// trip the test on unexpected remote writes.
package testsupport

import (
	"path/filepath"
	"testing"

	"fwbids/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Flywheel.APIKey = "test-key"
	cfg.Flywheel.BaseURL = "http://127.0.0.1:0/api"
	cfg.Audit.Path = filepath.Join(base, "audit.db")
	cfg.Curate.LockDir = filepath.Join(base, "locks")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAuditEnabled turns on the audit store for the test config.
func WithAuditEnabled() ConfigOption {
	return func(cfg *config.Config) {
		cfg.Audit.Enabled = true
	}
}
