package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// normalize expands paths, applies environment fallbacks, and canonicalizes
// string fields so the rest of the program never re-checks them.
func (c *Config) normalize() error {
	if key := strings.TrimSpace(os.Getenv("FLYWHEEL_API_KEY")); key != "" {
		c.Flywheel.APIKey = key
	}
	c.Flywheel.APIKey = strings.TrimSpace(c.Flywheel.APIKey)
	c.Flywheel.BaseURL = strings.TrimRight(strings.TrimSpace(c.Flywheel.BaseURL), "/")

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	var err error
	if c.Audit.Path, err = expandPath(c.Audit.Path); err != nil {
		return err
	}
	if c.Curate.LockDir, err = expandPath(c.Curate.LockDir); err != nil {
		return err
	}
	return nil
}

// EnsureDirectories creates the state directories the configuration refers to.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Curate.LockDir}
	if c.Audit.Enabled && c.Audit.Path != "" {
		dirs = append(dirs, filepath.Dir(c.Audit.Path))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return trimmed, nil
}
