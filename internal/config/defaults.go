package config

// Default returns the repository default configuration.
func Default() Config {
	return Config{
		Flywheel: Flywheel{
			BaseURL:        "https://upenn.flywheel.io/api",
			TimeoutSeconds: 30,
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Audit: Audit{
			Enabled: false,
			Path:    "~/.local/state/fwbids/audit.db",
		},
		Curate: Curate{
			LockDir: "~/.local/state/fwbids/locks",
		},
	}
}
