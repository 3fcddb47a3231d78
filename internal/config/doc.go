// Package config loads, normalizes, and validates fwbids configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// FLYWHEEL_API_KEY. The Config type centralizes every knob the CLI needs, so
// downstream code receives sanitized paths and clear validation errors.
package config
