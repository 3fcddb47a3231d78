// Package logging assembles the structured slog loggers used across fwbids.
//
// It owns the console and JSON handlers, centralizes level parsing, and
// exposes attr helpers so curation code tags log lines with the same keys
// everywhere (component, run id, project, destination key). A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
