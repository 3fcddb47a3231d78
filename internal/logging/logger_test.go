package logging_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"fwbids/internal/logging"
)

func TestConsoleHandlerIncludesComponentPrefixAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger = logging.WithComponent(logger, "curator")
	logger.Info("resolved project", logging.String(logging.FieldProject, "Study A"))

	line := buf.String()
	if !strings.Contains(line, "INFO curator: resolved project") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, `project="Study A"`) {
		t.Fatalf("expected quoted project attr in %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestJSONFormatAndLevelParsing(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("probe")
	if !strings.Contains(buf.String(), `"msg":"probe"`) {
		t.Fatalf("expected json payload, got %q", buf.String())
	}

	if got := logging.ParseLevel("ERROR"); got != slog.LevelError {
		t.Fatalf("ParseLevel(ERROR) = %v", got)
	}
	if got := logging.ParseLevel("bogus"); got != slog.LevelInfo {
		t.Fatalf("ParseLevel(bogus) = %v", got)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
