package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/nixbug/entebus-server/internal/pkg/logging"
)

// These tests replace the default logger, so they do not run in parallel.

func TestSetupLogger_Text(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	logging.SetupLogger("development", "warn", &out)

	slog.Info("hidden")
	slog.Warn("shown", "key", "value")

	got := out.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("out = %q, want no info records", got)
	}

	if !strings.Contains(got, "msg=shown") || !strings.Contains(got, "key=value") {
		t.Errorf("out = %q, want text record with msg=shown key=value", got)
	}
}

func TestSetupLogger_Sinks(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out, sink bytes.Buffer
	logging.SetupLogger("production", "info", &out, &sink)

	slog.With("component", "test").Info("shipped")

	for name, buf := range map[string]*bytes.Buffer{"out": &out, "sink": &sink} {
		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("json.Unmarshal(%s) = %v, want: nil", name, err)
		}

		if rec["msg"] != "shipped" || rec["component"] != "test" {
			t.Errorf("%s record = %v, want msg=shipped component=test", name, rec)
		}
	}
}
