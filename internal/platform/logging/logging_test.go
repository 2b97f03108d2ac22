package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestSetupJSONRespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(buf, "WARN", "json")
	logger.Info("hidden")
	logger.Warn("state recovered", "path", "quiz-state.json")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	entry := map[string]any{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["msg"] != "state recovered" || entry["path"] != "quiz-state.json" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestSetupFallsBackToTextInfo(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(buf, "verbose", "xml")
	logger.Debug("hidden")
	logger.Info("shown")
	if !strings.Contains(buf.String(), "msg=shown") || strings.Contains(buf.String(), "hidden") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
