package audit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Log(Event{Timestamp: time.Unix(0, 0).UTC(), Category: "tool", Name: "records.query", Outcome: "success"})
	logger.Log(Event{Timestamp: time.Unix(1, 0).UTC(), Category: "tool", Name: "records.create", Outcome: "error", Error: "boom"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(lines))
	}
	var event Event
	if err := json.Unmarshal([]byte(lines[1]), &event); err != nil {
		t.Fatalf("invalid JSON line: %v", err)
	}
	if event.Name != "records.create" || event.Error != "boom" {
		t.Fatalf("unexpected event: %#v", event)
	}
}

func TestLoggerNilWriter(t *testing.T) {
	logger := NewLogger(nil)
	logger.Log(Event{Name: "noop"})
}
