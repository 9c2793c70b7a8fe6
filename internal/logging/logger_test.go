package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
)

// =============================================================================
// Logger construction
// =============================================================================

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"trace", slog.LevelInfo},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := parseLevel(tc.input); got != tc.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "text", "JSON", "", "invalid"} {
		t.Run(format, func(t *testing.T) {
			if NewLogger(format, "info", false) == nil {
				t.Error("NewLogger returned nil")
			}
		})
	}
}

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter(&buf, "json", "info").Info("session_started", "samples", 10)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["msg"] != "session_started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["samples"] != float64(10) {
		t.Errorf("samples = %v", entry["samples"])
	}
}

func TestNewLoggerWithWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter(&buf, "text", "info").Info("test message", "key", "value")

	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("Expected key=value in output, got: %s", buf.String())
	}
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "text", "warn")

	logger.Debug("debug msg")
	logger.Info("info msg")
	logger.Warn("warn msg")

	output := buf.String()
	if strings.Contains(output, "debug msg") || strings.Contains(output, "info msg") {
		t.Errorf("warn-level logger leaked lower levels: %s", output)
	}
	if !strings.Contains(output, "warn msg") {
		t.Errorf("missing warn entry: %s", output)
	}
}

func TestNewLoggerWithWriter_NilWriter(t *testing.T) {
	logger := NewLoggerWithWriter(nil, "json", "info")
	logger.Info("dropped")
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Discard logger should not be enabled below error")
	}
}

func TestSetDefault(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewLoggerWithWriter(&buf, "text", "info"))
	slog.Info("via default")

	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger not replaced: %s", buf.String())
	}
}

// =============================================================================
// SessionLogger
// =============================================================================

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func messages(entries []map[string]any) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i], _ = e["msg"].(string)
	}
	return out
}

func TestSessionLogger_StallEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewSessionLogger(NewLoggerWithWriter(&buf, "json", "info"), "session_id", "abc")

	records := []playback.Record{
		{Timestamp: 0, BitrateKbps: 500, Stalled: true},
		{Timestamp: 1, BitrateKbps: 500, Stalled: true},
		{Timestamp: 2, BitrateKbps: 750, BufferLevelSecs: 0.6, Switch: true},
		{Timestamp: 3, BitrateKbps: 500, BufferLevelSecs: 0.2, Switch: true, Stalled: true},
	}
	for _, r := range records {
		l.OnRecord(r)
	}

	got := messages(decodeEntries(t, &buf))
	want := []string{"segment_stalled", "playback_resumed", "segment_stalled"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("messages = %v, want %v", got, want)
	}
	if l.StallEvents() != 2 {
		t.Errorf("StallEvents() = %d, want 2", l.StallEvents())
	}
}

func TestSessionLogger_CarriesAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := NewSessionLogger(NewLoggerWithWriter(&buf, "json", "info"), "session_id", "abc", "strategy", "buffer")

	l.Started(playback.DefaultSessionConfig(), 10)
	l.Completed(qoe.Score{FinalScore: 50, AverageBitrate: 1000})

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e["session_id"] != "abc" || e["strategy"] != "buffer" {
			t.Errorf("entry missing session attrs: %v", e)
		}
	}
	if entries[0]["msg"] != "session_started" || entries[0]["samples"] != float64(10) {
		t.Errorf("started entry = %v", entries[0])
	}
	if entries[1]["msg"] != "session_completed" || entries[1]["score"] != float64(50) {
		t.Errorf("completed entry = %v", entries[1])
	}
}

func TestSessionLogger_DebugSwitches(t *testing.T) {
	var buf bytes.Buffer
	l := NewSessionLogger(NewLoggerWithWriter(&buf, "json", "debug"))

	l.OnRecord(playback.Record{Timestamp: 0, BitrateKbps: 1000, BufferLevelSecs: 1})
	l.OnRecord(playback.Record{Timestamp: 1, BitrateKbps: 1500, BufferLevelSecs: 2, Switch: true})

	var sw map[string]any
	for _, e := range decodeEntries(t, &buf) {
		if e["msg"] == "bitrate_switch" {
			sw = e
		}
	}
	if sw == nil {
		t.Fatal("no bitrate_switch entry")
	}
	if sw["from_kbps"] != float64(1000) || sw["to_kbps"] != float64(1500) {
		t.Errorf("switch entry = %v", sw)
	}
}

func TestSessionLogger_Failed(t *testing.T) {
	var buf bytes.Buffer
	NewSessionLogger(NewLoggerWithWriter(&buf, "text", "info")).Failed(errors.New("boom"))

	if !strings.Contains(buf.String(), "session_failed") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestSessionLogger_NilLogger(t *testing.T) {
	l := NewSessionLogger(nil)
	l.OnRecord(playback.Record{Stalled: true})
	if l.StallEvents() != 1 {
		t.Errorf("StallEvents() = %d, want 1", l.StallEvents())
	}
}
