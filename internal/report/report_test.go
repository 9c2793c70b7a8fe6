package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
)

var sampleRecords = []playback.Record{
	{Timestamp: 0, BitrateKbps: 500, BufferLevelSecs: 1, Stalled: true},
	{Timestamp: 1, BitrateKbps: 750, BufferLevelSecs: 1.25, Switch: true},
	{Timestamp: 2, BitrateKbps: 750, BufferLevelSecs: 1.333333},
}

// =============================================================================
// CSV
// =============================================================================

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := strings.Join([]string{
		"timestamp,bitrate_kbps,buffer_level_secs,stalled,switch",
		"0,500,1.00,true,false",
		"1,750,1.25,false,true",
		"2,750,1.33,false,false",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSV_HeaderOnlyForEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != "timestamp,bitrate_kbps,buffer_level_secs,stalled,switch\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriteCSVFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "session_log.csv")
	if err := WriteCSVFile(path, sampleRecords); err != nil {
		t.Fatalf("WriteCSVFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 4 {
		t.Errorf("file has %d lines, want 4", lines)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCSV_PropagatesWriteError(t *testing.T) {
	if err := WriteCSV(failingWriter{}, sampleRecords); err == nil {
		t.Error("expected write error")
	}
}

// =============================================================================
// JSON
// =============================================================================

func TestWriteJSON_RoundTripsFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRecords[:1]); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("len = %d, want 1", len(decoded))
	}
	for _, key := range []string{"timestamp", "bitrate_kbps", "buffer_level_secs", "stalled", "switch"} {
		if _, ok := decoded[0][key]; !ok {
			t.Errorf("missing key %q in %v", key, decoded[0])
		}
	}
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	if got := MarshalJSON(nil); got != "[]" {
		t.Errorf("MarshalJSON(nil) = %q, want []", got)
	}

	var decoded []playback.Record
	if err := json.Unmarshal([]byte(MarshalJSON(sampleRecords)), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(sampleRecords, decoded); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "session.json")
	if err := WriteJSONFile(path, sampleRecords); err != nil {
		t.Fatalf("WriteJSONFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Stat: %v", err)
	}
}

// =============================================================================
// Text
// =============================================================================

func TestFormatRecord(t *testing.T) {
	got := FormatRecord(sampleRecords[1])
	want := "Time: 1s, Bitrate: 750 kbps, Buffer: 1.25 s, Stalled: false, Switch: true"
	if got != want {
		t.Errorf("FormatRecord = %q, want %q", got, want)
	}
}

func TestWriteRecordLines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecordLines(&buf, sampleRecords); err != nil {
		t.Fatalf("WriteRecordLines: %v", err)
	}
	if n := strings.Count(buf.String(), "\n"); n != len(sampleRecords) {
		t.Errorf("%d lines, want %d", n, len(sampleRecords))
	}
}

func TestFormatSummary(t *testing.T) {
	score, _ := qoe.Evaluate(sampleRecords)
	summary, _ := qoe.Summarize(sampleRecords, 1.0)

	out := FormatSummary(score, &summary, SummaryConfig{
		Strategy:    "buffer",
		TraceSource: "default",
		Session:     playback.DefaultSessionConfig(),
		Outputs:     []string{"data/session_log.csv"},
	})

	for _, want := range []string{
		"Session Summary",
		"Strategy:               buffer",
		"Final Score:",
		"Bitrate Distribution",
		"500 kbps",
		"750 kbps",
		"Rebuffering",
		"Wrote: data/session_log.csv",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSummary_NilSummary(t *testing.T) {
	out := FormatSummary(qoe.Score{FinalScore: 42}, nil, SummaryConfig{Strategy: "fixed"})
	if !strings.Contains(out, "Final Score:          42") {
		t.Errorf("summary missing score:\n%s", out)
	}
	if strings.Contains(out, "Buffer Level") {
		t.Error("buffer section should be omitted without a summary")
	}
}

func TestFormatComparison(t *testing.T) {
	out := FormatComparison([]ComparisonRow{
		{Name: "fixed", Score: qoe.Score{FinalScore: 45}},
		{Name: "throughput", Err: errors.New("boom")},
	})
	if !strings.Contains(out, "fixed") || !strings.Contains(out, "45") {
		t.Errorf("comparison missing fixed row:\n%s", out)
	}
	if !strings.Contains(out, "error: boom") {
		t.Errorf("comparison missing error row:\n%s", out)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "0.0%"},
		{0.125, "12.5%"},
		{1, "100.0%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.ratio); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestBar(t *testing.T) {
	if got := bar(0.5, 4); got != "██░░" {
		t.Errorf("bar(0.5, 4) = %q", got)
	}
	if got := bar(2, 3); got != "███" {
		t.Errorf("bar(2, 3) = %q", got)
	}
}
