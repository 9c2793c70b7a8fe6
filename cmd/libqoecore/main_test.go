package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/mrjaywilson/QOE-Core/internal/logging"
	"github.com/mrjaywilson/QOE-Core/pkg/qoecore"
)

func TestScoreResult(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		err   error
		want  float32
	}{
		{"score", 50, nil, 50},
		{"fractional", 37.5, nil, 37.5},
		{"error", 50, errors.New("invalid"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreResult(tt.score, tt.err); got != tt.want {
				t.Errorf("scoreResult(%v, %v) = %v, want %v", tt.score, tt.err, got, tt.want)
			}
		})
	}
}

func TestScoreResult_DefaultSession(t *testing.T) {
	want, err := qoecore.SimulateAndGetScore()
	if err != nil {
		t.Fatalf("SimulateAndGetScore: %v", err)
	}
	if got := scoreResult(want, nil); got != float32(want) {
		t.Errorf("scoreResult = %v, want %v", got, float32(want))
	}
}

func TestScoreResult_InvalidConfig(t *testing.T) {
	cfg := qoecore.DefaultSimConfig()
	cfg.BufferSizeMax = 0

	if got := scoreResult(qoecore.SimulateWithConfig(cfg)); got != errorScore {
		t.Errorf("scoreResult = %v, want %v", got, errorScore)
	}
}

func TestRunSession(t *testing.T) {
	var out, logs bytes.Buffer
	path := filepath.Join(t.TempDir(), "data", "session_log.csv")

	runSession(&out, path, logging.NewLoggerWithWriter(&logs, "text", "info"))

	if n := strings.Count(out.String(), "\n"); n != 10 {
		t.Errorf("got %d record lines, want 10", n)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("CSV not written: %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected log output: %s", logs.String())
	}
}

func TestRunSession_LogsFailure(t *testing.T) {
	var out, logs bytes.Buffer

	// A directory cannot be created as a file.
	runSession(&out, t.TempDir(), logging.NewLoggerWithWriter(&logs, "text", "info"))

	if !strings.Contains(logs.String(), "session_failed") {
		t.Errorf("log = %q, want session_failed", logs.String())
	}
}

// TestHeader_DeclaresEveryExport checks that libqoecore.h declares each
// //export with the C return type cgo generates for it.
func TestHeader_DeclaresEveryExport(t *testing.T) {
	header, err := os.ReadFile("libqoecore.h")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	source, err := os.ReadFile("main.go")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	want := map[string]string{
		"simulate_session":                   "void",
		"simulate_and_get_score":             "float",
		"simulate_with_config":               "float",
		"simulate_with_config_and_get_score": "float",
		"simulate_and_get_json":              "char *",
		"free_simulation_string":             "void",
	}

	exports := regexp.MustCompile(`(?m)^//export (\w+)$`).FindAllStringSubmatch(string(source), -1)
	if len(exports) != len(want) {
		t.Errorf("got %d exports, want %d", len(exports), len(want))
	}
	for _, m := range exports {
		name := m[1]
		ret, ok := want[name]
		if !ok {
			t.Errorf("unexpected export %s", name)
			continue
		}
		decl := regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(ret) + `\s*` + name + `\(`)
		if !decl.Match(header) {
			t.Errorf("libqoecore.h does not declare %s returning %s", name, ret)
		}
	}
}
