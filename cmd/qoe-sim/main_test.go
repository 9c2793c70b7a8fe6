package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mrjaywilson/QOE-Core/internal/config"
	"github.com/mrjaywilson/QOE-Core/internal/trace"
)

func TestWithSuffix(t *testing.T) {
	tests := []struct {
		path, suffix, want string
	}{
		{"data/session_log.csv", "", "data/session_log.csv"},
		{"data/session_log.csv", "fixed", "data/session_log-fixed.csv"},
		{"out", "run-001", "out-run-001"},
	}
	for _, tt := range tests {
		if got := withSuffix(tt.path, tt.suffix); got != tt.want {
			t.Errorf("withSuffix(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
		}
	}
}

func TestStrategyLabel(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := strategyLabel(cfg); got != "throughput (window 3)" {
		t.Errorf("strategyLabel = %q", got)
	}
	cfg.Strategy = "fixed"
	if got := strategyLabel(cfg); got != "fixed (1000 kbps)" {
		t.Errorf("strategyLabel = %q", got)
	}
	cfg.Strategy = "buffer"
	if got := strategyLabel(cfg); got != "buffer" {
		t.Errorf("strategyLabel = %q", got)
	}
}

func TestBuildJobs(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		wantJobs int
		wantLen  int
	}{
		{"default trace", func(*config.Config) {}, 1, 10},
		{"compare", func(c *config.Config) { c.Compare = true }, 3, 10},
		{"generated", func(c *config.Config) { c.Generate = true; c.Generator.Samples = 25 }, 1, 25},
		{"runs", func(c *config.Config) { c.Generate = true; c.Runs = 4 }, 4, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)

			jobs, err := buildJobs(cfg)
			if err != nil {
				t.Fatalf("buildJobs: %v", err)
			}
			if len(jobs) != tt.wantJobs {
				t.Fatalf("got %d jobs, want %d", len(jobs), tt.wantJobs)
			}
			if len(jobs[0].Samples) != tt.wantLen {
				t.Errorf("got %d samples, want %d", len(jobs[0].Samples), tt.wantLen)
			}
		})
	}
}

func TestBuildJobs_TraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.txt")
	if err := os.WriteFile(path, []byte("# kbps\n1200\n900\n1500\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.TraceFile = path
	jobs, err := buildJobs(cfg)
	if err != nil {
		t.Fatalf("buildJobs: %v", err)
	}
	if len(jobs[0].Samples) != 3 {
		t.Errorf("got %d samples, want 3", len(jobs[0].Samples))
	}

	cfg.TraceFile = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := buildJobs(cfg); err == nil {
		t.Error("expected error for missing trace file")
	}
}

func TestBuildJobs_DefaultTraceUnchanged(t *testing.T) {
	jobs, err := buildJobs(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	jobs[0].Samples[0] = -1
	if trace.Default()[0] != 3000 {
		t.Error("default trace shared between callers")
	}
}
