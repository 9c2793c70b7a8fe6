// Package config provides configuration management for qoe-sim.
package config

import (
	"github.com/mrjaywilson/QOE-Core/internal/abr"
	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/trace"
)

// DefaultCSVPath is where the session log is written unless -csv says otherwise.
const DefaultCSVPath = "data/session_log.csv"

// Config holds all configuration options for the simulator.
type Config struct {
	// Strategy
	Strategy     string `json:"strategy" yaml:"strategy"` // fixed, buffer, throughput
	FixedBitrate int    `json:"fixed_bitrate_kbps" yaml:"fixed_bitrate_kbps"`
	WindowSize   int    `json:"window_size" yaml:"window_size"`

	// Buffer model
	SegmentDuration float64 `json:"segment_duration_secs" yaml:"segment_duration_secs"`
	StallThreshold  float64 `json:"stall_threshold_secs" yaml:"stall_threshold_secs"`
	BufferCapacity  float64 `json:"buffer_size_max_secs" yaml:"buffer_size_max_secs"`

	// Trace source. With neither set the built-in 10 sample trace is used.
	TraceFile string                `json:"trace_file" yaml:"trace_file"`
	Generate  bool                  `json:"generate" yaml:"generate"`
	Generator trace.GeneratorConfig `json:"generator" yaml:"generator"`

	// Batch
	Compare  bool `json:"compare" yaml:"compare"`
	Runs     int  `json:"runs" yaml:"runs"`
	Parallel int  `json:"parallel" yaml:"parallel"`

	// Outputs
	CSVPath     string `json:"csv_path" yaml:"csv_path"` // "" = disabled
	JSONPath    string `json:"json_path" yaml:"json_path"`
	MetricsFile string `json:"metrics_file" yaml:"metrics_file"`

	// Observability
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr"` // "" = disabled
	Verbose     bool   `json:"verbose" yaml:"verbose"`
	LogFormat   string `json:"log_format" yaml:"log_format"` // json, text
	Quiet       bool   `json:"quiet" yaml:"quiet"`
	TUIEnabled  bool   `json:"tui" yaml:"tui"`

	// ConfigFile is the YAML file the values were loaded from, if any.
	ConfigFile string `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		// Strategy
		Strategy:     abr.KindThroughputBased.String(),
		FixedBitrate: abr.DefaultFixedBitrate,
		WindowSize:   abr.DefaultWindowSize,

		// Buffer model
		SegmentDuration: playback.DefaultSegmentDuration,
		StallThreshold:  playback.DefaultStallThreshold,
		BufferCapacity:  playback.DefaultBufferCapacity,

		// Trace
		Generator: trace.DefaultGeneratorConfig(),

		// Batch
		Runs:     1,
		Parallel: 4,

		// Outputs
		CSVPath: DefaultCSVPath,

		// Observability
		LogFormat: "text",
	}
}

// Session returns the buffer model and strategy parameters of one run.
// An unknown strategy name maps to the fixed strategy; Validate reports it.
func (c *Config) Session() playback.SessionConfig {
	kind, err := abr.ParseKind(c.Strategy)
	if err != nil {
		kind = abr.KindFixed
	}
	return playback.SessionConfig{
		SegmentDuration: c.SegmentDuration,
		StallThreshold:  c.StallThreshold,
		BufferCapacity:  c.BufferCapacity,
		Strategy: abr.Config{
			Kind:         kind,
			FixedBitrate: c.FixedBitrate,
			WindowSize:   c.WindowSize,
		},
	}
}

// TraceSource describes where samples come from, for banners and summaries.
func (c *Config) TraceSource() string {
	switch {
	case c.TraceFile != "":
		return c.TraceFile
	case c.Generate:
		return "generated"
	default:
		return "default"
	}
}

// Outputs lists the report files the configuration will write.
func (c *Config) Outputs() []string {
	var out []string
	for _, p := range []string{c.CSVPath, c.JSONPath, c.MetricsFile} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
