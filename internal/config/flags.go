package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseFlags parses command-line flags and returns a Config.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:], os.Stderr)
}

// ParseArgs parses args into a Config. When -config names a YAML file, the
// file is loaded over the defaults first and flags given explicitly on the
// command line override it.
func ParseArgs(args []string, output io.Writer) (*Config, error) {
	cfg := DefaultConfig()
	fs := newFlagSet(cfg, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.ConfigFile == "" {
		return cfg, nil
	}

	path := cfg.ConfigFile
	fileCfg := DefaultConfig()
	if err := LoadFile(path, fileCfg); err != nil {
		return nil, err
	}

	// Second pass: only explicitly set flags touch the file values.
	fs = newFlagSet(fileCfg, output)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fileCfg.ConfigFile = path
	return fileCfg, nil
}

func newFlagSet(cfg *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("qoe-sim", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.Usage = func() {
		fmt.Fprintf(output, `qoe-sim - adaptive bitrate playback and QoE simulation

Usage:
  qoe-sim [flags]

Strategy:
`)
		printFlagCategory(fs, output, []string{"strategy", "fixed-bitrate", "window"})

		fmt.Fprintf(output, "\nBuffer Model:\n")
		printFlagCategory(fs, output, []string{"segment-duration", "stall-threshold", "buffer-max"})

		fmt.Fprintf(output, "\nBandwidth Trace:\n")
		printFlagCategory(fs, output, []string{"trace", "generate", "samples", "seed", "base-bw", "min-bw", "max-bw", "volatility"})

		fmt.Fprintf(output, "\nBatch:\n")
		printFlagCategory(fs, output, []string{"compare", "runs", "parallel"})

		fmt.Fprintf(output, "\nOutputs:\n")
		printFlagCategory(fs, output, []string{"csv", "json", "metrics-file", "quiet"})

		fmt.Fprintf(output, "\nObservability:\n")
		printFlagCategory(fs, output, []string{"metrics", "v", "log-format", "tui"})

		fmt.Fprintf(output, "\nConfiguration:\n")
		printFlagCategory(fs, output, []string{"config"})

		fmt.Fprintf(output, `
Examples:
  # Throughput strategy over the built-in trace
  qoe-sim

  # Compare all strategies on a generated 120 segment trace
  qoe-sim -compare -generate -samples 120 -seed 7

  # Replay a recorded trace in the terminal
  qoe-sim -strategy buffer -trace traces/lte.csv -tui

`)
	}

	// Strategy
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, `ABR strategy: "fixed", "buffer" or "throughput"`)
	fs.IntVar(&cfg.FixedBitrate, "fixed-bitrate", cfg.FixedBitrate, "Bitrate in kbps for the fixed strategy")
	fs.IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "Throughput window size in samples")

	// Buffer model
	fs.Float64Var(&cfg.SegmentDuration, "segment-duration", cfg.SegmentDuration, "Segment duration in seconds")
	fs.Float64Var(&cfg.StallThreshold, "stall-threshold", cfg.StallThreshold, "Buffer level in seconds below which playback stalls")
	fs.Float64Var(&cfg.BufferCapacity, "buffer-max", cfg.BufferCapacity, "Maximum buffer level in seconds")

	// Trace
	fs.StringVar(&cfg.TraceFile, "trace", cfg.TraceFile, "Read bandwidth samples (kbps) from a text or CSV file")
	fs.BoolVar(&cfg.Generate, "generate", cfg.Generate, "Generate a random-walk bandwidth trace")
	fs.IntVar(&cfg.Generator.Samples, "samples", cfg.Generator.Samples, "Generated trace length in segments")
	fs.Int64Var(&cfg.Generator.Seed, "seed", cfg.Generator.Seed, "Generator seed (0 = time based)")
	fs.Float64Var(&cfg.Generator.BaseKbps, "base-bw", cfg.Generator.BaseKbps, "Generated trace starting bandwidth in kbps")
	fs.Float64Var(&cfg.Generator.MinKbps, "min-bw", cfg.Generator.MinKbps, "Generated trace bandwidth floor in kbps")
	fs.Float64Var(&cfg.Generator.MaxKbps, "max-bw", cfg.Generator.MaxKbps, "Generated trace bandwidth ceiling in kbps")
	fs.Float64Var(&cfg.Generator.Volatility, "volatility", cfg.Generator.Volatility, "Maximum relative bandwidth change per segment")

	// Batch
	fs.BoolVar(&cfg.Compare, "compare", cfg.Compare, "Run every strategy over the same trace")
	fs.IntVar(&cfg.Runs, "runs", cfg.Runs, "Number of sessions, each over its own generated trace (requires -generate)")
	fs.IntVar(&cfg.Parallel, "parallel", cfg.Parallel, "Maximum sessions simulated concurrently")

	// Outputs
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, `Session log CSV path ("" to disable)`)
	fs.StringVar(&cfg.JSONPath, "json", cfg.JSONPath, "Session log JSON path")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus text exposition to this file")
	fs.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Do not print one line per segment")

	// Observability
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Serve Prometheus metrics on this address until interrupted")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)
	fs.BoolVar(&cfg.TUIEnabled, "tui", cfg.TUIEnabled, "Replay the session in a terminal dashboard")

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML configuration file")

	return fs
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(fs *flag.FlagSet, w io.Writer, names []string) {
	fs.VisitAll(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				fmt.Fprintf(w, "  -%s %s\n    \t%s", f.Name, flagType(f), f.Usage)
				if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" {
					fmt.Fprintf(w, " (default %s)", f.DefValue)
				}
				fmt.Fprintln(w)
				return
			}
		}
	})
}

// flagType returns a type hint for the flag value.
func flagType(f *flag.Flag) string {
	switch f.DefValue {
	case "true", "false":
		return ""
	}

	if strings.Contains(f.DefValue, ".") {
		if _, err := fmt.Sscanf(f.DefValue, "%g", new(float64)); err == nil {
			return "float"
		}
	}

	if _, err := fmt.Sscanf(f.DefValue, "%d", new(int)); err == nil {
		return "int"
	}

	return "string"
}
