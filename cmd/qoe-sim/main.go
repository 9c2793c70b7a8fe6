// Package main provides the qoe-sim CLI entry point.
//
// qoe-sim simulates adaptive bitrate playback over a bandwidth trace and
// scores the session's quality of experience.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrjaywilson/QOE-Core/internal/batch"
	"github.com/mrjaywilson/QOE-Core/internal/config"
	"github.com/mrjaywilson/QOE-Core/internal/logging"
	"github.com/mrjaywilson/QOE-Core/internal/metrics"
	"github.com/mrjaywilson/QOE-Core/internal/report"
	"github.com/mrjaywilson/QOE-Core/internal/trace"
	"github.com/mrjaywilson/QOE-Core/internal/tui"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/qoe-sim
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("qoe-sim %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags()
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// The dashboard owns the terminal, so logs are dropped while it runs
	var logger *slog.Logger
	if cfg.TUIEnabled {
		logger = logging.Discard()
	} else {
		logger = logging.NewLogger(cfg.LogFormat, "info", cfg.Verbose)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, err := buildJobs(cfg)
	if err != nil {
		logger.Error("trace_failed", "error", err)
		return 1
	}

	logger.Info("starting",
		"version", version,
		"strategy", cfg.Strategy,
		"trace", cfg.TraceSource(),
		"sessions", len(jobs),
		"config_file", cfg.ConfigFile,
	)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollectorWithRegistry(metrics.CollectorConfig{
		Version:     version,
		TraceSource: cfg.TraceSource(),
	}, registry)

	runner := batch.NewRunner(
		batch.WithParallel(cfg.Parallel),
		batch.WithLogger(logger),
		batch.WithTracker(func(id, strategy string) batch.SessionTracker {
			return collector.Session(id, strategy)
		}),
	)

	results, err := runner.Run(ctx, jobs)
	if err != nil {
		logger.Error("batch_interrupted", "error", err)
		return 1
	}

	exitCode := 0
	if len(results) == 1 {
		exitCode = reportSingle(cfg, results[0], jobs[0].Samples)
	} else {
		exitCode = reportBatch(cfg, results)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, registry); err != nil {
			logger.Error("metrics_file_failed", "path", cfg.MetricsFile, "error", err)
			exitCode = 1
		}
	}

	if cfg.MetricsAddr != "" {
		fmt.Printf("Serving metrics on http://%s/metrics (Ctrl+C to stop)\n", cfg.MetricsAddr)
		if err := metrics.NewServer(cfg.MetricsAddr, registry, logger).Serve(ctx); err != nil {
			logger.Error("metrics_server_failed", "error", err)
			return 1
		}
	}

	return exitCode
}

// buildJobs loads or generates the trace and expands the configuration into
// the sessions to simulate.
func buildJobs(cfg *config.Config) ([]batch.Job, error) {
	session := cfg.Session()

	if cfg.Generate {
		gen, err := trace.NewGenerator(cfg.Generator)
		if err != nil {
			return nil, err
		}
		slog.Info("trace_generated", "seed", gen.Seed(), "samples", cfg.Generator.Samples)

		switch {
		case cfg.Runs > 1:
			return batch.RunJobs(session, gen, cfg.Runs), nil
		case cfg.Compare:
			return batch.CompareJobs(session, gen.Trace()), nil
		default:
			return []batch.Job{{Name: cfg.Strategy, Config: session, Samples: gen.Trace()}}, nil
		}
	}

	samples := trace.Default()
	if cfg.TraceFile != "" {
		var err error
		if samples, err = trace.Load(cfg.TraceFile); err != nil {
			return nil, err
		}
	}

	if cfg.Compare {
		return batch.CompareJobs(session, samples), nil
	}
	return []batch.Job{{Name: cfg.Strategy, Config: session, Samples: samples}}, nil
}

// reportSingle prints and writes the outputs of a one-session run.
func reportSingle(cfg *config.Config, res batch.Result, samples []float64) int {
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", res.Err)
		return 1
	}

	if cfg.TUIEnabled {
		if err := tui.Run(tui.New(tui.Config{
			Strategy:    cfg.Strategy,
			TraceSource: cfg.TraceSource(),
			Session:     cfg.Session(),
			Samples:     samples,
			Records:     res.Records,
		})); err != nil {
			fmt.Fprintf(os.Stderr, "Dashboard error: %v\n", err)
			return 1
		}
	} else if !cfg.Quiet {
		if err := report.WriteRecordLines(os.Stdout, res.Records); err != nil {
			return 1
		}
	}

	if err := writeOutputs(cfg, res, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing reports: %v\n", err)
		return 1
	}

	fmt.Print(report.FormatSummary(res.Score, res.Summary, report.SummaryConfig{
		Strategy:    strategyLabel(cfg),
		TraceSource: cfg.TraceSource(),
		Session:     cfg.Session(),
		Outputs:     cfg.Outputs(),
	}))
	return 0
}

// reportBatch prints a comparison table and writes one report per session.
func reportBatch(cfg *config.Config, results []batch.Result) int {
	exitCode := 0
	rows := make([]report.ComparisonRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, report.ComparisonRow{Name: res.Name, Score: res.Score, Err: res.Err})
		if res.Err != nil {
			exitCode = 1
			continue
		}
		if err := writeOutputs(cfg, res, res.Name); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing reports for %s: %v\n", res.Name, err)
			exitCode = 1
		}
	}

	fmt.Print(report.FormatComparison(rows))
	return exitCode
}

// writeOutputs writes the CSV and JSON session logs. A non-empty suffix is
// inserted before the file extension so batch sessions do not overwrite each other.
func writeOutputs(cfg *config.Config, res batch.Result, suffix string) error {
	if cfg.CSVPath != "" {
		if err := report.WriteCSVFile(withSuffix(cfg.CSVPath, suffix), res.Records); err != nil {
			return err
		}
	}
	if cfg.JSONPath != "" {
		if err := report.WriteJSONFile(withSuffix(cfg.JSONPath, suffix), res.Records); err != nil {
			return err
		}
	}
	return nil
}

func withSuffix(path, suffix string) string {
	if suffix == "" {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + suffix + ext
}

func strategyLabel(cfg *config.Config) string {
	switch cfg.Session().Strategy.Kind.String() {
	case "fixed":
		return fmt.Sprintf("fixed (%d kbps)", cfg.FixedBitrate)
	case "throughput":
		return fmt.Sprintf("throughput (window %d)", cfg.WindowSize)
	default:
		return cfg.Session().Strategy.Kind.String()
	}
}
