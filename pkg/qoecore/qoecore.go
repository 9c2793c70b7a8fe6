// Package qoecore is the embedding API of the simulator.
//
// It mirrors the flat configuration used by the C exports in cmd/libqoecore
// and always simulates the built-in bandwidth trace.
package qoecore

import (
	"io"
	"log/slog"

	"github.com/mrjaywilson/QOE-Core/internal/abr"
	"github.com/mrjaywilson/QOE-Core/internal/logging"
	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
	"github.com/mrjaywilson/QOE-Core/internal/report"
	"github.com/mrjaywilson/QOE-Core/internal/trace"
)

// ABR type codes accepted in SimConfig.ABRType.
const (
	ABRFixed           = uint32(abr.KindFixed)
	ABRBufferBased     = uint32(abr.KindBufferBased)
	ABRThroughputBased = uint32(abr.KindThroughputBased)
)

// SimConfig is the flat session configuration exchanged with C callers.
type SimConfig struct {
	ABRType         uint32
	ABRWindowSize   uint32
	BufferSizeMax   float32
	SegmentDuration float32
	StallThreshold  float32
}

// DefaultSimConfig returns the throughput strategy with a 3-sample window,
// 10s buffer, 1s segments and a 0.5s stall threshold.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		ABRType:         ABRThroughputBased,
		ABRWindowSize:   abr.DefaultWindowSize,
		BufferSizeMax:   playback.DefaultBufferCapacity,
		SegmentDuration: playback.DefaultSegmentDuration,
		StallThreshold:  playback.DefaultStallThreshold,
	}
}

var logger = logging.Discard()

// SetLogger sets the logger used to report configuration fallbacks.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	logger = l
}

// SessionConfig converts c. An unknown ABRType selects the fixed strategy
// at its default bitrate; the fallback is logged at warn level.
func (c SimConfig) SessionConfig() playback.SessionConfig {
	kind, ok := abr.KindFromCode(c.ABRType)
	if !ok {
		logger.Warn("unknown_abr_type", "abr_type", c.ABRType, "fallback", kind.String())
	}
	return playback.SessionConfig{
		SegmentDuration: float64(c.SegmentDuration),
		StallThreshold:  float64(c.StallThreshold),
		BufferCapacity:  float64(c.BufferSizeMax),
		Strategy: abr.Config{
			Kind:         kind,
			FixedBitrate: abr.DefaultFixedBitrate,
			WindowSize:   int(c.ABRWindowSize),
		},
	}
}

// Simulate runs the built-in trace with cfg and returns the records.
func Simulate(cfg SimConfig) ([]playback.Record, error) {
	engine, err := playback.NewEngine(cfg.SessionConfig())
	if err != nil {
		return nil, err
	}
	return engine.Run(trace.Default())
}

// SimulateWithConfig returns the QoE score of the built-in trace under cfg.
func SimulateWithConfig(cfg SimConfig) (float64, error) {
	records, err := Simulate(cfg)
	if err != nil {
		return 0, err
	}
	score, err := qoe.Evaluate(records)
	if err != nil {
		return 0, err
	}
	return score.FinalScore, nil
}

// SimulateAndGetScore is SimulateWithConfig with the default configuration.
func SimulateAndGetScore() (float64, error) {
	return SimulateWithConfig(DefaultSimConfig())
}

// SimulateJSON returns the session records as an indented JSON array.
// Only an invalid configuration is an error; encoding failures yield "[]".
func SimulateJSON(cfg SimConfig) (string, error) {
	records, err := Simulate(cfg)
	if err != nil {
		return "", err
	}
	return report.MarshalJSON(records), nil
}

// SimulateSession runs the default configuration, writes one console line
// per record to w and, when csvPath is not empty, the session log as CSV.
func SimulateSession(w io.Writer, csvPath string) error {
	records, err := Simulate(DefaultSimConfig())
	if err != nil {
		return err
	}
	if err := report.WriteRecordLines(w, records); err != nil {
		return err
	}
	if csvPath == "" {
		return nil
	}
	return report.WriteCSVFile(csvPath, records)
}
