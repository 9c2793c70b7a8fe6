package playback

import (
	"errors"
	"fmt"
	"math"

	"github.com/mrjaywilson/QOE-Core/internal/abr"
)

// ErrInvalidBandwidth is returned when a trace contains a sample that is not a
// finite, strictly positive number.
var ErrInvalidBandwidth = errors.New("bandwidth sample must be finite and positive")

// noBitrate is the previous-bitrate sentinel before the first segment.
// Valid bitrates are always positive.
const noBitrate = 0

// Engine runs playback sessions for one SessionConfig.
//
// An Engine holds no per-run state: every Run creates its own Strategy and
// buffer state, so one Engine may be used for many runs.
type Engine struct {
	cfg       SessionConfig
	observers []Observer
}

// NewEngine validates cfg and returns an Engine.
func NewEngine(cfg SessionConfig, observers ...Observer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session config: %w", err)
	}
	return &Engine{cfg: cfg, observers: observers}, nil
}

// Config returns the session configuration.
func (e *Engine) Config() SessionConfig {
	return e.cfg
}

// Run simulates one session over samples (kbps) and returns one Record per sample.
//
// The whole trace is checked before the first step; an invalid sample yields
// ErrInvalidBandwidth and no records. An empty trace yields no records and no error.
func (e *Engine) Run(samples []float64) ([]Record, error) {
	if err := ValidateSamples(samples); err != nil {
		return nil, err
	}

	strategy, err := abr.New(e.cfg.Strategy)
	if err != nil {
		return nil, fmt.Errorf("create strategy: %w", err)
	}

	s := newSession(e.cfg, strategy)
	records := make([]Record, 0, len(samples))
	for _, bw := range samples {
		r := s.step(bw)
		records = append(records, r)
		for _, o := range e.observers {
			o.OnRecord(r)
		}
	}

	return records, nil
}

// ValidateSamples reports the first sample that is not finite and positive.
func ValidateSamples(samples []float64) error {
	for i, bw := range samples {
		if !(bw > 0) || math.IsInf(bw, 0) {
			return fmt.Errorf("sample %d (%v): %w", i, bw, ErrInvalidBandwidth)
		}
	}
	return nil
}

// session is the mutable state of a single run.
type session struct {
	cfg      SessionConfig
	strategy abr.Strategy

	index       int
	buffer      float64
	lastBitrate int
}

func newSession(cfg SessionConfig, strategy abr.Strategy) *session {
	return &session{
		cfg:         cfg,
		strategy:    strategy,
		lastBitrate: noBitrate,
	}
}

// step advances the session by one segment downloaded at bandwidthKbps.
func (s *session) step(bandwidthKbps float64) Record {
	bitrate := s.strategy.SelectBitrate(bandwidthKbps, s.buffer)
	downloadTime := float64(bitrate) / bandwidthKbps

	// The first segment has no predecessor and is never a switch.
	switched := s.lastBitrate != noBitrate && bitrate != s.lastBitrate

	stalled := s.buffer < s.cfg.StallThreshold
	if stalled {
		s.buffer += s.cfg.SegmentDuration
	} else {
		s.buffer += s.cfg.SegmentDuration - downloadTime
		if s.buffer < 0 {
			s.buffer = 0
		}
	}
	if s.buffer > s.cfg.BufferCapacity {
		s.buffer = s.cfg.BufferCapacity
	}

	r := Record{
		Timestamp:       s.index,
		BitrateKbps:     bitrate,
		BufferLevelSecs: s.buffer,
		Stalled:         stalled,
		Switch:          switched,
	}

	s.lastBitrate = bitrate
	s.index++
	return r
}
