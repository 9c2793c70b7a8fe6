package abr

import (
	"errors"
	"fmt"
)

const (
	// DefaultFixedBitrate is the bitrate (kbps) requested by the fixed strategy.
	DefaultFixedBitrate = 1000

	// DefaultWindowSize is the throughput window used when none is configured.
	DefaultWindowSize = 3
)

// Strategy decides the bitrate of the next segment.
//
// SelectBitrate is called once per segment, in order. Implementations may keep
// private state between calls but must not be shared between sessions.
type Strategy interface {
	// SelectBitrate returns the bitrate in kbps for the next segment given the
	// observed bandwidth (kbps, > 0) and the current buffer level (seconds, >= 0).
	SelectBitrate(bandwidthKbps, bufferLevelSecs float64) int

	// Name returns the strategy name for logs and reports.
	Name() string
}

// Config selects a strategy variant and its parameters.
type Config struct {
	Kind         Kind `json:"kind" yaml:"kind"`
	FixedBitrate int  `json:"fixed_bitrate_kbps" yaml:"fixed_bitrate_kbps"` // KindFixed only
	WindowSize   int  `json:"window_size" yaml:"window_size"`               // KindThroughputBased only
}

// DefaultConfig returns a throughput strategy with a 3-sample window.
func DefaultConfig() Config {
	return Config{
		Kind:         KindThroughputBased,
		FixedBitrate: DefaultFixedBitrate,
		WindowSize:   DefaultWindowSize,
	}
}

// Validate reports whether the parameters of the selected variant are usable.
func (c Config) Validate() error {
	switch c.Kind {
	case KindFixed:
		if c.FixedBitrate <= 0 {
			return fmt.Errorf("fixed bitrate must be positive (got %d)", c.FixedBitrate)
		}
	case KindBufferBased:
	case KindThroughputBased:
		if c.WindowSize < 1 {
			return fmt.Errorf("window size must be at least 1 (got %d)", c.WindowSize)
		}
	default:
		return errors.New("unknown strategy kind")
	}
	return nil
}

// New creates a fresh strategy instance for one session.
func New(cfg Config) (Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Kind {
	case KindBufferBased:
		return BufferBased{}, nil
	case KindThroughputBased:
		return NewThroughputBased(cfg.WindowSize), nil
	default:
		return Fixed{BitrateKbps: cfg.FixedBitrate}, nil
	}
}
