// Package playback simulates one ABR playback session segment by segment.
//
// The engine folds a bandwidth trace into a sequence of Records. Each step asks
// the session's Strategy for a bitrate, then updates the buffer model:
//
//   - buffer below the stall threshold: the step is stalled and the buffer
//     gains one segment duration (the download happens, nothing is played)
//   - otherwise: the buffer gains segmentDuration - bitrate/bandwidth, floored at 0
//
// and finally caps the buffer at the configured capacity.
package playback

import (
	"errors"
	"fmt"
	"math"

	"github.com/mrjaywilson/QOE-Core/internal/abr"
)

// Default session parameters.
const (
	DefaultSegmentDuration = 1.0
	DefaultStallThreshold  = 0.5
	DefaultBufferCapacity  = 10.0
)

// SessionConfig holds the immutable parameters of one run.
type SessionConfig struct {
	SegmentDuration float64    `json:"segment_duration_secs" yaml:"segment_duration_secs"`
	StallThreshold  float64    `json:"stall_threshold_secs" yaml:"stall_threshold_secs"`
	BufferCapacity  float64    `json:"buffer_size_max_secs" yaml:"buffer_size_max_secs"`
	Strategy        abr.Config `json:"strategy" yaml:"strategy"`
}

// DefaultSessionConfig returns a 1s-segment, 10s-buffer session with the
// throughput strategy.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SegmentDuration: DefaultSegmentDuration,
		StallThreshold:  DefaultStallThreshold,
		BufferCapacity:  DefaultBufferCapacity,
		Strategy:        abr.DefaultConfig(),
	}
}

// FieldError describes one invalid session parameter.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate returns every problem with the configuration, joined, or nil.
func (c SessionConfig) Validate() error {
	var errs []error

	if !(c.SegmentDuration > 0) || math.IsInf(c.SegmentDuration, 0) {
		errs = append(errs, FieldError{
			Field:   "segment_duration",
			Message: fmt.Sprintf("must be positive and finite (got %v)", c.SegmentDuration),
		})
	}
	if !(c.BufferCapacity > 0) || math.IsInf(c.BufferCapacity, 0) {
		errs = append(errs, FieldError{
			Field:   "buffer_capacity",
			Message: fmt.Sprintf("must be positive and finite (got %v)", c.BufferCapacity),
		})
	}
	if !(c.StallThreshold >= 0) || math.IsInf(c.StallThreshold, 0) {
		errs = append(errs, FieldError{
			Field:   "stall_threshold",
			Message: fmt.Sprintf("must be zero or positive and finite (got %v)", c.StallThreshold),
		})
	}
	if err := c.Strategy.Validate(); err != nil {
		errs = append(errs, FieldError{Field: "strategy", Message: err.Error()})
	}

	return errors.Join(errs...)
}
