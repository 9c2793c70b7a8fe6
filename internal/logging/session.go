package logging

import (
	"log/slog"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
)

// SessionLogger logs the lifecycle of one playback session. It implements
// playback.Observer so it can be attached to an Engine.
//
// Stalls are logged once per stall event, not once per stalled segment.
// Individual segments and bitrate switches are logged at debug level.
type SessionLogger struct {
	logger      *slog.Logger
	stalled     bool
	stallEvents int
	lastBitrate int
}

var _ playback.Observer = (*SessionLogger)(nil)

// NewSessionLogger returns a SessionLogger whose entries all carry attrs
// (typically session_id and strategy).
func NewSessionLogger(logger *slog.Logger, attrs ...any) *SessionLogger {
	if logger == nil {
		logger = Discard()
	}
	return &SessionLogger{logger: logger.With(attrs...)}
}

// Started logs the session_started event.
func (l *SessionLogger) Started(cfg playback.SessionConfig, samples int) {
	l.logger.Info("session_started",
		"samples", samples,
		"abr", cfg.Strategy.Kind.String(),
		"segment_duration", cfg.SegmentDuration,
		"stall_threshold", cfg.StallThreshold,
		"buffer_capacity", cfg.BufferCapacity,
	)
}

// OnRecord logs stall transitions and, at debug level, every segment.
func (l *SessionLogger) OnRecord(r playback.Record) {
	l.logger.Debug("segment",
		"t", r.Timestamp,
		"bitrate_kbps", r.BitrateKbps,
		"buffer_secs", r.BufferLevelSecs,
		"stalled", r.Stalled,
	)

	if r.Switch {
		l.logger.Debug("bitrate_switch",
			"t", r.Timestamp,
			"from_kbps", l.lastBitrate,
			"to_kbps", r.BitrateKbps,
		)
	}
	l.lastBitrate = r.BitrateKbps

	switch {
	case r.Stalled && !l.stalled:
		l.stallEvents++
		l.logger.Info("segment_stalled",
			"t", r.Timestamp,
			"buffer_secs", r.BufferLevelSecs,
			"stall_event", l.stallEvents,
		)
	case !r.Stalled && l.stalled:
		l.logger.Info("playback_resumed", "t", r.Timestamp)
	}
	l.stalled = r.Stalled
}

// Completed logs the session_completed event with the session score.
func (l *SessionLogger) Completed(score qoe.Score) {
	l.logger.Info("session_completed",
		"score", score.FinalScore,
		"avg_bitrate_kbps", score.AverageBitrate,
		"stalls", score.StallCount,
		"stall_events", l.stallEvents,
		"switches", score.SwitchCount,
	)
}

// Failed logs the session_failed event.
func (l *SessionLogger) Failed(err error) {
	l.logger.Error("session_failed", "error", err)
}

// StallEvents returns the number of distinct stalls seen so far.
func (l *SessionLogger) StallEvents() int {
	return l.stallEvents
}
