// Package metrics provides Prometheus metrics for simulated playback sessions.
//
// Aggregate series are labeled by strategy only. Per-session gauges (final
// buffer level and QoE score) also carry the session ID, so a batch of N
// sessions produces N series per gauge.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
	"github.com/mrjaywilson/QOE-Core/internal/qoe"
)

// Namespace prefixes every metric name.
const Namespace = "qoe"

// Result label values for qoe_sessions_total.
const (
	ResultCompleted = "completed"
	ResultFailed    = "failed"
)

var (
	// bitrateBuckets cover the bitrate ladder of the built-in strategies.
	bitrateBuckets = []float64{500, 750, 1000, 1500, 2000, 3000}

	// bufferBuckets are in seconds.
	bufferBuckets = []float64{0.5, 1, 2, 4, 6, 8, 10, 20, 30}
)

// CollectorConfig holds configuration for the collector.
type CollectorConfig struct {
	Version     string
	TraceSource string
}

// Collector manages all Prometheus metrics for the simulator.
type Collector struct {
	info     *prometheus.GaugeVec
	sessions *prometheus.CounterVec
	segments *prometheus.CounterVec
	stalls   *prometheus.CounterVec
	switches *prometheus.CounterVec
	bitrate  *prometheus.HistogramVec
	buffer   *prometheus.HistogramVec

	bufferLevel *prometheus.GaugeVec
	score       *prometheus.GaugeVec

	mu        sync.Mutex
	completed int
	failed    int
}

// NewCollector creates a collector registered with the default registry.
func NewCollector(cfg CollectorConfig) *Collector {
	return NewCollectorWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a collector with a custom registry.
// Useful for testing.
func NewCollectorWithRegistry(cfg CollectorConfig, registry prometheus.Registerer) *Collector {
	c := &Collector{
		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "sim_info",
			Help:      "Information about the simulator run (value always 1)",
		}, []string{"version", "trace"}),

		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "sessions_total",
			Help:      "Simulated sessions by strategy and result",
		}, []string{"strategy", "result"}),

		segments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "segments_total",
			Help:      "Simulated segments",
		}, []string{"strategy"}),

		stalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "stalled_segments_total",
			Help:      "Segments during which playback was stalled",
		}, []string{"strategy"}),

		switches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "bitrate_switches_total",
			Help:      "Segments whose bitrate differs from the previous segment",
		}, []string{"strategy"}),

		bitrate: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "segment_bitrate_kbps",
			Help:      "Selected bitrate per segment",
			Buckets:   bitrateBuckets,
		}, []string{"strategy"}),

		buffer: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "buffer_level_seconds",
			Help:      "Buffer level after each segment",
			Buckets:   bufferBuckets,
		}, []string{"strategy"}),

		bufferLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "session_buffer_seconds",
			Help:      "Most recent buffer level of a session",
		}, []string{"session", "strategy"}),

		score: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "session_score",
			Help:      "Final QoE score of a session",
		}, []string{"session", "strategy"}),
	}

	registry.MustRegister(
		c.info,
		c.sessions,
		c.segments,
		c.stalls,
		c.switches,
		c.bitrate,
		c.buffer,
		c.bufferLevel,
		c.score,
	)

	c.info.WithLabelValues(cfg.Version, cfg.TraceSource).Set(1)

	return c
}

// Session returns an observer that feeds one session's records into the
// collector. Observers for different sessions may be used concurrently.
func (c *Collector) Session(sessionID, strategy string) *SessionObserver {
	return &SessionObserver{
		c:           c,
		sessionID:   sessionID,
		strategy:    strategy,
		segments:    c.segments.WithLabelValues(strategy),
		stalls:      c.stalls.WithLabelValues(strategy),
		switches:    c.switches.WithLabelValues(strategy),
		bitrate:     c.bitrate.WithLabelValues(strategy),
		buffer:      c.buffer.WithLabelValues(strategy),
		bufferLevel: c.bufferLevel.WithLabelValues(sessionID, strategy),
	}
}

// RecordFailure counts a session that produced no score.
func (c *Collector) RecordFailure(strategy string) {
	c.sessions.WithLabelValues(strategy, ResultFailed).Inc()

	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

// Completed returns the number of sessions scored so far.
func (c *Collector) Completed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed
}

// Failed returns the number of failed sessions so far.
func (c *Collector) Failed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// SessionObserver is a playback.Observer bound to one session.
type SessionObserver struct {
	c         *Collector
	sessionID string
	strategy  string

	segments    prometheus.Counter
	stalls      prometheus.Counter
	switches    prometheus.Counter
	bitrate     prometheus.Observer
	buffer      prometheus.Observer
	bufferLevel prometheus.Gauge
}

var _ playback.Observer = (*SessionObserver)(nil)

// OnRecord updates the per-segment series.
func (o *SessionObserver) OnRecord(r playback.Record) {
	o.segments.Inc()
	if r.Stalled {
		o.stalls.Inc()
	}
	if r.Switch {
		o.switches.Inc()
	}
	o.bitrate.Observe(float64(r.BitrateKbps))
	o.buffer.Observe(r.BufferLevelSecs)
	o.bufferLevel.Set(r.BufferLevelSecs)
}

// RecordScore publishes the session's final score and counts it as completed.
func (o *SessionObserver) RecordScore(score qoe.Score) {
	o.c.score.WithLabelValues(o.sessionID, o.strategy).Set(score.FinalScore)
	o.c.sessions.WithLabelValues(o.strategy, ResultCompleted).Inc()

	o.c.mu.Lock()
	o.c.completed++
	o.c.mu.Unlock()
}

// RecordFailure counts the session as failed.
func (o *SessionObserver) RecordFailure() {
	o.c.RecordFailure(o.strategy)
}
