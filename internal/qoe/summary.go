package qoe

import (
	"math"
	"sort"

	"github.com/influxdata/tdigest"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
)

// digestCompression bounds the number of centroids per digest.
const digestCompression = 100

// Summary holds distribution statistics of a session beyond the Score.
type Summary struct {
	Segments int `json:"segments"`

	// Buffer level distribution (seconds)
	BufferMin  float64 `json:"buffer_min_secs"`
	BufferMax  float64 `json:"buffer_max_secs"`
	BufferMean float64 `json:"buffer_mean_secs"`
	BufferP50  float64 `json:"buffer_p50_secs"`
	BufferP95  float64 `json:"buffer_p95_secs"`
	BufferP99  float64 `json:"buffer_p99_secs"`

	// Bitrate distribution (kbps)
	BitrateMin int     `json:"bitrate_min_kbps"`
	BitrateMax int     `json:"bitrate_max_kbps"`
	BitrateP50 float64 `json:"bitrate_p50_kbps"`
	BitrateP95 float64 `json:"bitrate_p95_kbps"`

	// BitrateShare is the number of segments played at each bitrate.
	BitrateShare map[int]int `json:"bitrate_share"`

	// Stalls
	StallSeconds    float64 `json:"stall_seconds"`     // stalled segments * segment duration
	StallEvents     int     `json:"stall_events"`      // runs of consecutive stalled segments
	LongestStallRun int     `json:"longest_stall_run"` // segments
}

// Summarize computes distribution statistics for records.
// segmentDuration converts stalled segments into seconds.
func Summarize(records []playback.Record, segmentDuration float64) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecords
	}

	bufferDigest := tdigest.NewWithCompression(digestCompression)
	bitrateDigest := tdigest.NewWithCompression(digestCompression)

	s := Summary{
		Segments:     len(records),
		BufferMin:    math.Inf(1),
		BufferMax:    math.Inf(-1),
		BitrateMin:   math.MaxInt,
		BitrateShare: make(map[int]int),
	}

	var bufferSum float64
	var run int
	for _, r := range records {
		bufferDigest.Add(r.BufferLevelSecs, 1)
		bitrateDigest.Add(float64(r.BitrateKbps), 1)

		bufferSum += r.BufferLevelSecs
		s.BufferMin = math.Min(s.BufferMin, r.BufferLevelSecs)
		s.BufferMax = math.Max(s.BufferMax, r.BufferLevelSecs)
		s.BitrateMin = min(s.BitrateMin, r.BitrateKbps)
		s.BitrateMax = max(s.BitrateMax, r.BitrateKbps)
		s.BitrateShare[r.BitrateKbps]++

		if r.Stalled {
			if run == 0 {
				s.StallEvents++
			}
			run++
			s.LongestStallRun = max(s.LongestStallRun, run)
			s.StallSeconds += segmentDuration
		} else {
			run = 0
		}
	}

	s.BufferMean = bufferSum / float64(len(records))
	s.BufferP50 = clamp(bufferDigest.Quantile(0.50), s.BufferMin, s.BufferMax)
	s.BufferP95 = clamp(bufferDigest.Quantile(0.95), s.BufferMin, s.BufferMax)
	s.BufferP99 = clamp(bufferDigest.Quantile(0.99), s.BufferMin, s.BufferMax)
	s.BitrateP50 = clamp(bitrateDigest.Quantile(0.50), float64(s.BitrateMin), float64(s.BitrateMax))
	s.BitrateP95 = clamp(bitrateDigest.Quantile(0.95), float64(s.BitrateMin), float64(s.BitrateMax))

	return s, nil
}

// Bitrates returns the distinct bitrates in ascending order.
func (s Summary) Bitrates() []int {
	out := make([]int, 0, len(s.BitrateShare))
	for b := range s.BitrateShare {
		out = append(out, b)
	}
	sort.Ints(out)
	return out
}

// clamp keeps digest estimates inside the observed range.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
