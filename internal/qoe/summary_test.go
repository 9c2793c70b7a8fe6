package qoe

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
)

func TestSummarize_Constant(t *testing.T) {
	s, err := Summarize(constantRecords(20, 1000, 0, 0), 1.0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if s.Segments != 20 {
		t.Errorf("Segments = %d, want 20", s.Segments)
	}
	for name, got := range map[string]float64{
		"BufferMin": s.BufferMin, "BufferMax": s.BufferMax, "BufferMean": s.BufferMean,
		"BufferP50": s.BufferP50, "BufferP95": s.BufferP95, "BufferP99": s.BufferP99,
	} {
		if math.Abs(got-1) > 1e-9 {
			t.Errorf("%s = %v, want 1", name, got)
		}
	}
	if s.BitrateMin != 1000 || s.BitrateMax != 1000 {
		t.Errorf("bitrate range = [%d, %d], want [1000, 1000]", s.BitrateMin, s.BitrateMax)
	}
}

func TestSummarize_Stalls(t *testing.T) {
	records := []playback.Record{
		{Timestamp: 0, BitrateKbps: 500, Stalled: true},
		{Timestamp: 1, BitrateKbps: 500, Stalled: true},
		{Timestamp: 2, BitrateKbps: 750, BufferLevelSecs: 1},
		{Timestamp: 3, BitrateKbps: 750, Stalled: true},
		{Timestamp: 4, BitrateKbps: 1000, BufferLevelSecs: 2},
	}

	s, err := Summarize(records, 2.0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if s.StallEvents != 2 {
		t.Errorf("StallEvents = %d, want 2", s.StallEvents)
	}
	if s.LongestStallRun != 2 {
		t.Errorf("LongestStallRun = %d, want 2", s.LongestStallRun)
	}
	if s.StallSeconds != 6.0 {
		t.Errorf("StallSeconds = %v, want 6", s.StallSeconds)
	}

	wantShare := map[int]int{500: 2, 750: 2, 1000: 1}
	if diff := cmp.Diff(wantShare, s.BitrateShare); diff != "" {
		t.Errorf("BitrateShare mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{500, 750, 1000}, s.Bitrates()); diff != "" {
		t.Errorf("Bitrates mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_PercentilesWithinRange(t *testing.T) {
	records := make([]playback.Record, 100)
	for i := range records {
		records[i] = playback.Record{
			Timestamp:       i,
			BitrateKbps:     500 + (i%4)*500,
			BufferLevelSecs: float64(i) / 10,
		}
	}

	s, err := Summarize(records, 1.0)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if !(s.BufferMin <= s.BufferP50 && s.BufferP50 <= s.BufferP95 && s.BufferP95 <= s.BufferP99 && s.BufferP99 <= s.BufferMax) {
		t.Errorf("buffer percentiles out of order: min=%v p50=%v p95=%v p99=%v max=%v",
			s.BufferMin, s.BufferP50, s.BufferP95, s.BufferP99, s.BufferMax)
	}
	if math.Abs(s.BufferP50-5.0) > 0.5 {
		t.Errorf("BufferP50 = %v, want about 5", s.BufferP50)
	}
	if s.BitrateP95 < float64(s.BitrateMin) || s.BitrateP95 > float64(s.BitrateMax) {
		t.Errorf("BitrateP95 = %v outside [%d, %d]", s.BitrateP95, s.BitrateMin, s.BitrateMax)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if _, err := Summarize(nil, 1); !errors.Is(err, ErrNoRecords) {
		t.Errorf("error = %v, want ErrNoRecords", err)
	}
}
