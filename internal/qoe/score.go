// Package qoe reduces a completed session into quality-of-experience indicators.
package qoe

import (
	"errors"
	"math"

	"github.com/mrjaywilson/QOE-Core/internal/playback"
)

// ReferenceBitrate (kbps) normalizes the average bitrate in the final score.
// Sessions averaging above it score above 100.
const ReferenceBitrate = 2000.0

// ErrNoRecords is returned when there is nothing to evaluate.
var ErrNoRecords = errors.New("qoe: no records to evaluate")

// Score is the aggregate quality of one session.
type Score struct {
	AverageBitrate float64 `json:"average_bitrate"`
	StallRatio     float64 `json:"stall_ratio"`
	StallCount     int     `json:"stall_count"`
	SwitchCount    int     `json:"switch_count"`
	SwitchRatio    float64 `json:"switch_ratio"`
	FinalScore     float64 `json:"final_score"`
}

// Evaluate computes the Score of a full record sequence.
//
//	final = round(avg/2000 * (1 - stallRatio) * (1 - min(1, switches/n)) * 100)
//
// Rounding is math.Round: halves round away from zero.
func Evaluate(records []playback.Record) (Score, error) {
	if len(records) == 0 {
		return Score{}, ErrNoRecords
	}

	var (
		totalBitrate int64
		stalls       int
		switches     int
	)
	for _, r := range records {
		totalBitrate += int64(r.BitrateKbps)
		if r.Stalled {
			stalls++
		}
		if r.Switch {
			switches++
		}
	}

	n := float64(len(records))
	avg := float64(totalBitrate) / n
	stallRatio := float64(stalls) / n
	switchRatio := math.Min(1.0, float64(switches)/n)

	return Score{
		AverageBitrate: avg,
		StallRatio:     stallRatio,
		StallCount:     stalls,
		SwitchCount:    switches,
		SwitchRatio:    switchRatio,
		FinalScore:     FinalScore(avg, stallRatio, switchRatio),
	}, nil
}

// FinalScore combines the indicators into the rounded scalar score.
// switchRatio is capped at 1.
func FinalScore(averageBitrate, stallRatio, switchRatio float64) float64 {
	switchRatio = math.Min(1.0, switchRatio)
	raw := (averageBitrate / ReferenceBitrate) * (1 - stallRatio) * (1 - switchRatio)
	return math.Round(raw * 100)
}
