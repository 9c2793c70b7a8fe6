package abr

// Throughput tiers, highest first, keyed on the windowed mean bandwidth (kbps).
var throughputTiers = []struct {
	minMeanKbps float64
	bitrateKbps int
}{
	{1800, 2000},
	{1200, 1500},
	{800, 1000},
}

// throughputFloorBitrate is used below the lowest tier.
const throughputFloorBitrate = 500

// ThroughputBased selects a bitrate from the mean of the last N bandwidth samples.
//
// Samples are kept in a ring buffer of fixed capacity N; once full, each new
// sample overwrites the oldest one.
type ThroughputBased struct {
	samples  []float64
	writeIdx int // next position to overwrite once the buffer is full
	size     int
}

// NewThroughputBased creates a strategy averaging over windowSize samples.
// A windowSize below 1 is treated as 1.
func NewThroughputBased(windowSize int) *ThroughputBased {
	if windowSize < 1 {
		windowSize = 1
	}
	return &ThroughputBased{
		samples: make([]float64, 0, windowSize),
		size:    windowSize,
	}
}

// SelectBitrate records the sample and maps the windowed mean to a bitrate tier.
func (t *ThroughputBased) SelectBitrate(bandwidthKbps, _ float64) int {
	t.record(bandwidthKbps)

	mean := t.Mean()
	for _, tier := range throughputTiers {
		if mean >= tier.minMeanKbps {
			return tier.bitrateKbps
		}
	}
	return throughputFloorBitrate
}

// record appends a sample, evicting the oldest once the window is full.
func (t *ThroughputBased) record(bandwidthKbps float64) {
	if len(t.samples) < t.size {
		t.samples = append(t.samples, bandwidthKbps)
		return
	}
	t.samples[t.writeIdx] = bandwidthKbps
	t.writeIdx = (t.writeIdx + 1) % t.size
}

// Mean returns the arithmetic mean of the retained samples, or 0 before the first call.
func (t *ThroughputBased) Mean() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range t.samples {
		sum += s
	}
	return sum / float64(len(t.samples))
}

// Window returns the retained samples, oldest first.
func (t *ThroughputBased) Window() []float64 {
	out := make([]float64, 0, len(t.samples))
	if len(t.samples) < t.size {
		return append(out, t.samples...)
	}
	out = append(out, t.samples[t.writeIdx:]...)
	return append(out, t.samples[:t.writeIdx]...)
}

// Len returns the number of retained samples (never more than the window size).
func (t *ThroughputBased) Len() int { return len(t.samples) }

// WindowSize returns the configured window size.
func (t *ThroughputBased) WindowSize() int { return t.size }

// Name returns "throughput".
func (*ThroughputBased) Name() string { return KindThroughputBased.String() }
