// Package trace supplies bandwidth traces (kbps per segment) to the playback engine.
//
// A trace is fully materialized before a session starts. Sources:
//   - Default: the fixed 10-sample reference trace
//   - Generate: a seeded random walk, reproducible for a given seed
//   - Load / Parse: samples read from a text or CSV file
package trace

// defaultSamples is the reference trace. It ramps down from a high-bandwidth
// start through a dip and recovers, so every throughput tier is exercised.
var defaultSamples = []float64{
	3000, 2600, 2100, 1500, 900,
	700, 1100, 1600, 2400, 2800,
}

// Default returns a copy of the 10-sample reference trace.
func Default() []float64 {
	out := make([]float64, len(defaultSamples))
	copy(out, defaultSamples)
	return out
}
