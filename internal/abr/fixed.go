package abr

// Fixed ignores network conditions and always returns BitrateKbps.
type Fixed struct {
	BitrateKbps int
}

// SelectBitrate returns the configured bitrate.
func (f Fixed) SelectBitrate(_, _ float64) int {
	return f.BitrateKbps
}

// Name returns "fixed".
func (Fixed) Name() string { return KindFixed.String() }
