package abr

// Buffer tiers, highest first. A level equal to a threshold selects that tier.
var bufferTiers = []struct {
	minBufferSecs float64
	bitrateKbps   int
}{
	{4.0, 1500},
	{2.0, 1000},
	{1.0, 750},
}

// bufferFloorBitrate is used below the lowest tier.
const bufferFloorBitrate = 500

// BufferBased selects a bitrate from the buffer level alone.
type BufferBased struct{}

// SelectBitrate maps the buffer level to a bitrate tier; bandwidth is ignored.
func (BufferBased) SelectBitrate(_, bufferLevelSecs float64) int {
	for _, tier := range bufferTiers {
		if bufferLevelSecs >= tier.minBufferSecs {
			return tier.bitrateKbps
		}
	}
	return bufferFloorBitrate
}

// Name returns "buffer".
func (BufferBased) Name() string { return KindBufferBased.String() }
