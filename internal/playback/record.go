package playback

// Record is the outcome of one simulated segment.
type Record struct {
	Timestamp       int     `json:"timestamp"`
	BitrateKbps     int     `json:"bitrate_kbps"`
	BufferLevelSecs float64 `json:"buffer_level_secs"`
	Stalled         bool    `json:"stalled"`
	Switch          bool    `json:"switch"`
}

// Observer receives each record as the engine produces it, in order.
type Observer interface {
	OnRecord(Record)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Record)

// OnRecord calls f(r).
func (f ObserverFunc) OnRecord(r Record) { f(r) }
