// Package abr provides the bitrate selection strategies used by the playback engine.
package abr

import "fmt"

// Kind identifies a strategy variant.
type Kind uint32

const (
	// KindFixed always requests the same bitrate.
	KindFixed Kind = iota

	// KindBufferBased picks a bitrate from the current buffer level.
	KindBufferBased

	// KindThroughputBased picks a bitrate from a moving average of bandwidth.
	KindThroughputBased
)

// String returns the name used on the command line and in reports.
func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindBufferBased:
		return "buffer"
	case KindThroughputBased:
		return "throughput"
	default:
		return "unknown"
	}
}

// Kinds lists every strategy variant in code order.
func Kinds() []Kind {
	return []Kind{KindFixed, KindBufferBased, KindThroughputBased}
}

// ParseKind converts a strategy name to a Kind.
// Unlike KindFromCode, unknown names are an error.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "fixed":
		return KindFixed, nil
	case "buffer", "buffer-based":
		return KindBufferBased, nil
	case "throughput", "throughput-based":
		return KindThroughputBased, nil
	default:
		return KindFixed, fmt.Errorf("unknown strategy %q (want fixed, buffer or throughput)", name)
	}
}

// KindFromCode maps a numeric selector (0, 1, 2) to a Kind.
// Unknown codes fall back to KindFixed; ok reports whether the code was recognized.
func KindFromCode(code uint32) (k Kind, ok bool) {
	switch Kind(code) {
	case KindFixed, KindBufferBased, KindThroughputBased:
		return Kind(code), true
	default:
		return KindFixed, false
	}
}
