package playback

import (
	"testing"

	"github.com/mrjaywilson/QOE-Core/internal/abr"
	"github.com/mrjaywilson/QOE-Core/internal/trace"
)

// End-to-end runs over the reference trace.

func TestScenario_ThroughputOverDefaultTrace(t *testing.T) {
	cfg := DefaultSessionConfig()
	cfg.Strategy = abr.Config{Kind: abr.KindThroughputBased, WindowSize: 3}
	e := mustEngine(t, cfg)

	records := mustRun(t, e, trace.Default())
	if len(records) != 10 {
		t.Fatalf("len = %d, want 10", len(records))
	}

	belowTop := false
	for _, r := range records {
		if r.BitrateKbps < 2000 {
			belowTop = true
		}
	}
	if !belowTop {
		t.Error("expected at least one record below the 2000 kbps tier")
	}
}

func TestScenario_AllStrategiesOverDefaultTrace(t *testing.T) {
	for _, kind := range abr.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			cfg := DefaultSessionConfig()
			cfg.Strategy.Kind = kind
			e := mustEngine(t, cfg)

			records := mustRun(t, e, trace.Default())
			if len(records) != 10 {
				t.Fatalf("len = %d, want 10", len(records))
			}
			if !records[0].Stalled {
				t.Error("first segment should stall on an empty buffer")
			}
		})
	}
}
