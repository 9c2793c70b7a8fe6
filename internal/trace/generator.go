package trace

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// GeneratorConfig describes a synthetic bandwidth trace.
type GeneratorConfig struct {
	Samples    int     `yaml:"samples"`    // number of segments
	BaseKbps   float64 `yaml:"base_kbps"`  // starting bandwidth
	MinKbps    float64 `yaml:"min_kbps"`   // floor, must be > 0
	MaxKbps    float64 `yaml:"max_kbps"`   // ceiling
	Volatility float64 `yaml:"volatility"` // max relative step per segment, in [0, 1]
	Seed       int64   `yaml:"seed"`       // 0 = seed from current time
}

// DefaultGeneratorConfig returns a 60-segment trace around 1.5 Mbps.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Samples:    60,
		BaseKbps:   1500,
		MinKbps:    200,
		MaxKbps:    4000,
		Volatility: 0.35,
		Seed:       1,
	}
}

// Validate checks that the generator can produce a positive trace.
func (c GeneratorConfig) Validate() error {
	var errs []error
	if c.Samples < 0 {
		errs = append(errs, fmt.Errorf("samples must not be negative (got %d)", c.Samples))
	}
	if !(c.MinKbps > 0) {
		errs = append(errs, fmt.Errorf("min bandwidth must be positive (got %v)", c.MinKbps))
	}
	if c.MaxKbps < c.MinKbps {
		errs = append(errs, fmt.Errorf("max bandwidth %v below min %v", c.MaxKbps, c.MinKbps))
	}
	if c.BaseKbps < c.MinKbps || c.BaseKbps > c.MaxKbps {
		errs = append(errs, fmt.Errorf("base bandwidth %v outside [%v, %v]", c.BaseKbps, c.MinKbps, c.MaxKbps))
	}
	if c.Volatility < 0 || c.Volatility > 1 {
		errs = append(errs, fmt.Errorf("volatility must be in [0, 1] (got %v)", c.Volatility))
	}
	return errors.Join(errs...)
}

// Generator produces reproducible random-walk traces.
// Each seed maps to exactly one trace.
type Generator struct {
	cfg GeneratorConfig
}

// NewGenerator validates cfg and returns a Generator.
// A zero seed is replaced by the current time.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trace generator config: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{cfg: cfg}, nil
}

// Seed returns the effective seed.
func (g *Generator) Seed() int64 { return g.cfg.Seed }

// Trace returns the trace for the configured seed.
func (g *Generator) Trace() []float64 {
	return g.ForRun(0)
}

// ForRun returns the trace of run n. Runs with different n are independent but
// each is reproducible, so batch runs can be replayed one at a time.
func (g *Generator) ForRun(n int) []float64 {
	rng := rand.New(rand.NewSource(g.cfg.Seed ^ int64(n)))

	out := make([]float64, g.cfg.Samples)
	bw := g.cfg.BaseKbps
	for i := range out {
		out[i] = bw

		// Multiplicative step in [-volatility, +volatility].
		step := (rng.Float64()*2 - 1) * g.cfg.Volatility
		bw *= 1 + step
		if bw < g.cfg.MinKbps {
			bw = g.cfg.MinKbps
		}
		if bw > g.cfg.MaxKbps {
			bw = g.cfg.MaxKbps
		}
	}
	return out
}

// Generate is shorthand for NewGenerator(cfg) followed by Trace.
func Generate(cfg GeneratorConfig) ([]float64, error) {
	g, err := NewGenerator(cfg)
	if err != nil {
		return nil, err
	}
	return g.Trace(), nil
}
