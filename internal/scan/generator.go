package scan

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/roman-kulish/spectrum-scanner/internal/spectrum"
)

// Generator produces samples for a validated configuration. Samples are sent
// on out in discovery order; every sample lies inside a scan range and
// outside every ignored range. Generate returns once acquisition completes and
// never closes out. When ctx is cancelled it returns ctx.Err() and the samples
// already sent stand.
type Generator interface {
	Generate(ctx context.Context, config *Config, out chan<- spectrum.Sample) error
}

// RandSource supplies uniformly distributed values in [0, 1).
type RandSource interface {
	Float64() float64
}

// MockGenerator stands in for an acquisition backend. It emits one sample per
// scan range boundary with a uniformly random strength in [0, 100) dB.
type MockGenerator struct {
	mu  sync.Mutex
	rng RandSource
}

// NewMockGenerator creates a mock generator drawing strengths from rng. A nil
// rng uses the package-level source of math/rand/v2.
func NewMockGenerator(rng RandSource) *MockGenerator {
	if rng == nil {
		rng = globalRand{}
	}
	return &MockGenerator{rng: rng}
}

// NewSeededMockGenerator creates a mock generator with a deterministic PCG source.
func NewSeededMockGenerator(seed uint64) *MockGenerator {
	return NewMockGenerator(rand.New(rand.NewPCG(seed, seed)))
}

func (g *MockGenerator) Generate(ctx context.Context, config *Config, out chan<- spectrum.Sample) error {
	for _, r := range config.ScanRanges {
		for _, f := range []float64{r.Start, r.Stop} {
			if config.IgnoredRanges.Contains(f) {
				continue
			}

			sample := spectrum.Sample{Frequency: f, Strength: g.strength()}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- sample:
			}
		}
	}

	return nil
}

func (g *MockGenerator) strength() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.rng.Float64() * 100
}

type globalRand struct{}

func (globalRand) Float64() float64 {
	return rand.Float64()
}
