// Package telemetry produces the simulated system stats attached to newly
// registered devices. Real device communication is out of scope; a Generator
// lets the service stay deterministic in tests.
package telemetry

import (
	"math"
	"math/rand"
	"sync"

	"devicemap/internal/domain/entities"
)

// Generator produces a SystemStats block for a new device.
type Generator interface {
	Generate() entities.SystemStats
}

// Ranges the registration page draws demo stats from.
const (
	minCPU, maxCPU       = 10.0, 90.0
	minRAM, maxRAM       = 20.0, 90.0
	minTemp, maxTemp     = 30.0, 55.0
	minUptime, maxUptime = 0.0, 500.0
)

// RandomGenerator draws stats uniformly from fixed demo ranges.
//
// Go Learning Note: *rand.Rand is not goroutine-safe
// The package-level rand functions lock internally, but a private *rand.Rand
// does not, so the generator guards it with its own mutex.
type RandomGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomGenerator returns a generator seeded with seed, so a given seed
// always yields the same sequence.
func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *RandomGenerator) Generate() entities.SystemStats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return entities.SystemStats{
		CPUUsage:    math.Round(g.between(minCPU, maxCPU)),
		RAMUsage:    math.Round(g.between(minRAM, maxRAM)),
		Temperature: math.Round(g.between(minTemp, maxTemp)),
		Uptime:      math.Round(g.between(minUptime, maxUptime)*10) / 10,
	}
}

func (g *RandomGenerator) between(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// FixedGenerator always returns Stats.
type FixedGenerator struct {
	Stats entities.SystemStats
}

func (g FixedGenerator) Generate() entities.SystemStats {
	return g.Stats
}
