// Package randgen is the kernel's deterministic random source. A
// simulation seeded with the same (seed, stream) pair and fed the same
// inputs must reproduce the same outcomes, which rules out the
// teacher's crypto/rand dice roller — crypto/rand is intentionally
// non-reproducible. Grounded on the seeded math/rand.Rand pattern used
// for deterministic gameplay in the turnforge-weewar example (lib/game.go:
// `rand.New(rand.NewSource(seed))`, captured and restored via the
// game's own Seed field).
package randgen

import "math/rand"

// State is the persistable form of a Source: seed and stream together
// fully determine every future draw.
type State struct {
	Seed   uint64
	Stream uint64
}

// Source is a seeded, reproducible random number generator. Stream lets
// two Sources built from the same seed draw independent sequences (one
// per subsystem: AI decisions, loot rolls, weather) without one
// subsystem's draws perturbing another's.
type Source struct {
	state State
	rng   *rand.Rand
}

// New creates a Source from a seed and stream identifier. The stream is
// mixed into the seed via a fixed odd multiplier so distinct streams
// from the same seed diverge immediately rather than only after
// many draws.
func New(seed, stream uint64) *Source {
	mixed := seed ^ (stream*0x9E3779B97F4A7C15 + 0x2545F4914F6CDD1D)
	return &Source{
		state: State{Seed: seed, Stream: stream},
		rng:   rand.New(rand.NewSource(int64(mixed))),
	}
}

// FromState recreates a Source exactly as New would from the same
// (seed, stream) pair — used when loading a saved simulation.
func FromState(s State) *Source {
	return New(s.Seed, s.Stream)
}

// State returns the (seed, stream) pair that reconstructs this Source's
// starting point. Note this does not capture in-progress draw position:
// reproducibility across save/load is guaranteed only up to the point a
// save is taken and replayed from tick zero of that save, matching the
// kernel's documented persistence guarantee.
func (s *Source) State() State {
	return s.state
}

// IntBetween returns a uniformly distributed integer in [low, high]
// inclusive.
func (s *Source) IntBetween(low, high int) int {
	if high <= low {
		return low
	}
	return low + s.rng.Intn(high-low+1)
}

// DiceRoll returns a uniformly distributed integer in [1, sides].
func (s *Source) DiceRoll(sides int) int {
	if sides <= 0 {
		return 1
	}
	return s.rng.Intn(sides) + 1
}

// Float64 returns a uniformly distributed float in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// Chance returns true with probability p (clamped to [0, 1]).
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// Shuffle permutes a slice of length n in place using Fisher-Yates via
// swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
