// Package simclock drives the fixed-step logical tick that decouples
// simulation time from wall-clock rendering time. Grounded on the
// teacher's turn-based ActionManager (timesystem/timemanager.go), but
// replacing "advance one discrete turn when the player acts" with a
// fixed-rate accumulator suitable for a continuously running colony sim.
package simclock

import "time"

// DefaultTickRate is TICK_RATE from the kernel config: 30 ticks/second.
const DefaultTickRate = 30

// DefaultFrameCatchup is FRAME_TICK_CATCHUP: the maximum number of ticks
// advanced in a single Advance call, bounding the "spiral of death" when a
// frame runs long.
const DefaultFrameCatchup = 5

// Clock accumulates wall-clock deltas and reports how many whole logical
// ticks have elapsed, honoring pause and a fast-forward multiplier.
type Clock struct {
	tickRate   int
	tickDur    time.Duration
	accum      time.Duration
	paused     bool
	speed      float64
	maxCatchup int
	tickCount  uint64
}

// New creates a Clock at the given tick rate (ticks/second).
func New(tickRate int) *Clock {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	// tickDur is rounded up, so two halves of a tick always add up to at
	// least one whole tick.
	return &Clock{
		tickRate:   tickRate,
		tickDur:    (time.Second + time.Duration(tickRate) - 1) / time.Duration(tickRate),
		speed:      1.0,
		maxCatchup: DefaultFrameCatchup,
	}
}

// SetPaused freezes or resumes tick advancement. Rendering and input are
// unaffected by this — simclock has no notion of either.
func (c *Clock) SetPaused(paused bool) {
	c.paused = paused
}

// Paused reports the current pause state.
func (c *Clock) Paused() bool {
	return c.paused
}

// SetSpeed sets the fast-forward multiplier applied to wall-clock deltas
// before they are converted to ticks. 1.0 is normal speed.
func (c *Clock) SetSpeed(multiplier float64) {
	if multiplier < 0 {
		multiplier = 0
	}
	c.speed = multiplier
}

// SetFrameCatchup overrides the maximum number of ticks advanced per
// Advance call, letting config.Resolved.FrameTickCatchup tune the
// spiral-of-death guard instead of it being fixed at DefaultFrameCatchup.
func (c *Clock) SetFrameCatchup(n int) {
	if n <= 0 {
		n = DefaultFrameCatchup
	}
	c.maxCatchup = n
}

// TickDuration returns the simulated duration of one tick.
func (c *Clock) TickDuration() time.Duration {
	return c.tickDur
}

// TickCount returns the total number of ticks advanced so far.
func (c *Clock) TickCount() uint64 {
	return c.tickCount
}

// Advance accumulates a wall-clock delta and returns the number of whole
// ticks the caller should now simulate (0 if paused or not enough time
// has accumulated), capped at maxCatchup per call to avoid a spiral of
// death when a frame runs long.
func (c *Clock) Advance(wallDelta time.Duration) int {
	if c.paused {
		return 0
	}
	scaled := time.Duration(float64(wallDelta) * c.speed)
	c.accum += scaled

	ticks := 0
	for c.accum >= c.tickDur && ticks < c.maxCatchup {
		c.accum -= c.tickDur
		ticks++
		c.tickCount++
	}
	// Drop any further backlog rather than let it balloon across frames:
	// the caller already consumed maxCatchup ticks worth of simulated
	// time this call.
	if ticks == c.maxCatchup && c.accum >= c.tickDur {
		c.accum = c.accum % c.tickDur
	}
	return ticks
}
