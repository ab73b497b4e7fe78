package simclock

import (
	"testing"
	"time"
)

func TestAdvanceProducesExpectedTickCount(t *testing.T) {
	c := New(30)
	ticks := c.Advance(3 * c.TickDuration())
	if ticks != 3 {
		t.Fatalf("Advance = %d, want 3", ticks)
	}
	if c.TickCount() != 3 {
		t.Fatalf("TickCount = %d, want 3", c.TickCount())
	}
}

func TestAdvanceAccumulatesPartialTicks(t *testing.T) {
	c := New(30)
	half := c.TickDuration() / 2
	if ticks := c.Advance(half); ticks != 0 {
		t.Fatalf("Advance(half) = %d, want 0", ticks)
	}
	if ticks := c.Advance(half); ticks != 1 {
		t.Fatalf("Advance(half) second call = %d, want 1", ticks)
	}
}

func TestAdvanceWhilePausedReturnsZero(t *testing.T) {
	c := New(30)
	c.SetPaused(true)
	if ticks := c.Advance(10 * c.TickDuration()); ticks != 0 {
		t.Fatalf("Advance while paused = %d, want 0", ticks)
	}
}

func TestAdvanceRespectsFrameCatchupCap(t *testing.T) {
	c := New(30)
	c.SetFrameCatchup(2)
	ticks := c.Advance(10 * c.TickDuration())
	if ticks != 2 {
		t.Fatalf("Advance with catchup cap 2 = %d, want 2", ticks)
	}
}

func TestSetFrameCatchupNonPositiveFallsBackToDefault(t *testing.T) {
	c := New(30)
	c.SetFrameCatchup(0)
	ticks := c.Advance(time.Duration(DefaultFrameCatchup+3) * c.TickDuration())
	if ticks != DefaultFrameCatchup {
		t.Fatalf("Advance after resetting catchup = %d, want %d", ticks, DefaultFrameCatchup)
	}
}

func TestSetSpeedScalesAccumulation(t *testing.T) {
	c := New(30)
	c.SetSpeed(2.0)
	ticks := c.Advance(c.TickDuration() / 2)
	if ticks != 1 {
		t.Fatalf("Advance at 2x speed over half a tick = %d, want 1", ticks)
	}
}

func TestSetSpeedNegativeClampsToZero(t *testing.T) {
	c := New(30)
	c.SetSpeed(-5)
	if ticks := c.Advance(100 * c.TickDuration()); ticks != 0 {
		t.Fatalf("Advance with negative speed clamped to 0 = %d, want 0", ticks)
	}
}
