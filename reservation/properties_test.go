package reservation

import (
	"testing"

	"pgregory.net/rapid"
)

// TestHolderCountNeverExceedsMaxCrew checks the reservation crew bound:
// regardless of how many agents attempt to reserve the same target, in
// whatever order, the number of simultaneous holders never exceeds the
// target's maxCrew.
func TestHolderCountNeverExceedsMaxCrew(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := New(nil)
		const target TargetID = 1
		maxCrew := rapid.IntRange(1, 5).Draw(rt, "maxCrew")
		numAgents := rapid.IntRange(1, 10).Draw(rt, "numAgents")

		for i := 0; i < numAgents; i++ {
			agent := AgentID(i + 1)
			r.TryReserve(agent, target, maxCrew)
			if r.HolderCount(target) > maxCrew {
				rt.Fatalf("HolderCount = %d after agent %d, want <= maxCrew %d", r.HolderCount(target), agent, maxCrew)
			}
		}
	})
}

// TestReserveThenReleaseIsIdempotentAndFullyReversible checks the
// reserve+release round-trip law: reserving then releasing a target
// returns HolderCount to exactly what it was before, and a second
// release is a no-op.
func TestReserveThenReleaseIsIdempotentAndFullyReversible(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := New(nil)
		const target TargetID = 1
		const agent AgentID = 1
		before := r.HolderCount(target)

		if !r.TryReserve(agent, target, 1) {
			rt.Fatal("expected the first reservation on an empty target to succeed")
		}
		r.Release(agent, target)
		r.Release(agent, target) // idempotent double release

		if got := r.HolderCount(target); got != before {
			rt.Fatalf("HolderCount after reserve+release = %d, want %d", got, before)
		}
	})
}
