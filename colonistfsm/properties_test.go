package colonistfsm

import (
	"testing"

	"pgregory.net/rapid"
)

var allStates = []State{
	StateIdle, StateSeekTask, StateMove, StateBuild, StateChop, StateMine,
	StateHarvest, StateHaul, StateCooking, StateStoreBread, StateHaulBread,
	StateResting, StateSleep, StateGoToSleep, StateEat, StateHealSeek,
	StateDowned, StateDoctoring, StateBeingTreated, StateWaitingAtDoor,
	StateDrafted, StateFlee,
}

// TestCanPreemptNeverAllowsALowerOrEqualPriorityOutOfACriticalState checks
// priority-preemption correctness: a colonist in a Critical state never
// yields to a candidate whose priority does not strictly exceed its own.
func TestCanPreemptNeverAllowsALowerOrEqualPriorityOutOfACriticalState(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cur := rapid.SampledFrom(allStates).Draw(rt, "state")
		if !cur.Critical() {
			rt.Skip("only critical states are in scope for this property")
		}
		c := &Colonist{State: cur}
		candidatePriority := rapid.IntRange(0, cur.Priority()).Draw(rt, "candidatePriority")

		if c.CanPreempt(candidatePriority) {
			rt.Fatalf("critical state %v allowed preemption by priority %d (own priority %d)", cur, candidatePriority, cur.Priority())
		}
	})
}

// TestCanPreemptAlwaysAllowsAStrictlyHigherPriorityCandidate checks the
// other half of priority-preemption correctness: a strictly higher
// priority candidate always wins, regardless of soft lock state or
// criticality.
func TestCanPreemptAlwaysAllowsAStrictlyHigherPriorityCandidate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cur := rapid.SampledFrom(allStates).Draw(rt, "state")
		if cur.Priority() >= 100 {
			rt.Skip("no priority above the maximum state priority to test with")
		}
		c := &Colonist{
			State:         cur,
			SimTimeSec:    rapid.Float64Range(0, 10).Draw(rt, "simTime"),
			SoftLockUntil: rapid.Float64Range(0, 20).Draw(rt, "softLockUntil"),
		}
		candidatePriority := rapid.IntRange(cur.Priority()+1, 100).Draw(rt, "candidatePriority")

		if !c.CanPreempt(candidatePriority) {
			rt.Fatalf("strictly higher priority %d failed to preempt state %v (priority %d)", candidatePriority, cur, cur.Priority())
		}
	})
}

// TestCanPreemptRespectsSoftLockForNonCriticalEqualOrLowerPriority checks
// that outside a critical state, an equal-or-lower priority candidate
// only preempts once the soft lock has expired.
func TestCanPreemptRespectsSoftLockForNonCriticalEqualOrLowerPriority(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		cur := rapid.SampledFrom(allStates).Draw(rt, "state")
		if cur.Critical() {
			rt.Skip("critical states are covered by a separate property")
		}
		c := &Colonist{State: cur}
		candidatePriority := rapid.IntRange(0, cur.Priority()).Draw(rt, "candidatePriority")

		c.SimTimeSec = 5
		c.SoftLockUntil = 10 // still locked
		if c.CanPreempt(candidatePriority) {
			rt.Fatalf("an active soft lock allowed an equal-or-lower priority (%d) to preempt state %v (priority %d)", candidatePriority, cur, cur.Priority())
		}

		c.SoftLockUntil = 5 // lock expired
		if !c.CanPreempt(candidatePriority) {
			rt.Fatalf("an expired soft lock still blocked an equal-or-lower priority (%d) from preempting state %v", candidatePriority, cur)
		}
	})
}
