// Update drives one tick of a single colonist's state machine: compute
// the highest-priority candidate from external inputs, preempt if it
// strictly beats the current state (or the soft lock has expired), then
// run the current state's per-tick body.
package colonistfsm

const (
	hungerEatThreshold    = 0.75
	fatigueSleepThreshold = 0.80
	healSeekHPRatio       = 0.35
	downedConsciousness   = 0.10
	threatRadiusTiles     = 8
)

// Update advances one colonist by one tick.
func Update(ctx *Context, c *Colonist) {
	c.SimTimeSec += ctx.DT

	if candidate, ok := evaluateCandidate(ctx, c); ok && c.CanPreempt(candidate.Priority()) {
		onPreempt(ctx, c, candidate)
	}

	dispatch(ctx, c)
}

// evaluateCandidate computes the single highest-priority state the
// colonist's current inputs justify, independent of what it's currently
// doing. Work-state candidates (build/chop/.../cooking) are NOT
// considered here: those are only entered via seek_task committing to a
// WorkGiver candidate, since they require a specific reserved target the
// generic evaluator has no way to pick.
func evaluateCandidate(ctx *Context, c *Colonist) (State, bool) {
	switch {
	case c.Downed:
		return StateDowned, true
	case c.HasThreat && !c.InCombat:
		return StateFlee, true
	case c.Needs.Consciousness <= downedConsciousness:
		c.Downed = true
		return StateDowned, true
	case c.Needs.HP/maxf(c.Needs.MaxHP, 1) <= healThreshold(ctx) && c.State != StateBeingTreated && c.State != StateDoctoring:
		return StateHealSeek, true
	case c.Needs.Hunger >= hungerEatThreshold:
		return StateEat, true
	case c.Needs.Fatigue >= fatigueSleepThreshold:
		return StateGoToSleep, true
	}
	return StateIdle, false
}

func healThreshold(ctx *Context) float64 {
	if ctx.HealThreshold > 0 {
		return ctx.HealThreshold
	}
	return healSeekHPRatio
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// onPreempt switches into a newly justified candidate state, releasing
// whatever reservation the prior state held since it can no longer make
// progress on it.
func onPreempt(ctx *Context, c *Colonist, next State) {
	if !c.Reserved.IsZero() {
		ctx.Reserve.ReleaseWithReason(reservationAgent(c.ID), reservationTarget(c.Reserved), "state_change")
		c.Reserved = TargetRef{}
	}
	c.TransitionTo(ctx, next, "preempt")
}

// dispatch runs the per-tick body for the colonist's current state.
func dispatch(ctx *Context, c *Colonist) {
	switch c.State {
	case StateSeekTask:
		updateSeekTask(ctx, c)
	case StateMove:
		updateMove(ctx, c)
	case StateBuild, StateChop, StateMine, StateHarvest, StateHaul:
		updateWork(ctx, c)
	case StateCooking:
		updateCooking(ctx, c)
	case StateDrafted:
		updateDrafted(ctx, c)
	case StateFlee:
		updateFlee(ctx, c)
	case StateDoctoring:
		updateDoctoring(ctx, c)
	case StateBeingTreated:
		updateBeingTreated(ctx, c)
	case StateDowned:
		updateDowned(ctx, c)
	case StateHealSeek:
		updateHealSeek(ctx, c)
	case StateSleep, StateGoToSleep:
		updateSleep(ctx, c)
	case StateEat:
		updateEat(ctx, c)
	case StateStoreBread:
		updateStoreBread(ctx, c)
	case StateHaulBread:
		updateHaulBread(ctx, c)
	case StateWaitingAtDoor:
		updateWaitingAtDoor(ctx, c)
	case StateResting:
		updateResting(ctx, c)
	case StateIdle:
		updateIdle(ctx, c)
	}
}
