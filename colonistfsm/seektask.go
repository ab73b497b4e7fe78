package colonistfsm

import "github.com/colonykernel/sim/reservation"

const idleReevalDelaySec = 1.0

// taskKindToState maps a WorkGiver's taskKind label to the FSM state
// that performs it. Unrecognized kinds are skipped, not committed to.
func taskKindToState(kind string) (State, bool) {
	switch kind {
	case "build":
		return StateBuild, true
	case "chop":
		return StateChop, true
	case "mine":
		return StateMine, true
	case "harvest":
		return StateHarvest, true
	case "haul":
		return StateHaul, true
	case "cook":
		return StateCooking, true
	case "store_bread":
		return StateStoreBread, true
	case "haul_bread":
		return StateHaulBread, true
	}
	return StateIdle, false
}

// updateSeekTask requests candidates from every registered work giver,
// in giver-registration order, and commits to the first one whose
// target is reachable and reservable. Never double-reserves: it only
// calls TryReserve once, on the candidate it is about to commit to.
func updateSeekTask(ctx *Context, c *Colonist) {
	for _, giver := range ctx.Givers {
		for _, cand := range giver.Candidates(c, ctx) {
			state, ok := taskKindToState(cand.TaskKind)
			if !ok {
				continue
			}
			targetWorld := ctx.Grid.Coords.Center(cand.Target.Tile)
			if !ctx.Regions.IsReachable(c.Position, targetWorld, c.Profile) {
				continue
			}
			if !ctx.Reserve.TryReserve(reservationAgent(c.ID), reservationTarget(cand.Target), 1) {
				continue
			}
			c.Target = cand.Target
			c.Reserved = cand.Target
			c.WorkProgress = 0
			c.WorkTimeoutSec = 0

			// Commit: travel to the target first via the generic move
			// state, then enter the work state once arrived.
			c.AfterMove = state
			beginMove(ctx, c, targetWorld, ctx.WorkRadiusWorld)
			c.TransitionTo(ctx, StateMove, "committed")
			return
		}
	}
	c.TransitionTo(ctx, StateIdle, "no_candidates")
	c.SeekReevalAt = c.SimTimeSec + idleReevalDelaySec + idleReevalJitter(ctx)
}

// idleReevalJitter spreads idle colonists' re-evaluation ticks across a
// small window instead of having every colonist that went idle on the
// same tick hammer every work giver again on the same future tick.
func idleReevalJitter(ctx *Context) float64 {
	if ctx.RNG == nil {
		return 0
	}
	return ctx.RNG.Float64() * idleReevalDelaySec
}

// updateIdle periodically re-attempts seek_task.
func updateIdle(ctx *Context, c *Colonist) {
	if c.SimTimeSec >= c.SeekReevalAt {
		c.TransitionTo(ctx, StateSeekTask, "reeval")
	}
}

// updateMove advances the generic top-level move order and, on
// arrival, hands control to AfterMove. On failure it emits path_failed
// and falls back to seek_task, releasing whatever reservation the
// colonist was moving to honor.
func updateMove(ctx *Context, c *Colonist) {
	switch stepMove(ctx, c) {
	case moveArrived:
		next := c.AfterMove
		c.AfterMove = StateIdle
		c.TransitionTo(ctx, next, "arrived")
	case moveFailed:
		if ctx.Bus != nil {
			goalTile := ctx.Grid.Coords.TileAt(c.Move.Goal)
			ctx.Bus.Publish(pathFailedEvent(ctx.Tick, c.ID, goalTile))
		}
		releaseCurrentReservation(ctx, c, reservation.ReasonTimeout)
		c.TransitionTo(ctx, StateSeekTask, "path_fail")
	case moveInProgress:
	}
}

// releaseCurrentReservation releases whatever target the colonist
// currently holds, if any, for the given reason.
func releaseCurrentReservation(ctx *Context, c *Colonist, reason reservation.ReleaseReason) {
	if c.Reserved.IsZero() {
		return
	}
	ctx.Reserve.ReleaseWithReason(reservationAgent(c.ID), reservationTarget(c.Reserved), reason)
	c.Reserved = TargetRef{}
}
