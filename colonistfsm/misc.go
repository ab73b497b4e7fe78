package colonistfsm

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/reservation"
)

// updateDrafted replaces task selection with player orders. The kernel
// sets c.Target/c.Move directly via its command API before calling
// Update; this state only keeps the move contract running and lets the
// generic preemption check continue to apply combat inputs (flee is
// still possible from here only if InCombat is false, matching the
// spec's "replaces task selection... allows combat actions").
func updateDrafted(ctx *Context, c *Colonist) {
	if c.Move.Active {
		stepMove(ctx, c)
	}
}

// updateFlee routes the colonist toward the nearest tile outside the
// threat radius via a region-BFS-aware path request, ignoring normal
// work priorities and any held reservation.
func updateFlee(ctx *Context, c *Colonist) {
	if !c.Move.Active && !c.Move.Pending {
		safe := findSafeTile(ctx, c)
		beginMove(ctx, c, ctx.Grid.Coords.Center(safe), ctx.ArrivalEpsWorld)
	}
	switch stepMove(ctx, c) {
	case moveArrived, moveFailed:
		c.HasThreat = false
		c.TransitionTo(ctx, StateSeekTask, "safe")
	case moveInProgress:
	}
}

// findSafeTile picks a destination tile directly away from the threat.
// A minimal, always-terminating fallback: step along the vector from
// threat to colonist, clamped to the grid. Full region-aware flee
// routing is provided by the kernel's own DangerOverlay-driven path
// requests (ctx.Danger); this just picks the nominal destination tile
// fed into beginMove.
func findSafeTile(ctx *Context, c *Colonist) coords.Tile {
	cur := ctx.Grid.Coords.TileAt(c.Position)
	dx := cur.X - c.ThreatTile.X
	dy := cur.Y - c.ThreatTile.Y
	if dx == 0 && dy == 0 {
		dx = 1
	}
	const fleeDistanceTiles = 12
	safe := coords.Tile{X: cur.X + sign(dx)*fleeDistanceTiles, Y: cur.Y + sign(dy)*fleeDistanceTiles}
	if safe.X < 0 {
		safe.X = 0
	} else if safe.X >= ctx.Grid.Cols {
		safe.X = ctx.Grid.Cols - 1
	}
	if safe.Y < 0 {
		safe.Y = 0
	} else if safe.Y >= ctx.Grid.Rows {
		safe.Y = ctx.Grid.Rows - 1
	}
	return safe
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// updateDoctoring: the doctor travels along any active move order, then
// accumulates WorkProgress each tick and, once it reaches
// WorkTimeoutSec, releases its reservation and returns to seek_task.
// The patient is named by c.Target (TargetAgent). This state claims no
// tile reservation of its own and records no treatment quality.
func updateDoctoring(ctx *Context, c *Colonist) {
	if c.Move.Active || c.Move.Pending {
		switch stepMove(ctx, c) {
		case moveFailed:
			releaseCurrentReservation(ctx, c, reservation.ReasonTimeout)
			c.TransitionTo(ctx, StateSeekTask, "path_fail")
		case moveArrived, moveInProgress:
		}
		return
	}
	// Treatment quality accounting is external (injury record); this
	// state only guarantees bounded per-tick progress and eventual
	// release.
	c.WorkProgress += ctx.DT
	if c.WorkProgress >= WorkTimeoutSec {
		releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
		c.TransitionTo(ctx, StateSeekTask, "treatment_complete")
	}
}

// updateBeingTreated keeps the patient stationary; nothing to do beyond
// waiting for the doctor (or the needs model) to release this state.
func updateBeingTreated(ctx *Context, c *Colonist) {
}

// updateDowned: cannot move; needs still tick via the kernel's needs
// update pass (outside this FSM). A doctor rescuing the colonist clears
// Downed externally, which re-enables preemption out of this state.
func updateDowned(ctx *Context, c *Colonist) {
	if !c.Downed {
		c.TransitionTo(ctx, StateSeekTask, "rescued")
	}
}

// updateHealSeek walks the colonist to the nearest medical bed region
// and waits there (as being_treated's counterpart) until a doctor
// arrives; arrival itself is modeled as a transition out of heal_seek
// driven by the kernel's medical job board setting c.State directly, so
// this body only runs the travel phase.
func updateHealSeek(ctx *Context, c *Colonist) {
	if !c.Move.Active && !c.Move.Pending && c.Target.Kind == TargetNone {
		// No bed known yet; stay put until the kernel's medical job
		// board assigns one via c.Target.
		return
	}
	if c.Move.Active || c.Move.Pending {
		stepMove(ctx, c)
	}
}

// updateSleep/go_to_sleep: travel to a bed (go_to_sleep), then recover
// fatigue over time (sleep) until rested, at which point control
// returns to seek_task.
func updateSleep(ctx *Context, c *Colonist) {
	if c.State == StateGoToSleep {
		if !c.Move.Active && !c.Move.Pending && c.Target.Kind == TargetNone {
			return
		}
		switch stepMove(ctx, c) {
		case moveArrived:
			c.TransitionTo(ctx, StateSleep, "at_bed")
		case moveFailed:
			c.TransitionTo(ctx, StateSeekTask, "path_fail")
		case moveInProgress:
		}
		return
	}
	const fatigueRecoveryPerSec = 0.05
	c.Needs.Fatigue -= fatigueRecoveryPerSec * ctx.DT
	if c.Needs.Fatigue < 0 {
		c.Needs.Fatigue = 0
	}
	if c.Needs.Fatigue <= 0.1 {
		c.TransitionTo(ctx, StateSeekTask, "rested")
	}
}

// updateEat consumes carried food if available, otherwise falls back to
// seek_task (a haul_bread/store_bread work giver is expected to have
// stocked the colonist's inventory ahead of time; the kernel's needs
// system decides what counts as food).
func updateEat(ctx *Context, c *Colonist) {
	const hungerRecoveryPerSec = 0.2
	if c.Carrying == CarryBread && c.CarryQty > 0 {
		c.Needs.Hunger -= hungerRecoveryPerSec * ctx.DT
		if c.Needs.Hunger <= 0 {
			c.Needs.Hunger = 0
			c.CarryQty--
			if c.CarryQty <= 0 {
				c.Carrying = CarryNone
			}
			c.TransitionTo(ctx, StateSeekTask, "fed")
		}
		return
	}
	c.TransitionTo(ctx, StateSeekTask, "no_food")
}

// updateStoreBread/updateHaulBread mirror the generic work contract but
// over item transport rather than accumulated labor: arrival at the
// destination completes the transfer in one tick.
func updateStoreBread(ctx *Context, c *Colonist) {
	updateCarryAndDeposit(ctx, c)
}

func updateHaulBread(ctx *Context, c *Colonist) {
	updateCarryAndDeposit(ctx, c)
}

func updateCarryAndDeposit(ctx *Context, c *Colonist) {
	if c.Move.Active || c.Move.Pending {
		switch stepMove(ctx, c) {
		case moveFailed:
			releaseCurrentReservation(ctx, c, reservation.ReasonTimeout)
			c.TransitionTo(ctx, StateSeekTask, "path_fail")
		case moveArrived, moveInProgress:
		}
		return
	}
	if ctx.Lookup != nil {
		if dest, ok := ctx.Lookup(c.Target); ok {
			dest.Complete(ctx, c)
		}
	}
	c.Carrying = CarryNone
	c.CarryQty = 0
	releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
	c.TransitionTo(ctx, StateSeekTask, "delivered")
}

// updateWaitingAtDoor hands control straight back to the move state on
// the tick it runs; it does not check or wait for the door's open state.
func updateWaitingAtDoor(ctx *Context, c *Colonist) {
	c.TransitionTo(ctx, StateMove, "door_open")
}

// updateResting recovers a small amount of fatigue while idle between
// tasks, without the travel phase a full sleep cycle requires.
func updateResting(ctx *Context, c *Colonist) {
	const restRecoveryPerSec = 0.02
	c.Needs.Fatigue -= restRecoveryPerSec * ctx.DT
	if c.Needs.Fatigue < 0 {
		c.Needs.Fatigue = 0
	}
	c.TransitionTo(ctx, StateSeekTask, "rested_enough")
}
