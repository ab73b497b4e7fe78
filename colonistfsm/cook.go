package colonistfsm

import "github.com/colonykernel/sim/reservation"

// CookTimeTotal is the base seconds of cook_progress accumulation
// needed at skill 0; skill trickles this down (modeled here as a flat
// constant since skill data is external to the kernel).
const CookTimeTotal = 20.0

// updateCooking runs the acquire_wheat -> carry_to_stove -> cook ->
// deposit_bread substate chain. The wheat source and the stove are
// supplied by the work giver that originally offered this candidate:
// c.Target names the wheat source and c.StoveTarget names the stove,
// and both are resolved through ctx.Lookup.
func updateCooking(ctx *Context, c *Colonist) {
	switch c.CookSubstate {
	case CookAcquireWheat:
		acquireWheat(ctx, c)
	case CookCarryToStove:
		carryToStove(ctx, c)
	case CookCook:
		cookStep(ctx, c)
	case CookDepositBread:
		depositBread(ctx, c)
	}
}

func acquireWheat(ctx *Context, c *Colonist) {
	if c.StoveTarget.IsZero() {
		// The seek_task giver is expected to have set c.StoveTarget
		// alongside c.Target (the wheat source) when committing to
		// this candidate; if it didn't, there is nothing to cook with.
		releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
		c.TransitionTo(ctx, StateSeekTask, "no_stove")
		return
	}
	if ctx.Lookup == nil {
		return
	}
	source, ok := ctx.Lookup(c.Target)
	if !ok {
		releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
		c.TransitionTo(ctx, StateSeekTask, "source_gone")
		return
	}
	// Consuming wheat at the source is modeled as one unit of work that
	// completes immediately; the actual quantity bookkeeping lives in
	// the WorkTarget implementation the kernel supplies.
	if source.ApplyWork(WheatPerBatch) {
		if !ctx.Reserve.TryClaimTile(reservationAgent(c.ID), c.StoveTarget.Tile) {
			// Stove is in use; try again next tick rather than commit
			// wheat we can't yet deliver.
			return
		}
		c.Carrying = CarryWheat
		c.CarryQty = WheatPerBatch
		c.CookSubstate = CookCarryToStove
		stoveWorld := ctx.Grid.Coords.Center(c.StoveTarget.Tile)
		beginMove(ctx, c, stoveWorld, ctx.WorkRadiusWorld)
	}
}

func carryToStove(ctx *Context, c *Colonist) {
	switch stepMove(ctx, c) {
	case moveArrived:
		// arrival handled below
	case moveFailed:
		releaseCurrentReservation(ctx, c, reservation.ReasonTimeout)
		c.TransitionTo(ctx, StateSeekTask, "path_fail")
		return
	case moveInProgress:
		return
	}
	if ctx.Lookup == nil {
		return
	}
	// The stove's own WorkTarget.ApplyWork acts as "deposit wheat" here:
	// the kernel's stove WorkTarget implementation treats a deposit as
	// work applied equal to the carried quantity.
	stove, ok := ctx.Lookup(c.StoveTarget)
	if !ok {
		releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
		c.TransitionTo(ctx, StateSeekTask, "stove_gone")
		return
	}
	stove.ApplyWork(float64(c.CarryQty))
	c.Carrying = CarryNone
	c.CarryQty = 0
	c.CookProgress = 0
	c.CookSubstate = CookCook
}

func cookStep(ctx *Context, c *Colonist) {
	c.CookProgress += ctx.DT / CookTimeTotal
	if c.CookProgress < 1.0 {
		return
	}
	c.CookProgress = 0
	c.CookSubstate = CookDepositBread
}

func depositBread(ctx *Context, c *Colonist) {
	if ctx.Lookup != nil {
		if stove, ok := ctx.Lookup(c.StoveTarget); ok {
			stove.Complete(ctx, c)
		}
	}
	ctx.Reserve.ReleaseTile(reservationAgent(c.ID), c.StoveTarget.Tile)
	c.CookSubstate = CookAcquireWheat
	c.StoveTarget = TargetRef{}
	releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
	c.TransitionTo(ctx, StateSeekTask, "batch_complete")
}
