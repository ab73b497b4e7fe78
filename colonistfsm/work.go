package colonistfsm

import "github.com/colonykernel/sim/reservation"

// WorkTimeoutSec is how long a work state may run without completing
// before it releases its reservation and falls back to seek_task.
const WorkTimeoutSec = 15.0

// WorkTarget abstracts the thing being built/chopped/mined/harvested:
// the kernel supplies one per reservable target so the FSM never reaches
// into worldgrid/regions concrete types directly for work accounting.
type WorkTarget interface {
	// ApplyWork subtracts amount from the target's remaining work/HP and
	// reports whether the target is now complete.
	ApplyWork(amount float64) (complete bool)
	// Complete runs once, when ApplyWork first reports completion: drop
	// resulting items, emit events, and request a partial region/nav
	// rebuild centered on the target.
	Complete(ctx *Context, c *Colonist)
}

// WorkTargetLookup resolves a TargetRef to its WorkTarget, if any. The
// kernel supplies the concrete implementation (it alone knows how
// buildings/trees/rocks/plants are represented) via Context.Lookup.
type WorkTargetLookup func(ref TargetRef) (WorkTarget, bool)

// WorkAmountPerTick is the base amount subtracted from a target's
// remaining work per tick, before skill/tool modifiers (left at 1.0:
// skill/tool data is external per the kernel spec and not modeled here).
const WorkAmountPerTick = 1.0

// updateWork implements the shared build/chop/mine/harvest/haul
// contract: the five differ only in which WorkGiver enqueued them and
// what WorkTarget.Complete does, not in the per-tick loop itself.
func updateWork(ctx *Context, c *Colonist) {
	c.WorkTimeoutSec += ctx.DT
	if c.WorkTimeoutSec >= WorkTimeoutSec {
		releaseCurrentReservation(ctx, c, reservation.ReasonTimeout)
		c.TransitionTo(ctx, StateSeekTask, "timeout")
		return
	}

	if ctx.Lookup == nil {
		return
	}
	target, ok := ctx.Lookup(c.Target)
	if !ok {
		releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
		c.TransitionTo(ctx, StateSeekTask, "target_gone")
		return
	}

	complete := target.ApplyWork(WorkAmountPerTick)
	if !complete {
		return
	}

	target.Complete(ctx, c)
	releaseCurrentReservation(ctx, c, reservation.ReasonExplicit)
	c.TransitionTo(ctx, StateSeekTask, "complete")
}
