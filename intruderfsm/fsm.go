// Update drives one tick of a single intruder's state machine.
package intruderfsm

// Update advances one intruder by one tick.
func Update(ctx *Context, in *Intruder) {
	switch in.State {
	case StateWander:
		updateWander(ctx, in)
	case StateChase:
		updateChase(ctx, in)
	case StateAttack:
		updateAttack(ctx, in)
	case StateBashDoor:
		updateBashDoor(ctx, in)
	case StateStaggered:
		updateStaggered(ctx, in)
	}
}

func transitionTo(in *Intruder, next State) {
	if next == in.State {
		return
	}
	in.PrevState = in.State
	in.State = next
}

// updateWander: no target yet. The kernel is responsible for calling
// SetTarget once an agent enters aggro range or the intruder has no HQ
// fallback; wander itself just holds position (a full patrol/random-walk
// policy is an external scenario concern per the kernel spec's Non-goals
// around content).
func updateWander(ctx *Context, in *Intruder) {
	if in.Target.Kind != TargetNone {
		transitionTo(in, StateChase)
	}
}

// SetTarget assigns or replaces the intruder's chase target; called by
// the kernel when an agent enters aggro range or is lost.
func SetTarget(in *Intruder, target Target) {
	in.Target = target
	if target.Kind == TargetNone {
		transitionTo(in, StateWander)
		in.Move.Active = false
		return
	}
	transitionTo(in, StateChase)
}

func updateChase(ctx *Context, in *Intruder) {
	if in.Target.Kind == TargetNone {
		transitionTo(in, StateWander)
		return
	}

	targetWorld := ctx.Grid.Coords.Center(in.Target.Tile)
	if !in.Move.Active && !in.Move.Pending {
		beginMove(ctx, in, targetWorld)
	}

	if in.Position.DistanceTo(targetWorld) <= MeleeRangeWorld {
		in.Move.Active = false
		transitionTo(in, StateAttack)
		return
	}

	switch stepMove(ctx, in) {
	case moveArrived:
		if in.Position.DistanceTo(targetWorld) <= MeleeRangeWorld {
			transitionTo(in, StateAttack)
		}
	case moveBlockedByDoor:
		transitionTo(in, StateBashDoor)
	case moveFailed:
		// Nothing reachable right now; fall back to wander and let the
		// kernel re-acquire a target next time one comes into range.
		in.Target = Target{}
		transitionTo(in, StateWander)
	case moveInProgress:
	}
}

// Attacker abstracts the one thing attack needs to apply: damage to
// whatever the target currently resolves to. The kernel supplies the
// concrete implementation (agent HP, or HQ structure HP).
type Attacker interface {
	ApplyDamage(amount float64)
	InMeleeRange() bool
}

// AttackerLookup resolves an intruder's Target to an Attacker.
type AttackerLookup func(t Target) (Attacker, bool)

func updateAttack(ctx *Context, in *Intruder) {
	if in.AttackCooldownRemaining > 0 {
		in.AttackCooldownRemaining -= ctx.DT
		return
	}
	if ctx.Attackers == nil {
		return
	}
	target, ok := ctx.Attackers(in.Target)
	if !ok || !target.InMeleeRange() {
		transitionTo(in, StateChase)
		return
	}
	target.ApplyDamage(attackDamage(ctx, in))
	in.AttackCooldownRemaining = AttackCooldownSec
}

// attackDamage is left as a single-point hook for weapon-data-driven
// damage, per the kernel spec's "blunt vs. cut classification is
// provided by external weapon data": a flat default until wired to real
// weapon data.
func attackDamage(ctx *Context, in *Intruder) float64 {
	const defaultAttackDamage = 8.0
	return defaultAttackDamage
}

func updateBashDoor(ctx *Context, in *Intruder) {
	if ctx.Doors == nil {
		transitionTo(in, StateChase)
		return
	}
	door, ok := ctx.Doors(in.BashTile)
	if !ok {
		transitionTo(in, StateChase)
		return
	}
	if door.ApplyDamage(DoorBashDamagePerSec * ctx.DT) {
		in.Move.Active = false
		transitionTo(in, StateChase)
	}
}

// updateStaggered still makes chase progress, at SpeedMultiplier
// (1/StaggerSpeedDivisor), but cannot transition into attack until the
// stagger expires.
func updateStaggered(ctx *Context, in *Intruder) {
	in.StaggerRemaining -= ctx.DT
	if in.StaggerRemaining <= 0 {
		in.StaggerRemaining = 0
		in.SpeedMultiplier = 1
		transitionTo(in, StateChase)
		return
	}
	if in.Target.Kind == TargetNone {
		return
	}
	if !in.Move.Active && !in.Move.Pending {
		beginMove(ctx, in, ctx.Grid.Coords.Center(in.Target.Tile))
	}
	stepMove(ctx, in)
}

// Stagger puts the intruder into the staggered state for the given
// duration, called externally when a hit applies a stagger effect.
func Stagger(in *Intruder, durationSec float64) {
	in.StaggerRemaining = durationSec
	in.SpeedMultiplier = 1.0 / StaggerSpeedDivisor
	transitionTo(in, StateStaggered)
}
