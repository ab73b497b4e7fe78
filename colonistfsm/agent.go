package colonistfsm

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/pathqueue"
	"github.com/colonykernel/sim/worldgrid"
)

// CarryKind mirrors ecshelper.CarryKind without importing ecshelper,
// keeping this package free of any ECS dependency: a Colonist here is a
// plain value, and the kernel's ECS only mirrors its position.
type CarryKind uint8

const (
	CarryNone CarryKind = iota
	CarryWheat
	CarryBread
)

// Needs mirrors the survival meters that drive heal_seek/eat/sleep
// transitions.
type Needs struct {
	Hunger        float64
	Fatigue       float64
	Pain          float64
	HP            float64
	MaxHP         float64
	Consciousness float64
}

// MoveOrder is the state shared by every travel phase, whether driven by
// the top-level move state or embedded inside a composite state's own
// substep.
type MoveOrder struct {
	Active        bool
	Goal          coords.World
	ArrivalRadius float64
	Path          []coords.World
	PathIndex     int
	Pending       bool
	Handle        pathqueue.Handle
	GoalTileAtReq coords.Tile

	// GridVersionAtReq, StuckTimerSec, and LastCheckPos back the
	// grid-changed and stuck-detector re-path triggers; LastRepathTick
	// backs the per-agent re-path throttle. All four are reset by
	// beginMove on every (re)request.
	GridVersionAtReq uint64
	StuckTimerSec    float64
	LastCheckPos     coords.World
	LastRepathTick   uint64

	Failed bool
}

// Colonist is the FSM-facing view of one colonist: the mutable state the
// FSM reads and writes each tick. The kernel holds it directly; the
// colonist's ECS entity only mirrors its position for spatial queries.
type Colonist struct {
	ID       uint32
	Position coords.World
	Profile  worldgrid.Profile

	State          State
	PrevState      State
	StateEnteredAt uint64
	SoftLockUntil  float64 // simulated seconds
	SimTimeSec     float64 // monotonically increasing simulated clock, advanced by ctx.DT

	Target   TargetRef
	Reserved TargetRef // target currently held via reservation.Registry, if any

	// AfterMove names the state to enter once the current Move order
	// arrives, when Move is being used as a generic pre-phase (e.g.
	// seek_task committing to a distant work target).
	AfterMove State

	Move MoveOrder

	Needs    Needs
	Carrying CarryKind
	CarryQty int

	CookSubstate  CookSubstate
	CookProgress  float64
	StoveTarget   TargetRef

	WorkProgress float64 // generic accumulator for build/chop/mine/harvest
	WorkTimeoutSec float64

	InCombat bool // drafted/flee gate inputs external systems set before Update
	ThreatTile coords.Tile
	HasThreat  bool

	Downed bool

	SeekReevalAt float64 // simulated seconds when idle may re-run seek_task
}

// TransitionTo switches state, recording the soft lock and logging the
// change. reason is a short machine-readable cause ("preempt",
// "arrived", "timeout", "fail", "complete").
func (c *Colonist) TransitionTo(ctx *Context, next State, reason string) {
	if next == c.State {
		return
	}
	prev := c.State
	c.PrevState = prev
	c.State = next
	c.StateEnteredAt = ctx.Tick
	if !next.Critical() {
		c.SoftLockUntil = c.SimTimeSec + ctx.SoftLockSec
	} else {
		c.SoftLockUntil = c.SimTimeSec
	}
	if ctx.Bus != nil {
		ctx.Bus.Publish(stateChangedEvent(ctx.Tick, c.ID, prev, next, reason))
	}
}

// CanPreempt reports whether a candidate of the given priority may take
// over from the colonist's current state right now.
func (c *Colonist) CanPreempt(candidatePriority int) bool {
	cur := c.State.Priority()
	if candidatePriority > cur {
		return true
	}
	if c.State.Critical() {
		return false
	}
	return c.SimTimeSec >= c.SoftLockUntil
}
