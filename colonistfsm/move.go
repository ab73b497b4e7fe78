package colonistfsm

import (
	"math"

	"github.com/colonykernel/sim/coords"
)

// BaseSpeed is the colonist's unencumbered movement speed, in world
// units per second, before work-speed, fatigue, and equipment
// modifiers and the per-tile cost divisor are applied.
const BaseSpeed = 3.0

const repathGoalMovedTiles = 2
const stuckWindowSec = 1.5
const stuckEpsWorld = 0.05

// maxFatigueSlowdown is how much a fully fatigued colonist's speed is
// cut, relative to a rested one.
const maxFatigueSlowdown = 0.5

// beginMove (re)starts a move order toward goal, submitting a path
// request. Any previously in-flight request for this agent is
// superseded by pathqueue.Queue.Request itself.
func beginMove(ctx *Context, c *Colonist, goal coords.World, arrivalRadius float64) {
	c.Move = MoveOrder{
		Active:           true,
		Goal:             goal,
		ArrivalRadius:    arrivalRadius,
		Pending:          true,
		GoalTileAtReq:    ctx.Grid.Coords.TileAt(goal),
		GridVersionAtReq: ctx.Grid.GridVersion(),
		LastRepathTick:   ctx.Tick,
		LastCheckPos:     c.Position,
	}
	agentID := c.ID
	c.Move.Handle = ctx.Paths.Request(agentID, c.Position, goal, c.Profile, c.State.Priority(), ctx.Danger, func(path []coords.World, ok bool) {
		// Delivered on a later ProcessFrame call; stash directly since
		// the kernel's single-threaded model guarantees no concurrent
		// mutation of c between ticks.
		c.Move.Pending = false
		if !ok {
			c.Move.Failed = true
			return
		}
		c.Move.Path = path
		c.Move.PathIndex = 0
	})
}

// moveResult is what stepMove reports back to the calling state.
type moveResult int

const (
	moveInProgress moveResult = iota
	moveArrived
	moveFailed
)

// stepMove advances a colonist one tick along its active move order. It
// checks every re-path trigger (goal moved, stuck, next tile blocked,
// grid changed under the remaining path) before advancing position,
// throttled to at most one re-path per second per agent so a single bad
// tick can't thrash the path queue. Callers (the top-level move state,
// and composite states' own travel substeps) interpret the result
// themselves.
func stepMove(ctx *Context, c *Colonist) moveResult {
	m := &c.Move
	if !m.Active {
		return moveArrived
	}
	if m.Failed {
		m.Active = false
		return moveFailed
	}
	if m.Pending {
		return moveInProgress
	}
	if len(m.Path) == 0 {
		m.Active = false
		return moveFailed
	}

	if repathed := checkRepathTriggers(ctx, c); repathed {
		return moveInProgress
	}

	if m.PathIndex >= len(m.Path) {
		m.Active = false
		return moveArrived
	}

	waypoint := m.Path[m.PathIndex]
	tile := ctx.Grid.Coords.TileAt(waypoint)

	speed := BaseSpeed * workSpeedModDefault * fatigueMod(c) * equipmentModDefault / tileCostFactor(ctx, tile)
	maxStep := speed * ctx.DT

	toWaypoint := waypoint.Sub(c.Position)
	dist := toWaypoint.Length()
	if dist <= maxStep || dist <= ctx.ArrivalEpsWorld {
		c.Position = waypoint
	} else {
		scale := maxStep / dist
		c.Position = coords.World{
			X: c.Position.X + toWaypoint.X*scale,
			Y: c.Position.Y + toWaypoint.Y*scale,
		}
	}

	if c.Position.DistanceTo(waypoint) <= ctx.ArrivalEpsWorld {
		m.PathIndex++
		if m.PathIndex >= len(m.Path) {
			final := m.Path[len(m.Path)-1]
			if c.Position.DistanceTo(final) <= math.Max(m.ArrivalRadius, ctx.ArrivalEpsWorld) {
				m.Active = false
				return moveArrived
			}
		}
	}
	return moveInProgress
}

// checkRepathTriggers evaluates every spec re-path trigger in turn and,
// if one fires and the per-agent throttle allows it, resubmits the path
// request and reports true. At most one trigger fires per call; the
// first to match wins.
func checkRepathTriggers(ctx *Context, c *Colonist) bool {
	m := &c.Move

	goalTileNow := ctx.Grid.Coords.TileAt(m.Goal)
	if goalTileNow.ManhattanDistance(m.GoalTileAtReq) > repathGoalMovedTiles && canRepath(ctx, m) {
		beginMove(ctx, c, m.Goal, m.ArrivalRadius)
		return true
	}

	m.StuckTimerSec += ctx.DT
	if m.StuckTimerSec >= stuckWindowSec {
		moved := c.Position.DistanceTo(m.LastCheckPos)
		m.StuckTimerSec = 0
		m.LastCheckPos = c.Position
		if moved < stuckEpsWorld && canRepath(ctx, m) {
			beginMove(ctx, c, m.Goal, m.ArrivalRadius)
			return true
		}
	}

	if m.PathIndex+1 < len(m.Path) {
		nextTile := ctx.Grid.Coords.TileAt(m.Path[m.PathIndex+1])
		if tileBlockedForAgent(ctx, nextTile) && canRepath(ctx, m) {
			beginMove(ctx, c, m.Goal, m.ArrivalRadius)
			return true
		}
	}

	if ctx.Grid.GridVersion() != m.GridVersionAtReq && canRepath(ctx, m) && pathIntersectsDirtySections(ctx, m) {
		beginMove(ctx, c, m.Goal, m.ArrivalRadius)
		return true
	}

	return false
}

// canRepath enforces the at-most-one-re-path-per-second-per-agent
// throttle, measured in ticks derived from the current tick length.
func canRepath(ctx *Context, m *MoveOrder) bool {
	ticksPerSecond := uint64(1)
	if ctx.DT > 0 {
		if r := uint64(math.Round(1 / ctx.DT)); r > 0 {
			ticksPerSecond = r
		}
	}
	return ctx.Tick-m.LastRepathTick >= ticksPerSecond
}

// tileBlockedForAgent reports whether a tile would block the agent
// profile right now: either solid outright, or an unopened door. Doors
// don't set solid for the agent profile (TraverseCost stays walkable so
// the waiting_at_door substate can open them), so this check is
// separate from SolidAt.
func tileBlockedForAgent(ctx *Context, t coords.Tile) bool {
	if ctx.Grid.SolidAt(t) {
		return true
	}
	if bid, ok := ctx.Grid.DoorBuildingAt(t); ok {
		if b := ctx.Grid.Building(bid); b != nil && !b.DoorOpen {
			return true
		}
	}
	return false
}

// pathIntersectsDirtySections reports whether any tile still ahead on
// the path (from the current waypoint onward) falls in a section the
// grid has marked dirty since the path was computed.
func pathIntersectsDirtySections(ctx *Context, m *MoveOrder) bool {
	dirty := ctx.Grid.DirtySections()
	if len(dirty) == 0 {
		return false
	}
	for idx := m.PathIndex; idx < len(m.Path); idx++ {
		section := ctx.Grid.SectionIndexAt(ctx.Grid.Coords.TileAt(m.Path[idx]))
		for _, d := range dirty {
			if d == section {
				return true
			}
		}
	}
	return false
}

// workSpeedModDefault and equipmentModDefault stand in for the
// work-speed and equipment multipliers until a skill/gear system feeds
// real values through Context; both are neutral until then.
const (
	workSpeedModDefault = 1.0
	equipmentModDefault = 1.0
)

// fatigueMod scales movement speed down as Needs.Fatigue climbs toward
// its sleep threshold, bottoming out at maxFatigueSlowdown off full
// speed for a fully fatigued colonist.
func fatigueMod(c *Colonist) float64 {
	f := c.Needs.Fatigue
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return 1 - maxFatigueSlowdown*f
}

func tileCostFactor(ctx *Context, t coords.Tile) float64 {
	cost := ctx.Grid.TraverseCost(t)
	if cost <= 0 {
		return 1
	}
	return cost
}
