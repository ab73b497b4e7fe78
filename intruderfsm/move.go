package intruderfsm

import "github.com/colonykernel/sim/coords"

// BaseSpeed is the intruder's unencumbered movement speed, world units
// per second.
const BaseSpeed = 2.5

func beginMove(ctx *Context, in *Intruder, goal coords.World) {
	in.Move = MoveOrder{
		Active:        true,
		Goal:          goal,
		Pending:       true,
		GoalTileAtReq: ctx.Grid.Coords.TileAt(goal),
		LastCheckPos:  in.Position,
	}
	agentID := in.ID
	in.Move.Handle = ctx.Paths.Request(agentID, in.Position, goal, in.Profile, 0, ctx.Danger, func(path []coords.World, ok bool) {
		in.Move.Pending = false
		if !ok {
			in.Move.Failed = true
			return
		}
		in.Move.Path = path
		in.Move.PathIndex = 0
	})
}

type moveResult int

const (
	moveInProgress moveResult = iota
	moveArrived
	moveFailed
	moveBlockedByDoor
)

// stepMove advances one tick of intruder movement. Unlike the colonist
// mover, it reports moveBlockedByDoor when the next path tile is a
// closed door so the FSM can switch to bash_door instead of failing.
func stepMove(ctx *Context, in *Intruder) moveResult {
	m := &in.Move
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

	goalTileNow := ctx.Grid.Coords.TileAt(m.Goal)
	if float64(goalTileNow.ManhattanDistance(m.GoalTileAtReq)) > RepathGoalMovedTiles {
		beginMove(ctx, in, m.Goal)
		return moveInProgress
	}

	if m.PathIndex >= len(m.Path) {
		m.Active = false
		return moveArrived
	}

	waypoint := m.Path[m.PathIndex]
	tile := ctx.Grid.Coords.TileAt(waypoint)
	if ctx.Grid.IsDoorTile(tile) {
		if bid, ok := ctx.Grid.DoorBuildingAt(tile); ok {
			if b := ctx.Grid.Building(bid); b != nil && !b.DoorOpen {
				in.BashTile = tile
				return moveBlockedByDoor
			}
		}
	}

	mult := in.SpeedMultiplier
	if mult <= 0 {
		mult = 1
	}
	speed := (BaseSpeed * mult) / tileCostFactor(ctx, tile)
	step := speed * ctx.DT
	toWaypoint := waypoint.Sub(in.Position)
	dist := toWaypoint.Length()
	if dist <= step || dist <= ctx.ArrivalEpsWorld {
		in.Position = waypoint
	} else {
		scale := step / dist
		in.Position = coords.World{
			X: in.Position.X + toWaypoint.X*scale,
			Y: in.Position.Y + toWaypoint.Y*scale,
		}
	}

	if in.Position.DistanceTo(waypoint) <= ctx.ArrivalEpsWorld {
		m.PathIndex++
		if m.PathIndex >= len(m.Path) {
			m.Active = false
			return moveArrived
		}
	}

	// Stuck detector: if displacement over the stuck window is below
	// epsilon, clear the path and re-request.
	m.StuckTimerSec += ctx.DT
	if m.StuckTimerSec >= StuckWindowSec {
		moved := in.Position.DistanceTo(m.LastCheckPos)
		m.StuckTimerSec = 0
		m.LastCheckPos = in.Position
		if moved < ctx.ArrivalEpsWorld {
			beginMove(ctx, in, m.Goal)
		}
	}

	return moveInProgress
}

func tileCostFactor(ctx *Context, t coords.Tile) float64 {
	cost := ctx.Grid.IntruderTraverseCost(t)
	if cost <= 0 {
		return 1
	}
	return cost
}
