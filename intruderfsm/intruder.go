package intruderfsm

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/pathqueue"
	"github.com/colonykernel/sim/worldgrid"
)

// TargetKind tags what an intruder is chasing.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetAgent
	TargetHQ
)

// Target identifies the intruder's current chase objective.
type Target struct {
	Kind TargetKind
	ID   uint32
	Tile coords.Tile
}

// MoveOrder mirrors colonistfsm's move order; kept separate rather than
// shared to avoid coupling the two FSM packages to one movement
// contract neither owns.
type MoveOrder struct {
	Active        bool
	Goal          coords.World
	Path          []coords.World
	PathIndex     int
	Pending       bool
	Handle        pathqueue.Handle
	GoalTileAtReq coords.Tile
	Failed        bool
	StuckTimerSec float64
	LastCheckPos  coords.World
}

// Intruder is the FSM-facing view of one intruder.
type Intruder struct {
	ID       uint32
	Position coords.World
	Profile  worldgrid.Profile

	State     State
	PrevState State

	Target Target
	Move   MoveOrder

	AttackCooldownRemaining float64
	StaggerRemaining        float64
	SpeedMultiplier         float64 // 1.0 normally, 1/StaggerSpeedDivisor while staggered

	HP, MaxHP float64

	BashTile coords.Tile
}

// New creates an intruder at spawn with full health and normal speed.
func New(id uint32, spawn coords.World, profile worldgrid.Profile, maxHP float64) *Intruder {
	return &Intruder{
		ID:              id,
		Position:        spawn,
		Profile:         profile,
		HP:              maxHP,
		MaxHP:           maxHP,
		SpeedMultiplier: 1.0,
	}
}
