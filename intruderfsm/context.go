package intruderfsm

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/eventbus"
	"github.com/colonykernel/sim/pathfinding"
	"github.com/colonykernel/sim/pathqueue"
	"github.com/colonykernel/sim/worldgrid"
)

// Door abstracts the one building operation bash_door needs: damaging a
// closed door until it opens (is destroyed). The kernel supplies the
// concrete worldgrid.Building-backed implementation.
type Door interface {
	// ApplyDamage reduces the door's HP and reports whether it is now
	// open (destroyed).
	ApplyDamage(amount float64) (opened bool)
}

// DoorLookup resolves the door occupying tile, if any.
type DoorLookup func(tile coords.Tile) (Door, bool)

// Context bundles the subsystems an intruder's per-tick update needs.
type Context struct {
	Grid    *worldgrid.Grid
	Paths   *pathqueue.Queue
	Bus     *eventbus.Bus
	Danger    pathfinding.DangerOverlay
	Doors     DoorLookup
	Attackers AttackerLookup
	Tick      uint64
	DT        float64

	ArrivalEpsWorld float64
}
