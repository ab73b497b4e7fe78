package colonistfsm

import (
	"github.com/colonykernel/sim/eventbus"
	"github.com/colonykernel/sim/pathfinding"
	"github.com/colonykernel/sim/pathqueue"
	"github.com/colonykernel/sim/randgen"
	"github.com/colonykernel/sim/regions"
	"github.com/colonykernel/sim/reservation"
	"github.com/colonykernel/sim/worldgrid"
)

// Context bundles every subsystem a colonist state needs to read or
// mutate. The kernel constructs exactly one per simulation instance and
// passes it to every Update call; no FSM state holds a reference to any
// subsystem beyond the lifetime of one tick.
type Context struct {
	Grid     *worldgrid.Grid
	Regions  *regions.Graph
	Reserve  *reservation.Registry
	Paths    *pathqueue.Queue
	Bus      *eventbus.Bus
	RNG      *randgen.Source
	Tick     uint64
	DT       float64 // seconds simulated this tick, always 1/TickRate
	Givers   []WorkGiver
	Danger   pathfinding.DangerOverlay
	Lookup   WorkTargetLookup

	// Config, inlined to avoid an import cycle with package config while
	// still letting the kernel tune these per run.
	SoftLockSec      float64
	ArrivalEpsWorld  float64
	WorkRadiusWorld  float64
	HealThreshold    float64
}
