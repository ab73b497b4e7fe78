// Package kernel wires every subsystem package into the single
// cooperative simulation context external callers drive: rendering,
// input, and scenario scripting only ever go through this package's
// narrow query/command/event surface, never touching worldgrid,
// regions, pathqueue, or the FSM packages directly. Grounded on the
// teacher's top-level game loop composition (game_main wires
// worldmap.GameMap, common.EntityManager, and timesystem.ActionManager
// together the same way this package wires worldgrid.Grid,
// regions.Graph, and the FSM packages).
package kernel

import (
	"time"

	"github.com/bytearena/ecs"
	"github.com/colonykernel/sim/colonistfsm"
	"github.com/colonykernel/sim/config"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/ecshelper"
	"github.com/colonykernel/sim/eventbus"
	"github.com/colonykernel/sim/executor"
	"github.com/colonykernel/sim/intruderfsm"
	"github.com/colonykernel/sim/pathfinding"
	"github.com/colonykernel/sim/pathqueue"
	"github.com/colonykernel/sim/randgen"
	"github.com/colonykernel/sim/regions"
	"github.com/colonykernel/sim/reservation"
	"github.com/colonykernel/sim/simclock"
	"github.com/colonykernel/sim/worldgrid"
	"go.uber.org/zap"
)

// Kernel is the single logical simulation context. All mutation of
// grid, regions, reservations, agent state, and the path cache happens
// from calls rooted at Kernel.Tick; there is no locking discipline
// beyond "run to completion within a single call", matching the
// single-threaded cooperative model.
type Kernel struct {
	Cfg   config.Resolved
	Grid  *worldgrid.Grid
	Regions *regions.Graph
	Reserve *reservation.Registry
	Paths   *pathqueue.Queue
	Bus     *eventbus.Bus
	Clock   *simclock.Clock
	RNG     *randgen.Source
	Finder  *pathfinding.Finder

	Colonists map[uint32]*colonistfsm.Colonist
	Intruders map[uint32]*intruderfsm.Intruder

	// ecsManager and spatial mirror live colonists and intruders into
	// tile-indexed ECS entities for O(1) spatial lookups (EntitiesAt,
	// EntitiesNear); colonistfsm.Colonist and intruderfsm.Intruder
	// remain the authoritative state, this is a read-side index kept in
	// sync from spawn/remove/move.
	ecsManager     *ecs.Manager
	spatial        *ecshelper.SpatialIndex
	colonistEntity map[uint32]*ecs.Entity
	intruderEntity map[uint32]*ecs.Entity
	colonistTile   map[uint32]coords.Tile
	intruderTile   map[uint32]coords.Tile
	entityAgent    map[ecs.EntityID]AgentRef

	colonistCtx *colonistfsm.Context
	intruderCtx *intruderfsm.Context

	rebuildQueue []worldgrid.TileRect
	tick         uint64

	nextColonistID uint32
	nextIntruderID uint32

	log *zap.Logger

	strict bool
}

// Options configures a new Kernel.
type Options struct {
	Cols, Rows int
	TileSize   float64
	Seed, Stream uint64
	Config     config.Resolved
	Log        *zap.Logger
	Givers     []colonistfsm.WorkGiver
	Lookup     colonistfsm.WorkTargetLookup
	Doors      intruderfsm.DoorLookup
	Attackers  intruderfsm.AttackerLookup
}

// New constructs a Kernel with an empty grid of the given dimensions.
func New(opts Options) *Kernel {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cfg := opts.Config
	if cfg.TickRate == 0 {
		cfg = config.Defaults()
	}

	grid := worldgrid.New(opts.Cols, opts.Rows, opts.TileSize, log)
	graph := regions.NewGraph(grid, cfg.RegionChunkTiles, log)
	grid.SetRegionRebuilder(graph)

	finder := pathfinding.NewFinder(grid)
	finder.MaxExpansions = cfg.PathMaxExpansions

	bus := eventbus.New(false)
	reg := reservation.New(bus)
	paths := pathqueue.New(finder, 512, log)
	clock := simclock.New(cfg.TickRate)
	clock.SetFrameCatchup(cfg.FrameTickCatchup)
	rng := randgen.New(opts.Seed, opts.Stream)

	ecsManager := ecs.NewManager()
	ecshelper.RegisterComponents(ecsManager)

	k := &Kernel{
		Cfg:            cfg,
		Grid:           grid,
		Regions:        graph,
		Reserve:        reg,
		Paths:          paths,
		Bus:            bus,
		Clock:          clock,
		RNG:            rng,
		Finder:         finder,
		Colonists:      make(map[uint32]*colonistfsm.Colonist),
		Intruders:      make(map[uint32]*intruderfsm.Intruder),
		ecsManager:     ecsManager,
		spatial:        ecshelper.NewSpatialIndex(ecsManager),
		colonistEntity: make(map[uint32]*ecs.Entity),
		intruderEntity: make(map[uint32]*ecs.Entity),
		colonistTile:   make(map[uint32]coords.Tile),
		intruderTile:   make(map[uint32]coords.Tile),
		entityAgent:    make(map[ecs.EntityID]AgentRef),
		log:            log,
		strict:         cfg.StrictConsistency,
	}

	k.colonistCtx = &colonistfsm.Context{
		Grid:            grid,
		Regions:         graph,
		Reserve:         reg,
		Paths:           paths,
		Bus:             bus,
		RNG:             rng,
		Givers:          opts.Givers,
		Lookup:          opts.Lookup,
		SoftLockSec:     cfg.SoftLockSec,
		ArrivalEpsWorld: cfg.ArrivalEpsWorld,
		WorkRadiusWorld: opts.TileSize * 1.5,
		HealThreshold:   0.35,
	}
	k.intruderCtx = &intruderfsm.Context{
		Grid:            grid,
		Paths:           paths,
		Bus:             bus,
		Doors:           opts.Doors,
		Attackers:       opts.Attackers,
		ArrivalEpsWorld: cfg.ArrivalEpsWorld,
	}

	graph.RebuildFull()
	return k
}

// Tick advances the simulation by the whole ticks wallDelta's
// accumulation justifies, running the ordered per-tick sequence for
// each.
func (k *Kernel) Tick(wallDelta time.Duration) {
	n := k.Clock.Advance(wallDelta)
	dt := 1.0 / float64(k.Cfg.TickRate)
	for i := 0; i < n; i++ {
		k.stepOnce(dt)
	}
}

// stepOnce runs one logical tick in the order the kernel spec
// mandates: grid edits already applied synchronously by command calls
// take effect at the next stepOnce's FSM pass; FSMs update; then the
// path queue and rebuild queue are drained under their per-frame
// budgets.
func (k *Kernel) stepOnce(dt float64) {
	k.tick++
	k.colonistCtx.Tick = k.tick
	k.colonistCtx.DT = dt
	k.intruderCtx.Tick = k.tick
	k.intruderCtx.DT = dt

	for _, id := range k.sortedColonistIDs() {
		c := k.Colonists[id]
		k.updateThreatVisibility(c)
		colonistfsm.Update(k.colonistCtx, c)
	}
	for _, id := range k.sortedIntruderIDs() {
		intruderfsm.Update(k.intruderCtx, k.Intruders[id])
	}

	k.syncSpatialIndex()
	k.Paths.ProcessFrame(time.Duration(k.Cfg.PathBudgetMS)*time.Millisecond, k.Grid.GridVersion())
	k.drainRebuilds()
}

func (k *Kernel) sortedColonistIDs() []uint32 {
	ids := make([]uint32, 0, len(k.Colonists))
	for id := range k.Colonists {
		ids = append(ids, id)
	}
	sortUint32(ids)
	return ids
}

func (k *Kernel) sortedIntruderIDs() []uint32 {
	ids := make([]uint32, 0, len(k.Intruders))
	for id := range k.Intruders {
		ids = append(ids, id)
	}
	sortUint32(ids)
	return ids
}

func sortUint32(ids []uint32) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

func (k *Kernel) drainRebuilds() {
	executor.RunUntilFunc(func() bool {
		if len(k.rebuildQueue) == 0 {
			return false
		}
		rect := k.rebuildQueue[0]
		k.rebuildQueue = k.rebuildQueue[1:]
		k.Regions.RebuildArea(rect)
		return len(k.rebuildQueue) > 0
	}, time.Duration(k.Cfg.RebuildBudgetMS)*time.Millisecond)
}

// QueueRebuild schedules an area for region-graph rebuild on a future
// tick's rebuild budget, rather than rebuilding synchronously inline
// with the command that triggered it.
func (k *Kernel) QueueRebuild(rect worldgrid.TileRect) {
	k.rebuildQueue = append(k.rebuildQueue, rect)
}
