package kernel

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/regions"
	"github.com/colonykernel/sim/reservation"
	"github.com/colonykernel/sim/worldgrid"
)

// TileInfo is the read-only view returned by TileAt.
type TileInfo struct {
	Terrain worldgrid.TerrainClass
	Floor   worldgrid.FloorClass
	Solid   bool
	IsDoor  bool
}

// TileAt reports the static terrain/floor/solidity of a tile.
func (k *Kernel) TileAt(t coords.Tile) TileInfo {
	return TileInfo{
		Terrain: k.Grid.TerrainAt(t),
		Floor:   k.Grid.FloorAt(t),
		Solid:   k.Grid.SolidAt(t),
		IsDoor:  k.Grid.IsDoorTile(t),
	}
}

// IsWalkable reports whether profile can traverse tile.
func (k *Kernel) IsWalkable(t coords.Tile, profile worldgrid.Profile) bool {
	return k.Grid.IsWalkable(t, profile)
}

// IsReachable reports whether toWorld is reachable from fromWorld for
// the given movement profile, via the region graph's cached link state
// rather than a live path search.
func (k *Kernel) IsReachable(from, to coords.World, profile worldgrid.Profile) bool {
	return k.Regions.IsReachable(from, to, profile)
}

// FindNearest exposes the region graph's cached nearest-object search
// (nearest bed, nearest stove, nearest threat, ...) to callers, without
// letting them reach into package regions directly.
func (k *Kernel) FindNearest(from coords.World, kind regions.ObjectKind, profile worldgrid.Profile, maxRegions int, predicate func(regions.ObjectRef) bool) (regions.ObjectRef, regions.RegionID, bool) {
	return k.Regions.FindNearest(from, kind, profile, maxRegions, predicate)
}

// UpdateObjectCaches refreshes the region graph's per-kind object index;
// callers (building/resource spawners) call this whenever the set of
// objects of a kind changes.
func (k *Kernel) UpdateObjectCaches(objects []regions.ObjectRef) {
	k.Regions.UpdateObjectCaches(objects)
}

// DebugRegions exposes the region graph's per-region debug snapshot.
func (k *Kernel) DebugRegions() []regions.RegionInfo {
	return k.Regions.DebugRegions()
}

// AgentState is the read-only snapshot returned by ColonistState.
type AgentState struct {
	ID       uint32
	Position coords.World
	State    string
	Downed   bool
}

// ColonistState reports a colonist's externally-visible state, or false
// if no such colonist exists.
func (k *Kernel) ColonistState(id uint32) (AgentState, bool) {
	c, ok := k.Colonists[id]
	if !ok {
		return AgentState{}, false
	}
	return AgentState{ID: c.ID, Position: c.Position, State: c.State.String(), Downed: c.Downed}, true
}

// ColonistHealth reports a colonist's Needs snapshot.
func (k *Kernel) ColonistHealth(id uint32) (hunger, fatigue, pain, hp, maxHP, consciousness float64, ok bool) {
	c, found := k.Colonists[id]
	if !found {
		return 0, 0, 0, 0, 0, 0, false
	}
	n := c.Needs
	return n.Hunger, n.Fatigue, n.Pain, n.HP, n.MaxHP, n.Consciousness, true
}

// ColonistInventory reports what a colonist is carrying.
func (k *Kernel) ColonistInventory(id uint32) (kind int, qty int, ok bool) {
	c, found := k.Colonists[id]
	if !found {
		return 0, 0, false
	}
	return int(c.Carrying), c.CarryQty, true
}

// IntruderState reports an intruder's externally-visible state.
func (k *Kernel) IntruderState(id uint32) (AgentState, bool) {
	in, ok := k.Intruders[id]
	if !ok {
		return AgentState{}, false
	}
	return AgentState{ID: in.ID, Position: in.Position, State: in.State.String()}, true
}

// ReservationStatus reports how many agents currently hold a target.
func (k *Kernel) ReservationStatus(target uint32) int {
	return k.Reserve.HolderCount(reservation.TargetID(target))
}
