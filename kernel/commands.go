package kernel

import (
	"fmt"

	"github.com/colonykernel/sim/colonistfsm"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/intruderfsm"
	"github.com/colonykernel/sim/pathqueue"
	"github.com/colonykernel/sim/randgen"
	"github.com/colonykernel/sim/reservation"
	"github.com/colonykernel/sim/worldgrid"
)

// LoadAgents replaces the kernel's colonist and intruder populations
// wholesale, used by persistence.Load after reading the agents array
// back from a save.
func (k *Kernel) LoadAgents(colonists map[uint32]*colonistfsm.Colonist, intruders map[uint32]*intruderfsm.Intruder) {
	for id := range k.Colonists {
		k.unindexColonist(id)
	}
	for id := range k.Intruders {
		k.unindexIntruder(id)
	}
	k.Colonists = colonists
	k.Intruders = intruders
	k.syncSpatialIndex()
}

// RestoreRNG replaces the kernel's RNG stream state, used by
// persistence.Load. The saved state holds only seed and stream, so
// generation restarts at the beginning of that stream rather than at
// the save's draw position.
func (k *Kernel) RestoreRNG(s randgen.State) {
	k.RNG = randgen.FromState(s)
	k.colonistCtx.RNG = k.RNG
}

// RebuildTopology forces a full region-graph rebuild, used by
// persistence.Load after replaying grid edits and buildings.
func (k *Kernel) RebuildTopology() {
	k.Regions.RebuildFull()
}

// SetPaused toggles simulation advancement without affecting Tick's
// caller-visible API.
func (k *Kernel) SetPaused(paused bool) {
	k.Clock.SetPaused(paused)
}

// SetSpeed adjusts the wall-clock-to-sim-time multiplier.
func (k *Kernel) SetSpeed(multiplier float64) {
	k.Clock.SetSpeed(multiplier)
}

// PlaceBuilding starts construction of a building footprint, queuing the
// region graph for a local rebuild around it rather than rebuilding
// synchronously inline with this call.
func (k *Kernel) PlaceBuilding(kind worldgrid.BuildingKind, gx, gy, gw, gh int, completed bool) (*worldgrid.Building, error) {
	b, err := k.Grid.AddBuilding(kind, gx, gy, gw, gh, completed)
	if err != nil {
		return nil, fmt.Errorf("kernel: place building: %w", err)
	}
	k.QueueRebuild(worldgrid.TileRect{MinX: gx - 1, MinY: gy - 1, MaxX: gx + gw + 1, MaxY: gy + gh + 1})
	return b, nil
}

// CancelBuilding removes an unfinished (or finished) building and frees
// its footprint.
func (k *Kernel) CancelBuilding(id worldgrid.BuildingID) {
	b := k.Grid.Building(id)
	if b == nil {
		return
	}
	rect := worldgrid.TileRect{MinX: b.GX - 1, MinY: b.GY - 1, MaxX: b.GX + b.GW + 1, MaxY: b.GY + b.GH + 1}
	k.Grid.RemoveBuilding(id)
	k.QueueRebuild(rect)
}

// CompleteBuilding marks a building finished, opening its tiles to the
// kind's normal walkability rules (e.g. a door stops blocking once
// built).
func (k *Kernel) CompleteBuilding(id worldgrid.BuildingID) {
	k.Grid.CompleteBuilding(id)
	if b := k.Grid.Building(id); b != nil {
		rect := worldgrid.TileRect{MinX: b.GX - 1, MinY: b.GY - 1, MaxX: b.GX + b.GW + 1, MaxY: b.GY + b.GH + 1}
		k.QueueRebuild(rect)
	}
}

// PaintFloor marks the inclusive tile rectangle as the given floor
// class, queuing a local region rebuild.
func (k *Kernel) PaintFloor(gx0, gy0, gx1, gy1 int, class worldgrid.FloorClass) error {
	if err := k.Grid.PaintFloorRect(gx0, gy0, gx1, gy1, class); err != nil {
		return fmt.Errorf("kernel: paint floor: %w", err)
	}
	k.QueueRebuild(worldgrid.TileRect{MinX: gx0 - 1, MinY: gy0 - 1, MaxX: gx1 + 2, MaxY: gy1 + 2})
	return nil
}

// EraseFloor clears the floor class over the inclusive tile rectangle.
func (k *Kernel) EraseFloor(gx0, gy0, gx1, gy1 int) error {
	if err := k.Grid.RemoveFloorRect(gx0, gy0, gx1, gy1); err != nil {
		return fmt.Errorf("kernel: erase floor: %w", err)
	}
	k.QueueRebuild(worldgrid.TileRect{MinX: gx0 - 1, MinY: gy0 - 1, MaxX: gx1 + 2, MaxY: gy1 + 2})
	return nil
}

// RequestPath enqueues a path search, returning a handle cancellable via
// CancelPath. cb fires from within a future ProcessFrame call, never
// synchronously from RequestPath itself.
func (k *Kernel) RequestPath(agentID uint32, start, goal coords.World, profile worldgrid.Profile, priority int, cb pathqueue.Callback) pathqueue.Handle {
	return k.Paths.Request(agentID, start, goal, profile, priority, nil, cb)
}

// CancelPath cancels a previously requested path search.
func (k *Kernel) CancelPath(h pathqueue.Handle) {
	k.Paths.Cancel(h)
}

// TryReserve attempts to claim one of maxCrew work slots on target for
// agent.
func (k *Kernel) TryReserve(agent reservation.AgentID, target reservation.TargetID, maxCrew int) bool {
	return k.Reserve.TryReserve(agent, target, maxCrew)
}

// ReleaseReservation releases agent's hold on target for the given
// reason.
func (k *Kernel) ReleaseReservation(agent reservation.AgentID, target reservation.TargetID, reason reservation.ReleaseReason) {
	k.Reserve.ReleaseWithReason(agent, target, reason)
}

// SpawnColonist creates a colonist at spawn and enters seek_task as its
// first state.
func (k *Kernel) SpawnColonist(spawn coords.World, profile worldgrid.Profile) *colonistfsm.Colonist {
	k.nextColonistID++
	id := k.nextColonistID
	c := &colonistfsm.Colonist{
		ID:       id,
		Position: spawn,
		Profile:  profile,
		State:    colonistfsm.StateSeekTask,
		Needs: colonistfsm.Needs{
			HP: 100, MaxHP: 100, Consciousness: 1.0,
		},
	}
	k.Colonists[id] = c
	k.indexColonist(c)
	return c
}

// RemoveColonist despawns a colonist, releasing every reservation it
// holds.
func (k *Kernel) RemoveColonist(id uint32) {
	if _, ok := k.Colonists[id]; !ok {
		return
	}
	k.Reserve.ReleaseAllForAgent(reservation.AgentID(id), reservation.ReasonDeath)
	k.unindexColonist(id)
	delete(k.Colonists, id)
}

// SpawnIntruder creates an intruder at spawn.
func (k *Kernel) SpawnIntruder(spawn coords.World, profile worldgrid.Profile, maxHP float64) *intruderfsm.Intruder {
	k.nextIntruderID++
	id := k.nextIntruderID
	in := intruderfsm.New(id, spawn, profile, maxHP)
	k.Intruders[id] = in
	k.indexIntruder(in)
	return in
}

// RemoveIntruder despawns an intruder.
func (k *Kernel) RemoveIntruder(id uint32) {
	if _, ok := k.Intruders[id]; !ok {
		return
	}
	k.unindexIntruder(id)
	delete(k.Intruders, id)
}

// ApplyDamage reduces a colonist's HP, clamping it at zero and marking
// the colonist downed once HP reaches zero; consciousness is not
// changed here. Despawning bookkeeping is left to the caller (downed
// colonists stay in the map so doctoring/heal_seek can still act on
// them).
func (k *Kernel) ApplyDamage(colonistID uint32, amount float64) {
	c, ok := k.Colonists[colonistID]
	if !ok {
		return
	}
	c.Needs.HP -= amount
	if c.Needs.HP <= 0 {
		c.Needs.HP = 0
		c.Downed = true
	}
}
