package kernel

import (
	"github.com/colonykernel/sim/colonistfsm"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/ecshelper"
	"github.com/colonykernel/sim/intruderfsm"
)

// AgentKind distinguishes which population an AgentRef names.
type AgentKind int

const (
	AgentColonist AgentKind = iota
	AgentIntruder
)

// AgentRef identifies one live agent by population and stable ID, as
// returned by the kernel's spatial queries.
type AgentRef struct {
	Kind AgentKind
	ID   uint32
}

// indexColonist creates c's ECS mirror entity and files it into the
// spatial index at its spawn tile. Grounded on the teacher's
// EntityInit.go entity-construction chain (manager.NewEntity().
// AddComponent(...)), generalized from dungeon actors to colonists.
func (k *Kernel) indexColonist(c *colonistfsm.Colonist) {
	tile := k.Grid.Coords.TileAt(c.Position)
	entity := k.ecsManager.NewEntity().
		AddComponent(ecshelper.PositionComponent, &ecshelper.Position{Tile: tile}).
		AddComponent(ecshelper.ColonistComponent, &ecshelper.ColonistRef{ID: c.ID})

	k.colonistEntity[c.ID] = entity
	k.colonistTile[c.ID] = tile
	k.entityAgent[entity.GetID()] = AgentRef{Kind: AgentColonist, ID: c.ID}
	k.spatial.Add(entity.GetID(), tile)
}

// indexIntruder is indexColonist's intruder counterpart.
func (k *Kernel) indexIntruder(in *intruderfsm.Intruder) {
	tile := k.Grid.Coords.TileAt(in.Position)
	entity := k.ecsManager.NewEntity().
		AddComponent(ecshelper.PositionComponent, &ecshelper.Position{Tile: tile}).
		AddComponent(ecshelper.IntruderComponent, &ecshelper.IntruderRef{ID: in.ID})

	k.intruderEntity[in.ID] = entity
	k.intruderTile[in.ID] = tile
	k.entityAgent[entity.GetID()] = AgentRef{Kind: AgentIntruder, ID: in.ID}
	k.spatial.Add(entity.GetID(), tile)
}

// unindexColonist reverses indexColonist, disposing the mirror entity.
func (k *Kernel) unindexColonist(agentID uint32) {
	entity, ok := k.colonistEntity[agentID]
	if !ok {
		return
	}
	k.spatial.Remove(entity.GetID(), k.colonistTile[agentID])
	delete(k.entityAgent, entity.GetID())
	delete(k.colonistEntity, agentID)
	delete(k.colonistTile, agentID)
	k.ecsManager.DisposeEntity(entity)
}

// unindexIntruder is unindexColonist's intruder counterpart.
func (k *Kernel) unindexIntruder(agentID uint32) {
	entity, ok := k.intruderEntity[agentID]
	if !ok {
		return
	}
	k.spatial.Remove(entity.GetID(), k.intruderTile[agentID])
	delete(k.entityAgent, entity.GetID())
	delete(k.intruderEntity, agentID)
	delete(k.intruderTile, agentID)
	k.ecsManager.DisposeEntity(entity)
}

// syncSpatialIndex re-indexes every agent whose tile changed since the
// index was last synced, keeping EntitiesAt/EntitiesNear current
// without rescanning or rebuilding the whole index every tick. Also
// backfills entities for agents the index has not seen yet, so
// LoadAgents, which calls it directly, indexes a wholesale population
// swap at once.
func (k *Kernel) syncSpatialIndex() {
	for id, c := range k.Colonists {
		last, ok := k.colonistTile[id]
		if !ok {
			k.indexColonist(c)
			continue
		}
		tile := k.Grid.Coords.TileAt(c.Position)
		if tile == last {
			continue
		}
		k.spatial.Move(k.colonistEntity[id].GetID(), last, tile)
		k.colonistTile[id] = tile
	}
	for id, in := range k.Intruders {
		last, ok := k.intruderTile[id]
		if !ok {
			k.indexIntruder(in)
			continue
		}
		tile := k.Grid.Coords.TileAt(in.Position)
		if tile == last {
			continue
		}
		k.spatial.Move(k.intruderEntity[id].GetID(), last, tile)
		k.intruderTile[id] = tile
	}
}

// EntitiesAt returns every live colonist or intruder currently indexed
// at tile, for host renderers and scripted scenarios that need a
// position query without touching colonistfsm/intruderfsm directly.
func (k *Kernel) EntitiesAt(tile coords.Tile) []AgentRef {
	ids := k.spatial.EntityIDsAt(tile)
	out := make([]AgentRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := k.entityAgent[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}

// EntitiesNear returns every live colonist or intruder within radius
// tiles (Chebyshev distance) of center.
func (k *Kernel) EntitiesNear(center coords.Tile, radius int) []AgentRef {
	ids := k.spatial.EntityIDsWithinChebyshev(center, radius)
	out := make([]AgentRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := k.entityAgent[id]; ok {
			out = append(out, ref)
		}
	}
	return out
}
