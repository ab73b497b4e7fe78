package ecshelper

import (
	"fmt"

	"github.com/bytearena/ecs"
	"github.com/colonykernel/sim/coords"
)

// SpatialIndex provides O(1) tile-based entity lookup, replacing a
// linear scan over every entity's position component. Adapted from the
// teacher's systems.PositionSystem, generalized from its int-keyed
// LogicalPosition to coords.Tile and from "entities on a dungeon floor"
// to "colonists, intruders, and buildings sharing one grid".
type SpatialIndex struct {
	manager *ecs.Manager
	byTile  map[coords.Tile][]ecs.EntityID
}

// NewSpatialIndex creates an empty index bound to manager.
func NewSpatialIndex(manager *ecs.Manager) *SpatialIndex {
	return &SpatialIndex{
		manager: manager,
		byTile:  make(map[coords.Tile][]ecs.EntityID),
	}
}

// EntityIDsAt returns every entity ID indexed at tile, in insertion
// order. Returns nil if none.
func (s *SpatialIndex) EntityIDsAt(tile coords.Tile) []ecs.EntityID {
	ids, ok := s.byTile[tile]
	if !ok {
		return nil
	}
	out := make([]ecs.EntityID, len(ids))
	copy(out, ids)
	return out
}

// FirstAt returns the first entity indexed at tile, or nil.
func (s *SpatialIndex) FirstAt(tile coords.Tile) *ecs.Entity {
	ids, ok := s.byTile[tile]
	if !ok || len(ids) == 0 {
		return nil
	}
	return s.entityByID(ids[0])
}

func (s *SpatialIndex) entityByID(id ecs.EntityID) *ecs.Entity {
	for _, result := range s.manager.Query(ecs.BuildTag()) {
		if result.Entity.GetID() == id {
			return result.Entity
		}
	}
	return nil
}

// Add registers id at tile. Idempotent if already registered there.
func (s *SpatialIndex) Add(id ecs.EntityID, tile coords.Tile) {
	for _, existing := range s.byTile[tile] {
		if existing == id {
			return
		}
	}
	s.byTile[tile] = append(s.byTile[tile], id)
}

// Remove unregisters id from tile.
func (s *SpatialIndex) Remove(id ecs.EntityID, tile coords.Tile) error {
	ids, ok := s.byTile[tile]
	if !ok {
		return fmt.Errorf("ecshelper: no entities at %v", tile)
	}
	for i, existing := range ids {
		if existing == id {
			s.byTile[tile] = append(ids[:i], ids[i+1:]...)
			if len(s.byTile[tile]) == 0 {
				delete(s.byTile, tile)
			}
			return nil
		}
	}
	return fmt.Errorf("ecshelper: entity %d not at %v", id, tile)
}

// Move relocates id from oldTile to newTile. A no-op if the tiles are
// equal.
func (s *SpatialIndex) Move(id ecs.EntityID, oldTile, newTile coords.Tile) error {
	if oldTile.Equal(newTile) {
		return nil
	}
	if err := s.Remove(id, oldTile); err != nil {
		return fmt.Errorf("ecshelper: moving entity: %w", err)
	}
	s.Add(id, newTile)
	return nil
}

// Count returns the total number of indexed (entity, tile) pairs.
func (s *SpatialIndex) Count() int {
	n := 0
	for _, ids := range s.byTile {
		n += len(ids)
	}
	return n
}

// OccupiedTiles returns every tile with at least one indexed entity.
func (s *SpatialIndex) OccupiedTiles() []coords.Tile {
	tiles := make([]coords.Tile, 0, len(s.byTile))
	for t := range s.byTile {
		tiles = append(tiles, t)
	}
	return tiles
}

// Clear empties the index.
func (s *SpatialIndex) Clear() {
	s.byTile = make(map[coords.Tile][]ecs.EntityID)
}

// EntityIDsWithinChebyshev returns every entity indexed within radius
// tiles of center, using Chebyshev (8-directional) distance.
func (s *SpatialIndex) EntityIDsWithinChebyshev(center coords.Tile, radius int) []ecs.EntityID {
	var out []ecs.EntityID
	for x := center.X - radius; x <= center.X+radius; x++ {
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			t := coords.Tile{X: x, Y: y}
			if center.ChebyshevDistance(t) <= radius {
				out = append(out, s.EntityIDsAt(t)...)
			}
		}
	}
	return out
}
