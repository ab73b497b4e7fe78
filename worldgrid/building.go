package worldgrid

import "github.com/colonykernel/sim/coords"

// BuildingKind enumerates the building archetypes the kernel cares about
// structurally (blocking behavior, door semantics, inventory presence).
// Cosmetic/content variants within a kind (e.g. which wall texture) are
// external data, not part of this enum.
type BuildingKind uint8

const (
	BuildingWall BuildingKind = iota
	BuildingDoor
	BuildingBed
	BuildingStove
	BuildingTurret
	BuildingStockpileZone
)

// blocksWhenComplete reports whether a completed building of this kind
// asserts solid=1 on its footprint. Doors never block (they are a cost,
// not a wall); stockpile zones are markers, not obstacles.
func (k BuildingKind) blocksWhenComplete() bool {
	switch k {
	case BuildingDoor, BuildingStockpileZone:
		return false
	default:
		return true
	}
}

// InventorySlot is one bounded stack slot in a building's inventory.
type InventorySlot struct {
	ItemType string
	Qty      int
	Capacity int
}

// BuildingID identifies a building within a Grid's building arena.
type BuildingID uint32

// Building is an axis-aligned rectangle of tiles with kind-specific
// behavior. Buildings are owned by the Grid's building arena; agents and
// the region graph refer to them by BuildingID, never by pointer, per the
// arena+handle pattern in the kernel's design notes.
type Building struct {
	ID         BuildingID
	Kind       BuildingKind
	GX, GY     int
	GW, GH     int
	Completed  bool
	HP         int
	MaxHP      int
	Inventory  []InventorySlot
	DoorOpen   bool   // meaningful only for BuildingKind == BuildingDoor
	OccupiedBy uint32 // entity id occupying a single-slot building (0 = none)
}

// Tiles returns every tile covered by the building's footprint.
func (b *Building) Tiles() []coords.Tile {
	tiles := make([]coords.Tile, 0, b.GW*b.GH)
	for y := b.GY; y < b.GY+b.GH; y++ {
		for x := b.GX; x < b.GX+b.GW; x++ {
			tiles = append(tiles, coords.Tile{X: x, Y: y})
		}
	}
	return tiles
}

// Contains reports whether tile t falls within the building's footprint.
func (b *Building) Contains(t coords.Tile) bool {
	return t.X >= b.GX && t.X < b.GX+b.GW && t.Y >= b.GY && t.Y < b.GY+b.GH
}

// Blocks reports whether the building currently asserts solid=1 on its
// footprint: it must be complete and its kind must block when complete.
// Blueprints (incomplete buildings) never block normal agents.
func (b *Building) Blocks() bool {
	return b.Completed && b.Kind.blocksWhenComplete()
}
