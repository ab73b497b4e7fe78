// Package worldgrid owns the single source of truth for tile-level
// walkability and movement cost: the layered solid/cost/terrain/floor
// arrays described in the kernel spec's data model, plus the partial-edit
// primitives (paint/erase floor, mark/unmark building, clear area,
// partial/full rebuild) every other subsystem reads through.
package worldgrid

import (
	"fmt"
	"sync/atomic"

	"github.com/colonykernel/sim/coords"
	"go.uber.org/zap"
)

// Profile selects how a caller treats obstacles: agent profile never
// walks through solid tiles or doors-as-walls (doors are traversable at a
// cost); intruder profile treats doors as attackable obstacles rather
// than open passage until they are destroyed.
type Profile uint8

const (
	ProfileAgent Profile = iota
	ProfileIntruder
)

// doorTraversalPenalty is the additive penalty IntruderTraverseCost places
// on an (undestroyed, closed) door tile. IsWalkable already rejects such a
// tile for the intruder profile, so the pathfinder never routes an
// intruder through it; the penalty only shows up in IntruderTraverseCost
// results, such as the intruder's per-tile movement speed.
const doorTraversalPenalty = 12.0

// sectionSize is the edge length, in tiles, of a dirty-section chunk used
// to batch rebuild work. It is independent of the region graph's chunk
// window (REGION_CHUNK_TILES) which governs region identity, not rebuild
// batching.
const sectionSize = 16

// rebuildPad is the extra ring of tiles re-scanned around a partial
// rebuild rectangle so buildings/trees whose footprint straddles the
// boundary are reapplied correctly.
const rebuildPad = 2

// TileRect is an inclusive-exclusive tile rectangle [MinX,MaxX) x
// [MinY,MaxY).
type TileRect struct {
	MinX, MinY, MaxX, MaxY int
}

// Contains reports whether tile t lies within the rectangle.
func (r TileRect) Contains(t coords.Tile) bool {
	return t.X >= r.MinX && t.X < r.MaxX && t.Y >= r.MinY && t.Y < r.MaxY
}

// Intersects reports whether two tile rectangles overlap.
func (r TileRect) Intersects(o TileRect) bool {
	return r.MinX < o.MaxX && o.MinX < r.MaxX && r.MinY < o.MaxY && o.MinY < r.MaxY
}

// RegionRebuilder is the narrow interface the Region Graph implements so
// the World Grid can trigger a topology rebuild after an edit without
// worldgrid importing the regions package (which imports worldgrid to
// read tile state). Wired by the kernel at startup.
type RegionRebuilder interface {
	RebuildArea(rect TileRect)
	RebuildFull()
}

// Grid is the tiled world: parallel solid/cost/terrain/floor arrays plus
// the building and door arenas that derive them. All mutating methods
// bump gridVersion atomically so pathfinder and region-graph caches can
// detect staleness (§8 invariant 8).
type Grid struct {
	Cols, Rows int
	Coords     coords.System

	solid   []uint8
	cost    []float32
	terrain []TerrainClass
	floor   []FloorClass

	dirtySectionsX int
	dirtySectionsY int
	sectionDirty   []bool

	buildings  map[BuildingID]*Building
	doorByTile map[int]BuildingID
	nextBuildingID BuildingID

	gridVersion uint64

	rebuilder RegionRebuilder
	log       *zap.Logger
}

// New creates a walkable, floor-less, grass-terrain grid of the given
// size. tileSize is in world units (pixels).
func New(cols, rows int, tileSize float64, log *zap.Logger) *Grid {
	if cols <= 0 || rows <= 0 {
		panic("worldgrid: cols and rows must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}
	n := cols * rows
	g := &Grid{
		Cols:           cols,
		Rows:           rows,
		Coords:         coords.NewSystem(tileSize),
		solid:          make([]uint8, n),
		cost:           make([]float32, n),
		terrain:        make([]TerrainClass, n),
		floor:          make([]FloorClass, n),
		dirtySectionsX: (cols + sectionSize - 1) / sectionSize,
		dirtySectionsY: (rows + sectionSize - 1) / sectionSize,
		buildings:      make(map[BuildingID]*Building),
		doorByTile:     make(map[int]BuildingID),
		nextBuildingID: 1,
		log:            log,
	}
	g.sectionDirty = make([]bool, g.dirtySectionsX*g.dirtySectionsY)
	for i := range g.cost {
		g.cost[i] = float32(TerrainCost(TerrainGrass))
	}
	return g
}

// SetRegionRebuilder wires the region graph builder that RebuildPartial
// and RebuildFull delegate topology maintenance to. Must be called once
// during kernel wiring before any mutating grid operation.
func (g *Grid) SetRegionRebuilder(r RegionRebuilder) {
	g.rebuilder = r
}

// GridVersion returns the current monotonic edit counter.
func (g *Grid) GridVersion() uint64 {
	return atomic.LoadUint64(&g.gridVersion)
}

func (g *Grid) bumpVersion() uint64 {
	return atomic.AddUint64(&g.gridVersion, 1)
}

// clampTile clamps out-of-bounds coordinates into the grid, per the
// failure model: reads silently clamp.
func (g *Grid) clampTile(t coords.Tile) coords.Tile {
	if t.X < 0 {
		t.X = 0
	}
	if t.X >= g.Cols {
		t.X = g.Cols - 1
	}
	if t.Y < 0 {
		t.Y = 0
	}
	if t.Y >= g.Rows {
		t.Y = g.Rows - 1
	}
	return t
}

// InBounds reports whether a tile lies within the grid without clamping.
func (g *Grid) InBounds(t coords.Tile) bool {
	return t.X >= 0 && t.X < g.Cols && t.Y >= 0 && t.Y < g.Rows
}

func (g *Grid) index(t coords.Tile) int {
	return t.Y*g.Cols + t.X
}

// IsWalkable reports whether a tile may be entered under the given
// profile. Out-of-bounds tiles are never walkable.
func (g *Grid) IsWalkable(t coords.Tile, profile Profile) bool {
	if !g.InBounds(t) {
		return false
	}
	i := g.index(t)
	switch profile {
	case ProfileIntruder:
		if bid, ok := g.doorByTile[i]; ok {
			if b := g.buildings[bid]; b != nil && !b.DoorOpen {
				// Intruders treat a closed door as an attackable obstacle,
				// not open passage, until it is destroyed.
				return false
			}
		}
		return g.solid[i] == 0 && float64(g.cost[i]) < Impassable
	default:
		return g.solid[i] == 0 && float64(g.cost[i]) < Impassable
	}
}

// TraverseCost returns the movement multiplier for a tile under the
// agent profile. A door tile is fully walkable for the agent profile at
// its plain terrain/floor cost; only IntruderTraverseCost adds the
// closed-door penalty.
func (g *Grid) TraverseCost(t coords.Tile) float64 {
	t = g.clampTile(t)
	i := g.index(t)
	return float64(g.cost[i])
}

// IntruderTraverseCost returns TraverseCost plus the door penalty an
// intruder profile applies to closed, undestroyed doors. Kept distinct
// from TraverseCost (which is profile-neutral for agents) because a door
// tile is fully walkable for the agent profile at its plain cost.
func (g *Grid) IntruderTraverseCost(t coords.Tile) float64 {
	t = g.clampTile(t)
	i := g.index(t)
	cost := float64(g.cost[i])
	if bid, ok := g.doorByTile[i]; ok {
		if b := g.buildings[bid]; b != nil && !b.DoorOpen {
			cost += doorTraversalPenalty
		}
	}
	return cost
}

// TerrainAt returns the terrain class of a tile.
func (g *Grid) TerrainAt(t coords.Tile) TerrainClass {
	t = g.clampTile(t)
	return g.terrain[g.index(t)]
}

// FloorAt returns the floor class of a tile.
func (g *Grid) FloorAt(t coords.Tile) FloorClass {
	t = g.clampTile(t)
	return g.floor[g.index(t)]
}

// SolidAt reports the raw solid flag of a tile, ignoring cost.
func (g *Grid) SolidAt(t coords.Tile) bool {
	t = g.clampTile(t)
	return g.solid[g.index(t)] != 0
}

func (g *Grid) recomputeCost(i int) {
	if g.solid[i] != 0 {
		// Solid tiles keep the layer-derived cost for bookkeeping, but
		// callers must always check solid first; leaving cost coherent
		// means unmark/clear never needs a separate "restore" branch.
		g.cost[i] = float32(TerrainCost(g.terrain[i]) * FloorSpeedMultiplier(g.floor[i]))
		return
	}
	if IsTerrainImpassable(g.terrain[i]) {
		g.cost[i] = float32(Impassable)
		return
	}
	g.cost[i] = float32(TerrainCost(g.terrain[i]) * FloorSpeedMultiplier(g.floor[i]))
}

func (g *Grid) markSectionDirty(t coords.Tile) {
	g.sectionDirty[g.sectionIndex(t)] = true
}

func (g *Grid) sectionIndex(t coords.Tile) int {
	sx := t.X / sectionSize
	sy := t.Y / sectionSize
	return sy*g.dirtySectionsX + sx
}

// SectionIndexAt returns the dirty-section index containing tile t, for
// callers that need to check a tile against DirtySections() without
// consuming it (e.g. a mover deciding whether its remaining path crosses
// a section the grid just changed).
func (g *Grid) SectionIndexAt(t coords.Tile) int {
	return g.sectionIndex(t)
}

func (g *Grid) markRectDirty(rect TileRect) {
	for y := rect.MinY; y < rect.MaxY; y += sectionSize {
		for x := rect.MinX; x < rect.MaxX; x += sectionSize {
			g.markSectionDirty(coords.Tile{X: x, Y: y})
		}
	}
}

// SetTileTerrain sets a tile's terrain class and recomputes its cost.
// Out-of-bounds writes are rejected silently (a contract violation,
// logged at Debug, per the failure model).
func (g *Grid) SetTileTerrain(t coords.Tile, class TerrainClass) {
	if !g.InBounds(t) {
		g.log.Debug("worldgrid: SetTileTerrain out of bounds", zap.Int("x", t.X), zap.Int("y", t.Y))
		return
	}
	i := g.index(t)
	g.terrain[i] = class
	if IsTerrainImpassable(class) {
		g.solid[i] = 1
	}
	g.recomputeCost(i)
	g.markSectionDirty(t)
	g.bumpVersion()
}

// SetTileFloor sets a tile's floor class and recomputes its cost. Painting
// a floor over terrain-impassable ground does not clear solid.
func (g *Grid) SetTileFloor(t coords.Tile, class FloorClass) {
	if !g.InBounds(t) {
		g.log.Debug("worldgrid: SetTileFloor out of bounds", zap.Int("x", t.X), zap.Int("y", t.Y))
		return
	}
	i := g.index(t)
	g.floor[i] = class
	g.recomputeCost(i)
	g.markSectionDirty(t)
	g.bumpVersion()
}

// rectFromTiles builds a TileRect from inclusive corner tiles, clamped to
// grid bounds, rejecting inverted (negative-area) rectangles.
func (g *Grid) rectFromTiles(gx0, gy0, gx1, gy1 int) (TileRect, error) {
	if gx1 < gx0 || gy1 < gy0 {
		return TileRect{}, fmt.Errorf("worldgrid: negative-size rectangle (%d,%d)-(%d,%d)", gx0, gy0, gx1, gy1)
	}
	rect := TileRect{MinX: gx0, MinY: gy0, MaxX: gx1 + 1, MaxY: gy1 + 1}
	if rect.MinX < 0 {
		rect.MinX = 0
	}
	if rect.MinY < 0 {
		rect.MinY = 0
	}
	if rect.MaxX > g.Cols {
		rect.MaxX = g.Cols
	}
	if rect.MaxY > g.Rows {
		rect.MaxY = g.Rows
	}
	return rect, nil
}

// PaintFloorRect paints a floor class over a tile rectangle (inclusive
// corners) and marks the affected sections dirty.
func (g *Grid) PaintFloorRect(gx0, gy0, gx1, gy1 int, class FloorClass) error {
	rect, err := g.rectFromTiles(gx0, gy0, gx1, gy1)
	if err != nil {
		return err
	}
	for y := rect.MinY; y < rect.MaxY; y++ {
		for x := rect.MinX; x < rect.MaxX; x++ {
			i := g.index(coords.Tile{X: x, Y: y})
			g.floor[i] = class
			g.recomputeCost(i)
		}
	}
	g.markRectDirty(rect)
	g.bumpVersion()
	return nil
}

// RemoveFloorRect resets a rectangle back to FloorNone.
func (g *Grid) RemoveFloorRect(gx0, gy0, gx1, gy1 int) error {
	return g.PaintFloorRect(gx0, gy0, gx1, gy1, FloorNone)
}

// ClearArea clears solid and resets cost to the layer-derived value across
// a rectangle. Used by RebuildPartial after obstacle removal, and directly
// by callers that need to undo a cancelled placement.
func (g *Grid) ClearArea(rect TileRect) {
	for y := rect.MinY; y < rect.MaxY; y++ {
		for x := rect.MinX; x < rect.MaxX; x++ {
			i := g.index(coords.Tile{X: x, Y: y})
			g.solid[i] = 0
			delete(g.doorByTile, i)
			g.recomputeCost(i)
		}
	}
	g.markRectDirty(rect)
	g.bumpVersion()
}

// AddBuilding registers a building's footprint, marking solid tiles if the
// kind blocks when complete and recording door tiles. Returns an error if
// any covered tile is already solid (conflicting placement).
func (g *Grid) AddBuilding(kind BuildingKind, gx, gy, gw, gh int, completed bool) (*Building, error) {
	if gw <= 0 || gh <= 0 {
		return nil, fmt.Errorf("worldgrid: building footprint must be positive, got %dx%d", gw, gh)
	}
	b := &Building{ID: g.nextBuildingID, Kind: kind, GX: gx, GY: gy, GW: gw, GH: gh, Completed: completed}
	if completed && kind.blocksWhenComplete() {
		for _, t := range b.Tiles() {
			if !g.InBounds(t) {
				continue
			}
			if g.solid[g.index(t)] != 0 {
				return nil, fmt.Errorf("worldgrid: tile (%d,%d) already blocked", t.X, t.Y)
			}
		}
	}
	g.nextBuildingID++
	g.buildings[b.ID] = b
	g.markBuildingTiles(b)
	return b, nil
}

func (g *Grid) markBuildingTiles(b *Building) {
	for _, t := range b.Tiles() {
		if !g.InBounds(t) {
			continue
		}
		i := g.index(t)
		if b.Kind == BuildingDoor {
			g.doorByTile[i] = b.ID
		}
		if b.Blocks() {
			g.solid[i] = 1
		}
		g.recomputeCost(i)
		g.markSectionDirty(t)
	}
	g.bumpVersion()
}

// CompleteBuilding marks a blueprint as completed, applying its blocking
// rule. Emits no event itself; the kernel's construction state machine
// does that.
func (g *Grid) CompleteBuilding(id BuildingID) {
	b, ok := g.buildings[id]
	if !ok {
		return
	}
	b.Completed = true
	g.markBuildingTiles(b)
}

// RemoveBuilding unmarks a building's footprint (clearing solid where it
// was the source of the block) and deletes it from the arena.
func (g *Grid) RemoveBuilding(id BuildingID) {
	b, ok := g.buildings[id]
	if !ok {
		return
	}
	for _, t := range b.Tiles() {
		if !g.InBounds(t) {
			continue
		}
		i := g.index(t)
		delete(g.doorByTile, i)
		if b.Blocks() {
			g.solid[i] = 0
		}
		g.recomputeCost(i)
		g.markSectionDirty(t)
	}
	delete(g.buildings, id)
	g.bumpVersion()
}

// Building returns a building by id, or nil if it does not exist.
func (g *Grid) Building(id BuildingID) *Building {
	return g.buildings[id]
}

// Buildings returns every registered building. Callers must not mutate the
// returned map.
func (g *Grid) Buildings() map[BuildingID]*Building {
	return g.buildings
}

// IsDoorTile reports whether a tile is occupied by a door building.
func (g *Grid) IsDoorTile(t coords.Tile) bool {
	if !g.InBounds(t) {
		return false
	}
	_, ok := g.doorByTile[g.index(t)]
	return ok
}

// DoorBuildingAt returns the door building occupying a tile, if any.
func (g *Grid) DoorBuildingAt(t coords.Tile) (BuildingID, bool) {
	if !g.InBounds(t) {
		return 0, false
	}
	id, ok := g.doorByTile[g.index(t)]
	return id, ok
}

// SetDoorOpen updates a door building's open/closed state, which decides
// whether IsWalkable lets the intruder profile onto the door tile. A
// change of state bumps the grid version.
func (g *Grid) SetDoorOpen(id BuildingID, open bool) {
	if b, ok := g.buildings[id]; ok && b.Kind == BuildingDoor && b.DoorOpen != open {
		b.DoorOpen = open
		g.bumpVersion()
	}
}

// RebuildPartial reapplies terrain/floor/building state within a radius of
// a world-space center, then delegates region-graph topology maintenance
// to the wired RegionRebuilder. PAD tiles of slack are added so buildings
// straddling the boundary are reapplied correctly.
func (g *Grid) RebuildPartial(center coords.World, radius float64) {
	c := g.Coords.TileAt(center)
	k := int(radius/g.Coords.TileSize) + 1 + rebuildPad
	rect, err := g.rectFromTiles(c.X-k, c.Y-k, c.X+k, c.Y+k)
	if err != nil {
		g.log.Error("worldgrid: RebuildPartial rectangle error", zap.Error(err))
		return
	}
	g.ClearArea(rect)
	for _, b := range g.buildings {
		bRect := TileRect{MinX: b.GX, MinY: b.GY, MaxX: b.GX + b.GW, MaxY: b.GY + b.GH}
		if bRect.Intersects(rect) {
			g.markBuildingTiles(b)
		}
	}
	if g.rebuilder != nil {
		g.rebuilder.RebuildArea(rect)
	}
}

// RebuildFull reapplies every layer and triggers a full region rebuild.
// Reserved for initial load and save/load restore.
func (g *Grid) RebuildFull() {
	for i := range g.cost {
		g.solid[i] = 0
		// Recomputed while the tile is not yet solid, so terrain-impassable
		// tiles get the Impassable cost back even under a painted floor.
		g.recomputeCost(i)
		// Terrain-impassable tiles must come back solid even if a floor
		// was painted over them since the last rebuild; recomputeCost
		// alone only fixes cost, not the solid flag buildings rely on.
		if IsTerrainImpassable(g.terrain[i]) {
			g.solid[i] = 1
		}
	}
	for id, b := range g.buildings {
		_ = id
		g.markBuildingTiles(b)
	}
	for i := range g.sectionDirty {
		g.sectionDirty[i] = true
	}
	g.bumpVersion()
	if g.rebuilder != nil {
		g.rebuilder.RebuildFull()
	}
}

// DirtySections returns the coordinates of every section marked dirty
// since the last ClearDirtySections call, for the budgeted executor to
// drain incrementally.
func (g *Grid) DirtySections() []int {
	out := make([]int, 0)
	for i, dirty := range g.sectionDirty {
		if dirty {
			out = append(out, i)
		}
	}
	return out
}

// ClearDirtySections clears the dirty flag for the given section indices.
func (g *Grid) ClearDirtySections(indices []int) {
	for _, i := range indices {
		g.sectionDirty[i] = false
	}
}
