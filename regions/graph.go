// Package regions partitions a worldgrid.Grid's walkable space into
// bounded regions so locality queries (reachability, nearest-object
// search) run in O(regions visited) instead of O(tiles). It is grounded
// on the teacher's chunk-oriented generation passes (worldmap/gen_bsp.go
// and worldmap/gen_rooms_corridors.go both flood-fill/partition a dungeon
// into bounded pieces) generalized from one-shot generation into an
// incrementally rebuildable graph, and on behavior/dangerlevel.go's
// per-tile layer cache pattern for the per-region object index.
package regions

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/worldgrid"
	"go.uber.org/zap"
)

// RegionID uniquely identifies a region. IDs are monotonically allocated
// and never reused within a session, even across rebuilds.
type RegionID uint32

// RoomID identifies a room: an equivalence class of regions joined by
// open (non-door) links.
type RoomID uint32

// LinkKind classifies the adjacency between two regions.
type LinkKind uint8

const (
	LinkOpen LinkKind = iota
	LinkDoor
)

// ObjectKind enumerates the cached object categories find_nearest can
// search over.
type ObjectKind uint8

const (
	ObjectTree ObjectKind = iota
	ObjectRock
	ObjectBuilding
)

// ObjectRef is a lightweight handle into the per-region object cache.
type ObjectRef struct {
	Kind ObjectKind
	ID   uint32
	Pos  coords.Tile
}

// Region is a maximal connected component of walkable tiles within a
// chunk window (or, for a door tile, a degenerate single-tile region —
// see floodChunk for why doors get their own region rather than
// merging the regions on either side).
type Region struct {
	ID     RegionID
	Tiles  map[coords.Tile]struct{}
	Bounds worldgrid.TileRect
	RoomID RoomID
	Links  map[RegionID]LinkKind
	IsDoor bool
}

// Graph owns the region partition over a Grid and the object caches
// keyed by region.
type Graph struct {
	grid      *worldgrid.Grid
	chunkSize int

	regionByTile map[int]RegionID
	regions      map[RegionID]*Region
	nextRegionID RegionID
	nextRoomID   RoomID

	objectsByRegion map[RegionID][]ObjectRef
	objectRegion    map[uint32]RegionID

	log *zap.Logger
}

// DefaultChunkSize is REGION_CHUNK_TILES from the kernel config.
const DefaultChunkSize = 12

// NewGraph creates an empty region graph over grid. Call RebuildFull
// before issuing any query.
func NewGraph(grid *worldgrid.Grid, chunkSize int, log *zap.Logger) *Graph {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Graph{
		grid:            grid,
		chunkSize:       chunkSize,
		regionByTile:    make(map[int]RegionID),
		regions:         make(map[RegionID]*Region),
		nextRegionID:    1,
		nextRoomID:      1,
		objectsByRegion: make(map[RegionID][]ObjectRef),
		objectRegion:    make(map[uint32]RegionID),
		log:             log,
	}
}

func (g *Graph) index(t coords.Tile) int {
	return t.Y*g.grid.Cols + t.X
}

// RegionAt returns the region containing a tile, if any (non-walkable
// tiles have no region).
func (g *Graph) RegionAt(t coords.Tile) (RegionID, bool) {
	if !g.grid.InBounds(t) {
		return 0, false
	}
	id, ok := g.regionByTile[g.index(t)]
	return id, ok
}

// Region returns region data by id.
func (g *Graph) Region(id RegionID) (*Region, bool) {
	r, ok := g.regions[id]
	return r, ok
}

// chunkBoundsContaining returns the tile rectangle of the chunk window
// that contains tile t.
func (g *Graph) chunkBoundsContaining(t coords.Tile) worldgrid.TileRect {
	cx := (t.X / g.chunkSize) * g.chunkSize
	cy := (t.Y / g.chunkSize) * g.chunkSize
	return g.clampRect(worldgrid.TileRect{MinX: cx, MinY: cy, MaxX: cx + g.chunkSize, MaxY: cy + g.chunkSize})
}

func (g *Graph) clampRect(r worldgrid.TileRect) worldgrid.TileRect {
	if r.MinX < 0 {
		r.MinX = 0
	}
	if r.MinY < 0 {
		r.MinY = 0
	}
	if r.MaxX > g.grid.Cols {
		r.MaxX = g.grid.Cols
	}
	if r.MaxY > g.grid.Rows {
		r.MaxY = g.grid.Rows
	}
	return r
}

// chunksCovering returns every chunk-aligned rectangle that intersects
// rect, expanded to whole chunks.
func (g *Graph) chunksCovering(rect worldgrid.TileRect) []worldgrid.TileRect {
	var out []worldgrid.TileRect
	startCX := (rect.MinX / g.chunkSize) * g.chunkSize
	startCY := (rect.MinY / g.chunkSize) * g.chunkSize
	for cy := startCY; cy < rect.MaxY; cy += g.chunkSize {
		for cx := startCX; cx < rect.MaxX; cx += g.chunkSize {
			out = append(out, g.clampRect(worldgrid.TileRect{MinX: cx, MinY: cy, MaxX: cx + g.chunkSize, MaxY: cy + g.chunkSize}))
		}
	}
	return out
}

// RebuildFull discards the entire partition and rebuilds it from scratch.
// Reserved for initial load and save/load restore, per the kernel spec.
func (g *Graph) RebuildFull() {
	g.regionByTile = make(map[int]RegionID)
	g.regions = make(map[RegionID]*Region)
	full := worldgrid.TileRect{MinX: 0, MinY: 0, MaxX: g.grid.Cols, MaxY: g.grid.Rows}
	for _, chunk := range g.chunksCovering(full) {
		g.floodChunk(chunk)
	}
	g.recomputeLinks(full)
	g.recomputeRoomsGlobal()
}

// RebuildArea deletes every region whose tile set intersects rect,
// re-floods the covering chunks, recomputes links at the affected
// borders, and recomputes room membership for the affected regions and
// their neighbours. Region ids outside the rebuilt chunks are
// unaffected (§8 invariant 10).
func (g *Graph) RebuildArea(rect worldgrid.TileRect) {
	chunks := g.chunksCovering(rect)

	affectedRegions := make(map[RegionID]struct{})
	for _, chunk := range chunks {
		for y := chunk.MinY; y < chunk.MaxY; y++ {
			for x := chunk.MinX; x < chunk.MaxX; x++ {
				if id, ok := g.regionByTile[g.index(coords.Tile{X: x, Y: y})]; ok {
					affectedRegions[id] = struct{}{}
				}
			}
		}
	}

	neighbourRegions := make(map[RegionID]struct{})
	for id := range affectedRegions {
		if r, ok := g.regions[id]; ok {
			for linkedID := range r.Links {
				if _, inAffected := affectedRegions[linkedID]; !inAffected {
					neighbourRegions[linkedID] = struct{}{}
				}
			}
		}
	}
	// Invalidate neighbour links pointing into the deleted set.
	for id := range neighbourRegions {
		if r, ok := g.regions[id]; ok {
			for deadID := range affectedRegions {
				delete(r.Links, deadID)
			}
		}
	}

	for id := range affectedRegions {
		r := g.regions[id]
		if r == nil {
			continue
		}
		for t := range r.Tiles {
			delete(g.regionByTile, g.index(t))
		}
		delete(g.regions, id)
	}

	for _, chunk := range chunks {
		g.floodChunk(chunk)
	}

	// Recompute links across the union of rebuilt chunks (their interior
	// boundaries plus the single-tile border around the whole set).
	unionRect := chunks[0]
	for _, c := range chunks[1:] {
		if c.MinX < unionRect.MinX {
			unionRect.MinX = c.MinX
		}
		if c.MinY < unionRect.MinY {
			unionRect.MinY = c.MinY
		}
		if c.MaxX > unionRect.MaxX {
			unionRect.MaxX = c.MaxX
		}
		if c.MaxY > unionRect.MaxY {
			unionRect.MaxY = c.MaxY
		}
	}
	g.recomputeLinks(unionRect)
	g.recomputeRoomsLocal(unionRect, neighbourRegions)
}

// floodChunk partitions the walkable, non-door tiles of a single
// chunk-aligned rectangle into regions via 4-directional flood fill, and
// gives every door tile within the rectangle its own singleton region.
// Flood fill never crosses a door tile or the chunk boundary: doors are
// link endpoints between the regions on either side, never merged into
// either one, and chunks are the unit of region identity.
func (g *Graph) floodChunk(chunk worldgrid.TileRect) {
	visited := make(map[coords.Tile]bool)

	for y := chunk.MinY; y < chunk.MaxY; y++ {
		for x := chunk.MinX; x < chunk.MaxX; x++ {
			t := coords.Tile{X: x, Y: y}
			if visited[t] {
				continue
			}
			visited[t] = true
			if !g.grid.IsWalkable(t, worldgrid.ProfileAgent) {
				continue
			}
			if g.grid.IsDoorTile(t) {
				g.newRegion([]coords.Tile{t}, true)
				continue
			}

			// BFS confined to this chunk, stopping at doors.
			queue := []coords.Tile{t}
			var component []coords.Tile
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				component = append(component, cur)
				for _, n := range cardinalNeighbors(cur) {
					if !chunk.Contains(n) {
						continue
					}
					if visited[n] {
						continue
					}
					if !g.grid.IsWalkable(n, worldgrid.ProfileAgent) {
						visited[n] = true
						continue
					}
					if g.grid.IsDoorTile(n) {
						continue // doors get their own region, handled separately
					}
					visited[n] = true
					queue = append(queue, n)
				}
			}
			g.newRegion(component, false)
		}
	}
}

func (g *Graph) newRegion(tiles []coords.Tile, isDoor bool) RegionID {
	id := g.nextRegionID
	g.nextRegionID++
	tileSet := make(map[coords.Tile]struct{}, len(tiles))
	bounds := worldgrid.TileRect{MinX: tiles[0].X, MinY: tiles[0].Y, MaxX: tiles[0].X + 1, MaxY: tiles[0].Y + 1}
	for _, t := range tiles {
		tileSet[t] = struct{}{}
		if t.X < bounds.MinX {
			bounds.MinX = t.X
		}
		if t.X+1 > bounds.MaxX {
			bounds.MaxX = t.X + 1
		}
		if t.Y < bounds.MinY {
			bounds.MinY = t.Y
		}
		if t.Y+1 > bounds.MaxY {
			bounds.MaxY = t.Y + 1
		}
		g.regionByTile[g.index(t)] = id
	}
	g.regions[id] = &Region{ID: id, Tiles: tileSet, Bounds: bounds, Links: make(map[RegionID]LinkKind), IsDoor: isDoor}
	return id
}

func cardinalNeighbors(t coords.Tile) []coords.Tile {
	return []coords.Tile{
		{X: t.X, Y: t.Y - 1},
		{X: t.X, Y: t.Y + 1},
		{X: t.X - 1, Y: t.Y},
		{X: t.X + 1, Y: t.Y},
	}
}

// recomputeLinks recomputes region adjacency for every tile pair with at
// least one endpoint in rect (padded by one tile so cross-boundary links
// into untouched neighbour regions are captured).
func (g *Graph) recomputeLinks(rect worldgrid.TileRect) {
	pad := g.clampRect(worldgrid.TileRect{MinX: rect.MinX - 1, MinY: rect.MinY - 1, MaxX: rect.MaxX + 1, MaxY: rect.MaxY + 1})
	for y := pad.MinY; y < pad.MaxY; y++ {
		for x := pad.MinX; x < pad.MaxX; x++ {
			t := coords.Tile{X: x, Y: y}
			aID, ok := g.regionByTile[g.index(t)]
			if !ok {
				continue
			}
			for _, n := range []coords.Tile{{X: x + 1, Y: y}, {X: x, Y: y + 1}} {
				if !g.grid.InBounds(n) {
					continue
				}
				bID, ok := g.regionByTile[g.index(n)]
				if !ok || bID == aID {
					continue
				}
				kind := LinkOpen
				if g.regions[aID].IsDoor || g.regions[bID].IsDoor {
					kind = LinkDoor
				}
				g.regions[aID].Links[bID] = kind
				g.regions[bID].Links[aID] = kind
			}
		}
	}
}

// recomputeRoomsGlobal runs a full union-find over open-links. Used only
// by RebuildFull, where there is no "outside" to preserve.
func (g *Graph) recomputeRoomsGlobal() {
	uf := newUnionFind()
	for id := range g.regions {
		uf.find(id)
	}
	for id, r := range g.regions {
		for linkedID, kind := range r.Links {
			if kind == LinkOpen {
				uf.union(id, linkedID)
			}
		}
	}
	roomOf := make(map[RegionID]RoomID)
	for id := range g.regions {
		root := uf.find(id)
		rid, ok := roomOf[root]
		if !ok {
			rid = g.nextRoomID
			g.nextRoomID++
			roomOf[root] = rid
		}
		g.regions[id].RoomID = rid
	}
}

// recomputeRoomsLocal recomputes room membership for the regions inside
// rect plus the given neighbour set, seeding union-find with the
// neighbours' existing room ids so untouched regions elsewhere in the
// graph keep theirs.
func (g *Graph) recomputeRoomsLocal(rect worldgrid.TileRect, neighbours map[RegionID]struct{}) {
	affected := make(map[RegionID]struct{})
	for id, r := range g.regions {
		if r.Bounds.Intersects(rect) {
			affected[id] = struct{}{}
		}
	}
	for id := range neighbours {
		affected[id] = struct{}{}
	}
	if len(affected) == 0 {
		return
	}

	uf := newUnionFind()
	for id := range affected {
		uf.find(id)
	}
	for id := range affected {
		for linkedID, kind := range g.regions[id].Links {
			if kind != LinkOpen {
				continue
			}
			if _, ok := affected[linkedID]; ok {
				uf.union(id, linkedID)
			}
		}
	}

	// Seed each union-find cluster with a pre-existing RoomID from a
	// neighbour region if one is present; otherwise allocate a new one.
	rootRoom := make(map[RegionID]RoomID)
	for id := range neighbours {
		root := uf.find(id)
		if _, ok := rootRoom[root]; !ok {
			rootRoom[root] = g.regions[id].RoomID
		}
	}
	for id := range affected {
		root := uf.find(id)
		rid, ok := rootRoom[root]
		if !ok {
			rid = g.nextRoomID
			g.nextRoomID++
			rootRoom[root] = rid
		}
		g.regions[id].RoomID = rid
	}
}

// union-find over RegionID.
type unionFind struct {
	parent map[RegionID]RegionID
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[RegionID]RegionID)}
}

func (u *unionFind) find(id RegionID) RegionID {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
		return id
	}
	if u.parent[id] != id {
		u.parent[id] = u.find(u.parent[id])
	}
	return u.parent[id]
}

func (u *unionFind) union(a, b RegionID) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
