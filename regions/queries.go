package regions

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/worldgrid"
)

// passable reports whether a profile may cross a link of the given kind.
// Agents may cross door-links (at a cost the pathfinder already prices
// in); intruders may cross them too, since bashing a door is a valid
// (if slow) route, not an impossibility.
func passable(kind LinkKind, profile worldgrid.Profile) bool {
	return true
}

// bfsRegions runs a breadth-first search over the region graph starting
// at `from`, invoking visit(id, depth) for every discovered region in
// non-decreasing depth order. Traversal stops once visit returns false or
// every reachable region has been visited.
func (g *Graph) bfsRegions(from RegionID, profile worldgrid.Profile, visit func(id RegionID, depth int) bool) {
	visited := map[RegionID]bool{from: true}
	type item struct {
		id    RegionID
		depth int
	}
	queue := []item{{from, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !visit(cur.id, cur.depth) {
			return
		}
		r, ok := g.regions[cur.id]
		if !ok {
			continue
		}
		for linkedID, kind := range r.Links {
			if visited[linkedID] {
				continue
			}
			if !passable(kind, profile) {
				continue
			}
			visited[linkedID] = true
			queue = append(queue, item{linkedID, cur.depth + 1})
		}
	}
}

// IsReachable reports whether toWorld's region is discoverable via a
// region-graph BFS from fromWorld's region under the given profile.
func (g *Graph) IsReachable(fromWorld, toWorld coords.World, profile worldgrid.Profile) bool {
	fromTile := g.grid.Coords.TileAt(fromWorld)
	toTile := g.grid.Coords.TileAt(toWorld)
	fromID, ok := g.RegionAt(fromTile)
	if !ok {
		return false
	}
	toID, ok := g.RegionAt(toTile)
	if !ok {
		return false
	}
	if fromID == toID {
		return true
	}
	found := false
	g.bfsRegions(fromID, profile, func(id RegionID, depth int) bool {
		if id == toID {
			found = true
			return false
		}
		return true
	})
	return found
}

// BFSDistance returns the region-graph hop distance from fromWorld's
// region to toWorld's region, or (-1, false) if unreachable.
func (g *Graph) BFSDistance(fromWorld, toWorld coords.World, profile worldgrid.Profile) (int, bool) {
	fromTile := g.grid.Coords.TileAt(fromWorld)
	toTile := g.grid.Coords.TileAt(toWorld)
	fromID, ok := g.RegionAt(fromTile)
	if !ok {
		return -1, false
	}
	toID, ok := g.RegionAt(toTile)
	if !ok {
		return -1, false
	}
	dist := -1
	g.bfsRegions(fromID, profile, func(id RegionID, depth int) bool {
		if id == toID {
			dist = depth
			return false
		}
		return true
	})
	return dist, dist >= 0
}

// UpdateObjectCaches rebuilds the per-region object index from scratch.
// Called by the kernel after topology changes (construction complete,
// tree/rock harvested, building destroyed).
func (g *Graph) UpdateObjectCaches(objects []ObjectRef) {
	g.objectsByRegion = make(map[RegionID][]ObjectRef)
	g.objectRegion = make(map[uint32]RegionID)
	for _, obj := range objects {
		id, ok := g.RegionAt(obj.Pos)
		if !ok {
			continue
		}
		g.objectsByRegion[id] = append(g.objectsByRegion[id], obj)
		g.objectRegion[obj.ID] = id
	}
}

// FindNearest runs a region-BFS from fromWorld, testing predicate against
// each region's cached objects of the given kind, and returns the first
// match: nearer regions (lower BFS depth) first, then nearest within a
// region by Euclidean distance. maxRegions bounds the search.
func (g *Graph) FindNearest(fromWorld coords.World, kind ObjectKind, profile worldgrid.Profile, maxRegions int, predicate func(ObjectRef) bool) (ObjectRef, RegionID, bool) {
	fromTile := g.grid.Coords.TileAt(fromWorld)
	fromID, ok := g.RegionAt(fromTile)
	if !ok {
		return ObjectRef{}, 0, false
	}

	var best ObjectRef
	var bestRegion RegionID
	found := false
	visitedCount := 0

	g.bfsRegions(fromID, profile, func(id RegionID, depth int) bool {
		if visitedCount >= maxRegions {
			return false
		}
		visitedCount++
		var closest ObjectRef
		closestDist := -1.0
		for _, obj := range g.objectsByRegion[id] {
			if obj.Kind != kind || (predicate != nil && !predicate(obj)) {
				continue
			}
			center := g.grid.Coords.Center(obj.Pos)
			d := fromWorld.DistanceTo(center)
			if closestDist < 0 || d < closestDist {
				closestDist = d
				closest = obj
			}
		}
		if closestDist >= 0 {
			best = closest
			bestRegion = id
			found = true
			return false // nearer-region-first: first match wins
		}
		return true
	})

	return best, bestRegion, found
}

// RegionInfo is the debug_regions() enumeration element.
type RegionInfo struct {
	ID     RegionID
	Tiles  []coords.Tile
	RoomID RoomID
}

// DebugRegions enumerates every region's id, tile set, and room id.
func (g *Graph) DebugRegions() []RegionInfo {
	out := make([]RegionInfo, 0, len(g.regions))
	for id, r := range g.regions {
		tiles := make([]coords.Tile, 0, len(r.Tiles))
		for t := range r.Tiles {
			tiles = append(tiles, t)
		}
		out = append(out, RegionInfo{ID: id, Tiles: tiles, RoomID: r.RoomID})
	}
	return out
}
