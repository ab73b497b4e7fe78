package pathfinding

import (
	"testing"

	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/worldgrid"
)

func TestFindStraightLineOnOpenGrid(t *testing.T) {
	g := worldgrid.New(10, 10, 32, nil)
	f := NewFinder(g)

	start := g.Coords.Center(coords.Tile{X: 0, Y: 0})
	goal := g.Coords.Center(coords.Tile{X: 5, Y: 0})

	path, ok := f.Find(start, goal, worldgrid.ProfileAgent, nil)
	if !ok {
		t.Fatal("expected a path across an open grid")
	}
	if len(path) < 2 {
		t.Fatalf("path length = %d, want at least 2 waypoints", len(path))
	}
	first := g.Coords.TileAt(path[0])
	if first != (coords.Tile{X: 0, Y: 0}) {
		t.Fatalf("first waypoint tile = %v, want start tile", first)
	}
	last := g.Coords.TileAt(path[len(path)-1])
	if last != (coords.Tile{X: 5, Y: 0}) {
		t.Fatalf("last waypoint tile = %v, want goal tile", last)
	}
}

func TestFindSameTileReturnsSingleWaypoint(t *testing.T) {
	g := worldgrid.New(10, 10, 32, nil)
	f := NewFinder(g)
	p := g.Coords.Center(coords.Tile{X: 3, Y: 3})

	path, ok := f.Find(p, p, worldgrid.ProfileAgent, nil)
	if !ok || len(path) != 1 {
		t.Fatalf("Find(start==goal) = (%v,%v), want a single-waypoint success", path, ok)
	}
}

func TestFindFailsWhenGoalIsUnwalkable(t *testing.T) {
	g := worldgrid.New(10, 10, 32, nil)
	f := NewFinder(g)
	g.SetTileTerrain(coords.Tile{X: 5, Y: 5}, worldgrid.TerrainRock)

	start := g.Coords.Center(coords.Tile{X: 0, Y: 0})
	goal := g.Coords.Center(coords.Tile{X: 5, Y: 5})

	if _, ok := f.Find(start, goal, worldgrid.ProfileAgent, nil); ok {
		t.Fatal("expected no path to an unwalkable goal")
	}
}

func TestFindRoutesAroundAWall(t *testing.T) {
	g := worldgrid.New(10, 10, 32, nil)
	f := NewFinder(g)
	// a wall spanning the full column x=5, leaving a gap at y=9 to route through
	for y := 0; y < 9; y++ {
		g.SetTileTerrain(coords.Tile{X: 5, Y: y}, worldgrid.TerrainRock)
	}

	start := g.Coords.Center(coords.Tile{X: 0, Y: 0})
	goal := g.Coords.Center(coords.Tile{X: 9, Y: 0})

	path, ok := f.Find(start, goal, worldgrid.ProfileAgent, nil)
	if !ok {
		t.Fatal("expected a path routing around the wall through the gap")
	}
	for _, w := range path {
		tile := g.Coords.TileAt(w)
		if tile.X == 5 && tile.Y != 9 {
			t.Fatalf("path crosses the wall at %v instead of the gap", tile)
		}
	}
}

func TestFindFailsOutsideGridBounds(t *testing.T) {
	g := worldgrid.New(5, 5, 32, nil)
	f := NewFinder(g)
	start := g.Coords.Center(coords.Tile{X: 0, Y: 0})
	goal := coords.World{X: 1000, Y: 1000}

	if _, ok := f.Find(start, goal, worldgrid.ProfileAgent, nil); ok {
		t.Fatal("expected failure for an out-of-bounds goal")
	}
}

func TestFindRespectsIntruderProfileDoorBlocking(t *testing.T) {
	g := worldgrid.New(10, 10, 32, nil)
	f := NewFinder(g)
	// wall the whole row except a door in the middle.
	for x := 0; x < 10; x++ {
		if x != 5 {
			g.SetTileTerrain(coords.Tile{X: x, Y: 5}, worldgrid.TerrainRock)
		}
	}
	bldg, err := g.AddBuilding(worldgrid.BuildingDoor, 5, 5, 1, 1, true)
	if err != nil {
		t.Fatalf("AddBuilding: %v", err)
	}
	g.SetDoorOpen(bldg.ID, false)

	start := g.Coords.Center(coords.Tile{X: 5, Y: 0})
	goal := g.Coords.Center(coords.Tile{X: 5, Y: 9})

	if _, ok := f.Find(start, goal, worldgrid.ProfileIntruder, nil); ok {
		t.Fatal("intruder profile should not path through a closed door as open passage")
	}
	if _, ok := f.Find(start, goal, worldgrid.ProfileAgent, nil); !ok {
		t.Fatal("agent profile should freely path through a door")
	}
}

type constantDanger struct {
	penalty float64
	hash    uint64
}

func (d constantDanger) Penalty(t coords.Tile) float64 { return d.penalty }
func (d constantDanger) Hash() uint64                  { return d.hash }

func TestFindAppliesDangerOverlayPenalty(t *testing.T) {
	g := worldgrid.New(10, 10, 32, nil)
	f := NewFinder(g)
	start := g.Coords.Center(coords.Tile{X: 0, Y: 0})
	goal := g.Coords.Center(coords.Tile{X: 3, Y: 0})

	pathNoDanger, ok := f.Find(start, goal, worldgrid.ProfileAgent, nil)
	if !ok {
		t.Fatal("expected a path with no danger overlay")
	}
	pathWithDanger, ok := f.Find(start, goal, worldgrid.ProfileAgent, constantDanger{penalty: 50})
	if !ok {
		t.Fatal("expected a path even under a heavy danger overlay on open ground")
	}
	if len(pathNoDanger) != len(pathWithDanger) {
		t.Fatalf("danger overlay changed the route length unexpectedly: %d vs %d", len(pathNoDanger), len(pathWithDanger))
	}
}

func TestFindAbortsWhenExpansionBudgetExceeded(t *testing.T) {
	g := worldgrid.New(50, 50, 32, nil)
	f := NewFinder(g)
	f.MaxExpansions = 1

	start := g.Coords.Center(coords.Tile{X: 0, Y: 0})
	goal := g.Coords.Center(coords.Tile{X: 49, Y: 49})

	if _, ok := f.Find(start, goal, worldgrid.ProfileAgent, nil); ok {
		t.Fatal("expected Find to fail once the expansion budget is exhausted")
	}
}
