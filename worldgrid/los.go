package worldgrid

import (
	"github.com/colonykernel/sim/coords"
	"github.com/norendren/go-fov/fov"
)

// fovAdapter satisfies go-fov's GridMap interface (InBounds/IsOpaque in
// tile-index space) over a Grid, the same role the teacher's GameMap
// plays for its dungeon tiles (worldmap/dungeongen.go's PlayerVisible
// field). Solid tiles block sight the same way they block movement.
type fovAdapter struct {
	grid *Grid
}

func (a fovAdapter) InBounds(x, y int) bool {
	return a.grid.InBounds(coords.Tile{X: x, Y: y})
}

func (a fovAdapter) IsOpaque(x, y int) bool {
	return a.grid.SolidAt(coords.Tile{X: x, Y: y})
}

// ComputeFOV returns a View of every tile visible from origin within
// radius tiles, respecting solid tiles as sight blockers.
func (g *Grid) ComputeFOV(origin coords.Tile, radius int) *fov.View {
	v := fov.New()
	v.Compute(fovAdapter{grid: g}, origin.X, origin.Y, radius)
	return v
}

// Visible reports whether a tile is visible in a previously computed
// View, wrapping fov.View.IsVisible to keep the go-fov type out of
// callers that only need a yes/no per tile.
func Visible(v *fov.View, t coords.Tile) bool {
	return v.IsVisible(t.X, t.Y)
}
