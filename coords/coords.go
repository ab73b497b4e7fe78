// Package coords provides the tile/world coordinate types and conversions
// shared by every kernel subsystem. It consolidates what the original
// roguelike scattered across a coordinate manager and a position type into
// a single small, allocation-free value type plus a stateless conversion
// helper keyed on tile size.
package coords

import "math"

// Tile is an integer grid coordinate (gx, gy) as used by the world grid,
// region graph, and pathfinder. It is the unit of walkability and cost.
type Tile struct {
	X, Y int
}

// Equal reports whether two tiles refer to the same cell.
func (t Tile) Equal(other Tile) bool {
	return t.X == other.X && t.Y == other.Y
}

// ManhattanDistance returns |dx| + |dy| between two tiles.
func (t Tile) ManhattanDistance(other Tile) int {
	return absInt(t.X-other.X) + absInt(t.Y-other.Y)
}

// ChebyshevDistance returns max(|dx|, |dy|) between two tiles.
func (t Tile) ChebyshevDistance(other Tile) int {
	return maxInt(absInt(t.X-other.X), absInt(t.Y-other.Y))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// World is a floating-point world-space position (pixels/world units).
type World struct {
	X, Y float64
}

// Sub returns w - other as a vector.
func (w World) Sub(other World) World {
	return World{X: w.X - other.X, Y: w.Y - other.Y}
}

// Length returns the Euclidean length of w treated as a vector.
func (w World) Length() float64 {
	return math.Hypot(w.X, w.Y)
}

// DistanceTo returns the Euclidean distance between two world positions.
func (w World) DistanceTo(other World) float64 {
	return w.Sub(other).Length()
}

// System converts between tile and world space for a fixed tile size.
// It holds no mutable state; callers own one per grid (or share it, since
// TileSize rarely changes after a map is created).
type System struct {
	TileSize float64
}

// NewSystem returns a coordinate System for the given tile size in world
// units. Panics if tileSize is not positive; this is a construction-time
// contract violation, not a runtime error.
func NewSystem(tileSize float64) System {
	if tileSize <= 0 {
		panic("coords: tile size must be positive")
	}
	return System{TileSize: tileSize}
}

// TileAt returns the tile containing a world position.
func (s System) TileAt(w World) Tile {
	return Tile{
		X: int(math.Floor(w.X / s.TileSize)),
		Y: int(math.Floor(w.Y / s.TileSize)),
	}
}

// Center returns the world-space center of a tile.
func (s System) Center(t Tile) World {
	return World{
		X: (float64(t.X) + 0.5) * s.TileSize,
		Y: (float64(t.Y) + 0.5) * s.TileSize,
	}
}
