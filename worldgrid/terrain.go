package worldgrid

// TerrainClass is the base biome layer of a tile. It is set once at map
// generation (or by a handful of scripted events) and rarely changes
// afterwards, unlike FloorClass.
type TerrainClass uint8

const (
	TerrainGrass TerrainClass = iota
	TerrainDirt
	TerrainStone
	TerrainSand
	TerrainMud
	TerrainShallowWater
	TerrainDeepWater
	TerrainRock
)

// FloorClass is the built floor layer. FloorNone means no floor has been
// constructed; the tile's cost is governed by TerrainClass alone.
type FloorClass uint8

const (
	FloorNone FloorClass = iota
	FloorBasicPath
	FloorStoneRoad
	FloorWooden
)

// Impassable is the cost sentinel: any tile whose computed cost is >=
// Impassable is treated as unwalkable regardless of its solid flag, and
// callers must assume infinite traversal cost.
const Impassable = 999.0

// terrainCost maps a terrain class to its movement multiplier. Deep water
// and rock are impassable; everything else is finite and >= 1.0 except
// floors, which may only ever reduce the *effective* cost once layered on
// top (see Grid.recomputeCost).
var terrainCost = map[TerrainClass]float64{
	TerrainGrass:        1.0,
	TerrainDirt:         1.0,
	TerrainStone:        1.0,
	TerrainSand:         1.3,
	TerrainMud:          1.8,
	TerrainShallowWater: 2.2,
	TerrainDeepWater:    Impassable,
	TerrainRock:         Impassable,
}

// floorMultiplier maps a floor class to its movement multiplier, applied
// on top of the terrain cost. Floors may only reduce cost (multiplier <=
// 1.0); they never make a terrain-impassable tile walkable.
var floorMultiplier = map[FloorClass]float64{
	FloorNone:      1.0,
	FloorBasicPath: 0.9,
	FloorStoneRoad: 0.6,
	FloorWooden:    0.8,
}

// TerrainCost returns the base movement multiplier for a terrain class.
// Unknown classes are treated as impassable — a missing table entry is a
// content bug, not a reason to let an agent walk through rock.
func TerrainCost(t TerrainClass) float64 {
	if c, ok := terrainCost[t]; ok {
		return c
	}
	return Impassable
}

// FloorSpeedMultiplier returns the movement multiplier for a floor class.
func FloorSpeedMultiplier(f FloorClass) float64 {
	if m, ok := floorMultiplier[f]; ok {
		return m
	}
	return 1.0
}

// IsTerrainImpassable reports whether a terrain class blocks movement on
// its own, independent of any floor painted over it.
func IsTerrainImpassable(t TerrainClass) bool {
	return TerrainCost(t) >= Impassable
}
