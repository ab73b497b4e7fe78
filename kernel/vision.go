package kernel

import (
	"github.com/colonykernel/sim/colonistfsm"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/worldgrid"
)

// SightRadiusTiles bounds how far a colonist's line-of-sight check
// extends when looking for intruders, matching the teacher's player
// FOV radius (game_main/PlayerMovement.go calls Compute with radius 8).
const SightRadiusTiles = 8

// updateThreatVisibility recomputes c's field of view and sets
// HasThreat/ThreatTile to the nearest visible intruder, feeding the
// FSM's flee/drafted priority evaluation ("enemies in LoS").
func (k *Kernel) updateThreatVisibility(c *colonistfsm.Colonist) {
	c.HasThreat = false
	if len(k.Intruders) == 0 {
		return
	}

	origin := k.Grid.Coords.TileAt(c.Position)
	view := k.Grid.ComputeFOV(origin, SightRadiusTiles)

	var nearest coords.Tile
	bestDist := 0
	for _, id := range k.sortedIntruderIDs() {
		tile := k.Grid.Coords.TileAt(k.Intruders[id].Position)
		if !worldgrid.Visible(view, tile) {
			continue
		}
		d := origin.ManhattanDistance(tile)
		if !c.HasThreat || d < bestDist {
			c.HasThreat = true
			bestDist = d
			nearest = tile
		}
	}
	if c.HasThreat {
		c.ThreatTile = nearest
	}
}
