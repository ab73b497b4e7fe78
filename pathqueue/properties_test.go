package pathqueue

import (
	"testing"
	"time"

	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/pathfinding"
	"github.com/colonykernel/sim/worldgrid"
	"pgregory.net/rapid"
)

// TestRepeatedRequestsWithUnchangedGridVersionAlwaysHitTheCache checks
// fingerprint cache correctness: issuing the same start/goal/profile
// request repeatedly against an unchanged grid version must always
// return the exact same path the first computation produced, never a
// recompute, regardless of how many times it is asked.
func TestRepeatedRequestsWithUnchangedGridVersionAlwaysHitTheCache(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		g := worldgrid.New(12, 12, 32, nil)
		f := pathfinding.NewFinder(g)
		q := New(f, 8, nil)

		startTile := coords.Tile{X: rapid.IntRange(0, 11).Draw(rt, "sx"), Y: rapid.IntRange(0, 11).Draw(rt, "sy")}
		goalTile := coords.Tile{X: rapid.IntRange(0, 11).Draw(rt, "gx"), Y: rapid.IntRange(0, 11).Draw(rt, "gy")}
		start := g.Coords.Center(startTile)
		goal := g.Coords.Center(goalTile)
		v := g.GridVersion()

		var id uint32 = 1
		var reference []coords.World
		var referenceOK bool

		repeats := rapid.IntRange(1, 5).Draw(rt, "repeats")
		for i := 0; i < repeats; i++ {
			var path []coords.World
			var ok bool
			q.Request(id, start, goal, worldgrid.ProfileAgent, 0, nil, func(p []coords.World, o bool) {
				path, ok = p, o
			})
			q.ProcessFrame(time.Second, v)
			id++

			if i == 0 {
				reference, referenceOK = path, ok
				continue
			}
			if ok != referenceOK {
				rt.Fatalf("call %d: ok = %v, want %v (unchanged grid version must hit the cache)", i, ok, referenceOK)
			}
			if len(path) != len(reference) {
				rt.Fatalf("call %d: cached path length = %d, want %d", i, len(path), len(reference))
			}
			for j := range path {
				if path[j] != reference[j] {
					rt.Fatalf("call %d: cached waypoint %d = %v, want %v", i, j, path[j], reference[j])
				}
			}
		}
	})
}
