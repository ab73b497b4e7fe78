package kernel

import (
	"testing"
	"time"

	"github.com/colonykernel/sim/colonistfsm"
	"github.com/colonykernel/sim/config"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/intruderfsm"
	"github.com/colonykernel/sim/worldgrid"
)

func newTestKernel(t *testing.T) *Kernel {
	t.Helper()
	return New(Options{
		Cols: 20, Rows: 20, TileSize: 32,
		Seed: 1, Stream: 1,
		Config: config.Defaults(),
	})
}

func TestNewBuildsAWalkableGridWithRegionsIndexed(t *testing.T) {
	k := newTestKernel(t)
	if !k.IsWalkable(coords.Tile{X: 5, Y: 5}, worldgrid.ProfileAgent) {
		t.Fatal("expected a fresh grid to be walkable")
	}
	if !k.IsReachable(
		k.Grid.Coords.Center(coords.Tile{X: 0, Y: 0}),
		k.Grid.Coords.Center(coords.Tile{X: 19, Y: 19}),
		worldgrid.ProfileAgent,
	) {
		t.Fatal("expected the region graph to be built and the open grid fully reachable")
	}
}

func TestSpawnColonistIndexesIntoSpatialQueries(t *testing.T) {
	k := newTestKernel(t)
	spawn := k.Grid.Coords.Center(coords.Tile{X: 3, Y: 3})
	c := k.SpawnColonist(spawn, worldgrid.ProfileAgent)

	if c.State != colonistfsm.StateSeekTask {
		t.Fatalf("State = %v, want seek_task at spawn", c.State)
	}
	refs := k.EntitiesAt(coords.Tile{X: 3, Y: 3})
	if len(refs) != 1 || refs[0].Kind != AgentColonist || refs[0].ID != c.ID {
		t.Fatalf("EntitiesAt(spawn tile) = %v, want a single colonist ref for id %d", refs, c.ID)
	}
}

func TestSpawnIntruderIndexesIntoSpatialQueries(t *testing.T) {
	k := newTestKernel(t)
	spawn := k.Grid.Coords.Center(coords.Tile{X: 7, Y: 7})
	in := k.SpawnIntruder(spawn, worldgrid.ProfileIntruder, 50)

	refs := k.EntitiesAt(coords.Tile{X: 7, Y: 7})
	if len(refs) != 1 || refs[0].Kind != AgentIntruder || refs[0].ID != in.ID {
		t.Fatalf("EntitiesAt(spawn tile) = %v, want a single intruder ref for id %d", refs, in.ID)
	}
}

func TestRemoveColonistClearsSpatialIndexAndReservations(t *testing.T) {
	k := newTestKernel(t)
	c := k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 2, Y: 2}), worldgrid.ProfileAgent)

	k.RemoveColonist(c.ID)

	if _, ok := k.ColonistState(c.ID); ok {
		t.Fatal("expected the colonist to be gone after RemoveColonist")
	}
	if refs := k.EntitiesAt(coords.Tile{X: 2, Y: 2}); len(refs) != 0 {
		t.Fatalf("EntitiesAt after remove = %v, want empty", refs)
	}
}

func TestRemoveIntruderClearsSpatialIndex(t *testing.T) {
	k := newTestKernel(t)
	in := k.SpawnIntruder(k.Grid.Coords.Center(coords.Tile{X: 4, Y: 4}), worldgrid.ProfileIntruder, 50)

	k.RemoveIntruder(in.ID)

	if _, ok := k.IntruderState(in.ID); ok {
		t.Fatal("expected the intruder to be gone after RemoveIntruder")
	}
	if refs := k.EntitiesAt(coords.Tile{X: 4, Y: 4}); len(refs) != 0 {
		t.Fatalf("EntitiesAt after remove = %v, want empty", refs)
	}
}

func TestEntitiesNearFindsAcrossARadius(t *testing.T) {
	k := newTestKernel(t)
	c1 := k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 10, Y: 10}), worldgrid.ProfileAgent)
	c2 := k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 11, Y: 10}), worldgrid.ProfileAgent)
	k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 19, Y: 19}), worldgrid.ProfileAgent)

	refs := k.EntitiesNear(coords.Tile{X: 10, Y: 10}, 1)

	found := map[uint32]bool{}
	for _, r := range refs {
		found[r.ID] = true
	}
	if !found[c1.ID] || !found[c2.ID] {
		t.Fatalf("EntitiesNear = %v, want to include ids %d and %d", refs, c1.ID, c2.ID)
	}
	if len(refs) != 2 {
		t.Fatalf("EntitiesNear returned %d refs, want 2 (the far colonist excluded)", len(refs))
	}
}

func TestTickAdvancesColonistOutOfSeekTaskWhenNoGiversExist(t *testing.T) {
	k := newTestKernel(t)
	k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 0, Y: 0}), worldgrid.ProfileAgent)

	k.Tick(time.Second)

	st, ok := k.ColonistState(1)
	if !ok {
		t.Fatal("expected colonist 1 to still exist")
	}
	if st.State != "idle" {
		t.Fatalf("State = %q, want idle once seek_task finds no giver", st.State)
	}
}

func TestTickSyncsSpatialIndexAfterMovement(t *testing.T) {
	k := newTestKernel(t)
	c := k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 0, Y: 0}), worldgrid.ProfileAgent)
	c.Position = k.Grid.Coords.Center(coords.Tile{X: 8, Y: 8})

	k.Tick(time.Second)

	refs := k.EntitiesAt(coords.Tile{X: 8, Y: 8})
	found := false
	for _, r := range refs {
		if r.Kind == AgentColonist && r.ID == c.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("EntitiesAt(8,8) = %v, want the colonist to be re-indexed at its new tile", refs)
	}
}

func TestPlaceBuildingQueuesRebuildAndBlocksOnceComplete(t *testing.T) {
	k := newTestKernel(t)
	b, err := k.PlaceBuilding(worldgrid.BuildingWall, 5, 5, 1, 1, true)
	if err != nil {
		t.Fatalf("PlaceBuilding returned an error: %v", err)
	}
	if k.IsWalkable(coords.Tile{X: 5, Y: 5}, worldgrid.ProfileAgent) {
		t.Fatal("expected a completed wall to block the tile immediately")
	}

	k.Tick(time.Second) // drains the queued rebuild

	if _, ok := k.Regions.RegionAt(coords.Tile{X: 5, Y: 5}); ok {
		t.Fatal("expected the region graph to reflect the new wall after a tick")
	}
	_ = b
}

func TestCancelBuildingFreesFootprint(t *testing.T) {
	k := newTestKernel(t)
	b, err := k.PlaceBuilding(worldgrid.BuildingWall, 5, 5, 1, 1, true)
	if err != nil {
		t.Fatalf("PlaceBuilding returned an error: %v", err)
	}

	k.CancelBuilding(b.ID)

	if !k.IsWalkable(coords.Tile{X: 5, Y: 5}, worldgrid.ProfileAgent) {
		t.Fatal("expected the tile to be walkable again after cancelling the building")
	}
}

func TestApplyDamageDownsColonistAtZeroHP(t *testing.T) {
	k := newTestKernel(t)
	c := k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 0, Y: 0}), worldgrid.ProfileAgent)

	k.ApplyDamage(c.ID, 1000)

	if !c.Downed {
		t.Fatal("expected the colonist to be downed after lethal damage")
	}
	if c.Needs.HP != 0 {
		t.Fatalf("HP = %v, want clamped to 0", c.Needs.HP)
	}
}

func TestLoadAgentsReplacesPopulationAndReindexes(t *testing.T) {
	k := newTestKernel(t)
	stale := k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 0, Y: 0}), worldgrid.ProfileAgent)

	fresh := &colonistfsm.Colonist{
		ID:       42,
		Position: k.Grid.Coords.Center(coords.Tile{X: 9, Y: 9}),
		Profile:  worldgrid.ProfileAgent,
		State:    colonistfsm.StateIdle,
	}
	k.LoadAgents(
		map[uint32]*colonistfsm.Colonist{42: fresh},
		map[uint32]*intruderfsm.Intruder{},
	)

	if _, ok := k.ColonistState(stale.ID); ok {
		t.Fatal("expected the pre-load colonist to be gone after LoadAgents")
	}
	st, ok := k.ColonistState(42)
	if !ok {
		t.Fatal("expected the loaded colonist to be present")
	}
	if st.State != "idle" {
		t.Fatalf("State = %q, want idle", st.State)
	}
	refs := k.EntitiesAt(coords.Tile{X: 9, Y: 9})
	if len(refs) != 1 || refs[0].ID != 42 {
		t.Fatalf("EntitiesAt(9,9) = %v, want the freshly loaded colonist re-indexed there", refs)
	}
}
