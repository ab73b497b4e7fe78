package persistence

import (
	"bytes"
	"testing"

	"github.com/colonykernel/sim/colonistfsm"
	"github.com/colonykernel/sim/config"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/intruderfsm"
	"github.com/colonykernel/sim/kernel"
	"github.com/colonykernel/sim/worldgrid"
)

func newTestKernel(t *testing.T) *kernel.Kernel {
	t.Helper()
	return kernel.New(kernel.Options{
		Cols: 10, Rows: 10, TileSize: 32,
		Seed: 7, Stream: 3,
		Config: config.Defaults(),
	})
}

func TestSaveLoadRoundTripsEmptyGrid(t *testing.T) {
	k := newTestKernel(t)

	var buf bytes.Buffer
	if err := Save(&buf, k); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}

	loaded, saveTick, err := Load(&buf, kernel.Options{Config: config.Defaults()})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if saveTick != 0 {
		t.Fatalf("saveTick = %d, want 0 for a freshly constructed kernel", saveTick)
	}
	if loaded.Grid.Cols != 10 || loaded.Grid.Rows != 10 {
		t.Fatalf("loaded grid dims = %dx%d, want 10x10", loaded.Grid.Cols, loaded.Grid.Rows)
	}
	if loaded.RNG.State().Seed != 7 || loaded.RNG.State().Stream != 3 {
		t.Fatalf("loaded RNG state = %+v, want seed 7 stream 3", loaded.RNG.State())
	}
}

func TestSaveLoadRoundTripsTerrainAndFloorLayers(t *testing.T) {
	k := newTestKernel(t)
	k.Grid.SetTileTerrain(coords.Tile{X: 3, Y: 3}, worldgrid.TerrainRock)
	k.Grid.SetTileFloor(coords.Tile{X: 4, Y: 4}, worldgrid.FloorStoneRoad)

	var buf bytes.Buffer
	if err := Save(&buf, k); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}
	loaded, _, err := Load(&buf, kernel.Options{Config: config.Defaults()})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	if loaded.TileAt(coords.Tile{X: 3, Y: 3}).Terrain != worldgrid.TerrainRock {
		t.Fatal("expected the rock terrain tile to survive the round trip")
	}
	if !loaded.TileAt(coords.Tile{X: 3, Y: 3}).Solid {
		t.Fatal("expected the rock terrain tile to remain solid")
	}
	if loaded.TileAt(coords.Tile{X: 4, Y: 4}).Floor != worldgrid.FloorStoneRoad {
		t.Fatal("expected the stone floor tile to survive the round trip")
	}
}

func TestSaveLoadRoundTripsBuildingsIncludingInventoryAndDoorState(t *testing.T) {
	k := newTestKernel(t)
	wall, err := k.PlaceBuilding(worldgrid.BuildingWall, 1, 1, 1, 1, true)
	if err != nil {
		t.Fatalf("PlaceBuilding(wall) returned an error: %v", err)
	}
	door, err := k.PlaceBuilding(worldgrid.BuildingDoor, 5, 5, 1, 1, true)
	if err != nil {
		t.Fatalf("PlaceBuilding(door) returned an error: %v", err)
	}
	k.Grid.SetDoorOpen(door.ID, true)
	if b := k.Grid.Building(wall.ID); b != nil {
		b.Inventory = []worldgrid.InventorySlot{{ItemType: "wood", Qty: 5, Capacity: 20}}
	}

	var buf bytes.Buffer
	if err := Save(&buf, k); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}
	loaded, _, err := Load(&buf, kernel.Options{Config: config.Defaults()})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	buildings := loaded.Grid.Buildings()
	if len(buildings) != 2 {
		t.Fatalf("loaded %d buildings, want 2", len(buildings))
	}

	var gotWall, gotDoor *worldgrid.Building
	for _, b := range buildings {
		switch b.Kind {
		case worldgrid.BuildingWall:
			gotWall = b
		case worldgrid.BuildingDoor:
			gotDoor = b
		}
	}
	if gotWall == nil || gotDoor == nil {
		t.Fatalf("expected one wall and one door, got %+v", buildings)
	}
	if len(gotWall.Inventory) != 1 || gotWall.Inventory[0].ItemType != "wood" || gotWall.Inventory[0].Qty != 5 {
		t.Fatalf("wall inventory = %+v, want one wood(5/20) slot", gotWall.Inventory)
	}
	if !gotDoor.DoorOpen {
		t.Fatal("expected the door's open state to survive the round trip")
	}
}

func TestSaveLoadRoundTripsColonistState(t *testing.T) {
	k := newTestKernel(t)
	c := k.SpawnColonist(k.Grid.Coords.Center(coords.Tile{X: 2, Y: 2}), worldgrid.ProfileAgent)
	c.Needs.HP = 42
	c.Needs.Hunger = 0.6
	c.Carrying = colonistfsm.CarryWheat
	c.CarryQty = 3
	c.State = colonistfsm.StateIdle

	var buf bytes.Buffer
	if err := Save(&buf, k); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}
	loaded, _, err := Load(&buf, kernel.Options{Config: config.Defaults()})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	st, ok := loaded.ColonistState(c.ID)
	if !ok {
		t.Fatal("expected the colonist to survive the round trip")
	}
	if st.State != "idle" {
		t.Fatalf("State = %q, want idle", st.State)
	}
	_, _, _, hp, _, _, ok := loaded.ColonistHealth(c.ID)
	if !ok || hp != 42 {
		t.Fatalf("HP = %v (ok=%v), want 42", hp, ok)
	}
	kind, qty, ok := loaded.ColonistInventory(c.ID)
	if !ok || kind != int(colonistfsm.CarryWheat) || qty != 3 {
		t.Fatalf("Inventory = (%d,%d,%v), want (CarryWheat,3,true)", kind, qty, ok)
	}
}

func TestSaveLoadRoundTripsIntruderState(t *testing.T) {
	k := newTestKernel(t)
	in := k.SpawnIntruder(k.Grid.Coords.Center(coords.Tile{X: 6, Y: 6}), worldgrid.ProfileIntruder, 60)
	in.HP = 25
	in.State = intruderfsm.StateChase

	var buf bytes.Buffer
	if err := Save(&buf, k); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}
	loaded, _, err := Load(&buf, kernel.Options{Config: config.Defaults()})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}

	st, ok := loaded.IntruderState(in.ID)
	if !ok {
		t.Fatal("expected the intruder to survive the round trip")
	}
	if st.State != "chase" {
		t.Fatalf("State = %q, want chase", st.State)
	}
}

func TestSaveRejectsUnreadableAfterLoadWithBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOPE0000000000000000")
	if _, _, err := Load(buf, kernel.Options{Config: config.Defaults()}); err == nil {
		t.Fatal("expected Load to reject a stream with a bad magic header")
	}
}

func TestSaveLoadPreservesSaveTick(t *testing.T) {
	k := newTestKernel(t)
	for i := 0; i < 5; i++ {
		k.Tick(1000000000) // 1 second per call, tick rate 30 -> ticks advance
	}
	wantTick := k.Clock.TickCount()

	var buf bytes.Buffer
	if err := Save(&buf, k); err != nil {
		t.Fatalf("Save returned an error: %v", err)
	}
	_, saveTick, err := Load(&buf, kernel.Options{Config: config.Defaults()})
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if saveTick != wantTick {
		t.Fatalf("saveTick = %d, want %d", saveTick, wantTick)
	}
}
