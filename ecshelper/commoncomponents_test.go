package ecshelper

import (
	"testing"

	"github.com/bytearena/ecs"
	"github.com/colonykernel/sim/coords"
)

func newTestManager() *ecs.Manager {
	manager := ecs.NewManager()
	RegisterComponents(manager)
	return manager
}

func TestRegisterComponentsAssignsDistinctNonNilHandles(t *testing.T) {
	newTestManager()

	handles := []*ecs.Component{
		PositionComponent, VelocityComponent, NameComponent,
		ColonistComponent, IntruderComponent, BuildingRefComponent,
		CarryingComponent, NeedsComponent,
	}
	seen := make(map[*ecs.Component]bool)
	for i, h := range handles {
		if h == nil {
			t.Fatalf("component handle %d is nil after RegisterComponents", i)
		}
		if seen[h] {
			t.Fatalf("component handle %d collides with a previously seen handle", i)
		}
		seen[h] = true
	}
}

func TestGetPositionRoundTripsThroughAnEntity(t *testing.T) {
	manager := newTestManager()
	entity := manager.NewEntity().
		AddComponent(PositionComponent, &Position{Tile: coords.Tile{X: 3, Y: 4}})

	pos := GetPosition(entity)
	if pos == nil {
		t.Fatal("expected a non-nil position")
	}
	if pos.Tile.X != 3 || pos.Tile.Y != 4 {
		t.Fatalf("Tile = %+v, want {3 4}", pos.Tile)
	}
}

func TestGetPositionReturnsNilWhenComponentMissing(t *testing.T) {
	manager := newTestManager()
	entity := manager.NewEntity().
		AddComponent(NameComponent, &Name{Value: "guard"})

	if got := GetPosition(entity); got != nil {
		t.Fatalf("GetPosition = %+v, want nil for an entity without a position component", got)
	}
}

func TestGetCarryingRoundTripsThroughAnEntity(t *testing.T) {
	manager := newTestManager()
	entity := manager.NewEntity().
		AddComponent(CarryingComponent, &Carrying{Kind: CarryWheat, Qty: 5})

	c := GetCarrying(entity)
	if c == nil {
		t.Fatal("expected a non-nil carrying component")
	}
	if c.Kind != CarryWheat || c.Qty != 5 {
		t.Fatalf("Carrying = %+v, want {CarryWheat 5}", c)
	}
}

func TestGetNeedsRoundTripsThroughAnEntity(t *testing.T) {
	manager := newTestManager()
	entity := manager.NewEntity().
		AddComponent(NeedsComponent, &Needs{Hunger: 0.5, HP: 80, MaxHP: 100, Consciousness: 1})

	n := GetNeeds(entity)
	if n == nil {
		t.Fatal("expected a non-nil needs component")
	}
	if n.Hunger != 0.5 || n.HP != 80 {
		t.Fatalf("Needs = %+v, want Hunger=0.5 HP=80", n)
	}
}

func TestPositionEqual(t *testing.T) {
	a := &Position{Tile: coords.Tile{X: 1, Y: 2}}
	b := &Position{Tile: coords.Tile{X: 1, Y: 2}}
	c := &Position{Tile: coords.Tile{X: 1, Y: 3}}

	if !a.Equal(b) {
		t.Fatal("expected equal tiles to compare equal")
	}
	if a.Equal(c) {
		t.Fatal("expected different tiles to compare unequal")
	}
}

func TestNeedsDowned(t *testing.T) {
	n := &Needs{Consciousness: 0.1}
	if !n.Downed(0.2) {
		t.Fatal("expected Downed to be true when consciousness is below the threshold")
	}
	if n.Downed(0.05) {
		t.Fatal("expected Downed to be false when consciousness is above the threshold")
	}
}
