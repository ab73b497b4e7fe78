package ecshelper

import (
	"github.com/bytearena/ecs"
	"github.com/colonykernel/sim/coords"
)

// Component handles. Registered once against a shared ecs.Manager by
// kernel wiring; every subsystem that needs to read or write a
// component looks it up through these package-level handles, mirroring
// the teacher's package-level *ecs.Component variables.
var (
	PositionComponent    *ecs.Component
	VelocityComponent    *ecs.Component
	NameComponent        *ecs.Component
	ColonistComponent    *ecs.Component
	IntruderComponent    *ecs.Component
	BuildingRefComponent *ecs.Component
	CarryingComponent    *ecs.Component
	NeedsComponent       *ecs.Component
)

// Position is the tile-space position component shared by every mobile
// or placed entity.
type Position struct {
	Tile coords.Tile
}

// Equal reports whether two positions are the same tile.
func (p *Position) Equal(other *Position) bool {
	return p.Tile.Equal(other.Tile)
}

// Velocity is the per-tick world-space displacement of a moving entity.
type Velocity struct {
	DX, DY float64
}

// Name is a human-readable label, used for logging and debug tooling.
type Name struct {
	Value string
}

// CarryKind is the sum-type tag for a colonist's carried good.
type CarryKind uint8

const (
	CarryNone CarryKind = iota
	CarryWheat
	CarryBread
)

// Carrying is the carrying-transient component: at most one good at a
// time, with a quantity. Kind == CarryNone implies Qty == 0.
type Carrying struct {
	Kind CarryKind
	Qty  int
}

// Needs holds a colonist's survival/condition meters.
type Needs struct {
	Hunger        float64
	Fatigue       float64
	Pain          float64
	HP            float64
	MaxHP         float64
	Consciousness float64
}

// Downed reports whether the colonist's consciousness has dropped below
// the threshold that forces the downed state.
func (n *Needs) Downed(threshold float64) bool {
	return n.Consciousness <= threshold
}

// ColonistRef tags an entity as a colonist and carries its stable
// numeric ID, independent of the transient ecs.EntityID.
type ColonistRef struct {
	ID uint32
}

// IntruderRef tags an entity as an intruder and carries its stable
// numeric ID.
type IntruderRef struct {
	ID uint32
}

// BuildingRef links an entity to the worldgrid.Building it represents
// (buildings are also kept as plain values in worldgrid.Grid; the ECS
// entity exists so FSMs and reservations can reference a building
// through the same component-query machinery as mobile entities).
type BuildingRef struct {
	ID uint32
}

// RegisterComponents creates and assigns every component handle against
// manager. Must be called exactly once per ecs.Manager before any
// entity is created.
func RegisterComponents(manager *ecs.Manager) {
	PositionComponent = manager.NewComponent()
	VelocityComponent = manager.NewComponent()
	NameComponent = manager.NewComponent()
	ColonistComponent = manager.NewComponent()
	IntruderComponent = manager.NewComponent()
	BuildingRefComponent = manager.NewComponent()
	CarryingComponent = manager.NewComponent()
	NeedsComponent = manager.NewComponent()
}

// GetPosition is the GetComponentType wrapper for the position
// component, called frequently enough by movement and FSM code to
// warrant its own accessor.
func GetPosition(e *ecs.Entity) *Position {
	return GetComponentType[*Position](e, PositionComponent)
}

// GetCarrying is the GetComponentType wrapper for the carrying
// component.
func GetCarrying(e *ecs.Entity) *Carrying {
	return GetComponentType[*Carrying](e, CarryingComponent)
}

// GetNeeds is the GetComponentType wrapper for the needs component.
func GetNeeds(e *ecs.Entity) *Needs {
	return GetComponentType[*Needs](e, NeedsComponent)
}
