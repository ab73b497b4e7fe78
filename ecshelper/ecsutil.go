// Package ecshelper wraps github.com/bytearena/ecs with the kernel's
// component set and a spatial index for O(1) tile-based entity lookup.
// The generic component accessor is grounded on the teacher's
// ecshelper.GetComponentType; the spatial index folds in the teacher's
// systems.PositionSystem (O(1) hash lookup replacing a linear scan over
// all entities), generalized from the teacher's int-keyed
// LogicalPosition to the kernel's coords.Tile.
package ecshelper

import (
	"github.com/bytearena/ecs"
)

// GetComponentType fetches component data from entity and type-asserts
// it to T, returning the zero value if the entity carries no such
// component or the stored type does not match.
func GetComponentType[T any](entity *ecs.Entity, component *ecs.Component) T {
	var zero T
	if entity == nil || component == nil {
		return zero
	}
	data, ok := entity.GetComponentData(component)
	if !ok {
		return zero
	}
	typed, ok := data.(T)
	if !ok {
		return zero
	}
	return typed
}
