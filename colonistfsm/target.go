package colonistfsm

import "github.com/colonykernel/sim/coords"

// TargetKind tags what a TargetRef points at.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetBuilding
	TargetTree
	TargetRock
	TargetItem
	TargetAgent
	TargetTile
)

// TargetRef is the colonist's current task/target handle: a building,
// tree, rock, item, agent, or bare tile, tagged by kind so the FSM can
// dispatch without a type switch on concrete entity types.
type TargetRef struct {
	Kind TargetKind
	ID   uint32
	Tile coords.Tile
}

// IsZero reports whether the ref points at nothing.
func (t TargetRef) IsZero() bool {
	return t.Kind == TargetNone
}
