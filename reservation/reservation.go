// Package reservation prevents races where multiple agents commit to the
// same target or tile: exclusive tile claims for interaction slots (beds,
// stoves) and crew-bounded target reservations (a construction site that
// can hold up to maxCrew workers). Grounded on the teacher's exclusive
// single-slot occupancy fields (worldgrid.Building.OccupiedBy) generalized
// into a first-class, event-emitting registry.
package reservation

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/eventbus"
)

// TargetID identifies a reservable target (building, tree, rock, or any
// other entity work can be performed on).
type TargetID uint32

// AgentID identifies the reserving agent.
type AgentID uint32

// targetReservation tracks holders of a crew-bounded target.
type targetReservation struct {
	maxCrew int
	holders map[AgentID]struct{}
}

// Registry owns both target and tile reservations for one kernel
// instance.
type Registry struct {
	targets map[TargetID]*targetReservation
	tiles   map[coords.Tile]AgentID
	bus     *eventbus.Bus
}

// New creates an empty reservation registry that publishes release events
// to bus (may be nil to discard events, e.g. in tests).
func New(bus *eventbus.Bus) *Registry {
	return &Registry{
		targets: make(map[TargetID]*targetReservation),
		tiles:   make(map[coords.Tile]AgentID),
		bus:     bus,
	}
}

// TryReserve attempts to acquire one of maxCrew slots on target for
// agent. Succeeds (and is idempotent) if the agent already holds a slot.
func (r *Registry) TryReserve(agent AgentID, target TargetID, maxCrew int) bool {
	res, ok := r.targets[target]
	if !ok {
		res = &targetReservation{maxCrew: maxCrew, holders: make(map[AgentID]struct{})}
		r.targets[target] = res
	}
	if _, already := res.holders[agent]; already {
		return true
	}
	if len(res.holders) >= res.maxCrew {
		return false
	}
	res.holders[agent] = struct{}{}
	return true
}

// Release releases agent's hold on target, if any. Idempotent: releasing
// a target the agent does not hold is a no-op.
func (r *Registry) Release(agent AgentID, target TargetID) {
	res, ok := r.targets[target]
	if !ok {
		return
	}
	if _, held := res.holders[agent]; !held {
		return
	}
	delete(res.holders, agent)
	r.publish(target, agent, "released")
}

// ReleaseReason mirrors the kernel spec's automatic-release triggers.
type ReleaseReason string

const (
	ReasonExplicit    ReleaseReason = "explicit"
	ReasonDeath       ReleaseReason = "death"
	ReasonStateChange ReleaseReason = "state_change"
	ReasonSoftLock    ReleaseReason = "soft_lock_expiry"
	ReasonTimeout     ReleaseReason = "timeout"
)

// ReleaseWithReason releases a target reservation and publishes the
// reservation_released event with the given reason.
func (r *Registry) ReleaseWithReason(agent AgentID, target TargetID, reason ReleaseReason) {
	res, ok := r.targets[target]
	if !ok {
		return
	}
	if _, held := res.holders[agent]; !held {
		return
	}
	delete(res.holders, agent)
	r.publish(target, agent, string(reason))
}

func (r *Registry) publish(target TargetID, agent AgentID, reason string) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(eventbus.Event{
		Kind: eventbus.KindReservationReleased,
		Payload: eventbus.ReservationReleasedPayload{
			TargetID: uint32(target),
			AgentID:  uint32(agent),
			Reason:   reason,
		},
	})
}

// HolderCount returns how many agents currently hold a slot on target.
func (r *Registry) HolderCount(target TargetID) int {
	res, ok := r.targets[target]
	if !ok {
		return 0
	}
	return len(res.holders)
}

// ReleaseAllForAgent releases every target and tile the agent holds, for
// death/despawn cleanup.
func (r *Registry) ReleaseAllForAgent(agent AgentID, reason ReleaseReason) {
	for target, res := range r.targets {
		if _, held := res.holders[agent]; held {
			delete(res.holders, agent)
			r.publish(target, agent, string(reason))
		}
	}
	for tile, holder := range r.tiles {
		if holder == agent {
			delete(r.tiles, tile)
			r.publishTileFreed(tile, agent)
		}
	}
}

// TryClaimTile attempts an exclusive claim on a tile (e.g. a bed or stove
// interaction tile). Idempotent if the agent already holds it.
func (r *Registry) TryClaimTile(agent AgentID, tile coords.Tile) bool {
	if holder, ok := r.tiles[tile]; ok {
		return holder == agent
	}
	r.tiles[tile] = agent
	return true
}

// ReleaseTile releases an exclusive tile claim and fires tile_freed so
// queued agents can reattempt. Idempotent.
func (r *Registry) ReleaseTile(agent AgentID, tile coords.Tile) {
	holder, ok := r.tiles[tile]
	if !ok || holder != agent {
		return
	}
	delete(r.tiles, tile)
	r.publishTileFreed(tile, agent)
}

func (r *Registry) publishTileFreed(tile coords.Tile, agent AgentID) {
	if r.bus == nil {
		return
	}
	r.bus.Publish(eventbus.Event{
		Kind: eventbus.KindTileFreed,
		Payload: eventbus.TileFreedPayload{
			Tile:    tile,
			AgentID: uint32(agent),
		},
	})
}

// TileHolder returns the agent holding a tile claim, if any.
func (r *Registry) TileHolder(tile coords.Tile) (AgentID, bool) {
	a, ok := r.tiles[tile]
	return a, ok
}
