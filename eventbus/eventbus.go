// Package eventbus is the kernel's narrow outbound channel to external
// collaborators (rendering, audio, UI). It is a simple synchronous
// fan-out, grounded on the teacher's EntityManager-centric "push state,
// let interested systems query it" convention (common.EntityManager) but
// made explicit: the kernel never reaches into a renderer, it only
// appends events a sink subscribes to.
package eventbus

import "github.com/colonykernel/sim/coords"

// Kind enumerates the event categories the kernel spec names in §6.
type Kind uint8

const (
	KindStateChanged Kind = iota
	KindPathFailed
	KindReservationReleased
	KindTileFreed
	KindBuildingCompleted
	KindBuildingDestroyed
	KindAgentDowned
	KindAgentDied
	KindInventoryChanged
	KindKernelError
)

// Event is a single kernel->sink notification. Payload is one of the
// *Payload types below, selected by Kind.
type Event struct {
	Kind    Kind
	Tick    uint64
	Payload interface{}
}

// StateChangedPayload backs KindStateChanged.
type StateChangedPayload struct {
	AgentID  uint32
	From, To string
	Reason   string
}

// PathFailedPayload backs KindPathFailed.
type PathFailedPayload struct {
	AgentID  uint32
	GoalTile coords.Tile
}

// ReservationReleasedPayload backs KindReservationReleased.
type ReservationReleasedPayload struct {
	TargetID uint32
	AgentID  uint32
	Reason   string
}

// TileFreedPayload backs KindTileFreed.
type TileFreedPayload struct {
	Tile    coords.Tile
	AgentID uint32
}

// BuildingEventPayload backs KindBuildingCompleted/KindBuildingDestroyed.
type BuildingEventPayload struct {
	BuildingID uint32
}

// AgentDownedPayload backs KindAgentDowned.
type AgentDownedPayload struct {
	AgentID uint32
}

// AgentDiedPayload backs KindAgentDied.
type AgentDiedPayload struct {
	AgentID uint32
	Cause   string
}

// InventoryChangedPayload backs KindInventoryChanged.
type InventoryChangedPayload struct {
	Container uint32
	ItemType  string
	Delta     int
}

// KernelErrorPayload backs KindKernelError (ConsistencyViolation sink).
type KernelErrorPayload struct {
	Message string
	Fields  map[string]interface{}
}

// Subscriber receives events published to a Bus.
type Subscriber func(Event)

// Bus is a synchronous, single-threaded event dispatcher: Publish calls
// every subscriber in registration order before returning. There is no
// buffering or delivery guarantee beyond "delivered before Publish
// returns", which matches the kernel's single-threaded cooperative model
// (§5) — there is never a concurrent publisher to race against.
type Bus struct {
	subscribers []Subscriber
	history     []Event
	keepHistory bool
}

// New creates an empty Bus. If keepHistory is true, every published event
// is retained (useful for tests and debug tooling); production kernels
// should pass false to avoid unbounded growth over a long session.
func New(keepHistory bool) *Bus {
	return &Bus{keepHistory: keepHistory}
}

// Subscribe registers a subscriber. Returns nothing to unsubscribe by;
// the kernel's sinks are expected to live for the process lifetime.
func (b *Bus) Subscribe(s Subscriber) {
	b.subscribers = append(b.subscribers, s)
}

// Publish delivers ev to every subscriber synchronously.
func (b *Bus) Publish(ev Event) {
	if b.keepHistory {
		b.history = append(b.history, ev)
	}
	for _, s := range b.subscribers {
		s(ev)
	}
}

// History returns every event published so far, if keepHistory was set.
func (b *Bus) History() []Event {
	return b.history
}
