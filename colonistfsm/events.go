package colonistfsm

import (
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/eventbus"
)

func stateChangedEvent(tick uint64, agentID uint32, from, to State, reason string) eventbus.Event {
	return eventbus.Event{
		Kind: eventbus.KindStateChanged,
		Tick: tick,
		Payload: eventbus.StateChangedPayload{
			AgentID: agentID,
			From:    from.String(),
			To:      to.String(),
			Reason:  reason,
		},
	}
}

func pathFailedEvent(tick uint64, agentID uint32, goal coords.Tile) eventbus.Event {
	return eventbus.Event{
		Kind: eventbus.KindPathFailed,
		Tick: tick,
		Payload: eventbus.PathFailedPayload{
			AgentID:  agentID,
			GoalTile: goal,
		},
	}
}
