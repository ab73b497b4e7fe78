package colonistfsm

import "github.com/colonykernel/sim/reservation"

// reservationAgent/reservationTarget convert between this package's
// plain uint32 identifiers and reservation.Registry's typed ones, so
// the FSM never needs to import anything beyond *reservation.Registry
// itself.
func reservationAgent(id uint32) reservation.AgentID   { return reservation.AgentID(id) }
func reservationTarget(t TargetRef) reservation.TargetID { return reservation.TargetID(t.ID) }
