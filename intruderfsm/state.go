// Package intruderfsm implements the simpler grid-aligned intruder
// state machine: wander until something to chase appears, chase to
// melee range, attack on cooldown, bash through closed doors, and
// recover from staggers. Grounded on the same per-tick-system style as
// colonistfsm, scaled down to match the intruder's smaller state set and
// lack of priority preemption (states here are chosen by straightforward
// precondition checks, not a priority table).
package intruderfsm

// State is an intruder FSM state.
type State uint8

const (
	StateWander State = iota
	StateChase
	StateAttack
	StateBashDoor
	StateStaggered
)

// String names states for logging.
func (s State) String() string {
	switch s {
	case StateWander:
		return "wander"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	case StateBashDoor:
		return "bash_door"
	case StateStaggered:
		return "staggered"
	default:
		return "unknown"
	}
}

const (
	// StaggerSpeedDivisor is the movement speed penalty while staggered.
	StaggerSpeedDivisor = 6.0

	// RepathGoalMovedTiles is the default repath threshold for chase.
	RepathGoalMovedTiles = 1.5

	// StuckWindowSec is the intruder's stuck detector window; the
	// colonist FSM keeps its own separate window constant.
	StuckWindowSec = 0.75

	// AggroRangeTiles is the distance within which an intruder notices
	// an agent worth chasing.
	AggroRangeTiles = 14

	// MeleeRangeWorld is the distance at which chase transitions to
	// attack.
	MeleeRangeWorld = 1.2

	// AttackCooldownSec is the fixed interval between attacks.
	AttackCooldownSec = 1.0

	// DoorBashDamagePerSec is the rate at which bash_door damages a
	// closed door's HP.
	DoorBashDamagePerSec = 25.0
)
