package persistence

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/colonykernel/sim/colonistfsm"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/intruderfsm"
)

// agentKind distinguishes the two record shapes sharing the agents
// array. A colonist's five needs slots are {hp,hunger,fatigue,pain,
// consciousness}; an intruder has no needs, so only the first two slots
// (hp, maxHP) are meaningful and the rest are written zero, keeping
// every record the same fixed width.
const (
	agentKindColonist uint8 = 0
	agentKindIntruder uint8 = 1
)

func writeAgents(w io.Writer, colonists map[uint32]*colonistfsm.Colonist, intruders map[uint32]*intruderfsm.Intruder) error {
	total := uint32(len(colonists) + len(intruders))
	if err := binary.Write(w, byteOrder, total); err != nil {
		return fmt.Errorf("persistence: writing agent count: %w", err)
	}
	for _, id := range sortedColonistIDs(colonists) {
		if err := writeColonistRecord(w, colonists[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedIntruderIDs(intruders) {
		if err := writeIntruderRecord(w, intruders[id]); err != nil {
			return err
		}
	}
	return nil
}

func writeColonistRecord(w io.Writer, c *colonistfsm.Colonist) error {
	needs := [5]float32{
		float32(c.Needs.HP), float32(c.Needs.Hunger), float32(c.Needs.Fatigue),
		float32(c.Needs.Pain), float32(c.Needs.Consciousness),
	}
	return writeAgentRecord(w, c.ID, agentKindColonist, c.Position, uint16(c.State), needs, uint8(c.Carrying), uint32(c.CarryQty))
}

func writeIntruderRecord(w io.Writer, in *intruderfsm.Intruder) error {
	needs := [5]float32{float32(in.HP), float32(in.MaxHP), 0, 0, 0}
	return writeAgentRecord(w, in.ID, agentKindIntruder, in.Position, uint16(in.State), needs, 0, 0)
}

func writeAgentRecord(w io.Writer, id uint32, kind uint8, pos coords.World, state uint16, needs [5]float32, carryKind uint8, carryQty uint32) error {
	fields := []interface{}{id, kind, float32(pos.X), float32(pos.Y), state, needs, carryKind, carryQty}
	for _, f := range fields {
		if err := binary.Write(w, byteOrder, f); err != nil {
			return fmt.Errorf("persistence: writing agent %d: %w", id, err)
		}
	}
	return writeBlob(w, nil) // path blob: never persisted, paths are re-requested after load
}

type agentRecord struct {
	ID        uint32
	Kind      uint8
	X, Y      float32
	State     uint16
	Needs     [5]float32
	CarryKind uint8
	CarryQty  uint32
}

func readAgentRecord(r io.Reader) (agentRecord, error) {
	var rec agentRecord
	fields := []interface{}{&rec.ID, &rec.Kind, &rec.X, &rec.Y, &rec.State, &rec.Needs, &rec.CarryKind, &rec.CarryQty}
	for _, f := range fields {
		if err := binary.Read(r, byteOrder, f); err != nil {
			return agentRecord{}, fmt.Errorf("persistence: reading agent record: %w", err)
		}
	}
	if _, err := readBlob(r); err != nil {
		return agentRecord{}, fmt.Errorf("persistence: reading agent path blob: %w", err)
	}
	return rec, nil
}

// readAgents reads the combined array back into fresh colonist/intruder
// maps, keyed by the persisted IDs so handles referenced elsewhere in
// the save (reservations, building occupancy) still resolve after load.
func readAgents(r io.Reader) (map[uint32]*colonistfsm.Colonist, map[uint32]*intruderfsm.Intruder, error) {
	var total uint32
	if err := binary.Read(r, byteOrder, &total); err != nil {
		return nil, nil, fmt.Errorf("persistence: reading agent count: %w", err)
	}
	colonists := make(map[uint32]*colonistfsm.Colonist)
	intruders := make(map[uint32]*intruderfsm.Intruder)
	for i := uint32(0); i < total; i++ {
		rec, err := readAgentRecord(r)
		if err != nil {
			return nil, nil, err
		}
		pos := coords.World{X: float64(rec.X), Y: float64(rec.Y)}
		switch rec.Kind {
		case agentKindColonist:
			colonists[rec.ID] = &colonistfsm.Colonist{
				ID:       rec.ID,
				Position: pos,
				State:    colonistfsm.State(rec.State),
				Needs: colonistfsm.Needs{
					HP: float64(rec.Needs[0]), Hunger: float64(rec.Needs[1]),
					Fatigue: float64(rec.Needs[2]), Pain: float64(rec.Needs[3]),
					Consciousness: float64(rec.Needs[4]),
				},
				Carrying: colonistfsm.CarryKind(rec.CarryKind),
				CarryQty: int(rec.CarryQty),
			}
		case agentKindIntruder:
			intruders[rec.ID] = &intruderfsm.Intruder{
				ID:              rec.ID,
				Position:        pos,
				State:           intruderfsm.State(rec.State),
				HP:              float64(rec.Needs[0]),
				MaxHP:           float64(rec.Needs[1]),
				SpeedMultiplier: 1.0,
			}
		default:
			return nil, nil, fmt.Errorf("persistence: unknown agent kind %d for id %d", rec.Kind, rec.ID)
		}
	}
	return colonists, intruders, nil
}

func sortedColonistIDs(m map[uint32]*colonistfsm.Colonist) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	insertionSortUint32(ids)
	return ids
}

func sortedIntruderIDs(m map[uint32]*intruderfsm.Intruder) []uint32 {
	ids := make([]uint32, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	insertionSortUint32(ids)
	return ids
}

func insertionSortUint32(ids []uint32) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
