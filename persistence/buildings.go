package persistence

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/colonykernel/sim/worldgrid"
)

// buildingState packs Completed/DoorOpen into the single state byte the
// format calls for, rather than two separate bool fields.
const (
	buildingFlagCompleted = 1 << 0
	buildingFlagDoorOpen  = 1 << 1
)

func writeBuildings(w io.Writer, grid *worldgrid.Grid) error {
	buildings := grid.Buildings()
	if err := binary.Write(w, byteOrder, uint32(len(buildings))); err != nil {
		return fmt.Errorf("persistence: writing building count: %w", err)
	}
	for _, b := range buildings {
		fields := []interface{}{
			b.ID,
			uint16(b.Kind),
			uint16(b.GX), uint16(b.GY), uint16(b.GW), uint16(b.GH),
		}
		for _, f := range fields {
			if err := binary.Write(w, byteOrder, f); err != nil {
				return fmt.Errorf("persistence: writing building %d: %w", b.ID, err)
			}
		}
		state := uint8(0)
		if b.Completed {
			state |= buildingFlagCompleted
		}
		if b.DoorOpen {
			state |= buildingFlagDoorOpen
		}
		if err := binary.Write(w, byteOrder, state); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, uint16(b.HP)); err != nil {
			return err
		}
		if err := writeInventory(w, b.Inventory); err != nil {
			return fmt.Errorf("persistence: writing building %d inventory: %w", b.ID, err)
		}
	}
	return nil
}

// readBuildings recreates each building via Grid.AddBuilding (so
// solid-tile bookkeeping stays correct) and then restores the fields
// AddBuilding doesn't take as parameters directly on the returned
// pointer.
func readBuildings(r io.Reader, grid *worldgrid.Grid) error {
	var count uint32
	if err := binary.Read(r, byteOrder, &count); err != nil {
		return fmt.Errorf("persistence: reading building count: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		var id worldgrid.BuildingID
		var kind, gx, gy, gw, gh uint16
		for _, f := range []interface{}{&id, &kind, &gx, &gy, &gw, &gh} {
			if err := binary.Read(r, byteOrder, f); err != nil {
				return fmt.Errorf("persistence: reading building header: %w", err)
			}
		}
		var state uint8
		var hp uint16
		if err := binary.Read(r, byteOrder, &state); err != nil {
			return err
		}
		if err := binary.Read(r, byteOrder, &hp); err != nil {
			return err
		}
		inv, err := readInventory(r)
		if err != nil {
			return fmt.Errorf("persistence: reading building %d inventory: %w", id, err)
		}

		completed := state&buildingFlagCompleted != 0
		b, err := grid.AddBuilding(worldgrid.BuildingKind(kind), int(gx), int(gy), int(gw), int(gh), completed)
		if err != nil {
			return fmt.Errorf("persistence: replaying building %d: %w", id, err)
		}
		b.HP = int(hp)
		b.Inventory = inv
		if state&buildingFlagDoorOpen != 0 {
			grid.SetDoorOpen(b.ID, true)
		}
	}
	return nil
}

func writeInventory(w io.Writer, slots []worldgrid.InventorySlot) error {
	if err := binary.Write(w, byteOrder, uint32(len(slots))); err != nil {
		return err
	}
	for _, s := range slots {
		if err := writeString(w, s.ItemType); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, uint32(s.Qty)); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, uint32(s.Capacity)); err != nil {
			return err
		}
	}
	return nil
}

func readInventory(r io.Reader) ([]worldgrid.InventorySlot, error) {
	var n uint32
	if err := binary.Read(r, byteOrder, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	slots := make([]worldgrid.InventorySlot, n)
	for i := range slots {
		itemType, err := readString(r)
		if err != nil {
			return nil, err
		}
		var qty, cap32 uint32
		if err := binary.Read(r, byteOrder, &qty); err != nil {
			return nil, err
		}
		if err := binary.Read(r, byteOrder, &cap32); err != nil {
			return nil, err
		}
		slots[i] = worldgrid.InventorySlot{ItemType: itemType, Qty: int(qty), Capacity: int(cap32)}
	}
	return slots, nil
}
