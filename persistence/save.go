package persistence

import (
	"fmt"
	"io"

	"github.com/colonykernel/sim/kernel"
)

// Save writes k's full state to w: header, grid layers, buildings,
// agents, and RNG state, in that fixed order. The region graph is
// intentionally never written.
func Save(w io.Writer, k *kernel.Kernel) error {
	bw := newBufferedWriter(w)

	header := Header{
		Cols:     uint32(k.Grid.Cols),
		Rows:     uint32(k.Grid.Rows),
		TileSize: uint16(k.Grid.Coords.TileSize),
		TickRate: uint16(k.Cfg.TickRate),
		Seed:     k.RNG.State().Seed,
		SaveTick: k.Clock.TickCount(),
	}
	if err := writeHeader(bw, header); err != nil {
		return err
	}
	if err := writeGridLayers(bw, k.Grid); err != nil {
		return err
	}
	if err := writeBuildings(bw, k.Grid); err != nil {
		return err
	}
	if err := writeAgents(bw, k.Colonists, k.Intruders); err != nil {
		return err
	}
	if err := writeRNGState(bw, k.RNG.State()); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("persistence: flushing save: %w", err)
	}
	return nil
}
