package persistence

import (
	"io"

	"github.com/colonykernel/sim/config"
	"github.com/colonykernel/sim/kernel"
)

// Load reads a save written by Save and returns a freshly constructed
// Kernel in that exact state, plus the tick the save was taken at
// (Clock.TickCount itself resets on load since the clock's wall-clock
// accumulator isn't part of the format). The region graph is rebuilt
// from scratch (never read from the stream) after grid and building
// state is replayed.
func Load(r io.Reader, opts kernel.Options) (*kernel.Kernel, uint64, error) {
	br := newBufferedReader(r)

	header, err := readHeader(br)
	if err != nil {
		return nil, 0, err
	}

	opts.Cols = int(header.Cols)
	opts.Rows = int(header.Rows)
	opts.TileSize = float64(header.TileSize)
	opts.Seed = header.Seed
	if opts.Config.TickRate == 0 {
		opts.Config = config.Defaults()
	}
	opts.Config.TickRate = int(header.TickRate)

	k := kernel.New(opts)

	if err := readGridLayers(br, k.Grid); err != nil {
		return nil, 0, err
	}
	if err := readBuildings(br, k.Grid); err != nil {
		return nil, 0, err
	}
	colonists, intruders, err := readAgents(br)
	if err != nil {
		return nil, 0, err
	}
	k.LoadAgents(colonists, intruders)

	rngState, err := readRNGState(br)
	if err != nil {
		return nil, 0, err
	}
	k.RestoreRNG(rngState)

	k.RebuildTopology()

	return k, header.SaveTick, nil
}
