package cmd

import (
	"fmt"

	"github.com/colonykernel/sim/config"
	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/kernel"
	"github.com/colonykernel/sim/worldgrid"
	"go.uber.org/zap"
)

// buildKernel constructs a fresh kernel over an empty cols x rows grid,
// applying a TOML overlay from cfgFile if one was given. There are no
// work givers or door/attacker lookups wired here: this CLI exercises
// kernel scheduling and mechanics, not game content, which is supplied
// by whatever host embeds the kernel.
func buildKernel(cols, rows int, tileSize float64, seed uint64, log *zap.Logger) (*kernel.Kernel, error) {
	cfg := config.Defaults()
	if cfgFile != "" {
		loaded, err := config.LoadOverlay(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config overlay: %w", err)
		}
		cfg = loaded
	}
	return kernel.New(kernel.Options{
		Cols:     cols,
		Rows:     rows,
		TileSize: tileSize,
		Seed:     seed,
		Stream:   1,
		Config:   cfg,
		Log:      log,
	}), nil
}

// spawnPopulation places count colonists and intruders at deterministic
// spread-out positions across the grid, for scenarios that just need
// bodies to schedule rather than a hand-authored layout.
func spawnPopulation(k *kernel.Kernel, colonists, intruders int, tileSize float64) {
	cols, rows := k.Grid.Cols, k.Grid.Rows
	for i := 0; i < colonists; i++ {
		x := float64(i%cols)*tileSize + tileSize/2
		y := float64((i/cols)%rows)*tileSize + tileSize/2
		k.SpawnColonist(coords.World{X: x, Y: y}, worldgrid.ProfileAgent)
	}
	for i := 0; i < intruders; i++ {
		x := float64(cols-1-(i%cols))*tileSize + tileSize/2
		y := float64(rows-1-(i/cols)%rows)*tileSize + tileSize/2
		k.SpawnIntruder(coords.World{X: x, Y: y}, worldgrid.ProfileIntruder, 50)
	}
}
