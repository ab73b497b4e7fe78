package cmd

import (
	"fmt"
	"os"

	"github.com/colonykernel/sim/persistence"
	"github.com/spf13/cobra"
)

var (
	saveOut       string
	saveTicks     int
	saveCols      int
	saveRows      int
	saveTileSize  float64
	saveSeed      uint64
	saveColonists int
	saveIntruders int
)

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Run a scenario for a fixed number of ticks and write a save file",
	RunE:  runSave,
}

func init() {
	saveCmd.Flags().StringVar(&saveOut, "out", "world.sav", "output save file path")
	saveCmd.Flags().IntVar(&saveTicks, "ticks", 500, "number of ticks to simulate before saving")
	saveCmd.Flags().IntVar(&saveCols, "cols", 64, "grid width in tiles")
	saveCmd.Flags().IntVar(&saveRows, "rows", 64, "grid height in tiles")
	saveCmd.Flags().Float64Var(&saveTileSize, "tile-size", 32, "tile size in world units")
	saveCmd.Flags().Uint64Var(&saveSeed, "seed", 1, "RNG seed")
	saveCmd.Flags().IntVar(&saveColonists, "colonists", 10, "number of colonists to spawn")
	saveCmd.Flags().IntVar(&saveIntruders, "intruders", 2, "number of intruders to spawn")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	k, err := buildKernel(saveCols, saveRows, saveTileSize, saveSeed, log)
	if err != nil {
		return err
	}
	spawnPopulation(k, saveColonists, saveIntruders, saveTileSize)

	tickDur := k.Clock.TickDuration()
	for i := 0; i < saveTicks; i++ {
		k.Tick(tickDur)
	}

	f, err := os.Create(saveOut)
	if err != nil {
		return fmt.Errorf("creating save file: %w", err)
	}
	defer f.Close()

	if err := persistence.Save(f, k); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	fmt.Printf("saved %d ticks of state to %s\n", saveTicks, saveOut)
	return nil
}
