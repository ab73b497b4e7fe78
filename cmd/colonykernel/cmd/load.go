package cmd

import (
	"fmt"
	"os"

	"github.com/colonykernel/sim/kernel"
	"github.com/colonykernel/sim/persistence"
	"github.com/spf13/cobra"
)

var (
	loadIn    string
	loadTicks int
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load a save file and resume simulating it",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadIn, "in", "world.sav", "save file path to load")
	loadCmd.Flags().IntVar(&loadTicks, "ticks", 100, "number of additional ticks to simulate after load")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	f, err := os.Open(loadIn)
	if err != nil {
		return fmt.Errorf("opening save file: %w", err)
	}
	defer f.Close()

	k, savedAtTick, err := persistence.Load(f, kernel.Options{Log: log})
	if err != nil {
		return fmt.Errorf("loading save: %w", err)
	}
	fmt.Printf("loaded save taken at tick %d: %d colonists, %d intruders\n",
		savedAtTick, len(k.Colonists), len(k.Intruders))

	tickDur := k.Clock.TickDuration()
	for i := 0; i < loadTicks; i++ {
		k.Tick(tickDur)
	}
	fmt.Printf("resumed and simulated %d more ticks\n", loadTicks)
	return nil
}
