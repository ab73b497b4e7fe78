package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	runTicks      int
	runCols       int
	runRows       int
	runTileSize   float64
	runSeed       uint64
	runColonists  int
	runIntruders  int
	runReportEach int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the kernel for a fixed number of ticks, printing periodic status",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&runTicks, "ticks", 600, "number of ticks to simulate")
	runCmd.Flags().IntVar(&runCols, "cols", 64, "grid width in tiles")
	runCmd.Flags().IntVar(&runRows, "rows", 64, "grid height in tiles")
	runCmd.Flags().Float64Var(&runTileSize, "tile-size", 32, "tile size in world units")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 1, "RNG seed")
	runCmd.Flags().IntVar(&runColonists, "colonists", 10, "number of colonists to spawn")
	runCmd.Flags().IntVar(&runIntruders, "intruders", 2, "number of intruders to spawn")
	runCmd.Flags().IntVar(&runReportEach, "report-every", 100, "print a status line every N ticks")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	k, err := buildKernel(runCols, runRows, runTileSize, runSeed, log)
	if err != nil {
		return err
	}
	spawnPopulation(k, runColonists, runIntruders, runTileSize)

	tickDur := k.Clock.TickDuration()
	for i := 0; i < runTicks; i++ {
		k.Tick(tickDur)
		if runReportEach > 0 && (i+1)%runReportEach == 0 {
			fmt.Printf("tick %d: %d colonists, %d intruders\n", i+1, len(k.Colonists), len(k.Intruders))
		}
	}
	fmt.Printf("done: simulated %d ticks (%s)\n", runTicks, time.Duration(runTicks)*tickDur)
	return nil
}
