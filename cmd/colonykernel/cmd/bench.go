package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	benchTicks     int
	benchCols      int
	benchRows      int
	benchTileSize  float64
	benchColonists int
	benchIntruders int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure wall-clock throughput of the fixed-step tick loop",
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().IntVar(&benchTicks, "ticks", 10000, "number of ticks to simulate")
	benchCmd.Flags().IntVar(&benchCols, "cols", 128, "grid width in tiles")
	benchCmd.Flags().IntVar(&benchRows, "rows", 128, "grid height in tiles")
	benchCmd.Flags().Float64Var(&benchTileSize, "tile-size", 32, "tile size in world units")
	benchCmd.Flags().IntVar(&benchColonists, "colonists", 100, "number of colonists to spawn")
	benchCmd.Flags().IntVar(&benchIntruders, "intruders", 20, "number of intruders to spawn")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	k, err := buildKernel(benchCols, benchRows, benchTileSize, 1, log)
	if err != nil {
		return err
	}
	spawnPopulation(k, benchColonists, benchIntruders, benchTileSize)

	tickDur := k.Clock.TickDuration()
	start := time.Now()
	for i := 0; i < benchTicks; i++ {
		k.Tick(tickDur)
	}
	elapsed := time.Since(start)

	perTick := elapsed / time.Duration(benchTicks)
	fmt.Printf("%d ticks in %s (%s/tick, %.0f ticks/sec)\n",
		benchTicks, elapsed, perTick, float64(benchTicks)/elapsed.Seconds())
	return nil
}
