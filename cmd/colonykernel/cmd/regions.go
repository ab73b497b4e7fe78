package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	regionsCols     int
	regionsRows     int
	regionsTileSize float64
)

var regionsCmd = &cobra.Command{
	Use:   "regions",
	Short: "Build an empty grid of the given size and dump its region graph",
	RunE:  runRegions,
}

func init() {
	regionsCmd.Flags().IntVar(&regionsCols, "cols", 64, "grid width in tiles")
	regionsCmd.Flags().IntVar(&regionsRows, "rows", 64, "grid height in tiles")
	regionsCmd.Flags().Float64Var(&regionsTileSize, "tile-size", 32, "tile size in world units")
	rootCmd.AddCommand(regionsCmd)
}

func runRegions(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	k, err := buildKernel(regionsCols, regionsRows, regionsTileSize, 1, log)
	if err != nil {
		return err
	}

	for _, info := range k.DebugRegions() {
		fmt.Printf("region %d: room=%d tiles=%d\n", info.ID, info.RoomID, len(info.Tiles))
	}
	return nil
}
