package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "colonykernel",
	Short:        "Headless driver for the colony simulation kernel",
	SilenceUsage: true,
	Long: `colonykernel runs the simulation kernel without a renderer.

Examples:
  colonykernel run --ticks 1000
  colonykernel bench --ticks 10000 --colonists 50 --intruders 10
  colonykernel regions --cols 64 --rows 64
  colonykernel save --out world.sav --ticks 500
  colonykernel load --in world.sav --ticks 100`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a TOML config overlay")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
}

func newLogger() *zap.Logger {
	if verbose {
		l, _ := zap.NewDevelopment()
		return l
	}
	l, _ := zap.NewProduction()
	return l
}
