// Command colonykernel drives the simulation kernel headlessly: running
// a scenario for a fixed tick count, benchmarking scheduler budgets, or
// inspecting region-graph state — the kernel itself has no renderer, so
// this is the primary way to exercise it outside a host application.
package main

import (
	"fmt"
	"os"

	"github.com/colonykernel/sim/cmd/colonykernel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
