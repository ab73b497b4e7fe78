// Package config holds the kernel's tunable constants and the TOML
// overlay that lets an operator override them without a rebuild.
// Grounded on the teacher's plain-const-block config.go, generalized
// from render/gameplay tuning to kernel scheduling and simulation
// tuning, and given a BurntSushi/toml-backed overlay loader since the
// teacher's own JSON settings file (usersettings.go) only ever covered
// display resolution, not simulation parameters.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Debug and diagnostics flags.
const (
	// DebugMode is a compiled-in flag; no kernel code reads it, so it
	// does not change logging.
	DebugMode = true

	// StrictConsistency is copied into the kernel at construction; no
	// kernel code acts on it, so it neither aborts the process nor
	// changes logging.
	StrictConsistency = false
)

// Scheduling budgets and tick rate, all tunable via overlay.
const (
	// TickRate is the fixed simulation rate in ticks per second.
	TickRate = 30

	// PathBudgetMS is the per-frame wall-clock budget, in milliseconds,
	// for servicing the path request queue.
	PathBudgetMS = 4

	// AIBudgetMS is the per-frame wall-clock budget, in milliseconds,
	// for stepping agent and intruder FSMs.
	AIBudgetMS = 6

	// RebuildBudgetMS is the per-frame wall-clock budget, in
	// milliseconds, for region-graph rebuilds.
	RebuildBudgetMS = 2

	// SoftLockSec is how long, after entering a non-critical state, an
	// agent ignores candidate states of equal or lower priority.
	SoftLockSec = 3.0

	// StuckWindowSec is the window over which an agent's displacement
	// is checked to detect a stalled move.
	StuckWindowSec = 1.5

	// ArrivalEpsWorld is the world-unit distance under which an agent is
	// considered to have arrived at a waypoint.
	ArrivalEpsWorld = 0.05

	// RepathGoalMovedTiles is the number of tiles a moving goal must
	// shift before an in-flight path request is superseded.
	RepathGoalMovedTiles = 2

	// RegionChunkTiles is the edge length, in tiles, of a region-graph
	// flood-fill chunk.
	RegionChunkTiles = 12

	// PathMaxExpansions bounds a single A* search's node expansions
	// before it gives up and reports failure.
	PathMaxExpansions = 20000

	// FrameTickCatchup bounds how many logical ticks a single Advance
	// call may simulate, to avoid a spiral of death after a long frame.
	FrameTickCatchup = 5
)

// Overlay holds every field that LoadOverlay may override. Zero-valued
// fields are left at their compiled-in default.
type Overlay struct {
	TickRate          int     `toml:"tick_rate"`
	PathBudgetMS      int     `toml:"path_budget_ms"`
	AIBudgetMS        int     `toml:"ai_budget_ms"`
	RebuildBudgetMS   int     `toml:"rebuild_budget_ms"`
	SoftLockSec       float64 `toml:"soft_lock_sec"`
	StuckWindowSec    float64 `toml:"stuck_window_sec"`
	ArrivalEpsWorld   float64 `toml:"arrival_eps_world"`
	RegionChunkTiles  int     `toml:"region_chunk_tiles"`
	PathMaxExpansions int     `toml:"path_max_expansions"`
	FrameTickCatchup  int     `toml:"frame_tick_catchup"`
	StrictConsistency bool    `toml:"strict_consistency"`
}

// Resolved is the effective, possibly-overlaid set of tunables the
// kernel actually runs with.
type Resolved struct {
	Overlay
}

// Defaults returns a Resolved populated from the compiled-in constants.
func Defaults() Resolved {
	return Resolved{Overlay{
		TickRate:          TickRate,
		PathBudgetMS:      PathBudgetMS,
		AIBudgetMS:        AIBudgetMS,
		RebuildBudgetMS:   RebuildBudgetMS,
		SoftLockSec:       SoftLockSec,
		StuckWindowSec:    StuckWindowSec,
		ArrivalEpsWorld:   ArrivalEpsWorld,
		RegionChunkTiles:  RegionChunkTiles,
		PathMaxExpansions: PathMaxExpansions,
		FrameTickCatchup:  FrameTickCatchup,
		StrictConsistency: StrictConsistency,
	}}
}

// LoadOverlay reads a TOML file at path and applies any fields it sets
// on top of Defaults(). A missing file is not an error: Defaults() is
// returned unchanged. A malformed file is an error.
func LoadOverlay(path string) (Resolved, error) {
	resolved := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return resolved, nil
	}

	var overlay Overlay
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return resolved, fmt.Errorf("config: decoding overlay %q: %w", path, err)
	}

	if overlay.TickRate != 0 {
		resolved.TickRate = overlay.TickRate
	}
	if overlay.PathBudgetMS != 0 {
		resolved.PathBudgetMS = overlay.PathBudgetMS
	}
	if overlay.AIBudgetMS != 0 {
		resolved.AIBudgetMS = overlay.AIBudgetMS
	}
	if overlay.RebuildBudgetMS != 0 {
		resolved.RebuildBudgetMS = overlay.RebuildBudgetMS
	}
	if overlay.SoftLockSec != 0 {
		resolved.SoftLockSec = overlay.SoftLockSec
	}
	if overlay.StuckWindowSec != 0 {
		resolved.StuckWindowSec = overlay.StuckWindowSec
	}
	if overlay.ArrivalEpsWorld != 0 {
		resolved.ArrivalEpsWorld = overlay.ArrivalEpsWorld
	}
	if overlay.RegionChunkTiles != 0 {
		resolved.RegionChunkTiles = overlay.RegionChunkTiles
	}
	if overlay.PathMaxExpansions != 0 {
		resolved.PathMaxExpansions = overlay.PathMaxExpansions
	}
	if overlay.FrameTickCatchup != 0 {
		resolved.FrameTickCatchup = overlay.FrameTickCatchup
	}
	resolved.StrictConsistency = resolved.StrictConsistency || overlay.StrictConsistency

	return resolved, nil
}
