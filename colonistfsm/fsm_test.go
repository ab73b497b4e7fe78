package colonistfsm

import (
	"testing"
	"time"

	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/eventbus"
	"github.com/colonykernel/sim/pathfinding"
	"github.com/colonykernel/sim/pathqueue"
	"github.com/colonykernel/sim/randgen"
	"github.com/colonykernel/sim/regions"
	"github.com/colonykernel/sim/reservation"
	"github.com/colonykernel/sim/worldgrid"
)

func newTestContext(t *testing.T) (*Context, *worldgrid.Grid) {
	t.Helper()
	grid := worldgrid.New(20, 20, 32, nil)
	graph := regions.NewGraph(grid, 8, nil)
	graph.RebuildFull()
	finder := pathfinding.NewFinder(grid)
	queue := pathqueue.New(finder, 16, nil)
	bus := eventbus.New(true)
	reg := reservation.New(bus)

	ctx := &Context{
		Grid:            grid,
		Regions:         graph,
		Reserve:         reg,
		Paths:           queue,
		Bus:             bus,
		RNG:             randgen.New(1, 1),
		DT:              1.0 / 30.0,
		SoftLockSec:     2.0,
		ArrivalEpsWorld: 2.0,
		WorkRadiusWorld: 8.0,
		HealThreshold:   healSeekHPRatio,
	}
	return ctx, grid
}

func newTestColonist(ctx *Context, at coords.Tile) *Colonist {
	return &Colonist{
		ID:       1,
		Position: ctx.Grid.Coords.Center(at),
		Profile:  worldgrid.ProfileAgent,
		State:    StateIdle,
		Needs:    Needs{HP: 100, MaxHP: 100, Consciousness: 1},
	}
}

func TestUpdateTransitionsToFleeWhenThreatened(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 5, Y: 5})
	c.HasThreat = true
	c.ThreatTile = coords.Tile{X: 6, Y: 5}

	Update(ctx, c)

	if c.State != StateFlee {
		t.Fatalf("State = %v, want StateFlee", c.State)
	}
}

func TestUpdateTransitionsToDownedWhenConsciousnessCritical(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 5, Y: 5})
	c.Needs.Consciousness = 0.05

	Update(ctx, c)

	if c.State != StateDowned || !c.Downed {
		t.Fatalf("State = %v, Downed = %v, want StateDowned/true", c.State, c.Downed)
	}
}

func TestUpdateTransitionsToEatWhenHungerThresholdCrossed(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 5, Y: 5})
	c.Needs.Hunger = 0.9
	// eat only persists while the colonist carries food to consume.
	c.Carrying = CarryBread
	c.CarryQty = 1

	Update(ctx, c)

	if c.State != StateEat {
		t.Fatalf("State = %v, want StateEat", c.State)
	}
}

func TestCanPreemptAllowsHigherPriorityRegardlessOfSoftLock(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	c.TransitionTo(ctx, StateIdle, "init")
	c.SoftLockUntil = c.SimTimeSec + 100 // deep in a soft lock

	if !c.CanPreempt(StateFlee.Priority()) {
		t.Fatal("a strictly higher priority candidate must be able to preempt even under a soft lock")
	}
}

func TestCanPreemptBlocksEqualOrLowerPriorityDuringSoftLock(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	c.TransitionTo(ctx, StateMove, "init")
	c.SoftLockUntil = c.SimTimeSec + 100

	if c.CanPreempt(StateIdle.Priority()) {
		t.Fatal("a lower-or-equal priority candidate must not preempt during an active soft lock")
	}
}

func TestCanPreemptNeverSucceedsOutOfACriticalState(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	c.TransitionTo(ctx, StateDrafted, "init")

	if c.CanPreempt(StateIdle.Priority()) {
		t.Fatal("a critical state must never allow a lower-priority preemption")
	}
}

func TestTransitionToPublishesStateChangedEvent(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})

	c.TransitionTo(ctx, StateSeekTask, "init")

	hist := ctx.Bus.History()
	if len(hist) == 0 {
		t.Fatal("expected at least one published event")
	}
	payload, ok := hist[len(hist)-1].Payload.(eventbus.StateChangedPayload)
	if !ok || payload.To != "seek_task" {
		t.Fatalf("last event payload = %+v, want StateChangedPayload{To: seek_task}", hist[len(hist)-1].Payload)
	}
}

func TestTransitionToSameStateIsANoOp(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	c.TransitionTo(ctx, StateIdle, "init")
	before := len(ctx.Bus.History())

	c.TransitionTo(ctx, StateIdle, "init_again")

	if len(ctx.Bus.History()) != before {
		t.Fatal("transitioning to the already-current state should not publish another event")
	}
}

type stubGiver struct {
	candidates []Candidate
}

func (g *stubGiver) Candidates(agent *Colonist, ctx *Context) []Candidate {
	return g.candidates
}

func TestUpdateSeekTaskCommitsToReachableReservableCandidate(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	target := TargetRef{Kind: TargetTile, ID: 42, Tile: coords.Tile{X: 5, Y: 5}}
	ctx.Givers = []WorkGiver{&stubGiver{candidates: []Candidate{{TaskKind: "build", Target: target, Priority: 1}}}}

	updateSeekTask(ctx, c)

	if c.State != StateMove {
		t.Fatalf("State = %v, want StateMove (committed, travelling to target)", c.State)
	}
	if c.AfterMove != StateBuild {
		t.Fatalf("AfterMove = %v, want StateBuild", c.AfterMove)
	}
	if c.Reserved != target {
		t.Fatalf("Reserved = %+v, want %+v", c.Reserved, target)
	}
	if ctx.Reserve.HolderCount(reservationTarget(target)) != 1 {
		t.Fatal("expected the committed target to be reserved")
	}
}

func TestUpdateSeekTaskSkipsUnreachableCandidate(t *testing.T) {
	ctx, grid := newTestContext(t)
	// wall off the right half of the grid so (15,15) is unreachable from (0,0).
	for y := 0; y < 20; y++ {
		grid.SetTileTerrain(coords.Tile{X: 10, Y: y}, worldgrid.TerrainRock)
	}
	ctx.Regions.RebuildFull()

	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	unreachable := TargetRef{Kind: TargetTile, ID: 7, Tile: coords.Tile{X: 15, Y: 15}}
	ctx.Givers = []WorkGiver{&stubGiver{candidates: []Candidate{{TaskKind: "build", Target: unreachable, Priority: 1}}}}

	updateSeekTask(ctx, c)

	if c.State != StateIdle {
		t.Fatalf("State = %v, want StateIdle (no reachable candidate)", c.State)
	}
	if ctx.Reserve.HolderCount(reservationTarget(unreachable)) != 0 {
		t.Fatal("an unreachable candidate must never be reserved")
	}
}

func TestUpdateSeekTaskFallsBackToIdleWhenNoGiversOfferAnything(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	ctx.Givers = nil

	updateSeekTask(ctx, c)

	if c.State != StateIdle {
		t.Fatalf("State = %v, want StateIdle", c.State)
	}
	if c.SeekReevalAt <= c.SimTimeSec {
		t.Fatal("expected a future re-evaluation time to be scheduled")
	}
}

func TestUpdateIdleReEntersSeekTaskOnceReevalTimeReached(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	c.TransitionTo(ctx, StateIdle, "init")
	c.SeekReevalAt = c.SimTimeSec

	updateIdle(ctx, c)

	if c.State != StateSeekTask {
		t.Fatalf("State = %v, want StateSeekTask", c.State)
	}
}

func TestMoveArrivesAtNearbyGoalAndEntersAfterMoveState(t *testing.T) {
	ctx, grid := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	goal := grid.Coords.Center(coords.Tile{X: 1, Y: 0})
	c.AfterMove = StateResting
	beginMove(ctx, c, goal, ctx.ArrivalEpsWorld)
	c.TransitionTo(ctx, StateMove, "committed")

	ctx.Paths.ProcessFrame(time.Second, grid.GridVersion())

	arrived := false
	for i := 0; i < 200; i++ {
		updateMove(ctx, c)
		if c.State == StateResting {
			arrived = true
			break
		}
	}
	if !arrived {
		t.Fatal("expected the colonist to arrive and enter AfterMove within a bounded number of ticks")
	}
}

func TestMoveFallsBackToSeekTaskAndReleasesReservationOnPathFailure(t *testing.T) {
	ctx, grid := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	target := TargetRef{Kind: TargetTile, ID: 9, Tile: coords.Tile{X: 5, Y: 5}}
	ctx.Reserve.TryReserve(reservationAgent(c.ID), reservationTarget(target), 1)
	c.Reserved = target

	// an unreachable goal (outside the grid) forces the path request to fail.
	goal := coords.World{X: 100000, Y: 100000}
	beginMove(ctx, c, goal, ctx.ArrivalEpsWorld)
	c.TransitionTo(ctx, StateMove, "committed")

	ctx.Paths.ProcessFrame(time.Second, grid.GridVersion())
	updateMove(ctx, c)

	if c.State != StateSeekTask {
		t.Fatalf("State = %v, want StateSeekTask after a path failure", c.State)
	}
	if !c.Reserved.IsZero() {
		t.Fatal("expected the reservation to be released on path failure")
	}
	if ctx.Reserve.HolderCount(reservationTarget(target)) != 0 {
		t.Fatal("expected the target's reservation slot to be freed")
	}
}

type stubWorkTarget struct {
	completeOnApply bool
	completeCalled  bool
}

func (s *stubWorkTarget) ApplyWork(amount float64) bool { return s.completeOnApply }
func (s *stubWorkTarget) Complete(ctx *Context, c *Colonist) {
	s.completeCalled = true
}

func TestUpdateWorkCompletesAndReleasesReservation(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	target := TargetRef{Kind: TargetTile, ID: 3, Tile: coords.Tile{X: 0, Y: 0}}
	ctx.Reserve.TryReserve(reservationAgent(c.ID), reservationTarget(target), 1)
	c.Target = target
	c.Reserved = target
	c.State = StateBuild

	stub := &stubWorkTarget{completeOnApply: true}
	ctx.Lookup = func(ref TargetRef) (WorkTarget, bool) {
		if ref == target {
			return stub, true
		}
		return nil, false
	}

	updateWork(ctx, c)

	if !stub.completeCalled {
		t.Fatal("expected WorkTarget.Complete to be called once ApplyWork reports completion")
	}
	if c.State != StateSeekTask {
		t.Fatalf("State = %v, want StateSeekTask after completion", c.State)
	}
	if ctx.Reserve.HolderCount(reservationTarget(target)) != 0 {
		t.Fatal("expected the reservation to be released on completion")
	}
}

func TestUpdateWorkTimesOutAndReleasesReservation(t *testing.T) {
	ctx, _ := newTestContext(t)
	c := newTestColonist(ctx, coords.Tile{X: 0, Y: 0})
	target := TargetRef{Kind: TargetTile, ID: 4, Tile: coords.Tile{X: 0, Y: 0}}
	ctx.Reserve.TryReserve(reservationAgent(c.ID), reservationTarget(target), 1)
	c.Target = target
	c.Reserved = target
	c.State = StateChop
	c.WorkTimeoutSec = WorkTimeoutSec // already at the limit

	ctx.Lookup = func(ref TargetRef) (WorkTarget, bool) {
		return &stubWorkTarget{completeOnApply: false}, true
	}

	updateWork(ctx, c)

	if c.State != StateSeekTask {
		t.Fatalf("State = %v, want StateSeekTask after timeout", c.State)
	}
	if ctx.Reserve.HolderCount(reservationTarget(target)) != 0 {
		t.Fatal("expected the reservation to be released on timeout")
	}
}
