package reservation

import "testing"

// TestScenarioS6ReservationCrewBound matches the literal maxCrew=2, three
// agents (a,b,c) scenario: agents contend for the same target in stable
// id order within the same tick, the first two succeed, the third fails
// and is free to pick another candidate.
func TestScenarioS6ReservationCrewBound(t *testing.T) {
	r := New(nil)
	const target TargetID = 100
	const maxCrew = 2
	a, b, c := AgentID(1), AgentID(2), AgentID(3)

	if !r.TryReserve(a, target, maxCrew) {
		t.Fatal("agent a should succeed under maxCrew=2")
	}
	if !r.TryReserve(b, target, maxCrew) {
		t.Fatal("agent b should succeed under maxCrew=2")
	}
	if r.TryReserve(c, target, maxCrew) {
		t.Fatal("agent c should fail once maxCrew=2 holders already hold the target")
	}
	if r.HolderCount(target) != maxCrew {
		t.Fatalf("HolderCount = %d, want %d", r.HolderCount(target), maxCrew)
	}
}
