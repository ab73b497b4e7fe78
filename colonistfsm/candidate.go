package colonistfsm

// Candidate is one work opportunity offered by a WorkGiver: a task kind
// label, the target it applies to, and a priority used to order
// candidates from the same or different givers.
type Candidate struct {
	TaskKind string
	Target   TargetRef
	Priority int
}

// WorkGiver is an external strategy object the kernel only defines the
// interface for: it knows how to enumerate task opportunities of one
// kind (construction sites, choppable trees, mineable rocks, harvestable
// plants) without knowing anything about FSM mechanics.
type WorkGiver interface {
	// Candidates returns a priority-ordered list of opportunities for
	// agent, given the current world state. The FSM tries each in
	// order until one is reachable and reservable.
	Candidates(agent *Colonist, ctx *Context) []Candidate
}
