// Package pathqueue schedules pathfinding work across frames so the
// simulation loop is never blocked beyond a configured per-frame
// wall-clock budget. It mirrors the priority-then-FIFO ordering of the
// teacher's timesystem.ActionManager (see timesystem/timemanager.go's
// ReorderActions, which sorts by TotalActionPoints descending with a
// stable tie-break) but drives asynchronous callback delivery instead of
// immediate turn execution, and adds an LRU result cache keyed on the
// kernel spec's path fingerprint.
package pathqueue

import (
	"container/list"
	"time"

	"github.com/colonykernel/sim/coords"
	"github.com/colonykernel/sim/executor"
	"github.com/colonykernel/sim/pathfinding"
	"github.com/colonykernel/sim/worldgrid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fingerprint is the cache key for a computed path.
type Fingerprint struct {
	Start       coords.Tile
	Goal        coords.Tile
	GridVersion uint64
	Profile     worldgrid.Profile
	DangerHash  uint64
}

// Callback receives the result of a path request. ok is false when no
// path was found or the request was superseded by a newer request for
// the same agent. A request removed with Cancel never invokes its
// callback.
type Callback func(path []coords.World, ok bool)

// Handle identifies an in-flight or completed path request.
type Handle uuid.UUID

// request is a queued path computation awaiting service.
type request struct {
	handle       Handle
	agentID      uint32
	start, goal  coords.World
	profile      worldgrid.Profile
	danger       pathfinding.DangerOverlay
	priority     int
	submittedSeq uint64
	callback     Callback
	cancelled    bool
}

// Queue is the single-threaded cooperative path request scheduler.
type Queue struct {
	pending    []*request
	byAgent    map[uint32]Handle
	byHandle   map[Handle]*request
	cache      *lruCache
	seq        uint64
	finder     *pathfinding.Finder
	log        *zap.Logger
}

// New creates a Queue bound to a Finder, with a cache bounded to
// cacheSize entries.
func New(finder *pathfinding.Finder, cacheSize int, log *zap.Logger) *Queue {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		byAgent:  make(map[uint32]Handle),
		byHandle: make(map[Handle]*request),
		cache:    newLRUCache(cacheSize),
		finder:   finder,
		log:      log,
	}
}

// Request submits a path request for agentID. Any prior outstanding
// request for the same agent is superseded: its callback fires
// immediately with (nil, false). The queue never blocks the caller.
func (q *Queue) Request(agentID uint32, start, goal coords.World, profile worldgrid.Profile, priority int, danger pathfinding.DangerOverlay, cb Callback) Handle {
	if prevHandle, ok := q.byAgent[agentID]; ok {
		if prev, ok := q.byHandle[prevHandle]; ok && !prev.cancelled {
			prev.cancelled = true
			if prev.callback != nil {
				prev.callback(nil, false)
			}
			delete(q.byHandle, prevHandle)
		}
	}

	q.seq++
	h := Handle(uuid.New())
	r := &request{
		handle:       h,
		agentID:      agentID,
		start:        start,
		goal:         goal,
		profile:      profile,
		danger:       danger,
		priority:     priority,
		submittedSeq: q.seq,
		callback:     cb,
	}
	q.pending = append(q.pending, r)
	q.byAgent[agentID] = h
	q.byHandle[h] = r
	return h
}

// Cancel cancels a pending request. Idempotent; cancelling an already
// serviced or cancelled handle is a no-op.
func (q *Queue) Cancel(h Handle) {
	r, ok := q.byHandle[h]
	if !ok {
		return
	}
	r.cancelled = true
	delete(q.byHandle, h)
	if q.byAgent[r.agentID] == h {
		delete(q.byAgent, r.agentID)
	}
}

// popHighestPriority removes and returns the highest-priority, oldest
// pending request, or nil if the queue (minus cancelled entries) is
// empty.
func (q *Queue) popHighestPriority() *request {
	bestIdx := -1
	for i, r := range q.pending {
		if r.cancelled {
			continue
		}
		if bestIdx == -1 {
			bestIdx = i
			continue
		}
		best := q.pending[bestIdx]
		if r.priority > best.priority || (r.priority == best.priority && r.submittedSeq < best.submittedSeq) {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		q.pending = q.pending[:0]
		return nil
	}
	r := q.pending[bestIdx]
	q.pending = append(q.pending[:bestIdx], q.pending[bestIdx+1:]...)
	return r
}

// ProcessFrame services requests in priority order until the queue is
// empty or the cumulative elapsed time reaches budget, delegating the
// loop-until-budget-or-dry mechanics to executor.RunUntil. gridVersion is
// the current worldgrid.Grid version, used both for cache fingerprinting
// and staleness checks.
func (q *Queue) ProcessFrame(budget time.Duration, gridVersion uint64) {
	executor.RunUntilFunc(func() bool {
		r := q.popHighestPriority()
		if r == nil {
			return false
		}
		if r.cancelled {
			return q.Len() > 0
		}
		delete(q.byHandle, r.handle)
		if q.byAgent[r.agentID] == r.handle {
			delete(q.byAgent, r.agentID)
		}
		q.service(r, gridVersion)
		return q.Len() > 0
	}, budget)
}

func (q *Queue) service(r *request, gridVersion uint64) {
	startTile := q.finder.Grid.Coords.TileAt(r.start)
	goalTile := q.finder.Grid.Coords.TileAt(r.goal)
	var dangerHash uint64
	if r.danger != nil {
		dangerHash = r.danger.Hash()
	}
	fp := Fingerprint{Start: startTile, Goal: goalTile, GridVersion: gridVersion, Profile: r.profile, DangerHash: dangerHash}

	if cached, ok := q.cache.Get(fp); ok {
		if r.callback != nil {
			r.callback(cached, true)
		}
		return
	}

	path, ok := q.finder.Find(r.start, r.goal, r.profile, r.danger)
	if ok {
		q.cache.Put(fp, path)
	}
	if r.callback != nil {
		r.callback(path, ok)
	}
}

// Len returns the number of requests still awaiting service.
func (q *Queue) Len() int {
	n := 0
	for _, r := range q.pending {
		if !r.cancelled {
			n++
		}
	}
	return n
}

// lruCache is a small fixed-capacity LRU keyed on Fingerprint.
type lruCache struct {
	capacity int
	ll       *list.List
	items    map[Fingerprint]*list.Element
}

type lruEntry struct {
	key   Fingerprint
	value []coords.World
}

func newLRUCache(capacity int) *lruCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &lruCache{capacity: capacity, ll: list.New(), items: make(map[Fingerprint]*list.Element)}
}

func (c *lruCache) Get(key Fingerprint) ([]coords.World, bool) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruEntry).value, true
	}
	return nil, false
}

func (c *lruCache) Put(key Fingerprint, value []coords.World) {
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*lruEntry).value = value
		return
	}
	el := c.ll.PushFront(&lruEntry{key: key, value: value})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}
