// Package routingtable holds a node's view of the ring: its finger
// table, successor list, and predecessor pointer.
package routingtable

import (
	"sync"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

// routingEntry is a single slot in the routing table. Each slot is
// guarded by its own lock so that concurrent readers (lookups) never
// block on writers (stabilization) updating an unrelated slot.
type routingEntry struct {
	node *domain.Node
	mu   sync.RWMutex
}

func (e *routingEntry) get() *domain.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.node
}

func (e *routingEntry) set(n *domain.Node) {
	e.mu.Lock()
	e.node = n
	e.mu.Unlock()
}

// RoutingTable holds the ring-routing state owned by a single node:
// a finger table of length space.Bits, a successor list of
// space.SuccListSize entries, and a predecessor pointer.
type RoutingTable struct {
	logger logger.Logger
	space  domain.Space
	self   *domain.Node

	successorList []*routingEntry
	succListSize  int
	predecessor   *routingEntry
	fingers       []*routingEntry
	lastFinger    int // round-robin cursor for fixFingerTable
	fingerMu      sync.Mutex
}

// New creates and initializes a new RoutingTable for the given node.
// All slots start nil; stabilization fills them in over time.
func New(self *domain.Node, space domain.Space, succListSize int, opts ...Option) *RoutingTable {
	rt := &RoutingTable{
		self:          self,
		space:         space,
		successorList: make([]*routingEntry, succListSize),
		succListSize:  succListSize,
		predecessor:   &routingEntry{},
		fingers:       make([]*routingEntry, space.Bits),
		logger:        &logger.NopLogger{},
	}
	for i := range rt.successorList {
		rt.successorList[i] = &routingEntry{}
	}
	for i := range rt.fingers {
		rt.fingers[i] = &routingEntry{}
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger.Debug("routing table initialized")
	return rt
}

// InitSingleNode configures the routing table for a fresh, single-node
// ring: every pointer (successor, predecessor, every finger) refers to
// self.
func (rt *RoutingTable) InitSingleNode() {
	rt.successorList[0].set(rt.self)
	rt.predecessor.set(rt.self)
	for _, f := range rt.fingers {
		f.set(rt.self)
	}
	rt.logger.Debug("routing table set to single-node ring")
}

// Space returns the identifier space configuration.
func (rt *RoutingTable) Space() domain.Space { return rt.space }

// Self returns the local node owning this routing table.
func (rt *RoutingTable) Self() *domain.Node { return rt.self }

// SuccListSize returns the configured size of the successor list.
func (rt *RoutingTable) SuccListSize() int { return rt.succListSize }

// ---------------------------------------------------------------------
// Successor list
// ---------------------------------------------------------------------

// GetSuccessor returns the i-th successor, or nil if unset or out of range.
func (rt *RoutingTable) GetSuccessor(i int) *domain.Node {
	if i < 0 || i >= len(rt.successorList) {
		rt.logger.Warn("GetSuccessor: index out of range", logger.F("requested", i))
		return nil
	}
	return rt.successorList[i].get()
}

// FirstSuccessor is equivalent to GetSuccessor(0).
func (rt *RoutingTable) FirstSuccessor() *domain.Node {
	return rt.GetSuccessor(0)
}

// SetSuccessor updates the i-th successor entry.
func (rt *RoutingTable) SetSuccessor(i int, node *domain.Node) {
	if i < 0 || i >= len(rt.successorList) {
		rt.logger.Warn("SetSuccessor: index out of range", logger.F("requested", i))
		return
	}
	rt.successorList[i].set(node)
	rt.logger.Debug("SetSuccessor: updated", logger.F("index", i), logger.FNode("successor", node))
}

// SuccessorList returns a snapshot of all non-nil successors.
func (rt *RoutingTable) SuccessorList() []*domain.Node {
	out := make([]*domain.Node, 0, len(rt.successorList))
	for _, e := range rt.successorList {
		if n := e.get(); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// SetSuccessorList replaces the entire successor list. The slice must
// have the same length as the configured successor list size.
func (rt *RoutingTable) SetSuccessorList(nodes []*domain.Node) {
	if len(nodes) != len(rt.successorList) {
		rt.logger.Warn("SetSuccessorList: length mismatch",
			logger.F("expected", len(rt.successorList)), logger.F("got", len(nodes)))
		return
	}
	for i, n := range nodes {
		rt.successorList[i].set(n)
	}
	rt.logger.Debug("SetSuccessorList: updated", logger.F("count", len(nodes)))
}

// PromoteCandidate restructures the successor list when the successor at
// position 0 is found dead: the node at index i becomes the new head,
// and everything after it shifts forward. Used by stabilizeSuccessor /
// failure handling when a ping to the current successor fails.
func (rt *RoutingTable) PromoteCandidate(i int) {
	if i <= 0 || i >= rt.succListSize {
		rt.logger.Warn("PromoteCandidate: invalid index", logger.F("requested", i))
		return
	}
	candidate := rt.GetSuccessor(i)
	if candidate == nil {
		rt.logger.Warn("PromoteCandidate: candidate is nil", logger.F("index", i))
		return
	}
	newList := make([]*domain.Node, 0, rt.succListSize)
	newList = append(newList, candidate)
	for j := i + 1; j < rt.succListSize; j++ {
		if succ := rt.GetSuccessor(j); succ != nil {
			newList = append(newList, succ)
		}
	}
	for len(newList) < rt.succListSize {
		newList = append(newList, nil)
	}
	rt.SetSuccessorList(newList)
	rt.logger.Info("PromoteCandidate: successor promoted", logger.F("from_index", i), logger.FNode("candidate", candidate))
}

// ---------------------------------------------------------------------
// Predecessor
// ---------------------------------------------------------------------

// GetPredecessor returns the current predecessor, or nil if unset.
func (rt *RoutingTable) GetPredecessor() *domain.Node {
	return rt.predecessor.get()
}

// SetPredecessor updates the predecessor pointer.
func (rt *RoutingTable) SetPredecessor(node *domain.Node) {
	rt.predecessor.set(node)
	rt.logger.Debug("SetPredecessor: updated", logger.FNode("predecessor", node))
}

// ---------------------------------------------------------------------
// Finger table
// ---------------------------------------------------------------------

// GetFinger returns the node cached at finger slot i (0-indexed, i.e.
// targeting self + 2^i), or nil if unset.
func (rt *RoutingTable) GetFinger(i int) *domain.Node {
	if i < 0 || i >= len(rt.fingers) {
		rt.logger.Warn("GetFinger: index out of range", logger.F("requested", i))
		return nil
	}
	return rt.fingers[i].get()
}

// SetFinger updates finger slot i.
func (rt *RoutingTable) SetFinger(i int, node *domain.Node) {
	if i < 0 || i >= len(rt.fingers) {
		rt.logger.Warn("SetFinger: index out of range", logger.F("requested", i))
		return
	}
	rt.fingers[i].set(node)
}

// FingerList returns a snapshot of all non-nil finger entries.
func (rt *RoutingTable) FingerList() []*domain.Node {
	out := make([]*domain.Node, 0, len(rt.fingers))
	for _, e := range rt.fingers {
		if n := e.get(); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// NextFingerToFix returns (and advances) the round-robin cursor used by
// the stabilization loop's finger-table fix-up, mirroring the teacher's
// one-entry-per-tick repair cadence.
func (rt *RoutingTable) NextFingerToFix() int {
	rt.fingerMu.Lock()
	defer rt.fingerMu.Unlock()
	i := rt.lastFinger
	rt.lastFinger = (rt.lastFinger + 1) % len(rt.fingers)
	return i
}

// ClosestPrecedingNode scans the successor list and finger table for the
// node closest to but not passing key, falling back to self when no entry
// lies in (self, key). This is the "next_best" routing step of the lookup
// algorithm, grounded on armon/go-chord's closestPreceeding.
func (rt *RoutingTable) ClosestPrecedingNode(key domain.ID) *domain.Node {
	self := rt.self.ID
	var best *domain.Node
	consider := func(n *domain.Node) {
		if n != nil && n.ID.BetweenOpen(self, key) && (best == nil || n.ID.BetweenOpen(best.ID, key)) {
			best = n
		}
	}
	for _, e := range rt.successorList {
		consider(e.get())
	}
	for _, e := range rt.fingers {
		consider(e.get())
	}
	if best == nil {
		return rt.self
	}
	return best
}

// DebugLog emits a single structured DEBUG-level snapshot of the table.
func (rt *RoutingTable) DebugLog() {
	pred := rt.predecessor.get()

	successors := make([]map[string]any, 0, len(rt.successorList))
	for i, e := range rt.successorList {
		successors = append(successors, nodeLogEntry(i, e.get()))
	}
	fingers := make([]map[string]any, 0, len(rt.fingers))
	for i, e := range rt.fingers {
		fingers = append(fingers, nodeLogEntry(i, e.get()))
	}

	rt.logger.Debug("RoutingTable snapshot",
		logger.FNode("self", rt.self),
		logger.FNode("predecessor", pred),
		logger.F("successors", successors),
		logger.F("fingers", fingers),
	)
}

func nodeLogEntry(idx int, n *domain.Node) map[string]any {
	if n == nil {
		return map[string]any{"index": idx, "node": nil}
	}
	return map[string]any{"index": idx, "id": n.ID.String(), "addr": n.Addr}
}
