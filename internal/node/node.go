// Package node implements the logic of a single ring participant: Chord
// routing (lookup, stabilization, finger-table maintenance), replicated
// key-value storage (primary ownership plus successor-list replicas),
// and the admission/failure machinery that keeps both consistent as
// peers join and leave.
package node

import (
	"time"

	"chordring/internal/client"
	"chordring/internal/domain"
	"chordring/internal/logger"
	"chordring/internal/opmgr"
	"chordring/internal/routingtable"
	"chordring/internal/store"
)

// Node ties together a node's routing table, its connection pool to
// peers, and its local replicated store.
type Node struct {
	rt *routingtable.RoutingTable
	cp *client.Pool
	s  *store.Store
	lgr logger.Logger

	lookupMgr *opmgr.Manager[*domain.Node]
	insertMgr *opmgr.Manager[struct{}]
	getMgr    *opmgr.Manager[*domain.Resource]
	deleteMgr *opmgr.Manager[struct{}]
	failures  *failureDetector

	replicationFactor int           // number of successors each key is replicated to
	opTimeout         time.Duration // per-hop RPC timeout used by lookups and maintenance
}

// New creates a Node bound to the given routing table, connection pool
// and local store.
func New(rt *routingtable.RoutingTable, cp *client.Pool, s *store.Store, replicationFactor int, opTimeout time.Duration, opts ...Option) *Node {
	n := &Node{
		rt:                rt,
		cp:                cp,
		s:                 s,
		lgr:               &logger.NopLogger{},
		lookupMgr:         opmgr.NewManager[*domain.Node](opmgr.KindLookup),
		insertMgr:         opmgr.NewManager[struct{}](opmgr.KindInsert),
		getMgr:            opmgr.NewManager[*domain.Resource](opmgr.KindGet),
		deleteMgr:         opmgr.NewManager[struct{}](opmgr.KindDelete),
		failures:          newFailureDetector(),
		replicationFactor: replicationFactor,
		opTimeout:         opTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Space returns the identifier space this node's ring operates in.
func (n *Node) Space() domain.Space { return n.rt.Space() }

// Self returns this node's own identity.
func (n *Node) Self() *domain.Node { return n.rt.Self() }

// Predecessor returns the current predecessor, or nil if unknown.
func (n *Node) Predecessor() *domain.Node { return n.rt.GetPredecessor() }

// SuccessorList returns a snapshot of the successor list.
func (n *Node) SuccessorList() []*domain.Node { return n.rt.SuccessorList() }

// FingerList returns a snapshot of the finger table.
func (n *Node) FingerList() []*domain.Node { return n.rt.FingerList() }

// CheckIDValidity validates that id belongs to this node's identifier space.
func (n *Node) CheckIDValidity(id domain.ID) error {
	return n.rt.Space().IsValidID([]byte(id))
}

// AllResourcesStored returns a snapshot of every primary resource held locally.
func (n *Node) AllResourcesStored() []domain.Resource { return n.s.All() }
