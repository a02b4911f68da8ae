package node

import (
	"context"
	"time"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

// StartStabilizers runs the periodic maintenance loops that keep ring
// routing and replication converged: successor/predecessor stabilization
// at stabilizeInterval, one finger-table slot fix-up at fingerInterval,
// and replication-shortfall reconciliation at replicaInterval. All loops
// stop when ctx is canceled.
func (n *Node) StartStabilizers(ctx context.Context, stabilizeInterval, fingerInterval, replicaInterval time.Duration) {
	go n.runLoop(ctx, "stabilize", stabilizeInterval, func() {
		n.stabilizeSuccessor()
		n.fixSuccessorList()
		n.checkPredecessor()
	})
	go n.runLoop(ctx, "fix-fingers", fingerInterval, n.fixFingerTable)
	go n.runLoop(ctx, "reconcile-replicas", replicaInterval, func() {
		n.ReconcileReplicas(ctx)
		n.ReconcileReplicaOrigins(ctx)
	})
}

func (n *Node) runLoop(ctx context.Context, name string, interval time.Duration, tick func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			n.lgr.Info("stabilizer loop stopped", logger.F("loop", name))
			return
		case <-ticker.C:
			tick()
		}
	}
}

// DebugLogAll emits a structured snapshot of routing table, store and
// connection pool state, for diagnostics.
func (n *Node) DebugLogAll() {
	n.rt.DebugLog()
	n.s.DebugLog()
	n.cp.DebugLog()
}

// stabilizeSuccessor is the classic Chord stabilize() step: ask the
// successor for its predecessor, adopt it if it is a closer fit, and
// notify the (possibly new) successor that this node may be its
// predecessor.
func (n *Node) stabilizeSuccessor() {
	self := n.rt.Self()
	succ := n.rt.FirstSuccessor()
	if succ == nil {
		n.lgr.Error("stabilize: successor is nil (invalid state)")
		return
	}

	if !succ.ID.Equal(self.ID) && !n.successorAlive(succ) {
		n.promoteNextSuccessor(succ)
		succ = n.rt.FirstSuccessor()
		if succ == nil {
			return
		}
	}

	var pred *domain.Node
	if succ.ID.Equal(self.ID) {
		pred = n.rt.GetPredecessor()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
		p, err := n.cp.GetPredecessor(ctx, succ.Addr)
		cancel()
		if err == nil {
			pred = p
		}
	}

	if pred != nil && !pred.ID.Equal(self.ID) && pred.ID.Between(self.ID, succ.ID) {
		if err := n.cp.AddRef(pred.Addr); err != nil {
			n.lgr.Warn("stabilize: failed to add new successor to pool", logger.FNode("new", pred), logger.F("err", err))
		}
		n.rt.SetSuccessor(0, pred)
		if !succ.ID.Equal(self.ID) {
			if err := n.cp.Release(succ.Addr); err != nil {
				n.lgr.Warn("stabilize: failed to release old successor", logger.FNode("old", succ), logger.F("err", err))
			}
		}
		succ = pred
	}

	if succ.ID.Equal(self.ID) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	defer cancel()
	if err := n.cp.Notify(ctx, succ.Addr, self); err != nil {
		n.lgr.Warn("stabilize: notify RPC failed", logger.FNode("succ", succ), logger.F("err", err))
	}
}

// promoteNextSuccessor replaces a dead successor with the next non-empty
// candidate in the successor list, or reverts this node to single-node
// mode if no candidate remains. Candidates are not probed here; the next
// stabilize round checks the promoted successor's liveness.
func (n *Node) promoteNextSuccessor(dead *domain.Node) {
	for i := 1; i < n.rt.SuccListSize(); i++ {
		candidate := n.rt.GetSuccessor(i)
		if candidate == nil {
			continue
		}
		n.rt.PromoteCandidate(i)
		_ = n.cp.Release(dead.Addr)
		n.failures.forget(dead.Addr)
		n.lgr.Info("promoteNextSuccessor: promoted candidate", logger.F("from_index", i), logger.FNode("candidate", candidate))
		return
	}

	n.lgr.Warn("promoteNextSuccessor: no live candidates, reverting to single-node mode")
	if pred := n.rt.GetPredecessor(); pred != nil {
		_ = n.cp.Release(pred.Addr)
	}
	for _, nd := range n.rt.SuccessorList() {
		if nd != nil {
			_ = n.cp.Release(nd.Addr)
		}
	}
	n.rt.InitSingleNode()
}

// fixSuccessorList refreshes the successor list from the first
// successor's own list, keeping connection-pool references in sync with
// what ends up installed.
func (n *Node) fixSuccessorList() {
	self := n.rt.Self()
	succ := n.rt.FirstSuccessor()
	if succ == nil || succ.ID.Equal(self.ID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	remoteList, err := n.cp.GetSuccessorList(ctx, succ.Addr)
	cancel()
	if err != nil {
		n.lgr.Warn("fixSuccessorList: could not get successor list", logger.FNode("succ", succ), logger.F("err", err))
		return
	}

	oldSet := nodeSetByAddr(n.rt.SuccessorList())

	size := n.rt.SuccListSize()
	newList := make([]*domain.Node, size)
	newList[0] = succ
	for i := 1; i < size; i++ {
		if i-1 >= len(remoteList) || remoteList[i-1] == nil {
			continue
		}
		if remoteList[i-1].ID.Equal(self.ID) {
			break
		}
		newList[i] = remoteList[i-1]
	}

	newSet := nodeSetByAddr(newList)
	for addr, nd := range newSet {
		if _, ok := oldSet[addr]; !ok {
			if err := n.cp.AddRef(addr); err != nil {
				n.lgr.Warn("fixSuccessorList: addref failed", logger.FNode("node", nd), logger.F("err", err))
			}
		}
	}
	n.rt.SetSuccessorList(newList)
	for addr, nd := range oldSet {
		if _, ok := newSet[addr]; !ok {
			if err := n.cp.Release(addr); err != nil {
				n.lgr.Warn("fixSuccessorList: release failed", logger.FNode("node", nd), logger.F("err", err))
			}
		}
	}
}

// fixFingerTable repairs one finger-table slot per call, round-robin,
// mirroring Chord's fix_fingers() cadence of one entry per tick rather
// than rebuilding the whole table every time.
func (n *Node) fixFingerTable() {
	self := n.rt.Self()
	i := n.rt.NextFingerToFix()
	start, err := n.rt.Space().FingerStart(self.ID, i)
	if err != nil {
		n.lgr.Warn("fixFingerTable: failed to compute finger start", logger.F("index", i), logger.F("err", err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	owner, err := n.Lookup(ctx, start)
	cancel()
	if err != nil || owner == nil {
		n.lgr.Warn("fixFingerTable: lookup failed", logger.F("index", i), logger.F("err", err))
		return
	}

	old := n.rt.GetFinger(i)
	if old != nil && old.Addr == owner.Addr {
		return
	}
	if !owner.ID.Equal(self.ID) {
		if err := n.cp.AddRef(owner.Addr); err != nil {
			n.lgr.Warn("fixFingerTable: addref failed", logger.FNode("node", owner), logger.F("err", err))
		}
	}
	n.rt.SetFinger(i, owner)
	if old != nil && !old.ID.Equal(self.ID) && old.Addr != owner.Addr {
		if err := n.cp.Release(old.Addr); err != nil {
			n.lgr.Warn("fixFingerTable: release failed", logger.FNode("node", old), logger.F("err", err))
		}
	}
}

func nodeSetByAddr(nodes []*domain.Node) map[string]*domain.Node {
	out := make(map[string]*domain.Node, len(nodes))
	for _, nd := range nodes {
		if nd != nil {
			out[nd.Addr] = nd
		}
	}
	return out
}
