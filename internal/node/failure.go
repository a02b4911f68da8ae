package node

import (
	"context"
	"sync"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

// livenessState is a peer's position in the failure-detection state
// machine: UNKNOWN (never probed) -> ALIVE (last probe succeeded) ->
// SUSPECT (one probe failed) -> DEAD (maxFailedProbes consecutive
// failures). A successful probe at any point resets straight to ALIVE.
type livenessState int

const (
	livenessUnknown livenessState = iota
	livenessAlive
	livenessSuspect
	livenessDead
)

const maxFailedProbes = 3

type livenessEntry struct {
	state         livenessState
	failedProbes  int
}

// failureDetector tracks per-address liveness independently of routing
// table membership, so a peer can be probed (and its failure history
// retained across stabilization ticks) even while it's being considered
// for promotion or eviction.
type failureDetector struct {
	mu      sync.Mutex
	entries map[string]*livenessEntry
}

func newFailureDetector() *failureDetector {
	return &failureDetector{entries: make(map[string]*livenessEntry)}
}

func (fd *failureDetector) recordSuccess(addr string) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	fd.entries[addr] = &livenessEntry{state: livenessAlive}
}

// recordFailure advances addr's state machine on a failed probe and
// reports whether the peer has now crossed into livenessDead.
func (fd *failureDetector) recordFailure(addr string) (dead bool) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	e, ok := fd.entries[addr]
	if !ok {
		e = &livenessEntry{}
		fd.entries[addr] = e
	}
	e.failedProbes++
	if e.failedProbes >= maxFailedProbes {
		e.state = livenessDead
		return true
	}
	e.state = livenessSuspect
	return false
}

func (fd *failureDetector) forget(addr string) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	delete(fd.entries, addr)
}

// probe pings addr and updates its liveness state accordingly, returning
// whether the peer should now be treated as dead.
func (n *Node) probe(ctx context.Context, addr string) (dead bool) {
	if err := n.cp.Ping(ctx, addr); err != nil {
		dead = n.failures.recordFailure(addr)
		n.lgr.Warn("probe: ping failed",
			logger.F("addr", addr), logger.F("err", err), logger.F("dead", dead))
		return dead
	}
	n.failures.recordSuccess(addr)
	return false
}

// checkPredecessor verifies the current predecessor is alive. Once it is
// declared dead, this node promotes the replica bucket it was carrying
// on the predecessor's behalf into its own primary store, since it is
// now the sole owner of that range.
func (n *Node) checkPredecessor() {
	pred := n.rt.GetPredecessor()
	if pred == nil || pred.ID.Equal(n.rt.Self().ID) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	defer cancel()
	if !n.probe(ctx, pred.Addr) {
		return
	}

	n.lgr.Warn("checkPredecessor: predecessor dead, clearing", logger.FNode("pred", pred))
	if err := n.cp.Release(pred.Addr); err != nil {
		n.lgr.Warn("checkPredecessor: failed to release predecessor", logger.FNode("pred", pred), logger.F("err", err))
	}
	n.failures.forget(pred.Addr)
	n.rt.SetPredecessor(nil)
	n.PromotePredecessorFailure(pred.ID)
}

// successorAlive reports whether succ answers a Ping, used by
// stabilizeSuccessor to decide whether to promote a successor-list
// candidate.
func (n *Node) successorAlive(succ *domain.Node) bool {
	if succ.ID.Equal(n.rt.Self().ID) {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	defer cancel()
	return !n.probe(ctx, succ.Addr)
}

// InformAboutFailure escalates a failed outbound send against dead to
// the failure detector; once dead has crossed maxFailedProbes (i.e. this
// call itself is the one tipping it into livenessDead), every reference
// to it is pruned from the routing table -- predecessor, successor list
// and finger table -- so routing and replication never pick it again.
// Called from every RPC call site that routes or replicates through a
// peer, not just the periodic stabilize tick, so a failure discovered
// mid-lookup or mid-replication is acted on immediately.
func (n *Node) InformAboutFailure(dead *domain.Node) {
	if dead == nil {
		return
	}
	if !n.failures.recordFailure(dead.Addr) {
		return
	}
	self := n.rt.Self()
	n.lgr.Warn("InformAboutFailure: peer confirmed dead, pruning from routing table", logger.FNode("node", dead))

	if pred := n.rt.GetPredecessor(); pred != nil && pred.ID.Equal(dead.ID) {
		n.rt.SetPredecessor(nil)
		_ = n.cp.Release(dead.Addr)
	}

	if succ := n.rt.FirstSuccessor(); succ != nil && succ.ID.Equal(dead.ID) && !succ.ID.Equal(self.ID) {
		n.promoteNextSuccessor(dead)
	} else {
		for i := 1; i < n.rt.SuccListSize(); i++ {
			if nd := n.rt.GetSuccessor(i); nd != nil && nd.ID.Equal(dead.ID) {
				n.rt.SetSuccessor(i, nil)
				_ = n.cp.Release(dead.Addr)
			}
		}
	}

	for i := 0; i < n.rt.Space().Bits; i++ {
		if f := n.rt.GetFinger(i); f != nil && f.ID.Equal(dead.ID) {
			n.rt.SetFinger(i, nil)
			_ = n.cp.Release(dead.Addr)
		}
	}

	n.failures.forget(dead.Addr)
}
