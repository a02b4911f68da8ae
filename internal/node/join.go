package node

import (
	"context"
	"fmt"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

// Join bootstraps this node's ring state by contacting an existing
// member at bootstrapAddr: it looks up its own successor through that
// peer, installs it, and pulls the key range (pred.ID, self.ID] it now
// owns from succ -- succ is the node that actually holds those keys as
// primary right up until this join, never succ's predecessor itself.
func (n *Node) Join(ctx context.Context, bootstrapAddr string) error {
	self := n.rt.Self()
	if err := n.cp.AddRef(bootstrapAddr); err != nil {
		return fmt.Errorf("join: failed to connect to bootstrap peer %s: %w", bootstrapAddr, err)
	}

	succ, _, err := n.cp.Lookup(ctx, bootstrapAddr, self.ID, 0, "")
	if err != nil {
		return fmt.Errorf("join: lookup via %s failed: %w", bootstrapAddr, err)
	}
	if succ.ID.Equal(self.ID) {
		return fmt.Errorf("join: ring already contains a node with this identifier")
	}

	if succ.Addr != bootstrapAddr {
		if err := n.cp.AddRef(succ.Addr); err != nil {
			return fmt.Errorf("join: failed to connect to successor %s: %w", succ.Addr, err)
		}
	}
	n.rt.SetSuccessor(0, succ)
	n.rt.SetFinger(0, succ)

	pred, perr := n.cp.GetPredecessor(ctx, succ.Addr)
	lower := succ.ID
	if perr == nil && pred != nil && !pred.ID.Equal(self.ID) {
		lower = pred.ID
	}
	n.PullKeysFromPredecessor(ctx, succ.Addr, lower, self.ID)

	n.fixSuccessorListFromSeed(ctx, succ)

	if err := n.cp.Notify(ctx, succ.Addr, self); err != nil {
		n.lgr.Warn("Join: notify RPC failed", logger.FNode("succ", succ), logger.F("err", err))
	}

	n.lgr.Info("Join: joined ring", logger.FNode("self", self), logger.FNode("successor", succ))
	return nil
}

// fixSuccessorListFromSeed seeds the successor list right after a join,
// before the periodic stabilizer has had a chance to run fixSuccessorList.
func (n *Node) fixSuccessorListFromSeed(ctx context.Context, succ *domain.Node) {
	remoteList, err := n.cp.GetSuccessorList(ctx, succ.Addr)
	if err != nil {
		n.lgr.Warn("Join: could not seed successor list", logger.FNode("succ", succ), logger.F("err", err))
		return
	}

	self := n.rt.Self()
	size := n.rt.SuccListSize()
	newList := make([]*domain.Node, size)
	newList[0] = succ
	for i := 1; i < size && i-1 < len(remoteList); i++ {
		cand := remoteList[i-1]
		if cand == nil || cand.ID.Equal(self.ID) {
			break
		}
		newList[i] = cand
	}

	for _, nd := range newList {
		if nd != nil && nd.Addr != succ.Addr {
			if err := n.cp.AddRef(nd.Addr); err != nil {
				n.lgr.Warn("Join: addref failed", logger.FNode("node", nd), logger.F("err", err))
			}
		}
	}
	n.rt.SetSuccessorList(newList)
}
