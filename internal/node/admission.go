package node

import (
	"context"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

// AdmitPredecessor is run when this node accepts p as its new
// predecessor (the Notify RPC handler, operation.go): p now owns every
// key in (oldPred, p.ID] that this node was holding as primary, so those
// resources are handed over and removed from the local store. oldPred is
// nil when this node was previously the sole member of the ring, in
// which case the handover range wraps the whole key space up to p: using
// self's own ID as the lower bound is equivalent, since a single node
// owns (self, self] -- the entire ring.
func (n *Node) AdmitPredecessor(oldPred, p *domain.Node) {
	self := n.rt.Self()
	lower := self.ID
	if oldPred != nil {
		lower = oldPred.ID
	}
	resources := n.s.Between(lower, p.ID)
	if len(resources) == 0 {
		return
	}
	n.transferResources(p, resources)
}

// transferResources pushes each resource to p and removes it from the
// local primary store only once the remote Store RPC has acknowledged
// it, so a failed transfer leaves the key locally owned rather than lost.
func (n *Node) transferResources(p *domain.Node, resources []domain.Resource) {
	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	defer cancel()

	transferred := 0
	for _, res := range resources {
		if err := n.cp.StoreRemote(ctx, p.Addr, res); err != nil {
			n.lgr.Warn("transferResources: store RPC failed",
				logger.FNode("target", p), logger.F("key", res.RawKey), logger.F("err", err))
			continue
		}
		_ = n.s.Delete(res.Key)
		go n.RetractReplicas(res.Key)
		transferred++
	}
	n.lgr.Info("transferResources: admission transfer complete",
		logger.FNode("target", p), logger.F("transferred", transferred), logger.F("attempted", len(resources)))
}

// PullKeysFromPredecessor asks addr -- the current owner of the range
// being claimed, normally this node's new successor -- for every key in
// (lower, upper] it still holds, used right after this node joins so it
// can claim the range it now owns instead of its predecessor.
func (n *Node) PullKeysFromPredecessor(ctx context.Context, addr string, lower, upper domain.ID) {
	resources, err := n.cp.SendKeys(ctx, addr, lower, upper)
	if err != nil {
		n.lgr.Warn("PullKeysFromPredecessor: SendKeys RPC failed", logger.F("addr", addr), logger.F("err", err))
		return
	}
	for _, res := range resources {
		n.StoreLocal(res)
	}
	n.lgr.Info("PullKeysFromPredecessor: admitted keys", logger.F("addr", addr), logger.F("count", len(resources)))
}
