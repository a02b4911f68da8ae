package node

import (
	"context"

	"chordring/internal/domain"
	"chordring/internal/logger"
)

// EnsureReplication pushes res to this node's successor list, up to
// replicationFactor entries. Failures, and replica slots the successor
// list is too short to fill, are recorded as a shortfall so the
// periodic reconciliation pass (ReconcileReplicas) can retry them without
// blocking the write path.
func (n *Node) EnsureReplication(res domain.Resource) {
	if n.replicationFactor <= 0 {
		return
	}
	self := n.rt.Self()
	succList := n.rt.SuccessorList()
	target := n.replicationFactor

	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	defer cancel()

	placed := 0
	for i := 0; i < target && i < len(succList); i++ {
		peer := succList[i]
		if peer == nil || peer.ID.Equal(self.ID) {
			continue
		}
		if err := n.cp.StoreReplica(ctx, peer.Addr, self.ID, res); err != nil {
			n.lgr.Warn("EnsureReplication: failed to replicate",
				logger.F("key", res.RawKey), logger.FNode("peer", peer), logger.F("err", err))
			n.InformAboutFailure(peer)
			continue
		}
		placed++
	}
	if shortfall := target - placed; shortfall > 0 {
		n.s.MarkShortfall(res.Key, shortfall)
	} else {
		n.s.MarkShortfall(res.Key, 0)
	}
}

// RetractReplicas tells every successor-list peer to drop their replica
// of id, mirroring a primary delete out to the replica set. The
// authoritative key set sent along is every other key this node still
// owns, not just an empty list: ReplicaSyncLocal treats the reported set
// as the origin's complete truth, so omitting the remaining keys would
// read as "this node owns nothing anymore" and wipe every other replica
// this peer carries on its behalf.
func (n *Node) RetractReplicas(id domain.ID) {
	self := n.rt.Self()
	remaining := n.s.All()
	keys := make([]string, 0, len(remaining))
	for _, res := range remaining {
		if res.Key.Equal(id) {
			continue
		}
		keys = append(keys, res.Key.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), n.opTimeout)
	defer cancel()
	for _, peer := range n.rt.SuccessorList() {
		if peer == nil || peer.ID.Equal(self.ID) {
			continue
		}
		if _, err := n.cp.ReplicaSync(ctx, peer.Addr, self.ID, keys); err != nil {
			n.lgr.Warn("RetractReplicas: sync RPC failed", logger.FNode("peer", peer), logger.F("err", err))
			n.InformAboutFailure(peer)
		}
	}
	n.s.MarkShortfall(id, 0)
}

// StoreReplicaLocal writes res into this node's replica bucket for
// origin. Invoked by the StoreReplica RPC handler.
func (n *Node) StoreReplicaLocal(origin domain.ID, res domain.Resource) {
	n.s.StoreReplica(origin, res)
}

// ReplicaSyncLocal reconciles the replica bucket held for origin against
// the authoritative key set the origin reports; nil keys means the
// origin no longer considers this node a replica holder and the whole
// bucket should be dropped. Only stale keys are removed: keys the origin
// reports that this node does not hold are not reported back, and the
// returned slice is always nil.
func (n *Node) ReplicaSyncLocal(origin domain.ID, keys []string) []domain.Resource {
	if keys == nil {
		n.s.DeleteReplicas(origin, nil)
		return nil
	}
	have := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		have[k] = struct{}{}
	}
	held := n.s.ReplicaKeys(origin)
	var stale []string
	for _, k := range held {
		if _, ok := have[k]; !ok {
			stale = append(stale, k)
		}
	}
	if len(stale) > 0 {
		n.s.DeleteReplicas(origin, stale)
	}
	return nil
}

// SendKeysLocal returns the primary resources this node holds with key
// in (lower, upper], for transfer to a joining node that has become this
// node's predecessor and now owns that range, and deletes them from the local primary store
// now that they have been read out for the RPC response: the caller
// either receives them in this response or the RPC fails outright and
// never sees them, so there is no window where both sides believe they
// own the same key.
func (n *Node) SendKeysLocal(lower, upper domain.ID) []domain.Resource {
	resources := n.s.Between(lower, upper)
	for _, res := range resources {
		_ = n.s.Delete(res.Key)
		go n.RetractReplicas(res.Key)
	}
	return resources
}

// PromotePredecessorFailure is called when this node's predecessor is
// found dead: it merges the replica bucket held on the predecessor's
// behalf into the primary store, since this node is now responsible for
// that range.
func (n *Node) PromotePredecessorFailure(origin domain.ID) {
	promoted := n.s.MergeReplicaBucket(origin)
	if len(promoted) == 0 {
		return
	}
	n.lgr.Info("PromotePredecessorFailure: promoted replica bucket to primary",
		logger.F("origin", origin.String()), logger.F("count", len(promoted)))
	for _, res := range promoted {
		go n.EnsureReplication(res)
	}
}

// ReconcileReplicas retries replication for any key with an outstanding
// shortfall, invoked periodically by the stabilization loop.
func (n *Node) ReconcileReplicas(ctx context.Context) {
	for keyHex := range n.s.Shortfalls() {
		id, err := n.rt.Space().FromHexString(keyHex)
		if err != nil {
			continue
		}
		res, err := n.s.Get(id)
		if err != nil {
			n.s.MarkShortfall(id, 0)
			continue
		}
		n.EnsureReplication(res)
	}
}

// ReconcileReplicaOrigins walks every origin this node currently carries
// a replica bucket for and checks it against that origin's true current
// owner, fixing drift that the write-path push (EnsureReplication,
// RetractReplicas) never sees: ownership that moved because of churn
// elsewhere in the ring, not because of a write or delete this node was
// ever told about. If the owner turns out to be this node itself, a
// predecessor-failure promotion was missed and is completed now. If the
// owner no longer lists this node among its live replication targets,
// the bucket is stale and dropped outright.
func (n *Node) ReconcileReplicaOrigins(ctx context.Context) {
	self := n.rt.Self()
	for _, originHex := range n.s.ReplicaOrigins() {
		originID, err := n.rt.Space().FromHexString(originHex)
		if err != nil {
			continue
		}
		owner, err := n.Lookup(ctx, originID)
		if err != nil || owner == nil {
			continue
		}
		if owner.ID.Equal(self.ID) {
			n.PromotePredecessorFailure(originID)
			continue
		}

		remoteList, err := n.cp.GetSuccessorList(ctx, owner.Addr)
		if err != nil {
			continue
		}
		limit := n.replicationFactor
		if limit > len(remoteList) {
			limit = len(remoteList)
		}
		stillTarget := false
		for i := 0; i < limit; i++ {
			if nd := remoteList[i]; nd != nil && nd.ID.Equal(self.ID) {
				stillTarget = true
				break
			}
		}
		if !stillTarget {
			n.s.DeleteReplicas(originID, nil)
			n.lgr.Info("ReconcileReplicaOrigins: dropped stale replica bucket",
				logger.F("origin", originHex), logger.FNode("owner", owner))
		}
	}
}
