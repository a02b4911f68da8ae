package node

import (
	"context"
	"errors"
	"fmt"

	"chordring/internal/ctxutil"
	"chordring/internal/domain"
	"chordring/internal/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Put stores a resource in the ring on behalf of an external client: it
// locates the node responsible for the key and either stores locally or
// forwards the write. Concurrent Puts for the same key share a single
// opmgr.Future so a burst of writes to the same key doesn't fan out into
// redundant outbound INSERT RPCs.
func (n *Node) Put(ctx context.Context, res domain.Resource) error {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return err
	}
	key := res.Key.String()
	fut, created := n.insertMgr.GetOrCreate(key)
	if !created {
		_, err := fut.Wait(ctx)
		return err
	}
	defer n.insertMgr.Remove(key)
	err := n.doPut(ctx, res)
	fut.Complete(struct{}{}, err)
	return err
}

func (n *Node) doPut(ctx context.Context, res domain.Resource) error {
	succ, err := n.Lookup(ctx, res.Key)
	if err != nil {
		return fmt.Errorf("put: failed to find successor for key %s: %w", res.RawKey, err)
	}
	if succ.ID.Equal(n.rt.Self().ID) {
		n.StoreLocal(res)
		n.lgr.Info("Put: resource stored locally", logger.F("key", res.RawKey))
		return nil
	}
	if err := n.cp.StoreRemote(ctx, succ.Addr, res); err != nil {
		n.InformAboutFailure(succ)
		return fmt.Errorf("put: failed to store resource at successor %s: %w", succ.Addr, err)
	}
	n.lgr.Info("Put: resource stored at successor", logger.F("key", res.RawKey), logger.FNode("successor", succ))
	return nil
}

// Get retrieves a resource from the ring on behalf of an external client.
// Concurrent Gets for the same key share a single opmgr.Future so a burst
// of reads for a hot key issues only one outbound GET RPC.
func (n *Node) Get(ctx context.Context, id domain.ID) (*domain.Resource, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}
	key := id.String()
	fut, created := n.getMgr.GetOrCreate(key)
	if !created {
		return fut.Wait(ctx)
	}
	defer n.getMgr.Remove(key)
	res, err := n.doGet(ctx, id)
	fut.Complete(res, err)
	return res, err
}

func (n *Node) doGet(ctx context.Context, id domain.ID) (*domain.Resource, error) {
	succ, err := n.Lookup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get: failed to find successor for key %s: %w", id.ToHexString(true), err)
	}
	if succ.ID.Equal(n.rt.Self().ID) {
		res, err := n.RetrieveLocal(id)
		if err != nil {
			if errors.Is(err, domain.ErrResourceNotFound) {
				return nil, status.Error(codes.NotFound, "key not found")
			}
			return nil, fmt.Errorf("get: failed to retrieve resource locally: %w", err)
		}
		return &res, nil
	}
	res, err := n.cp.RetrieveRemote(ctx, succ.Addr, id)
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil, status.Error(codes.NotFound, "key not found")
		}
		n.InformAboutFailure(succ)
		return nil, fmt.Errorf("get: failed to retrieve resource from successor %s: %w", succ.Addr, err)
	}
	return res, nil
}

// Delete removes a resource from the ring on behalf of an external client.
// Concurrent Deletes for the same key share a single opmgr.Future so a
// burst of deletes for the same key issues only one outbound DELETE RPC.
func (n *Node) Delete(ctx context.Context, id domain.ID) error {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return err
	}
	key := id.String()
	fut, created := n.deleteMgr.GetOrCreate(key)
	if !created {
		_, err := fut.Wait(ctx)
		return err
	}
	defer n.deleteMgr.Remove(key)
	err := n.doDelete(ctx, id)
	fut.Complete(struct{}{}, err)
	return err
}

func (n *Node) doDelete(ctx context.Context, id domain.ID) error {
	succ, err := n.Lookup(ctx, id)
	if err != nil {
		return fmt.Errorf("delete: failed to find successor for key %s: %w", id.ToHexString(true), err)
	}
	if succ.ID.Equal(n.rt.Self().ID) {
		if err := n.RemoveLocal(id); err != nil {
			return err
		}
		n.lgr.Info("Delete: resource deleted locally", logger.F("key", id.ToHexString(true)))
		return nil
	}
	if err := n.cp.RemoveRemote(ctx, succ.Addr, id); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return domain.ErrResourceNotFound
		}
		n.InformAboutFailure(succ)
		return fmt.Errorf("delete: failed to delete resource at successor %s: %w", succ.Addr, err)
	}
	return nil
}

// StoreLocal writes res into the primary store and kicks off
// best-effort asynchronous replication to the successor list. Used both
// for client-facing Put (when this node owns the key) and for the
// node-to-node Store RPC forwarded by a lookup's final hop.
func (n *Node) StoreLocal(res domain.Resource) {
	n.s.Put(res)
	go n.EnsureReplication(res)
}

// RetrieveLocal fetches a resource from the primary store only; it
// performs no routing.
func (n *Node) RetrieveLocal(id domain.ID) (domain.Resource, error) {
	return n.s.Get(id)
}

// RemoveLocal deletes a resource from the primary store and propagates
// the deletion to replica holders.
func (n *Node) RemoveLocal(id domain.ID) error {
	if err := n.s.Delete(id); err != nil {
		return err
	}
	go n.RetractReplicas(id)
	return nil
}

// Notify informs this node that p might be its predecessor. Part of the
// stabilization protocol: a node calls Notify(self) on its successor.
func (n *Node) Notify(p *domain.Node) {
	self := n.rt.Self()
	if p == nil || p.ID.Equal(self.ID) {
		return
	}
	pred := n.rt.GetPredecessor()
	if pred != nil && !p.ID.Between(pred.ID, self.ID) {
		return
	}
	if err := n.cp.AddRef(p.Addr); err != nil {
		n.lgr.Warn("Notify: failed to add new predecessor to pool", logger.FNode("newPredecessor", p), logger.F("err", err))
	}
	n.rt.SetPredecessor(p)
	if pred != nil {
		if err := n.cp.Release(pred.Addr); err != nil {
			n.lgr.Warn("Notify: failed to release old predecessor", logger.FNode("node", pred), logger.F("err", err))
		}
	}
	go n.AdmitPredecessor(pred, p)
	n.lgr.Info("Notify: predecessor updated", logger.FNode("newPredecessor", p), logger.FNode("oldPredecessor", pred))
}
