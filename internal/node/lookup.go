package node

import (
	"context"
	"fmt"
	"sort"

	"chordring/internal/ctxutil"
	"chordring/internal/domain"
	"chordring/internal/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Lookup resolves the node responsible for target: the node whose ID is
// target's successor on the ring. Concurrent lookups for the same
// target share a single opmgr.Future so that a burst of client requests
// for the same hot key doesn't fan out into redundant RPC chains.
func (n *Node) Lookup(ctx context.Context, target domain.ID) (*domain.Node, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, err
	}

	self := n.rt.Self()
	succ := n.rt.FirstSuccessor()
	if succ == nil {
		return nil, status.Error(codes.Internal, "node not initialized: successor is nil")
	}
	if target.Between(self.ID, succ.ID) || target.Equal(succ.ID) {
		return succ, nil
	}

	key := target.String()
	fut, created := n.lookupMgr.GetOrCreate(key)
	if !created {
		return fut.Wait(ctx)
	}
	defer n.lookupMgr.Remove(key)

	result, err := n.routeLookup(ctx, target, 0, ctxutil.TraceIDFromContext(ctx))
	fut.Complete(result, err)
	return result, err
}

// routeLookup forwards target to the closest preceding node this node
// knows about, trying candidates from farthest to nearest and falling
// back to the immediate successor if every candidate is unreachable.
// This is the hop-by-hop core of the lookup algorithm, grounded on
// armon/go-chord's findSuccessor/closestPreceeding retry loop.
func (n *Node) routeLookup(ctx context.Context, target domain.ID, hops int32, traceID string) (*domain.Node, error) {
	self := n.rt.Self()

	for _, candidate := range n.lookupCandidates(target) {
		if candidate.ID.Equal(self.ID) {
			continue
		}
		found, _, err := n.cp.Lookup(ctx, candidate.Addr, target, hops+1, traceID)
		if err == nil && found != nil {
			return found, nil
		}
		n.lgr.Warn("routeLookup: candidate hop failed, trying next",
			logger.F("target", target.ToHexString(true)), logger.FNode("candidate", candidate), logger.F("err", err))
		n.InformAboutFailure(candidate)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	succ := n.rt.FirstSuccessor()
	if succ == nil {
		return nil, status.Error(codes.Internal, "node not initialized: successor is nil")
	}
	if succ.ID.Equal(self.ID) {
		return succ, nil
	}
	found, _, err := n.cp.Lookup(ctx, succ.Addr, target, hops+1, traceID)
	if err != nil {
		n.InformAboutFailure(succ)
		return nil, fmt.Errorf("lookup: fallback to successor %s failed: %w", succ.Addr, err)
	}
	return found, nil
}

// lookupCandidates returns the successor list and finger table entries
// that precede target, ordered farthest-first so the caller can try the
// candidate likely to save the most hops before falling back to closer
// (more certainly reachable) ones.
func (n *Node) lookupCandidates(target domain.ID) []*domain.Node {
	self := n.rt.Self().ID
	var out []*domain.Node
	succList := n.rt.SuccessorList()
	for i := len(succList) - 1; i >= 0; i-- {
		if succList[i] != nil && succList[i].ID.BetweenOpen(self, target) {
			out = append(out, succList[i])
		}
	}
	fingers := n.rt.FingerList()
	for i := len(fingers) - 1; i >= 0; i-- {
		if fingers[i] != nil && fingers[i].ID.BetweenOpen(self, target) {
			out = append(out, fingers[i])
		}
	}
	// Every candidate lies in (self, target); one lying between another
	// and target is closer to target, so it sorts first.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID.BetweenOpen(out[j].ID, target)
	})
	return out
}

// HandleLookup answers an incoming Lookup RPC: if target already falls
// in this node's (self, successor] range the chain ends here, otherwise
// routing continues from this node's own table.
func (n *Node) HandleLookup(ctx context.Context, target domain.ID, hops int32, traceID string) (*domain.Node, int32, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, hops, err
	}
	self := n.rt.Self()
	succ := n.rt.FirstSuccessor()
	if succ == nil {
		return nil, hops, status.Error(codes.Internal, "node not initialized: successor is nil")
	}
	if target.Between(self.ID, succ.ID) || target.Equal(succ.ID) {
		return succ, hops, nil
	}
	found, err := n.routeLookup(ctx, target, hops, traceID)
	return found, hops + 1, err
}
