package node

import (
	"context"
	"testing"
	"time"

	"chordring/internal/domain"
)

func TestAdmitPredecessorKeepsKeyWhenTransferFails(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	// self was previously the sole ring member (oldPred nil), so it holds
	// every key up to and including its own id; a key above self's id,
	// reachable by wrapping around, falls in the handover range once p
	// is accepted as the new predecessor.
	k := nodeAt(t, sp, "15", "").ID
	n.s.Put(domain.Resource{Key: k, RawKey: "k", Value: "v"})

	// p is unreachable, so the StoreRemote RPC must fail and the key
	// must remain locally owned rather than be dropped.
	p := nodeAt(t, sp, "05", "unreachable:0")
	n.AdmitPredecessor(nil, p)

	if _, err := n.s.Get(k); err != nil {
		t.Fatalf("key should remain local after a failed transfer: %v", err)
	}
}

func TestAdmitPredecessorNoResourcesInRange(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	oldPred := nodeAt(t, sp, "00", "")
	// a key outside (oldPred, p] must not be considered for handover: it
	// stays in self's own range after p is accepted as predecessor.
	k := nodeAt(t, sp, "08", "").ID
	n.s.Put(domain.Resource{Key: k, RawKey: "k", Value: "v"})

	p := nodeAt(t, sp, "05", "unreachable:0")
	n.AdmitPredecessor(oldPred, p) // should be a no-op: nothing in (0x00, 0x05] exists

	if _, err := n.s.Get(k); err != nil {
		t.Fatalf("unrelated key should be untouched: %v", err)
	}
}

func TestPullKeysFromPredecessorHandlesUnreachablePeer(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	lower := nodeAt(t, sp, "00", "").ID
	upper := nodeAt(t, sp, "10", "").ID
	n.PullKeysFromPredecessor(ctx, "unreachable:0", lower, upper)

	if got := n.s.All(); len(got) != 0 {
		t.Fatalf("expected no resources pulled from an unreachable peer, got %d", len(got))
	}
}
