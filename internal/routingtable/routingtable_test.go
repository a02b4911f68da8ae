package routingtable

import (
	"testing"

	"chordring/internal/domain"
)

func newTestNode(t *testing.T, sp domain.Space, hexID, addr string) *domain.Node {
	t.Helper()
	id, err := sp.FromHexString(hexID)
	if err != nil {
		t.Fatalf("FromHexString(%q): %v", hexID, err)
	}
	return &domain.Node{ID: id, Addr: addr}
}

func TestInitSingleNode(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := newTestNode(t, sp, "10", "n1")
	rt := New(self, sp, 3)
	rt.InitSingleNode()

	if succ := rt.FirstSuccessor(); succ == nil || !succ.Equal(self) {
		t.Errorf("FirstSuccessor after InitSingleNode = %v, want self", succ)
	}
	if pred := rt.GetPredecessor(); pred == nil || !pred.Equal(self) {
		t.Errorf("GetPredecessor after InitSingleNode = %v, want self", pred)
	}
	for i := 0; i < sp.Bits; i++ {
		if f := rt.GetFinger(i); f == nil || !f.Equal(self) {
			t.Errorf("GetFinger(%d) after InitSingleNode = %v, want self", i, f)
		}
	}
}

func TestPromoteCandidate(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := newTestNode(t, sp, "10", "n1")
	rt := New(self, sp, 3)

	n1 := newTestNode(t, sp, "20", "n2")
	n2 := newTestNode(t, sp, "30", "n3")
	rt.SetSuccessorList([]*domain.Node{n1, n2, nil})

	rt.PromoteCandidate(1)
	if got := rt.GetSuccessor(0); got == nil || !got.Equal(n2) {
		t.Errorf("after PromoteCandidate(1), successor 0 = %v, want %v", got, n2)
	}
}

func TestClosestPrecedingNode(t *testing.T) {
	sp, _ := domain.NewSpace(8, 3)
	self := newTestNode(t, sp, "10", "self")
	rt := New(self, sp, 3)

	far := newTestNode(t, sp, "80", "far")
	near := newTestNode(t, sp, "20", "near")
	rt.SetFinger(6, far)  // targets 0x10+0x40=0x50, but caches "far" as closest known
	rt.SetFinger(0, near) // targets 0x11

	got := rt.ClosestPrecedingNode(idOf(t, sp, "90"))
	if got == nil || !got.Equal(far) {
		t.Errorf("ClosestPrecedingNode = %v, want %v (farthest preceding finger)", got, far)
	}
}

func idOf(t *testing.T, sp domain.Space, hex string) domain.ID {
	t.Helper()
	id, err := sp.FromHexString(hex)
	if err != nil {
		t.Fatalf("FromHexString(%q): %v", hex, err)
	}
	return id
}
