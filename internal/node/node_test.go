package node

import (
	"context"
	"testing"
	"time"

	"chordring/internal/client"
	"chordring/internal/domain"
	"chordring/internal/routingtable"
	"chordring/internal/store"
)

func testNode(t *testing.T, hexID string, succListSize int) (*Node, domain.Space) {
	t.Helper()
	sp, err := domain.NewSpace(8, succListSize)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	id, err := sp.FromHexString(hexID)
	if err != nil {
		t.Fatalf("FromHexString(%q): %v", hexID, err)
	}
	self := &domain.Node{ID: id, Addr: "self:0"}
	rt := routingtable.New(self, sp, succListSize)
	cp := client.New(time.Second)
	s := store.New(nil)
	n := New(rt, cp, s, 2, time.Second)
	return n, sp
}

func nodeAt(t *testing.T, sp domain.Space, hexID, addr string) *domain.Node {
	t.Helper()
	id, err := sp.FromHexString(hexID)
	if err != nil {
		t.Fatalf("FromHexString(%q): %v", hexID, err)
	}
	return &domain.Node{ID: id, Addr: addr}
}

func TestLookupLocalFastPath(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	succ := nodeAt(t, sp, "20", "succ:0")
	n.rt.SetSuccessor(0, succ)

	target := nodeAt(t, sp, "15", "").ID
	got, err := n.Lookup(context.Background(), target)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !got.Equal(succ) {
		t.Errorf("Lookup(%v) = %v, want successor %v", target, got, succ)
	}
}

func TestLookupReturnsSuccessorWhenTargetEqualsSuccessor(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	succ := nodeAt(t, sp, "20", "succ:0")
	n.rt.SetSuccessor(0, succ)

	got, err := n.Lookup(context.Background(), succ.ID)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if !got.Equal(succ) {
		t.Errorf("Lookup(succ.ID) = %v, want %v", got, succ)
	}
}

func TestLookupCandidatesOrderedFarthestFirst(t *testing.T) {
	n, sp := testNode(t, "10", 3)

	s1 := nodeAt(t, sp, "20", "s1")
	s2 := nodeAt(t, sp, "90", "s2")
	n.rt.SetSuccessorList([]*domain.Node{s1, s2, nil})

	f1 := nodeAt(t, sp, "40", "f1")
	n.rt.SetFinger(2, f1)

	target := nodeAt(t, sp, "00", "").ID // 0x00 wraps, so every entry precedes it in (self, target)
	candidates := n.lookupCandidates(target)

	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate")
	}
	// farthest-first: successor list walked from its tail, so s2 (farther from self) precedes s1
	foundS2Before := -1
	foundS1Before := -1
	for i, c := range candidates {
		if c.Addr == "s2" {
			foundS2Before = i
		}
		if c.Addr == "s1" {
			foundS1Before = i
		}
	}
	if foundS2Before == -1 || foundS1Before == -1 {
		t.Fatalf("expected both s1 and s2 among candidates, got %v", candidates)
	}
	if foundS2Before > foundS1Before {
		t.Errorf("expected s2 (farther) before s1 (nearer), got order %v", candidates)
	}
}

func TestCheckIDValidity(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	valid := nodeAt(t, sp, "20", "").ID
	if err := n.CheckIDValidity(valid); err != nil {
		t.Errorf("CheckIDValidity on a same-space ID: %v", err)
	}
}

func TestAccessorsReflectRoutingTable(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	succ := nodeAt(t, sp, "20", "succ:0")
	n.rt.SetSuccessor(0, succ)
	n.rt.SetFinger(0, succ)

	if !n.SuccessorList()[0].Equal(succ) {
		t.Errorf("SuccessorList()[0] = %v, want %v", n.SuccessorList()[0], succ)
	}
	if !n.FingerList()[0].Equal(succ) {
		t.Errorf("FingerList()[0] = %v, want %v", n.FingerList()[0], succ)
	}
	if n.Predecessor() != nil {
		t.Errorf("Predecessor() = %v, want nil before any Notify", n.Predecessor())
	}
}
