package node

import (
	"testing"

	"chordring/internal/domain"
)

func TestPromoteNextSuccessorFallsBackToSingleNodeWhenAllDead(t *testing.T) {
	n, _ := testNode(t, "10", 3)
	n.rt.InitSingleNode()
	self := n.Self()

	// the successor list holds no live candidates beyond index 0, so
	// promoting from a dead successor must revert to single-node mode.
	n.promoteNextSuccessor(self)

	if succ := n.rt.FirstSuccessor(); succ == nil || !succ.Equal(self) {
		t.Errorf("FirstSuccessor after fallback = %v, want self", succ)
	}
}

func TestPromoteNextSuccessorPromotesNextCandidate(t *testing.T) {
	n, sp := testNode(t, "10", 3)
	dead := nodeAt(t, sp, "20", "dead:0")
	candidate := nodeAt(t, sp, "30", "candidate:0")
	n.rt.SetSuccessorList([]*domain.Node{dead, candidate, nil})

	n.promoteNextSuccessor(dead)

	if got := n.rt.FirstSuccessor(); got == nil || !got.Equal(candidate) {
		t.Errorf("FirstSuccessor after promoteNextSuccessor = %v, want %v", got, candidate)
	}
}

func TestStabilizeSuccessorNoopInSingleNodeRing(t *testing.T) {
	n, _ := testNode(t, "10", 3)
	n.rt.InitSingleNode()
	self := n.Self()

	n.stabilizeSuccessor() // must not panic and must leave single-node state intact

	if succ := n.rt.FirstSuccessor(); succ == nil || !succ.Equal(self) {
		t.Errorf("FirstSuccessor after stabilizeSuccessor = %v, want self", succ)
	}
}

func TestFixFingerTableNoopInSingleNodeRing(t *testing.T) {
	n, _ := testNode(t, "10", 3)
	n.rt.InitSingleNode()
	self := n.Self()

	n.fixFingerTable()

	for i, f := range n.FingerList() {
		if f == nil || !f.Equal(self) {
			t.Errorf("finger[%d] = %v, want self after fixFingerTable in single-node ring", i, f)
		}
	}
}
