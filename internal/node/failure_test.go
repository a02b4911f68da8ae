package node

import "testing"

func TestFailureDetectorStateMachine(t *testing.T) {
	fd := newFailureDetector()

	for i := 0; i < maxFailedProbes-1; i++ {
		if dead := fd.recordFailure("peer"); dead {
			t.Fatalf("recordFailure #%d reported dead too early", i+1)
		}
	}
	if dead := fd.recordFailure("peer"); !dead {
		t.Fatalf("recordFailure should report dead after %d consecutive failures", maxFailedProbes)
	}
}

func TestFailureDetectorSuccessResets(t *testing.T) {
	fd := newFailureDetector()
	fd.recordFailure("peer")
	fd.recordFailure("peer")
	fd.recordSuccess("peer")

	// after a success, the next failure streak must start from zero again
	for i := 0; i < maxFailedProbes-1; i++ {
		if dead := fd.recordFailure("peer"); dead {
			t.Fatalf("recordFailure #%d reported dead after a reset, too early", i+1)
		}
	}
}

func TestFailureDetectorForget(t *testing.T) {
	fd := newFailureDetector()
	fd.recordFailure("peer")
	fd.forget("peer")

	// after forgetting, failure history starts fresh
	for i := 0; i < maxFailedProbes-1; i++ {
		if dead := fd.recordFailure("peer"); dead {
			t.Fatalf("recordFailure #%d reported dead right after forget, too early", i+1)
		}
	}
}

func TestCheckPredecessorNilIsNoop(t *testing.T) {
	n, _ := testNode(t, "10", 3)
	// no predecessor set: must return without panicking or touching state
	n.checkPredecessor()
	if n.Predecessor() != nil {
		t.Errorf("Predecessor() = %v, want nil", n.Predecessor())
	}
}

func TestSuccessorAliveForSelf(t *testing.T) {
	n, _ := testNode(t, "10", 3)
	self := n.Self()
	if !n.successorAlive(self) {
		t.Error("successorAlive(self) should always be true without a probe")
	}
}
