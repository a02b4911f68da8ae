package node

import (
	"context"
	"testing"
	"time"
)

func TestJoinFailsWhenBootstrapPeerUnreachable(t *testing.T) {
	n, _ := testNode(t, "10", 3)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := n.Join(ctx, "unreachable.invalid:4000"); err == nil {
		t.Fatal("Join should fail when the bootstrap peer cannot be reached")
	}
}
