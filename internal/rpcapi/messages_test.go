package rpcapi

import (
	"testing"

	"chordring/internal/domain"
)

func TestNodeToMsgAndBackRoundTrip(t *testing.T) {
	n := &domain.Node{ID: domain.ID([]byte{0xAB, 0xCD}), Addr: "10.0.0.1:7000"}
	msg := NodeToMsg(n)
	got := NodeFromMsg(msg)
	if !got.Equal(n) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, n)
	}
	if got.Addr != n.Addr {
		t.Errorf("Addr mismatch: got %q, want %q", got.Addr, n.Addr)
	}
}

func TestNodeToMsgNil(t *testing.T) {
	if NodeToMsg(nil) != nil {
		t.Error("NodeToMsg(nil) should return nil")
	}
	if NodeFromMsg(nil) != nil {
		t.Error("NodeFromMsg(nil) should return nil")
	}
}

func TestResourceToMsgAndBackRoundTrip(t *testing.T) {
	r := domain.Resource{Key: domain.ID([]byte{0x01}), RawKey: "k", Value: "v"}
	msg := ResourceToMsg(r)
	got := ResourceFromMsg(msg)
	if got.RawKey != r.RawKey || got.Value != r.Value || string(got.Key) != string(r.Key) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, r)
	}
}

func TestResourceFromMsgNil(t *testing.T) {
	got := ResourceFromMsg(nil)
	if got.RawKey != "" || got.Value != "" || len(got.Key) != 0 {
		t.Errorf("ResourceFromMsg(nil) = %+v, want zero value", got)
	}
}
