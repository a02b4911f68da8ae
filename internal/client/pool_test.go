package client

import (
	"errors"
	"testing"
	"time"
)

func TestAddRefRefcounting(t *testing.T) {
	p := New(time.Second)
	addr := "peer.invalid:4000"

	if err := p.AddRef(addr); err != nil {
		t.Fatalf("AddRef: %v", err)
	}
	if err := p.AddRef(addr); err != nil {
		t.Fatalf("second AddRef: %v", err)
	}
	if _, err := p.Get(addr); err != nil {
		t.Fatalf("Get after two AddRefs: %v", err)
	}

	// first Release should just decrement, connection stays pooled
	if err := p.Release(addr); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	if _, err := p.Get(addr); err != nil {
		t.Fatalf("Get after one Release of two refs: %v", err)
	}

	// second Release drops the last ref, evicting the entry
	if err := p.Release(addr); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if _, err := p.Get(addr); !errors.Is(err, ErrClientNotInPool) {
		t.Fatalf("Get after final Release: got %v, want ErrClientNotInPool", err)
	}
}

func TestGetUnknownAddr(t *testing.T) {
	p := New(time.Second)
	if _, err := p.Get("never-added:0"); !errors.Is(err, ErrClientNotInPool) {
		t.Fatalf("Get on unknown addr: got %v, want ErrClientNotInPool", err)
	}
}

func TestReleaseUnknownAddrIsNoop(t *testing.T) {
	p := New(time.Second)
	if err := p.Release("never-added:0"); err != nil {
		t.Fatalf("Release on unknown addr should be a no-op, got: %v", err)
	}
}

func TestFailureTimeout(t *testing.T) {
	p := New(3 * time.Second)
	if p.FailureTimeout() != 3*time.Second {
		t.Errorf("FailureTimeout() = %v, want 3s", p.FailureTimeout())
	}
}
