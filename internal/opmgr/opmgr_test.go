package opmgr

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestGetOrCreateDeduplicates(t *testing.T) {
	m := NewManager[int](KindLookup)

	f1, created1 := m.GetOrCreate("k1")
	if !created1 {
		t.Fatal("first GetOrCreate should report created=true")
	}
	f2, created2 := m.GetOrCreate("k1")
	if created2 {
		t.Fatal("second GetOrCreate for the same key should report created=false")
	}
	if f1 != f2 {
		t.Fatal("second GetOrCreate should return the same Future instance")
	}

	if m.InFlightCount() != 1 {
		t.Fatalf("InFlightCount = %d, want 1", m.InFlightCount())
	}

	m.Remove("k1")
	if m.InFlightCount() != 0 {
		t.Fatalf("InFlightCount after Remove = %d, want 0", m.InFlightCount())
	}
}

func TestFutureFanOut(t *testing.T) {
	m := NewManager[string](KindGet)
	f, created := m.GetOrCreate("key")
	if !created {
		t.Fatal("expected to own this Future")
	}

	const waiters = 5
	var wg sync.WaitGroup
	results := make([]string, waiters)
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := f.Wait(context.Background())
			results[i] = v
			errs[i] = err
		}(i)
	}

	f.Complete("value", nil)
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Errorf("waiter %d: unexpected error %v", i, errs[i])
		}
		if results[i] != "value" {
			t.Errorf("waiter %d: got %q, want %q", i, results[i], "value")
		}
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	f := newFuture[int]()
	f.Complete(1, nil)
	f.Complete(2, nil) // should be a no-op

	v, err := f.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Fatalf("Complete should only take effect once: got %d, want 1", v)
	}
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	f := newFuture[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	if err == nil {
		t.Fatal("expected Wait to return an error once the context expires")
	}
}
