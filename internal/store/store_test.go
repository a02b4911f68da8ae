package store

import (
	"testing"

	"chordring/internal/domain"
)

func testSpace(t *testing.T) domain.Space {
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	return sp
}

func id(t *testing.T, sp domain.Space, hex string) domain.ID {
	t.Helper()
	v, err := sp.FromHexString(hex)
	if err != nil {
		t.Fatalf("FromHexString(%q): %v", hex, err)
	}
	return v
}

func TestPutGetDelete(t *testing.T) {
	sp := testSpace(t)
	s := New(nil)
	k := id(t, sp, "10")

	if _, err := s.Get(k); err != domain.ErrResourceNotFound {
		t.Fatalf("Get on empty store: got %v, want ErrResourceNotFound", err)
	}

	s.Put(domain.Resource{Key: k, RawKey: "a", Value: "v1"})
	res, err := s.Get(k)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.Value != "v1" {
		t.Errorf("Get: got %q, want v1", res.Value)
	}

	if err := s.Delete(k); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(k); err != domain.ErrResourceNotFound {
		t.Fatalf("second Delete: got %v, want ErrResourceNotFound", err)
	}
}

func TestBetween(t *testing.T) {
	sp := testSpace(t)
	s := New(nil)
	s.Put(domain.Resource{Key: id(t, sp, "10"), Value: "a"})
	s.Put(domain.Resource{Key: id(t, sp, "20"), Value: "b"})
	s.Put(domain.Resource{Key: id(t, sp, "30"), Value: "c"})

	got := s.Between(id(t, sp, "05"), id(t, sp, "25"))
	if len(got) != 2 {
		t.Fatalf("Between(05,25): got %d resources, want 2", len(got))
	}
}

func TestReplicaBucketLifecycle(t *testing.T) {
	sp := testSpace(t)
	s := New(nil)
	origin := id(t, sp, "aa")
	k := id(t, sp, "01")

	s.StoreReplica(origin, domain.Resource{Key: k, Value: "replica-v"})
	if keys := s.ReplicaKeys(origin); len(keys) != 1 {
		t.Fatalf("ReplicaKeys: got %d, want 1", len(keys))
	}

	merged := s.MergeReplicaBucket(origin)
	if len(merged) != 1 {
		t.Fatalf("MergeReplicaBucket: got %d resources, want 1", len(merged))
	}
	if _, err := s.Get(k); err != nil {
		t.Fatalf("promoted key should now be in primary store: %v", err)
	}
	if keys := s.ReplicaKeys(origin); len(keys) != 0 {
		t.Fatalf("bucket should be empty after merge, got %d keys", len(keys))
	}
}

func TestDeleteReplicasEntireBucket(t *testing.T) {
	sp := testSpace(t)
	s := New(nil)
	origin := id(t, sp, "aa")
	s.StoreReplica(origin, domain.Resource{Key: id(t, sp, "01"), Value: "v1"})
	s.StoreReplica(origin, domain.Resource{Key: id(t, sp, "02"), Value: "v2"})

	s.DeleteReplicas(origin, nil)
	if keys := s.ReplicaKeys(origin); len(keys) != 0 {
		t.Fatalf("expected entire bucket dropped, got %d keys", len(keys))
	}
}

func TestShortfallBookkeeping(t *testing.T) {
	sp := testSpace(t)
	s := New(nil)
	k := id(t, sp, "01")

	s.MarkShortfall(k, 2)
	sf := s.Shortfalls()
	if sf[k.String()] != 2 {
		t.Fatalf("Shortfalls: got %d, want 2", sf[k.String()])
	}

	s.MarkShortfall(k, 0)
	sf = s.Shortfalls()
	if _, ok := sf[k.String()]; ok {
		t.Error("shortfall should be cleared when count reaches 0")
	}
}
