package server

import (
	"context"
	"testing"
	"time"

	"chordring/internal/client"
	"chordring/internal/domain"
	"chordring/internal/node"
	"chordring/internal/routingtable"
	"chordring/internal/rpcapi"
	"chordring/internal/store"
)

func testServices(t *testing.T) (rpcapi.ClientServiceServer, rpcapi.NodeServiceServer) {
	t.Helper()
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	id, err := sp.FromHexString("10")
	if err != nil {
		t.Fatalf("FromHexString: %v", err)
	}
	self := &domain.Node{ID: id, Addr: "self:0"}
	rt := routingtable.New(self, sp, 3)
	rt.InitSingleNode()
	cp := client.New(time.Second)
	st := store.New(nil)
	n := node.New(rt, cp, st, 2, time.Second)
	return NewClientService(n), NewDHTService(n)
}

func TestClientServicePutGetDelete(t *testing.T) {
	cs, _ := testServices(t)
	ctx := context.Background()

	if _, err := cs.Put(ctx, &rpcapi.PutRequest{Key: "hello", Value: "world"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := cs.Get(ctx, &rpcapi.GetRequest{Key: "hello"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Value != "world" {
		t.Errorf("Get value = %q, want %q", got.Value, "world")
	}

	if _, err := cs.Delete(ctx, &rpcapi.DeleteRequest{Key: "hello"}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cs.Get(ctx, &rpcapi.GetRequest{Key: "hello"}); err == nil {
		t.Error("Get after Delete should fail")
	}
}

func TestClientServiceRejectsEmptyKey(t *testing.T) {
	cs, _ := testServices(t)
	ctx := context.Background()
	if _, err := cs.Put(ctx, &rpcapi.PutRequest{Key: "", Value: "x"}); err == nil {
		t.Error("Put with empty key should fail")
	}
	if _, err := cs.Get(ctx, &rpcapi.GetRequest{Key: ""}); err == nil {
		t.Error("Get with empty key should fail")
	}
}

func TestClientServiceGetRoutingTable(t *testing.T) {
	cs, _ := testServices(t)
	resp, err := cs.GetRoutingTable(context.Background(), &rpcapi.Empty{})
	if err != nil {
		t.Fatalf("GetRoutingTable: %v", err)
	}
	if resp.Self == nil || resp.Self.Address != "self:0" {
		t.Errorf("Self = %+v, want address self:0", resp.Self)
	}
}

func TestDHTServiceStoreRetrieveRemove(t *testing.T) {
	_, ds := testServices(t)
	ctx := context.Background()

	key := []byte{0x01}
	if _, err := ds.Store(ctx, &rpcapi.StoreRequest{Key: key, RawKey: "k", Value: "v"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := ds.Retrieve(ctx, &rpcapi.RetrieveRequest{Key: key})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if got.Value != "v" {
		t.Errorf("Retrieve value = %q, want %q", got.Value, "v")
	}

	if _, err := ds.Remove(ctx, &rpcapi.RemoveRequest{Key: key}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := ds.Retrieve(ctx, &rpcapi.RetrieveRequest{Key: key}); err == nil {
		t.Error("Retrieve after Remove should fail")
	}
}

func TestDHTServiceRejectsMissingKey(t *testing.T) {
	_, ds := testServices(t)
	ctx := context.Background()
	if _, err := ds.Store(ctx, &rpcapi.StoreRequest{Key: nil}); err == nil {
		t.Error("Store without a key should fail")
	}
	if _, err := ds.Lookup(ctx, &rpcapi.LookupRequest{TargetID: nil}); err == nil {
		t.Error("Lookup without a target id should fail")
	}
}

func TestDHTServicePing(t *testing.T) {
	_, ds := testServices(t)
	if _, err := ds.Ping(context.Background(), &rpcapi.Empty{}); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestDHTServiceGetPredecessorSelfInSingleNodeRing(t *testing.T) {
	_, ds := testServices(t)
	resp, err := ds.GetPredecessor(context.Background(), &rpcapi.Empty{})
	if err != nil {
		t.Fatalf("GetPredecessor: %v", err)
	}
	if resp.Node == nil || resp.Node.Address != "self:0" {
		t.Errorf("GetPredecessor in a fresh single-node ring = %+v, want self", resp.Node)
	}
}
