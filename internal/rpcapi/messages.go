// Package rpcapi defines the wire messages and gRPC service descriptors
// exchanged between ring nodes, and between a node and the CLI client.
//
// No .proto file or generated stub exists anywhere in this module: the
// retrieval pack this project was built from carries no protoc toolchain
// and no generated code for any service, so the wire messages here are
// plain Go structs marshaled through the JSON codec registered in
// codec.go rather than through protobuf-generated marshal code. The
// gRPC service descriptors (nodeServiceDesc, clientServiceDesc) are
// hand-written in the shape protoc-gen-go-grpc would otherwise emit.
package rpcapi

import "chordring/internal/domain"

// NodeMsg is the wire form of domain.Node.
type NodeMsg struct {
	ID      []byte `json:"id"`
	Address string `json:"address"`
}

func NodeToMsg(n *domain.Node) *NodeMsg {
	if n == nil {
		return nil
	}
	return &NodeMsg{ID: []byte(n.ID), Address: n.Addr}
}

func NodeFromMsg(m *NodeMsg) *domain.Node {
	if m == nil {
		return nil
	}
	return &domain.Node{ID: domain.ID(m.ID), Addr: m.Address}
}

// ResourceMsg is the wire form of domain.Resource.
type ResourceMsg struct {
	Key    []byte `json:"key"`
	RawKey string `json:"raw_key"`
	Value  string `json:"value"`
}

func ResourceToMsg(r domain.Resource) *ResourceMsg {
	return &ResourceMsg{Key: []byte(r.Key), RawKey: r.RawKey, Value: r.Value}
}

func ResourceFromMsg(m *ResourceMsg) domain.Resource {
	if m == nil {
		return domain.Resource{}
	}
	return domain.Resource{Key: domain.ID(m.Key), RawKey: m.RawKey, Value: m.Value}
}

// Empty is the wire form of a request/response carrying no payload.
type Empty struct{}

// --- node-to-node messages -------------------------------------------

type LookupRequest struct {
	TargetID []byte `json:"target_id"`
	Hops     int32  `json:"hops"`
	TraceID  string `json:"trace_id"`
}

type LookupResponse struct {
	Node *NodeMsg `json:"node"`
	Hops int32    `json:"hops"`
}

type NodeResponse struct {
	Node *NodeMsg `json:"node"`
}

type SuccessorListResponse struct {
	Successors []*NodeMsg `json:"successors"`
}

type ReplicateRequest struct {
	Origin []byte       `json:"origin"`
	Res    *ResourceMsg `json:"resource"`
}

type ReplicaSyncRequest struct {
	Origin []byte   `json:"origin"`
	Keys   []string `json:"keys"` // nil means "drop the whole bucket"
}

type ReplicaSyncResponse struct {
	Resources []*ResourceMsg `json:"resources"`
}

type SendKeysRequest struct {
	LowerBound []byte `json:"lower_bound"`
	UpperBound []byte `json:"upper_bound"`
}

type SendKeysResponse struct {
	Resources []*ResourceMsg `json:"resources"`
}

type StoreRequest struct {
	Key    []byte `json:"key"`
	RawKey string `json:"raw_key"`
	Value  string `json:"value"`
}

type RetrieveRequest struct {
	Key []byte `json:"key"`
}

type RetrieveResponse struct {
	Value string `json:"value"`
}

type RemoveRequest struct {
	Key []byte `json:"key"`
}

// --- client-facing messages -------------------------------------------

type PutRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type GetRequest struct {
	Key string `json:"key"`
}

type GetResponse struct {
	Value string `json:"value"`
}

type DeleteRequest struct {
	Key string `json:"key"`
}

type ClientLookupRequest struct {
	Key string `json:"key"`
}

type RoutingTableResponse struct {
	Self        *NodeMsg   `json:"self"`
	Predecessor *NodeMsg   `json:"predecessor"`
	Successors  []*NodeMsg `json:"successors"`
	Fingers     []*NodeMsg `json:"fingers"`
}

type StoreDumpResponse struct {
	Resources []*ResourceMsg `json:"resources"`
}
