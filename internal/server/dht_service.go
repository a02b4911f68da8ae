package server

import (
	"context"
	"errors"

	"chordring/internal/domain"
	"chordring/internal/node"
	"chordring/internal/rpcapi"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// dhtService implements rpcapi.NodeServiceServer, the node-to-node RPCs:
// ring routing (Lookup, GetPredecessor, GetSuccessorList, Notify, Ping)
// and data-plane/replication (Store, Retrieve, Remove, StoreReplica,
// ReplicaSync, SendKeys).
type dhtService struct {
	rpcapi.UnimplementedNodeServiceServer
	node *node.Node
}

// NewDHTService creates a node-to-node RPC service bound to the given node.
func NewDHTService(n *node.Node) rpcapi.NodeServiceServer {
	return &dhtService{node: n}
}

func (s *dhtService) Lookup(ctx context.Context, req *rpcapi.LookupRequest) (*rpcapi.LookupResponse, error) {
	if req == nil || len(req.TargetID) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing target_id")
	}
	target := domain.ID(req.TargetID)
	found, hops, err := s.node.HandleLookup(ctx, target, req.Hops, req.TraceID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "lookup failed: %v", err)
	}
	return &rpcapi.LookupResponse{Node: rpcapi.NodeToMsg(found), Hops: hops}, nil
}

func (s *dhtService) GetPredecessor(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.NodeResponse, error) {
	return &rpcapi.NodeResponse{Node: rpcapi.NodeToMsg(s.node.Predecessor())}, nil
}

func (s *dhtService) GetSuccessorList(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.SuccessorListResponse, error) {
	list := s.node.SuccessorList()
	out := make([]*rpcapi.NodeMsg, len(list))
	for i, nd := range list {
		out[i] = rpcapi.NodeToMsg(nd)
	}
	return &rpcapi.SuccessorListResponse{Successors: out}, nil
}

func (s *dhtService) Notify(ctx context.Context, req *rpcapi.NodeMsg) (*rpcapi.Empty, error) {
	s.node.Notify(rpcapi.NodeFromMsg(req))
	return &rpcapi.Empty{}, nil
}

func (s *dhtService) Ping(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.Empty, error) {
	return &rpcapi.Empty{}, nil
}

func (s *dhtService) Store(ctx context.Context, req *rpcapi.StoreRequest) (*rpcapi.Empty, error) {
	if req == nil || len(req.Key) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	s.node.StoreLocal(domain.Resource{Key: domain.ID(req.Key), RawKey: req.RawKey, Value: req.Value})
	return &rpcapi.Empty{}, nil
}

func (s *dhtService) Retrieve(ctx context.Context, req *rpcapi.RetrieveRequest) (*rpcapi.RetrieveResponse, error) {
	if req == nil || len(req.Key) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	res, err := s.node.RetrieveLocal(domain.ID(req.Key))
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil, status.Error(codes.NotFound, "key not found")
		}
		return nil, status.Errorf(codes.Internal, "retrieve failed: %v", err)
	}
	return &rpcapi.RetrieveResponse{Value: res.Value}, nil
}

func (s *dhtService) Remove(ctx context.Context, req *rpcapi.RemoveRequest) (*rpcapi.Empty, error) {
	if req == nil || len(req.Key) == 0 {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	if err := s.node.RemoveLocal(domain.ID(req.Key)); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil, status.Error(codes.NotFound, "key not found")
		}
		return nil, status.Errorf(codes.Internal, "remove failed: %v", err)
	}
	return &rpcapi.Empty{}, nil
}

func (s *dhtService) StoreReplica(ctx context.Context, req *rpcapi.ReplicateRequest) (*rpcapi.Empty, error) {
	if req == nil || req.Res == nil {
		return nil, status.Error(codes.InvalidArgument, "missing resource")
	}
	s.node.StoreReplicaLocal(domain.ID(req.Origin), rpcapi.ResourceFromMsg(req.Res))
	return &rpcapi.Empty{}, nil
}

func (s *dhtService) ReplicaSync(ctx context.Context, req *rpcapi.ReplicaSyncRequest) (*rpcapi.ReplicaSyncResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}
	missing := s.node.ReplicaSyncLocal(domain.ID(req.Origin), req.Keys)
	return &rpcapi.ReplicaSyncResponse{Resources: resourcesToMsgs(missing)}, nil
}

func (s *dhtService) SendKeys(ctx context.Context, req *rpcapi.SendKeysRequest) (*rpcapi.SendKeysResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "missing request")
	}
	resources := s.node.SendKeysLocal(domain.ID(req.LowerBound), domain.ID(req.UpperBound))
	return &rpcapi.SendKeysResponse{Resources: resourcesToMsgs(resources)}, nil
}
