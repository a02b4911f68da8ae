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

// clientService implements rpcapi.ClientServiceServer, the RPCs exposed
// to the interactive CLI client: key-value operations plus read-only
// introspection of this node's ring-routing state.
type clientService struct {
	rpcapi.UnimplementedClientServiceServer
	node *node.Node
}

// NewClientService creates a client-facing RPC service bound to the given node.
func NewClientService(n *node.Node) rpcapi.ClientServiceServer {
	return &clientService{node: n}
}

func (s *clientService) Put(ctx context.Context, req *rpcapi.PutRequest) (*rpcapi.Empty, error) {
	if req == nil || req.Key == "" {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	id := s.node.Space().NewIdFromString(req.Key)
	res := domain.Resource{Key: id, RawKey: req.Key, Value: req.Value}
	if err := s.node.Put(ctx, res); err != nil {
		return nil, status.Errorf(codes.Internal, "put failed: %v", err)
	}
	return &rpcapi.Empty{}, nil
}

func (s *clientService) Get(ctx context.Context, req *rpcapi.GetRequest) (*rpcapi.GetResponse, error) {
	if req == nil || req.Key == "" {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	id := s.node.Space().NewIdFromString(req.Key)
	res, err := s.node.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rpcapi.GetResponse{Value: res.Value}, nil
}

func (s *clientService) Delete(ctx context.Context, req *rpcapi.DeleteRequest) (*rpcapi.Empty, error) {
	if req == nil || req.Key == "" {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	id := s.node.Space().NewIdFromString(req.Key)
	if err := s.node.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return nil, status.Error(codes.NotFound, "key not found")
		}
		return nil, status.Errorf(codes.Internal, "delete failed: %v", err)
	}
	return &rpcapi.Empty{}, nil
}

func (s *clientService) Lookup(ctx context.Context, req *rpcapi.ClientLookupRequest) (*rpcapi.NodeResponse, error) {
	if req == nil || req.Key == "" {
		return nil, status.Error(codes.InvalidArgument, "missing key")
	}
	id := s.node.Space().NewIdFromString(req.Key)
	found, err := s.node.Lookup(ctx, id)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "lookup failed: %v", err)
	}
	return &rpcapi.NodeResponse{Node: rpcapi.NodeToMsg(found)}, nil
}

func (s *clientService) GetRoutingTable(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.RoutingTableResponse, error) {
	return &rpcapi.RoutingTableResponse{
		Self:        rpcapi.NodeToMsg(s.node.Self()),
		Predecessor: rpcapi.NodeToMsg(s.node.Predecessor()),
		Successors:  nodesToMsgs(s.node.SuccessorList()),
		Fingers:     nodesToMsgs(s.node.FingerList()),
	}, nil
}

func (s *clientService) GetStore(ctx context.Context, _ *rpcapi.Empty) (*rpcapi.StoreDumpResponse, error) {
	return &rpcapi.StoreDumpResponse{Resources: resourcesToMsgs(s.node.AllResourcesStored())}, nil
}
