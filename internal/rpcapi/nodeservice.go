package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const nodeServiceName = "chordring.rpcapi.NodeService"

// NodeServiceServer is implemented by a ring node to answer RPCs from
// its peers: ring-routing (Lookup, GetPredecessor, GetSuccessorList,
// Notify, Ping) and data-plane/replication (Store, Retrieve, Remove,
// StoreReplica, ReplicaSync, SendKeys).
type NodeServiceServer interface {
	Lookup(context.Context, *LookupRequest) (*LookupResponse, error)
	GetPredecessor(context.Context, *Empty) (*NodeResponse, error)
	GetSuccessorList(context.Context, *Empty) (*SuccessorListResponse, error)
	Notify(context.Context, *NodeMsg) (*Empty, error)
	Ping(context.Context, *Empty) (*Empty, error)
	Store(context.Context, *StoreRequest) (*Empty, error)
	Retrieve(context.Context, *RetrieveRequest) (*RetrieveResponse, error)
	Remove(context.Context, *RemoveRequest) (*Empty, error)
	StoreReplica(context.Context, *ReplicateRequest) (*Empty, error)
	ReplicaSync(context.Context, *ReplicaSyncRequest) (*ReplicaSyncResponse, error)
	SendKeys(context.Context, *SendKeysRequest) (*SendKeysResponse, error)
}

// UnimplementedNodeServiceServer can be embedded to satisfy
// NodeServiceServer while only overriding the methods a given server
// variant cares about.
type UnimplementedNodeServiceServer struct{}

func (UnimplementedNodeServiceServer) Lookup(context.Context, *LookupRequest) (*LookupResponse, error) {
	return nil, errUnimplemented("Lookup")
}
func (UnimplementedNodeServiceServer) GetPredecessor(context.Context, *Empty) (*NodeResponse, error) {
	return nil, errUnimplemented("GetPredecessor")
}
func (UnimplementedNodeServiceServer) GetSuccessorList(context.Context, *Empty) (*SuccessorListResponse, error) {
	return nil, errUnimplemented("GetSuccessorList")
}
func (UnimplementedNodeServiceServer) Notify(context.Context, *NodeMsg) (*Empty, error) {
	return nil, errUnimplemented("Notify")
}
func (UnimplementedNodeServiceServer) Ping(context.Context, *Empty) (*Empty, error) {
	return nil, errUnimplemented("Ping")
}
func (UnimplementedNodeServiceServer) Store(context.Context, *StoreRequest) (*Empty, error) {
	return nil, errUnimplemented("Store")
}
func (UnimplementedNodeServiceServer) Retrieve(context.Context, *RetrieveRequest) (*RetrieveResponse, error) {
	return nil, errUnimplemented("Retrieve")
}
func (UnimplementedNodeServiceServer) Remove(context.Context, *RemoveRequest) (*Empty, error) {
	return nil, errUnimplemented("Remove")
}
func (UnimplementedNodeServiceServer) StoreReplica(context.Context, *ReplicateRequest) (*Empty, error) {
	return nil, errUnimplemented("StoreReplica")
}
func (UnimplementedNodeServiceServer) ReplicaSync(context.Context, *ReplicaSyncRequest) (*ReplicaSyncResponse, error) {
	return nil, errUnimplemented("ReplicaSync")
}
func (UnimplementedNodeServiceServer) SendKeys(context.Context, *SendKeysRequest) (*SendKeysResponse, error) {
	return nil, errUnimplemented("SendKeys")
}

// NodeServiceClient is the client-side stub matching NodeServiceServer.
type NodeServiceClient interface {
	Lookup(ctx context.Context, in *LookupRequest, opts ...grpc.CallOption) (*LookupResponse, error)
	GetPredecessor(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeResponse, error)
	GetSuccessorList(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessorListResponse, error)
	Notify(ctx context.Context, in *NodeMsg, opts ...grpc.CallOption) (*Empty, error)
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	Store(ctx context.Context, in *StoreRequest, opts ...grpc.CallOption) (*Empty, error)
	Retrieve(ctx context.Context, in *RetrieveRequest, opts ...grpc.CallOption) (*RetrieveResponse, error)
	Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*Empty, error)
	StoreReplica(ctx context.Context, in *ReplicateRequest, opts ...grpc.CallOption) (*Empty, error)
	ReplicaSync(ctx context.Context, in *ReplicaSyncRequest, opts ...grpc.CallOption) (*ReplicaSyncResponse, error)
	SendKeys(ctx context.Context, in *SendKeysRequest, opts ...grpc.CallOption) (*SendKeysResponse, error)
}

type nodeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNodeServiceClient wraps a gRPC client connection with the
// NodeService method set.
func NewNodeServiceClient(cc grpc.ClientConnInterface) NodeServiceClient {
	return &nodeServiceClient{cc: cc}
}

func (c *nodeServiceClient) Lookup(ctx context.Context, in *LookupRequest, opts ...grpc.CallOption) (*LookupResponse, error) {
	out := new(LookupResponse)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/Lookup", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) GetPredecessor(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*NodeResponse, error) {
	out := new(NodeResponse)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/GetPredecessor", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) GetSuccessorList(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*SuccessorListResponse, error) {
	out := new(SuccessorListResponse)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/GetSuccessorList", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) Notify(ctx context.Context, in *NodeMsg, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/Notify", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/Ping", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) Store(ctx context.Context, in *StoreRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/Store", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) Retrieve(ctx context.Context, in *RetrieveRequest, opts ...grpc.CallOption) (*RetrieveResponse, error) {
	out := new(RetrieveResponse)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/Retrieve", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/Remove", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) StoreReplica(ctx context.Context, in *ReplicateRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/StoreReplica", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) ReplicaSync(ctx context.Context, in *ReplicaSyncRequest, opts ...grpc.CallOption) (*ReplicaSyncResponse, error) {
	out := new(ReplicaSyncResponse)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/ReplicaSync", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeServiceClient) SendKeys(ctx context.Context, in *SendKeysRequest, opts ...grpc.CallOption) (*SendKeysResponse, error) {
	out := new(SendKeysResponse)
	if err := c.cc.Invoke(ctx, nodeServiceName+"/SendKeys", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterNodeServiceServer registers srv on s under the NodeService
// service descriptor below.
func RegisterNodeServiceServer(s grpc.ServiceRegistrar, srv NodeServiceServer) {
	s.RegisterService(&nodeServiceDesc, srv)
}

var nodeServiceDesc = grpc.ServiceDesc{
	ServiceName: nodeServiceName,
	HandlerType: (*NodeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Lookup", Handler: nodeLookupHandler},
		{MethodName: "GetPredecessor", Handler: nodeGetPredecessorHandler},
		{MethodName: "GetSuccessorList", Handler: nodeGetSuccessorListHandler},
		{MethodName: "Notify", Handler: nodeNotifyHandler},
		{MethodName: "Ping", Handler: nodePingHandler},
		{MethodName: "Store", Handler: nodeStoreHandler},
		{MethodName: "Retrieve", Handler: nodeRetrieveHandler},
		{MethodName: "Remove", Handler: nodeRemoveHandler},
		{MethodName: "StoreReplica", Handler: nodeStoreReplicaHandler},
		{MethodName: "ReplicaSync", Handler: nodeReplicaSyncHandler},
		{MethodName: "SendKeys", Handler: nodeSendKeysHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpcapi/node_service.proto",
}

func nodeLookupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(LookupRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).Lookup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/Lookup"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).Lookup(ctx, req.(*LookupRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeGetPredecessorHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).GetPredecessor(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/GetPredecessor"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).GetPredecessor(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeGetSuccessorListHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).GetSuccessorList(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/GetSuccessorList"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).GetSuccessorList(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeNotifyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(NodeMsg)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).Notify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/Notify"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).Notify(ctx, req.(*NodeMsg))
	}
	return interceptor(ctx, in, info, handler)
}

func nodePingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/Ping"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).Ping(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeStoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StoreRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).Store(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/Store"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).Store(ctx, req.(*StoreRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeRetrieveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RetrieveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).Retrieve(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/Retrieve"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).Retrieve(ctx, req.(*RetrieveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeRemoveHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RemoveRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).Remove(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/Remove"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).Remove(ctx, req.(*RemoveRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeStoreReplicaHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReplicateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).StoreReplica(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/StoreReplica"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).StoreReplica(ctx, req.(*ReplicateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeReplicaSyncHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReplicaSyncRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).ReplicaSync(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/ReplicaSync"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).ReplicaSync(ctx, req.(*ReplicaSyncRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func nodeSendKeysHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SendKeysRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServiceServer).SendKeys(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: nodeServiceName + "/SendKeys"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NodeServiceServer).SendKeys(ctx, req.(*SendKeysRequest))
	}
	return interceptor(ctx, in, info, handler)
}
