package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

const clientServiceName = "chordring.rpcapi.ClientService"

// ClientServiceServer is implemented by a ring node to answer RPCs from
// the interactive CLI client: key-value operations plus read-only
// introspection of ring-routing state.
type ClientServiceServer interface {
	Put(context.Context, *PutRequest) (*Empty, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	Delete(context.Context, *DeleteRequest) (*Empty, error)
	Lookup(context.Context, *ClientLookupRequest) (*NodeResponse, error)
	GetRoutingTable(context.Context, *Empty) (*RoutingTableResponse, error)
	GetStore(context.Context, *Empty) (*StoreDumpResponse, error)
}

// UnimplementedClientServiceServer can be embedded to satisfy
// ClientServiceServer while only overriding select methods.
type UnimplementedClientServiceServer struct{}

func (UnimplementedClientServiceServer) Put(context.Context, *PutRequest) (*Empty, error) {
	return nil, errUnimplemented("Put")
}
func (UnimplementedClientServiceServer) Get(context.Context, *GetRequest) (*GetResponse, error) {
	return nil, errUnimplemented("Get")
}
func (UnimplementedClientServiceServer) Delete(context.Context, *DeleteRequest) (*Empty, error) {
	return nil, errUnimplemented("Delete")
}
func (UnimplementedClientServiceServer) Lookup(context.Context, *ClientLookupRequest) (*NodeResponse, error) {
	return nil, errUnimplemented("Lookup")
}
func (UnimplementedClientServiceServer) GetRoutingTable(context.Context, *Empty) (*RoutingTableResponse, error) {
	return nil, errUnimplemented("GetRoutingTable")
}
func (UnimplementedClientServiceServer) GetStore(context.Context, *Empty) (*StoreDumpResponse, error) {
	return nil, errUnimplemented("GetStore")
}

// ClientServiceClient is the client-side stub matching ClientServiceServer.
type ClientServiceClient interface {
	Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*Empty, error)
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error)
	Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Empty, error)
	Lookup(ctx context.Context, in *ClientLookupRequest, opts ...grpc.CallOption) (*NodeResponse, error)
	GetRoutingTable(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RoutingTableResponse, error)
	GetStore(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StoreDumpResponse, error)
}

type clientServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewClientServiceClient wraps a gRPC client connection with the
// ClientService method set.
func NewClientServiceClient(cc grpc.ClientConnInterface) ClientServiceClient {
	return &clientServiceClient{cc: cc}
}

func (c *clientServiceClient) Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, clientServiceName+"/Put", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientServiceClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.cc.Invoke(ctx, clientServiceName+"/Get", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientServiceClient) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, clientServiceName+"/Delete", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientServiceClient) Lookup(ctx context.Context, in *ClientLookupRequest, opts ...grpc.CallOption) (*NodeResponse, error) {
	out := new(NodeResponse)
	if err := c.cc.Invoke(ctx, clientServiceName+"/Lookup", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientServiceClient) GetRoutingTable(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RoutingTableResponse, error) {
	out := new(RoutingTableResponse)
	if err := c.cc.Invoke(ctx, clientServiceName+"/GetRoutingTable", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *clientServiceClient) GetStore(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StoreDumpResponse, error) {
	out := new(StoreDumpResponse)
	if err := c.cc.Invoke(ctx, clientServiceName+"/GetStore", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterClientServiceServer registers srv on s under the
// ClientService service descriptor below.
func RegisterClientServiceServer(s grpc.ServiceRegistrar, srv ClientServiceServer) {
	s.RegisterService(&clientServiceDesc, srv)
}

var clientServiceDesc = grpc.ServiceDesc{
	ServiceName: clientServiceName,
	HandlerType: (*ClientServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Put", Handler: clientPutHandler},
		{MethodName: "Get", Handler: clientGetHandler},
		{MethodName: "Delete", Handler: clientDeleteHandler},
		{MethodName: "Lookup", Handler: clientLookupHandler},
		{MethodName: "GetRoutingTable", Handler: clientGetRoutingTableHandler},
		{MethodName: "GetStore", Handler: clientGetStoreHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpcapi/client_service.proto",
}

func clientPutHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).Put(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: clientServiceName + "/Put"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientServiceServer).Put(ctx, req.(*PutRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func clientGetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).Get(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: clientServiceName + "/Get"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientServiceServer).Get(ctx, req.(*GetRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func clientDeleteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).Delete(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: clientServiceName + "/Delete"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientServiceServer).Delete(ctx, req.(*DeleteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func clientLookupHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ClientLookupRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).Lookup(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: clientServiceName + "/Lookup"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientServiceServer).Lookup(ctx, req.(*ClientLookupRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func clientGetRoutingTableHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).GetRoutingTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: clientServiceName + "/GetRoutingTable"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientServiceServer).GetRoutingTable(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func clientGetStoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClientServiceServer).GetStore(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: clientServiceName + "/GetStore"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClientServiceServer).GetStore(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}
