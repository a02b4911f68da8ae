package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chordring/internal/rpcapi"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnavailable      = errors.New("node unavailable")
	ErrDeadlineExceeded = errors.New("request timeout exceeded")
	ErrInternal         = errors.New("internal gRPC error")
)

// Connect dials a single node's ClientService, for use by the
// interactive CLI client (one connection per REPL session).
func Connect(addr string) (rpcapi.ClientServiceClient, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("client: failed to connect to %s: %w", addr, err)
	}
	return rpcapi.NewClientServiceClient(conn), conn, nil
}

func normalizeError(err error) error {
	if err == nil {
		return nil
	}
	s, ok := status.FromError(err)
	if !ok {
		return ErrInternal
	}
	switch s.Code() {
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable:
		return ErrUnavailable
	case codes.DeadlineExceeded:
		return ErrDeadlineExceeded
	default:
		return ErrInternal
	}
}

// Put inserts or updates a key-value pair on the node.
func Put(ctx context.Context, cli rpcapi.ClientServiceClient, key, value string) (time.Duration, error) {
	start := time.Now()
	_, err := cli.Put(ctx, &rpcapi.PutRequest{Key: key, Value: value})
	return time.Since(start), normalizeError(err)
}

// Get retrieves the value for a given key.
func Get(ctx context.Context, cli rpcapi.ClientServiceClient, key string) (string, time.Duration, error) {
	start := time.Now()
	resp, err := cli.Get(ctx, &rpcapi.GetRequest{Key: key})
	if err != nil {
		return "", time.Since(start), normalizeError(err)
	}
	return resp.Value, time.Since(start), nil
}

// Delete removes a key from the node.
func Delete(ctx context.Context, cli rpcapi.ClientServiceClient, key string) (time.Duration, error) {
	start := time.Now()
	_, err := cli.Delete(ctx, &rpcapi.DeleteRequest{Key: key})
	return time.Since(start), normalizeError(err)
}

// Lookup performs a DHT lookup by raw key and returns the responsible node.
func Lookup(ctx context.Context, cli rpcapi.ClientServiceClient, key string) (*rpcapi.NodeMsg, time.Duration, error) {
	start := time.Now()
	resp, err := cli.Lookup(ctx, &rpcapi.ClientLookupRequest{Key: key})
	if err != nil {
		return nil, time.Since(start), normalizeError(err)
	}
	return resp.Node, time.Since(start), nil
}

// GetRoutingTable retrieves the node's routing table.
func GetRoutingTable(ctx context.Context, cli rpcapi.ClientServiceClient) (*rpcapi.RoutingTableResponse, time.Duration, error) {
	start := time.Now()
	resp, err := cli.GetRoutingTable(ctx, &rpcapi.Empty{})
	return resp, time.Since(start), normalizeError(err)
}

// GetStore retrieves every resource stored locally on the node.
func GetStore(ctx context.Context, cli rpcapi.ClientServiceClient) ([]*rpcapi.ResourceMsg, time.Duration, error) {
	start := time.Now()
	resp, err := cli.GetStore(ctx, &rpcapi.Empty{})
	if err != nil {
		return nil, time.Since(start), normalizeError(err)
	}
	return resp.Resources, time.Since(start), nil
}
