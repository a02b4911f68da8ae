// Package client maintains reusable gRPC connections to ring peers and
// wraps the node-to-node RPCs (rpcapi.NodeServiceClient) in a single
// reference-counted Pool, replacing the three incompatible connection
// managers the early prototype accumulated (Manager, ClientPool, a
// bare Connect helper) with one consistent type.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chordring/internal/ctxutil"
	"chordring/internal/domain"
	"chordring/internal/logger"
	"chordring/internal/rpcapi"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var (
	ErrClientNotInPool = errors.New("client: address not found in pool")
	ErrNoPredecessor    = errors.New("client: remote node has no predecessor")
	ErrTimeout          = errors.New("client: RPC timed out, no response from remote node")
)

type poolEntry struct {
	conn   *grpc.ClientConn
	client rpcapi.NodeServiceClient
	refs   int
}

// Pool is a reference-counted set of gRPC connections to ring peers.
// A node AddRef()s an address whenever it installs the corresponding
// peer in routing state (successor list, finger table, predecessor)
// and Release()s it when the peer is evicted, so a connection exists
// for exactly as long as some routing slot needs it.
type Pool struct {
	lgr            logger.Logger
	mu             sync.RWMutex
	conns          map[string]*poolEntry
	dialOpts       []grpc.DialOption
	failureTimeout time.Duration
}

// Option configures a Pool at construction time.
type Option func(*Pool)

func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.lgr = l
		}
	}
}

func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(p *Pool) { p.dialOpts = opts }
}

// New creates an empty Pool. failureTimeout is stored and handed back via
// FailureTimeout; the Pool's convenience wrappers (Lookup, Ping, Notify,
// ...) do not apply it themselves and run under whatever deadline the
// caller's context carries.
func New(failureTimeout time.Duration, opts ...Option) *Pool {
	p := &Pool{
		lgr:            &logger.NopLogger{},
		conns:          make(map[string]*poolEntry),
		failureTimeout: failureTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(p.dialOpts) == 0 {
		p.dialOpts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	return p
}

// FailureTimeout returns the configured per-RPC timeout.
func (p *Pool) FailureTimeout() time.Duration { return p.failureTimeout }

// AddRef ensures a pooled connection to addr exists and increments its
// reference count, dialing lazily on first use.
func (p *Pool) AddRef(addr string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.conns[addr]; ok {
		e.refs++
		return nil
	}
	conn, err := grpc.NewClient(addr, p.dialOpts...)
	if err != nil {
		return fmt.Errorf("client: dial %s: %w", addr, err)
	}
	p.conns[addr] = &poolEntry{conn: conn, client: rpcapi.NewNodeServiceClient(conn), refs: 1}
	p.lgr.Debug("Pool: new connection", logger.F("addr", addr))
	return nil
}

// Release decrements addr's reference count, closing and evicting the
// connection once it drops to zero.
func (p *Pool) Release(addr string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.conns[addr]
	if !ok {
		return nil
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(p.conns, addr)
	p.lgr.Debug("Pool: connection released", logger.F("addr", addr))
	return e.conn.Close()
}

// Get returns the pooled client for addr, or ErrClientNotInPool if no
// reference currently exists for it.
func (p *Pool) Get(addr string) (rpcapi.NodeServiceClient, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.conns[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClientNotInPool, addr)
	}
	return e.client, nil
}

// DialEphemeral opens a one-off connection to addr, outside the
// refcounted pool, for a single RPC to a node not (yet) in routing
// state. The caller owns the returned *grpc.ClientConn and must close it.
func (p *Pool) DialEphemeral(addr string) (rpcapi.NodeServiceClient, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, p.dialOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("client: ephemeral dial %s: %w", addr, err)
	}
	return rpcapi.NewNodeServiceClient(conn), conn, nil
}

// DebugLog emits a structured DEBUG snapshot of pooled connections.
func (p *Pool) DebugLog() {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entries := make([]map[string]any, 0, len(p.conns))
	for addr, e := range p.conns {
		entries = append(entries, map[string]any{"addr": addr, "refs": e.refs})
	}
	p.lgr.Debug("Pool snapshot", logger.F("count", len(p.conns)), logger.F("connections", entries))
}

// CloseAll tears down every pooled connection regardless of refcount,
// used during process shutdown.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, e := range p.conns {
		_ = e.conn.Close()
		delete(p.conns, addr)
	}
}

// ---------------------------------------------------------------------
// RPC wrappers
// ---------------------------------------------------------------------

func wrapErr(err error, addr, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("client: %s RPC to %s failed: %w", op, addr, err)
}

// clientFor returns the pooled client for addr if one exists, otherwise
// dials an ephemeral one-off connection. The returned cleanup func must
// always be called; it is a no-op for pooled connections and closes the
// connection for ephemeral ones. This mirrors the pool-then-ephemeral
// fallback the node package needs for peers not yet in routing state.
func (p *Pool) clientFor(addr string) (rpcapi.NodeServiceClient, func(), error) {
	if cli, err := p.Get(addr); err == nil {
		return cli, func() {}, nil
	}
	cli, conn, err := p.DialEphemeral(addr)
	if err != nil {
		return nil, nil, err
	}
	return cli, func() { _ = conn.Close() }, nil
}

// Lookup asks addr to resolve target, continuing the Chord lookup from
// its own routing table.
func (p *Pool) Lookup(ctx context.Context, addr string, target domain.ID, hops int32, traceID string) (*domain.Node, int32, error) {
	if err := ctxutil.CheckContext(ctx); err != nil {
		return nil, hops, err
	}
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return nil, hops, err
	}
	defer cleanup()
	resp, err := cli.Lookup(ctx, &rpcapi.LookupRequest{TargetID: []byte(target), Hops: hops, TraceID: traceID})
	if err != nil {
		return nil, hops, wrapErr(err, addr, "Lookup")
	}
	return rpcapi.NodeFromMsg(resp.Node), resp.Hops, nil
}

func (p *Pool) GetPredecessor(ctx context.Context, addr string) (*domain.Node, error) {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	resp, err := cli.GetPredecessor(ctx, &rpcapi.Empty{})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			return nil, ErrNoPredecessor
		}
		return nil, wrapErr(err, addr, "GetPredecessor")
	}
	return rpcapi.NodeFromMsg(resp.Node), nil
}

func (p *Pool) GetSuccessorList(ctx context.Context, addr string) ([]*domain.Node, error) {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	resp, err := cli.GetSuccessorList(ctx, &rpcapi.Empty{})
	if err != nil {
		return nil, wrapErr(err, addr, "GetSuccessorList")
	}
	out := make([]*domain.Node, len(resp.Successors))
	for i, m := range resp.Successors {
		out[i] = rpcapi.NodeFromMsg(m)
	}
	return out, nil
}

func (p *Pool) Notify(ctx context.Context, addr string, self *domain.Node) error {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return err
	}
	defer cleanup()
	_, err = cli.Notify(ctx, rpcapi.NodeToMsg(self))
	return wrapErr(err, addr, "Notify")
}

func (p *Pool) Ping(ctx context.Context, addr string) error {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return err
	}
	defer cleanup()
	_, err = cli.Ping(ctx, &rpcapi.Empty{})
	return wrapErr(err, addr, "Ping")
}

func (p *Pool) StoreRemote(ctx context.Context, addr string, res domain.Resource) error {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return err
	}
	defer cleanup()
	_, err = cli.Store(ctx, &rpcapi.StoreRequest{Key: []byte(res.Key), RawKey: res.RawKey, Value: res.Value})
	return wrapErr(err, addr, "Store")
}

func (p *Pool) RetrieveRemote(ctx context.Context, addr string, key domain.ID) (*domain.Resource, error) {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	resp, err := cli.Retrieve(ctx, &rpcapi.RetrieveRequest{Key: []byte(key)})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			return nil, domain.ErrResourceNotFound
		}
		return nil, wrapErr(err, addr, "Retrieve")
	}
	return &domain.Resource{Key: key, Value: resp.Value}, nil
}

func (p *Pool) RemoveRemote(ctx context.Context, addr string, key domain.ID) error {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return err
	}
	defer cleanup()
	_, err = cli.Remove(ctx, &rpcapi.RemoveRequest{Key: []byte(key)})
	if err != nil {
		if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
			return domain.ErrResourceNotFound
		}
		return wrapErr(err, addr, "Remove")
	}
	return nil
}

// StoreReplica pushes a single resource into addr's replica bucket for origin.
func (p *Pool) StoreReplica(ctx context.Context, addr string, origin domain.ID, res domain.Resource) error {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return err
	}
	defer cleanup()
	_, err = cli.StoreReplica(ctx, &rpcapi.ReplicateRequest{Origin: []byte(origin), Res: rpcapi.ResourceToMsg(res)})
	return wrapErr(err, addr, "StoreReplica")
}

// ReplicaSync asks addr to reconcile its replica bucket for origin
// against the given authoritative key set: keys == nil drops the
// entire bucket. Any resources in addr's reply are returned; this
// module's server side always replies with none.
func (p *Pool) ReplicaSync(ctx context.Context, addr string, origin domain.ID, keys []string) ([]domain.Resource, error) {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	resp, err := cli.ReplicaSync(ctx, &rpcapi.ReplicaSyncRequest{Origin: []byte(origin), Keys: keys})
	if err != nil {
		return nil, wrapErr(err, addr, "ReplicaSync")
	}
	out := make([]domain.Resource, len(resp.Resources))
	for i, m := range resp.Resources {
		out[i] = rpcapi.ResourceFromMsg(m)
	}
	return out, nil
}

// SendKeys requests every resource addr holds with key in (lower, upper],
// used by a joining node to pull the part of its new successor addr's
// range that it now owns.
func (p *Pool) SendKeys(ctx context.Context, addr string, lower, upper domain.ID) ([]domain.Resource, error) {
	cli, cleanup, err := p.clientFor(addr)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	resp, err := cli.SendKeys(ctx, &rpcapi.SendKeysRequest{LowerBound: []byte(lower), UpperBound: []byte(upper)})
	if err != nil {
		return nil, wrapErr(err, addr, "SendKeys")
	}
	out := make([]domain.Resource, len(resp.Resources))
	for i, m := range resp.Resources {
		out[i] = rpcapi.ResourceFromMsg(m)
	}
	return out, nil
}
