package ctxutil

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"chordring/internal/domain"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// unexported keys to avoid collisions
type traceKey struct{}
type hopsKey struct{}

// ContextOption configures the behavior of NewContext.
// Multiple options can be combined.
type ContextOption func(*ctxConfig)

type ctxConfig struct {
	withTrace bool
	withHops  bool
	nodeID    domain.ID
	timeout   time.Duration
}

// WithTrace enables attaching a fresh traceID to the created context.
// The traceID is derived from the provided nodeID and returned by NewContext.
func WithTrace(nodeID domain.ID) ContextOption {
	return func(cfg *ctxConfig) {
		cfg.withTrace = true
		cfg.nodeID = nodeID
	}
}

// WithTimeout sets a timeout duration for the created context.
// The caller must defer the cancel function returned by NewContext.
func WithTimeout(d time.Duration) ContextOption {
	return func(cfg *ctxConfig) {
		cfg.timeout = d
	}
}

// WithHops initializes the hop counter at 0 in the context.
func WithHops() ContextOption {
	return func(cfg *ctxConfig) {
		cfg.withHops = true
	}
}

// NewContext creates a new context configured according to the provided options.
//
// Options:
//   - WithTrace(nodeID): attaches a traceID to the context
//   - WithTimeout(d): applies a timeout to the context
//   - WithHops(): initializes a hop counter
//
// Returns:
//   - context.Context: the configured context
//   - context.CancelFunc: a cancel function (nil if no timeout was set)
func NewContext(opts ...ContextOption) (context.Context, context.CancelFunc) {
	cfg := &ctxConfig{}
	for _, o := range opts {
		o(cfg)
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if cfg.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), cfg.timeout)
	} else {
		ctx = context.Background()
	}
	if cfg.withTrace {
		ctx, _ = attachTraceID(ctx, cfg.nodeID)
	}
	if cfg.withHops {
		ctx = context.WithValue(ctx, hopsKey{}, 0)
	}

	return ctx, cancel
}

// generateTraceID builds a globally unique trace identifier of the form
// "<nodeID>-<random-hex>", used to correlate the hops of a single LOOKUP
// across the RPC boundary; the node carries it in each Lookup request's
// TraceID field. The OpenTelemetry spans of
// internal/telemetry/lookuptrace do not use it.
func generateTraceID(nodeID string) string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return fmt.Sprintf("%s-%s", nodeID, hex.EncodeToString(buf[:]))
}

// attachTraceID generates and stores a traceID in the context, derived
// from the given nodeID. Returns the new context and the traceID.
func attachTraceID(ctx context.Context, nodeID domain.ID) (context.Context, string) {
	traceID := generateTraceID(nodeID.String())
	return context.WithValue(ctx, traceKey{}, traceID), traceID
}

// TraceIDFromContext extracts the traceID from the context.
// Returns an empty string if not present.
func TraceIDFromContext(ctx context.Context) string {
	if v := ctx.Value(traceKey{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// EnsureTraceID checks if the context already carries a non-empty traceID.
// If not, it attaches a new one derived from the provided nodeID.
// Returns the updated context (may be the same as input).
func EnsureTraceID(ctx context.Context, nodeID domain.ID) context.Context {
	if id := TraceIDFromContext(ctx); id == "" {
		ctx, _ = attachTraceID(ctx, nodeID)
	}
	return ctx
}

// HopsFromContext returns the current hop counter from the context.
// If not present, it returns -1 to indicate "not set".
func HopsFromContext(ctx context.Context) int {
	val := ctx.Value(hopsKey{})
	if hops, ok := val.(int); ok {
		return hops
	}
	return -1
}

// IncHops increments the hop counter in the context if present.
// If no hop counter is set, the original context is returned unchanged.
func IncHops(ctx context.Context) context.Context {
	val := ctx.Value(hopsKey{})
	if hops, ok := val.(int); ok {
		if hops == -1 {
			return ctx
		}
		return context.WithValue(ctx, hopsKey{}, hops+1)
	}
	return ctx
}

// CheckContext verifies whether the provided context has been canceled
// or its deadline has expired.
//
// This helper is invoked at the beginning of every RPC handler and every
// blocking node operation to ensure the request is still valid before
// doing any work.
func CheckContext(ctx context.Context) error {
	switch err := ctx.Err(); {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request was canceled by client")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request deadline exceeded")
	default:
		return nil
	}
}
