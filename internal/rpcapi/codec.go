package rpcapi

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName deliberately matches the content-subtype gRPC-Go assumes when
// none is configured ("proto"), so that this codec takes over as the
// default for every call without requiring callers to set a CallContentSubtype
// option on each invocation.
const codecName = "proto"

// jsonCodec implements google.golang.org/grpc/encoding.Codec over
// encoding/json. It exists because this module has no protoc toolchain
// and no generated protobuf marshal code; registering it under the name
// "proto" overrides gRPC's built-in codec globally for this process.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpcapi: marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpcapi: unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
