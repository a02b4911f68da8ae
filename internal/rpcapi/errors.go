package rpcapi

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func errUnimplemented(method string) error {
	return status.Error(codes.Unimplemented, fmt.Sprintf("rpcapi: method %s not implemented", method))
}
