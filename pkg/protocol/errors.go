package protocol

import (
	"errors"

	"fakenode/pkg/scanner"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus wraps a handler failure into the status envelope callers see.
// Errors that already carry a status pass through unchanged.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, scanner.ErrInvalidHandle) {
		return status.Error(codes.NotFound, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// IsInvalidHandle reports whether err, possibly after crossing the wire,
// reports an unknown scanner handle.
func IsInvalidHandle(err error) bool {
	if errors.Is(err, scanner.ErrInvalidHandle) {
		return true
	}
	return status.Code(err) == codes.NotFound
}
