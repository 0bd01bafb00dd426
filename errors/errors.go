package errors

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	// Decoding
	ErrUnknownChannel = fmt.Errorf("unknown notification channel")
	ErrBadPayload     = fmt.Errorf("bad notification payload")

	// Change source
	ErrSourceLost   = fmt.Errorf("notification source connection lost")
	ErrSourceClosed = fmt.Errorf("notification source closed")

	// Delivery
	ErrSessionClosed  = fmt.Errorf("session already closed")
	ErrEncodeFrame    = fmt.Errorf("frame encoding failed")
	ErrTooManyConnect = fmt.Errorf("too many connection attempts")

	// Auth
	ErrUnauthenticated = fmt.Errorf("missing or malformed credentials")
	ErrInvalidToken    = fmt.Errorf("invalid or expired token")
)

// MapToGRPCError translates sentinel errors into gRPC status errors.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, ErrTooManyConnect):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, ErrSessionClosed), errors.Is(err, ErrSourceClosed):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
