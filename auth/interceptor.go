package auth

import (
	"chat-notify/errors"
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// authenticatedStream carries the verified user id in its context.
type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context { return s.ctx }

// StreamInterceptor authenticates every streaming call from its
// "authorization" metadata and injects the user id for the handler.
func StreamInterceptor(tokens *TokenManager) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := authenticate(ss.Context(), tokens)
		if err != nil {
			return errors.MapToGRPCError(err)
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: ctx})
	}
}

func authenticate(ctx context.Context, tokens *TokenManager) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, errors.ErrUnauthenticated
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, errors.ErrUnauthenticated
	}
	token, err := BearerToken(values[0])
	if err != nil {
		return nil, err
	}
	userID, err := tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return WithUserID(ctx, userID), nil
}
