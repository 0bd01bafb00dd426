package server

import (
	"chat-notify/auth"
	"chat-notify/contract"
	"chat-notify/delivery"
	"chat-notify/errors"
	pb "chat-notify/proto/notify"
	"context"
	"log/slog"

	"google.golang.org/grpc"
)

const Transport = "grpc"

// NotifyServer exposes the push stream over gRPC server-streaming.
type NotifyServer struct {
	pb.UnimplementedNotifyServiceServer
	log      *slog.Logger
	streamer *delivery.Streamer
	limiter  *auth.ConnectLimiter
	shutdown context.Context
}

func NewNotifyServer(log *slog.Logger, streamer *delivery.Streamer, limiter *auth.ConnectLimiter) *NotifyServer {
	return &NotifyServer{log: log, streamer: streamer, limiter: limiter, shutdown: context.Background()}
}

// WithShutdown ends every open stream once ctx is done, so GracefulStop
// does not wait on sessions that never finish on their own.
func (s *NotifyServer) WithShutdown(ctx context.Context) *NotifyServer {
	s.shutdown = ctx
	return s
}

// NewGRPCServer builds a grpc.Server authenticating every stream.
func NewGRPCServer(notify *NotifyServer, tokens *auth.TokenManager, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainStreamInterceptor(auth.StreamInterceptor(tokens)))
	s := grpc.NewServer(opts...)
	pb.RegisterNotifyServiceServer(s, notify)
	return s
}

// Subscribe blocks until the client disconnects or a frame cannot be sent.
// The session is released on every path.
func (s *NotifyServer) Subscribe(_ *pb.SubscribeRequest, stream pb.NotifyService_SubscribeServer) error {
	userID, ok := auth.UserIDFromContext(stream.Context())
	if !ok {
		return errors.MapToGRPCError(errors.ErrUnauthenticated)
	}
	if s.limiter != nil && !s.limiter.Allow(userID) {
		s.log.Warn("Too many connection attempts", "user_id", userID)
		return errors.MapToGRPCError(errors.ErrTooManyConnect)
	}

	ctx, cancel := context.WithCancel(stream.Context())
	defer cancel()
	stop := context.AfterFunc(s.shutdown, cancel)
	defer stop()

	err := s.streamer.Serve(ctx, Transport, userID, &streamWriter{stream: stream})
	if err != nil {
		s.log.Warn("Stream ended", "user_id", userID, "error", err)
		return errors.MapToGRPCError(err)
	}
	return nil
}

type streamWriter struct {
	stream pb.NotifyService_SubscribeServer
}

func (w *streamWriter) WriteFrame(frame contract.Frame) error {
	return w.stream.Send(pb.FromFrame(frame))
}
