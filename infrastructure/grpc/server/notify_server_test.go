package server

import (
	"chat-notify/auth"
	"chat-notify/delivery"
	"chat-notify/domain"
	"chat-notify/domain/event"
	pb "chat-notify/proto/notify"
	"chat-notify/runtime"
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const secret = "a-test-secret-long-enough-for-hs256"

type fixture struct {
	registry *runtime.Registry
	clock    *testclock.Clock
	tokens   *auth.TokenManager
	client   pb.NotifyServiceClient
}

func setup(t *testing.T, limiter *auth.ConnectLimiter) fixture {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry(log, nil, 16)
	clk := testclock.NewClock(time.Now())
	tokens := auth.NewTokenManager(secret)
	streamer := delivery.NewStreamer(log, registry, clk, time.Second, nil)

	lis := bufconn.Listen(1024 * 1024)
	srv := NewGRPCServer(NewNotifyServer(log, streamer, limiter), tokens)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return fixture{registry: registry, clock: clk, tokens: tokens, client: pb.NewNotifyServiceClient(conn)}
}

func (f fixture) subscribe(t *testing.T, ctx context.Context, userID domain.UserID) pb.NotifyService_SubscribeClient {
	t.Helper()
	token, err := f.tokens.Generate(userID, time.Hour)
	require.NoError(t, err)
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	stream, err := f.client.Subscribe(ctx, &pb.SubscribeRequest{})
	require.NoError(t, err)
	return stream
}

func TestNotifyServer_Streams_Events_And_Heartbeats(t *testing.T) {
	req := require.New(t)
	f := setup(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Given user 1 subscribed over gRPC
	stream := f.subscribe(t, ctx, 1)
	req.Eventually(func() bool { return f.registry.Sessions(1) == 1 }, time.Second, 5*time.Millisecond)

	// When a chat is created for that user
	f.registry.Publish(event.NewChat{Chat: domain.Chat{ID: 4, Type: domain.GroupChat, Members: []domain.UserID{1}}},
		[]domain.UserID{1})

	// Then the event frame arrives with the bare snapshot as data
	msg, err := stream.Recv()
	req.NoError(err)
	frame, err := msg.ToFrame()
	req.NoError(err)
	req.Equal(event.NewChatName, frame.Event)
	req.Contains(string(frame.Data), `"id":4`)

	// When the connection stays idle for one interval
	// (the timer armed before the event is still pending, hence two waiters)
	req.NoError(f.clock.WaitAdvance(time.Second, time.Second, 2))

	// Then a keep-alive frame follows
	msg, err = stream.Recv()
	req.NoError(err)
	frame, err = msg.ToFrame()
	req.NoError(err)
	req.True(frame.IsHeartbeat())
	req.Equal(delivery.KeepAlive, frame.Comment)

	// When the client cancels, the session is released
	cancel()
	req.Eventually(func() bool { return f.registry.Users() == 0 }, time.Second, 5*time.Millisecond)
}

func TestNotifyServer_Rejects_Missing_Token(t *testing.T) {
	req := require.New(t)
	f := setup(t, nil)

	stream, err := f.client.Subscribe(context.Background(), &pb.SubscribeRequest{})
	req.NoError(err)
	_, err = stream.Recv()

	req.Equal(codes.Unauthenticated, status.Code(err))
	req.Zero(f.registry.Users())
}

func TestNotifyServer_Rate_Limits_Reconnects(t *testing.T) {
	req := require.New(t)
	f := setup(t, auth.NewConnectLimiter(slog.Default(), rate.Limit(0.001), 1))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Given the first session uses the only token
	f.subscribe(t, ctx, 1)
	req.Eventually(func() bool { return f.registry.Sessions(1) == 1 }, time.Second, 5*time.Millisecond)

	// When the user reconnects right away
	second := f.subscribe(t, ctx, 1)
	_, err := second.Recv()

	// Then the attempt is refused and the first session is untouched
	req.Equal(codes.ResourceExhausted, status.Code(err))
	req.Equal(1, f.registry.Sessions(1))
}

func TestNotifyServer_Shutdown_Ends_Streams(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	registry := runtime.NewRegistry(log, nil, 16)
	tokens := auth.NewTokenManager(secret)
	streamer := delivery.NewStreamer(log, registry, testclock.NewClock(time.Now()), time.Second, nil)
	shutdown, stop := context.WithCancel(context.Background())

	lis := bufconn.Listen(1024 * 1024)
	srv := NewGRPCServer(NewNotifyServer(log, streamer, nil).WithShutdown(shutdown), tokens)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	req.NoError(err)
	defer conn.Close()
	f := fixture{registry: registry, tokens: tokens, client: pb.NewNotifyServiceClient(conn)}

	// Given an open stream
	stream := f.subscribe(t, context.Background(), 3)
	req.Eventually(func() bool { return registry.Sessions(3) == 1 }, time.Second, 5*time.Millisecond)

	// When the service shuts down
	stop()

	// Then the stream ends cleanly and the session is released
	_, err = stream.Recv()
	req.ErrorIs(err, io.EOF)
	req.Zero(registry.Users())
}
