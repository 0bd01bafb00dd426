package e2e

import (
	"chat-notify/auth"
	"chat-notify/domain"
	pb "chat-notify/proto/notify"
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	_ "github.com/lib/pq"
)

// BaseSuite talks to a notify server already running against DatabaseURL.
// Every test is skipped when the addresses are not configured.
type BaseSuite struct {
	suite.Suite
	Config Config
	DB     *sql.DB
	Tokens *auth.TokenManager
}

func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.HTTPAddr == "" || s.Config.GRPCAddr == "" || s.Config.DatabaseURL == "" {
		s.T().Skip("NOTIFY_HTTP_ADDR, NOTIFY_GRPC_ADDR and DATABASE_URL are required for e2e tests")
	}
	s.DB, err = sql.Open("postgres", s.Config.DatabaseURL)
	s.Require().NoError(err)
	s.Require().NoError(s.DB.Ping())
	s.Tokens = auth.NewTokenManager(s.Config.JWTSecret)
}

func (s *BaseSuite) TearDownSuite() {
	if s.DB != nil {
		_ = s.DB.Close()
	}
}

// Step prints a colorized header for a test step in logs.
func (s *BaseSuite) Step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

func (s *BaseSuite) Token(userID domain.UserID) string {
	token, err := s.Tokens.Generate(userID, time.Hour)
	s.Require().NoError(err)
	return token
}

// WithStream opens a gRPC push stream for userID and logs the stream status on return.
func (s *BaseSuite) WithStream(name string, userID domain.UserID, fn func(ctx context.Context, stream pb.NotifyService_SubscribeClient)) {
	s.Step(s.T(), name)
	conn, err := grpc.NewClient(s.Config.GRPCAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStreamInterceptor(func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn,
			method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
			start := time.Now()
			cs, err := streamer(ctx, desc, cc, method, opts...)
			s.T().Logf("GRPC %s [%s] opened in %v", method, status.Code(err), time.Since(start))
			return cs, err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.GRPCAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+s.Token(userID))
	stream, err := pb.NewNotifyServiceClient(conn).Subscribe(ctx, &pb.SubscribeRequest{})
	s.Require().NoError(err)
	fn(ctx, stream)
}
