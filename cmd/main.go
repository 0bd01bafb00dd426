package main

import (
	"chat-notify/auth"
	"chat-notify/delivery"
	grpcserver "chat-notify/infrastructure/grpc/server"
	httpserver "chat-notify/infrastructure/http/server"
	"chat-notify/infrastructure/postgres"
	"chat-notify/observability"
	"chat-notify/runtime"
	"chat-notify/runtime/workers"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/juju/clock"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Returning instead of exiting lets every deferred cleanup run.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	metrics := observability.NewMetrics()

	// 2. Database triggers
	if config.RunMigrations {
		if err := postgres.Migrate(log, config.DatabaseURL); err != nil {
			return err
		}
	}

	// 3. Setup Supervision & Orchestration
	sup := workers.NewSupervisor(log, metrics, config.RestartInterval)
	registry := runtime.NewRegistry(log, metrics, config.ChannelCapacity)
	opener := postgres.Opener(log, postgres.ListenerConfig{
		URL:          config.DatabaseURL,
		MinReconnect: config.ListenerMinReconnect,
		MaxReconnect: config.ListenerMaxReconnect,
	})
	orchestrator := runtime.NewOrchestrator(log, sup, registry, opener, metrics, config.StatsInterval)

	limiter := auth.NewConnectLimiter(log, rate.Limit(config.ConnectRate), config.ConnectBurst)
	orchestrator.Add(limiter)

	tokens := auth.NewTokenManager(config.JWTSecret)
	streamer := delivery.NewStreamer(log, registry, clock.WallClock, config.HeartbeatInterval, metrics)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the Engine
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := orchestrator.Start(ctx); err != nil {
			log.Error("Orchestrator failed", "error", err)
		}
	}()

	// 6. HTTP Server Setup (SSE, WebSocket, health, metrics)
	gin.SetMode(gin.ReleaseMode)
	httpAddress := net.JoinHostPort(config.Host, fmt.Sprint(config.HTTPPort))
	httpSrv := &http.Server{
		Addr: httpAddress,
		Handler: httpserver.NewRouter(httpserver.Config{
			Log:       log,
			AccessLog: os.Stdout,
			Streamer:  streamer,
			Tokens:    tokens,
			Limiter:   limiter,
			Metrics:   metrics,
			Users:     registry,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		// Open push streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// 7. gRPC Server Setup
	grpcAddress := net.JoinHostPort(config.Host, fmt.Sprint(config.GRPCPort))
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}
	notifyServer := grpcserver.NewNotifyServer(log, streamer, limiter).WithShutdown(ctx)
	grpcSrv := grpcserver.NewGRPCServer(notifyServer, tokens)

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 2)
	go func() {
		log.Info("Starting HTTP server", "address", httpAddress, "at", time.Now().UTC())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()
	go func() {
		log.Info("Starting gRPC server", "address", grpcAddress, "at", time.Now().UTC())
		if err := grpcSrv.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case runErr = <-errChan:
		stop()
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	stopped := make(chan struct{})
	go func() {
		grpcSrv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcSrv.Stop()
	}
	orchestrator.Stop()
	<-engineDone
	log.Info("Program stopped cleanly", "online_users", registry.Users())

	return runErr
}
