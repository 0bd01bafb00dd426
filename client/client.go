package main

import (
	"chat-notify/contract"
	pb "chat-notify/proto/notify"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"NOTIFY_GRPC_ADDR,default=localhost:6688"`
	Token         string `env:"NOTIFY_TOKEN,required=true"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
	Colours       bool   `env:"COLOURS,default=true"`
}

var eventColours = map[string]color.Color{
	"NewChat":        color.FgGreen,
	"AddToChat":      color.FgCyan,
	"RemoveFromChat": color.FgYellow,
	"NewMessage":     color.FgMagenta,
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run subscribes to the push stream and prints every frame until Ctrl+C
// or the server ends the stream, then prints a summary.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)
	color.Enable = config.Colours

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+config.Token)
	stream, err := pb.NewNotifyServiceClient(conn).Subscribe(ctx, &pb.SubscribeRequest{})
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}
	log.Info(fmt.Sprintf(">>> Connected to %s (Ctrl+C to quit)...", config.ServerAddress))

	stats := newTally()
	defer stats.render(os.Stdout)

	for {
		msg, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		frame, err := msg.ToFrame()
		if err != nil {
			log.Warn("Unreadable frame", "error", err)
			continue
		}
		stats.add(frame)
		if frame.IsHeartbeat() {
			log.Debug("keep-alive")
			continue
		}
		fmt.Println(formatFrame(frame))
	}
}

func formatFrame(frame contract.Frame) string {
	name := frame.Event
	if c, ok := eventColours[name]; ok {
		name = c.Render(name)
	}
	return fmt.Sprintf("[%s] %s %s", time.Now().Format(time.TimeOnly), name, frame.Data)
}

// tally counts received frames by event name.
type tally struct {
	started    time.Time
	events     map[string]int
	heartbeats int
}

func newTally() *tally {
	return &tally{started: time.Now(), events: make(map[string]int)}
}

func (t *tally) add(frame contract.Frame) {
	if frame.IsHeartbeat() {
		t.heartbeats++
		return
	}
	t.events[frame.Event]++
}

func (t *tally) render(w io.Writer) {
	names := make([]string, 0, len(t.events))
	for name := range t.events {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Frame", "Count"})
	for _, name := range names {
		table.Append([]string{name, strconv.Itoa(t.events[name])})
	}
	table.Append([]string{"keep-alive", strconv.Itoa(t.heartbeats)})
	table.SetFooter([]string{"Connected", time.Since(t.started).Round(time.Second).String()})
	table.Render()
}
