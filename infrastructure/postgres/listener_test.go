package postgres

import (
	"chat-notify/decoder"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"chat-notify/mocks"
	"chat-notify/runtime/workers"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func detachedListener() (*Listener, chan *pq.Notification) {
	notify := make(chan *pq.Notification, 1)
	return &Listener{
		log:      slog.Default(),
		listener: &pq.Listener{Notify: notify},
		lost:     make(chan error, 1),
		failed:   make(chan error, 1),
	}, notify
}

func TestListener_Next_Maps_Notification(t *testing.T) {
	req := require.New(t)
	l, notify := detachedListener()

	// Given a notification pushed by the server
	notify <- &pq.Notification{Channel: decoder.ChatUpdatedChannel, Extra: `{"op":"INSERT"}`}

	// When it is read
	raw, err := l.Next(context.Background())

	// Then channel and payload are passed through untouched
	req.NoError(err)
	req.Equal(event.RawNotification{Channel: decoder.ChatUpdatedChannel, Payload: `{"op":"INSERT"}`}, raw)
}

func TestListener_Disconnect_Is_Source_Lost(t *testing.T) {
	req := require.New(t)
	l, _ := detachedListener()

	// When pq reports the connection dropped
	l.onEvent(pq.ListenerEventDisconnected, fmt.Errorf("EOF"))
	// And a second report arrives before anyone reads
	l.onEvent(pq.ListenerEventDisconnected, fmt.Errorf("EOF"))

	// Then the reader learns the source is lost
	_, err := l.Next(context.Background())
	req.ErrorIs(err, errors.ErrSourceLost)
}

func TestListener_Reconnect_Marker_Is_Source_Lost(t *testing.T) {
	req := require.New(t)
	l, notify := detachedListener()

	notify <- nil

	_, err := l.Next(context.Background())
	req.ErrorIs(err, errors.ErrSourceLost)
}

func TestListener_Closed_Feed(t *testing.T) {
	req := require.New(t)
	l, notify := detachedListener()

	close(notify)

	_, err := l.Next(context.Background())
	req.ErrorIs(err, errors.ErrSourceClosed)
}

func TestListener_Next_Honours_Context(t *testing.T) {
	req := require.New(t)
	l, _ := detachedListener()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := l.Next(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
}

// blackhole accepts TCP connections and never answers, leaving a
// PostgreSQL handshake hanging.
func blackhole(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})
	return fmt.Sprintf("postgres://notify@%s/notify?sslmode=disable", ln.Addr())
}

func openAsync(ctx context.Context, cfg ListenerConfig) <-chan error {
	done := make(chan error, 1)
	go func() {
		l, err := Open(ctx, logs.GetLoggerFromLevel(slog.LevelDebug), cfg, decoder.Channels)
		if l != nil {
			_ = l.Close()
		}
		done <- err
	}()
	return done
}

func TestOpen_Unreachable_Server_Fails(t *testing.T) {
	req := require.New(t)

	// Given nothing listens on the configured port
	cfg := ListenerConfig{URL: "postgres://notify@127.0.0.1:1/notify?sslmode=disable", MinReconnect: 10 * time.Millisecond}

	// When the listener is opened
	done := openAsync(context.Background(), cfg)

	// Then the refused connection is reported instead of retried forever
	select {
	case err := <-done:
		req.ErrorContains(err, "connect")
	case <-time.After(2 * time.Second):
		req.FailNow("Open did not return on an unreachable server")
	}
}

func TestOpen_Honours_Context_While_Connecting(t *testing.T) {
	req := require.New(t)

	// Given a server that accepts connections but never answers
	cfg := ListenerConfig{URL: blackhole(t), MinReconnect: 10 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())

	// When the caller gives up during the handshake
	done := openAsync(ctx, cfg)
	time.AfterFunc(100*time.Millisecond, cancel)

	// Then Open returns the context error
	select {
	case err := <-done:
		req.ErrorIs(err, context.Canceled)
	case <-time.After(2 * time.Second):
		req.FailNow("Open ignored the cancelled context")
	}
}

func TestOpen_Cancelled_Context(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, slog.Default(), ListenerConfig{URL: "postgres://notify@127.0.0.1:1/notify"}, decoder.Channels)

	require.ErrorIs(t, err, context.Canceled)
}

func TestOpener_Fanout_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	// Given the drain worker pointed at a server that never answers
	opener := Opener(log, ListenerConfig{URL: blackhole(t), MinReconnect: 10 * time.Millisecond})
	fanout := workers.NewNotificationFanout(log, opener, publisher, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- fanout.Run(ctx) }()

	// When shutdown starts
	time.AfterFunc(100*time.Millisecond, cancel)

	// Then the worker stops cleanly
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.FailNow("fanout still blocked opening the source")
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS chats (
    id         bigserial PRIMARY KEY,
    ws_id      bigint      NOT NULL DEFAULT 0,
    name       varchar(64),
    type       varchar(32) NOT NULL,
    members    bigint[]    NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS messages (
    id         bigserial PRIMARY KEY,
    chat_id    bigint      NOT NULL REFERENCES chats (id),
    sender_id  bigint      NOT NULL,
    content    text        NOT NULL DEFAULT '',
    files      text[]      NOT NULL DEFAULT '{}',
    created_at timestamptz NOT NULL DEFAULT now()
);`

// Runs against a disposable database named by NOTIFY_TEST_DATABASE_URL.
func TestListener_Receives_Trigger_Notifications(t *testing.T) {
	url := os.Getenv("NOTIFY_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("NOTIFY_TEST_DATABASE_URL not set")
	}
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := sql.Open("postgres", url)
	req.NoError(err)
	defer db.Close()
	_, err = db.Exec(schema)
	req.NoError(err)

	// Given the triggers are installed, twice to prove idempotence
	req.NoError(Migrate(log, url))
	req.NoError(Migrate(log, url))

	l, err := Open(context.Background(), log, ListenerConfig{URL: url}, decoder.Channels)
	req.NoError(err)
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// When a chat is created
	var chatID int64
	req.NoError(db.QueryRow(
		`INSERT INTO chats (name, type, members) VALUES ('dev', 'group', '{1,2}') RETURNING id`,
	).Scan(&chatID))

	// Then a chat_updated notification classifies as NewChat
	raw, err := l.Next(ctx)
	req.NoError(err)
	req.Equal(decoder.ChatUpdatedChannel, raw.Channel)
	n, err := decoder.Classify(raw.Channel, raw.Payload)
	req.NoError(err)
	req.Equal(event.NewChatName, n.Deliveries[0].Event.Name())
	req.ElementsMatch([]any{int64(1), int64(2)}, toAny(n.Affected()))

	// When a message is posted in it
	_, err = db.Exec(`INSERT INTO messages (chat_id, sender_id, content) VALUES ($1, 1, 'hi')`, chatID)
	req.NoError(err)

	// Then the message arrives with the chat members
	raw, err = l.Next(ctx)
	req.NoError(err)
	req.Equal(decoder.ChatMessageCreatedChannel, raw.Channel)
	n, err = decoder.Classify(raw.Channel, raw.Payload)
	req.NoError(err)
	req.Equal(event.NewMessageName, n.Deliveries[0].Event.Name())
}

func toAny[T ~int64](ids []T) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
