// Package postgres reads committed chat changes from PostgreSQL
// LISTEN/NOTIFY and installs the triggers that publish them.
package postgres

import (
	"chat-notify/contract"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	DefaultMinReconnect = 10 * time.Second
	DefaultMaxReconnect = time.Minute
)

type ListenerConfig struct {
	URL          string
	MinReconnect time.Duration
	MaxReconnect time.Duration
}

// Listener is a contract.NotificationSource over a dedicated pq.Listener
// connection.
//
// Notifications raised while the connection is down are lost, so a
// disconnect surfaces as ErrSourceLost instead of being papered over by
// pq's silent reconnect.
type Listener struct {
	log      *slog.Logger
	listener *pq.Listener
	lost     chan error
	failed   chan error
}

// Open connects and listens on every channel. The first failed connection
// attempt is returned as an error, and ctx bounds the whole handshake.
func Open(ctx context.Context, log *slog.Logger, cfg ListenerConfig, channels []string) (*Listener, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.MinReconnect <= 0 {
		cfg.MinReconnect = DefaultMinReconnect
	}
	if cfg.MaxReconnect < cfg.MinReconnect {
		cfg.MaxReconnect = max(DefaultMaxReconnect, cfg.MinReconnect)
	}

	l := &Listener{log: log, lost: make(chan error, 1), failed: make(chan error, 1)}
	l.listener = pq.NewListener(cfg.URL, cfg.MinReconnect, cfg.MaxReconnect, l.onEvent)

	// Listen blocks until pq holds a connection; Close releases it.
	ready := make(chan error, 1)
	go func() { ready <- l.listen(channels) }()

	select {
	case err := <-ready:
		if err != nil {
			_ = l.listener.Close()
			return nil, err
		}
	case err := <-l.failed:
		_ = l.listener.Close()
		<-ready
		return nil, fmt.Errorf("connect: %w", err)
	case <-ctx.Done():
		_ = l.listener.Close()
		<-ready
		return nil, ctx.Err()
	}
	log.Info("Listening on PostgreSQL", "channels", channels)
	return l, nil
}

func (l *Listener) listen(channels []string) error {
	for _, channel := range channels {
		if err := l.listener.Listen(channel); err != nil {
			return fmt.Errorf("listen %s: %w", channel, err)
		}
	}
	if err := l.listener.Ping(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Opener adapts Open to a contract.SourceOpener.
func Opener(log *slog.Logger, cfg ListenerConfig) contract.SourceOpener {
	return func(ctx context.Context, channels []string) (contract.NotificationSource, error) {
		return Open(ctx, log, cfg, channels)
	}
}

func (l *Listener) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		l.log.Debug("Listener connected")
	case pq.ListenerEventDisconnected:
		l.log.Warn("Listener disconnected", "error", err)
		select {
		case l.lost <- err:
		default:
		}
	case pq.ListenerEventReconnected:
		l.log.Info("Listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.log.Warn("Listener connection attempt failed", "error", err)
		select {
		case l.failed <- err:
		default:
		}
	}
}

func (l *Listener) Next(ctx context.Context) (event.RawNotification, error) {
	select {
	case <-ctx.Done():
		return event.RawNotification{}, ctx.Err()
	case err := <-l.lost:
		return event.RawNotification{}, fmt.Errorf("%w: %v", errors.ErrSourceLost, err)
	case n, ok := <-l.listener.Notify:
		if !ok {
			return event.RawNotification{}, errors.ErrSourceClosed
		}
		if n == nil {
			// pq signals a completed reconnect with a nil notification.
			return event.RawNotification{}, errors.ErrSourceLost
		}
		return event.RawNotification{Channel: n.Channel, Payload: n.Extra}, nil
	}
}

func (l *Listener) Close() error {
	return l.listener.Close()
}
