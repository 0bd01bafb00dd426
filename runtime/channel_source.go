package runtime

import (
	"chat-notify/contract"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"context"
	"sync"
)

// ChannelSource is an in-memory contract.NotificationSource fed by a Go
// channel. Closing the feed channel reads as a lost connection.
type ChannelSource struct {
	notifications <-chan event.RawNotification
	closed        chan struct{}
	once          sync.Once
}

func NewChannelSource(notifications <-chan event.RawNotification) *ChannelSource {
	return &ChannelSource{notifications: notifications, closed: make(chan struct{})}
}

func (s *ChannelSource) Next(ctx context.Context) (event.RawNotification, error) {
	select {
	case <-ctx.Done():
		return event.RawNotification{}, ctx.Err()
	case <-s.closed:
		return event.RawNotification{}, errors.ErrSourceClosed
	case n, ok := <-s.notifications:
		if !ok {
			return event.RawNotification{}, errors.ErrSourceLost
		}
		return n, nil
	}
}

func (s *ChannelSource) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

// ChannelOpener hands out sources reading from the same feed channel,
// so a restarted consumer resumes where the previous one stopped.
func ChannelOpener(notifications <-chan event.RawNotification) contract.SourceOpener {
	return func(_ context.Context, _ []string) (contract.NotificationSource, error) {
		return NewChannelSource(notifications), nil
	}
}
