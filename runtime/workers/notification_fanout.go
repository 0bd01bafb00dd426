package workers

import (
	"chat-notify/contract"
	"chat-notify/decoder"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"chat-notify/observability"
	"context"
	"fmt"
	"log/slog"
)

// NotificationFanout drains the store's change feed.
//
// Each raw notification is classified into domain events and every event is
// published to the users it concerns. A notification that cannot be
// classified is logged and skipped; the drain goes on. Losing the source ends
// Run with an error so the supervisor can open a fresh one.
type NotificationFanout struct {
	log       *slog.Logger
	open      contract.SourceOpener
	publisher contract.Publisher
	metrics   *observability.Metrics
}

func NewNotificationFanout(log *slog.Logger, open contract.SourceOpener,
	publisher contract.Publisher, metrics *observability.Metrics) *NotificationFanout {
	return &NotificationFanout{log: log, open: open, publisher: publisher, metrics: metrics}
}

func (w *NotificationFanout) Run(ctx context.Context) error {
	source, err := w.open(ctx, decoder.Channels)
	if err != nil {
		if ctx.Err() != nil {
			w.log.Debug("Context done while opening notification source")
			return nil
		}
		return fmt.Errorf("%w: %w", errors.ErrSourceLost, err)
	}
	defer func() {
		if err := source.Close(); err != nil {
			w.log.Warn("Closing notification source", "error", err)
		}
	}()
	w.log.Info("Listening for change notifications", "channels", decoder.Channels)

	for {
		raw, err := source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.log.Debug("Context done, stopping notification drain")
				return nil
			}
			return err
		}
		w.Handle(raw)
	}
}

// Handle classifies one notification and publishes its deliveries in order.
func (w *NotificationFanout) Handle(raw event.RawNotification) {
	notification, err := decoder.Classify(raw.Channel, raw.Payload)
	if err != nil {
		w.metrics.IncNotification(raw.Channel, observability.OutcomeRejected)
		w.log.Warn("Discarding notification", "channel", raw.Channel, "error", err)
		return
	}
	w.metrics.IncNotification(raw.Channel, observability.OutcomeDelivered)
	w.log.Debug("Notification classified",
		"channel", raw.Channel,
		"events", notification.Names(),
		"affected", len(notification.Affected()))

	for _, delivery := range notification.Deliveries {
		if len(delivery.Users) == 0 {
			continue
		}
		w.publisher.Publish(delivery.Event, delivery.Users)
	}
}
