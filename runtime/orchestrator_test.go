package runtime_test

import (
	"chat-notify/contract"
	"chat-notify/decoder"
	"chat-notify/domain/event"
	"chat-notify/runtime"
	"chat-notify/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const newChatPayload = `{"op":"INSERT","old":null,"new":{"id":%d,"ws_id":0,"name":null,"type":"group","members":[1,2],"created_at":"2024-01-01T00:00:00Z"}}`

func insert(id int) event.RawNotification {
	return event.RawNotification{
		Channel: decoder.ChatUpdatedChannel,
		Payload: fmt.Sprintf(newChatPayload, id),
	}
}

func nextEvent(t *testing.T, sub contract.Subscription) event.DomainEvent {
	t.Helper()
	select {
	case evt := <-sub.Events():
		return evt
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no event delivered")
		return nil
	}
}

func TestOrchestrator_Delivers_And_Survives_Source_Loss(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry(log, nil, 16)

	// Given two successive connections to the change feed
	feeds := []chan event.RawNotification{
		make(chan event.RawNotification, 1),
		make(chan event.RawNotification, 1),
	}
	var opened atomic.Int32
	opener := func(ctx context.Context, channels []string) (contract.NotificationSource, error) {
		i := opened.Add(1) - 1
		if int(i) >= len(feeds) {
			i = int32(len(feeds) - 1)
		}
		return runtime.NewChannelSource(feeds[i]), nil
	}

	supervisor := workers.NewSupervisor(log, nil, 10*time.Millisecond)
	orchestrator := runtime.NewOrchestrator(log, supervisor, registry, opener, nil, time.Hour)

	// And user 1 online
	sub := registry.Subscribe(1)
	defer sub.Close()

	done := make(chan error, 1)
	go func() { done <- orchestrator.Start(context.Background()) }()

	// When a chat including user 1 is committed
	feeds[0] <- insert(10)

	// Then user 1 is told
	req.Equal(int64(10), nextEvent(t, sub).(event.NewChat).Chat.ID)

	// When the first connection drops
	close(feeds[0])

	// Then the drain is restarted on a fresh connection and delivery resumes
	feeds[1] <- insert(11)
	req.Equal(int64(11), nextEvent(t, sub).(event.NewChat).Chat.ID)
	req.GreaterOrEqual(opened.Load(), int32(2))

	// When the orchestrator is stopped, Start returns
	orchestrator.Stop()
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(2 * time.Second):
		req.FailNow("orchestrator did not stop")
	}
	req.Error(orchestrator.Start(context.Background()))
}
