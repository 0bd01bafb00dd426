//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// NotificationSource is an open connection to the store's change feed.
// Next blocks until a notification arrives, the context is done or the
// connection is lost.
type NotificationSource interface {
	Next(ctx context.Context) (event.RawNotification, error)
	Close() error
}

// SourceOpener opens a fresh NotificationSource listening on channels.
type SourceOpener func(ctx context.Context, channels []string) (NotificationSource, error)

// Publisher delivers one event to the live sessions of users.
type Publisher interface {
	Publish(evt event.DomainEvent, users []domain.UserID)
}

// Subscription is one session's hold on its user's broadcast channel.
// Close releases the hold and is safe to call more than once.
type Subscription interface {
	UserID() domain.UserID
	Events() <-chan event.DomainEvent
	Lagged() uint64
	Close()
}

type IRegistry interface {
	Publisher
	Subscribe(userID domain.UserID) Subscription
	Sessions(userID domain.UserID) int
	Users() int
}

// Frame is one unit of the push protocol.
// Heartbeats have an empty Event and a non-empty Comment.
type Frame struct {
	Event   string
	Data    []byte
	Comment string
}

func (f Frame) IsHeartbeat() bool {
	return f.Event == "" && f.Comment != ""
}

// FrameWriter is the transport side of a push stream.
// WriteFrame must flush the frame to the client before returning.
type FrameWriter interface {
	WriteFrame(frame Frame) error
}
