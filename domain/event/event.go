package event

import (
	"chat-notify/domain"

	"github.com/samber/lo"
)

// Variant names, also used as the event field of outbound frames.
const (
	NewChatName        = "NewChat"
	AddToChatName      = "AddToChat"
	RemoveFromChatName = "RemoveFromChat"
	NewMessageName     = "NewMessage"
)

// DomainEvent is an immutable description of a committed change.
// A single instance is shared read-only by every session it is delivered to.
type DomainEvent interface {
	// Name is the variant name.
	Name() string
	// Snapshot is the aggregate serialized as the frame body.
	Snapshot() any
}

type NewChat struct {
	Chat domain.Chat
}

func (e NewChat) Name() string  { return NewChatName }
func (e NewChat) Snapshot() any { return e.Chat }

type AddToChat struct {
	Chat domain.Chat
}

func (e AddToChat) Name() string  { return AddToChatName }
func (e AddToChat) Snapshot() any { return e.Chat }

type RemoveFromChat struct {
	Chat domain.Chat
}

func (e RemoveFromChat) Name() string  { return RemoveFromChatName }
func (e RemoveFromChat) Snapshot() any { return e.Chat }

type NewMessage struct {
	Message domain.Message
}

func (e NewMessage) Name() string  { return NewMessageName }
func (e NewMessage) Snapshot() any { return e.Message }

// RawNotification is one (channel, payload) pair read from the change source.
type RawNotification struct {
	Channel string
	Payload string
}

// Delivery pairs an event with the users that must receive it.
type Delivery struct {
	Event DomainEvent
	Users []domain.UserID
}

// Notification is the classified form of a RawNotification.
// Most notifications carry one delivery; a membership update carries one
// per direction of the change.
type Notification struct {
	Channel    string
	Deliveries []Delivery
}

// Affected is the union of all recipients.
func (n Notification) Affected() []domain.UserID {
	return lo.Uniq(lo.FlatMap(n.Deliveries, func(d Delivery, _ int) []domain.UserID {
		return d.Users
	}))
}

// Names lists the event names in delivery order.
func (n Notification) Names() []string {
	return lo.Map(n.Deliveries, func(d Delivery, _ int) string {
		return d.Event.Name()
	})
}
