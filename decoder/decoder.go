// Package decoder turns raw change notifications into domain events and
// computes who must receive them.
package decoder

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const (
	ChatUpdatedChannel        = "chat_updated"
	ChatMessageCreatedChannel = "chat_message_created"
)

// Channels lists every channel the decoder understands, in LISTEN order.
var Channels = []string{ChatUpdatedChannel, ChatMessageCreatedChannel}

const (
	opInsert = "INSERT"
	opUpdate = "UPDATE"
	opDelete = "DELETE"
)

var validate = validator.New()

type chatUpdated struct {
	Op  string       `json:"op" validate:"required,oneof=INSERT UPDATE DELETE"`
	Old *domain.Chat `json:"old"`
	New *domain.Chat `json:"new"`
}

type chatMessageCreated struct {
	Message *domain.Message `json:"message" validate:"required"`
	Members []domain.UserID `json:"members" validate:"required,dive,gt=0"`
}

// Classify decodes the payload published on channel.
// It returns ErrUnknownChannel for foreign channels and ErrBadPayload for
// payloads that are not valid JSON or miss required fields.
func Classify(channel, payload string) (event.Notification, error) {
	switch channel {
	case ChatUpdatedChannel:
		return classifyChatUpdated(payload)
	case ChatMessageCreatedChannel:
		return classifyMessageCreated(payload)
	default:
		return event.Notification{}, fmt.Errorf("%w: %q", errors.ErrUnknownChannel, channel)
	}
}

func classifyChatUpdated(payload string) (event.Notification, error) {
	var data chatUpdated
	if err := decode(payload, &data); err != nil {
		return event.Notification{}, err
	}
	notification := event.Notification{Channel: ChatUpdatedChannel}

	switch data.Op {
	case opInsert:
		if data.New == nil {
			return event.Notification{}, fmt.Errorf("%w: %s without new row", errors.ErrBadPayload, data.Op)
		}
		chat := normalize(*data.New)
		notification.Deliveries = []event.Delivery{
			{Event: event.NewChat{Chat: chat}, Users: chat.Members},
		}
	case opDelete:
		if data.Old == nil {
			return event.Notification{}, fmt.Errorf("%w: %s without old row", errors.ErrBadPayload, data.Op)
		}
		chat := normalize(*data.Old)
		notification.Deliveries = []event.Delivery{
			{Event: event.RemoveFromChat{Chat: chat}, Users: chat.Members},
		}
	case opUpdate:
		if data.Old == nil || data.New == nil {
			return event.Notification{}, fmt.Errorf("%w: %s needs old and new rows", errors.ErrBadPayload, data.Op)
		}
		notification.Deliveries = diffMembers(normalize(*data.Old), normalize(*data.New))
	}
	return notification, nil
}

// diffMembers splits a membership update by direction. Members present on
// both sides receive nothing. When the member sets are equal the update is
// still reported, addressed to nobody.
func diffMembers(old, updated domain.Chat) []event.Delivery {
	removed, added := lo.Difference(old.Members, updated.Members)
	if len(removed) == 0 && len(added) == 0 {
		return []event.Delivery{{Event: event.AddToChat{Chat: updated}}}
	}

	var deliveries []event.Delivery
	if len(added) > 0 {
		deliveries = append(deliveries, event.Delivery{Event: event.AddToChat{Chat: updated}, Users: added})
	}
	if len(removed) > 0 {
		deliveries = append(deliveries, event.Delivery{Event: event.RemoveFromChat{Chat: updated}, Users: removed})
	}
	return deliveries
}

func classifyMessageCreated(payload string) (event.Notification, error) {
	var data chatMessageCreated
	if err := decode(payload, &data); err != nil {
		return event.Notification{}, err
	}
	return event.Notification{
		Channel: ChatMessageCreatedChannel,
		Deliveries: []event.Delivery{
			{Event: event.NewMessage{Message: *data.Message}, Users: lo.Uniq(data.Members)},
		},
	}, nil
}

func decode(payload string, target any) error {
	if err := json.Unmarshal([]byte(payload), target); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrBadPayload, err)
	}
	if err := validate.Struct(target); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrBadPayload, err)
	}
	return nil
}

func normalize(chat domain.Chat) domain.Chat {
	chat.Members = chat.MemberSet()
	return chat
}
