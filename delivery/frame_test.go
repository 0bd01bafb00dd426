package delivery

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type unencodable struct{}

func (unencodable) Name() string  { return "Broken" }
func (unencodable) Snapshot() any { return make(chan int) }

func TestEncodeEvent_Bare_Snapshot_As_Data(t *testing.T) {
	req := require.New(t)
	name := "dev"
	evt := event.AddToChat{Chat: domain.Chat{
		ID: 9, WsID: 1, Name: &name, Type: domain.GroupChat,
		Members:   []domain.UserID{1, 2},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	frame, err := EncodeEvent(evt)

	req.NoError(err)
	req.Equal(event.AddToChatName, frame.Event)
	req.False(frame.IsHeartbeat())
	req.JSONEq(`{"id":9,"ws_id":1,"name":"dev","type":"group","members":[1,2],"created_at":"2024-01-01T00:00:00Z"}`,
		string(frame.Data))
}

func TestEncodeEvent_Message(t *testing.T) {
	req := require.New(t)
	evt := event.NewMessage{Message: domain.Message{
		ID: 3, ChatID: 9, SenderID: 1, Content: "hi", Files: []string{},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	frame, err := EncodeEvent(evt)

	req.NoError(err)
	req.Equal(event.NewMessageName, frame.Event)
	req.JSONEq(`{"id":3,"chat_id":9,"sender_id":1,"content":"hi","files":[],"created_at":"2024-01-01T00:00:00Z"}`,
		string(frame.Data))
}

func TestEncodeEvent_Failure(t *testing.T) {
	req := require.New(t)

	_, err := EncodeEvent(unencodable{})

	req.ErrorIs(err, errors.ErrEncodeFrame)
}

func TestHeartbeat(t *testing.T) {
	req := require.New(t)
	frame := Heartbeat()
	req.True(frame.IsHeartbeat())
	req.Equal(KeepAlive, frame.Comment)
	req.Empty(frame.Data)
}
