package decoder

import (
	"chat-notify/domain"
	"chat-notify/domain/event"
	"chat-notify/errors"
	"encoding/json"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func chatRow(id int64, members ...domain.UserID) map[string]any {
	return map[string]any{
		"id":         id,
		"ws_id":      1,
		"name":       "general",
		"type":       "private_channel",
		"members":    members,
		"created_at": "2024-05-01T10:00:00.123456+00:00",
	}
}

func chatPayload(t *testing.T, op string, old, updated map[string]any) string {
	body, err := json.Marshal(map[string]any{"op": op, "old": old, "new": updated})
	require.NoError(t, err)
	return string(body)
}

func TestClassify_UnknownChannel(t *testing.T) {
	req := require.New(t)

	_, err := Classify("workspace_updated", `{}`)

	req.ErrorIs(err, errors.ErrUnknownChannel)
}

func TestClassify_MalformedPayload(t *testing.T) {
	req := require.New(t)

	_, err := Classify(ChatUpdatedChannel, `{"op": "INSERT", "new": `)
	req.ErrorIs(err, errors.ErrBadPayload)

	_, err = Classify(ChatMessageCreatedChannel, `not json`)
	req.ErrorIs(err, errors.ErrBadPayload)
}

func TestClassify_ChatInsert(t *testing.T) {
	req := require.New(t)
	payload := chatPayload(t, "INSERT", nil, chatRow(10, 1, 2))

	// When a chat with two members is inserted
	n, err := Classify(ChatUpdatedChannel, payload)

	// Then both members are affected by a NewChat
	req.NoError(err)
	req.ElementsMatch([]domain.UserID{1, 2}, n.Affected())
	req.Len(n.Deliveries, 1)
	evt, ok := n.Deliveries[0].Event.(event.NewChat)
	req.True(ok)
	req.Equal(int64(10), evt.Chat.ID)
	req.Equal(domain.PrivateChannel, evt.Chat.Type)
	req.Equal("general", lo.FromPtr(evt.Chat.Name))
	req.False(evt.Chat.CreatedAt.IsZero())
}

func TestClassify_ChatDelete(t *testing.T) {
	req := require.New(t)
	payload := chatPayload(t, "DELETE", chatRow(10, 4, 5, 6), nil)

	n, err := Classify(ChatUpdatedChannel, payload)

	req.NoError(err)
	req.ElementsMatch([]domain.UserID{4, 5, 6}, n.Affected())
	req.Equal(event.RemoveFromChatName, n.Deliveries[0].Event.Name())
}

func TestClassify_ChatUpdate_SameMembers(t *testing.T) {
	req := require.New(t)
	renamed := chatRow(10, 2, 1, 3)
	renamed["name"] = "renamed"
	payload := chatPayload(t, "UPDATE", chatRow(10, 1, 2, 3), renamed)

	// When only the name changes
	n, err := Classify(ChatUpdatedChannel, payload)

	// Then the update is built but addressed to nobody
	req.NoError(err)
	req.Empty(n.Affected())
	req.Len(n.Deliveries, 1)
	req.Equal(event.AddToChatName, n.Deliveries[0].Event.Name())
	req.Empty(n.Deliveries[0].Users)
}

func TestClassify_ChatUpdate_MemberRemoved(t *testing.T) {
	req := require.New(t)
	payload := chatPayload(t, "UPDATE", chatRow(10, 1, 2, 3), chatRow(10, 1, 2))

	n, err := Classify(ChatUpdatedChannel, payload)

	// Then only the removed member is affected, with a RemoveFromChat
	req.NoError(err)
	req.Equal([]domain.UserID{3}, n.Affected())
	req.Len(n.Deliveries, 1)
	evt, ok := n.Deliveries[0].Event.(event.RemoveFromChat)
	req.True(ok)
	req.Equal([]domain.UserID{1, 2}, evt.Chat.Members)
}

func TestClassify_ChatUpdate_SymmetricDifference(t *testing.T) {
	req := require.New(t)
	payload := chatPayload(t, "UPDATE", chatRow(10, 1, 2), chatRow(10, 2, 3, 4))

	n, err := Classify(ChatUpdatedChannel, payload)

	// Then member 2, present on both sides, is left out
	req.NoError(err)
	req.ElementsMatch([]domain.UserID{1, 3, 4}, n.Affected())
	req.Equal([]string{event.AddToChatName, event.RemoveFromChatName}, n.Names())
	req.Equal(event.AddToChatName, n.Deliveries[0].Event.Name())
	req.ElementsMatch([]domain.UserID{3, 4}, n.Deliveries[0].Users)
	req.Equal(event.RemoveFromChatName, n.Deliveries[1].Event.Name())
	req.Equal([]domain.UserID{1}, n.Deliveries[1].Users)
}

func TestClassify_ChatUpdate_DuplicateMembers(t *testing.T) {
	req := require.New(t)
	payload := chatPayload(t, "UPDATE", chatRow(10, 1, 1, 2), chatRow(10, 1, 2, 2))

	n, err := Classify(ChatUpdatedChannel, payload)

	req.NoError(err)
	req.Empty(n.Affected())
}

func TestClassify_ChatMissingRows(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"insert without new", chatPayload(t, "INSERT", chatRow(1, 1), nil)},
		{"delete without old", chatPayload(t, "DELETE", nil, chatRow(1, 1))},
		{"update without old", chatPayload(t, "UPDATE", nil, chatRow(1, 1))},
		{"unknown op", chatPayload(t, "TRUNCATE", chatRow(1, 1), chatRow(1, 1))},
		{"missing chat type", `{"op":"INSERT","new":{"id":1,"members":[1],"created_at":"2024-05-01T10:00:00Z"}}`},
		{"missing members", `{"op":"INSERT","new":{"id":1,"type":"group","created_at":"2024-05-01T10:00:00Z"}}`},
		{"negative member", `{"op":"INSERT","new":{"id":1,"type":"group","members":[-1],"created_at":"2024-05-01T10:00:00Z"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(ChatUpdatedChannel, tt.payload)
			require.ErrorIs(t, err, errors.ErrBadPayload)
		})
	}
}

func TestClassify_MessageCreated(t *testing.T) {
	req := require.New(t)
	payload := `{
		"message": {"id": 7, "chat_id": 10, "sender_id": 1, "content": "hello",
			"files": ["/files/1/abc.txt"], "created_at": "2024-05-01T10:00:00Z"},
		"members": [1, 2, 2, 3]
	}`

	n, err := Classify(ChatMessageCreatedChannel, payload)

	// Then members are taken as given, without duplicates
	req.NoError(err)
	req.Equal([]domain.UserID{1, 2, 3}, n.Affected())
	evt, ok := n.Deliveries[0].Event.(event.NewMessage)
	req.True(ok)
	req.Equal("hello", evt.Message.Content)
	req.Equal([]string{"/files/1/abc.txt"}, evt.Message.Files)
	req.Equal(domain.UserID(1), evt.Message.SenderID)
}

func TestClassify_MessageCreated_MissingFields(t *testing.T) {
	req := require.New(t)

	_, err := Classify(ChatMessageCreatedChannel, `{"members": [1]}`)
	req.ErrorIs(err, errors.ErrBadPayload)

	_, err = Classify(ChatMessageCreatedChannel,
		`{"message": {"id": 7, "chat_id": 10, "sender_id": 1, "created_at": "2024-05-01T10:00:00Z"}}`)
	req.ErrorIs(err, errors.ErrBadPayload)
}
