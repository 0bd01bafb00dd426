package domain

import (
	"time"

	"github.com/samber/lo"
)

type ChatType string

const (
	SingleChat     ChatType = "single"
	GroupChat      ChatType = "group"
	PrivateChannel ChatType = "private_channel"
	PublicChannel  ChatType = "public_channel"
)

// Chat is the committed state of a chat row.
// Members keeps the order in which the store lists them.
type Chat struct {
	ID        int64     `json:"id" validate:"required,gt=0"`
	WsID      int64     `json:"ws_id" validate:"gte=0"`
	Name      *string   `json:"name"`
	Type      ChatType  `json:"type" validate:"required,oneof=single group private_channel public_channel"`
	Members   []UserID  `json:"members" validate:"required,dive,gt=0"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}

// MemberSet returns the members without duplicates, first occurrence wins.
func (c Chat) MemberSet() []UserID {
	return lo.Uniq(c.Members)
}

