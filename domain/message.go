// Package domain contains core concepts of the chat system.
// This file defines Message snapshots as committed by the chat store.
// Snapshots are immutable once decoded.
package domain

import "time"

// Message is the committed state of one chat message.
type Message struct {
	ID        int64     `json:"id" validate:"required,gt=0"`
	ChatID    int64     `json:"chat_id" validate:"required,gt=0"`
	SenderID  UserID    `json:"sender_id" validate:"required,gt=0"`
	Content   string    `json:"content"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}
