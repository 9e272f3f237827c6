package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification is created once per (user, message) when a user receives a message.
type Notification struct {
	UserID    string
	MessageID uuid.UUID
	Read      bool
	CreatedAt time.Time
}

// MessageHistory keeps the content a message had before an edit.
type MessageHistory struct {
	MessageID  uuid.UUID
	OldContent string
	EditedAt   time.Time
	EditedBy   string
}
