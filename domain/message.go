// Package domain contains core concepts of the chat system.
// This file defines Message records and reply nodes.
// Messages are plain values; storage and transport live elsewhere.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents a direct message inside a conversation.
// ParentID is nil for a root message and points to the replied message otherwise.
type Message struct {
	ID             uuid.UUID // unique identifier
	ConversationID uuid.UUID
	SenderID       string
	ReceiverID     string
	ParentID       *uuid.UUID
	Content        string
	Timestamp      time.Time
	Read           bool
	Edited         bool
}

func (m Message) IsRoot() bool {
	return m.ParentID == nil
}

// ThreadNode is a message with its direct replies, recursively expanded.
type ThreadNode struct {
	Message
	Replies []ThreadNode
}
