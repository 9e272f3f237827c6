package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	MessagePostedType Type = "MESSAGE_POSTED"
	MessageEditedType Type = "MESSAGE_EDITED"
)

// DomainEvent is emitted by the chat service once a change has been persisted.
type DomainEvent interface {
	Type() Type
	ConversationID() uuid.UUID
}

type MessagePosted struct {
	ID           uuid.UUID
	Conversation uuid.UUID
	SenderID     string
	ReceiverID   string
	At           time.Time
}

func (m MessagePosted) Type() Type {
	return MessagePostedType
}

func (m MessagePosted) ConversationID() uuid.UUID {
	return m.Conversation
}

type MessageEdited struct {
	ID           uuid.UUID
	Conversation uuid.UUID
	EditorID     string
	At           time.Time
}

func (m MessageEdited) Type() Type {
	return MessageEditedType
}

func (m MessageEdited) ConversationID() uuid.UUID {
	return m.Conversation
}
