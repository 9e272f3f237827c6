package domain

import (
	"github.com/google/uuid"
)

type PostMessageCommand struct {
	ConversationID uuid.UUID  `validate:"required"`
	SenderID       string     `validate:"required"`
	ReceiverID     string     `validate:"required,nefield=SenderID"`
	ParentID       *uuid.UUID
	Content        string     `validate:"required"`
}

type EditMessageCommand struct {
	MessageID uuid.UUID `validate:"required"`
	EditorID  string    `validate:"required"`
	Content   string    `validate:"required"`
}

type CreateConversationCommand struct {
	CreatorID    string   `validate:"required"`
	Participants []string `validate:"required,min=1,dive,required"`
}

// RegisterCommand carries a sign up. The password tag is registered by auth.NewValidator.
type RegisterCommand struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,min=12,max=72,complex_password"`
}
