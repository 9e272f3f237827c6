package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	ID           uuid.UUID
	Participants []string
	CreatedAt    time.Time
}

func (c Conversation) HasParticipant(userID string) bool {
	return slices.Contains(c.Participants, userID)
}
