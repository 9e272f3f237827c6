package repositories

import (
	"log/slog"
	"testing"
	"time"

	"chat-thread/domain"
	"chat-thread/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_History_Oldest_Edit_First(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	messages := NewMessageRepository(db, slog.Default(), nil, DefaultRetry)
	repository := NewHistoryRepository(db)
	at := time.Now().UTC()

	message := newMessage(uuid.New(), nil, at, "v1")
	other := newMessage(uuid.New(), nil, at, "x")
	req.NoError(messages.StoreMessage(message))
	req.NoError(messages.StoreMessage(other))

	// Given two edits of one message and one of another
	first := domain.MessageHistory{MessageID: message.ID, OldContent: "v1", EditedAt: at.Add(time.Minute), EditedBy: "alice"}
	second := domain.MessageHistory{MessageID: message.ID, OldContent: "v2", EditedAt: at.Add(2 * time.Minute), EditedBy: "alice"}
	message.Content, message.Edited = "v2", true
	req.NoError(messages.EditMessage(message, first))
	message.Content = "v3"
	req.NoError(messages.EditMessage(message, second))
	req.NoError(messages.EditMessage(other, domain.MessageHistory{MessageID: other.ID, OldContent: "x", EditedAt: at, EditedBy: "alice"}))

	histories, err := repository.GetHistory(message.ID)

	// Then only that message's edits come back, oldest first
	req.NoError(err)
	req.Equal([]domain.MessageHistory{first, second}, histories)
	stored, err := messages.GetMessage(message.ID)
	req.NoError(err)
	req.Equal("v3", stored.Content)
	req.True(stored.Edited)
}

func Test_Failed_Edit_Leaves_No_History(t *testing.T) {
	req := require.New(t)
	db := openDB(t)
	messages := NewMessageRepository(db, slog.Default(), nil, DefaultRetry)
	ghost := newMessage(uuid.New(), nil, time.Now().UTC(), "never stored")

	// When editing a message that does not exist
	err := messages.EditMessage(ghost, domain.MessageHistory{
		MessageID: ghost.ID, OldContent: "before", EditedAt: time.Now().UTC(), EditedBy: "alice",
	})

	// Then the edit fails as a whole
	req.ErrorIs(err, errors.ErrMessageNotFound)
	histories, err := NewHistoryRepository(db).GetHistory(ghost.ID)
	req.NoError(err)
	req.Empty(histories)
}
