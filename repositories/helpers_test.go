package repositories

import (
	"testing"
	"time"

	"chat-thread/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newMessage(conversation uuid.UUID, parent *uuid.UUID, at time.Time, content string) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		ConversationID: conversation,
		SenderID:       "alice",
		ReceiverID:     "bob",
		ParentID:       parent,
		Content:        content,
		Timestamp:      at,
	}
}
