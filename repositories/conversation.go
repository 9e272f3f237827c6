//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"fmt"

	"chat-thread/domain"
	"chat-thread/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IConversationRepository interface {
	CreateConversation(conversation domain.Conversation) error
	GetConversation(id uuid.UUID) (domain.Conversation, error)
	IsParticipant(id uuid.UUID, userID string) (bool, error)
}

type ConversationRepository struct {
	db    *badger.DB
	retry Retry
}

func NewConversationRepository(db *badger.DB, retry Retry) ConversationRepository {
	return ConversationRepository{db: db, retry: retry}
}

func conversationKey(id uuid.UUID) []byte {
	return []byte("conv:" + id.String())
}

func (c ConversationRepository) CreateConversation(conversation domain.Conversation) error {
	return c.retry.Update(c.db, func(txn *badger.Txn) error {
		return txn.Set(conversationKey(conversation.ID), encodeConversation(conversation))
	})
}

func (c ConversationRepository) GetConversation(id uuid.UUID) (domain.Conversation, error) {
	var conversation domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", errors.ErrConversationNotFound, id)
			}
			return err
		}
		return item.Value(func(value []byte) error {
			conversation, err = decodeConversation(value)
			return err
		})
	})
	return conversation, err
}

func (c ConversationRepository) IsParticipant(id uuid.UUID, userID string) (bool, error) {
	conversation, err := c.GetConversation(id)
	if err != nil {
		return false, err
	}
	return conversation.HasParticipant(userID), nil
}
