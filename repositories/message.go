//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"

	"chat-thread/domain"
	"chat-thread/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	UpdateMessage(message domain.Message) error
	EditMessage(message domain.Message, history domain.MessageHistory) error
	GetMessage(id uuid.UUID) (domain.Message, error)
	GetConversationMessages(conversationID uuid.UUID) ([]domain.Message, error)
	GetMessages(conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
	GetReplies(parentID uuid.UUID) ([]domain.Message, error)
	GetUnread(receiverID string) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
	retry         Retry
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int, retry Retry) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages, retry: retry}
}

// messageKey is formatted as "msg:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using the UUID as a tie breaker when two messages
//     arrive at the same nanosecond.
func messageKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s", m.ConversationID, m.Timestamp.UnixNano(), m.ID))
}

func messageIDKey(id uuid.UUID) []byte {
	return []byte("msgid:" + id.String())
}

func replyKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("reply:%s:%019d:%s", *m.ParentID, m.Timestamp.UnixNano(), m.ID))
}

func unreadKey(m domain.Message) []byte {
	return []byte(fmt.Sprintf("unread:%s:%019d:%s", m.ReceiverID, m.Timestamp.UnixNano(), m.ID))
}

// StoreMessage persists a message together with its secondary indexes
// (id lookup, children of its parent, unread inbox of its receiver) in one transaction.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := messageKey(message)
	return m.retry.Update(m.db, func(txn *badger.Txn) error {
		if err := txn.Set(key, encodeMessage(message)); err != nil {
			return err
		}
		if err := txn.Set(messageIDKey(message.ID), key); err != nil {
			return err
		}
		if message.ParentID != nil {
			if err := txn.Set(replyKey(message), key); err != nil {
				return err
			}
		}
		if !message.Read {
			return txn.Set(unreadKey(message), key)
		}
		return nil
	})
}

// UpdateMessage rewrites an existing message. The timestamp, conversation and parent
// are part of the keys and must not change.
func (m MessageRepository) UpdateMessage(message domain.Message) error {
	return m.retry.Update(m.db, func(txn *badger.Txn) error {
		key, err := primaryKey(txn, message.ID)
		if err != nil {
			return err
		}
		if err = txn.Set(key, encodeMessage(message)); err != nil {
			return err
		}
		if message.Read {
			return txn.Delete(unreadKey(message))
		}
		return txn.Set(unreadKey(message), key)
	})
}

// EditMessage rewrites a message and records its previous content in the same
// transaction, so a failed edit leaves no history behind.
func (m MessageRepository) EditMessage(message domain.Message, history domain.MessageHistory) error {
	return m.retry.Update(m.db, func(txn *badger.Txn) error {
		key, err := primaryKey(txn, message.ID)
		if err != nil {
			return err
		}
		if err = txn.Set(key, encodeMessage(message)); err != nil {
			return err
		}
		return txn.Set(historyKey(history), encodeHistory(history))
	})
}

func (m MessageRepository) GetMessage(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		key, err := primaryKey(txn, id)
		if err != nil {
			return err
		}
		message, err = getMessage(txn, key)
		return err
	})
	return message, err
}

// GetConversationMessages returns every message of a conversation, oldest first.
func (m MessageRepository) GetConversationMessages(conversationID uuid.UUID) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", conversationID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				message, err := decodeMessage(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

// GetMessages retrieves a page of messages for a conversation using a reverse prefix scan,
// newest first. Thanks to the padded timestamp in the key, messages are naturally sorted by time.
// It stops collecting messages once the configured limitMessages is reached and returns
// the cursor to pass for the next page. The cursor is nil once no older message remains.
func (m MessageRepository) GetMessages(conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	var messages []domain.Message
	var lastKey string
	more := false
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", conversationID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Start past the newest possible timestamp, then walk back in time
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				more = true
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			err := item.Value(func(value []byte) error {
				message, err := decodeMessage(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !more {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// GetReplies returns the direct replies of a message, oldest first.
func (m MessageRepository) GetReplies(parentID uuid.UUID) ([]domain.Message, error) {
	return m.scanIndex(fmt.Sprintf("reply:%s:", parentID), false)
}

// GetUnread returns the unread messages received by a user, newest first.
func (m MessageRepository) GetUnread(receiverID string) ([]domain.Message, error) {
	return m.scanIndex(fmt.Sprintf("unread:%s:", receiverID), true)
}

// scanIndex follows every secondary index entry under prefix to its message.
func (m MessageRepository) scanIndex(prefixStr string, reverse bool) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = reverse
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := prefix
		if reverse {
			seekKey = append([]byte(prefixStr), 0xFF)
		}
		var keys [][]byte
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			key, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			keys = append(keys, key)
		}
		for _, key := range keys {
			message, err := getMessage(txn, key)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	return messages, err
}

func primaryKey(txn *badger.Txn, id uuid.UUID) ([]byte, error) {
	item, err := txn.Get(messageIDKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

func getMessage(txn *badger.Txn, key []byte) (domain.Message, error) {
	item, err := txn.Get(key)
	if err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err = item.Value(func(value []byte) error {
		message, err = decodeMessage(value)
		return err
	})
	return message, err
}
