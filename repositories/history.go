package repositories

import (
	"fmt"

	"chat-thread/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// IHistoryRepository reads edit history. Entries are written by
// MessageRepository.EditMessage, in the transaction that changes the message.
type IHistoryRepository interface {
	GetHistory(messageID uuid.UUID) ([]domain.MessageHistory, error)
}

type HistoryRepository struct {
	db *badger.DB
}

func NewHistoryRepository(db *badger.DB) HistoryRepository {
	return HistoryRepository{db: db}
}

func historyKey(h domain.MessageHistory) []byte {
	return []byte(fmt.Sprintf("hist:%s:%019d", h.MessageID, h.EditedAt.UnixNano()))
}

// GetHistory returns the previous versions of a message, oldest edit first.
func (h HistoryRepository) GetHistory(messageID uuid.UUID) ([]domain.MessageHistory, error) {
	var histories []domain.MessageHistory
	err := h.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("hist:%s:", messageID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				history, err := decodeHistory(value)
				if err != nil {
					return err
				}
				histories = append(histories, history)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return histories, err
}
