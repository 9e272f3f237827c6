//go:generate go run go.uber.org/mock/mockgen -source=notification.go -destination=../mocks/mock_notification_repository.go -package=mocks
package repositories

import (
	"fmt"

	"chat-thread/domain"
	"chat-thread/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type INotificationRepository interface {
	CreateNotification(notification domain.Notification) error
	ListNotifications(userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkNotificationRead(userID string, messageID uuid.UUID) error
}

type NotificationRepository struct {
	db    *badger.DB
	retry Retry
}

func NewNotificationRepository(db *badger.DB, retry Retry) NotificationRepository {
	return NotificationRepository{db: db, retry: retry}
}

// notificationKey sorts a user's notifications by creation time.
func notificationKey(n domain.Notification) []byte {
	return []byte(fmt.Sprintf("notif:%s:%019d:%s", n.UserID, n.CreatedAt.UnixNano(), n.MessageID))
}

// notificationUniqueKey enforces a single notification per user and message.
func notificationUniqueKey(userID string, messageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("notifmsg:%s:%s", userID, messageID))
}

// CreateNotification returns ErrNotificationExists when the user was already
// notified about this message.
func (r NotificationRepository) CreateNotification(notification domain.Notification) error {
	return r.retry.Update(r.db, func(txn *badger.Txn) error {
		unique := notificationUniqueKey(notification.UserID, notification.MessageID)
		if _, err := txn.Get(unique); err == nil {
			return errors.ErrNotificationExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		key := notificationKey(notification)
		if err := txn.Set(key, encodeNotification(notification)); err != nil {
			return err
		}
		return txn.Set(unique, key)
	})
}

// ListNotifications returns the notifications of a user, newest first.
func (r NotificationRepository) ListNotifications(userID string, unreadOnly bool) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("notif:%s:", userID)
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(append([]byte(prefixStr), 0xFF)); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				n, err := decodeNotification(value)
				if err != nil {
					return err
				}
				if !unreadOnly || !n.Read {
					notifications = append(notifications, n)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return notifications, err
}

func (r NotificationRepository) MarkNotificationRead(userID string, messageID uuid.UUID) error {
	return r.retry.Update(r.db, func(txn *badger.Txn) error {
		item, err := txn.Get(notificationUniqueKey(userID, messageID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", errors.ErrNotificationNotFound, messageID)
			}
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err = txn.Get(key)
		if err != nil {
			return err
		}
		var n domain.Notification
		err = item.Value(func(value []byte) error {
			n, err = decodeNotification(value)
			return err
		})
		if err != nil {
			return err
		}
		n.Read = true
		return txn.Set(key, encodeNotification(n))
	})
}
