package workers

import (
	"context"
	"log/slog"
	"time"

	"chat-thread/domain"
	"chat-thread/domain/event"
	"chat-thread/errors"
	"chat-thread/repositories"
)

// Notifier turns posted messages into notifications for their receiver.
// Events are queued by Publish and consumed by Run under the supervisor.
// An event whose handling failed is kept and handled first by the next Run.
type Notifier struct {
	events  chan event.DomainEvent
	pending event.DomainEvent
	repo    repositories.INotificationRepository
	log     *slog.Logger
}

func NewNotifier(repo repositories.INotificationRepository, log *slog.Logger, bufferSize int) *Notifier {
	return &Notifier{
		events: make(chan event.DomainEvent, bufferSize),
		repo:   repo,
		log:    log,
	}
}

// Publish queues e, blocking while the buffer is full unless ctx ends first.
func (n *Notifier) Publish(ctx context.Context, e event.DomainEvent) error {
	select {
	case n.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events exposes the queue so that its length can be sampled.
func (n *Notifier) Events() chan event.DomainEvent {
	return n.events
}

// Run must not be called concurrently: the supervisor restarts it on the same Notifier.
func (n *Notifier) Run(ctx context.Context) error {
	if n.pending != nil {
		if err := n.handle(n.pending); err != nil {
			return err
		}
		n.pending = nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-n.events:
			if err := n.handle(e); err != nil {
				n.pending = e
				return err
			}
		}
	}
}

func (n *Notifier) handle(e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.MessagePosted:
		err := n.repo.CreateNotification(domain.Notification{
			UserID:    evt.ReceiverID,
			MessageID: evt.ID,
			CreatedAt: time.Now().UTC(),
		})
		switch {
		case errors.Is(err, errors.ErrNotificationExists):
			n.log.Debug("Notification already exists", "user_id", evt.ReceiverID, "message_id", evt.ID)
			return nil
		case err != nil:
			return err
		}
		n.log.Debug("Notification created", "user_id", evt.ReceiverID, "message_id", evt.ID)
	case event.MessageEdited:
		// Edits never notify
	default:
		n.log.Warn("Unknown event", "type", e.Type())
	}
	return nil
}
