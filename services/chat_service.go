package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"chat-thread/auth"
	"chat-thread/cache"
	"chat-thread/contract"
	"chat-thread/domain"
	"chat-thread/domain/event"
	"chat-thread/domain/thread"
	"chat-thread/errors"
	"chat-thread/moderation"
	"chat-thread/observability"
	"chat-thread/repositories"
	"chat-thread/search"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	CreateConversation(ctx context.Context, cmd domain.CreateConversationCommand) (domain.Conversation, error)
	PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error)
	EditMessage(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error)
	MarkRead(ctx context.Context, userID string, messageID uuid.UUID) error
	ListMessages(ctx context.Context, userID string, conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
	GetThread(ctx context.Context, userID string, conversationID uuid.UUID) ([]domain.ThreadNode, error)
	GetReplies(ctx context.Context, userID string, messageID uuid.UUID) (domain.ThreadNode, error)
	UnreadInbox(ctx context.Context, userID string) ([]domain.Message, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, userID string, messageID uuid.UUID) error
	History(ctx context.Context, userID string, messageID uuid.UUID) ([]domain.MessageHistory, error)
	Search(ctx context.Context, userID string, conversationID uuid.UUID, terms string, limit int) ([]domain.Message, error)
}

type ChatConfig struct {
	MaxContentLength int
	MaxReplyDepth    int
}

// Repositories groups the stores the chat service reads and writes.
type Repositories struct {
	Messages      repositories.IMessageRepository
	Conversations repositories.IConversationRepository
	Notifications repositories.INotificationRepository
	History       repositories.IHistoryRepository
}

type ChatService struct {
	repos     Repositories
	index     search.IMessageIndex
	cache     cache.IThreadCache
	moderator moderation.IModerator
	publisher contract.EventPublisher
	metrics   *observability.Metrics
	validate  *validator.Validate
	config    ChatConfig
	log       *slog.Logger
}

func NewChatService(
	repos Repositories,
	index search.IMessageIndex,
	threadCache cache.IThreadCache,
	moderator moderation.IModerator,
	publisher contract.EventPublisher,
	metrics *observability.Metrics,
	validate *validator.Validate,
	config ChatConfig,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		repos:     repos,
		index:     index,
		cache:     threadCache,
		moderator: moderator,
		publisher: publisher,
		metrics:   metrics,
		validate:  validate,
		config:    config,
		log:       log,
	}
}

// CreateConversation registers a conversation whose members are the creator and
// the given participants, without duplicates.
func (s *ChatService) CreateConversation(_ context.Context, cmd domain.CreateConversationCommand) (domain.Conversation, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return domain.Conversation{}, fmt.Errorf("%w: %s", errors.ErrInvalidMessage, auth.Explain(err))
	}
	conversation := domain.Conversation{
		ID:           uuid.New(),
		Participants: lo.Uniq(append([]string{cmd.CreatorID}, cmd.Participants...)),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repos.Conversations.CreateConversation(conversation); err != nil {
		return domain.Conversation{}, err
	}
	s.log.Info("Conversation created", "conversation_id", conversation.ID, "participants", len(conversation.Participants))
	return conversation, nil
}

// PostMessage validates, censors and stores a message, then indexes it and
// notifies its receiver through the publisher.
func (s *ChatService) PostMessage(ctx context.Context, cmd domain.PostMessageCommand) (domain.Message, error) {
	if err := s.validateContent(cmd, cmd.Content); err != nil {
		return domain.Message{}, err
	}
	for _, userID := range []string{cmd.SenderID, cmd.ReceiverID} {
		if err := s.checkParticipant(cmd.ConversationID, userID); err != nil {
			return domain.Message{}, err
		}
	}
	if cmd.ParentID != nil {
		parent, err := s.repos.Messages.GetMessage(*cmd.ParentID)
		if err != nil {
			return domain.Message{}, err
		}
		if parent.ConversationID != cmd.ConversationID {
			return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrParentNotInConversation, parent.ID)
		}
	}

	content, censored := s.moderator.Censor(cmd.Content)
	if len(censored) > 0 {
		s.log.Info("Message censored", "conversation_id", cmd.ConversationID, "sender_id", cmd.SenderID, "words", len(censored))
	}

	message := domain.Message{
		ID:             uuid.New(),
		ConversationID: cmd.ConversationID,
		SenderID:       cmd.SenderID,
		ReceiverID:     cmd.ReceiverID,
		ParentID:       cmd.ParentID,
		Content:        content,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.repos.Messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	s.cache.Invalidate(message.ConversationID)
	s.indexMessage(message)

	if err := s.publisher.Publish(ctx, event.MessagePosted{
		ID:           message.ID,
		Conversation: message.ConversationID,
		SenderID:     message.SenderID,
		ReceiverID:   message.ReceiverID,
		At:           message.Timestamp,
	}); err != nil {
		s.log.Warn("Message posted without notification", "message_id", message.ID, "error", err)
	}
	return message, nil
}

// EditMessage replaces the content of a message. Only its sender may edit it.
// The previous content is kept in the history when it actually changes.
func (s *ChatService) EditMessage(ctx context.Context, cmd domain.EditMessageCommand) (domain.Message, error) {
	if err := s.validateContent(cmd, cmd.Content); err != nil {
		return domain.Message{}, err
	}
	message, err := s.repos.Messages.GetMessage(cmd.MessageID)
	if err != nil {
		return domain.Message{}, err
	}
	if message.SenderID != cmd.EditorID {
		return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrNotSender, cmd.EditorID)
	}

	content, _ := s.moderator.Censor(cmd.Content)
	if content == message.Content {
		return message, nil
	}

	now := time.Now().UTC()
	history := domain.MessageHistory{
		MessageID:  message.ID,
		OldContent: message.Content,
		EditedAt:   now,
		EditedBy:   cmd.EditorID,
	}
	message.Content = content
	message.Edited = true
	if err = s.repos.Messages.EditMessage(message, history); err != nil {
		return domain.Message{}, err
	}
	s.cache.Invalidate(message.ConversationID)
	s.indexMessage(message)

	if err = s.publisher.Publish(ctx, event.MessageEdited{
		ID:           message.ID,
		Conversation: message.ConversationID,
		EditorID:     cmd.EditorID,
		At:           now,
	}); err != nil {
		s.log.Warn("Edit event dropped", "message_id", message.ID, "error", err)
	}
	return message, nil
}

// MarkRead flags a message as read. Only its receiver may do so.
func (s *ChatService) MarkRead(_ context.Context, userID string, messageID uuid.UUID) error {
	message, err := s.repos.Messages.GetMessage(messageID)
	if err != nil {
		return err
	}
	if message.ReceiverID != userID {
		return fmt.Errorf("%w: %s", errors.ErrNotReceiver, userID)
	}
	if message.Read {
		return nil
	}
	message.Read = true
	if err = s.repos.Messages.UpdateMessage(message); err != nil {
		return err
	}
	s.cache.Invalidate(message.ConversationID)
	return nil
}

// ListMessages returns one page of a conversation, newest first, and the cursor
// of the next page, nil once the oldest message was returned.
func (s *ChatService) ListMessages(_ context.Context, userID string, conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	if err := s.checkParticipant(conversationID, userID); err != nil {
		return nil, nil, err
	}
	return s.repos.Messages.GetMessages(conversationID, cursor)
}

// GetThread returns the reply forest of a conversation, served from the cache when possible.
func (s *ChatService) GetThread(_ context.Context, userID string, conversationID uuid.UUID) ([]domain.ThreadNode, error) {
	if err := s.checkParticipant(conversationID, userID); err != nil {
		return nil, err
	}
	if threads, ok := s.cache.Get(conversationID); ok {
		s.metrics.CacheHits.Inc()
		return threads, nil
	}
	s.metrics.CacheMisses.Inc()

	// Writers store before they invalidate, so a forest built after reading this
	// generation is only cached if no write landed in between.
	generation := s.cache.Generation(conversationID)
	messages, err := s.repos.Messages.GetConversationMessages(conversationID)
	if err != nil {
		return nil, err
	}
	threads := s.build(conversationID, messages)
	if !s.cache.Set(conversationID, generation, threads) {
		s.log.Debug("Thread changed while building, not cached", "conversation_id", conversationID)
	}
	return threads, nil
}

// GetReplies returns the sub-thread rooted at messageID. Descendants are fetched
// breadth first, at most MaxReplyDepth levels below the root.
func (s *ChatService) GetReplies(_ context.Context, userID string, messageID uuid.UUID) (domain.ThreadNode, error) {
	root, err := s.repos.Messages.GetMessage(messageID)
	if err != nil {
		return domain.ThreadNode{}, err
	}
	if err = s.checkParticipant(root.ConversationID, userID); err != nil {
		return domain.ThreadNode{}, err
	}

	var descendants []domain.Message
	seen := map[uuid.UUID]struct{}{root.ID: {}}
	level := []uuid.UUID{root.ID}
	for depth := 0; depth < s.config.MaxReplyDepth && len(level) > 0; depth++ {
		var next []uuid.UUID
		for _, parentID := range level {
			replies, err := s.repos.Messages.GetReplies(parentID)
			if err != nil {
				return domain.ThreadNode{}, err
			}
			for _, reply := range replies {
				if _, ok := seen[reply.ID]; ok {
					continue
				}
				seen[reply.ID] = struct{}{}
				descendants = append(descendants, reply)
				next = append(next, reply.ID)
			}
		}
		level = next
	}

	// The requested message is the root of this forest whatever its own parent is
	detached := root
	detached.ParentID = nil
	threads := s.build(root.ConversationID, append([]domain.Message{detached}, thread.Chronological(descendants)...))
	node := threads[0]
	node.ParentID = root.ParentID
	return node, nil
}

func (s *ChatService) UnreadInbox(_ context.Context, userID string) ([]domain.Message, error) {
	return s.repos.Messages.GetUnread(userID)
}

func (s *ChatService) ListNotifications(_ context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.repos.Notifications.ListNotifications(userID, unreadOnly)
}

func (s *ChatService) MarkNotificationRead(_ context.Context, userID string, messageID uuid.UUID) error {
	return s.repos.Notifications.MarkNotificationRead(userID, messageID)
}

// History lists the previous contents of a message, oldest first.
func (s *ChatService) History(_ context.Context, userID string, messageID uuid.UUID) ([]domain.MessageHistory, error) {
	message, err := s.repos.Messages.GetMessage(messageID)
	if err != nil {
		return nil, err
	}
	if err = s.checkParticipant(message.ConversationID, userID); err != nil {
		return nil, err
	}
	return s.repos.History.GetHistory(messageID)
}

// Search runs a full text query over one conversation and loads the matching messages.
func (s *ChatService) Search(ctx context.Context, userID string, conversationID uuid.UUID, terms string, limit int) ([]domain.Message, error) {
	if err := s.checkParticipant(conversationID, userID); err != nil {
		return nil, err
	}
	ids, err := s.index.Search(ctx, conversationID, terms, limit)
	if err != nil {
		return nil, err
	}
	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.repos.Messages.GetMessage(id)
		if errors.Is(err, errors.ErrMessageNotFound) {
			s.log.Warn("Indexed message missing from storage", "message_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func (s *ChatService) build(conversationID uuid.UUID, messages []domain.Message) []domain.ThreadNode {
	result := thread.BuildWithReport(messages)
	s.metrics.ThreadsBuilt.Inc()
	if len(result.Orphans) > 0 {
		s.metrics.ExcludedMessages.WithLabelValues(observability.ReasonOrphan).Add(float64(len(result.Orphans)))
		s.log.Warn("Orphan messages left out of thread", "conversation_id", conversationID, "ids", result.Orphans)
	}
	if len(result.Cyclic) > 0 {
		s.metrics.ExcludedMessages.WithLabelValues(observability.ReasonCycle).Add(float64(len(result.Cyclic)))
		s.log.Warn("Cyclic messages left out of thread", "conversation_id", conversationID, "ids", result.Cyclic)
	}
	return result.Threads
}

func (s *ChatService) validateContent(cmd any, content string) error {
	if err := s.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrInvalidMessage, auth.Explain(err))
	}
	if utf8.RuneCountInString(content) > s.config.MaxContentLength {
		return fmt.Errorf("%w: content longer than %d characters", errors.ErrInvalidMessage, s.config.MaxContentLength)
	}
	return nil
}

func (s *ChatService) checkParticipant(conversationID uuid.UUID, userID string) error {
	ok, err := s.repos.Conversations.IsParticipant(conversationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", errors.ErrNotParticipant, userID)
	}
	return nil
}

// indexMessage keeps search best effort: badger stays the source of truth.
func (s *ChatService) indexMessage(message domain.Message) {
	if err := s.index.Index(message); err != nil {
		s.log.Error("Message not indexed", "message_id", message.ID, "error", err)
	}
}
