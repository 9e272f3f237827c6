package services

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"chat-thread/auth"
	"chat-thread/cache"
	"chat-thread/domain"
	"chat-thread/domain/event"
	"chat-thread/errors"
	"chat-thread/mocks"
	"chat-thread/moderation"
	"chat-thread/observability"
	"chat-thread/repositories"
	"chat-thread/search"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc       *ChatService
	repos     Repositories
	publisher *mocks.MockEventPublisher
	registry  *prometheus.Registry
}

func newFixture(t *testing.T, maxReplyDepth int) fixture {
	t.Helper()
	req := require.New(t)
	log := slog.Default()

	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)
	t.Cleanup(func() { _ = writer.Close() })

	threadCache, err := cache.NewThreadCache(1000, time.Minute)
	req.NoError(err)
	t.Cleanup(threadCache.Close)

	moderator, err := moderation.NewModerator([]string{"spam"}, '*', log)
	req.NoError(err)

	repos := Repositories{
		Messages:      repositories.NewMessageRepository(db, log, lo.ToPtr(3), repositories.DefaultRetry),
		Conversations: repositories.NewConversationRepository(db, repositories.DefaultRetry),
		Notifications: repositories.NewNotificationRepository(db, repositories.DefaultRetry),
		History:       repositories.NewHistoryRepository(db),
	}
	publisher := mocks.NewMockEventPublisher(gomock.NewController(t))
	registry := prometheus.NewRegistry()

	svc := NewChatService(repos, search.NewMessageIndex(writer), threadCache, moderator, publisher,
		observability.NewMetrics(registry), auth.NewValidator(),
		ChatConfig{MaxContentLength: 20, MaxReplyDepth: maxReplyDepth}, log)
	return fixture{svc: svc, repos: repos, publisher: publisher, registry: registry}
}

func (f fixture) acceptEvents() {
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (f fixture) conversation(t *testing.T, participants ...string) uuid.UUID {
	t.Helper()
	conversation, err := f.svc.CreateConversation(context.Background(), domain.CreateConversationCommand{
		CreatorID:    participants[0],
		Participants: participants[1:],
	})
	require.NoError(t, err)
	return conversation.ID
}

func (f fixture) post(t *testing.T, conversation uuid.UUID, parent *uuid.UUID, content string) domain.Message {
	t.Helper()
	message, err := f.svc.PostMessage(context.Background(), domain.PostMessageCommand{
		ConversationID: conversation,
		SenderID:       "alice",
		ReceiverID:     "bob",
		ParentID:       parent,
		Content:        content,
	})
	require.NoError(t, err)
	return message
}

func (f fixture) counter(t *testing.T, name string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)
	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func contents(nodes []domain.ThreadNode) []string {
	var out []string
	for _, node := range nodes {
		out = append(out, node.Content)
	}
	return out
}

func TestChatService_CreateConversation(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	ctx := context.Background()

	// Given a creator listed again among duplicated participants
	conversation, err := f.svc.CreateConversation(ctx, domain.CreateConversationCommand{
		CreatorID:    "alice",
		Participants: []string{"bob", "alice", "bob"},
	})

	// Then every member appears once, creator first
	req.NoError(err)
	req.Equal([]string{"alice", "bob"}, conversation.Participants)

	stored, err := f.repos.Conversations.GetConversation(conversation.ID)
	req.NoError(err)
	req.Equal(conversation.Participants, stored.Participants)

	// And a conversation without participants is refused
	_, err = f.svc.CreateConversation(ctx, domain.CreateConversationCommand{CreatorID: "alice"})
	req.ErrorIs(err, errors.ErrInvalidMessage)
}

func TestChatService_PostMessage_PublishesAndCensors(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	conversation := f.conversation(t, "alice", "bob")

	// Given a publisher expecting exactly one posted event for bob
	f.publisher.EXPECT().
		Publish(gomock.Any(), gomock.Cond(func(e event.DomainEvent) bool {
			posted, ok := e.(event.MessagePosted)
			return ok && posted.ReceiverID == "bob" && posted.Conversation == conversation
		})).
		Return(nil).
		Times(1)

	// When posting a message with a forbidden word
	message := f.post(t, conversation, nil, "no spam here")

	// Then it is stored censored and unread
	req.Equal("no **** here", message.Content)
	stored, err := f.repos.Messages.GetMessage(message.ID)
	req.NoError(err)
	req.Equal(message.Content, stored.Content)
	req.False(stored.Read)
}

func TestChatService_PostMessage_Rejections(t *testing.T) {
	f := newFixture(t, 8)
	f.acceptEvents()
	conversation := f.conversation(t, "alice", "bob")
	other := f.conversation(t, "alice", "bob")
	foreignParent := f.post(t, other, nil, "elsewhere")
	missing := uuid.New()

	tests := []struct {
		name    string
		cmd     domain.PostMessageCommand
		wantErr error
	}{
		{
			name:    "empty content",
			cmd:     domain.PostMessageCommand{ConversationID: conversation, SenderID: "alice", ReceiverID: "bob"},
			wantErr: errors.ErrInvalidMessage,
		},
		{
			name:    "content too long",
			cmd:     domain.PostMessageCommand{ConversationID: conversation, SenderID: "alice", ReceiverID: "bob", Content: strings.Repeat("é", 21)},
			wantErr: errors.ErrInvalidMessage,
		},
		{
			name:    "message to self",
			cmd:     domain.PostMessageCommand{ConversationID: conversation, SenderID: "alice", ReceiverID: "alice", Content: "hi"},
			wantErr: errors.ErrInvalidMessage,
		},
		{
			name:    "sender outside conversation",
			cmd:     domain.PostMessageCommand{ConversationID: conversation, SenderID: "mallory", ReceiverID: "bob", Content: "hi"},
			wantErr: errors.ErrNotParticipant,
		},
		{
			name:    "receiver outside conversation",
			cmd:     domain.PostMessageCommand{ConversationID: conversation, SenderID: "alice", ReceiverID: "mallory", Content: "hi"},
			wantErr: errors.ErrNotParticipant,
		},
		{
			name:    "unknown conversation",
			cmd:     domain.PostMessageCommand{ConversationID: uuid.New(), SenderID: "alice", ReceiverID: "bob", Content: "hi"},
			wantErr: errors.ErrConversationNotFound,
		},
		{
			name:    "unknown parent",
			cmd:     domain.PostMessageCommand{ConversationID: conversation, SenderID: "alice", ReceiverID: "bob", ParentID: &missing, Content: "hi"},
			wantErr: errors.ErrMessageNotFound,
		},
		{
			name:    "parent in another conversation",
			cmd:     domain.PostMessageCommand{ConversationID: conversation, SenderID: "alice", ReceiverID: "bob", ParentID: &foreignParent.ID, Content: "hi"},
			wantErr: errors.ErrParentNotInConversation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.PostMessage(context.Background(), tt.cmd)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestChatService_GetThread_BuildsAndCaches(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	f.acceptEvents()
	ctx := context.Background()
	conversation := f.conversation(t, "alice", "bob")

	// Given two roots, the first one with a nested reply
	first := f.post(t, conversation, nil, "first")
	reply := f.post(t, conversation, &first.ID, "reply")
	f.post(t, conversation, &reply.ID, "nested")
	f.post(t, conversation, nil, "second")

	// When reading the thread twice
	threads, err := f.svc.GetThread(ctx, "bob", conversation)
	req.NoError(err)
	again, err := f.svc.GetThread(ctx, "alice", conversation)
	req.NoError(err)

	// Then the forest follows the reply structure, and the second read is cached
	req.Equal([]string{"first", "second"}, contents(threads))
	req.Equal([]string{"reply"}, contents(threads[0].Replies))
	req.Equal([]string{"nested"}, contents(threads[0].Replies[0].Replies))
	req.NotNil(threads[1].Replies)
	req.Empty(threads[1].Replies)
	req.Equal(threads, again)
	req.Equal(float64(1), f.counter(t, "chatthread_thread_cache_misses_total"))
	req.Equal(float64(1), f.counter(t, "chatthread_thread_cache_hits_total"))
	req.Equal(float64(1), f.counter(t, "chatthread_threads_built_total"))

	// When a new message is posted
	f.post(t, conversation, &first.ID, "late reply")
	threads, err = f.svc.GetThread(ctx, "bob", conversation)

	// Then the cached forest was dropped and rebuilt
	req.NoError(err)
	req.Equal([]string{"reply", "late reply"}, contents(threads[0].Replies))
	req.Equal(float64(2), f.counter(t, "chatthread_thread_cache_misses_total"))
}

// pausingMessages holds the first armed GetConversationMessages after its read
// until resume is closed.
type pausingMessages struct {
	repositories.IMessageRepository
	armed   atomic.Bool
	fetched chan struct{}
	resume  chan struct{}
}

func (p *pausingMessages) GetConversationMessages(conversationID uuid.UUID) ([]domain.Message, error) {
	messages, err := p.IMessageRepository.GetConversationMessages(conversationID)
	if p.armed.CompareAndSwap(true, false) {
		close(p.fetched)
		<-p.resume
	}
	return messages, err
}

func TestChatService_GetThread_WriteDuringBuildIsNotCached(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	f.acceptEvents()
	ctx := context.Background()
	conversation := f.conversation(t, "alice", "bob")
	root := f.post(t, conversation, nil, "root")

	paused := &pausingMessages{IMessageRepository: f.svc.repos.Messages, fetched: make(chan struct{}), resume: make(chan struct{})}
	paused.armed.Store(true)
	f.svc.repos.Messages = paused

	// Given a reader that fetched the messages but has not cached its forest yet
	done := make(chan []domain.ThreadNode, 1)
	go func() {
		threads, _ := f.svc.GetThread(ctx, "bob", conversation)
		done <- threads
	}()
	<-paused.fetched

	// When a reply is committed before that reader finishes
	f.post(t, conversation, &root.ID, "reply")
	close(paused.resume)
	stale := <-done
	req.Len(stale, 1)
	req.Empty(stale[0].Replies)

	// Then the next read is rebuilt and sees the reply
	threads, err := f.svc.GetThread(ctx, "bob", conversation)
	req.NoError(err)
	req.Equal([]string{"reply"}, contents(threads[0].Replies))
	req.Equal(float64(2), f.counter(t, "chatthread_threads_built_total"))
}

func TestChatService_ListMessages_Pages(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	f.acceptEvents()
	ctx := context.Background()
	conversation := f.conversation(t, "alice", "bob")

	// Given five messages and pages of three
	for _, content := range []string{"m1", "m2", "m3", "m4", "m5"} {
		f.post(t, conversation, nil, content)
	}

	// When reading the first page
	page, cursor, err := f.svc.ListMessages(ctx, "bob", conversation, nil)

	// Then the newest messages come first with a cursor to the rest
	req.NoError(err)
	req.Equal([]string{"m5", "m4", "m3"}, lo.Map(page, func(m domain.Message, _ int) string { return m.Content }))
	req.NotNil(cursor)

	// And the last page ends the listing
	page, cursor, err = f.svc.ListMessages(ctx, "bob", conversation, cursor)
	req.NoError(err)
	req.Equal([]string{"m2", "m1"}, lo.Map(page, func(m domain.Message, _ int) string { return m.Content }))
	req.Nil(cursor)

	_, _, err = f.svc.ListMessages(ctx, "mallory", conversation, nil)
	req.ErrorIs(err, errors.ErrNotParticipant)
}

func TestChatService_GetThread_ReportsOrphans(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	f.acceptEvents()
	conversation := f.conversation(t, "alice", "bob")
	root := f.post(t, conversation, nil, "root")

	// Given a stored message whose parent was never stored
	missing := uuid.New()
	orphan := domain.Message{
		ID: uuid.New(), ConversationID: conversation, SenderID: "alice", ReceiverID: "bob",
		ParentID: &missing, Content: "lost", Timestamp: time.Now().UTC(),
	}
	req.NoError(f.repos.Messages.StoreMessage(orphan))

	// When building the thread
	threads, err := f.svc.GetThread(context.Background(), "alice", conversation)

	// Then the orphan is left out and counted
	req.NoError(err)
	req.Len(threads, 1)
	req.Equal(root.ID, threads[0].ID)
	req.Equal(float64(1), f.counter(t, "chatthread_excluded_messages_total"))
}

func TestChatService_GetThread_NotParticipant(t *testing.T) {
	f := newFixture(t, 8)
	conversation := f.conversation(t, "alice", "bob")

	_, err := f.svc.GetThread(context.Background(), "mallory", conversation)

	require.ErrorIs(t, err, errors.ErrNotParticipant)
}

func TestChatService_GetReplies(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 2)
	f.acceptEvents()
	ctx := context.Background()
	conversation := f.conversation(t, "alice", "bob")

	// Given a chain root > a > b > c > d and a sibling a2
	root := f.post(t, conversation, nil, "root")
	a := f.post(t, conversation, &root.ID, "a")
	b := f.post(t, conversation, &a.ID, "b")
	c := f.post(t, conversation, &b.ID, "c")
	f.post(t, conversation, &c.ID, "d")
	f.post(t, conversation, &root.ID, "a2")

	// When asking for the replies of a with a depth of two
	node, err := f.svc.GetReplies(ctx, "bob", a.ID)

	// Then a keeps its parent and only two levels below it are loaded
	req.NoError(err)
	req.Equal(a.ID, node.ID)
	req.NotNil(node.ParentID)
	req.Equal(root.ID, *node.ParentID)
	req.Equal([]string{"b"}, contents(node.Replies))
	req.Equal([]string{"c"}, contents(node.Replies[0].Replies))
	req.Empty(node.Replies[0].Replies[0].Replies)

	// And replies of the root come back in posting order
	node, err = f.svc.GetReplies(ctx, "alice", root.ID)
	req.NoError(err)
	req.Equal([]string{"a", "a2"}, contents(node.Replies))

	_, err = f.svc.GetReplies(ctx, "mallory", root.ID)
	req.ErrorIs(err, errors.ErrNotParticipant)
}

func TestChatService_EditMessage(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	f.acceptEvents()
	ctx := context.Background()
	conversation := f.conversation(t, "alice", "bob")
	message := f.post(t, conversation, nil, "helo")

	// When bob tries to edit alice's message
	_, err := f.svc.EditMessage(ctx, domain.EditMessageCommand{MessageID: message.ID, EditorID: "bob", Content: "hacked"})
	req.ErrorIs(err, errors.ErrNotSender)

	// When alice fixes a typo, then submits the same content again
	edited, err := f.svc.EditMessage(ctx, domain.EditMessageCommand{MessageID: message.ID, EditorID: "alice", Content: "hello"})
	req.NoError(err)
	_, err = f.svc.EditMessage(ctx, domain.EditMessageCommand{MessageID: message.ID, EditorID: "alice", Content: "hello"})
	req.NoError(err)

	// Then only the real change is kept in history
	req.True(edited.Edited)
	req.Equal("hello", edited.Content)
	history, err := f.svc.History(ctx, "bob", message.ID)
	req.NoError(err)
	req.Len(history, 1)
	req.Equal("helo", history[0].OldContent)
	req.Equal("alice", history[0].EditedBy)

	// And search sees the new content only
	found, err := f.svc.Search(ctx, "bob", conversation, "hello", 10)
	req.NoError(err)
	req.Len(found, 1)
	req.Equal(message.ID, found[0].ID)
	found, err = f.svc.Search(ctx, "bob", conversation, "helo", 10)
	req.NoError(err)
	req.Empty(found)
}

func TestChatService_MarkRead(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	f.acceptEvents()
	ctx := context.Background()
	conversation := f.conversation(t, "alice", "bob")
	message := f.post(t, conversation, nil, "ping")

	inbox, err := f.svc.UnreadInbox(ctx, "bob")
	req.NoError(err)
	req.Len(inbox, 1)

	// Only the receiver may mark it read
	req.ErrorIs(f.svc.MarkRead(ctx, "alice", message.ID), errors.ErrNotReceiver)
	req.NoError(f.svc.MarkRead(ctx, "bob", message.ID))
	req.NoError(f.svc.MarkRead(ctx, "bob", message.ID))

	inbox, err = f.svc.UnreadInbox(ctx, "bob")
	req.NoError(err)
	req.Empty(inbox)

	threads, err := f.svc.GetThread(ctx, "bob", conversation)
	req.NoError(err)
	req.True(threads[0].Read)
}

func TestChatService_Notifications(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	ctx := context.Background()
	messageID := uuid.New()

	req.NoError(f.repos.Notifications.CreateNotification(domain.Notification{
		UserID: "bob", MessageID: messageID, CreatedAt: time.Now().UTC(),
	}))

	unread, err := f.svc.ListNotifications(ctx, "bob", true)
	req.NoError(err)
	req.Len(unread, 1)

	req.NoError(f.svc.MarkNotificationRead(ctx, "bob", messageID))
	req.ErrorIs(f.svc.MarkNotificationRead(ctx, "bob", uuid.New()), errors.ErrNotificationNotFound)

	unread, err = f.svc.ListNotifications(ctx, "bob", true)
	req.NoError(err)
	req.Empty(unread)
	all, err := f.svc.ListNotifications(ctx, "bob", false)
	req.NoError(err)
	req.Len(all, 1)
	req.True(all[0].Read)
}

func TestChatService_Search_Guards(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, 8)
	conversation := f.conversation(t, "alice", "bob")

	_, err := f.svc.Search(context.Background(), "mallory", conversation, "hello", 10)
	req.ErrorIs(err, errors.ErrNotParticipant)

	_, err = f.svc.Search(context.Background(), "alice", conversation, "  ", 10)
	req.ErrorIs(err, errors.ErrEmptySearch)
}
