// Package threadpb holds the wire contract of chatthread.v1.ThreadService:
// its messages, codec, service descriptor and client.
package threadpb

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type Empty struct{}

type Conversation struct {
	Id           string    `json:"id"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateConversationRequest struct {
	Participants []string `json:"participants"`
}

type ConversationResponse struct {
	Conversation *Conversation `json:"conversation"`
}

type Message struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversation_id"`
	SenderId       string    `json:"sender_id"`
	ReceiverId     string    `json:"receiver_id"`
	ParentId       string    `json:"parent_id,omitempty"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Read           bool      `json:"read"`
	Edited         bool      `json:"edited"`
}

type PostMessageRequest struct {
	ConversationId string `json:"conversation_id"`
	ReceiverId     string `json:"receiver_id"`
	ParentId       string `json:"parent_id,omitempty"`
	Content        string `json:"content"`
}

type EditMessageRequest struct {
	MessageId string `json:"message_id"`
	Content   string `json:"content"`
}

type MessageResponse struct {
	Message *Message `json:"message"`
}

type MessagesResponse struct {
	Messages []*Message `json:"messages"`
	// NextCursor is set by ListMessages while older messages remain.
	NextCursor string `json:"next_cursor,omitempty"`
}

type ListMessagesRequest struct {
	ConversationId string `json:"conversation_id"`
	Cursor         string `json:"cursor,omitempty"`
}

type MessageRequest struct {
	MessageId string `json:"message_id"`
}

type ThreadNode struct {
	Message *Message      `json:"message"`
	Replies []*ThreadNode `json:"replies"`
}

type GetThreadRequest struct {
	ConversationId string `json:"conversation_id"`
}

type ThreadResponse struct {
	Threads []*ThreadNode `json:"threads"`
}

type RepliesResponse struct {
	Thread *ThreadNode `json:"thread"`
}

type UnreadInboxRequest struct{}

type Notification struct {
	MessageId string    `json:"message_id"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type ListNotificationsRequest struct {
	UnreadOnly bool `json:"unread_only"`
}

type NotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
}

type HistoryEntry struct {
	OldContent string    `json:"old_content"`
	EditedAt   time.Time `json:"edited_at"`
	EditedBy   string    `json:"edited_by"`
}

type HistoryResponse struct {
	Entries []*HistoryEntry `json:"entries"`
}

type SearchRequest struct {
	ConversationId string `json:"conversation_id"`
	Terms          string `json:"terms"`
	Limit          int    `json:"limit"`
}
