package repositories

import (
	"time"

	"chat-thread/domain"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Records are stored in protobuf wire format so that fields can be added
// later without rewriting existing values. Unknown fields are skipped.

const (
	messageID protowire.Number = iota + 1
	messageConversation
	messageSender
	messageReceiver
	messageParent
	messageContent
	messageAt
	messageRead
	messageEdited
)

const (
	conversationID protowire.Number = iota + 1
	conversationParticipant
	conversationCreatedAt
)

const (
	notificationUser protowire.Number = iota + 1
	notificationMessage
	notificationRead
	notificationCreatedAt
)

const (
	historyMessage protowire.Number = iota + 1
	historyOldContent
	historyEditedAt
	historyEditedBy
)

const (
	userID protowire.Number = iota + 1
	userEmail
	userPasswordHash
	userRole
	userCreatedAt
)

func encodeMessage(m domain.Message) []byte {
	var b []byte
	b = appendUUID(b, messageID, m.ID)
	b = appendUUID(b, messageConversation, m.ConversationID)
	b = appendString(b, messageSender, m.SenderID)
	b = appendString(b, messageReceiver, m.ReceiverID)
	if m.ParentID != nil {
		b = appendUUID(b, messageParent, *m.ParentID)
	}
	b = appendString(b, messageContent, m.Content)
	b = appendTime(b, messageAt, m.Timestamp)
	b = appendBool(b, messageRead, m.Read)
	b = appendBool(b, messageEdited, m.Edited)
	return b
}

func decodeMessage(b []byte) (domain.Message, error) {
	var m domain.Message
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case messageID:
			return consumeUUID(b, &m.ID)
		case messageConversation:
			return consumeUUID(b, &m.ConversationID)
		case messageSender:
			return consumeString(b, &m.SenderID)
		case messageReceiver:
			return consumeString(b, &m.ReceiverID)
		case messageParent:
			var parent uuid.UUID
			n, err := consumeUUID(b, &parent)
			m.ParentID = &parent
			return n, err
		case messageContent:
			return consumeString(b, &m.Content)
		case messageAt:
			return consumeTime(b, &m.Timestamp)
		case messageRead:
			return consumeBool(b, &m.Read)
		case messageEdited:
			return consumeBool(b, &m.Edited)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return m, err
}

func encodeConversation(c domain.Conversation) []byte {
	var b []byte
	b = appendUUID(b, conversationID, c.ID)
	for _, p := range c.Participants {
		b = appendString(b, conversationParticipant, p)
	}
	b = appendTime(b, conversationCreatedAt, c.CreatedAt)
	return b
}

func decodeConversation(b []byte) (domain.Conversation, error) {
	var c domain.Conversation
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case conversationID:
			return consumeUUID(b, &c.ID)
		case conversationParticipant:
			var p string
			n, err := consumeString(b, &p)
			c.Participants = append(c.Participants, p)
			return n, err
		case conversationCreatedAt:
			return consumeTime(b, &c.CreatedAt)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return c, err
}

func encodeNotification(n domain.Notification) []byte {
	var b []byte
	b = appendString(b, notificationUser, n.UserID)
	b = appendUUID(b, notificationMessage, n.MessageID)
	b = appendBool(b, notificationRead, n.Read)
	b = appendTime(b, notificationCreatedAt, n.CreatedAt)
	return b
}

func decodeNotification(b []byte) (domain.Notification, error) {
	var n domain.Notification
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case notificationUser:
			return consumeString(b, &n.UserID)
		case notificationMessage:
			return consumeUUID(b, &n.MessageID)
		case notificationRead:
			return consumeBool(b, &n.Read)
		case notificationCreatedAt:
			return consumeTime(b, &n.CreatedAt)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return n, err
}

func encodeHistory(h domain.MessageHistory) []byte {
	var b []byte
	b = appendUUID(b, historyMessage, h.MessageID)
	b = appendString(b, historyOldContent, h.OldContent)
	b = appendTime(b, historyEditedAt, h.EditedAt)
	b = appendString(b, historyEditedBy, h.EditedBy)
	return b
}

func decodeHistory(b []byte) (domain.MessageHistory, error) {
	var h domain.MessageHistory
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case historyMessage:
			return consumeUUID(b, &h.MessageID)
		case historyOldContent:
			return consumeString(b, &h.OldContent)
		case historyEditedAt:
			return consumeTime(b, &h.EditedAt)
		case historyEditedBy:
			return consumeString(b, &h.EditedBy)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return h, err
}

func encodeUser(u User) []byte {
	var b []byte
	b = appendString(b, userID, u.ID)
	b = appendString(b, userEmail, u.Email)
	b = appendString(b, userPasswordHash, u.PasswordHash)
	for _, r := range u.Roles {
		b = appendString(b, userRole, r)
	}
	b = appendTime(b, userCreatedAt, u.CreatedAt)
	return b
}

func decodeUser(b []byte) (User, error) {
	var u User
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case userID:
			return consumeString(b, &u.ID)
		case userEmail:
			return consumeString(b, &u.Email)
		case userPasswordHash:
			return consumeString(b, &u.PasswordHash)
		case userRole:
			var r string
			n, err := consumeString(b, &r)
			u.Roles = append(u.Roles, r)
			return n, err
		case userCreatedAt:
			return consumeTime(b, &u.CreatedAt)
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return u, err
}

// consumeFields walks every field of b, handing the bytes after each tag to fn.
// fn returns how many bytes the field value used, or a negative protowire code.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		b = b[m:]
	}
	return nil
}

func appendUUID(b []byte, num protowire.Number, id uuid.UUID) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, id[:])
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func consumeUUID(b []byte, dst *uuid.UUID) (int, error) {
	v, n := protowire.ConsumeBytes(b)
	if n < 0 {
		return n, nil
	}
	id, err := uuid.FromBytes(v)
	if err != nil {
		return n, err
	}
	*dst = id
	return n, nil
}

func consumeString(b []byte, dst *string) (int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return n, nil
	}
	*dst = v
	return n, nil
}

func consumeTime(b []byte, dst *time.Time) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n, nil
	}
	*dst = time.Unix(0, int64(v)).UTC()
	return n, nil
}

func consumeBool(b []byte, dst *bool) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return n, nil
	}
	*dst = protowire.DecodeBool(v)
	return n, nil
}
