package server

import (
	"fmt"

	"chat-thread/domain"
	"chat-thread/errors"
	pb "chat-thread/proto/threadpb"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s is not a valid id", errors.ErrInvalidMessage, field)
	}
	return id, nil
}

func parseOptionalID(field, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseID(field, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func toMessage(m domain.Message) *pb.Message {
	message := &pb.Message{
		Id:             m.ID.String(),
		ConversationId: m.ConversationID.String(),
		SenderId:       m.SenderID,
		ReceiverId:     m.ReceiverID,
		Content:        m.Content,
		Timestamp:      m.Timestamp,
		Read:           m.Read,
		Edited:         m.Edited,
	}
	if m.ParentID != nil {
		message.ParentId = m.ParentID.String()
	}
	return message
}

func toMessages(messages []domain.Message) []*pb.Message {
	return lo.Map(messages, func(item domain.Message, _ int) *pb.Message {
		return toMessage(item)
	})
}

func toThreadNode(node domain.ThreadNode) *pb.ThreadNode {
	return &pb.ThreadNode{
		Message: toMessage(node.Message),
		Replies: toThreadNodes(node.Replies),
	}
}

// toThreadNodes keeps leaves as empty lists rather than null on the wire.
func toThreadNodes(nodes []domain.ThreadNode) []*pb.ThreadNode {
	out := make([]*pb.ThreadNode, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, toThreadNode(node))
	}
	return out
}

func toConversation(c domain.Conversation) *pb.Conversation {
	return &pb.Conversation{
		Id:           c.ID.String(),
		Participants: c.Participants,
		CreatedAt:    c.CreatedAt,
	}
}

func toNotifications(notifications []domain.Notification) []*pb.Notification {
	return lo.Map(notifications, func(item domain.Notification, _ int) *pb.Notification {
		return &pb.Notification{
			MessageId: item.MessageID.String(),
			Read:      item.Read,
			CreatedAt: item.CreatedAt,
		}
	})
}

func toHistory(entries []domain.MessageHistory) []*pb.HistoryEntry {
	return lo.Map(entries, func(item domain.MessageHistory, _ int) *pb.HistoryEntry {
		return &pb.HistoryEntry{
			OldContent: item.OldContent,
			EditedAt:   item.EditedAt,
			EditedBy:   item.EditedBy,
		}
	})
}
