//go:generate go run go.uber.org/mock/mockgen -source=index.go -destination=../mocks/mock_message_index.go -package=mocks
package search

import (
	"context"
	"fmt"
	"strings"

	"chat-thread/domain"
	"chat-thread/errors"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

const (
	fieldContent      = "content"
	fieldConversation = "conversation"
	fieldSender       = "sender"
)

type IMessageIndex interface {
	Index(message domain.Message) error
	Search(ctx context.Context, conversationID uuid.UUID, terms string, limit int) ([]uuid.UUID, error)
}

// MessageIndex is the full text index of message contents, one document per message.
// Badger stays the source of truth; the index only returns message ids.
type MessageIndex struct {
	writer *bluge.Writer
}

func NewMessageIndex(writer *bluge.Writer) MessageIndex {
	return MessageIndex{writer: writer}
}

// Index upserts the message, so an edited message replaces its previous content.
func (m MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField(fieldContent, message.Content)).
		AddField(bluge.NewKeywordField(fieldConversation, message.ConversationID.String()).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSender, message.SenderID).StoreValue())
	return m.writer.Update(doc.ID(), doc)
}

// Search returns the ids of the messages of a conversation matching terms, best match first.
func (m MessageIndex) Search(ctx context.Context, conversationID uuid.UUID, terms string, limit int) ([]uuid.UUID, error) {
	if strings.TrimSpace(terms) == "" {
		return nil, errors.ErrEmptySearch
	}
	reader, err := m.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("index reader: %w", err)
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField(fieldContent)).
		AddMust(bluge.NewTermQuery(conversationID.String()).SetField(fieldConversation))

	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	match, err := matches.Next()
	for err == nil && match != nil {
		var parseErr error
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				var id uuid.UUID
				id, parseErr = uuid.ParseBytes(value)
				if parseErr == nil {
					ids = append(ids, id)
				}
				return false
			}
			return true
		})
		if err == nil {
			err = parseErr
		}
		if err == nil {
			match, err = matches.Next()
		}
	}
	return ids, err
}
