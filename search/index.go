// Package search maintains a full-text index over persisted messages.
// Indexing is best-effort: a failed index write never fails the send
// that triggered it.
package search

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"room-chat/domain"

	"github.com/blugelabs/bluge"
)

type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

// Hit is one search result, rebuilt from the stored fields.
type Hit struct {
	ID     string    `json:"id"`
	Room   string    `json:"room"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	At     time.Time `json:"timestamp"`
}

func NewMessageIndex(path string, log *slog.Logger) (*MessageIndex, error) {
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(path))
	if err != nil {
		return nil, err
	}
	return &MessageIndex{writer: writer, log: log}, nil
}

func (i *MessageIndex) Close() error {
	return i.writer.Close()
}

// Index adds a persisted message to the index. Room and sender are
// keyword fields so they filter exactly; the content is analyzed text.
func (i *MessageIndex) Index(message domain.Message) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewKeywordField("room", message.Room).StoreValue()).
		AddField(bluge.NewKeywordField("sender", message.Sender.String()).StoreValue()).
		AddField(bluge.NewTextField("text", message.Content).StoreValue()).
		AddField(bluge.NewStoredOnlyField("at", []byte(strconv.FormatInt(message.CreatedAt.UnixNano(), 10))))
	return i.writer.Update(doc.ID(), doc)
}

// Search matches the analyzed message text within a single room and
// returns up to limit hits, best score first.
func (i *MessageIndex) Search(ctx context.Context, room, terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Error("failed to close index reader", "err", err)
		}
	}()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(room).SetField("room")).
		AddMust(bluge.NewMatchQuery(terms).SetField("text"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []Hit
	match, err := iterator.Next()
	for err == nil && match != nil {
		var hit Hit
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "room":
				hit.Room = string(value)
			case "sender":
				hit.Sender = string(value)
			case "text":
				hit.Text = string(value)
			case "at":
				if nanos, parseErr := strconv.ParseInt(string(value), 10, 64); parseErr == nil {
					hit.At = time.Unix(0, nanos).UTC()
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return hits, nil
}
