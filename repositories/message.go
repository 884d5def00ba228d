//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"room-chat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	CreateMessage(room string, sender domain.Identity, text string) (domain.Message, error)
	GetMessages(room string, limit int) ([]domain.Message, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// diskMessage is the stored representation of a message.
type diskMessage struct {
	ID      uuid.UUID `json:"id"`
	Room    string    `json:"room"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	At      int64     `json:"at"` // unix nanoseconds
}

// roomKeyPrefix hex-encodes the room inside the key. Room names are
// arbitrary strings and may contain the key separator themselves, so a
// raw "msg:{room}:" prefix would make "general" match keys of a room
// named "general:2024". Hex never contains ':'.
func roomKeyPrefix(room string) string {
	return fmt.Sprintf("msg:%s:", hex.EncodeToString([]byte(room)))
}

// CreateMessage assigns the identifier and timestamp and persists the
// message. The key is formatted as "msg:{room_hex}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the UUID as a collision disconnector if
//     two messages land on the same nanosecond.
func (m MessageRepository) CreateMessage(room string, sender domain.Identity, text string) (domain.Message, error) {
	message := domain.Message{
		ID:        uuid.New(),
		Room:      room,
		Sender:    sender,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}

	key := fmt.Sprintf("%s%019d:%s", roomKeyPrefix(room), message.CreatedAt.UnixNano(), message.ID)
	bytes, err := json.Marshal(fromMessage(message))
	if err != nil {
		return domain.Message{}, err
	}

	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetMessages retrieves the most recent messages of a room ordered oldest
// to newest. Thanks to the padded timestamp in the key, a reverse prefix
// scan yields the newest entries first; the slice is flipped before
// returning.
func (m MessageRepository) GetMessages(room string, limit int) ([]domain.Message, error) {
	var stored []diskMessage
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(roomKeyPrefix(room))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp for this room, then
		// walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(stored) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", limit))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var dm diskMessage
				if err := json.Unmarshal(value, &dm); err != nil {
					return err
				}
				// The stored record is authoritative for room scoping.
				if dm.Room != room {
					return nil
				}
				stored = append(stored, dm)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lo.Reverse(lo.Map(stored, func(dm diskMessage, _ int) domain.Message {
		return toMessage(dm)
	})), nil
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:      message.ID,
		Room:    message.Room,
		Sender:  message.Sender.String(),
		Content: message.Content,
		At:      message.CreatedAt.UnixNano(),
	}
}

func toMessage(dm diskMessage) domain.Message {
	return domain.Message{
		ID:        dm.ID,
		Room:      dm.Room,
		Sender:    domain.Identity(dm.Sender),
		Content:   dm.Content,
		CreatedAt: time.Unix(0, dm.At).UTC(),
	}
}
