package chat

import (
	"fmt"
	"log/slog"

	"room-chat/domain"
	"room-chat/repositories"
)

// HistoryLoader retrieves the recent messages of a room, oldest first,
// capped at a fixed bound. A store failure is recoverable: the join
// proceeds and the caller reports the failure as a system notice.
type HistoryLoader struct {
	messages repositories.IMessageRepository
	limit    int
	log      *slog.Logger
}

func NewHistoryLoader(messages repositories.IMessageRepository, limit int, log *slog.Logger) *HistoryLoader {
	return &HistoryLoader{messages: messages, limit: limit, log: log}
}

func (h *HistoryLoader) Load(room string) ([]domain.Message, error) {
	history, err := h.messages.GetMessages(room, h.limit)
	if err != nil {
		return nil, fmt.Errorf("history load for %q failed: %w", room, err)
	}
	return history, nil
}
