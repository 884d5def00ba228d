package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"room-chat/domain"
	"room-chat/search"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type SearchAPI struct {
	index *search.MessageIndex
	log   *slog.Logger
}

func NewSearchAPI(index *search.MessageIndex, log *slog.Logger) *SearchAPI {
	return &SearchAPI{index: index, log: log}
}

// Search runs a full-text query over one room's persisted messages.
// GET /api/search?room=general&q=deploy&limit=20
func (s *SearchAPI) Search(w http.ResponseWriter, r *http.Request) {
	room := domain.NormalizeRoom(r.URL.Query().Get("room"))
	terms := r.URL.Query().Get("q")
	if room == "" || terms == "" {
		writeError(w, http.StatusBadRequest, "room and q are required")
		return
	}

	limit, err := searchLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	hits, err := s.index.Search(r.Context(), room, terms, limit)
	if err != nil {
		s.log.Error("search failed", "room", room, "err", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

// searchLimit parses the limit parameter, defaulting when absent and
// capping oversized requests so one query cannot drive an arbitrarily
// large top-N collection.
func searchLimit(raw string) (int, error) {
	if raw == "" {
		return defaultSearchLimit, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	if parsed > maxSearchLimit {
		return maxSearchLimit, nil
	}
	return parsed, nil
}
