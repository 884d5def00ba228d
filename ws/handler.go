package ws

import (
	"context"
	goerrors "errors"
	"log/slog"
	"net/http"

	"room-chat/chat"
	"room-chat/contract"
	"room-chat/errors"

	"github.com/gorilla/websocket"
)

// Handler authenticates and upgrades incoming WebSocket requests and
// runs the connection's pumps until it drops.
type Handler struct {
	verifier contract.Verifier
	service  *chat.Service
	log      *slog.Logger
	upgrader websocket.Upgrader
}

func NewHandler(verifier contract.Verifier, service *chat.Service, allowedOrigins []string, log *slog.Logger) *Handler {
	checkOrigin := newOriginChecker(allowedOrigins, log)
	return &Handler{
		verifier: verifier,
		service:  service,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeHTTP performs the handshake. Authentication runs exactly once,
// before the upgrade: a rejected credential never creates any state.
// The token comes from the "token" query parameter or the Authorization
// header, the same format the REST layer accepts.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "websocket endpoint only accepts GET", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		token = r.Header.Get("Authorization")
	}
	identity, err := h.verifier.Verify(token)
	if err != nil {
		status := http.StatusUnauthorized
		if goerrors.Is(err, errors.ErrUnauthenticated) {
			h.log.Debug("connection without credential rejected", "remote", r.RemoteAddr)
		} else {
			h.log.Debug("connection with invalid credential rejected", "remote", r.RemoteAddr)
		}
		http.Error(w, err.Error(), status)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	client := NewClient(conn, h.log)
	session := h.service.NewSession(identity, client)
	h.log.Info("connection established", "identity", identity, "remote", r.RemoteAddr)

	go client.writePump()
	client.readPump(r.Context(), session)

	// The request context is tearing down; cleanup must still run.
	session.Disconnect(context.Background())
	client.Close()
	h.log.Info("connection closed", "identity", identity, "remote", r.RemoteAddr)
}
