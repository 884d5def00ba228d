package httpapi

import (
	"net/http"
)

// RouterDeps carries everything the router mounts. The WebSocket
// handler arrives as a plain http.Handler so this package stays
// transport-agnostic.
type RouterDeps struct {
	Middleware *Middleware
	Auth       *AuthAPI
	Search     *SearchAPI
	WebSocket  http.Handler
	PublicDir  string
}

// NewRouter wires routes, middleware, and the static frontend.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.Handle("/ws", deps.WebSocket)

	mux.Handle("POST /api/auth/register", http.HandlerFunc(deps.Auth.Register))
	mux.Handle("POST /api/auth/login", http.HandlerFunc(deps.Auth.Login))
	mux.Handle("GET /api/me", deps.Middleware.Auth(http.HandlerFunc(deps.Auth.Me)))
	mux.Handle("GET /api/search", deps.Middleware.Auth(http.HandlerFunc(deps.Search.Search)))

	// Thin static delivery for the bundled frontend.
	if deps.PublicDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(deps.PublicDir)))
	}

	return deps.Middleware.Wrap(mux)
}
