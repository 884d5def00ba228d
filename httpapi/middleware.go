package httpapi

import (
	"context"
	"net/http"

	"room-chat/contract"
	"room-chat/domain"

	"github.com/rs/cors"
)

type contextKey int

const identityKey contextKey = 1

// IdentityFrom extracts the authenticated identity set by the Auth
// middleware. The bool is false on unauthenticated requests.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

type Middleware struct {
	cors     *cors.Cors
	verifier contract.Verifier
}

func NewMiddleware(verifier contract.Verifier, allowedOrigins []string) *Middleware {
	return &Middleware{
		cors: cors.New(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}),
		verifier: verifier,
	}
}

// Wrap applies CORS to the whole API surface.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return m.cors.Handler(next)
}

// Auth rejects requests whose bearer token does not verify. The same
// token format is accepted here and at the WebSocket handshake.
func (m *Middleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.verifier.Verify(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, identity)))
	})
}
