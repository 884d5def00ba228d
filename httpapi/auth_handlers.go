// Package httpapi exposes the REST surface around the chat core:
// account registration and login, the identity probe, and message
// search. The real-time traffic lives in package ws.
package httpapi

import (
	"encoding/json"
	goerrors "errors"
	"log/slog"
	"net/http"

	"room-chat/errors"
	"room-chat/services"
)

type AuthAPI struct {
	service services.IAuthService
	log     *slog.Logger
}

func NewAuthAPI(service services.IAuthService, log *slog.Logger) *AuthAPI {
	return &AuthAPI{service: service, log: log}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates an account. Duplicate usernames answer 409, invalid
// payloads 400. The response carries no token: the client logs in next.
func (a *AuthAPI) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := a.service.Register(req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case goerrors.Is(err, errors.ErrUserAlreadyExists):
		writeError(w, http.StatusConflict, "username already taken")
	case goerrors.Is(err, errors.ErrInvalidRegister):
		writeError(w, http.StatusBadRequest, "username and password required")
	default:
		a.log.Error("registration failed", "err", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

// Login verifies the credentials and issues the session token consumed
// by both the REST layer and the WebSocket handshake.
func (a *AuthAPI) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := a.service.Login(req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"token": string(token)})
	case goerrors.Is(err, errors.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		a.log.Error("login failed", "err", err)
		writeError(w, http.StatusInternalServerError, "server error")
	}
}

// Me answers the authenticated username. Mostly a token sanity probe.
func (a *AuthAPI) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": identity.String()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
