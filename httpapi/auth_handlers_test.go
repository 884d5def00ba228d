package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"room-chat/domain"
	"room-chat/errors"
	"room-chat/mocks"
	"room-chat/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthAPI_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockIAuthService(ctrl)
	api := NewAuthAPI(mockService, slog.Default())

	t.Run("should return the token when credentials are valid", func(t *testing.T) {
		req := require.New(t)
		mockService.EXPECT().
			Login("alice", "s3cret-pass").
			Return(services.Token("signed-token"), nil).
			Times(1)

		recorder := httptest.NewRecorder()
		api.Login(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"alice","password":"s3cret-pass"}`)))

		req.Equal(http.StatusOK, recorder.Code)
		var body map[string]string
		req.NoError(json.Unmarshal(recorder.Body.Bytes(), &body))
		req.Equal("signed-token", body["token"])
	})

	t.Run("should answer 401 on invalid credentials", func(t *testing.T) {
		req := require.New(t)
		mockService.EXPECT().
			Login("alice", "wrong").
			Return(services.Token(""), errors.ErrInvalidCredentials).
			Times(1)

		recorder := httptest.NewRecorder()
		api.Login(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"username":"alice","password":"wrong"}`)))

		req.Equal(http.StatusUnauthorized, recorder.Code)
	})
}

func TestAuthAPI_Register_Duplicate_Answers_Conflict(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mocks.NewMockIAuthService(ctrl)
	api := NewAuthAPI(mockService, slog.Default())

	mockService.EXPECT().
		Register("alice", "s3cret-pass").
		Return(errors.ErrUserAlreadyExists).
		Times(1)

	recorder := httptest.NewRecorder()
	api.Register(recorder, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"username":"alice","password":"s3cret-pass"}`)))

	req.Equal(http.StatusConflict, recorder.Code)
}

func TestMiddleware_Auth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	verifier := mocks.NewMockVerifier(ctrl)
	middleware := NewMiddleware(verifier, []string{"*"})

	t.Run("should reject a bad token before the handler runs", func(t *testing.T) {
		req := require.New(t)
		verifier.EXPECT().
			Verify("Bearer bad").
			Return(domain.Identity(""), errors.ErrInvalidCredential).
			Times(1)

		handlerRan := false
		handler := middleware.Auth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			handlerRan = true
		}))

		request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		request.Header.Set("Authorization", "Bearer bad")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		req.Equal(http.StatusUnauthorized, recorder.Code)
		req.False(handlerRan)
	})

	t.Run("should expose the identity to the handler", func(t *testing.T) {
		req := require.New(t)
		verifier.EXPECT().
			Verify("Bearer good").
			Return(domain.Identity("alice"), nil).
			Times(1)

		handler := middleware.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			req.True(ok)
			req.Equal(domain.Identity("alice"), identity)
		}))

		request := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		request.Header.Set("Authorization", "Bearer good")
		handler.ServeHTTP(httptest.NewRecorder(), request)
	})
}
