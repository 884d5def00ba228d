package auth

import (
	"strings"
	"testing"
	"time"

	"room-chat/domain"
	"room-chat/errors"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test_secret_key_for_unit_tests_only")

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("wrong password", hash)
	req.NoError(err)
	req.False(match)
}

func TestComparePassword_Invalid_Hash_Format(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "not-a-hash")
	req.Error(err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice", testSecret, time.Hour)
	req.NoError(err)

	claims, err := ValidateToken(token, testSecret)
	req.NoError(err)
	req.Equal("alice", claims.Username)
}

func TestValidateToken_Rejects_Wrong_Secret(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice", testSecret, time.Hour)
	req.NoError(err)

	_, err = ValidateToken(token, []byte("a_completely_different_secret"))
	req.Error(err)
}

func TestValidateToken_Rejects_Expired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken("alice", testSecret, -time.Minute)
	req.NoError(err)

	_, err = ValidateToken(token, testSecret)
	req.Error(err)
}

func TestAuthenticator_Verify(t *testing.T) {
	req := require.New(t)
	authenticator := NewAuthenticator(testSecret)

	token, err := GenerateToken("alice", testSecret, time.Hour)
	req.NoError(err)

	tests := []struct {
		name     string
		token    string
		identity domain.Identity
		wantErr  error
	}{
		{"Valid token", token, "alice", nil},
		{"Valid token with bearer prefix", "Bearer " + token, "alice", nil},
		{"Missing token", "", "", errors.ErrUnauthenticated},
		{"Blank token", "   ", "", errors.ErrUnauthenticated},
		{"Garbage token", "not.a.token", "", errors.ErrInvalidCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := authenticator.Verify(tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.identity, identity)
		})
	}
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr bool
	}{
		{"Valid request", RegisterRequest{"alice", "longenoughpass"}, false},
		{"Username too short", RegisterRequest{"al", "longenoughpass"}, true},
		{"Username not alphanumeric", RegisterRequest{"al ice!", "longenoughpass"}, true},
		{"Missing password", RegisterRequest{"alice", ""}, true},
		{"Password too short", RegisterRequest{"alice", "short"}, true},
		{"Password too long", RegisterRequest{"alice", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

// BenchmarkHashPassword measures the CPU cost of a registration.
func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("a-long-password-for-benchmarking")
	}
}
