package services

import (
	"testing"
	"time"

	"room-chat/auth"
	"room-chat/errors"
	"room-chat/repositories"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test_secret_key_for_unit_tests_only")

// fakeUsers is an in-memory stand-in for the Badger-backed repository.
type fakeUsers struct {
	users map[string]repositories.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]repositories.User)}
}

func (f *fakeUsers) CreateUser(username, hashedPassword string) error {
	if _, ok := f.users[username]; ok {
		return errors.ErrUserAlreadyExists
	}
	f.users[username] = repositories.User{Username: username, PasswordHash: hashedPassword, CreatedAt: time.Now().UTC()}
	return nil
}

func (f *fakeUsers) GetUser(username string) (repositories.User, error) {
	user, ok := f.users[username]
	if !ok {
		return repositories.User{}, errors.ErrInvalidCredentials
	}
	return user, nil
}

func TestAuthService_Register_Then_Login(t *testing.T) {
	req := require.New(t)
	users := newFakeUsers()
	service := NewAuthService(users, testSecret, time.Hour)

	// When alice registers
	req.NoError(service.Register("alice", "averygoodpassword"))

	// Then the stored hash is not the plain password
	stored := users.users["alice"]
	req.NotEqual("averygoodpassword", stored.PasswordHash)

	// And login issues a token that verifies to her identity
	token, err := service.Login("alice", "averygoodpassword")
	req.NoError(err)
	identity, err := auth.NewAuthenticator(testSecret).Verify(string(token))
	req.NoError(err)
	req.Equal("alice", identity.String())
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	req := require.New(t)
	service := NewAuthService(newFakeUsers(), testSecret, time.Hour)

	req.NoError(service.Register("alice", "averygoodpassword"))
	req.ErrorIs(service.Register("alice", "anotherpassword"), errors.ErrUserAlreadyExists)
}

func TestAuthService_Register_Invalid_Request(t *testing.T) {
	req := require.New(t)
	service := NewAuthService(newFakeUsers(), testSecret, time.Hour)

	req.ErrorIs(service.Register("", "averygoodpassword"), errors.ErrInvalidRegister)
	req.ErrorIs(service.Register("alice", "short"), errors.ErrInvalidRegister)
}

func TestAuthService_Login_Failures_Are_Uniform(t *testing.T) {
	req := require.New(t)
	service := NewAuthService(newFakeUsers(), testSecret, time.Hour)

	req.NoError(service.Register("alice", "averygoodpassword"))

	// Unknown user and wrong password are indistinguishable
	_, err := service.Login("nobody", "averygoodpassword")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
	_, err = service.Login("alice", "wrongpassword")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}
