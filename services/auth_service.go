//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"
	"time"

	"room-chat/auth"
	"room-chat/errors"
	"room-chat/repositories"
)

type IAuthService interface {
	Register(username, password string) error
	Login(username, password string) (Token, error)
}

type AuthService struct {
	users    repositories.IUserRepository
	secret   []byte
	tokenTTL time.Duration
}

type Token string

func NewAuthService(users repositories.IUserRepository, secret []byte, tokenTTL time.Duration) IAuthService {
	return &AuthService{users: users, secret: secret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(username, password string) error {
	// Validate business rules before any expensive cryptographic work.
	if err := auth.ValidateRegister(auth.RegisterRequest{Username: username, Password: password}); err != nil {
		return err
	}

	// Hashing happens in the service layer so the repository never sees
	// a plain password.
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing failed: %w", err)
	}

	// Propagates ErrUserAlreadyExists when the username is taken.
	return s.users.CreateUser(username, hashedPassword)
}

func (s *AuthService) Login(username, password string) (Token, error) {
	user, err := s.users.GetUser(username)
	if err != nil {
		// Generic error to prevent user enumeration attacks
		return "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return "", errors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.Username, s.secret, s.tokenTTL)
	if err != nil {
		return "", errors.ErrTokenGeneration
	}
	return Token(token), nil
}
