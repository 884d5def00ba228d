package errors

import "fmt"

var (
	// Handshake failures. Both are terminal for the connection:
	// no room state exists before authentication succeeds.
	ErrUnauthenticated   = fmt.Errorf("no credential presented")
	ErrInvalidCredential = fmt.Errorf("invalid or expired credential")

	// ErrEmptyMessage is returned when a message is empty after trimming.
	// Nothing is persisted and nothing is broadcast.
	ErrEmptyMessage = fmt.Errorf("empty message")

	ErrUserAlreadyExists  = fmt.Errorf("username already taken")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidRegister    = fmt.Errorf("invalid registration request")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)
