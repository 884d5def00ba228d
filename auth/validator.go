package auth

import (
	"fmt"

	"room-chat/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest is the registration payload.
// Usernames become identities, so they are constrained here once and
// never re-validated downstream.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRegister, err)
	}
	return nil
}
