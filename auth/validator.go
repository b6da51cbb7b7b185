package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterRequest carries the registration form fields. The plaintext
// password is transient: hashed by the service, never persisted.
type RegisterRequest struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=8,max=72"`
	Name     string `validate:"required,max=128"`
	Address  string `validate:"max=256"`
	Age      int    `validate:"omitempty,gte=0,lte=150"`
	Phone    string `validate:"max=32"`
}

type LoginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

func ValidateRegister(req RegisterRequest) error {
	return validate.Struct(req)
}

func ValidateLogin(req LoginRequest) error {
	return validate.Struct(req)
}
