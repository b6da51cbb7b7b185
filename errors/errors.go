package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrNoSession          = fmt.Errorf("no session")
	ErrInvalidRequest     = fmt.Errorf("invalid request")
	ErrNotFound           = fmt.Errorf("not found")
)
