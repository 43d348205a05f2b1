package service

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP
// statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAuthorRequired     = errors.New("recipe author is required")
	ErrConflict           = errors.New("conflicts with existing data")
	ErrInvalidInput       = errors.New("invalid input")
)
