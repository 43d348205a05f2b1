package utils

import "github.com/google/uuid"

// NewSessionToken returns a random 128-bit token in canonical UUID form.
func NewSessionToken() string {
	return uuid.NewString()
}
