// Package domain contains core concepts of the marketplace chat system.
// This file defines the User account record.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. PasswordHash is the only credential
// material ever stored; the plaintext password never leaves the
// registration or login request.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Age          int       `json:"age"`
	Phone        string    `json:"phone"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
}
