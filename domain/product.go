// Package domain contains core concepts of the marketplace chat system.
// This file defines Product listings shared between connected clients.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a listing in the shared catalog. Same lifecycle as Message:
// created by a connected client, appended, never mutated.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}
