package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity behind every story. The story domain only ever
// sees the id (as owner) and the display name (for author profiles).
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`

	// Authentication
	PasswordHash string `json:"-"` // Never expose in JSON

	// Profile
	DisplayName string `json:"display_name"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
