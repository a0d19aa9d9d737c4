package model

import (
	"time"

	"github.com/google/uuid"
)

// Story is the domain entity - one user-authored text post.
// AuthorID is bound at creation from the acting identity and never changes;
// ID and CreatedAt are likewise immutable for the story's lifetime.
type Story struct {
	ID       uuid.UUID `json:"id"`
	AuthorID uuid.UUID `json:"author_id"`

	// Content
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status Status `json:"status"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status controls listing visibility. Two values, no further state machine;
// the owner may flip public<->private freely via update.
type Status string

const (
	StatusPublic  Status = "public"
	StatusPrivate Status = "private"
)

// IsValid reports whether the status is one of the two allowed values.
// Unknown values are rejected at validation, never defaulted.
func (s Status) IsValid() bool {
	return s == StatusPublic || s == StatusPrivate
}

// String implements Stringer interface
func (s Status) String() string {
	return string(s)
}

// IsPublic reports whether the story appears in public listings.
func (st Story) IsPublic() bool {
	return st.Status == StatusPublic
}

// IsOwnedBy is the single ownership predicate. Every mutating path
// (edit view, update, delete) must go through this comparison so the
// rule cannot drift between call sites.
func (st Story) IsOwnedBy(userID uuid.UUID) bool {
	return st.AuthorID == userID
}
