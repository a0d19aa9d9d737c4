package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateStoryRequest - payload for creating a story.
// Status is deliberately required: an absent or unknown value is a
// validation error, never silently defaulted, so a story can't end up
// with a visibility its author didn't choose.
type CreateStoryRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

func (r CreateStoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.Body,
			validation.Required.Error("body is required"),
			validation.Length(1, MaxBodyLength),
		),
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(string(StatusPublic), string(StatusPrivate)).
				Error("status must be public or private"),
		),
	)
}

// UpdateStoryRequest - payload for editing a story.
// This is a whole-record replace of the mutable subset: title, body and
// status are always supplied together. There is no partial update.
type UpdateStoryRequest struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}

func (r UpdateStoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, MaxTitleLength),
		),
		validation.Field(&r.Body,
			validation.Required.Error("body is required"),
			validation.Length(1, MaxBodyLength),
		),
		validation.Field(&r.Status,
			validation.Required.Error("status is required"),
			validation.In(string(StatusPublic), string(StatusPrivate)).
				Error("status must be public or private"),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// AuthorInfo - the owner's public profile fields, flattened into story
// responses the way the source app "populates" the user reference.
type AuthorInfo struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	// Email deliberately not exposed
}

// StoryWithAuthor is the read model the repository returns for listing
// and detail queries: the story row joined with its author's profile.
type StoryWithAuthor struct {
	Story  Story
	Author AuthorInfo
}

// StoryResponse response for a single story
type StoryResponse struct {
	ID     uuid.UUID  `json:"id"`
	Title  string     `json:"title"`
	Body   string     `json:"body"`
	Status Status     `json:"status"`
	Author AuthorInfo `json:"author"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListStoriesResponse response for listing endpoints
type ListStoriesResponse struct {
	Stories []StoryResponse `json:"stories"`
	Total   int             `json:"total"`
}

// NewStoryResponse flattens an entity plus its resolved author.
func NewStoryResponse(st *Story, author AuthorInfo) StoryResponse {
	return StoryResponse{
		ID:        st.ID,
		Title:     st.Title,
		Body:      st.Body,
		Status:    st.Status,
		Author:    author,
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}
