package repository

import (
	"context"

	"github.com/google/uuid"

	"storyshare-backend/internal/domains/story/model"
)

// =====================================================
// STORY REPOSITORY INTERFACE
// =====================================================

type StoryRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Create inserts a new story
	Create(ctx context.Context, story *model.Story) error

	// GetByID gets the bare story row (no author join).
	// Used by the ownership checks before update/delete.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Story, error)

	// GetByIDWithAuthor gets a story with its author profile resolved
	GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*model.StoryWithAuthor, error)

	// Update overwrites the mutable subset (title, body, status).
	// id, author_id and created_at are never touched.
	Update(ctx context.Context, story *model.Story) error

	// Delete permanently removes a story. No soft delete, no tombstone.
	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// LIST Operations
	// ========================================

	// ListPublic lists all public stories, newest first, authors resolved
	ListPublic(ctx context.Context) ([]model.StoryWithAuthor, error)

	// ListPublicByAuthor lists one user's public stories, newest first
	ListPublicByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.StoryWithAuthor, error)

	// ListByAuthor lists all of one user's stories including private,
	// newest first. Serves the owner's own dashboard view only.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.StoryWithAuthor, error)
}
