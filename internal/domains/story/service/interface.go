package service

import (
	"context"

	"github.com/google/uuid"

	"storyshare-backend/internal/domains/story/model"
)

// =====================================================
// STORY SERVICE INTERFACE
// =====================================================

// ServiceInterface is the Story Store: every operation takes the acting
// user id explicitly - identity is never read from ambient state, so the
// core stays testable without a simulated session.
type ServiceInterface interface {
	// CreateStory creates a story owned by the acting user
	CreateStory(ctx context.Context, actingUserID uuid.UUID, req model.CreateStoryRequest) (*model.StoryResponse, error)

	// GetStory gets a story by id with its author resolved.
	// No visibility filter: any authenticated user may fetch any story
	// by id, public or private (the source app's deliberate policy).
	GetStory(ctx context.Context, storyID uuid.UUID) (*model.StoryResponse, error)

	// GetStoryForEdit gets a story for the edit form; owner only
	GetStoryForEdit(ctx context.Context, actingUserID, storyID uuid.UUID) (*model.StoryResponse, error)

	// UpdateStory replaces title/body/status; owner only
	UpdateStory(ctx context.Context, actingUserID, storyID uuid.UUID, req model.UpdateStoryRequest) (*model.StoryResponse, error)

	// DeleteStory permanently removes a story; owner only
	DeleteStory(ctx context.Context, actingUserID, storyID uuid.UUID) error

	// ListPublicStories lists every public story, newest first
	ListPublicStories(ctx context.Context) (*model.ListStoriesResponse, error)

	// ListStoriesByAuthor lists one user's public stories. The
	// public-only filter applies even when the caller is the author;
	// private stories are only reachable through ListMyStories.
	ListStoriesByAuthor(ctx context.Context, authorID uuid.UUID) (*model.ListStoriesResponse, error)

	// ListMyStories lists the acting user's own stories, private included
	ListMyStories(ctx context.Context, actingUserID uuid.UUID) (*model.ListStoriesResponse, error)
}
