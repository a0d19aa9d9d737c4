package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"storyshare-backend/internal/domains/story/model"
	"storyshare-backend/internal/domains/story/repository"
	"storyshare-backend/pkg/cache"
	"storyshare-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type storyService struct {
	storyRepo repository.StoryRepository
	cache     cache.Cache
	feedTTL   time.Duration
}

func NewStoryService(
	storyRepo repository.StoryRepository,
	cache cache.Cache,
	feedTTL time.Duration,
) ServiceInterface {
	return &storyService{
		storyRepo: storyRepo,
		cache:     cache,
		feedTTL:   feedTTL,
	}
}

// mustOwn is the one authorization predicate for all mutating paths
// (edit view, update, delete). Ownership is uuid value equality -
// one canonical comparison, never duplicated at call sites.
func (s *storyService) mustOwn(story *model.Story, actingUserID uuid.UUID) error {
	if !story.IsOwnedBy(actingUserID) {
		return model.NewNotStoryOwnerError()
	}
	return nil
}

// invalidateFeed drops the cached public feed after any mutation.
// Cache failures are logged and swallowed - the feed TTL bounds staleness.
func (s *storyService) invalidateFeed(ctx context.Context) {
	if err := s.cache.Delete(ctx, model.PublicFeedCacheKey); err != nil {
		logger.Error("failed to invalidate public feed cache", err)
	}
}

// =====================================================
// CREATE STORY
// =====================================================

func (s *storyService) CreateStory(
	ctx context.Context,
	actingUserID uuid.UUID,
	req model.CreateStoryRequest,
) (*model.StoryResponse, error) {
	// Step 1: Validate request (title/body non-empty, status one of
	// public|private - unknown or missing status is rejected here)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Build entity - owner bound from the acting identity,
	// fresh id, created_at stamped. All three are immutable from now on.
	now := time.Now()
	story := &model.Story{
		ID:        uuid.New(),
		AuthorID:  actingUserID,
		Title:     req.Title,
		Body:      req.Body,
		Status:    model.Status(req.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Step 3: Persist
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	// Step 4: A new public story changes the feed
	s.invalidateFeed(ctx)

	// Step 5: Build response. The author is the caller; the profile
	// name is resolved on reads, so only the id is echoed here.
	response := model.NewStoryResponse(story, model.AuthorInfo{ID: actingUserID})
	return &response, nil
}

// =====================================================
// GET STORY
// =====================================================

func (s *storyService) GetStory(
	ctx context.Context,
	storyID uuid.UUID,
) (*model.StoryResponse, error) {
	row, err := s.storyRepo.GetByIDWithAuthor(ctx, storyID)
	if err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			return nil, model.NewStoryNotFoundError()
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	response := model.NewStoryResponse(&row.Story, row.Author)
	return &response, nil
}

// =====================================================
// GET STORY FOR EDIT
// =====================================================

func (s *storyService) GetStoryForEdit(
	ctx context.Context,
	actingUserID, storyID uuid.UUID,
) (*model.StoryResponse, error) {
	// Step 1: Fetch
	row, err := s.storyRepo.GetByIDWithAuthor(ctx, storyID)
	if err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			return nil, model.NewStoryNotFoundError()
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	// Step 2: Ownership check
	if err := s.mustOwn(&row.Story, actingUserID); err != nil {
		return nil, err
	}

	response := model.NewStoryResponse(&row.Story, row.Author)
	return &response, nil
}

// =====================================================
// UPDATE STORY
// =====================================================

// UpdateStory replaces the mutable subset in place. The fetch/check/write
// sequence is intentionally not wrapped in a transaction: two concurrent
// updates by the same owner can race to a lost update, which is acceptable
// for single-owner edits and mirrors the original behavior.
func (s *storyService) UpdateStory(
	ctx context.Context,
	actingUserID, storyID uuid.UUID,
	req model.UpdateStoryRequest,
) (*model.StoryResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Fetch existing story
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			return nil, model.NewStoryNotFoundError()
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	// Step 3: Ownership check
	if err := s.mustOwn(story, actingUserID); err != nil {
		return nil, err
	}

	// Step 4: Whole-record replace of the mutable subset.
	// id, author_id, created_at are untouched.
	story.Title = req.Title
	story.Body = req.Body
	story.Status = model.Status(req.Status)
	story.UpdatedAt = time.Now()

	// Step 5: Persist
	if err := s.storyRepo.Update(ctx, story); err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			// Deleted between fetch and write
			return nil, model.NewStoryNotFoundError()
		}
		return nil, fmt.Errorf("failed to update story: %w", err)
	}

	// Step 6: Visibility may have flipped
	s.invalidateFeed(ctx)

	response := model.NewStoryResponse(story, model.AuthorInfo{ID: story.AuthorID})
	return &response, nil
}

// =====================================================
// DELETE STORY
// =====================================================

func (s *storyService) DeleteStory(
	ctx context.Context,
	actingUserID, storyID uuid.UUID,
) error {
	// Step 1: Fetch story
	story, err := s.storyRepo.GetByID(ctx, storyID)
	if err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			// Second delete of the same id lands here - not an error
			// worth distinguishing, just not found.
			return model.NewStoryNotFoundError()
		}
		return fmt.Errorf("failed to get story: %w", err)
	}

	// Step 2: Ownership check
	if err := s.mustOwn(story, actingUserID); err != nil {
		return err
	}

	// Step 3: Permanent removal
	if err := s.storyRepo.Delete(ctx, storyID); err != nil {
		if errors.Is(err, model.ErrStoryNotFound) {
			return model.NewStoryNotFoundError()
		}
		return fmt.Errorf("failed to delete story: %w", err)
	}

	// Step 4: Drop the id from the feed
	s.invalidateFeed(ctx)

	return nil
}

// =====================================================
// LIST PUBLIC STORIES
// =====================================================

func (s *storyService) ListPublicStories(ctx context.Context) (*model.ListStoriesResponse, error) {
	// Step 1: Try the cache first
	var cached model.ListStoriesResponse
	found, err := s.cache.Get(ctx, model.PublicFeedCacheKey, &cached)
	if err != nil {
		// Cache trouble must not take down the listing
		logger.Error("public feed cache read failed", err)
	}
	if found {
		return &cached, nil
	}

	// Step 2: Load from the database
	rows, err := s.storyRepo.ListPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list public stories: %w", err)
	}

	response := buildListResponse(rows)

	// Step 3: Populate the cache for the next caller
	if err := s.cache.Set(ctx, model.PublicFeedCacheKey, response, s.feedTTL); err != nil {
		logger.Error("public feed cache write failed", err)
	}

	return response, nil
}

// =====================================================
// LIST STORIES BY AUTHOR
// =====================================================

func (s *storyService) ListStoriesByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
) (*model.ListStoriesResponse, error) {
	// Public-only, even for the author themselves. Their private
	// stories are a dashboard concern (ListMyStories), not this path's.
	rows, err := s.storyRepo.ListPublicByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories by author: %w", err)
	}

	return buildListResponse(rows), nil
}

// =====================================================
// LIST MY STORIES (DASHBOARD)
// =====================================================

func (s *storyService) ListMyStories(
	ctx context.Context,
	actingUserID uuid.UUID,
) (*model.ListStoriesResponse, error) {
	rows, err := s.storyRepo.ListByAuthor(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list own stories: %w", err)
	}

	return buildListResponse(rows), nil
}

// buildListResponse flattens repository rows into the response DTO.
// An empty result is an empty list, never an error.
func buildListResponse(rows []model.StoryWithAuthor) *model.ListStoriesResponse {
	stories := make([]model.StoryResponse, 0, len(rows))
	for i := range rows {
		stories = append(stories, model.NewStoryResponse(&rows[i].Story, rows[i].Author))
	}

	return &model.ListStoriesResponse{
		Stories: stories,
		Total:   len(stories),
	}
}
