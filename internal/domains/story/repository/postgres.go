package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storyshare-backend/internal/domains/story/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresStoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresStoryRepository(pool *pgxpool.Pool) StoryRepository {
	return &postgresStoryRepository{pool: pool}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresStoryRepository) Create(ctx context.Context, story *model.Story) error {
	query := `
		INSERT INTO stories (
			id, author_id, title, body, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		story.ID,
		story.AuthorID,
		story.Title,
		story.Body,
		story.Status,
		story.CreatedAt,
		story.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create story: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresStoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Story, error) {
	query := `
		SELECT
			id, author_id, title, body, status,
			created_at, updated_at
		FROM stories
		WHERE id = $1
	`

	story := &model.Story{}

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&story.ID,
		&story.AuthorID,
		&story.Title,
		&story.Body,
		&story.Status,
		&story.CreatedAt,
		&story.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	return story, nil
}

// =====================================================
// GET BY ID WITH AUTHOR
// =====================================================

func (r *postgresStoryRepository) GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*model.StoryWithAuthor, error) {
	query := `
		SELECT
			s.id, s.author_id, s.title, s.body, s.status,
			s.created_at, s.updated_at,
			u.id, u.display_name
		FROM stories s
		JOIN users u ON u.id = s.author_id
		WHERE s.id = $1
	`

	row := &model.StoryWithAuthor{}

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&row.Story.ID,
		&row.Story.AuthorID,
		&row.Story.Title,
		&row.Story.Body,
		&row.Story.Status,
		&row.Story.CreatedAt,
		&row.Story.UpdatedAt,
		&row.Author.ID,
		&row.Author.Name,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoryNotFound
		}
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	return row, nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresStoryRepository) Update(ctx context.Context, story *model.Story) error {
	// Only the mutable subset is written; author_id and created_at
	// stay whatever they were at creation. updated_at is bound from the
	// entity so the caller returns the same timestamp the row stores.
	query := `
		UPDATE stories
		SET
			title = $2,
			body = $3,
			status = $4,
			updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		story.ID,
		story.Title,
		story.Body,
		story.Status,
		story.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update story: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrStoryNotFound
	}

	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresStoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM stories WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrStoryNotFound
	}

	return nil
}

// =====================================================
// LIST PUBLIC
// =====================================================

func (r *postgresStoryRepository) ListPublic(ctx context.Context) ([]model.StoryWithAuthor, error) {
	// Full result set, newest first. No pagination by design.
	query := `
		SELECT
			s.id, s.author_id, s.title, s.body, s.status,
			s.created_at, s.updated_at,
			u.id, u.display_name
		FROM stories s
		JOIN users u ON u.id = s.author_id
		WHERE s.status = 'public'
		ORDER BY s.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list public stories: %w", err)
	}
	defer rows.Close()

	return scanStoriesWithAuthor(rows)
}

// =====================================================
// LIST PUBLIC BY AUTHOR
// =====================================================

func (r *postgresStoryRepository) ListPublicByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.StoryWithAuthor, error) {
	query := `
		SELECT
			s.id, s.author_id, s.title, s.body, s.status,
			s.created_at, s.updated_at,
			u.id, u.display_name
		FROM stories s
		JOIN users u ON u.id = s.author_id
		WHERE s.author_id = $1 AND s.status = 'public'
		ORDER BY s.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories by author: %w", err)
	}
	defer rows.Close()

	return scanStoriesWithAuthor(rows)
}

// =====================================================
// LIST BY AUTHOR (OWN DASHBOARD)
// =====================================================

func (r *postgresStoryRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.StoryWithAuthor, error) {
	query := `
		SELECT
			s.id, s.author_id, s.title, s.body, s.status,
			s.created_at, s.updated_at,
			u.id, u.display_name
		FROM stories s
		JOIN users u ON u.id = s.author_id
		WHERE s.author_id = $1
		ORDER BY s.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories by author: %w", err)
	}
	defer rows.Close()

	return scanStoriesWithAuthor(rows)
}

// scanStoriesWithAuthor drains rows from any of the listing queries.
// An empty result scans to an empty slice, never an error.
func scanStoriesWithAuthor(rows pgx.Rows) ([]model.StoryWithAuthor, error) {
	stories := make([]model.StoryWithAuthor, 0)

	for rows.Next() {
		var row model.StoryWithAuthor

		err := rows.Scan(
			&row.Story.ID,
			&row.Story.AuthorID,
			&row.Story.Title,
			&row.Story.Body,
			&row.Story.Status,
			&row.Story.CreatedAt,
			&row.Story.UpdatedAt,
			&row.Author.ID,
			&row.Author.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}

		stories = append(stories, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stories: %w", err)
	}

	return stories, nil
}
