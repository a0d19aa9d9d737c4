package repository

import (
	"context"

	"github.com/google/uuid"

	"storyshare-backend/internal/domains/user/model"
)

// =====================================================
// USER REPOSITORY INTERFACE
// =====================================================

type UserRepository interface {
	// Create inserts a new user; ErrEmailTaken on duplicate email
	Create(ctx context.Context, user *model.User) error

	// GetByID gets a user by id
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByEmail gets a user by email (login path)
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateProfile updates the mutable profile fields
	UpdateProfile(ctx context.Context, user *model.User) error
}
