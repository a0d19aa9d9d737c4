package service

import (
	"context"

	"github.com/google/uuid"

	"storyshare-backend/internal/domains/user/model"
)

// =====================================================
// USER SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// Register creates a new account
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)

	// Login verifies credentials and issues a JWT pair
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)

	// RefreshToken exchanges a refresh token for a new JWT pair
	RefreshToken(ctx context.Context, req model.RefreshTokenRequest) (*model.LoginResponse, error)

	// GetProfile gets the caller's own profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error)

	// UpdateProfile updates the caller's display name
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error)
}
