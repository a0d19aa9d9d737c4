package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storyshare-backend/internal/domains/user/model"
	"storyshare-backend/internal/domains/user/repository"
	"storyshare-backend/pkg/jwt"
)

// bcrypt cost 12: balance between security and login latency
const bcryptCost = 12

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type userService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(userRepo repository.UserRepository, jwtManager *jwt.Manager) ServiceInterface {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

// =====================================================
// REGISTER
// =====================================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	// Step 1: Normalize, then validate. Emails are lowercased before
	// validation so case variants pass the same checks they are stored
	// under, and the unique index catches them.
	req.Email = normalizeEmail(req.Email)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Hash password
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Build entity
	now := time.Now()
	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		DisplayName:  req.DisplayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Step 4: Persist
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	dto := model.NewUserDTO(user)
	return &dto, nil
}

// =====================================================
// LOGIN
// =====================================================

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	// Step 1: Normalize, then validate
	req.Email = normalizeEmail(req.Email)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Look up the account
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Same answer as a wrong password
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Step 3: Verify password (constant-time comparison)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	// Step 4: Issue tokens
	return s.issueTokens(user)
}

// =====================================================
// REFRESH TOKEN
// =====================================================

func (s *userService) RefreshToken(ctx context.Context, req model.RefreshTokenRequest) (*model.LoginResponse, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Validate the refresh token
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	// Step 3: The account must still exist
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Step 4: Issue a fresh pair
	return s.issueTokens(user)
}

// =====================================================
// GET PROFILE
// =====================================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	dto := model.NewUserDTO(user)
	return &dto, nil
}

// =====================================================
// UPDATE PROFILE
// =====================================================

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Fetch the account
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserNotFoundError()
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Step 3: Apply and persist
	user.DisplayName = req.DisplayName
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	dto := model.NewUserDTO(user)
	return &dto, nil
}

// normalizeEmail is the canonical stored form: trimmed, lowercased.
// Applied before validation so the checked value is the stored value.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueTokens builds a LoginResponse with a fresh access/refresh pair.
func (s *userService) issueTokens(user *model.User) (*model.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read back access token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    claims.ExpiresAt.Time,
		User:         model.NewUserDTO(user),
	}, nil
}
