package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyshare-backend/internal/domains/user/model"
	"storyshare-backend/pkg/jwt"
)

// =====================================================
// TEST FAKES
// =====================================================

// fakeUserRepo is an in-memory UserRepository with the same unique
// email semantics as the postgres implementation.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]*model.User
	byEmail map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[uuid.UUID]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, taken := f.byEmail[user.Email]; taken {
		return model.ErrEmailTaken
	}
	cp := *user
	f.byID[user.ID] = &cp
	f.byEmail[user.Email] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byEmail[email]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.byID[user.ID]
	if !ok {
		return model.ErrUserNotFound
	}
	existing.DisplayName = user.DisplayName
	existing.UpdatedAt = user.UpdatedAt
	return nil
}

func newTestUserService(t *testing.T) (ServiceInterface, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, jwt.NewManager("test-secret", 15*time.Minute, 72*time.Hour))
	return svc, repo
}

func registerUser(t *testing.T, svc ServiceInterface, email string) *model.UserDTO {
	t.Helper()
	dto, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:       email,
		Password:    "correct-horse",
		DisplayName: "Ada",
	})
	require.NoError(t, err)
	return dto
}

// =====================================================
// REGISTER
// =====================================================

func TestRegister(t *testing.T) {
	svc, repo := newTestUserService(t)

	dto := registerUser(t, svc, "Ada@Example.com")

	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.Equal(t, "ada@example.com", dto.Email, "emails are stored lowercased")
	assert.Equal(t, "Ada", dto.DisplayName)

	stored, err := repo.GetByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash, "password must never be stored in the clear")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)
	registerUser(t, svc, "ada@example.com")

	// Case variants collide with the stored lowercase form
	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Email:       "ADA@example.com",
		Password:    "correct-horse",
		DisplayName: "Impostor",
	})
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestUserService(t)

	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"bad email", model.RegisterRequest{Email: "not-an-email", Password: "correct-horse", DisplayName: "Ada"}},
		{"short password", model.RegisterRequest{Email: "ada@example.com", Password: "short", DisplayName: "Ada"}},
		{"missing name", model.RegisterRequest{Email: "ada@example.com", Password: "correct-horse"}},
		{"name too long", model.RegisterRequest{Email: "ada@example.com", Password: "correct-horse", DisplayName: strings.Repeat("x", 101)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

// =====================================================
// LOGIN
// =====================================================

func TestLogin(t *testing.T) {
	svc, _ := newTestUserService(t)
	registerUser(t, svc, "ada@example.com")

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	assert.Equal(t, "ada@example.com", resp.User.Email)
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc, _ := newTestUserService(t)
	registerUser(t, svc, "ada@example.com")

	// Case and whitespace variants reach the same account
	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "  Ada@EXAMPLE.com ",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", resp.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestUserService(t)
	registerUser(t, svc, "ada@example.com")

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong-horse",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameAnswerAsWrongPassword(t *testing.T) {
	svc, _ := newTestUserService(t)

	// Unknown account and wrong password are indistinguishable to the caller
	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

// =====================================================
// REFRESH
// =====================================================

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestUserService(t)
	registerUser(t, svc, "ada@example.com")

	login, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), model.RefreshTokenRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, _ := newTestUserService(t)
	registerUser(t, svc, "ada@example.com")

	login, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), model.RefreshTokenRequest{
		RefreshToken: login.AccessToken,
	})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

// =====================================================
// PROFILE
// =====================================================

func TestGetProfile(t *testing.T) {
	svc, _ := newTestUserService(t)
	dto := registerUser(t, svc, "ada@example.com")

	got, err := svc.GetProfile(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, repo := newTestUserService(t)
	dto := registerUser(t, svc, "ada@example.com")

	updated, err := svc.UpdateProfile(context.Background(), dto.ID, model.UpdateProfileRequest{
		DisplayName: "Countess",
	})
	require.NoError(t, err)
	assert.Equal(t, "Countess", updated.DisplayName)

	stored, err := repo.GetByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "Countess", stored.DisplayName)
}
