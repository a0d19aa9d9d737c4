package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyshare-backend/internal/domains/story/model"
)

// =====================================================
// TEST FAKES
// =====================================================

// fakeStoryRepo is an in-memory StoryRepository. Listing results are
// sorted newest first, matching the SQL ORDER BY.
type fakeStoryRepo struct {
	mu              sync.Mutex
	stories         map[uuid.UUID]*model.Story
	authorNames     map[uuid.UUID]string
	listPublicCalls int
}

func newFakeStoryRepo() *fakeStoryRepo {
	return &fakeStoryRepo{
		stories:     make(map[uuid.UUID]*model.Story),
		authorNames: make(map[uuid.UUID]string),
	}
}

func (f *fakeStoryRepo) Create(_ context.Context, story *model.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cp := *story
	f.stories[story.ID] = &cp
	return nil
}

func (f *fakeStoryRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Story, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.stories[id]
	if !ok {
		return nil, model.ErrStoryNotFound
	}
	cp := *st
	return &cp, nil
}

func (f *fakeStoryRepo) GetByIDWithAuthor(_ context.Context, id uuid.UUID) (*model.StoryWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, ok := f.stories[id]
	if !ok {
		return nil, model.ErrStoryNotFound
	}
	return &model.StoryWithAuthor{
		Story:  *st,
		Author: model.AuthorInfo{ID: st.AuthorID, Name: f.authorNames[st.AuthorID]},
	}, nil
}

func (f *fakeStoryRepo) Update(_ context.Context, story *model.Story) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.stories[story.ID]
	if !ok {
		return model.ErrStoryNotFound
	}
	existing.Title = story.Title
	existing.Body = story.Body
	existing.Status = story.Status
	existing.UpdatedAt = story.UpdatedAt
	return nil
}

func (f *fakeStoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.stories[id]; !ok {
		return model.ErrStoryNotFound
	}
	delete(f.stories, id)
	return nil
}

func (f *fakeStoryRepo) ListPublic(_ context.Context) ([]model.StoryWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listPublicCalls++
	return f.collect(func(st *model.Story) bool { return st.IsPublic() }), nil
}

func (f *fakeStoryRepo) ListPublicByAuthor(_ context.Context, authorID uuid.UUID) ([]model.StoryWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.collect(func(st *model.Story) bool {
		return st.IsPublic() && st.AuthorID == authorID
	}), nil
}

func (f *fakeStoryRepo) ListByAuthor(_ context.Context, authorID uuid.UUID) ([]model.StoryWithAuthor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.collect(func(st *model.Story) bool { return st.AuthorID == authorID }), nil
}

func (f *fakeStoryRepo) collect(keep func(*model.Story) bool) []model.StoryWithAuthor {
	rows := make([]model.StoryWithAuthor, 0)
	for _, st := range f.stories {
		if keep(st) {
			rows = append(rows, model.StoryWithAuthor{
				Story:  *st,
				Author: model.AuthorInfo{ID: st.AuthorID, Name: f.authorNames[st.AuthorID]},
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Story.CreatedAt.After(rows[j].Story.CreatedAt)
	})
	return rows
}

// fakeCache is an in-memory Cache. Values round-trip through JSON the
// same way the redis implementation does.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = data
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		delete(f.entries, key)
	}
	f.deletes++
	return nil
}

func (f *fakeCache) DeletePattern(_ context.Context, _ string) error { return nil }

func (f *fakeCache) Ping(_ context.Context) error { return nil }

// =====================================================
// TEST HELPERS
// =====================================================

func newTestService(t *testing.T) (ServiceInterface, *fakeStoryRepo, *fakeCache) {
	t.Helper()
	repo := newFakeStoryRepo()
	cache := newFakeCache()
	svc := NewStoryService(repo, cache, time.Minute)
	return svc, repo, cache
}

func seedStory(t *testing.T, repo *fakeStoryRepo, authorID uuid.UUID, status model.Status, createdAt time.Time) *model.Story {
	t.Helper()
	st := &model.Story{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     "Seeded title",
		Body:      "Seeded body",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), st))
	return st
}

// =====================================================
// CREATE
// =====================================================

func TestCreateStory(t *testing.T) {
	svc, repo, cache := newTestService(t)
	author := uuid.New()

	resp, err := svc.CreateStory(context.Background(), author, model.CreateStoryRequest{
		Title:  "First light",
		Body:   "It begins.",
		Status: "private",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, author, resp.Author.ID)
	assert.Equal(t, model.StatusPrivate, resp.Status)
	assert.False(t, resp.CreatedAt.IsZero())

	stored, err := repo.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, author, stored.AuthorID)
	assert.Equal(t, "First light", stored.Title)

	assert.Equal(t, 1, cache.deletes, "creation should invalidate the public feed")
}

func TestCreateStoryGeneratesDistinctIDs(t *testing.T) {
	svc, _, _ := newTestService(t)
	author := uuid.New()
	req := model.CreateStoryRequest{Title: "Same", Body: "Same", Status: "public"}

	first, err := svc.CreateStory(context.Background(), author, req)
	require.NoError(t, err)
	second, err := svc.CreateStory(context.Background(), author, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateStoryValidation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	author := uuid.New()

	tests := []struct {
		name string
		req  model.CreateStoryRequest
	}{
		{"missing title", model.CreateStoryRequest{Body: "b", Status: "public"}},
		{"missing body", model.CreateStoryRequest{Title: "t", Status: "public"}},
		{"missing status", model.CreateStoryRequest{Title: "t", Body: "b"}},
		{"unknown status", model.CreateStoryRequest{Title: "t", Body: "b", Status: "draft"}},
		{"status wrong case", model.CreateStoryRequest{Title: "t", Body: "b", Status: "Public"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateStory(context.Background(), author, tt.req)
			assert.Error(t, err)
		})
	}

	assert.Empty(t, repo.stories, "rejected requests must not persist anything")
}

// =====================================================
// GET
// =====================================================

func TestGetStory(t *testing.T) {
	svc, repo, _ := newTestService(t)
	author := uuid.New()
	repo.authorNames[author] = "Ada"

	// Direct retrieval by id works regardless of status
	private := seedStory(t, repo, author, model.StatusPrivate, time.Now())

	resp, err := svc.GetStory(context.Background(), private.ID)
	require.NoError(t, err)
	assert.Equal(t, private.ID, resp.ID)
	assert.Equal(t, "Ada", resp.Author.Name)
}

func TestGetStoryNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetStory(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrStoryNotFound)
}

func TestGetStoryForEdit(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	stranger := uuid.New()
	st := seedStory(t, repo, owner, model.StatusPublic, time.Now())

	resp, err := svc.GetStoryForEdit(context.Background(), owner, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, resp.ID)

	_, err = svc.GetStoryForEdit(context.Background(), stranger, st.ID)
	assert.ErrorIs(t, err, model.ErrNotStoryOwner)

	_, err = svc.GetStoryForEdit(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, model.ErrStoryNotFound)
}

// =====================================================
// UPDATE
// =====================================================

func TestUpdateStory(t *testing.T) {
	svc, repo, cache := newTestService(t)
	owner := uuid.New()
	created := time.Now().Add(-time.Hour)
	st := seedStory(t, repo, owner, model.StatusPrivate, created)

	resp, err := svc.UpdateStory(context.Background(), owner, st.ID, model.UpdateStoryRequest{
		Title:  "Rewritten",
		Body:   "New body",
		Status: "public",
	})
	require.NoError(t, err)

	// Identity, owner and creation time survive the replace
	assert.Equal(t, st.ID, resp.ID)
	assert.Equal(t, owner, resp.Author.ID)
	assert.Equal(t, created.Unix(), resp.CreatedAt.Unix())

	stored, err := repo.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rewritten", stored.Title)
	assert.Equal(t, model.StatusPublic, stored.Status)
	assert.Equal(t, owner, stored.AuthorID)
	assert.True(t, stored.UpdatedAt.After(stored.CreatedAt))
	assert.Equal(t, resp.UpdatedAt, stored.UpdatedAt, "returned timestamp must match the persisted one")

	assert.Equal(t, 1, cache.deletes, "update should invalidate the public feed")
}

func TestUpdateStoryNotOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	stranger := uuid.New()
	st := seedStory(t, repo, owner, model.StatusPublic, time.Now())

	_, err := svc.UpdateStory(context.Background(), stranger, st.ID, model.UpdateStoryRequest{
		Title:  "Hijacked",
		Body:   "Nope",
		Status: "private",
	})
	assert.ErrorIs(t, err, model.ErrNotStoryOwner)

	// The record is untouched
	stored, err := repo.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seeded title", stored.Title)
	assert.Equal(t, model.StatusPublic, stored.Status)
}

func TestUpdateStoryNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateStory(context.Background(), uuid.New(), uuid.New(), model.UpdateStoryRequest{
		Title:  "t",
		Body:   "b",
		Status: "public",
	})
	assert.ErrorIs(t, err, model.ErrStoryNotFound)
}

func TestUpdateStoryRejectsUnknownStatus(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	st := seedStory(t, repo, owner, model.StatusPublic, time.Now())

	_, err := svc.UpdateStory(context.Background(), owner, st.ID, model.UpdateStoryRequest{
		Title:  "t",
		Body:   "b",
		Status: "archived",
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrStoryNotFound)
	assert.NotErrorIs(t, err, model.ErrNotStoryOwner)

	stored, err := repo.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublic, stored.Status)
}

// =====================================================
// DELETE
// =====================================================

func TestDeleteStory(t *testing.T) {
	svc, repo, cache := newTestService(t)
	owner := uuid.New()
	st := seedStory(t, repo, owner, model.StatusPublic, time.Now())

	require.NoError(t, svc.DeleteStory(context.Background(), owner, st.ID))

	_, err := repo.GetByID(context.Background(), st.ID)
	assert.ErrorIs(t, err, model.ErrStoryNotFound)
	assert.Equal(t, 1, cache.deletes, "delete should invalidate the public feed")

	// Deletion is terminal: the second attempt is a plain not-found
	err = svc.DeleteStory(context.Background(), owner, st.ID)
	assert.ErrorIs(t, err, model.ErrStoryNotFound)
}

func TestDeleteStoryNotOwner(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	stranger := uuid.New()
	st := seedStory(t, repo, owner, model.StatusPublic, time.Now())

	err := svc.DeleteStory(context.Background(), stranger, st.ID)
	assert.ErrorIs(t, err, model.ErrNotStoryOwner)

	// Still there
	_, err = repo.GetByID(context.Background(), st.ID)
	require.NoError(t, err)
}

// =====================================================
// LISTINGS
// =====================================================

func TestListPublicStories(t *testing.T) {
	svc, repo, _ := newTestService(t)
	alice := uuid.New()
	bob := uuid.New()
	repo.authorNames[alice] = "Alice"
	repo.authorNames[bob] = "Bob"

	base := time.Now()
	older := seedStory(t, repo, alice, model.StatusPublic, base.Add(-2*time.Hour))
	seedStory(t, repo, bob, model.StatusPrivate, base.Add(-time.Hour))
	newer := seedStory(t, repo, bob, model.StatusPublic, base)

	list, err := svc.ListPublicStories(context.Background())
	require.NoError(t, err)

	// Private stories never leak, newest first
	require.Len(t, list.Stories, 2)
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, newer.ID, list.Stories[0].ID)
	assert.Equal(t, older.ID, list.Stories[1].ID)
	assert.Equal(t, "Bob", list.Stories[0].Author.Name)
}

func TestListPublicStoriesUsesCache(t *testing.T) {
	svc, repo, _ := newTestService(t)
	seedStory(t, repo, uuid.New(), model.StatusPublic, time.Now())

	first, err := svc.ListPublicStories(context.Background())
	require.NoError(t, err)
	second, err := svc.ListPublicStories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.listPublicCalls, "second read should be served from cache")
	assert.Equal(t, first.Total, second.Total)
}

func TestListPublicStoriesCacheInvalidatedByMutation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	author := uuid.New()
	seedStory(t, repo, author, model.StatusPublic, time.Now().Add(-time.Minute))

	list, err := svc.ListPublicStories(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)

	_, err = svc.CreateStory(context.Background(), author, model.CreateStoryRequest{
		Title:  "Breaking news",
		Body:   "Fresh",
		Status: "public",
	})
	require.NoError(t, err)

	list, err = svc.ListPublicStories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total, "mutation must drop the stale feed")
}

func TestListStoriesByAuthorPublicOnly(t *testing.T) {
	svc, repo, _ := newTestService(t)
	author := uuid.New()
	other := uuid.New()

	base := time.Now()
	public := seedStory(t, repo, author, model.StatusPublic, base)
	seedStory(t, repo, author, model.StatusPrivate, base.Add(-time.Minute))
	seedStory(t, repo, other, model.StatusPublic, base.Add(-2*time.Minute))

	// Even the author's own request through this path sees public only;
	// the private half lives behind ListMyStories.
	list, err := svc.ListStoriesByAuthor(context.Background(), author)
	require.NoError(t, err)
	require.Len(t, list.Stories, 1)
	assert.Equal(t, public.ID, list.Stories[0].ID)
}

func TestListMyStoriesIncludesPrivate(t *testing.T) {
	svc, repo, _ := newTestService(t)
	author := uuid.New()
	other := uuid.New()

	base := time.Now()
	seedStory(t, repo, author, model.StatusPublic, base)
	seedStory(t, repo, author, model.StatusPrivate, base.Add(-time.Minute))
	seedStory(t, repo, other, model.StatusPrivate, base.Add(-2*time.Minute))

	list, err := svc.ListMyStories(context.Background(), author)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	for _, st := range list.Stories {
		assert.Equal(t, author, st.Author.ID)
	}
}

func TestListingsEmptyResultIsNotAnError(t *testing.T) {
	svc, _, _ := newTestService(t)

	public, err := svc.ListPublicStories(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, public.Stories)
	assert.Equal(t, 0, public.Total)

	byAuthor, err := svc.ListStoriesByAuthor(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, byAuthor.Stories)
	assert.Equal(t, 0, byAuthor.Total)
}

// =====================================================
// ERROR SHAPE
// =====================================================

func TestErrorsCarryDomainCodes(t *testing.T) {
	svc, repo, _ := newTestService(t)
	owner := uuid.New()
	st := seedStory(t, repo, owner, model.StatusPublic, time.Now())

	_, err := svc.GetStory(context.Background(), uuid.New())
	var storyErr *model.StoryError
	require.True(t, errors.As(err, &storyErr))
	assert.Equal(t, model.ErrCodeStoryNotFound, storyErr.Code)

	_, err = svc.GetStoryForEdit(context.Background(), uuid.New(), st.ID)
	require.True(t, errors.As(err, &storyErr))
	assert.Equal(t, model.ErrCodeNotStoryOwner, storyErr.Code)
}
