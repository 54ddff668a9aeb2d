package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unistay/internal/caching"
	"unistay/internal/models"
	"unistay/internal/realtime"
)

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) GetBySubject(ctx context.Context, subject string) (*models.Profile, error) {
	args := m.Called(ctx, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockProfileRepo) AddSavedListing(ctx context.Context, subject, listingID string) error {
	args := m.Called(ctx, subject, listingID)
	return args.Error(0)
}

func (m *mockProfileRepo) RemoveSavedListing(ctx context.Context, subject, listingID string) error {
	args := m.Called(ctx, subject, listingID)
	return args.Error(0)
}

func (m *mockProfileRepo) AddReceipt(ctx context.Context, subject string, receipt *models.Receipt) error {
	args := m.Called(ctx, subject, receipt)
	return args.Error(0)
}

func (m *mockProfileRepo) TouchLastActive(ctx context.Context, subject string) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *mockListingRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *mockListingRepo) Update(ctx context.Context, listing *models.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingRepo) Remove(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) Restore(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) List(ctx context.Context, limit, offset int) ([]*models.Listing, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *mockListingRepo) Search(ctx context.Context, filter *models.ListingSearchFilter, limit, offset int) ([]*models.Listing, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Listing), args.Error(1)
}

func (m *mockListingRepo) PurgeRemoved(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

// stubCache supports Publish and the profile cache; everything else panics
// through the embedded nil interface if touched.
type stubCache struct {
	caching.CacheService
	published   []string
	publishErr  error
	profiles    map[string]*models.Profile
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{profiles: make(map[string]*models.Profile)}
}

func (s *stubCache) Publish(_ context.Context, channel, _ string) error {
	s.published = append(s.published, channel)
	return s.publishErr
}

func (s *stubCache) Subscribe(_ context.Context, _ string) *redis.PubSub {
	return nil
}

func (s *stubCache) GetProfile(_ context.Context, subject string) (*models.Profile, error) {
	return s.profiles[subject], nil
}

func (s *stubCache) SetProfile(_ context.Context, profile *models.Profile, _ time.Duration) error {
	s.profiles[profile.Subject] = profile
	return nil
}

func (s *stubCache) DeleteProfile(_ context.Context, subject string) error {
	delete(s.profiles, subject)
	s.invalidated = append(s.invalidated, subject)
	return nil
}

func newTestMailboxService(profileRepo *mockProfileRepo, listingRepo *mockListingRepo, cache *stubCache) MailboxService {
	return NewMailboxService(profileRepo, listingRepo, cache, NewFakeUserGenerator(), realtime.NewMailboxNotifier(cache))
}

func TestSavedListingsSkipsDanglingIDs(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	svc := newTestMailboxService(profileRepo, listingRepo, newStubCache())

	kept := uuid.New()
	gone := uuid.New()
	profileRepo.On("GetBySubject", mock.Anything, "sub-1").Return(&models.Profile{
		Subject:       "sub-1",
		SavedListings: []string{kept.String(), gone.String()},
	}, nil)
	// The repository only returns rows that still exist.
	listingRepo.On("GetByIDs", mock.Anything, []uuid.UUID{kept, gone}).Return([]*models.Listing{
		{ID: kept, Title: "Sunny studio"},
	}, nil)

	views, err := svc.SavedListings(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, kept, views[0].ID)
	profileRepo.AssertExpectations(t)
	listingRepo.AssertExpectations(t)
}

func TestSavedListingsSkipsMalformedIDs(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	svc := newTestMailboxService(profileRepo, listingRepo, newStubCache())

	valid := uuid.New()
	profileRepo.On("GetBySubject", mock.Anything, "sub-1").Return(&models.Profile{
		Subject:       "sub-1",
		SavedListings: []string{"not-a-uuid", valid.String()},
	}, nil)
	listingRepo.On("GetByIDs", mock.Anything, []uuid.UUID{valid}).Return([]*models.Listing{
		{ID: valid},
	}, nil)

	views, err := svc.SavedListings(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestSavedListingsEmptyForUnknownProfile(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	svc := newTestMailboxService(profileRepo, listingRepo, newStubCache())

	profileRepo.On("GetBySubject", mock.Anything, "nobody").Return(nil, nil)

	views, err := svc.SavedListings(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, views)
	listingRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestSavedListingsAttachesPoster(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	svc := newTestMailboxService(profileRepo, listingRepo, newStubCache())

	seeded := uuid.New()
	plain := uuid.New()
	profileRepo.On("GetBySubject", mock.Anything, "sub-1").Return(&models.Profile{
		Subject:       "sub-1",
		SavedListings: []string{seeded.String(), plain.String()},
	}, nil)
	listingRepo.On("GetByIDs", mock.Anything, mock.Anything).Return([]*models.Listing{
		{ID: seeded, Seed: "leuven-kot-003"},
		{ID: plain},
	}, nil)

	views, err := svc.SavedListings(context.Background(), "sub-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.NotNil(t, views[0].Poster)
	assert.Nil(t, views[1].Poster)
}

func TestSaveNotifiesSubscribers(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	cache := newStubCache()
	svc := newTestMailboxService(profileRepo, listingRepo, cache)

	id := uuid.New()
	listingRepo.On("GetByID", mock.Anything, id).Return(&models.Listing{ID: id}, nil)
	profileRepo.On("AddSavedListing", mock.Anything, "sub-1", id.String()).Return(nil)

	require.NoError(t, svc.Save(context.Background(), "sub-1", id))
	require.Len(t, cache.published, 1)
	assert.Equal(t, "unistay:mailbox:sub-1", cache.published[0])
	assert.Contains(t, cache.invalidated, "sub-1")
}

func TestSaveRejectsUnknownListing(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	svc := newTestMailboxService(profileRepo, listingRepo, newStubCache())

	id := uuid.New()
	listingRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New("no rows in result set"))

	assert.Error(t, svc.Save(context.Background(), "sub-1", id))
	profileRepo.AssertNotCalled(t, "AddSavedListing", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveSucceedsWhenNotifyFails(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	cache := newStubCache()
	cache.publishErr = errors.New("redis down")
	svc := newTestMailboxService(profileRepo, listingRepo, cache)

	id := uuid.New()
	listingRepo.On("GetByID", mock.Anything, id).Return(&models.Listing{ID: id}, nil)
	profileRepo.On("AddSavedListing", mock.Anything, "sub-1", id.String()).Return(nil)

	assert.NoError(t, svc.Save(context.Background(), "sub-1", id))
}

func TestUnsaveNotifiesSubscribers(t *testing.T) {
	profileRepo := new(mockProfileRepo)
	listingRepo := new(mockListingRepo)
	cache := newStubCache()
	svc := newTestMailboxService(profileRepo, listingRepo, cache)

	id := uuid.New()
	profileRepo.On("RemoveSavedListing", mock.Anything, "sub-1", id.String()).Return(nil)

	require.NoError(t, svc.Unsave(context.Background(), "sub-1", id))
	assert.Len(t, cache.published, 1)
}
