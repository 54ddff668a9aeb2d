package services

import (
	"context"
	"log"
	"time"

	"unistay/internal/caching"
	"unistay/internal/models"
	"unistay/internal/realtime"
	"unistay/internal/repositories"

	"github.com/google/uuid"
)

const profileCacheTTL = 5 * time.Minute

// MailboxService serves a user's saved-listing feed and keeps the saved set
// on the profile document in sync, notifying subscribers on every change.
type MailboxService interface {
	SavedListings(ctx context.Context, subject string) ([]*models.ListingView, error)
	Save(ctx context.Context, subject string, listingID uuid.UUID) error
	Unsave(ctx context.Context, subject string, listingID uuid.UUID) error
	Watch(ctx context.Context, subject string) (*realtime.Subscription, error)
}

type mailboxService struct {
	profileRepo repositories.ProfileRepository
	listingRepo repositories.ListingRepository
	cacheSvc    caching.CacheService
	fakeUsers   *FakeUserGenerator
	notifier    *realtime.MailboxNotifier
}

func NewMailboxService(profileRepo repositories.ProfileRepository, listingRepo repositories.ListingRepository, cacheSvc caching.CacheService, fakeUsers *FakeUserGenerator, notifier *realtime.MailboxNotifier) MailboxService {
	return &mailboxService{
		profileRepo: profileRepo,
		listingRepo: listingRepo,
		cacheSvc:    cacheSvc,
		fakeUsers:   fakeUsers,
		notifier:    notifier,
	}
}

// profile loads the profile cache-aside. Cache errors fall through to the
// document store.
func (s *mailboxService) profile(ctx context.Context, subject string) (*models.Profile, error) {
	if cached, err := s.cacheSvc.GetProfile(ctx, subject); cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Profile cache error for subject %s: %v", subject, err)
	}

	profile, err := s.profileRepo.GetBySubject(ctx, subject)
	if err != nil || profile == nil {
		return profile, err
	}
	if cacheErr := s.cacheSvc.SetProfile(ctx, profile, profileCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache profile for subject %s: %v", subject, cacheErr)
	}
	return profile, nil
}

// invalidate drops the cached profile after a saved-set write.
func (s *mailboxService) invalidate(ctx context.Context, subject string) {
	if err := s.cacheSvc.DeleteProfile(ctx, subject); err != nil {
		log.Printf("Failed to invalidate profile cache for subject %s: %v", subject, err)
	}
}

// SavedListings resolves the saved id set against the listings table. Ids
// with no matching row (deleted or malformed) are skipped silently; the
// mailbox never errors on a dangling reference.
func (s *mailboxService) SavedListings(ctx context.Context, subject string) ([]*models.ListingView, error) {
	profile, err := s.profile(ctx, subject)
	if err != nil {
		return nil, err
	}
	if profile == nil || len(profile.SavedListings) == 0 {
		return []*models.ListingView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(profile.SavedListings))
	for _, raw := range profile.SavedListings {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			log.Printf("Skipping malformed saved listing id %q for subject %s", raw, subject)
			continue
		}
		ids = append(ids, id)
	}

	listings, err := s.listingRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*models.ListingView, 0, len(listings))
	for _, listing := range listings {
		view := &models.ListingView{Listing: *listing}
		if listing.Seed != "" {
			poster := s.fakeUsers.Generate(listing.Seed)
			view.Poster = &poster
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *mailboxService) Save(ctx context.Context, subject string, listingID uuid.UUID) error {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return err
	}
	if err := s.profileRepo.AddSavedListing(ctx, subject, listingID.String()); err != nil {
		return err
	}
	s.invalidate(ctx, subject)
	if notifyErr := s.notifier.Notify(ctx, subject); notifyErr != nil {
		log.Printf("Failed to notify mailbox change for subject %s: %v", subject, notifyErr)
	}
	return nil
}

func (s *mailboxService) Unsave(ctx context.Context, subject string, listingID uuid.UUID) error {
	if err := s.profileRepo.RemoveSavedListing(ctx, subject, listingID.String()); err != nil {
		return err
	}
	s.invalidate(ctx, subject)
	if notifyErr := s.notifier.Notify(ctx, subject); notifyErr != nil {
		log.Printf("Failed to notify mailbox change for subject %s: %v", subject, notifyErr)
	}
	return nil
}

func (s *mailboxService) Watch(ctx context.Context, subject string) (*realtime.Subscription, error) {
	return s.notifier.Watch(ctx, subject)
}
