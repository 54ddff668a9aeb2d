package services

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"unistay/internal/caching"
	"unistay/internal/metrics"
	"unistay/internal/models"
	"unistay/internal/repositories"

	"github.com/google/uuid"
)

const listingCacheTTL = 15 * time.Minute

type ListingService interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ListingView, error)
	List(ctx context.Context, limit, offset int) ([]*models.ListingView, error)
	Search(ctx context.Context, filter *models.ListingSearchFilter, limit, offset int) ([]*models.ListingView, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	UploadImage(ctx context.Context, listingID uuid.UUID, filename string, reader io.Reader, size int64) (string, error)
}

type listingService struct {
	listingRepo repositories.ListingRepository
	mediaSvc    MediaService
	cacheSvc    caching.CacheService
	fakeUsers   *FakeUserGenerator
}

func NewListingService(listingRepo repositories.ListingRepository, mediaSvc MediaService, cacheSvc caching.CacheService, fakeUsers *FakeUserGenerator) ListingService {
	return &listingService{
		listingRepo: listingRepo,
		mediaSvc:    mediaSvc,
		cacheSvc:    cacheSvc,
		fakeUsers:   fakeUsers,
	}
}

func (s *listingService) view(listing *models.Listing) *models.ListingView {
	view := &models.ListingView{Listing: *listing}
	if listing.Seed != "" {
		poster := s.fakeUsers.Generate(listing.Seed)
		view.Poster = &poster
	}
	return view
}

func (s *listingService) Create(ctx context.Context, listing *models.Listing) error {
	if listing.Title == "" {
		return errors.New("listing title is required")
	}
	if listing.Price <= 0 {
		return errors.New("listing price must be positive")
	}
	listing.ID = uuid.New()
	return s.listingRepo.Create(ctx, listing)
}

func (s *listingService) GetByID(ctx context.Context, id uuid.UUID) (*models.ListingView, error) {
	// Try the cache first; cache errors fall through to the database.
	if cached, err := s.cacheSvc.GetListing(ctx, id); cached != nil {
		metrics.CacheHits.Inc()
		return s.view(cached), nil
	} else if err != nil {
		log.Printf("Cache error for listing %s: %v", id.String(), err)
	}
	metrics.CacheMisses.Inc()

	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheSvc.SetListing(ctx, listing, listingCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache listing %s: %v", id.String(), cacheErr)
	}

	return s.view(listing), nil
}

func (s *listingService) List(ctx context.Context, limit, offset int) ([]*models.ListingView, error) {
	listings, err := s.listingRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]*models.ListingView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, s.view(listing))
	}
	return views, nil
}

func (s *listingService) Search(ctx context.Context, filter *models.ListingSearchFilter, limit, offset int) ([]*models.ListingView, error) {
	listings, err := s.listingRepo.Search(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]*models.ListingView, 0, len(listings))
	for _, listing := range listings {
		views = append(views, s.view(listing))
	}
	return views, nil
}

func (s *listingService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.listingRepo.Remove(ctx, id); err != nil {
		return err
	}
	if cacheErr := s.cacheSvc.DeleteListing(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for listing %s: %v", id.String(), cacheErr)
	}
	return nil
}

func (s *listingService) Restore(ctx context.Context, id uuid.UUID) error {
	if err := s.listingRepo.Restore(ctx, id); err != nil {
		return err
	}
	if cacheErr := s.cacheSvc.DeleteListing(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for listing %s: %v", id.String(), cacheErr)
	}
	return nil
}

func (s *listingService) UploadImage(ctx context.Context, listingID uuid.UUID, filename string, reader io.Reader, size int64) (string, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return "", err
	}

	objectName := listingID.String() + "/" + filename
	if err := s.mediaSvc.UploadImage(ctx, "listing-images", objectName, reader, size); err != nil {
		return "", err
	}

	url, err := s.mediaSvc.GetPresignedURL("listing-images", objectName, 24*time.Hour)
	if err != nil {
		return "", err
	}

	listing.ImageURL = url
	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return "", err
	}
	if cacheErr := s.cacheSvc.DeleteListing(ctx, listingID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for listing %s: %v", listingID.String(), cacheErr)
	}
	return url, nil
}
