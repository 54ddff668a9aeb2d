package background

import (
	"context"
	"log"
	"sync"
	"time"

	"unistay/internal/caching"
	"unistay/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// removedListingRetention is how long soft-removed listings stay restorable.
const removedListingRetention = 30 * 24 * time.Hour

// JobScheduler manages background jobs for distributed environment
type JobScheduler struct {
	scheduler   gocron.Scheduler
	cacheSvc    caching.CacheService
	listingRepo repositories.ListingRepository
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(cacheSvc caching.CacheService, listingRepo repositories.ListingRepository) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		cacheSvc:    cacheSvc,
		listingRepo: listingRepo,
		jobs:        make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Purge long-removed listings once a day.
	purgeJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.purgeRemovedListings, context.Background()),
		gocron.WithName("purge-removed-listings"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create purge job: %v", err)
	} else {
		js.trackJob("purge", purgeJob)
	}

	// Drop the whole cache hourly so price edits made out-of-band surface.
	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(js.flushListingCache, context.Background()),
		gocron.WithName("flush-listing-cache"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create cache flush job: %v", err)
	} else {
		js.trackJob("cache-flush", cacheJob)
	}
}

func (js *JobScheduler) trackJob(name string, job gocron.Job) {
	js.mu.Lock()
	defer js.mu.Unlock()
	js.jobs[name] = job
}

func (js *JobScheduler) purgeRemovedListings(ctx context.Context) {
	purged, err := js.listingRepo.PurgeRemoved(ctx, removedListingRetention)
	if err != nil {
		log.Printf("Failed to purge removed listings: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d removed listings", purged)
	}
}

func (js *JobScheduler) flushListingCache(ctx context.Context) {
	if err := js.cacheSvc.InvalidateAllCache(ctx); err != nil {
		log.Printf("Failed to flush listing cache: %v", err)
	}
}
