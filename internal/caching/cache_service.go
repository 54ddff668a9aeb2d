package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"unistay/internal/models"
)

type CacheService interface {
	// Listing caching
	GetListing(ctx context.Context, listingID uuid.UUID) (*models.Listing, error)
	SetListing(ctx context.Context, listing *models.Listing, ttl time.Duration) error
	DeleteListing(ctx context.Context, listingID uuid.UUID) error

	// Profile caching
	GetProfile(ctx context.Context, subject string) (*models.Profile, error)
	SetProfile(ctx context.Context, profile *models.Profile, ttl time.Duration) error
	DeleteProfile(ctx context.Context, subject string) error

	// Realtime invalidation channels (mailbox refetch notifications)
	Publish(ctx context.Context, channel, payload string) error
	Subscribe(ctx context.Context, channel string) *redis.PubSub

	// Cache invalidation
	InvalidateAllCache(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Parse Redis URL to extract host:port if protocol is included
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetListing(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	key := fmt.Sprintf("unistay:listing:%s", listingID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var listing models.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *redisCacheService) SetListing(ctx context.Context, listing *models.Listing, ttl time.Duration) error {
	key := fmt.Sprintf("unistay:listing:%s", listing.ID.String())
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteListing(ctx context.Context, listingID uuid.UUID) error {
	key := fmt.Sprintf("unistay:listing:%s", listingID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetProfile(ctx context.Context, subject string) (*models.Profile, error) {
	key := fmt.Sprintf("unistay:profile:%s", subject)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *redisCacheService) SetProfile(ctx context.Context, profile *models.Profile, ttl time.Duration) error {
	key := fmt.Sprintf("unistay:profile:%s", profile.Subject)
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProfile(ctx context.Context, subject string) error {
	key := fmt.Sprintf("unistay:profile:%s", subject)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Publish(ctx context.Context, channel, payload string) error {
	return r.client.Publish(ctx, channel, payload).Err()
}

func (r *redisCacheService) Subscribe(ctx context.Context, channel string) *redis.PubSub {
	return r.client.Subscribe(ctx, channel)
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	pattern := "unistay:*"
	keys, err := r.client.Keys(ctx, pattern).Result()
	if err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}
