package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var _ domain.ProfileRepository = (*CachedProfileRepository)(nil)

type CachedProfileRepository struct {
	next  domain.ProfileRepository
	cache *redis.Client
}

func NewCachedProfileRepository(next domain.ProfileRepository, cache *redis.Client) *CachedProfileRepository {
	return &CachedProfileRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedProfileRepository) cacheKey(userID string) string {
	return fmt.Sprintf("profile:%s", userID)
}

func (r *CachedProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var profile domain.UserProfile
		if err := json.Unmarshal([]byte(val), &profile); err == nil {
			return &profile, nil
		}

		log.Printf("[CACHE] Corrupted profile for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	profile, err := r.next.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(profile); err == nil {
		if setErr := r.cache.Set(ctx, key, data, cacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return profile, nil
}

func (r *CachedProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	if err := r.next.Upsert(ctx, profile); err != nil {
		return err
	}
	if err := r.cache.Del(ctx, r.cacheKey(profile.UserID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate profile for user %s: %v", profile.UserID, err)
	}
	return nil
}

// ListWithReminders is a full scan for the scheduler and is never cached.
func (r *CachedProfileRepository) ListWithReminders(ctx context.Context) ([]*domain.UserProfile, error) {
	return r.next.ListWithReminders(ctx)
}
