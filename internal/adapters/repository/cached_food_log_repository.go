package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

const cacheTTL = 30 * time.Minute

var _ domain.FoodLogRepository = (*CachedFoodLogRepository)(nil)

// CachedFoodLogRepository keeps one redis key per user and UTC day.
// Only single-day range reads are cached; wider windows go straight to next.
type CachedFoodLogRepository struct {
	next  domain.FoodLogRepository
	cache *redis.Client
}

func NewCachedFoodLogRepository(next domain.FoodLogRepository, cache *redis.Client) *CachedFoodLogRepository {
	return &CachedFoodLogRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedFoodLogRepository) cacheKey(userID string, day time.Time) string {
	return fmt.Sprintf("foodlogs:%s:%s", userID, day.Format(domain.DateLayout))
}

func (r *CachedFoodLogRepository) invalidate(ctx context.Context, userID string, days ...time.Time) {
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, r.cacheKey(userID, domain.DateOf(d)))
	}
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate food logs for user %s: %v", userID, err)
	}
}

func isSingleDay(from, to time.Time) bool {
	return from.Equal(domain.DateOf(from)) && to.Equal(from.AddDate(0, 0, 1))
}

func (r *CachedFoodLogRepository) ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.FoodLogEntry, error) {
	if !isSingleDay(from, to) {
		return r.next.ListByUserAndDateRange(ctx, userID, from, to)
	}

	key := r.cacheKey(userID, from)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var entries []*domain.FoodLogEntry
		if err := json.Unmarshal([]byte(val), &entries); err == nil {
			return entries, nil
		}

		log.Printf("[CACHE] Corrupted food logs for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	entries, err := r.next.ListByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if setErr := r.cache.Set(ctx, key, data, cacheTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return entries, nil
}

func (r *CachedFoodLogRepository) GetByID(ctx context.Context, id string) (*domain.FoodLogEntry, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedFoodLogRepository) Create(ctx context.Context, entry *domain.FoodLogEntry) error {
	if err := r.next.Create(ctx, entry); err != nil {
		return err
	}
	r.invalidate(ctx, entry.UserID, entry.ConsumedAt)
	return nil
}

// Update also drops the previous day when the entry moved to another date.
func (r *CachedFoodLogRepository) Update(ctx context.Context, entry *domain.FoodLogEntry) error {
	days := []time.Time{entry.ConsumedAt}
	if previous, err := r.next.GetByID(ctx, entry.ID); err == nil {
		days = append(days, previous.ConsumedAt)
	}

	if err := r.next.Update(ctx, entry); err != nil {
		return err
	}
	r.invalidate(ctx, entry.UserID, days...)
	return nil
}

func (r *CachedFoodLogRepository) Delete(ctx context.Context, id string, userID string) error {
	entry, err := r.next.GetByID(ctx, id)
	if err == nil && entry != nil {
		defer r.invalidate(ctx, userID, entry.ConsumedAt)
	}

	return r.next.Delete(ctx, id, userID)
}
