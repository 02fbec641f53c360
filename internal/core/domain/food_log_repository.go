package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrFoodLogNotFound = errors.New("food log entry not found")
	ErrFoodLogConflict = errors.New("food log entry version conflict")
)

type FoodLogRepository interface {
	// Create persists a new entry.
	Create(ctx context.Context, entry *FoodLogEntry) error

	// GetByID retrieves a single entry by its ID.
	GetByID(ctx context.Context, id string) (*FoodLogEntry, error)

	// Update modifies an existing entry.
	// Implementations must check the version to reject stale writes.
	Update(ctx context.Context, entry *FoodLogEntry) error

	// Delete removes the entry. userID guards against deleting someone else's log.
	Delete(ctx context.Context, id string, userID string) error

	// ListByUserAndDateRange returns the user's entries with consumed_at in [from, to),
	// ordered by consumed_at ascending.
	ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*FoodLogEntry, error)
}
