package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var (
	_ domain.FoodLogRepository = (*InMemoryFoodLogRepository)(nil)
	_ domain.ProductRepository = (*InMemoryProductRepository)(nil)
	_ domain.RecipeRepository  = (*InMemoryRecipeRepository)(nil)
	_ domain.ProfileRepository = (*InMemoryProfileRepository)(nil)
	_ domain.UserRepository    = (*InMemoryUserRepository)(nil)
)

// The in-memory stores hand out copies so callers can mutate what they
// read without touching the stored version.

type InMemoryFoodLogRepository struct {
	store map[string]domain.FoodLogEntry

	mu sync.RWMutex
}

func NewInMemoryFoodLogRepository() *InMemoryFoodLogRepository {
	return &InMemoryFoodLogRepository{
		store: make(map[string]domain.FoodLogEntry),
	}
}

func (r *InMemoryFoodLogRepository) Create(ctx context.Context, entry *domain.FoodLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[entry.ID]; ok {
		return domain.ErrFoodLogConflict
	}
	r.store[entry.ID] = *entry
	return nil
}

func (r *InMemoryFoodLogRepository) GetByID(ctx context.Context, id string) (*domain.FoodLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[id]
	if !ok {
		return nil, domain.ErrFoodLogNotFound
	}
	return &entry, nil
}

func (r *InMemoryFoodLogRepository) Update(ctx context.Context, entry *domain.FoodLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[entry.ID]
	if !ok {
		return domain.ErrFoodLogNotFound
	}
	if stored.Version != entry.Version-1 {
		return domain.ErrFoodLogConflict
	}

	r.store[entry.ID] = *entry
	return nil
}

func (r *InMemoryFoodLogRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[id]
	if !ok || stored.UserID != userID {
		return domain.ErrFoodLogNotFound
	}

	delete(r.store, id)
	return nil
}

func (r *InMemoryFoodLogRepository) ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.FoodLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := []*domain.FoodLogEntry{}
	for _, e := range r.store {
		if e.UserID != userID || e.ConsumedAt.Before(from) || !e.ConsumedAt.Before(to) {
			continue
		}
		entry := e
		entries = append(entries, &entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ConsumedAt.Before(entries[j].ConsumedAt)
	})

	return entries, nil
}

type InMemoryProductRepository struct {
	store map[string]domain.Product

	mu sync.RWMutex
}

func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		store: make(map[string]domain.Product),
	}
}

func (r *InMemoryProductRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[product.ID] = *product
	return nil
}

func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.store[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &product, nil
}

func (r *InMemoryProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.store[id]; ok {
			found[id] = &product
		}
	}
	return found, nil
}

type InMemoryRecipeRepository struct {
	store map[string]domain.Recipe

	mu sync.RWMutex
}

func NewInMemoryRecipeRepository() *InMemoryRecipeRepository {
	return &InMemoryRecipeRepository{
		store: make(map[string]domain.Recipe),
	}
}

func (r *InMemoryRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *recipe
	stored.Ingredients = append([]domain.RecipeIngredient(nil), recipe.Ingredients...)
	r.store[recipe.ID] = stored
	return nil
}

func (r *InMemoryRecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.store[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	recipe.Ingredients = append([]domain.RecipeIngredient(nil), recipe.Ingredients...)
	return &recipe, nil
}

type InMemoryProfileRepository struct {
	store map[string]domain.UserProfile

	mu sync.RWMutex
}

func NewInMemoryProfileRepository() *InMemoryProfileRepository {
	return &InMemoryProfileRepository{
		store: make(map[string]domain.UserProfile),
	}
}

func (r *InMemoryProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &profile, nil
}

func (r *InMemoryProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *profile
	stored.ReminderTimes = append([]string(nil), profile.ReminderTimes...)
	r.store[profile.UserID] = stored
	return nil
}

func (r *InMemoryProfileRepository) ListWithReminders(ctx context.Context) ([]*domain.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var profiles []*domain.UserProfile
	for _, p := range r.store {
		if p.RemindersEnabled {
			profile := p
			profiles = append(profiles, &profile)
		}
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})

	return profiles, nil
}

type InMemoryUserRepository struct {
	store map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.store[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}
