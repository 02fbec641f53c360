package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/workers"
)

type FoodLogService struct {
	repo     domain.FoodLogRepository
	products domain.ProductRepository
	recipes  domain.RecipeRepository
	worker   *workers.AnalysisWorker
}

func NewFoodLogService(repo domain.FoodLogRepository, products domain.ProductRepository, recipes domain.RecipeRepository, worker *workers.AnalysisWorker) *FoodLogService {
	return &FoodLogService{
		repo:     repo,
		products: products,
		recipes:  recipes,
		worker:   worker,
	}
}

type CreateFoodLogInput struct {
	UserID          string
	ProductID       *string
	RecipeID        *string
	CustomNutrients *domain.NutrientProfile
	WeightGrams     float64
	MealType        domain.MealType
	ConsumedAt      time.Time
}

type UpdateFoodLogInput struct {
	ID          string
	UserID      string
	WeightGrams float64
	MealType    domain.MealType
	ConsumedAt  time.Time
	Version     int
}

func (s *FoodLogService) Create(ctx context.Context, input CreateFoodLogInput) (*domain.FoodLogEntry, error) {
	entry := domain.NewFoodLogEntry(input.UserID, input.WeightGrams, input.MealType, input.ConsumedAt)
	entry.ID = uuid.NewString()
	entry.ProductID = input.ProductID
	entry.RecipeID = input.RecipeID
	entry.CustomNutrients = input.CustomNutrients

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkSource(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("food log service: failed to create entry: %w", err)
	}

	s.worker.Enqueue(entry.UserID, entry.ConsumedAt)

	return entry, nil
}

func (s *FoodLogService) Update(ctx context.Context, input UpdateFoodLogInput) (*domain.FoodLogEntry, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, domain.ErrFoodLogConflict
	}

	previousDay := existing.ConsumedAt

	existing.WeightGrams = input.WeightGrams
	existing.MealType = input.MealType
	if !input.ConsumedAt.IsZero() {
		existing.ConsumedAt = input.ConsumedAt.UTC()
	}

	if err := existing.Validate(); err != nil {
		return nil, err
	}

	existing.Version++
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(existing.UserID, existing.ConsumedAt)
	if !domain.DateOf(previousDay).Equal(existing.Date()) {
		s.worker.Enqueue(existing.UserID, previousDay)
	}

	return existing, nil
}

func (s *FoodLogService) GetByID(ctx context.Context, id string, userID string) (*domain.FoodLogEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return entry, nil
}

func (s *FoodLogService) Delete(ctx context.Context, id string, userID string) error {
	entry, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(userID, entry.ConsumedAt)

	return nil
}

// ListByDate returns the user's entries on the UTC calendar date of date.
func (s *FoodLogService) ListByDate(ctx context.Context, userID string, date time.Time) ([]*domain.FoodLogEntry, error) {
	day := domain.DateOf(date)
	return s.repo.ListByUserAndDateRange(ctx, userID, day, day.AddDate(0, 0, 1))
}

func (s *FoodLogService) checkSource(ctx context.Context, entry *domain.FoodLogEntry) error {
	if entry.ProductID != nil {
		if _, err := s.products.GetByID(ctx, *entry.ProductID); err != nil {
			return err
		}
	}
	if entry.RecipeID != nil {
		recipe, err := s.recipes.GetByID(ctx, *entry.RecipeID)
		if err != nil {
			return err
		}
		if recipe.UserID != entry.UserID {
			return domain.ErrUnauthorized
		}
	}
	return nil
}
