package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type GoalResolver interface {
	ResolveGoals(ctx context.Context, userID string) (domain.GoalSet, error)
}

type AnalyticsService struct {
	entries  domain.FoodLogRepository
	goals    GoalResolver
	resolver *NutrientResolver
	cfg      domain.AnalyticsConfig
	now      func() time.Time
}

func NewAnalyticsService(entries domain.FoodLogRepository, goals GoalResolver, resolver *NutrientResolver, cfg domain.AnalyticsConfig) *AnalyticsService {
	return &AnalyticsService{
		entries:  entries,
		goals:    goals,
		resolver: resolver,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock replaces the clock used when a request does not name a date.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

func (s *AnalyticsService) ComputeDailyAnalysis(ctx context.Context, userID string, date time.Time) (*domain.DailyAnalysis, error) {
	day := domain.DateOf(date)

	goals, err := s.goals.ResolveGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("analytics service: failed to resolve goals: %w", err)
	}

	resolved, err := s.fetch(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	totals, meals := analytics.Aggregate(resolved)
	analysis := analytics.RoundDailyAnalysis(analytics.AnalyzeDay(day, totals, meals, goals, s.cfg))
	return &analysis, nil
}

func (s *AnalyticsService) ComputeTrends(ctx context.Context, input domain.TrendInput) (*domain.TrendAnalysis, error) {
	days, goals, err := s.window(ctx, input)
	if err != nil {
		return nil, err
	}

	trend := analytics.AnalyzeTrends(days, goals, s.cfg)
	return &trend, nil
}

func (s *AnalyticsService) ComputeRecommendations(ctx context.Context, input domain.TrendInput) ([]string, error) {
	days, goals, err := s.window(ctx, input)
	if err != nil {
		return nil, err
	}

	trend := analytics.AnalyzeTrends(days, goals, s.cfg)

	var current domain.DailyAnalysis
	for i := len(days) - 1; i >= 0; i-- {
		current = days[i]
		if current.HasEntries() {
			break
		}
	}

	return analytics.GenerateRecommendations(current, trend, goals, s.cfg), nil
}

type BodyMetricsInput struct {
	HeightCm      *float64
	WeightKg      *float64
	Age           *int
	Gender        *domain.Gender
	ActivityLevel *domain.ActivityLevel
	FitnessGoal   *domain.FitnessGoal
}

func (s *AnalyticsService) ComputeBodyMetrics(input BodyMetricsInput) domain.BodyMetrics {
	return analytics.ComputeBodyMetrics(&domain.UserProfile{
		HeightCm:      input.HeightCm,
		WeightKg:      input.WeightKg,
		Age:           input.Age,
		Gender:        input.Gender,
		ActivityLevel: input.ActivityLevel,
		FitnessGoal:   input.FitnessGoal,
	})
}

// window analyses every calendar day of the requested range, oldest first.
func (s *AnalyticsService) window(ctx context.Context, input domain.TrendInput) ([]domain.DailyAnalysis, domain.GoalSet, error) {
	if input.Days < 0 || input.Days > s.cfg.MaxWindowDays {
		return nil, domain.GoalSet{}, fmt.Errorf("%w: days must be between 0 and %d", domain.ErrInvalidWindow, s.cfg.MaxWindowDays)
	}

	goals, err := s.goals.ResolveGoals(ctx, input.UserID)
	if err != nil {
		return nil, domain.GoalSet{}, fmt.Errorf("analytics service: failed to resolve goals: %w", err)
	}
	if input.Days == 0 {
		return nil, goals, nil
	}

	end := input.EndDate
	if end.IsZero() {
		end = s.now()
	}
	end = domain.DateOf(end)
	start := end.AddDate(0, 0, -(input.Days - 1))

	resolved, err := s.fetch(ctx, input.UserID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, domain.GoalSet{}, err
	}
	byDate := analytics.GroupByDate(resolved)

	days := make([]domain.DailyAnalysis, 0, input.Days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		totals, meals := analytics.Aggregate(byDate[d.Format(domain.DateLayout)])
		days = append(days, analytics.AnalyzeDay(d, totals, meals, goals, s.cfg))
	}
	return days, goals, nil
}

func (s *AnalyticsService) fetch(ctx context.Context, userID string, from, to time.Time) ([]domain.ResolvedFoodLogEntry, error) {
	entries, err := s.entries.ListByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics service: failed to list entries: %w", err)
	}
	return s.resolver.Resolve(ctx, entries)
}

// NutrientResolver joins food log entries with the nutrient profile of their
// product, recipe or custom override.
type NutrientResolver struct {
	products domain.ProductRepository
	recipes  domain.RecipeRepository
}

func NewNutrientResolver(products domain.ProductRepository, recipes domain.RecipeRepository) *NutrientResolver {
	return &NutrientResolver{
		products: products,
		recipes:  recipes,
	}
}

// Resolve never fails on a dangling reference: the entry is logged and
// returned unresolved. Storage errors are returned.
func (r *NutrientResolver) Resolve(ctx context.Context, entries []*domain.FoodLogEntry) ([]domain.ResolvedFoodLogEntry, error) {
	recipes := make(map[string]*domain.Recipe)
	productIDs := make(map[string]struct{})

	for _, e := range entries {
		switch {
		case e.CustomNutrients != nil:
		case e.ProductID != nil:
			productIDs[*e.ProductID] = struct{}{}
		case e.RecipeID != nil:
			if _, seen := recipes[*e.RecipeID]; seen {
				continue
			}
			recipe, err := r.recipes.GetByID(ctx, *e.RecipeID)
			if err != nil && !errors.Is(err, domain.ErrRecipeNotFound) {
				return nil, fmt.Errorf("nutrient resolver: failed to load recipe %s: %w", *e.RecipeID, err)
			}
			recipes[*e.RecipeID] = recipe
			if recipe != nil {
				for _, ing := range recipe.Ingredients {
					productIDs[ing.ProductID] = struct{}{}
				}
			}
		}
	}

	products := map[string]*domain.Product{}
	if len(productIDs) > 0 {
		ids := make([]string, 0, len(productIDs))
		for id := range productIDs {
			ids = append(ids, id)
		}
		var err error
		products, err = r.products.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("nutrient resolver: failed to load products: %w", err)
		}
	}

	out := make([]domain.ResolvedFoodLogEntry, 0, len(entries))
	for _, e := range entries {
		item := domain.ResolvedFoodLogEntry{Entry: *e}

		switch {
		case e.CustomNutrients != nil:
			item.Profile, item.Resolved = *e.CustomNutrients, true
		case e.ProductID != nil:
			if p, ok := products[*e.ProductID]; ok && p != nil {
				item.Profile, item.Resolved = p.Nutrients, true
			}
		case e.RecipeID != nil:
			if recipe := recipes[*e.RecipeID]; recipe != nil {
				item.Profile, item.Resolved = analytics.RecipeProfile(recipe, products)
			}
		}

		if !item.Resolved {
			log.Printf("[ANALYTICS] Entry %s of user %s has no resolvable nutrients, counted as zero", e.ID, e.UserID)
		}
		out = append(out, item)
	}
	return out, nil
}
