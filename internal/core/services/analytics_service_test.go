package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type staticGoals struct {
	goals domain.GoalSet
	err   error
}

func (s staticGoals) ResolveGoals(ctx context.Context, userID string) (domain.GoalSet, error) {
	return s.goals, s.err
}

var (
	testGoals = domain.GoalSet{
		Calories: domain.NewGoal(2000),
		Protein:  domain.NewGoal(100),
		Fat:      domain.NewGoal(50),
		Carbs:    domain.NewGoal(200),
	}
	oats = &domain.Product{ID: "oats", Name: "Oats", Nutrients: domain.NutrientProfile{CaloriesPer100g: 389, ProteinPer100g: 16.9, FatPer100g: 6.9, CarbsPer100g: 66.3}}
	milk = &domain.Product{ID: "milk", Name: "Milk", Nutrients: domain.NutrientProfile{CaloriesPer100g: 64, ProteinPer100g: 3.4, FatPer100g: 3.6, CarbsPer100g: 4.8}}
)

func logEntry(id string, weight float64, meal domain.MealType, at time.Time) *domain.FoodLogEntry {
	e := domain.NewFoodLogEntry("u1", weight, meal, at)
	e.ID = id
	return e
}

type analyticsFixture struct {
	entries  *MockFoodLogRepo
	products *MockProductRepo
	recipes  *MockRecipeRepo
	svc      *AnalyticsService
}

func newAnalyticsFixture(goals GoalResolver) analyticsFixture {
	f := analyticsFixture{
		entries:  new(MockFoodLogRepo),
		products: new(MockProductRepo),
		recipes:  new(MockRecipeRepo),
	}
	f.svc = NewAnalyticsService(f.entries, goals, NewNutrientResolver(f.products, f.recipes), domain.DefaultAnalyticsConfig())
	return f
}

func TestAnalyticsService_ComputeDailyAnalysis(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Success: resolves products, recipes and custom nutrients", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})

		withProduct := logEntry("e1", 100, domain.MealBreakfast, day.Add(8*time.Hour))
		withProduct.ProductID = ptr("oats")
		withRecipe := logEntry("e2", 250, domain.MealBreakfast, day.Add(9*time.Hour))
		withRecipe.RecipeID = ptr("porridge")
		custom := logEntry("e3", 200, domain.MealDinner, day.Add(19*time.Hour))
		custom.CustomNutrients = &domain.NutrientProfile{CaloriesPer100g: 100, ProteinPer100g: 10}
		dangling := logEntry("e4", 500, domain.MealSnack, day.Add(21*time.Hour))
		dangling.ProductID = ptr("gone")

		f.entries.On("ListByUserAndDateRange", ctx, "u1", day, day.AddDate(0, 0, 1)).
			Return([]*domain.FoodLogEntry{withProduct, withRecipe, custom, dangling}, nil)
		f.recipes.On("GetByID", ctx, "porridge").Return(&domain.Recipe{
			ID: "porridge", UserID: "u1",
			Ingredients: []domain.RecipeIngredient{{ProductID: "oats", WeightGrams: 50}, {ProductID: "milk", WeightGrams: 200}},
		}, nil)
		f.products.On("GetByIDs", ctx, mock.Anything).
			Return(map[string]*domain.Product{"oats": oats, "milk": milk}, nil)

		a, err := f.svc.ComputeDailyAnalysis(ctx, "u1", day.Add(15*time.Hour))

		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", a.Date)
		assert.Equal(t, 4, a.EntryCount)
		// 389 oats + 322.5 porridge + 200 custom; the dangling entry adds nothing
		assert.Equal(t, 911.5, a.TotalCalories)
		assert.Equal(t, 2, a.MealCounts[domain.MealBreakfast])
		assert.Equal(t, 1, a.MealCounts[domain.MealSnack])
		progress, ok := a.Progress(domain.NutrientCalories)
		assert.True(t, ok)
		assert.InDelta(t, 45.58, progress, 0.01)
	})

	t.Run("Success: identical inputs give identical output", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})
		e := logEntry("e1", 123.4, domain.MealLunch, day.Add(12*time.Hour))
		e.ProductID = ptr("oats")
		f.entries.On("ListByUserAndDateRange", ctx, "u1", day, day.AddDate(0, 0, 1)).Return([]*domain.FoodLogEntry{e}, nil)
		f.products.On("GetByIDs", ctx, []string{"oats"}).Return(map[string]*domain.Product{"oats": oats}, nil)

		first, err := f.svc.ComputeDailyAnalysis(ctx, "u1", day)
		require.NoError(t, err)
		second, err := f.svc.ComputeDailyAnalysis(ctx, "u1", day)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("Fail: repository error is wrapped", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})
		dbErr := errors.New("connection reset")
		f.entries.On("ListByUserAndDateRange", ctx, "u1", day, day.AddDate(0, 0, 1)).Return(nil, dbErr)

		_, err := f.svc.ComputeDailyAnalysis(ctx, "u1", day)

		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("Fail: goal lookup error", func(t *testing.T) {
		boom := errors.New("profile store down")
		f := newAnalyticsFixture(staticGoals{err: boom})

		_, err := f.svc.ComputeDailyAnalysis(ctx, "u1", day)

		assert.ErrorIs(t, err, boom)
		f.entries.AssertNotCalled(t, "ListByUserAndDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAnalyticsService_ComputeTrends(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -6)

	t.Run("Success: seven day window", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})

		var entries []*domain.FoodLogEntry
		for i := 0; i < 7; i += 2 {
			e := logEntry("e", 100, domain.MealLunch, start.AddDate(0, 0, i).Add(12*time.Hour))
			e.CustomNutrients = &domain.NutrientProfile{CaloriesPer100g: 2000, ProteinPer100g: 100, FatPer100g: 50, CarbsPer100g: 200}
			entries = append(entries, e)
		}
		f.entries.On("ListByUserAndDateRange", ctx, "u1", start, end.AddDate(0, 0, 1)).Return(entries, nil)

		trend, err := f.svc.ComputeTrends(ctx, domain.TrendInput{UserID: "u1", Days: 7, EndDate: end.Add(10 * time.Hour)})

		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", trend.StartDate)
		assert.Equal(t, "2024-03-16", trend.EndDate)
		assert.Equal(t, 7, trend.WindowDays)
		assert.Equal(t, 4, trend.TotalDaysAnalyzed)
		assert.Equal(t, 100.0, trend.GoalAdherenceRate)
		assert.Equal(t, "Lunch", trend.MostCommonMealTime)
		assert.True(t, trend.IsConsistent)
	})

	t.Run("Success: zero days is no data", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})

		trend, err := f.svc.ComputeTrends(ctx, domain.TrendInput{UserID: "u1", Days: 0})

		require.NoError(t, err)
		assert.Equal(t, domain.OverallNoData, trend.OverallTrend)
		f.entries.AssertNotCalled(t, "ListByUserAndDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success: missing end date uses the clock", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})
		f.svc.WithClock(func() time.Time { return end.Add(23 * time.Hour) })
		f.entries.On("ListByUserAndDateRange", ctx, "u1", end, end.AddDate(0, 0, 1)).Return([]*domain.FoodLogEntry{}, nil)

		trend, err := f.svc.ComputeTrends(ctx, domain.TrendInput{UserID: "u1", Days: 1})

		require.NoError(t, err)
		assert.Equal(t, "2024-03-16", trend.EndDate)
	})

	t.Run("Fail: window out of range", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})

		_, err := f.svc.ComputeTrends(ctx, domain.TrendInput{UserID: "u1", Days: -1})
		assert.ErrorIs(t, err, domain.ErrInvalidWindow)

		_, err = f.svc.ComputeTrends(ctx, domain.TrendInput{UserID: "u1", Days: 400})
		assert.ErrorIs(t, err, domain.ErrInvalidWindow)
	})
}

func TestAnalyticsService_ComputeRecommendations(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)

	t.Run("Success: no goals gives the profile message", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{})
		f.entries.On("ListByUserAndDateRange", ctx, "u1", end.AddDate(0, 0, -6), end.AddDate(0, 0, 1)).Return([]*domain.FoodLogEntry{}, nil)

		recs, err := f.svc.ComputeRecommendations(ctx, domain.TrendInput{UserID: "u1", Days: 7, EndDate: end})

		require.NoError(t, err)
		assert.Equal(t, []string{analytics.MsgCompleteProfile}, recs)
	})

	t.Run("Success: most recent logged day drives the advice", func(t *testing.T) {
		f := newAnalyticsFixture(staticGoals{goals: testGoals})
		heavy := logEntry("e1", 100, domain.MealDinner, end.AddDate(0, 0, -1).Add(20*time.Hour))
		heavy.CustomNutrients = &domain.NutrientProfile{CaloriesPer100g: 3000, ProteinPer100g: 100, FatPer100g: 50, CarbsPer100g: 200}
		f.entries.On("ListByUserAndDateRange", ctx, "u1", end.AddDate(0, 0, -2), end.AddDate(0, 0, 1)).
			Return([]*domain.FoodLogEntry{heavy}, nil)

		recs, err := f.svc.ComputeRecommendations(ctx, domain.TrendInput{UserID: "u1", Days: 3, EndDate: end})

		require.NoError(t, err)
		require.NotEmpty(t, recs)
		assert.Contains(t, recs[0], "Reduce your calories intake")
		assert.Contains(t, recs[len(recs)-1], "goal adherence")
	})
}

func TestAnalyticsService_ComputeBodyMetrics(t *testing.T) {
	f := newAnalyticsFixture(staticGoals{})

	m := f.svc.ComputeBodyMetrics(BodyMetricsInput{
		HeightCm:      ptr(175.0),
		WeightKg:      ptr(70.0),
		Age:           ptr(30),
		Gender:        ptr(domain.GenderMale),
		ActivityLevel: ptr(domain.ActivitySedentary),
		FitnessGoal:   ptr(domain.GoalMaintainWeight),
	})

	require.NotNil(t, m.TDEE)
	assert.InDelta(t, 1979, *m.TDEE, 1)
	assert.Equal(t, "Normal weight", m.BMICategory)
}
