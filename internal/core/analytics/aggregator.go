package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

// Contribution is the amount of n carried by weightGrams of a food.
func Contribution(profile domain.NutrientProfile, n domain.Nutrient, weightGrams float64) float64 {
	if weightGrams <= 0 {
		return 0
	}
	return profile.Per100g(n) * weightGrams / 100.0
}

// Aggregate sums every entry at full precision. Unresolved entries add
// nothing to the totals but are still counted.
func Aggregate(entries []domain.ResolvedFoodLogEntry) (domain.DailyNutritionTotals, map[domain.MealType]int) {
	totals := domain.DailyNutritionTotals{}
	meals := make(map[domain.MealType]int, len(domain.AllMealTypes))

	for _, e := range entries {
		totals.EntryCount++
		meals[e.Entry.MealType]++

		if !e.Resolved {
			continue
		}
		for _, n := range domain.AllNutrients {
			totals.Add(n, Contribution(e.Profile, n, e.Entry.WeightGrams))
		}
	}

	return totals, meals
}

// GroupByDate buckets entries by UTC calendar date keyed "2006-01-02".
func GroupByDate(entries []domain.ResolvedFoodLogEntry) map[string][]domain.ResolvedFoodLogEntry {
	out := make(map[string][]domain.ResolvedFoodLogEntry)
	for _, e := range entries {
		key := e.Entry.Date().Format(domain.DateLayout)
		out[key] = append(out[key], e)
	}
	return out
}

// FilterDate keeps the entries whose consumedAt falls on date (UTC).
func FilterDate(entries []domain.ResolvedFoodLogEntry, date time.Time) []domain.ResolvedFoodLogEntry {
	day := domain.DateOf(date)
	out := make([]domain.ResolvedFoodLogEntry, 0, len(entries))
	for _, e := range entries {
		if e.Entry.Date().Equal(day) {
			out = append(out, e)
		}
	}
	return out
}

// RecipeProfile derives a per-100g profile from a recipe's ingredients.
// Missing products are skipped; ok is false when nothing resolved.
func RecipeProfile(recipe *domain.Recipe, products map[string]*domain.Product) (domain.NutrientProfile, bool) {
	var (
		sums        domain.DailyNutritionTotals
		totalWeight float64
		resolved    bool
	)
	for _, ing := range recipe.Ingredients {
		totalWeight += ing.WeightGrams
		p, ok := products[ing.ProductID]
		if !ok || p == nil {
			continue
		}
		resolved = true
		for _, n := range domain.AllNutrients {
			sums.Add(n, Contribution(p.Nutrients, n, ing.WeightGrams))
		}
	}
	if !resolved || totalWeight <= 0 {
		return domain.NutrientProfile{}, false
	}

	scale := 100.0 / totalWeight
	return domain.NutrientProfile{
		CaloriesPer100g: sums.TotalCalories * scale,
		ProteinPer100g:  sums.TotalProtein * scale,
		FatPer100g:      sums.TotalFat * scale,
		CarbsPer100g:    sums.TotalCarbs * scale,
	}, true
}
