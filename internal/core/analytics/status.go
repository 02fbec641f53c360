package analytics

import (
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

// AnalyzeDay evaluates one day's totals against the goals. Values are kept
// at full precision; use RoundDailyAnalysis before presenting them.
func AnalyzeDay(date time.Time, totals domain.DailyNutritionTotals, meals map[domain.MealType]int, goals domain.GoalSet, cfg domain.AnalyticsConfig) domain.DailyAnalysis {
	a := domain.DailyAnalysis{
		Date:                 domain.DateOf(date).Format(domain.DateLayout),
		DailyNutritionTotals: totals,
		Goals:                goals,
		ProgressPercentage:   make(map[domain.Nutrient]float64, len(domain.AllNutrients)),
		IsGoalMet:            make(map[domain.Nutrient]bool, len(domain.AllNutrients)),
		IsOverLimit:          make(map[domain.Nutrient]bool, len(domain.AllNutrients)),
		MealCounts:           make(map[domain.MealType]int, len(domain.AllMealTypes)),
	}

	for _, m := range domain.AllMealTypes {
		a.MealCounts[m] = meals[m]
	}

	for _, n := range domain.AllNutrients {
		goal, ok := goals.Get(n).Value()
		if !ok {
			continue
		}
		total := totals.Get(n)
		a.ProgressPercentage[n] = total / goal * 100
		a.IsGoalMet[n] = total > goal*cfg.GoalMetRatio
		a.IsOverLimit[n] = total > goal*cfg.OverLimitRatio
	}

	a.OverallStatus = ClassifyOverallStatus(goals, a.IsGoalMet, a.IsOverLimit)
	return a
}

// ClassifyOverallStatus applies the first matching rule: no goals, every
// goal met without excess, any excess, at least two goals met, otherwise
// needs improvement. Nutrients without a goal are not applicable and take
// no part in any rule.
func ClassifyOverallStatus(goals domain.GoalSet, met, over map[domain.Nutrient]bool) domain.OverallStatus {
	if !goals.AnySet() {
		return domain.StatusNoGoals
	}

	allMet := true
	metCount := 0
	anyOver := false
	for _, n := range domain.AllNutrients {
		if !goals.Get(n).IsSet() {
			continue
		}
		if met[n] {
			metCount++
		} else {
			allMet = false
		}
		if over[n] {
			anyOver = true
		}
	}

	switch {
	case allMet && !anyOver:
		return domain.StatusExcellent
	case anyOver:
		return domain.StatusOverLimit
	case metCount >= 2:
		return domain.StatusGood
	default:
		return domain.StatusNeedsImprovement
	}
}

// RoundDailyAnalysis returns a copy with totals and progress rounded to two decimals.
func RoundDailyAnalysis(a domain.DailyAnalysis) domain.DailyAnalysis {
	out := a
	out.DailyNutritionTotals = a.DailyNutritionTotals.Rounded()
	out.ProgressPercentage = make(map[domain.Nutrient]float64, len(a.ProgressPercentage))
	for n, v := range a.ProgressPercentage {
		out.ProgressPercentage[n] = domain.Round2(v)
	}
	return out
}
