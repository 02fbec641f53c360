package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

// AnalyzeTrends summarizes a window of daily analyses ordered by date,
// oldest first. Days without entries keep their slot in the window but are
// excluded from every average.
func AnalyzeTrends(days []domain.DailyAnalysis, goals domain.GoalSet, cfg domain.AnalyticsConfig) domain.TrendAnalysis {
	qualifying := make([]domain.DailyAnalysis, 0, len(days))
	for _, d := range days {
		if d.HasEntries() {
			qualifying = append(qualifying, d)
		}
	}

	trend := domain.EmptyTrendAnalysis(len(days))
	if len(days) > 0 {
		trend.StartDate = days[0].Date
		trend.EndDate = days[len(days)-1].Date
	}
	if len(qualifying) == 0 {
		return trend
	}

	trend.TotalDaysAnalyzed = len(qualifying)

	for _, n := range domain.AllNutrients {
		values := nutrientValues(qualifying, n)
		trend.AveragePerNutrient[n] = domain.Round2(avg(values))
		trend.ConsistencyScore[n] = consistencyScore(values)
		trend.TrendDirection[n] = nutrientDirection(days, n, goals.Get(n), cfg.TrendEpsilon)
	}

	goalsMetSum := 0
	for _, d := range qualifying {
		if d.OverallStatus.MeetsGoals() {
			trend.DaysGoalsMet++
		}
		goalsMetSum += d.GoalsMetCount()
	}
	total := float64(trend.TotalDaysAnalyzed)
	trend.GoalAdherenceRate = domain.Round2(float64(trend.DaysGoalsMet) / total * 100)
	trend.AverageIndividualGoalsMet = domain.Round2(float64(goalsMetSum) / total)

	applyMealPattern(&trend, qualifying)

	trend.OverallTrend = OverallTrend(trend.TrendDirection, cfg.StronglyImprovingCount)
	trend.IsImproving = trend.OverallTrend == domain.OverallImproving ||
		trend.OverallTrend == domain.OverallStronglyImproving

	trend.IsConsistent = true
	for _, n := range domain.AllNutrients {
		if trend.ConsistencyScore[n] < cfg.ConsistencyThreshold {
			trend.IsConsistent = false
		}
	}

	trend.Insights = trendInsights(trend, goals, cfg)
	return trend
}

// OverallTrend folds per-nutrient directions into one label.
func OverallTrend(directions map[domain.Nutrient]domain.TrendDirection, stronglyImproving int) string {
	improving, declining, noData := 0, 0, 0
	for _, n := range domain.AllNutrients {
		switch directions[n] {
		case domain.TrendImproving:
			improving++
		case domain.TrendDeclining:
			declining++
		case domain.TrendNoData:
			noData++
		}
	}

	switch {
	case noData == len(domain.AllNutrients):
		return domain.OverallNoData
	case improving >= stronglyImproving:
		return domain.OverallStronglyImproving
	case improving >= 2 && declining == 0:
		return domain.OverallImproving
	case declining >= 2:
		return domain.OverallDeclining
	default:
		return domain.OverallStable
	}
}

// nutrientDirection compares the first and second half of the window. With
// an odd window the middle day belongs to neither half. A half without a
// logged day leaves nothing to compare.
func nutrientDirection(days []domain.DailyAnalysis, n domain.Nutrient, goal domain.Goal, epsilon float64) domain.TrendDirection {
	half := len(days) / 2
	if half == 0 {
		return domain.TrendNoData
	}

	first, okFirst := halfAverage(days[:half], n)
	second, okSecond := halfAverage(days[len(days)-half:], n)
	if !okFirst || !okSecond {
		return domain.TrendNoData
	}

	var change float64
	if target, ok := goal.Value(); ok {
		// positive when the second half moved closer to the goal
		change = (math.Abs(first-target) - math.Abs(second-target)) / target
	} else {
		if first == 0 {
			if second > 0 {
				return domain.TrendImproving
			}
			return domain.TrendStable
		}
		change = (second - first) / first
	}

	switch {
	case change > 0 && change >= epsilon:
		return domain.TrendImproving
	case change < 0 && change <= -epsilon:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

func halfAverage(days []domain.DailyAnalysis, n domain.Nutrient) (float64, bool) {
	sum, count := 0.0, 0
	for _, d := range days {
		if !d.HasEntries() {
			continue
		}
		sum += d.Get(n)
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// consistencyScore maps the coefficient of variation onto 0-100, where a
// perfectly flat series scores 100 and a zero mean scores 0.
func consistencyScore(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := avg(values)
	if mean == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	stddev := math.Sqrt(sum / float64(len(values)))
	cv := stddev / math.Abs(mean)
	return domain.Round2(100 - math.Min(100, cv*100))
}

func applyMealPattern(trend *domain.TrendAnalysis, days []domain.DailyAnalysis) {
	counts := make(map[domain.MealType]int, len(domain.AllMealTypes))
	entries := 0
	for _, d := range days {
		entries += d.EntryCount
		for m, c := range d.MealCounts {
			counts[m] += c
		}
	}
	trend.AverageMealsPerDay = domain.Round2(float64(entries) / float64(len(days)))
	if entries == 0 {
		return
	}

	most, least := domain.AllMealTypes[0], domain.AllMealTypes[0]
	for _, m := range domain.AllMealTypes[1:] {
		if counts[m] > counts[most] {
			most = m
		}
		if counts[m] < counts[least] {
			least = m
		}
	}
	trend.MostCommonMealTime = most.String()
	trend.LeastCommonMealTime = least.String()
}

func trendInsights(trend domain.TrendAnalysis, goals domain.GoalSet, cfg domain.AnalyticsConfig) []string {
	insights := []string{
		fmt.Sprintf("You logged meals on %d of the last %d days.", trend.TotalDaysAnalyzed, trend.WindowDays),
	}

	if goals.AnySet() {
		insights = append(insights,
			fmt.Sprintf("On average %.1f individual goals met per day.", trend.AverageIndividualGoalsMet),
			fmt.Sprintf("Your goal adherence is %.0f%% (%d of %d days).", trend.GoalAdherenceRate, trend.DaysGoalsMet, trend.TotalDaysAnalyzed),
		)
	} else {
		insights = append(insights, "Set nutrition goals to track individual goals met and goal adherence.")
	}

	insights = append(insights, fmt.Sprintf("Overall trend: %s.", trend.OverallTrend))

	var declining, erratic []string
	for _, n := range domain.AllNutrients {
		if trend.TrendDirection[n] == domain.TrendDeclining {
			declining = append(declining, strings.ToLower(n.DisplayName()))
		}
		if trend.TotalDaysAnalyzed > 1 && trend.ConsistencyScore[n] < cfg.ConsistencyThreshold {
			erratic = append(erratic, strings.ToLower(n.DisplayName()))
		}
	}
	if len(declining) > 0 {
		insights = append(insights, fmt.Sprintf("Declining: %s.", strings.Join(declining, ", ")))
	}
	switch {
	case trend.TotalDaysAnalyzed < 2:
	case len(erratic) > 0:
		insights = append(insights, fmt.Sprintf("Your %s intake varies a lot from day to day.", strings.Join(erratic, ", ")))
	case trend.IsConsistent:
		insights = append(insights, "Your daily intake is consistent.")
	}

	if trend.MostCommonMealTime != domain.MealTimeNoData {
		insights = append(insights, fmt.Sprintf("You log %.1f meals per day; %s is the most common and %s the least common.",
			trend.AverageMealsPerDay, trend.MostCommonMealTime, trend.LeastCommonMealTime))
	}
	return insights
}

func nutrientValues(days []domain.DailyAnalysis, n domain.Nutrient) []float64 {
	values := make([]float64, 0, len(days))
	for _, d := range days {
		values = append(values, d.Get(n))
	}
	return values
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
