package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

const (
	MsgCompleteProfile = "Please complete your profile to get personalized recommendations."
	MsgStartLogging    = "Start logging your meals to get personalized recommendations."
	MsgAllGoalsMet     = "Great work! You are meeting all of your goals and your trend is improving. Keep it up!"
	MsgKeepGoing       = "You are on the right track, keep going!"
)

var foodExamples = map[domain.Nutrient]string{
	domain.NutrientCalories: "whole grains, nuts, avocado or a balanced extra snack",
	domain.NutrientProtein:  "lean meat, fish, eggs, legumes or greek yogurt",
	domain.NutrientFat:      "olive oil, nuts, seeds or oily fish",
	domain.NutrientCarbs:    "oats, rice, potatoes, fruit or whole-grain bread",
}

var decliningTips = map[domain.Nutrient]string{
	domain.NutrientCalories: "plan your meals ahead to stay close to your calorie goal",
	domain.NutrientProtein:  "add a protein source to every main meal",
	domain.NutrientFat:      "watch dressings, fried food and snacks",
	domain.NutrientCarbs:    "spread carbohydrates evenly across your meals",
}

// GenerateRecommendations turns the current day and the window trend into an
// ordered list of messages, most actionable first. When current has no
// entries the window averages stand in for it.
func GenerateRecommendations(current domain.DailyAnalysis, trend domain.TrendAnalysis, goals domain.GoalSet, cfg domain.AnalyticsConfig) []string {
	if !goals.AnySet() {
		return []string{MsgCompleteProfile}
	}
	if !current.HasEntries() && trend.TotalDaysAnalyzed == 0 {
		return []string{MsgStartLogging}
	}

	ref := current
	if !current.HasEntries() {
		ref = averageAnalysis(trend, goals, cfg)
	}

	recs := make([]string, 0, 8)
	if ref.OverallStatus == domain.StatusExcellent && trend.IsImproving {
		recs = append(recs, MsgAllGoalsMet)
		return append(recs, summaryLine(trend))
	}

	for _, n := range domain.AllNutrients {
		if over, ok := ref.OverLimit(n); ok && over {
			progress, _ := ref.Progress(n)
			recs = append(recs, fmt.Sprintf("Reduce your %s intake: you are at %.0f%% of your goal, above the %.0f%% limit.",
				label(n), progress, cfg.OverLimitRatio*100))
		}
	}

	for _, n := range domain.AllNutrients {
		progress, ok := ref.Progress(n)
		if ok && progress < cfg.UnderGoalProgress {
			recs = append(recs, fmt.Sprintf("Increase your %s intake (%.0f%% of your goal). Try %s.",
				label(n), progress, foodExamples[n]))
		}
	}

	if trend.TotalDaysAnalyzed > 1 {
		for _, n := range domain.AllNutrients {
			if score := trend.ConsistencyScore[n]; score < cfg.ConsistencyThreshold {
				recs = append(recs, fmt.Sprintf("Improve the consistency of your %s intake: it varies a lot between days (score %.0f/100).",
					label(n), score))
			}
		}
	}

	for _, n := range domain.AllNutrients {
		if trend.TrendDirection[n] == domain.TrendDeclining {
			recs = append(recs, fmt.Sprintf("Your %s trend is declining: %s.", label(n), decliningTips[n]))
		}
	}

	if len(recs) == 0 || ref.OverallStatus.MeetsGoals() {
		recs = append(recs, MsgKeepGoing)
	}

	if trend.TotalDaysAnalyzed > 0 {
		recs = append(recs, summaryLine(trend))
	}
	return recs
}

func summaryLine(trend domain.TrendAnalysis) string {
	return fmt.Sprintf("Over the last %d days you averaged %.1f individual goals met per day with %.0f%% goal adherence.",
		trend.WindowDays, trend.AverageIndividualGoalsMet, trend.GoalAdherenceRate)
}

// averageAnalysis evaluates the window averages as if they were one day.
func averageAnalysis(trend domain.TrendAnalysis, goals domain.GoalSet, cfg domain.AnalyticsConfig) domain.DailyAnalysis {
	totals := domain.DailyNutritionTotals{EntryCount: trend.TotalDaysAnalyzed}
	for _, n := range domain.AllNutrients {
		totals.Add(n, trend.AveragePerNutrient[n])
	}
	// zero time when EndDate is empty
	date, _ := time.Parse(domain.DateLayout, trend.EndDate)
	return AnalyzeDay(date, totals, nil, goals, cfg)
}

func label(n domain.Nutrient) string {
	return strings.ToLower(n.DisplayName())
}
