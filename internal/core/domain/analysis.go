package domain

import (
	"errors"
	"math"
	"time"
)

var ErrInvalidWindow = errors.New("invalid trend window")

type OverallStatus string

const (
	StatusNoGoals          OverallStatus = "No goals set"
	StatusExcellent        OverallStatus = "Excellent"
	StatusGood             OverallStatus = "Good"
	StatusNeedsImprovement OverallStatus = "Needs Improvement"
	StatusOverLimit        OverallStatus = "Over Limit"
)

// MeetsGoals reports whether a day with this status counts towards goal adherence.
func (s OverallStatus) MeetsGoals() bool {
	return s == StatusExcellent || s == StatusGood
}

type TrendDirection string

const (
	TrendImproving TrendDirection = "Improving"
	TrendStable    TrendDirection = "Stable"
	TrendDeclining TrendDirection = "Declining"
	TrendNoData    TrendDirection = "No data"
)

const (
	OverallStronglyImproving = "Strongly Improving"
	OverallImproving         = "Improving"
	OverallDeclining         = "Declining"
	OverallStable            = "Stable"
	OverallNoData            = "No data"

	MealTimeNoData = "No data"
)

// DailyNutritionTotals are the summed nutrients of one user's entries on one date.
type DailyNutritionTotals struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalProtein  float64 `json:"totalProtein"`
	TotalFat      float64 `json:"totalFat"`
	TotalCarbs    float64 `json:"totalCarbs"`
	EntryCount    int     `json:"entryCount"`
}

func (t DailyNutritionTotals) Get(n Nutrient) float64 {
	switch n {
	case NutrientCalories:
		return t.TotalCalories
	case NutrientProtein:
		return t.TotalProtein
	case NutrientFat:
		return t.TotalFat
	case NutrientCarbs:
		return t.TotalCarbs
	}
	return 0
}

func (t *DailyNutritionTotals) Add(n Nutrient, v float64) {
	switch n {
	case NutrientCalories:
		t.TotalCalories += v
	case NutrientProtein:
		t.TotalProtein += v
	case NutrientFat:
		t.TotalFat += v
	case NutrientCarbs:
		t.TotalCarbs += v
	}
}

// Rounded returns the totals rounded to two decimals for presentation.
func (t DailyNutritionTotals) Rounded() DailyNutritionTotals {
	return DailyNutritionTotals{
		TotalCalories: Round2(t.TotalCalories),
		TotalProtein:  Round2(t.TotalProtein),
		TotalFat:      Round2(t.TotalFat),
		TotalCarbs:    Round2(t.TotalCarbs),
		EntryCount:    t.EntryCount,
	}
}

type DailyAnalysis struct {
	Date string `json:"date"`
	DailyNutritionTotals
	Goals GoalSet `json:"goals"`

	// Goal dependent fields have no key for nutrients without a goal.
	ProgressPercentage map[Nutrient]float64 `json:"progressPercentage"`
	IsGoalMet          map[Nutrient]bool    `json:"isGoalMet"`
	IsOverLimit        map[Nutrient]bool    `json:"isOverLimit"`

	MealCounts    map[MealType]int `json:"mealCounts"`
	OverallStatus OverallStatus    `json:"overallStatus"`
}

// GoalMet returns (met, applicable).
func (a DailyAnalysis) GoalMet(n Nutrient) (bool, bool) {
	v, ok := a.IsGoalMet[n]
	return v, ok
}

// OverLimit returns (over, applicable).
func (a DailyAnalysis) OverLimit(n Nutrient) (bool, bool) {
	v, ok := a.IsOverLimit[n]
	return v, ok
}

// Progress returns (percentage, applicable).
func (a DailyAnalysis) Progress(n Nutrient) (float64, bool) {
	v, ok := a.ProgressPercentage[n]
	return v, ok
}

func (a DailyAnalysis) GoalsMetCount() int {
	count := 0
	for _, met := range a.IsGoalMet {
		if met {
			count++
		}
	}
	return count
}

func (a DailyAnalysis) HasEntries() bool {
	return a.EntryCount > 0
}

// TrendInput selects the window of Days calendar days ending at EndDate (inclusive).
// A zero EndDate means today.
type TrendInput struct {
	UserID  string
	Days    int
	EndDate time.Time
}

type TrendAnalysis struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	WindowDays int    `json:"windowDays"`

	AveragePerNutrient map[Nutrient]float64        `json:"averagePerNutrient"`
	TrendDirection     map[Nutrient]TrendDirection `json:"trendDirection"`
	ConsistencyScore   map[Nutrient]float64        `json:"consistencyScore"`

	GoalAdherenceRate         float64 `json:"goalAdherenceRate"`
	DaysGoalsMet              int     `json:"daysGoalsMet"`
	TotalDaysAnalyzed         int     `json:"totalDaysAnalyzed"`
	AverageIndividualGoalsMet float64 `json:"averageIndividualGoalsMet"`

	AverageMealsPerDay  float64 `json:"averageMealsPerDay"`
	MostCommonMealTime  string  `json:"mostCommonMealTime"`
	LeastCommonMealTime string  `json:"leastCommonMealTime"`

	OverallTrend string   `json:"overallTrend"`
	Insights     []string `json:"insights"`
	IsConsistent bool     `json:"isConsistent"`
	IsImproving  bool     `json:"isImproving"`
}

// EmptyTrendAnalysis is the "No data" result for windows without any logged day.
func EmptyTrendAnalysis(windowDays int) TrendAnalysis {
	trend := TrendAnalysis{
		WindowDays:          windowDays,
		AveragePerNutrient:  make(map[Nutrient]float64, len(AllNutrients)),
		TrendDirection:      make(map[Nutrient]TrendDirection, len(AllNutrients)),
		ConsistencyScore:    make(map[Nutrient]float64, len(AllNutrients)),
		MostCommonMealTime:  MealTimeNoData,
		LeastCommonMealTime: MealTimeNoData,
		OverallTrend:        OverallNoData,
		Insights:            []string{},
	}
	for _, n := range AllNutrients {
		trend.AveragePerNutrient[n] = 0
		trend.TrendDirection[n] = TrendNoData
		trend.ConsistencyScore[n] = 0
	}
	return trend
}

// Round2 rounds to two decimals and maps NaN and infinities to zero.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
