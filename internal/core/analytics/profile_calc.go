package analytics

import (
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

const (
	kcalPerGramProtein = 4.0
	kcalPerGramCarbs   = 4.0
	kcalPerGramFat     = 9.0

	calorieAdjustment = 500.0
)

var bmrGenderOffset = map[domain.Gender]float64{
	domain.GenderMale:   5,
	domain.GenderFemale: -161,
	domain.GenderOther:  -78,
}

// CalculateBMI returns nil unless both height and weight are positive.
func CalculateBMI(heightCm, weightKg float64) *float64 {
	if heightCm <= 0 || weightKg <= 0 {
		return nil
	}
	h := heightCm / 100.0
	bmi := weightKg / (h * h)
	return &bmi
}

func GetBMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal weight"
	case bmi < 30.0:
		return "Overweight"
	default:
		return "Obese"
	}
}

// CalculateBMR uses Mifflin-St Jeor. "other" uses the midpoint of the male
// and female constants.
func CalculateBMR(heightCm, weightKg float64, age int, gender domain.Gender) *float64 {
	offset, ok := bmrGenderOffset[gender]
	if !ok || heightCm <= 0 || weightKg <= 0 || age <= 0 {
		return nil
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age) + offset
	return &bmr
}

func CalculateTDEE(bmr *float64, level domain.ActivityLevel) *float64 {
	if bmr == nil {
		return nil
	}
	mult, ok := domain.ActivityMultipliers[level]
	if !ok {
		return nil
	}
	tdee := *bmr * mult
	return &tdee
}

// CalculateRecommendedCalories does not clamp to any minimum intake.
func CalculateRecommendedCalories(tdee *float64, goal domain.FitnessGoal) *float64 {
	if tdee == nil {
		return nil
	}
	var kcal float64
	switch goal {
	case domain.GoalLoseWeight:
		kcal = *tdee - calorieAdjustment
	case domain.GoalGainWeight:
		kcal = *tdee + calorieAdjustment
	case domain.GoalMaintainWeight:
		kcal = *tdee
	default:
		return nil
	}
	return &kcal
}

// ComputeBodyMetrics chains the calculator over a possibly incomplete profile.
func ComputeBodyMetrics(p *domain.UserProfile) domain.BodyMetrics {
	var (
		height, weight float64
		age            int
		gender         domain.Gender
		level          domain.ActivityLevel
		goal           domain.FitnessGoal
	)
	if p.HeightCm != nil {
		height = *p.HeightCm
	}
	if p.WeightKg != nil {
		weight = *p.WeightKg
	}
	if p.Age != nil {
		age = *p.Age
	}
	if p.Gender != nil {
		gender = *p.Gender
	}
	if p.ActivityLevel != nil {
		level = *p.ActivityLevel
	}
	if p.FitnessGoal != nil {
		goal = *p.FitnessGoal
	}

	metrics := domain.BodyMetrics{BMICategory: "Unknown"}
	metrics.BMI = CalculateBMI(height, weight)
	if metrics.BMI != nil {
		metrics.BMICategory = GetBMICategory(*metrics.BMI)
	}
	metrics.BMR = CalculateBMR(height, weight, age, gender)
	metrics.TDEE = CalculateTDEE(metrics.BMR, level)
	metrics.RecommendedCalories = CalculateRecommendedCalories(metrics.TDEE, goal)
	return metrics
}

// DeriveGoalSet keeps every goal the user set explicitly and fills the gaps
// from the recommended calories and the configured macro split.
func DeriveGoalSet(p *domain.UserProfile, cfg domain.AnalyticsConfig) domain.GoalSet {
	goals := p.Goals
	if !cfg.DeriveGoals || goals.AllSet() {
		return goals
	}

	kcal, ok := goals.Calories.Value()
	if !ok {
		rec := ComputeBodyMetrics(p).RecommendedCalories
		if rec == nil {
			return goals
		}
		kcal = *rec
		goals.Calories = domain.NewGoal(kcal)
	}

	if !goals.Protein.IsSet() {
		goals.Protein = domain.NewGoal(kcal * cfg.ProteinShare / kcalPerGramProtein)
	}
	if !goals.Fat.IsSet() {
		goals.Fat = domain.NewGoal(kcal * cfg.FatShare / kcalPerGramFat)
	}
	if !goals.Carbs.IsSet() {
		goals.Carbs = domain.NewGoal(kcal * cfg.CarbShare / kcalPerGramCarbs)
	}
	return goals
}
