package domain

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrInvalidProfile       = errors.New("invalid profile data")
	ErrInvalidGender        = errors.New("invalid gender (must be male, female or other)")
	ErrInvalidActivityLevel = errors.New("invalid activity level")
	ErrInvalidFitnessGoal   = errors.New("invalid fitness goal (must be lose_weight, maintain_weight or gain_weight)")
	ErrInvalidReminderTime  = errors.New("invalid reminder time (must be HH:MM 24h)")
	ErrInvalidTimezone      = errors.New("invalid timezone")
)

var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.ToLower(strings.TrimSpace(s))); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	}
	return "", ErrInvalidGender
}

type ActivityLevel string

const (
	ActivitySedentary        ActivityLevel = "sedentary"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityExtremelyActive  ActivityLevel = "extremely_active"
)

// ActivityMultipliers maps each activity level to its TDEE multiplier.
var ActivityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:        1.2,
	ActivityLightlyActive:    1.375,
	ActivityModeratelyActive: 1.55,
	ActivityVeryActive:       1.725,
	ActivityExtremelyActive:  1.9,
}

func ParseActivityLevel(s string) (ActivityLevel, error) {
	a := ActivityLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ActivityMultipliers[a]; !ok {
		return "", ErrInvalidActivityLevel
	}
	return a, nil
}

type FitnessGoal string

const (
	GoalLoseWeight     FitnessGoal = "lose_weight"
	GoalMaintainWeight FitnessGoal = "maintain_weight"
	GoalGainWeight     FitnessGoal = "gain_weight"
)

func ParseFitnessGoal(s string) (FitnessGoal, error) {
	switch g := FitnessGoal(strings.ToLower(strings.TrimSpace(s))); g {
	case GoalLoseWeight, GoalMaintainWeight, GoalGainWeight:
		return g, nil
	}
	return "", ErrInvalidFitnessGoal
}

type UserProfile struct {
	UserID        string         `json:"userId"`
	HeightCm      *float64       `json:"heightCm,omitempty"`
	WeightKg      *float64       `json:"weightKg,omitempty"`
	Age           *int           `json:"age,omitempty"`
	Gender        *Gender        `json:"gender,omitempty"`
	ActivityLevel *ActivityLevel `json:"activityLevel,omitempty"`
	FitnessGoal   *FitnessGoal   `json:"fitnessGoal,omitempty"`

	Goals GoalSet `json:"goals"`

	RemindersEnabled bool     `json:"remindersEnabled"`
	ReminderTimes    []string `json:"reminderTimes,omitempty"`
	Timezone         string   `json:"timezone,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserProfile is the profile of a user who has not filled anything in yet.
func NewUserProfile(userID string) *UserProfile {
	return &UserProfile{
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	}
}

func (p *UserProfile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidProfile)
	}
	if p.HeightCm != nil && *p.HeightCm <= 0 {
		return fmt.Errorf("%w: height must be positive", ErrInvalidProfile)
	}
	if p.WeightKg != nil && *p.WeightKg <= 0 {
		return fmt.Errorf("%w: weight must be positive", ErrInvalidProfile)
	}
	if p.Age != nil && (*p.Age <= 0 || *p.Age > 130) {
		return fmt.Errorf("%w: age must be between 1 and 130", ErrInvalidProfile)
	}
	for _, t := range p.ReminderTimes {
		if !reminderRegex.MatchString(t) {
			return ErrInvalidReminderTime
		}
	}
	if p.Timezone != "" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return ErrInvalidTimezone
		}
	}
	return nil
}

// Location resolves the profile timezone, falling back to the given default.
func (p *UserProfile) Location(fallback *time.Location) *time.Location {
	if p.Timezone != "" {
		if loc, err := time.LoadLocation(p.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}

type BodyMetrics struct {
	BMI                 *float64 `json:"bmi"`
	BMICategory         string   `json:"bmiCategory"`
	BMR                 *float64 `json:"bmr"`
	TDEE                *float64 `json:"tdee"`
	RecommendedCalories *float64 `json:"recommendedCalories"`
}

type ProfileRepository interface {
	// GetByUserID returns ErrProfileNotFound when the user never saved a profile.
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)

	// Upsert creates or replaces the profile of profile.UserID.
	Upsert(ctx context.Context, profile *UserProfile) error

	// ListWithReminders returns every profile that has reminders enabled.
	ListWithReminders(ctx context.Context) ([]*UserProfile, error)
}
