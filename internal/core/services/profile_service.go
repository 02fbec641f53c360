package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type ProfileService struct {
	repo domain.ProfileRepository
	cfg  domain.AnalyticsConfig
}

func NewProfileService(repo domain.ProfileRepository, cfg domain.AnalyticsConfig) *ProfileService {
	return &ProfileService{
		repo: repo,
		cfg:  cfg,
	}
}

type UpdateProfileInput struct {
	UserID        string
	HeightCm      *float64
	WeightKg      *float64
	Age           *int
	Gender        *string
	ActivityLevel *string
	FitnessGoal   *string

	Goals domain.GoalSet

	RemindersEnabled bool
	ReminderTimes    []string
	Timezone         string
}

// Get returns an empty profile for users who never saved one.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrProfileNotFound) {
		return domain.NewUserProfile(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile service: failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, input UpdateProfileInput) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{
		UserID:           input.UserID,
		HeightCm:         input.HeightCm,
		WeightKg:         input.WeightKg,
		Age:              input.Age,
		Goals:            input.Goals,
		RemindersEnabled: input.RemindersEnabled,
		ReminderTimes:    input.ReminderTimes,
		Timezone:         input.Timezone,
		UpdatedAt:        time.Now().UTC(),
	}

	if input.Gender != nil {
		g, err := domain.ParseGender(*input.Gender)
		if err != nil {
			return nil, err
		}
		profile.Gender = &g
	}
	if input.ActivityLevel != nil {
		a, err := domain.ParseActivityLevel(*input.ActivityLevel)
		if err != nil {
			return nil, err
		}
		profile.ActivityLevel = &a
	}
	if input.FitnessGoal != nil {
		f, err := domain.ParseFitnessGoal(*input.FitnessGoal)
		if err != nil {
			return nil, err
		}
		profile.FitnessGoal = &f
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile service: failed to save profile: %w", err)
	}
	return profile, nil
}

// ResolveGoals returns the explicit goals completed with derived defaults.
func (s *ProfileService) ResolveGoals(ctx context.Context, userID string) (domain.GoalSet, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return domain.GoalSet{}, err
	}
	return analytics.DeriveGoalSet(profile, s.cfg), nil
}

func (s *ProfileService) BodyMetrics(ctx context.Context, userID string) (domain.BodyMetrics, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return domain.BodyMetrics{}, err
	}
	return analytics.ComputeBodyMetrics(profile), nil
}
