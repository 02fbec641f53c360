package domain

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("invalid analytics configuration")

// AnalyticsConfig carries every threshold the engine uses. It is built once
// and passed by value; nothing in the engine reads process-wide defaults.
type AnalyticsConfig struct {
	// GoalMetRatio: a goal is met when total > goal*GoalMetRatio.
	GoalMetRatio float64
	// OverLimitRatio: a nutrient is over limit when total > goal*OverLimitRatio.
	OverLimitRatio float64

	TrendEpsilon           float64
	ConsistencyThreshold   float64
	UnderGoalProgress      float64
	StronglyImprovingCount int

	DefaultWindowDays int
	MaxWindowDays     int

	DeriveGoals  bool
	ProteinShare float64
	FatShare     float64
	CarbShare    float64
}

func DefaultAnalyticsConfig() AnalyticsConfig {
	return AnalyticsConfig{
		GoalMetRatio:           0.9,
		OverLimitRatio:         1.1,
		TrendEpsilon:           0.02,
		ConsistencyThreshold:   75,
		UnderGoalProgress:      70,
		StronglyImprovingCount: 3,
		DefaultWindowDays:      7,
		MaxWindowDays:          366,
		DeriveGoals:            true,
		ProteinShare:           0.30,
		FatShare:               0.25,
		CarbShare:              0.45,
	}
}

func (c AnalyticsConfig) Validate() error {
	if c.GoalMetRatio <= 0 || c.OverLimitRatio <= c.GoalMetRatio {
		return errors.Join(ErrInvalidConfig, errors.New("over-limit ratio must exceed goal-met ratio"))
	}
	if c.TrendEpsilon < 0 {
		return errors.Join(ErrInvalidConfig, errors.New("trend epsilon cannot be negative"))
	}
	if c.ConsistencyThreshold < 0 || c.ConsistencyThreshold > 100 {
		return errors.Join(ErrInvalidConfig, errors.New("consistency threshold must be within 0-100"))
	}
	if c.DefaultWindowDays < 1 || c.MaxWindowDays < c.DefaultWindowDays {
		return errors.Join(ErrInvalidConfig, errors.New("window sizes are inconsistent"))
	}
	if c.DeriveGoals {
		sum := c.ProteinShare + c.FatShare + c.CarbShare
		if sum < 0.99 || sum > 1.01 {
			return errors.Join(ErrInvalidConfig, errors.New("macro shares must add up to 1"))
		}
	}
	return nil
}

type ReminderConfig struct {
	DefaultTimes    []string
	DefaultLocation *time.Location
	TickInterval    time.Duration
	// GracePeriod is how long after a reminder time it may still be sent.
	GracePeriod time.Duration
	WindowDays  int
	Workers     int
	QueueSize   int
}

func DefaultReminderConfig() ReminderConfig {
	return ReminderConfig{
		DefaultTimes:    []string{"08:00", "13:00", "19:00"},
		DefaultLocation: time.UTC,
		TickInterval:    time.Minute,
		GracePeriod:     30 * time.Minute,
		WindowDays:      7,
		Workers:         4,
		QueueSize:       100,
	}
}
