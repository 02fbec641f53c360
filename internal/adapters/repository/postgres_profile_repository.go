package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var _ domain.ProfileRepository = (*PostgresProfileRepository)(nil)

type profileRow struct {
	UserID        string   `db:"user_id"`
	HeightCm      *float64 `db:"height_cm"`
	WeightKg      *float64 `db:"weight_kg"`
	Age           *int     `db:"age"`
	Gender        *string  `db:"gender"`
	ActivityLevel *string  `db:"activity_level"`
	FitnessGoal   *string  `db:"fitness_goal"`

	CalorieGoal *float64 `db:"calorie_goal"`
	ProteinGoal *float64 `db:"protein_goal"`
	FatGoal     *float64 `db:"fat_goal"`
	CarbGoal    *float64 `db:"carb_goal"`

	RemindersEnabled bool           `db:"reminders_enabled"`
	ReminderTimes    pq.StringArray `db:"reminder_times"`
	Timezone         string         `db:"timezone"`

	UpdatedAt time.Time `db:"updated_at"`
}

func toProfileRow(p *domain.UserProfile) profileRow {
	row := profileRow{
		UserID:           p.UserID,
		HeightCm:         p.HeightCm,
		WeightKg:         p.WeightKg,
		Age:              p.Age,
		CalorieGoal:      p.Goals.Calories.Ptr(),
		ProteinGoal:      p.Goals.Protein.Ptr(),
		FatGoal:          p.Goals.Fat.Ptr(),
		CarbGoal:         p.Goals.Carbs.Ptr(),
		RemindersEnabled: p.RemindersEnabled,
		ReminderTimes:    pq.StringArray(p.ReminderTimes),
		Timezone:         p.Timezone,
		UpdatedAt:        p.UpdatedAt,
	}
	if row.ReminderTimes == nil {
		row.ReminderTimes = pq.StringArray{}
	}
	if p.Gender != nil {
		s := string(*p.Gender)
		row.Gender = &s
	}
	if p.ActivityLevel != nil {
		s := string(*p.ActivityLevel)
		row.ActivityLevel = &s
	}
	if p.FitnessGoal != nil {
		s := string(*p.FitnessGoal)
		row.FitnessGoal = &s
	}
	return row
}

// toDomain drops enum values the current code no longer recognizes
// instead of failing the whole read.
func (row profileRow) toDomain() *domain.UserProfile {
	p := &domain.UserProfile{
		UserID:   row.UserID,
		HeightCm: row.HeightCm,
		WeightKg: row.WeightKg,
		Age:      row.Age,
		Goals: domain.GoalSet{
			Calories: domain.GoalFromPtr(row.CalorieGoal),
			Protein:  domain.GoalFromPtr(row.ProteinGoal),
			Fat:      domain.GoalFromPtr(row.FatGoal),
			Carbs:    domain.GoalFromPtr(row.CarbGoal),
		},
		RemindersEnabled: row.RemindersEnabled,
		ReminderTimes:    []string(row.ReminderTimes),
		Timezone:         row.Timezone,
		UpdatedAt:        row.UpdatedAt,
	}
	if row.Gender != nil {
		if g, err := domain.ParseGender(*row.Gender); err == nil {
			p.Gender = &g
		}
	}
	if row.ActivityLevel != nil {
		if a, err := domain.ParseActivityLevel(*row.ActivityLevel); err == nil {
			p.ActivityLevel = &a
		}
	}
	if row.FitnessGoal != nil {
		if f, err := domain.ParseFitnessGoal(*row.FitnessGoal); err == nil {
			p.FitnessGoal = &f
		}
	}
	return p
}

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row profileRow
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM user_profiles WHERE user_id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: get profile failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO user_profiles (
			user_id, height_cm, weight_kg, age, gender, activity_level, fitness_goal,
			calorie_goal, protein_goal, fat_goal, carb_goal,
			reminders_enabled, reminder_times, timezone, updated_at
		) VALUES (
			:user_id, :height_cm, :weight_kg, :age, :gender, :activity_level, :fitness_goal,
			:calorie_goal, :protein_goal, :fat_goal, :carb_goal,
			:reminders_enabled, :reminder_times, :timezone, :updated_at
		)
		ON CONFLICT (user_id) DO UPDATE SET
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			activity_level = EXCLUDED.activity_level,
			fitness_goal = EXCLUDED.fitness_goal,
			calorie_goal = EXCLUDED.calorie_goal,
			protein_goal = EXCLUDED.protein_goal,
			fat_goal = EXCLUDED.fat_goal,
			carb_goal = EXCLUDED.carb_goal,
			reminders_enabled = EXCLUDED.reminders_enabled,
			reminder_times = EXCLUDED.reminder_times,
			timezone = EXCLUDED.timezone,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, toProfileRow(profile)); err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("repository: upsert profile failed: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) ListWithReminders(ctx context.Context) ([]*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows := []profileRow{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM user_profiles WHERE reminders_enabled = TRUE`); err != nil {
		return nil, fmt.Errorf("repository: list reminder profiles failed: %w", err)
	}

	profiles := make([]*domain.UserProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toDomain())
	}
	return profiles, nil
}
