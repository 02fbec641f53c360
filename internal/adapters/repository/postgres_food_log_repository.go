package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

var _ domain.FoodLogRepository = (*PostgresFoodLogRepository)(nil)

var errDanglingReference = errors.New("repository: referenced user, product or recipe does not exist")

// foodLogRow is the flat column layout of food_logs.
// Custom nutrients are present when custom_calories is not null.
type foodLogRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	ProductID   *string   `db:"product_id"`
	RecipeID    *string   `db:"recipe_id"`
	WeightGrams float64   `db:"weight_grams"`
	MealType    int       `db:"meal_type"`
	ConsumedAt  time.Time `db:"consumed_at"`

	CustomCalories *float64 `db:"custom_calories"`
	CustomProtein  *float64 `db:"custom_protein"`
	CustomFat      *float64 `db:"custom_fat"`
	CustomCarbs    *float64 `db:"custom_carbs"`

	Version   int       `db:"version"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toFoodLogRow(e *domain.FoodLogEntry) foodLogRow {
	row := foodLogRow{
		ID:          e.ID,
		UserID:      e.UserID,
		ProductID:   e.ProductID,
		RecipeID:    e.RecipeID,
		WeightGrams: e.WeightGrams,
		MealType:    int(e.MealType),
		ConsumedAt:  e.ConsumedAt.UTC(),
		Version:     e.Version,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if c := e.CustomNutrients; c != nil {
		row.CustomCalories = &c.CaloriesPer100g
		row.CustomProtein = &c.ProteinPer100g
		row.CustomFat = &c.FatPer100g
		row.CustomCarbs = &c.CarbsPer100g
	}
	return row
}

func (row foodLogRow) toDomain() *domain.FoodLogEntry {
	e := &domain.FoodLogEntry{
		ID:          row.ID,
		UserID:      row.UserID,
		ProductID:   row.ProductID,
		RecipeID:    row.RecipeID,
		WeightGrams: row.WeightGrams,
		MealType:    domain.MealType(row.MealType),
		ConsumedAt:  row.ConsumedAt.UTC(),
		Version:     row.Version,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.CustomCalories != nil {
		e.CustomNutrients = &domain.NutrientProfile{
			CaloriesPer100g: *row.CustomCalories,
			ProteinPer100g:  valueOrZero(row.CustomProtein),
			FatPer100g:      valueOrZero(row.CustomFat),
			CarbsPer100g:    valueOrZero(row.CustomCarbs),
		}
	}
	return e
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

type PostgresFoodLogRepository struct {
	db *sqlx.DB
}

func NewPostgresFoodLogRepository(db *sqlx.DB) *PostgresFoodLogRepository {
	return &PostgresFoodLogRepository{db: db}
}

func (r *PostgresFoodLogRepository) Create(ctx context.Context, entry *domain.FoodLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO food_logs (
			id, user_id, product_id, recipe_id,
			weight_grams, meal_type, consumed_at,
			custom_calories, custom_protein, custom_fat, custom_carbs,
			version, created_at, updated_at
		) VALUES (
			:id, :user_id, :product_id, :recipe_id,
			:weight_grams, :meal_type, :consumed_at,
			:custom_calories, :custom_protein, :custom_fat, :custom_carbs,
			:version, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, toFoodLogRow(entry)); err != nil {
		switch pgErrorCode(err) {
		case codeForeignKeyViolation:
			return errDanglingReference
		case codeUniqueViolation:
			return domain.ErrFoodLogConflict
		}
		return fmt.Errorf("repository: create food log failed: %w", err)
	}
	return nil
}

func (r *PostgresFoodLogRepository) GetByID(ctx context.Context, id string) (*domain.FoodLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row foodLogRow
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM food_logs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFoodLogNotFound
		}
		return nil, fmt.Errorf("repository: get food log failed: %w", err)
	}
	return row.toDomain(), nil
}

// Update expects entry.Version to be already incremented by the caller.
func (r *PostgresFoodLogRepository) Update(ctx context.Context, entry *domain.FoodLogEntry) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE food_logs
		SET weight_grams = :weight_grams,
		    meal_type = :meal_type,
		    consumed_at = :consumed_at,
		    custom_calories = :custom_calories,
		    custom_protein = :custom_protein,
		    custom_fat = :custom_fat,
		    custom_carbs = :custom_carbs,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1`

	result, err := r.db.NamedExecContext(ctx, query, toFoodLogRow(entry))
	if err != nil {
		return fmt.Errorf("repository: update food log failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, _ := r.exists(ctx, entry.ID)
		if !exists {
			return domain.ErrFoodLogNotFound
		}
		return domain.ErrFoodLogConflict
	}
	return nil
}

func (r *PostgresFoodLogRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM food_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("repository: delete food log failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrFoodLogNotFound
	}
	return nil
}

func (r *PostgresFoodLogRepository) ListByUserAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.FoodLogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows := []foodLogRow{}
	query := `
		SELECT * FROM food_logs
		WHERE user_id = $1
		  AND consumed_at >= $2
		  AND consumed_at < $3
		ORDER BY consumed_at ASC`

	if err := r.db.SelectContext(ctx, &rows, query, userID, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("repository: list food logs failed: %w", err)
	}

	entries := make([]*domain.FoodLogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}

func (r *PostgresFoodLogRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM food_logs WHERE id = $1", id)
	return count > 0, err
}
