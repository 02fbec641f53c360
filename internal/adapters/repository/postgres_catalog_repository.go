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

var (
	_ domain.ProductRepository = (*PostgresProductRepository)(nil)
	_ domain.RecipeRepository  = (*PostgresRecipeRepository)(nil)
)

type productRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Brand     string    `db:"brand"`
	CreatedAt time.Time `db:"created_at"`
	domain.NutrientProfile
}

func (row productRow) toDomain() *domain.Product {
	return &domain.Product{
		ID:        row.ID,
		Name:      row.Name,
		Brand:     row.Brand,
		Nutrients: row.NutrientProfile,
		CreatedAt: row.CreatedAt,
	}
}

type PostgresProductRepository struct {
	db *sqlx.DB
}

func NewPostgresProductRepository(db *sqlx.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO products (
			id, name, brand, created_at,
			calories_per_100g, protein_per_100g, fat_per_100g, carbs_per_100g
		) VALUES (
			:id, :name, :brand, :created_at,
			:calories_per_100g, :protein_per_100g, :fat_per_100g, :carbs_per_100g
		)`

	row := productRow{
		ID:              product.ID,
		Name:            product.Name,
		Brand:           product.Brand,
		CreatedAt:       product.CreatedAt,
		NutrientProfile: product.Nutrients,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("repository: create product failed: %w", err)
	}
	return nil
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row productRow
	if err := r.db.GetContext(ctx, &row, `SELECT * FROM products WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("repository: get product failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error) {
	found := make(map[string]*domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	rows := []productRow{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("repository: get products failed: %w", err)
	}
	for _, row := range rows {
		found[row.ID] = row.toDomain()
	}
	return found, nil
}

type ingredientRow struct {
	RecipeID string `db:"recipe_id"`
	Position int    `db:"position"`
	domain.RecipeIngredient
}

type PostgresRecipeRepository struct {
	db *sqlx.DB
}

func NewPostgresRecipeRepository(db *sqlx.DB) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{db: db}
}

func (r *PostgresRecipeRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin recipe tx failed: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO recipes (id, user_id, name, created_at)
		VALUES (:id, :user_id, :name, :created_at)`, recipe)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return errDanglingReference
		}
		return fmt.Errorf("repository: create recipe failed: %w", err)
	}

	rows := make([]ingredientRow, 0, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		rows = append(rows, ingredientRow{RecipeID: recipe.ID, Position: i, RecipeIngredient: ing})
	}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO recipe_ingredients (recipe_id, position, product_id, weight_grams)
		VALUES (:recipe_id, :position, :product_id, :weight_grams)`, rows)
	if err != nil {
		if pgErrorCode(err) == codeForeignKeyViolation {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("repository: create recipe ingredients failed: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresRecipeRepository) GetByID(ctx context.Context, id string) (*domain.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var recipe domain.Recipe
	err := r.db.GetContext(ctx, &recipe, `SELECT id, user_id, name, created_at FROM recipes WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("repository: get recipe failed: %w", err)
	}

	recipe.Ingredients = []domain.RecipeIngredient{}
	err = r.db.SelectContext(ctx, &recipe.Ingredients, `
		SELECT product_id, weight_grams FROM recipe_ingredients
		WHERE recipe_id = $1
		ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("repository: get recipe ingredients failed: %w", err)
	}

	return &recipe, nil
}
