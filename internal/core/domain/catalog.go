package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrProductNameEmpty = errors.New("product name cannot be empty")
	ErrRecipeNameEmpty  = errors.New("recipe name cannot be empty")
	ErrRecipeEmpty      = errors.New("recipe needs at least one ingredient")
	ErrInvalidAmount    = errors.New("ingredient weight must be greater than zero")
)

type Product struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Brand     string          `json:"brand,omitempty" db:"brand"`
	Nutrients NutrientProfile `json:"nutrients" db:"-"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

func NewProduct(name, brand string, nutrients NutrientProfile) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrProductNameEmpty
	}
	if err := nutrients.Validate(); err != nil {
		return nil, err
	}

	return &Product{
		ID:        uuid.NewString(),
		Name:      name,
		Brand:     strings.TrimSpace(brand),
		Nutrients: nutrients,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type RecipeIngredient struct {
	ProductID   string  `json:"productId" db:"product_id"`
	WeightGrams float64 `json:"weightGrams" db:"weight_grams"`
}

type Recipe struct {
	ID          string             `json:"id" db:"id"`
	UserID      string             `json:"userId" db:"user_id"`
	Name        string             `json:"name" db:"name"`
	Ingredients []RecipeIngredient `json:"ingredients" db:"-"`
	CreatedAt   time.Time          `json:"createdAt" db:"created_at"`
}

func NewRecipe(userID, name string, ingredients []RecipeIngredient) (*Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrRecipeNameEmpty
	}
	if len(ingredients) == 0 {
		return nil, ErrRecipeEmpty
	}
	for _, ing := range ingredients {
		if strings.TrimSpace(ing.ProductID) == "" {
			return nil, ErrProductNotFound
		}
		if ing.WeightGrams <= 0 {
			return nil, ErrInvalidAmount
		}
	}

	return &Recipe{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Ingredients: ingredients,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// TotalWeight is the sum of all ingredient weights in grams.
func (r *Recipe) TotalWeight() float64 {
	total := 0.0
	for _, ing := range r.Ingredients {
		total += ing.WeightGrams
	}
	return total
}

type ProductRepository interface {
	Create(ctx context.Context, product *Product) error

	// GetByID returns ErrProductNotFound when the product does not exist.
	GetByID(ctx context.Context, id string) (*Product, error)

	// GetByIDs fetches many products at once. Missing IDs are simply absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
}

type RecipeRepository interface {
	// Create persists the recipe together with its ingredients.
	Create(ctx context.Context, recipe *Recipe) error

	// GetByID returns ErrRecipeNotFound when the recipe does not exist.
	GetByID(ctx context.Context, id string) (*Recipe, error)
}
