package services

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/analytics"
	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type CatalogService struct {
	products domain.ProductRepository
	recipes  domain.RecipeRepository
}

func NewCatalogService(products domain.ProductRepository, recipes domain.RecipeRepository) *CatalogService {
	return &CatalogService{
		products: products,
		recipes:  recipes,
	}
}

type CreateProductInput struct {
	Name      string
	Brand     string
	Nutrients domain.NutrientProfile
}

type CreateRecipeInput struct {
	UserID      string
	Name        string
	Ingredients []domain.RecipeIngredient
}

// RecipeDetails is a recipe together with its derived nutrient density.
type RecipeDetails struct {
	*domain.Recipe
	TotalWeightGrams float64                 `json:"totalWeightGrams"`
	NutrientsPer100g *domain.NutrientProfile `json:"nutrientsPer100g"`
}

func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	product, err := domain.NewProduct(input.Name, input.Brand, input.Nutrients)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("catalog service: failed to create product: %w", err)
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

func (s *CatalogService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*RecipeDetails, error) {
	recipe, err := domain.NewRecipe(input.UserID, input.Name, input.Ingredients)
	if err != nil {
		return nil, err
	}

	products, err := s.ingredientProducts(ctx, recipe)
	if err != nil {
		return nil, err
	}
	for _, ing := range recipe.Ingredients {
		if _, ok := products[ing.ProductID]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, ing.ProductID)
		}
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("catalog service: failed to create recipe: %w", err)
	}
	return details(recipe, products), nil
}

func (s *CatalogService) GetRecipe(ctx context.Context, id string, userID string) (*RecipeDetails, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	products, err := s.ingredientProducts(ctx, recipe)
	if err != nil {
		return nil, err
	}
	return details(recipe, products), nil
}

func (s *CatalogService) ingredientProducts(ctx context.Context, recipe *domain.Recipe) (map[string]*domain.Product, error) {
	ids := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ids = append(ids, ing.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog service: failed to load ingredients: %w", err)
	}
	return products, nil
}

func details(recipe *domain.Recipe, products map[string]*domain.Product) *RecipeDetails {
	d := &RecipeDetails{
		Recipe:           recipe,
		TotalWeightGrams: recipe.TotalWeight(),
	}
	if profile, ok := analytics.RecipeProfile(recipe, products); ok {
		d.NutrientsPer100g = &profile
	}
	return d
}
