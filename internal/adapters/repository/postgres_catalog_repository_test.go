package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

func TestPostgresCatalogRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	products := NewPostgresProductRepository(db)
	recipes := NewPostgresRecipeRepository(db)
	ctx := context.Background()

	oats, err := domain.NewProduct("Oats", "Quaker", domain.NutrientProfile{CaloriesPer100g: 389, ProteinPer100g: 16.9, FatPer100g: 6.9, CarbsPer100g: 66.3})
	require.NoError(t, err)
	milk, err := domain.NewProduct("Milk", "", domain.NutrientProfile{CaloriesPer100g: 42, ProteinPer100g: 3.4, FatPer100g: 1, CarbsPer100g: 5})
	require.NoError(t, err)
	require.NoError(t, products.Create(ctx, oats))
	require.NoError(t, products.Create(ctx, milk))

	t.Run("Product lookups", func(t *testing.T) {
		fetched, err := products.GetByID(ctx, oats.ID)
		require.NoError(t, err)
		assert.Equal(t, "Quaker", fetched.Brand)
		assert.Equal(t, oats.Nutrients, fetched.Nutrients)

		_, err = products.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrProductNotFound)

		many, err := products.GetByIDs(ctx, []string{oats.ID, milk.ID, uuid.NewString()})
		require.NoError(t, err)
		assert.Len(t, many, 2)
		assert.Equal(t, "Milk", many[milk.ID].Name)
	})

	t.Run("Recipe keeps ingredient order", func(t *testing.T) {
		user := seedUser(t, db)
		recipe, err := domain.NewRecipe(user.ID, "Porridge", []domain.RecipeIngredient{
			{ProductID: milk.ID, WeightGrams: 200},
			{ProductID: oats.ID, WeightGrams: 50},
		})
		require.NoError(t, err)
		require.NoError(t, recipes.Create(ctx, recipe))

		fetched, err := recipes.GetByID(ctx, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, fetched.UserID)
		require.Len(t, fetched.Ingredients, 2)
		assert.Equal(t, milk.ID, fetched.Ingredients[0].ProductID)
		assert.Equal(t, 250.0, fetched.TotalWeight())
	})

	t.Run("Recipe with unknown product is rejected", func(t *testing.T) {
		user := seedUser(t, db)
		recipe, _ := domain.NewRecipe(user.ID, "Mystery", []domain.RecipeIngredient{{ProductID: uuid.NewString(), WeightGrams: 10}})

		assert.ErrorIs(t, recipes.Create(ctx, recipe), domain.ErrProductNotFound)
		_, err := recipes.GetByID(ctx, recipe.ID)
		assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})
}
