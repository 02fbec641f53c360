package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

func memEntry(id, userID string, at time.Time) *domain.FoodLogEntry {
	e := domain.NewFoodLogEntry(userID, 100, domain.MealSnack, at)
	e.ID = id
	productID := "p1"
	e.ProductID = &productID
	return e
}

func TestInMemoryFoodLogRepository(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Reads are copies", func(t *testing.T) {
		repo := NewInMemoryFoodLogRepository()
		require.NoError(t, repo.Create(ctx, memEntry("e1", "u1", day)))

		first, _ := repo.GetByID(ctx, "e1")
		first.WeightGrams = 999

		second, _ := repo.GetByID(ctx, "e1")
		assert.Equal(t, 100.0, second.WeightGrams)
	})

	t.Run("Update checks the version", func(t *testing.T) {
		repo := NewInMemoryFoodLogRepository()
		require.NoError(t, repo.Create(ctx, memEntry("e1", "u1", day)))

		e, _ := repo.GetByID(ctx, "e1")
		e.Version++
		require.NoError(t, repo.Update(ctx, e))

		stale, _ := repo.GetByID(ctx, "e1")
		stale.Version = 1
		assert.ErrorIs(t, repo.Update(ctx, stale), domain.ErrFoodLogConflict)

		assert.ErrorIs(t, repo.Update(ctx, memEntry("ghost", "u1", day)), domain.ErrFoodLogNotFound)
	})

	t.Run("Delete needs the owner", func(t *testing.T) {
		repo := NewInMemoryFoodLogRepository()
		require.NoError(t, repo.Create(ctx, memEntry("e1", "u1", day)))

		assert.ErrorIs(t, repo.Delete(ctx, "e1", "u2"), domain.ErrFoodLogNotFound)
		assert.NoError(t, repo.Delete(ctx, "e1", "u1"))
		_, err := repo.GetByID(ctx, "e1")
		assert.ErrorIs(t, err, domain.ErrFoodLogNotFound)
	})

	t.Run("Range is half open, per user and sorted", func(t *testing.T) {
		repo := NewInMemoryFoodLogRepository()
		require.NoError(t, repo.Create(ctx, memEntry("late", "u1", day.Add(20*time.Hour))))
		require.NoError(t, repo.Create(ctx, memEntry("early", "u1", day)))
		require.NoError(t, repo.Create(ctx, memEntry("tomorrow", "u1", day.AddDate(0, 0, 1))))
		require.NoError(t, repo.Create(ctx, memEntry("other", "u2", day.Add(time.Hour))))

		list, err := repo.ListByUserAndDateRange(ctx, "u1", day, day.AddDate(0, 0, 1))

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "early", list[0].ID)
		assert.Equal(t, "late", list[1].ID)
	})
}

func TestInMemoryCatalogRepositories(t *testing.T) {
	ctx := context.Background()
	products := NewInMemoryProductRepository()
	recipes := NewInMemoryRecipeRepository()

	require.NoError(t, products.Create(ctx, &domain.Product{ID: "p1", Name: "Oats"}))

	many, err := products.GetByIDs(ctx, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Len(t, many, 1)

	_, err = products.GetByID(ctx, "p2")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	ingredients := []domain.RecipeIngredient{{ProductID: "p1", WeightGrams: 40}}
	require.NoError(t, recipes.Create(ctx, &domain.Recipe{ID: "r1", UserID: "u1", Ingredients: ingredients}))
	ingredients[0].WeightGrams = 1

	r, err := recipes.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 40.0, r.TotalWeight())

	_, err = recipes.GetByID(ctx, "r2")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestInMemoryProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryProfileRepository()

	_, err := repo.GetByUserID(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	for _, id := range []string{"b", "a", "c"} {
		p := domain.NewUserProfile(id)
		p.RemindersEnabled = id != "c"
		require.NoError(t, repo.Upsert(ctx, p))
	}

	list, err := repo.ListWithReminders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].UserID)
	assert.Equal(t, "b", list[1].UserID)
}

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	user, _ := domain.NewUser("u1", "mario@example.com")
	require.NoError(t, repo.Create(ctx, user))

	twin, _ := domain.NewUser("u2", "mario@example.com")
	assert.ErrorIs(t, repo.Create(ctx, twin), domain.ErrEmailAlreadyExists)

	found, err := repo.GetByEmail(ctx, "mario@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	_, err = repo.GetByID(ctx, "u9")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
