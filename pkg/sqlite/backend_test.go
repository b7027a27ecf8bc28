package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nutrio/pkg/sqlite"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func TestNewBackend(t *testing.T) {
	store := sqlite.NewBackend()
	ctx := context.Background()

	_, err := store.ListRecipes(ctx)
	assert.ErrorIs(t, err, types.ErrDetached)

	require.NoError(t, store.Attach(types.Config{DataDir: t.TempDir()}))
	defer store.Detach()

	day := time.Date(2026, time.March, 2, 12, 0, 0, 0, time.Local)
	plan, err := store.GetOrCreateMealPlan(ctx, "p1", day)
	require.NoError(t, err)
	_, err = store.AddMealItem(ctx, types.MealItem{
		PlanID:      plan.PlanID,
		Type:        types.ItemUSDA,
		MealType:    types.MealBreakfast,
		Name:        "oats",
		Servings:    80,
		ServingUnit: types.UnitGram,
	})
	require.NoError(t, err)
	_, err = store.AddRecipeToMealPlan(ctx, "p1", "recipe_001", day, types.MealDinner, 1)
	require.NoError(t, err)

	items, err := store.MealItemsInRange(ctx, "p1", day, day)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "oats", items[0].Name)
	assert.Equal(t, "Mediterranean Chickpea Bowl Classic", items[1].Name)

	require.NoError(t, store.Detach())
	require.NoError(t, store.Detach())
}
