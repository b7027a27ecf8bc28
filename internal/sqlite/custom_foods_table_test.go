package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func TestAddCustomFood(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		profileID string
		food      string
		serving   float64
		wantSize  float64
		wantErr   error
		wantEmpty bool
	}{
		{name: "explicit serving", profileID: "p1", food: "Protein Bar", serving: 60, wantSize: 60},
		{name: "default serving", profileID: "p1", food: " Granola ", wantSize: 100},
		{name: "no profile", food: "Ghost", wantEmpty: true},
		{name: "empty name", profileID: "p1", food: "  ", wantErr: types.ErrInvalidName},
		{name: "negative serving", profileID: "p1", food: "Bad", serving: -5, wantErr: types.ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.AddCustomFood(ctx, tt.profileID, tt.food, tt.serving, types.Macros{Calories: 200})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.wantEmpty {
				assert.Equal(t, types.CustomFood{}, got)
				return
			}
			assert.NotEmpty(t, got.FoodID)
			assert.Equal(t, tt.wantSize, got.ServingSizeG)
		})
	}

	foods, err := b.SearchCustomFoods(ctx, "p1", "")
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, "Granola", foods[0].Name, "newest first")
	assert.Equal(t, "Protein Bar", foods[1].Name)
}

func TestSearchCustomFoods(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		_, err := b.AddCustomFood(ctx, "p1", fmt.Sprintf("Oat Cookie %d", i), 30, types.Macros{Calories: 120})
		require.NoError(t, err)
	}
	_, err := b.AddCustomFood(ctx, "p1", "Rice Cake", 10, types.Macros{Calories: 35})
	require.NoError(t, err)
	_, err = b.AddCustomFood(ctx, "p2", "Oat Cookie Other", 30, types.Macros{Calories: 120})
	require.NoError(t, err)

	foods, err := b.SearchCustomFoods(ctx, "p1", "cookie")
	require.NoError(t, err)
	require.Len(t, foods, customFoodSearchLimit)
	assert.Equal(t, "Oat Cookie 10", foods[0].Name)
	for _, f := range foods {
		assert.Equal(t, "p1", f.ProfileID)
	}

	foods, err = b.SearchCustomFoods(ctx, "p1", " rice ")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, 10.0, foods[0].ServingSizeG)

	foods, err = b.SearchCustomFoods(ctx, "", "cookie")
	require.NoError(t, err)
	assert.Empty(t, foods)
}

func TestCustomFoodSearcher(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	food, err := b.AddCustomFood(ctx, "p1", "Hummus", 50, types.Macros{Calories: 166, Protein: 8, Carbs: 14, Fat: 10})
	require.NoError(t, err)

	results, err := b.CustomFoodSearcher("p1").SearchFoods(ctx, "humm")
	require.NoError(t, err)
	assert.Equal(t, []types.FoodSearchResult{{
		ID:          food.FoodID,
		Name:        "Hummus",
		Macros:      types.Macros{Calories: 166, Protein: 8, Carbs: 14, Fat: 10},
		ServingSize: 50,
		ServingUnit: "g",
		Source:      types.FoodSourceCustom,
	}}, results)
}
