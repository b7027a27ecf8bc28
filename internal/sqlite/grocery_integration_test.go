package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nutrio/internal/grocery"
	"github.com/mesh-intelligence/nutrio/internal/sqlite"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func march(day int) time.Time {
	return time.Date(2026, time.March, day, 0, 0, 0, 0, time.Local)
}

type groceryFixture struct {
	backend *sqlite.Backend
	tracker *grocery.Tracker
}

func newGroceryFixture(t *testing.T) *groceryFixture {
	t.Helper()
	b := sqlite.NewBackend()
	require.NoError(t, b.Attach(types.Config{DataDir: t.TempDir()}))
	t.Cleanup(func() { b.Detach() })
	now := func() time.Time { return march(2).Add(9 * time.Hour) }
	return &groceryFixture{
		backend: b,
		tracker: grocery.NewTracker(b, grocery.NewBuilder(b, nil), nil, grocery.WithClock(now)),
	}
}

func (f *groceryFixture) add(t *testing.T, profileID string, d time.Time, meal types.MealType, name string, amount float64, unit types.Unit) types.MealItem {
	t.Helper()
	ctx := context.Background()
	plan, err := f.backend.GetOrCreateMealPlan(ctx, profileID, d)
	require.NoError(t, err)
	item, err := f.backend.AddMealItem(ctx, types.MealItem{
		PlanID:      plan.PlanID,
		Type:        types.ItemUSDA,
		MealType:    meal,
		Name:        name,
		Servings:    amount,
		ServingUnit: unit,
		BaseAmount:  amount,
		BaseUnit:    unit,
	})
	require.NoError(t, err)
	return item
}

func rowsByID(res grocery.Result) map[string]grocery.Row {
	out := map[string]grocery.Row{}
	for _, g := range res.Groups {
		for _, r := range g.Rows {
			out[r.ID] = r
		}
	}
	return out
}

func TestGroceryListMergesStoredMeals(t *testing.T) {
	f := newGroceryFixture(t)
	ctx := context.Background()

	f.add(t, "p1", march(2), types.MealBreakfast, "Oats", 100, types.UnitGram)
	f.add(t, "p1", march(3), types.MealBreakfast, "oats ", 100, types.UnitGram)
	f.add(t, "p1", march(9), types.MealBreakfast, "oats", 100, types.UnitGram)
	f.add(t, "p2", march(3), types.MealBreakfast, "oats", 500, types.UnitGram)

	res, err := f.tracker.Session("p1", grocery.RangeWeek).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02_2026-03-08", res.RangeKey)

	rows := rowsByID(res)
	require.Len(t, rows, 1)
	oats := rows["Oats_g"]
	assert.Equal(t, 200.0, oats.Amount)
	assert.Equal(t, "200 g", oats.AmountLabel)
	assert.Len(t, oats.Usages, 2)
}

func TestGroceryListExpandsStoredRecipes(t *testing.T) {
	f := newGroceryFixture(t)
	ctx := context.Background()

	// Two portions of a recipe serving two is the full ingredient list.
	_, err := f.backend.AddRecipeToMealPlan(ctx, "p1", "recipe_001", march(4), types.MealDinner, 2)
	require.NoError(t, err)

	res, err := f.tracker.Session("p1", grocery.RangeWeek).Load(ctx)
	require.NoError(t, err)

	rows := rowsByID(res)
	require.Len(t, rows, 5)
	assert.Equal(t, 125.0, rows["garlic_g"].Amount)
	assert.Equal(t, 100.0, rows["olive oil_g"].Amount)
	assert.Equal(t, 150.0, rows["onion_g"].Amount)
}

func TestGroceryListReopensAfterEditAcrossSessions(t *testing.T) {
	f := newGroceryFixture(t)
	ctx := context.Background()

	f.add(t, "p1", march(2), types.MealLunch, "rice", 100, types.UnitGram)
	tuna := f.add(t, "p1", march(3), types.MealLunch, "tuna", 120, types.UnitGram)

	s := f.tracker.Session("p1", grocery.RangeWeek)
	_, err := s.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, s.ToggleChecked(ctx, "rice_g"))
	require.NoError(t, s.Complete(ctx))

	// A fresh session sees the completed week and rolls forward.
	next := f.tracker.Session("p1", grocery.RangeWeek)
	res, err := next.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-09_2026-03-15", res.RangeKey)
	assert.Equal(t, 1, next.Window().OffsetWeeks)

	tuna.Servings = 200
	tuna.BaseAmount = 200
	require.NoError(t, f.backend.UpdateMealItem(ctx, tuna))

	reopened := f.tracker.Session("p1", grocery.RangeWeek)
	res, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.True(t, res.Invalidated)
	assert.Equal(t, grocery.StateActive, res.State)
	rows := rowsByID(res)
	assert.False(t, rows["rice_g"].Checked, "checked set cleared on reopen")
	assert.Equal(t, 200.0, rows["tuna_g"].Amount)
}
