package grocery

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

const profile = "p1"

func build(t *testing.T, src Source, start, end int) []Line {
	t.Helper()
	lines, err := NewBuilder(src, nil).Build(context.Background(), profile, day(start), day(end))
	require.NoError(t, err)
	return lines
}

func findLine(t *testing.T, lines []Line, name string, unit types.Unit) Line {
	t.Helper()
	for _, l := range lines {
		if l.Name == name && l.Unit == unit {
			return l
		}
	}
	t.Fatalf("no line %s %s in %+v", name, unit, lines)
	return Line{}
}

func TestBuildMergesSameNameAndUnit(t *testing.T) {
	src := newFakeSource()
	src.add(profile, item(day(0), types.MealBreakfast, "oats", 100, types.UnitGram))
	src.add(profile, item(day(1), types.MealBreakfast, "oats", 100, types.UnitGram))

	lines := build(t, src, 0, 6)

	require.Len(t, lines, 1)
	assert.Equal(t, "oats", lines[0].Name)
	assert.Equal(t, 200.0, lines[0].Amount)
	assert.Equal(t, types.UnitGram, lines[0].Unit)
	assert.Equal(t, "oats_g", lines[0].ID)
	assert.Equal(t, []string{"Breakfast Mar 2 – oats", "Breakfast Mar 3 – oats"}, lines[0].Usages)
}

func TestBuildKeyIsCaseInsensitiveAndTrimmed(t *testing.T) {
	src := newFakeSource()
	src.add(profile, item(day(0), types.MealLunch, "Spinach", 50, types.UnitGram))
	src.add(profile, item(day(0), types.MealDinner, "  spinach ", 25, types.UnitGram))
	src.add(profile, item(day(0), types.MealDinner, "spinach", 1, types.UnitCup))

	lines := build(t, src, 0, 0)

	require.Len(t, lines, 2)
	assert.Equal(t, 75.0, findLine(t, lines, "Spinach", types.UnitGram).Amount)
	assert.Equal(t, 1.0, findLine(t, lines, "spinach", types.UnitCup).Amount)
}

func TestBuildExcludesItemsOutsideRange(t *testing.T) {
	src := newFakeSource()
	src.add(profile, item(day(-1), types.MealLunch, "rice", 100, types.UnitGram))
	src.add(profile, item(day(0), types.MealLunch, "rice", 100, types.UnitGram))
	src.add(profile, item(day(3), types.MealLunch, "rice", 100, types.UnitGram))

	lines := build(t, src, 0, 2)

	require.Len(t, lines, 1)
	assert.Equal(t, 100.0, lines[0].Amount)
}

func TestBuildServingItemsUseBaseQuantity(t *testing.T) {
	src := newFakeSource()
	it := item(day(0), types.MealSnack, "almonds", 2, types.UnitServing)
	it.BaseAmount = 30
	it.BaseUnit = types.UnitGram
	src.add(profile, it)

	noBase := item(day(0), types.MealSnack, "apple", 1, types.UnitServing)
	src.add(profile, noBase)

	defaultUnit := item(day(0), types.MealSnack, "yogurt", 150, "")
	src.add(profile, defaultUnit)

	lines := build(t, src, 0, 0)

	require.Len(t, lines, 3)
	assert.Equal(t, 60.0, findLine(t, lines, "almonds", types.UnitGram).Amount)
	assert.Equal(t, 1.0, findLine(t, lines, "apple", types.UnitServing).Amount)
	assert.Equal(t, 150.0, findLine(t, lines, "yogurt", types.UnitGram).Amount)
}

func TestBuildExpandsRecipes(t *testing.T) {
	src := newFakeSource()
	src.addRecipe("Quinoa Veggie Stir Fry", 3,
		types.RecipeIngredient{Name: "quinoa", Quantity: 150, Unit: types.UnitGram},
		types.RecipeIngredient{Name: "broccoli", Quantity: 120, Unit: types.UnitGram},
	)
	r := item(day(0), types.MealDinner, "Quinoa Veggie Stir Fry", 1.5, types.UnitServing)
	r.Type = types.ItemRecipe
	src.add(profile, r)
	src.add(profile, item(day(1), types.MealLunch, "quinoa", 25, types.UnitGram))

	lines := build(t, src, 0, 6)

	require.Len(t, lines, 2)
	quinoa := findLine(t, lines, "quinoa", types.UnitGram)
	assert.Equal(t, 100.0, quinoa.Amount)
	assert.Equal(t, []string{
		"Dinner Mar 2 – Quinoa Veggie Stir Fry",
		"Lunch Mar 3 – quinoa",
	}, quinoa.Usages)
	assert.Equal(t, 60.0, findLine(t, lines, "broccoli", types.UnitGram).Amount)
}

func TestBuildUnresolvedRecipeIsOpaqueLine(t *testing.T) {
	src := newFakeSource()
	r := item(day(0), types.MealDinner, "Grandma's Stew", 2, "")
	r.Type = types.ItemRecipe
	src.add(profile, r)

	lines := build(t, src, 0, 0)

	require.Len(t, lines, 1)
	assert.Equal(t, "Grandma's Stew", lines[0].Name)
	assert.Equal(t, 2.0, lines[0].Amount)
	assert.Equal(t, types.UnitServing, lines[0].Unit)
}

func TestBuildDropsInvalidAmounts(t *testing.T) {
	src := newFakeSource()
	src.add(profile, item(day(0), types.MealLunch, "zero", 0, types.UnitGram))
	src.add(profile, item(day(0), types.MealLunch, "negative", -5, types.UnitGram))
	src.add(profile, item(day(0), types.MealLunch, "nan", math.NaN(), types.UnitGram))
	src.add(profile, item(day(0), types.MealLunch, "inf", math.Inf(1), types.UnitGram))
	src.add(profile, item(day(0), types.MealLunch, "   ", 10, types.UnitGram))
	src.add(profile, item(day(0), types.MealLunch, "bread", 80, types.UnitGram))

	lines := build(t, src, 0, 0)

	require.Len(t, lines, 1)
	assert.Equal(t, "bread", lines[0].Name)
}

func TestBuildConservesAmounts(t *testing.T) {
	src := newFakeSource()
	src.addRecipe("Berry Bowl", 2,
		types.RecipeIngredient{Name: "oats", Quantity: 80, Unit: types.UnitGram},
		types.RecipeIngredient{Name: "milk", Quantity: 1, Unit: types.UnitCup},
	)
	want := map[string]float64{}
	contribute := func(name string, unit types.Unit, amount float64) {
		want[aggregateKey(name, unit)] += amount
	}
	for d := 0; d < 7; d++ {
		src.add(profile, item(day(d), types.MealBreakfast, "oats", float64(40+d), types.UnitGram))
		contribute("oats", types.UnitGram, float64(40+d))
		src.add(profile, item(day(d), types.MealLunch, "Milk", 0.5, types.UnitCup))
		contribute("milk", types.UnitCup, 0.5)
		if d%2 == 0 {
			r := item(day(d), types.MealDinner, "Berry Bowl", float64(d+1), types.UnitServing)
			r.Type = types.ItemRecipe
			src.add(profile, r)
			factor := float64(d+1) / 2
			contribute("oats", types.UnitGram, 80*factor)
			contribute("milk", types.UnitCup, 1*factor)
		}
	}

	lines := build(t, src, 0, 6)

	require.Len(t, lines, len(want))
	for _, l := range lines {
		assert.InDelta(t, want[aggregateKey(l.Name, l.Unit)], l.Amount, 1e-9, l.Name)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	src := newFakeSource()
	src.add(profile, item(day(0), types.MealBreakfast, "banana", 1, types.UnitServing))
	src.add(profile, item(day(1), types.MealLunch, "chicken breast", 200, types.UnitGram))
	src.add(profile, item(day(2), types.MealDinner, "salmon", 150, types.UnitGram))

	first := build(t, src, 0, 6)
	second := build(t, src, 0, 6)

	assert.Equal(t, first, second)
	assert.Equal(t, Signature(first), Signature(second))
}

func TestBuildSortsByName(t *testing.T) {
	src := newFakeSource()
	src.add(profile, item(day(0), types.MealLunch, "tomato", 1, types.UnitServing))
	src.add(profile, item(day(0), types.MealLunch, "Apple", 1, types.UnitServing))
	src.add(profile, item(day(0), types.MealLunch, "banana", 1, types.UnitServing))

	lines := build(t, src, 0, 0)

	require.Len(t, lines, 3)
	assert.Equal(t, "Apple", lines[0].Name)
	assert.Equal(t, "banana", lines[1].Name)
	assert.Equal(t, "tomato", lines[2].Name)
}

func TestBuildEmptyProfile(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("must not be called")

	lines, err := NewBuilder(src, nil).Build(context.Background(), "", day(0), day(6))

	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Zero(t, src.calls)
}

func TestBuildPropagatesSourceErrors(t *testing.T) {
	src := newFakeSource()
	src.err = errors.New("disk on fire")

	_, err := NewBuilder(src, nil).Build(context.Background(), profile, day(0), day(6))

	require.Error(t, err)
	assert.ErrorIs(t, err, src.err)
}
