package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

type fakeSearcher struct {
	results map[string]types.Macros
	failOn  string
	queries []string
}

func (f *fakeSearcher) SearchFoods(_ context.Context, query string) ([]types.FoodSearchResult, error) {
	f.queries = append(f.queries, query)
	if query == f.failOn {
		return nil, errors.New("search unavailable")
	}
	m, ok := f.results[query]
	if !ok {
		return nil, nil
	}
	return []types.FoodSearchResult{{Name: query, Macros: m, Source: types.FoodSourceUSDA}}, nil
}

func TestEnrichIngredients(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	searcher := &fakeSearcher{results: map[string]types.Macros{
		"egg":       {Calories: 143, Protein: 12.6, Carbs: 0.7, Fat: 9.5},
		"olive oil": {Calories: 884, Fat: 100},
	}}
	n, err := b.EnrichIngredients(ctx, searcher)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, searcher.queries, 26)

	all, err := b.Ingredients(ctx)
	require.NoError(t, err)
	byName := map[string]types.Ingredient{}
	for _, ing := range all {
		byName[ing.Name] = ing
	}
	assert.Equal(t, types.Macros{Calories: 143, Protein: 12.6, Carbs: 0.7, Fat: 9.5}, byName["egg"].Macros)
	assert.Equal(t, types.UnitGram, byName["egg"].DefaultUnit)
	assert.Zero(t, byName["garlic"].Macros)
	assert.Equal(t, types.UnitServing, byName["garlic"].DefaultUnit)

	searcher.queries = nil
	n, err = b.EnrichIngredients(ctx, searcher)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, searcher.queries, "completed pass is not repeated")
}

func TestEnrichIngredientsRetriesAfterError(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	searcher := &fakeSearcher{
		results: map[string]types.Macros{"avocado": {Calories: 160}},
		failOn:  "brown rice",
	}
	n, err := b.EnrichIngredients(ctx, searcher)
	require.Error(t, err)
	assert.Equal(t, 1, n, "avocado sorts before brown rice")
	assert.Len(t, searcher.queries, 4, "avocado, bell pepper, black beans, brown rice")

	searcher.failOn = ""
	searcher.queries = nil
	n, err = b.EnrichIngredients(ctx, searcher)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, searcher.queries, 25, "enriched ingredients are skipped")

	n, err = b.EnrichIngredients(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
