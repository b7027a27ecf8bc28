package grocery

import (
	"context"
	"sync"
	"time"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

type fakeSource struct {
	mu          sync.Mutex
	items       map[string][]types.ScheduledItem
	recipes     map[string]types.RecipeRef
	ingredients map[string][]types.RecipeIngredient
	err         error
	calls       int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		items:       map[string][]types.ScheduledItem{},
		recipes:     map[string]types.RecipeRef{},
		ingredients: map[string][]types.RecipeIngredient{},
	}
}

func (f *fakeSource) add(profileID string, item types.ScheduledItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[profileID] = append(f.items[profileID], item)
}

func (f *fakeSource) setServings(profileID, name string, servings float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items[profileID] {
		if f.items[profileID][i].Name == name {
			f.items[profileID][i].Servings = servings
		}
	}
}

func (f *fakeSource) addRecipe(title string, servings int, ings ...types.RecipeIngredient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "recipe_" + title
	f.recipes[title] = types.RecipeRef{RecipeID: id, Servings: servings}
	f.ingredients[id] = ings
}

func (f *fakeSource) MealItemsInRange(_ context.Context, profileID string, start, end time.Time) ([]types.ScheduledItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	from, to := types.DateKey(start), types.DateKey(end)
	var out []types.ScheduledItem
	for _, it := range f.items[profileID] {
		if it.Date >= from && it.Date <= to {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeSource) RecipeByTitle(_ context.Context, title string) (types.RecipeRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ref, ok := f.recipes[title]
	if !ok {
		return types.RecipeRef{}, types.ErrNotFound
	}
	return ref, nil
}

func (f *fakeSource) RecipeIngredients(_ context.Context, recipeID string) ([]types.RecipeIngredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ingredients[recipeID], nil
}

type memKV struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func newMemKV() *memKV {
	return &memKV{values: map[string]string{}}
}

func (m *memKV) GetValue(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) SetValue(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

func (m *memKV) DeleteValue(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	m.writes++
	return nil
}

func (m *memKV) get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock(t time.Time) *clock { return &clock{now: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// day returns local midnight of 2026-03-02 plus n days.
func day(n int) time.Time {
	return time.Date(2026, time.March, 2+n, 0, 0, 0, 0, time.Local)
}

func item(date time.Time, meal types.MealType, name string, servings float64, unit types.Unit) types.ScheduledItem {
	return types.ScheduledItem{
		MealItem: types.MealItem{
			ItemID:      name + "-" + types.DateKey(date),
			Type:        types.ItemUSDA,
			MealType:    meal,
			Name:        name,
			Servings:    servings,
			ServingUnit: unit,
		},
		Date: types.DateKey(date),
	}
}
