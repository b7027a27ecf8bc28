package grocery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// Source is the slice of the meal and recipe store the Builder reads.
type Source interface {
	// MealItemsInRange returns every item whose plan date falls within
	// [start, end] inclusive for the profile.
	MealItemsInRange(ctx context.Context, profileID string, start, end time.Time) ([]types.ScheduledItem, error)
	// RecipeByTitle returns types.ErrNotFound when no recipe has the title.
	RecipeByTitle(ctx context.Context, title string) (types.RecipeRef, error)
	RecipeIngredients(ctx context.Context, recipeID string) ([]types.RecipeIngredient, error)
}

// Line is one aggregated (name, unit) entry of a grocery list. Lines are
// recomputed on every build and never mutated in place.
type Line struct {
	ID     string
	Name   string
	Amount float64
	Unit   types.Unit
	Usages []string
	Manual bool
}

// LineID returns the checked-set key for a name and unit.
func LineID(name string, unit types.Unit) string {
	return name + "_" + string(unit)
}

// Builder runs the aggregation over a Source.
type Builder struct {
	source Source
	logger *zap.Logger
}

// NewBuilder returns a Builder reading from source. A nil logger is replaced
// with a no-op logger.
func NewBuilder(source Source, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: source, logger: logger}
}

// Build aggregates every meal item planned for the profile between start and
// end inclusive. Recipe items are expanded into their ingredients scaled by
// item servings over recipe servings; a recipe that cannot be resolved by
// title contributes a single line under its own name. The result is sorted
// by name. An empty profile ID yields an empty list.
func (b *Builder) Build(ctx context.Context, profileID string, start, end time.Time) ([]Line, error) {
	if profileID == "" {
		return nil, nil
	}
	items, err := b.source.MealItemsInRange(ctx, profileID, start, end)
	if err != nil {
		return nil, fmt.Errorf("build grocery list: %w", err)
	}

	agg := newAggregate()
	for _, item := range items {
		label := usageLabel(item)
		if item.Type == types.ItemRecipe {
			if err := b.expandRecipe(ctx, agg, item, label); err != nil {
				return nil, err
			}
			continue
		}
		amount, unit := physicalQuantity(item)
		agg.add(item.Name, amount, unit, label)
	}
	return agg.lines(), nil
}

func (b *Builder) expandRecipe(ctx context.Context, agg *aggregate, item types.ScheduledItem, label string) error {
	ref, err := b.source.RecipeByTitle(ctx, item.Name)
	if errors.Is(err, types.ErrNotFound) {
		b.logger.Debug("recipe not found, using opaque line", zap.String("title", item.Name))
		unit := item.ServingUnit
		if unit == "" {
			unit = types.UnitServing
		}
		agg.add(item.Name, item.Servings, unit, label)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve recipe %q: %w", item.Name, err)
	}

	ingredients, err := b.source.RecipeIngredients(ctx, ref.RecipeID)
	if err != nil {
		return fmt.Errorf("load ingredients for recipe %s: %w", ref.RecipeID, err)
	}
	factor := 1.0
	if ref.Servings > 0 {
		factor = item.Servings / float64(ref.Servings)
	}
	for _, ing := range ingredients {
		agg.add(ing.Name, ing.Quantity*factor, ing.Unit, label)
	}
	return nil
}

// physicalQuantity converts a non-recipe item into the amount and unit it
// contributes. Serving-denominated items with a positive base amount become
// servings × base amount in the base unit.
func physicalQuantity(item types.ScheduledItem) (float64, types.Unit) {
	unit := item.ServingUnit
	if unit == "" {
		unit = types.UnitGram
	}
	if unit == types.UnitServing && item.BaseAmount > 0 {
		base := item.BaseUnit
		if base == "" {
			base = types.UnitGram
		}
		return item.Servings * item.BaseAmount, base
	}
	return item.Servings, unit
}

// usageLabel renders "<MealType> <Jan 2> – <name>".
func usageLabel(item types.ScheduledItem) string {
	date := item.Date
	if t, err := types.ParseDate(item.Date); err == nil {
		date = t.Format("Jan 2")
	}
	return fmt.Sprintf("%s %s – %s", item.MealType.Title(), date, item.Name)
}

type aggregate struct {
	byKey map[string]*Line
}

func newAggregate() *aggregate {
	return &aggregate{byKey: make(map[string]*Line)}
}

func aggregateKey(name string, unit types.Unit) string {
	return strings.ToLower(strings.TrimSpace(name)) + "__" + strings.ToLower(strings.TrimSpace(string(unit)))
}

// add folds one contribution into the aggregate. Empty names and
// non-positive or non-finite amounts are dropped.
func (a *aggregate) add(name string, amount float64, unit types.Unit, label string) {
	name = strings.TrimSpace(name)
	if name == "" || amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}
	if unit == "" {
		unit = types.UnitServing
	}
	key := aggregateKey(name, unit)
	line, ok := a.byKey[key]
	if !ok {
		line = &Line{ID: LineID(name, unit), Name: name, Unit: unit}
		a.byKey[key] = line
	}
	line.Amount += amount
	if label != "" {
		line.Usages = append(line.Usages, label)
	}
}

func (a *aggregate) lines() []Line {
	out := make([]Line, 0, len(a.byKey))
	for _, l := range a.byKey {
		out = append(out, *l)
	}
	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		if r := c.CompareString(out[i].Name, out[j].Name); r != 0 {
			return r < 0
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// newCollator returns a case-insensitive collator. Collators are not safe
// for concurrent use, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}
