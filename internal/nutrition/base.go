package nutrition

import (
	"fmt"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// Base is a reference nutrition record that requested quantities are scaled
// from. It is either PerServing (denominated in servings, no physical
// quantity) or PerQuantity (denominated in a physical amount of g, ml or cup).
type Base interface {
	// Nutrients returns the macros for one base quantity.
	Nutrients() types.Macros
	// Label describes the base quantity, e.g. "Per serving" or "Per 100 g".
	Label() string

	isBase()
}

// PerServing is a base record whose quantity is one serving. Cross-unit
// scaling to a physical unit is undefined for it.
type PerServing struct {
	Macros types.Macros
}

// PerQuantity is a base record for Amount of Unit, where Unit is physical.
type PerQuantity struct {
	Macros types.Macros
	Amount float64
	Unit   types.Unit
}

func (PerServing) isBase()  {}
func (PerQuantity) isBase() {}

// Nutrients implements Base.
func (b PerServing) Nutrients() types.Macros { return b.Macros }

// Nutrients implements Base.
func (b PerQuantity) Nutrients() types.Macros { return b.Macros }

// Label implements Base.
func (b PerServing) Label() string { return "Per serving" }

// Label implements Base.
func (b PerQuantity) Label() string {
	return fmt.Sprintf("Per %s %s", FormatAmount(b.Amount), b.Unit)
}

// NewBase builds the variant matching unit: PerServing for UnitServing,
// PerQuantity for a physical unit. Any other unit returns ErrInvalidUnit.
func NewBase(m types.Macros, amount float64, unit types.Unit) (Base, error) {
	switch {
	case unit == types.UnitServing:
		return PerServing{Macros: m}, nil
	case unit.IsPhysical():
		return PerQuantity{Macros: m, Amount: amount, Unit: unit}, nil
	default:
		return nil, fmt.Errorf("base unit %q: %w", unit, types.ErrInvalidUnit)
	}
}

// BaseFromItem rebuilds the base record a stored meal item was scaled from.
// The item's macros are for Servings of ServingUnit; they are divided by the
// factor that maps the base pair onto that quantity. When BaseAmount is unset
// the item's own servings are the base. Manual items, and items whose serving
// cannot be expressed in the base unit, return false.
func BaseFromItem(item types.MealItem) (Base, bool) {
	if item.Type == types.ItemManual {
		return nil, false
	}
	unit := item.BaseUnit
	if unit == "" {
		unit = item.ServingUnit
	}
	if unit == "" {
		unit = types.UnitGram
	}
	amount := item.BaseAmount
	if amount <= 0 {
		amount = item.Servings
	}
	if amount <= 0 {
		amount = 1
	}
	shape, err := NewBase(types.Macros{}, amount, unit)
	if err != nil {
		return nil, false
	}
	servingUnit := item.ServingUnit
	if servingUnit == "" {
		servingUnit = unit
	}
	factor, ok := ScaleFactor(shape, item.Servings, servingUnit)
	if !ok || factor <= 0 {
		return nil, false
	}
	b, err := NewBase(divide(item.Macros, factor), amount, unit)
	if err != nil {
		return nil, false
	}
	return b, true
}

func divide(m types.Macros, d float64) types.Macros {
	return types.Macros{
		Calories: m.Calories / d,
		Protein:  m.Protein / d,
		Carbs:    m.Carbs / d,
		Fat:      m.Fat / d,
	}
}

// BaseFromSearch builds the base record for a food search result. Custom
// foods are per their serving size in grams (100 g when unset). Database
// foods with a serving size use it in its parsed unit; without one they are
// per 100 g.
func BaseFromSearch(r types.FoodSearchResult) Base {
	if r.Source == types.FoodSourceCustom {
		amount := r.ServingSize
		if amount <= 0 {
			amount = 100
		}
		return PerQuantity{Macros: r.Macros, Amount: amount, Unit: types.UnitGram}
	}
	if r.ServingSize > 0 && r.ServingUnit != "" {
		unit := ParseUnit(r.ServingUnit)
		if unit == types.UnitServing {
			return PerServing{Macros: r.Macros}
		}
		return PerQuantity{Macros: r.Macros, Amount: r.ServingSize, Unit: unit}
	}
	return PerQuantity{Macros: r.Macros, Amount: 100, Unit: types.UnitGram}
}
