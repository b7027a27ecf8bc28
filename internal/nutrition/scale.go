package nutrition

import "github.com/mesh-intelligence/nutrio/pkg/types"

// ScaleResult is the outcome of scaling a base record to a requested
// quantity.
type ScaleResult struct {
	Factor float64
	Macros types.Macros
	Amount float64
	Unit   types.Unit
}

// ScaleFactor returns the multiplier that turns b's nutrients into the
// nutrients of amount of unit.
//
// A serving request scales by amount directly. A physical request against a
// PerServing base is undefined. Otherwise both quantities are converted to
// the canonical unit and divided; a zero canonical base is undefined.
func ScaleFactor(b Base, amount float64, unit types.Unit) (float64, bool) {
	if b == nil || !finite(amount) {
		return 0, false
	}
	if unit == types.UnitServing {
		return amount, true
	}
	pq, ok := b.(PerQuantity)
	if !ok {
		return 0, false
	}
	baseCanonical, ok := ToCanonical(pq.Amount, pq.Unit)
	if !ok || baseCanonical == 0 {
		return 0, false
	}
	requested, ok := ToCanonical(amount, unit)
	if !ok {
		return 0, false
	}
	factor := requested / baseCanonical
	if !finite(factor) {
		return 0, false
	}
	return factor, true
}

// Scale applies ScaleFactor to every macro field of b. When the factor is
// undefined it returns false and the caller must keep the unit as serving.
func Scale(b Base, amount float64, unit types.Unit) (ScaleResult, bool) {
	factor, ok := ScaleFactor(b, amount, unit)
	if !ok {
		return ScaleResult{}, false
	}
	return ScaleResult{
		Factor: factor,
		Macros: b.Nutrients().Scale(factor),
		Amount: amount,
		Unit:   unit,
	}, true
}

// Rescale re-derives a non-manual meal item's macros for a new serving
// configuration. The item's base pair is preserved. Manual items and
// undefined factors leave the item unchanged and return false.
func Rescale(item types.MealItem, servings float64, unit types.Unit) (types.MealItem, bool) {
	b, ok := BaseFromItem(item)
	if !ok {
		return item, false
	}
	res, ok := Scale(b, servings, unit)
	if !ok {
		return item, false
	}
	if item.BaseAmount <= 0 {
		if pq, isQty := b.(PerQuantity); isQty {
			item.BaseAmount, item.BaseUnit = pq.Amount, pq.Unit
		} else {
			item.BaseAmount, item.BaseUnit = 1, types.UnitServing
		}
	}
	item.Macros = res.Macros
	item.Servings = servings
	item.ServingUnit = unit
	return item, true
}

// PerServingMacros divides recipe totals by the recipe's servings. Servings
// below one are treated as one.
func PerServingMacros(totals types.Macros, recipeServings int) types.Macros {
	if recipeServings < 1 {
		recipeServings = 1
	}
	return divide(totals, float64(recipeServings))
}

// RecipePortion returns the macros consumed when eating servings servings of
// a recipe whose totals serve recipeServings.
func RecipePortion(totals types.Macros, recipeServings int, servings float64) types.Macros {
	return PerServingMacros(totals, recipeServings).Scale(servings)
}
