package nutrition

import (
	"math"
	"strings"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// MillilitersPerCup is the fixed cup conversion ratio.
const MillilitersPerCup = 240.0

// ToCanonical converts amount in unit to the canonical ml-equivalent
// quantity. Grams and millilitres are treated as 1:1. Returns false for
// serving and any unit without a physical meaning.
func ToCanonical(amount float64, unit types.Unit) (float64, bool) {
	switch unit {
	case types.UnitMilliliter, types.UnitGram:
		return amount, true
	case types.UnitCup:
		return amount * MillilitersPerCup, true
	default:
		return 0, false
	}
}

// Convert converts amount between two physical units through the canonical
// quantity. Returns false when either unit is not physical.
func Convert(amount float64, from, to types.Unit) (float64, bool) {
	canonical, ok := ToCanonical(amount, from)
	if !ok {
		return 0, false
	}
	per, ok := ToCanonical(1, to)
	if !ok || per == 0 {
		return 0, false
	}
	return canonical / per, true
}

// ParseUnit maps a free-form unit label (as returned by food databases) to a
// known unit. Matching is by substring in the order ml, g, cup; anything else
// is a serving.
func ParseUnit(label string) types.Unit {
	normalized := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(normalized, "ml"):
		return types.UnitMilliliter
	case strings.Contains(normalized, "g"):
		return types.UnitGram
	case strings.Contains(normalized, "cup"):
		return types.UnitCup
	default:
		return types.UnitServing
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
