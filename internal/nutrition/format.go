package nutrition

import (
	"math"
	"strconv"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// FormatAmount rounds to one decimal place and drops a trailing ".0".
func FormatAmount(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded == math.Trunc(rounded) {
		return strconv.FormatFloat(rounded, 'f', 0, 64)
	}
	return strconv.FormatFloat(rounded, 'f', 1, 64)
}

// DisplayMacros is a presentation copy of Macros: calories to whole kcal,
// the rest to one decimal.
type DisplayMacros struct {
	Calories string
	Protein  string
	Carbs    string
	Fat      string
}

// Display rounds m for presentation.
func Display(m types.Macros) DisplayMacros {
	return DisplayMacros{
		Calories: strconv.FormatFloat(m.Calories, 'f', 0, 64),
		Protein:  strconv.FormatFloat(m.Protein, 'f', 1, 64),
		Carbs:    strconv.FormatFloat(m.Carbs, 'f', 1, 64),
		Fat:      strconv.FormatFloat(m.Fat, 'f', 1, 64),
	}
}
