// Package nutrition implements the nutrition scaling engine: unit
// conversion, base-record scaling, recipe portioning, daily calorie goals,
// and presentation rounding.
//
// Every function is pure. Results are full precision; only the Format and
// Display helpers round.
package nutrition
