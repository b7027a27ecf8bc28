package types

// Unit is a serving unit. Physical units (g, ml, cup) can be converted to a
// canonical quantity; UnitServing cannot.
type Unit string

// Known units.
const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitCup        Unit = "cup"
	UnitServing    Unit = "serving"
	UnitPieces     Unit = "pcs"
)

// validUnits is the set of units a meal item may carry.
var validUnits = map[Unit]bool{
	UnitGram:       true,
	UnitMilliliter: true,
	UnitCup:        true,
	UnitServing:    true,
}

// Valid reports whether u is one of g, ml, cup, serving.
func (u Unit) Valid() bool {
	return validUnits[u]
}

// IsPhysical reports whether u denotes a measurable quantity.
func (u Unit) IsPhysical() bool {
	return u == UnitGram || u == UnitMilliliter || u == UnitCup
}
