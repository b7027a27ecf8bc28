package types

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for plan dates and range keys.
const DateLayout = "2006-01-02"

// MealType identifies the meal slot an item belongs to.
type MealType string

// Meal slots.
const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

var validMealTypes = map[MealType]bool{
	MealBreakfast: true,
	MealLunch:     true,
	MealDinner:    true,
	MealSnack:     true,
}

// Valid reports whether m is a known meal slot.
func (m MealType) Valid() bool {
	return validMealTypes[m]
}

// Title returns the meal type with its first letter upper-cased.
func (m MealType) Title() string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ItemType discriminates how a meal item's macros were obtained.
type ItemType string

// Meal item sources.
const (
	ItemManual ItemType = "manual"
	ItemUSDA   ItemType = "usda"
	ItemCustom ItemType = "custom"
	ItemRecipe ItemType = "recipe"
)

var validItemTypes = map[ItemType]bool{
	ItemManual: true,
	ItemUSDA:   true,
	ItemCustom: true,
	ItemRecipe: true,
}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return validItemTypes[t]
}

// MealPlan is a profile's container for all meal items on one calendar date.
type MealPlan struct {
	PlanID    string
	ProfileID string
	Date      string // DateLayout
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MealItem is one consumed food entry. Macros always hold the values already
// scaled for Servings; they are never re-derived on read. BaseAmount and
// BaseUnit record the reference quantity the macros were scaled from and are
// meaningful only when Type is not ItemManual.
type MealItem struct {
	ItemID      string
	PlanID      string
	Type        ItemType
	MealType    MealType
	Name        string
	Macros      Macros
	Servings    float64
	ServingUnit Unit
	BaseAmount  float64
	BaseUnit    Unit
}

// Validate checks the fields a caller must supply before persisting.
func (mi *MealItem) Validate() error {
	if strings.TrimSpace(mi.Name) == "" {
		return ErrInvalidName
	}
	if !mi.MealType.Valid() {
		return ErrInvalidMealType
	}
	if !mi.Type.Valid() {
		return ErrInvalidItemType
	}
	if mi.ServingUnit != "" && !mi.ServingUnit.Valid() {
		return ErrInvalidUnit
	}
	return nil
}

// ScheduledItem is a meal item joined with the date of its owning plan.
type ScheduledItem struct {
	MealItem
	Date string // DateLayout
}

// DateKey formats t as an ISO calendar date in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses an ISO calendar date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
