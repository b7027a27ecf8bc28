package types

import (
	"context"
	"time"
)

// FoodSource identifies where a food search result came from.
type FoodSource string

const (
	FoodSourceUSDA   FoodSource = "usda"
	FoodSourceCustom FoodSource = "custom"
)

// FoodSearchResult is one candidate returned by a food search. Macros are per
// ServingSize ServingUnit when both are present, otherwise per 100 g.
type FoodSearchResult struct {
	ID          string
	Name        string
	Brand       string
	Macros      Macros
	ServingSize float64
	ServingUnit string
	Source      FoodSource
}

// FoodSearcher looks foods up in a remote database. Implementations own
// their own cancellation and caching; ctx is passed through untouched.
type FoodSearcher interface {
	SearchFoods(ctx context.Context, query string) ([]FoodSearchResult, error)
}

// CustomFood is a profile-scoped food saved to the user's library. Macros are
// per ServingSizeG grams.
type CustomFood struct {
	FoodID       string
	ProfileID    string
	Name         string
	ServingSizeG float64
	Macros       Macros
	CreatedAt    time.Time
}

// WaterLog is one logged drink.
type WaterLog struct {
	LogID     string
	ProfileID string
	Date      string // DateLayout
	AmountMl  int
	TargetMl  *int
	Source    string
	CreatedAt time.Time
}
