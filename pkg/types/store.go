package types

import (
	"context"
	"time"
)

// Store is the embedded meal and recipe store. Every method other than
// Attach returns ErrDetached until Attach succeeds and after Detach.
type Store interface {
	// Attach opens the database inside config.DataDir, creating the
	// directory if needed, and migrates it to the latest schema version.
	// Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases the database. Idempotent.
	Detach() error

	// GetOrCreateMealPlan returns the profile's plan for the calendar date
	// of date, creating it on first access.
	GetOrCreateMealPlan(ctx context.Context, profileID string, date time.Time) (MealPlan, error)

	MealItem(ctx context.Context, itemID string) (MealItem, error)
	MealItemsForPlan(ctx context.Context, planID string) ([]MealItem, error)

	// MealItemsInRange returns the profile's items dated within
	// [start, end] inclusive, ordered by date.
	MealItemsInRange(ctx context.Context, profileID string, start, end time.Time) ([]ScheduledItem, error)

	AddMealItem(ctx context.Context, item MealItem) (MealItem, error)
	UpdateMealItem(ctx context.Context, item MealItem) error
	DeleteMealItem(ctx context.Context, itemID string) error

	ListRecipes(ctx context.Context) ([]Recipe, error)
	Recipe(ctx context.Context, id string) (Recipe, error)

	// RecipeByTitle resolves an exact title. Returns ErrNotFound when no
	// recipe has that title.
	RecipeByTitle(ctx context.Context, title string) (RecipeRef, error)

	RecipeIngredients(ctx context.Context, recipeID string) ([]RecipeIngredient, error)
	RecipeSteps(ctx context.Context, recipeID string) ([]RecipeStep, error)

	// AddRecipeToMealPlan records servings portions of a recipe on the
	// profile's plan for date.
	AddRecipeToMealPlan(ctx context.Context, profileID, recipeID string, date time.Time, mealType MealType, servings float64) (MealItem, error)
}
