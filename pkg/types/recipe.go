package types

import "time"

// Recipe is a seeded recipe. Totals are for the whole recipe, not per serving.
type Recipe struct {
	RecipeID    string
	Title       string
	Description string
	DietTags    []string
	Servings    int
	PrepTimeMin *int
	CookTimeMin *int
	Difficulty  string
	ImageURL    string
	Totals      Macros
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeRef is the minimal recipe lookup used by grocery expansion.
// Servings is always at least 1.
type RecipeRef struct {
	RecipeID string
	Servings int
}

// Ingredient is a pantry ingredient. Macro values are per DefaultUnit and
// stay zero until enrichment fills them.
type Ingredient struct {
	IngredientID string
	Name         string
	Macros       Macros
	Fiber        float64
	Sugar        float64
	Sodium       float64
	DefaultUnit  Unit
}

// RecipeIngredient is one (recipe, ingredient, quantity, unit) row joined with
// the ingredient name. Immutable after seeding.
type RecipeIngredient struct {
	ID           string
	RecipeID     string
	IngredientID string
	Name         string
	Quantity     float64
	Unit         Unit
}

// RecipeStep is one numbered instruction of a recipe.
type RecipeStep struct {
	ID          string
	RecipeID    string
	Number      int
	Instruction string
}
