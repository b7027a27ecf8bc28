// This file implements recipe, ingredient and recipe step reads, and adding
// a recipe portion to a meal plan.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/nutrio/internal/events"
	"github.com/mesh-intelligence/nutrio/internal/nutrition"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

const recipeColumns = `id, title, description, diet_tags, servings, prep_time_min, cook_time_min,
	difficulty, image_url, total_calories, total_protein, total_carbs, total_fat, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

// ListRecipes returns every recipe, newest first.
func (b *Backend) ListRecipes(ctx context.Context) ([]types.Recipe, error) {
	var recipes []types.Recipe
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, "SELECT "+recipeColumns+" FROM recipes ORDER BY created_at DESC, id ASC")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			r, err := hydrateRecipe(rows)
			if err != nil {
				return err
			}
			recipes = append(recipes, r)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	return recipes, nil
}

// Recipe returns the recipe with the given ID.
func (b *Backend) Recipe(ctx context.Context, id string) (types.Recipe, error) {
	if id == "" {
		return types.Recipe{}, types.ErrInvalidID
	}
	var r types.Recipe
	err := b.read(func(db *sql.DB) error {
		var err error
		r, err = hydrateRecipe(db.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = ? LIMIT 1", id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return types.Recipe{}, types.ErrNotFound
	}
	if err != nil {
		return types.Recipe{}, fmt.Errorf("get recipe %s: %w", id, err)
	}
	return r, nil
}

func hydrateRecipe(row scanner) (types.Recipe, error) {
	var (
		r                                  types.Recipe
		description, dietTags, diff, image sql.NullString
		prep, cook                         sql.NullInt64
		createdAt, updatedAt               string
	)
	err := row.Scan(&r.RecipeID, &r.Title, &description, &dietTags, &r.Servings, &prep, &cook,
		&diff, &image, &r.Totals.Calories, &r.Totals.Protein, &r.Totals.Carbs, &r.Totals.Fat,
		&createdAt, &updatedAt)
	if err != nil {
		return types.Recipe{}, err
	}
	r.Description = description.String
	if dietTags.String != "" {
		r.DietTags = strings.Split(dietTags.String, ",")
	}
	r.PrepTimeMin = intPtr(prep)
	r.CookTimeMin = intPtr(cook)
	r.Difficulty = diff.String
	r.ImageURL = image.String
	r.CreatedAt = parseTimestamp(createdAt)
	r.UpdatedAt = parseTimestamp(updatedAt)
	return r, nil
}

// RecipeByTitle resolves an exact title to a recipe ID and serving count.
// Servings below one read as one.
func (b *Backend) RecipeByTitle(ctx context.Context, title string) (types.RecipeRef, error) {
	var ref types.RecipeRef
	err := b.read(func(db *sql.DB) error {
		return db.QueryRowContext(ctx, "SELECT id, servings FROM recipes WHERE title = ? LIMIT 1", title).
			Scan(&ref.RecipeID, &ref.Servings)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return types.RecipeRef{}, types.ErrNotFound
	}
	if err != nil {
		return types.RecipeRef{}, fmt.Errorf("get recipe by title: %w", err)
	}
	if ref.Servings < 1 {
		ref.Servings = 1
	}
	return ref, nil
}

// RecipeIngredients returns a recipe's ingredients ordered by name.
// Quantities stored in servings are reported as grams at 100 g per serving.
func (b *Backend) RecipeIngredients(ctx context.Context, recipeID string) ([]types.RecipeIngredient, error) {
	var out []types.RecipeIngredient
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT ri.id, ri.recipe_id, ri.ingredient_id, i.name, ri.quantity, ri.unit
			 FROM recipe_ingredients ri
			 JOIN ingredients i ON i.id = ri.ingredient_id
			 WHERE ri.recipe_id = ?
			 ORDER BY i.name ASC`,
			recipeID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				ri   types.RecipeIngredient
				unit string
			)
			if err := rows.Scan(&ri.ID, &ri.RecipeID, &ri.IngredientID, &ri.Name, &ri.Quantity, &unit); err != nil {
				return err
			}
			ri.Unit = types.Unit(unit)
			if unit == "serving" || unit == "servings" {
				ri.Quantity *= 100
				ri.Unit = types.UnitGram
			}
			out = append(out, ri)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list ingredients for recipe %s: %w", recipeID, err)
	}
	return out, nil
}

// RecipeSteps returns a recipe's steps in order.
func (b *Backend) RecipeSteps(ctx context.Context, recipeID string) ([]types.RecipeStep, error) {
	var out []types.RecipeStep
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, recipe_id, step_number, instruction
			 FROM recipe_steps WHERE recipe_id = ? ORDER BY step_number ASC`,
			recipeID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var s types.RecipeStep
			if err := rows.Scan(&s.ID, &s.RecipeID, &s.Number, &s.Instruction); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list steps for recipe %s: %w", recipeID, err)
	}
	return out, nil
}

// Ingredients returns every ingredient ordered by name.
func (b *Backend) Ingredients(ctx context.Context) ([]types.Ingredient, error) {
	var out []types.Ingredient
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, name, calories, protein, carbs, fat, fiber, sugar, sodium, unit_default
			 FROM ingredients ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				ing  types.Ingredient
				unit sql.NullString
			)
			if err := rows.Scan(&ing.IngredientID, &ing.Name, &ing.Macros.Calories, &ing.Macros.Protein,
				&ing.Macros.Carbs, &ing.Macros.Fat, &ing.Fiber, &ing.Sugar, &ing.Sodium, &unit); err != nil {
				return err
			}
			ing.DefaultUnit = types.Unit(unit.String)
			out = append(out, ing)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	return out, nil
}

// AddRecipeToMealPlan records servings portions of a recipe on the profile's
// plan for date. The stored item is serving-denominated with a base of one
// serving, and its macros are the recipe totals divided by the recipe's
// servings and multiplied by servings. Zero servings default to 1.
func (b *Backend) AddRecipeToMealPlan(ctx context.Context, profileID, recipeID string, date time.Time, mealType types.MealType, servings float64) (types.MealItem, error) {
	if profileID == "" || recipeID == "" {
		return types.MealItem{}, types.ErrInvalidID
	}
	if !mealType.Valid() {
		return types.MealItem{}, types.ErrInvalidMealType
	}
	if servings == 0 {
		servings = 1
	}
	if servings < 0 {
		return types.MealItem{}, types.ErrInvalidData
	}

	var (
		plan types.MealPlan
		item types.MealItem
	)
	err := b.write(ctx, func(tx *sql.Tx) error {
		recipe, err := hydrateRecipe(tx.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = ?", recipeID))
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}
		if plan, err = getOrCreatePlan(ctx, tx, profileID, types.DateKey(date), b.timestamp()); err != nil {
			return err
		}
		item = types.MealItem{
			ItemID:      generateUUID(),
			PlanID:      plan.PlanID,
			Type:        types.ItemRecipe,
			MealType:    mealType,
			Name:        recipe.Title,
			Macros:      nutrition.RecipePortion(recipe.Totals, recipe.Servings, servings),
			Servings:    servings,
			ServingUnit: types.UnitServing,
			BaseAmount:  1,
			BaseUnit:    types.UnitServing,
		}
		return insertMealItem(ctx, tx, item)
	})
	if err != nil {
		return types.MealItem{}, fmt.Errorf("add recipe %s to meal plan: %w", recipeID, err)
	}
	b.publish(plan, item.ItemID, events.ItemAdded)
	return item, nil
}
