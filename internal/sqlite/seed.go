// This file implements first-run seeding of the recipe catalog.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

//go:embed seed_recipes.yaml
var seedCatalogYAML []byte

type seedCatalog struct {
	Count                int           `yaml:"count"`
	Description          string        `yaml:"description"`
	IngredientsPerRecipe int           `yaml:"ingredients_per_recipe"`
	Variants             []seedVariant `yaml:"variants"`
	Difficulties         []string      `yaml:"difficulties"`
	Steps                []string      `yaml:"steps"`
	Bases                []seedBase    `yaml:"bases"`
	Ingredients          []string      `yaml:"ingredients"`
	Images               []string      `yaml:"images"`
}

type seedVariant struct {
	Before int    `yaml:"before"`
	Suffix string `yaml:"suffix"`
}

type seedBase struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

type seedIngredient struct {
	Name     string
	Quantity float64
	Unit     types.Unit
}

type seedRecipe struct {
	types.Recipe
	Ingredients []seedIngredient
	Steps       []string
}

func loadSeedCatalog() (seedCatalog, error) {
	var c seedCatalog
	if err := yaml.Unmarshal(seedCatalogYAML, &c); err != nil {
		return seedCatalog{}, fmt.Errorf("parse seed catalog: %w", err)
	}
	if len(c.Bases) == 0 || len(c.Ingredients) == 0 || len(c.Difficulties) == 0 || len(c.Images) == 0 {
		return seedCatalog{}, fmt.Errorf("seed catalog: %w", types.ErrInvalidData)
	}
	return c, nil
}

// recipes expands the catalog into its generated recipes.
func (c seedCatalog) recipes() []seedRecipe {
	out := make([]seedRecipe, 0, c.Count)
	for i := 0; i < c.Count; i++ {
		base := c.Bases[i%len(c.Bases)]
		prep := 10 + i%10
		cook := 15 + i%20
		r := seedRecipe{
			Recipe: types.Recipe{
				RecipeID:    fmt.Sprintf("recipe_%03d", i+1),
				Title:       strings.TrimSpace(base.Title + " " + c.suffix(i)),
				Description: c.Description,
				DietTags:    base.Tags,
				Servings:    2 + i%3,
				PrepTimeMin: &prep,
				CookTimeMin: &cook,
				Difficulty:  c.Difficulties[i%len(c.Difficulties)],
				ImageURL:    c.Images[i%len(c.Images)],
				Totals: types.Macros{
					Calories: float64(420 + (i%8)*45),
					Protein:  float64(18 + (i%6)*6),
					Carbs:    float64(35 + (i%7)*8),
					Fat:      float64(12 + (i%5)*5),
				},
			},
			Steps: c.Steps,
		}
		for idx := 0; idx < c.IngredientsPerRecipe; idx++ {
			r.Ingredients = append(r.Ingredients, seedIngredient{
				Name:     c.Ingredients[(i+idx)%len(c.Ingredients)],
				Quantity: float64(100 + ((i+idx)%3)*25),
				Unit:     types.UnitGram,
			})
		}
		out = append(out, r)
	}
	return out
}

func (c seedCatalog) suffix(i int) string {
	for _, v := range c.Variants {
		if i < v.Before {
			return v.Suffix
		}
	}
	return ""
}

func ingredientID(name string) string {
	return "ing_" + strings.Join(strings.Fields(name), "_")
}

// seedRecipes inserts the catalog when the recipes table is empty and
// otherwise fills missing recipe totals. The caller must hold b.mu.
func (b *Backend) seedRecipes(ctx context.Context) error {
	catalog, err := loadSeedCatalog()
	if err != nil {
		return err
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&count); err != nil {
		return fmt.Errorf("count recipes: %w", err)
	}
	if count > 0 {
		if err := ensureRecipeMacros(ctx, tx, catalog, b.timestamp()); err != nil {
			return err
		}
		return tx.Commit()
	}

	now := b.timestamp()
	for _, name := range catalog.Ingredients {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO ingredients
			 (id, name, calories, protein, carbs, fat, fiber, sugar, sodium, unit_default)
			 VALUES (?, ?, 0, 0, 0, 0, 0, 0, 0, ?)`,
			ingredientID(name), name, string(types.UnitServing),
		)
		if err != nil {
			return fmt.Errorf("seed ingredient %s: %w", name, err)
		}
	}

	recipes := catalog.recipes()
	for _, r := range recipes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipes
			 (id, title, description, diet_tags, servings, prep_time_min, cook_time_min, difficulty,
			  image_url, total_calories, total_protein, total_carbs, total_fat, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RecipeID, r.Title, r.Description, strings.Join(r.DietTags, ","), r.Servings,
			nullable(r.PrepTimeMin), nullable(r.CookTimeMin), r.Difficulty, r.ImageURL,
			r.Totals.Calories, r.Totals.Protein, r.Totals.Carbs, r.Totals.Fat, now, now,
		)
		if err != nil {
			return fmt.Errorf("seed recipe %s: %w", r.RecipeID, err)
		}
		for idx, ing := range r.Ingredients {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_ingredients (id, recipe_id, ingredient_id, quantity, unit)
				 VALUES (?, ?, ?, ?, ?)`,
				fmt.Sprintf("%s_ing_%d", r.RecipeID, idx), r.RecipeID, ingredientID(ing.Name),
				ing.Quantity, string(ing.Unit),
			)
			if err != nil {
				return fmt.Errorf("seed ingredient %d of %s: %w", idx, r.RecipeID, err)
			}
		}
		for idx, step := range r.Steps {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO recipe_steps (id, recipe_id, step_number, instruction) VALUES (?, ?, ?, ?)`,
				fmt.Sprintf("%s_step_%d", r.RecipeID, idx), r.RecipeID, idx+1, step,
			)
			if err != nil {
				return fmt.Errorf("seed step %d of %s: %w", idx, r.RecipeID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	b.logger.Info("seeded recipe catalog",
		zap.Int("recipes", len(recipes)), zap.Int("ingredients", len(catalog.Ingredients)))
	return nil
}

// EnsureRecipeMacros fills recipe totals from the seed catalog when no
// recipe has positive calories.
func (b *Backend) EnsureRecipeMacros(ctx context.Context) error {
	catalog, err := loadSeedCatalog()
	if err != nil {
		return err
	}
	return b.write(ctx, func(tx *sql.Tx) error {
		return ensureRecipeMacros(ctx, tx, catalog, b.timestamp())
	})
}

func ensureRecipeMacros(ctx context.Context, tx *sql.Tx, catalog seedCatalog, now string) error {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes WHERE total_calories > 0").Scan(&count); err != nil {
		return fmt.Errorf("count recipes with macros: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, r := range catalog.recipes() {
		_, err := tx.ExecContext(ctx,
			`UPDATE recipes
			 SET total_calories = ?, total_protein = ?, total_carbs = ?, total_fat = ?, updated_at = ?
			 WHERE id = ?`,
			r.Totals.Calories, r.Totals.Protein, r.Totals.Carbs, r.Totals.Fat, now, r.RecipeID,
		)
		if err != nil {
			return fmt.Errorf("fill macros for %s: %w", r.RecipeID, err)
		}
	}
	return nil
}
