// This file implements ingredient macro enrichment from a food searcher.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// ingredientsEnrichedKey marks a completed enrichment pass in app_meta.
const ingredientsEnrichedKey = "ingredients_seeded_v2"

// EnrichIngredients fills the macros of every ingredient whose macros are
// all zero from the first result searcher returns for its name, and returns
// how many ingredients were updated. The first search error stops the pass
// and is returned; completion is recorded only for a pass without errors, so
// the next call retries. A nil searcher or an already completed pass is a
// no-op.
func (b *Backend) EnrichIngredients(ctx context.Context, searcher types.FoodSearcher) (int, error) {
	if searcher == nil {
		return 0, nil
	}

	var (
		done    bool
		pending []types.Ingredient
	)
	err := b.read(func(db *sql.DB) error {
		val, ok, err := metaValue(ctx, db, ingredientsEnrichedKey)
		if err != nil {
			return err
		}
		if ok && val == "1" {
			done = true
			return nil
		}
		rows, err := db.QueryContext(ctx,
			`SELECT id, name FROM ingredients
			 WHERE calories = 0 AND protein = 0 AND carbs = 0 AND fat = 0
			 ORDER BY name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var ing types.Ingredient
			if err := rows.Scan(&ing.IngredientID, &ing.Name); err != nil {
				return err
			}
			pending = append(pending, ing)
		}
		return rows.Err()
	})
	if err != nil {
		return 0, fmt.Errorf("list ingredients to enrich: %w", err)
	}
	if done {
		return 0, nil
	}

	updated := 0
	for _, ing := range pending {
		results, err := searcher.SearchFoods(ctx, ing.Name)
		if err != nil {
			b.logger.Warn("ingredient enrichment stopped",
				zap.String("ingredient", ing.Name), zap.Int("updated", updated), zap.Error(err))
			return updated, fmt.Errorf("search %q: %w", ing.Name, err)
		}
		if len(results) == 0 {
			continue
		}
		best := results[0].Macros
		err = b.write(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx,
				`UPDATE ingredients
				 SET calories = ?, protein = ?, carbs = ?, fat = ?, unit_default = ?
				 WHERE id = ?`,
				best.Calories, best.Protein, best.Carbs, best.Fat, string(types.UnitGram), ing.IngredientID,
			)
			return err
		})
		if err != nil {
			return updated, fmt.Errorf("update ingredient %s: %w", ing.IngredientID, err)
		}
		updated++
	}

	err = b.write(ctx, func(tx *sql.Tx) error {
		return setMetaValue(ctx, tx, ingredientsEnrichedKey, "1")
	})
	if err != nil {
		return updated, err
	}
	b.logger.Info("ingredients enriched", zap.Int("updated", updated), zap.Int("candidates", len(pending)))
	return updated, nil
}
