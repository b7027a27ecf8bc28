// This file implements the per-profile custom food library.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// customFoodSearchLimit caps SearchCustomFoods results.
const customFoodSearchLimit = 8

// AddCustomFood saves a food to the profile's library. A serving size of
// zero defaults to 100 g. An empty profile ID is a no-op.
func (b *Backend) AddCustomFood(ctx context.Context, profileID, name string, servingSizeG float64, m types.Macros) (types.CustomFood, error) {
	if profileID == "" {
		return types.CustomFood{}, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return types.CustomFood{}, types.ErrInvalidName
	}
	if servingSizeG == 0 {
		servingSizeG = 100
	}
	if servingSizeG < 0 {
		return types.CustomFood{}, types.ErrInvalidData
	}
	now := b.timestamp()
	food := types.CustomFood{
		FoodID:       generateUUID(),
		ProfileID:    profileID,
		Name:         name,
		ServingSizeG: servingSizeG,
		Macros:       m,
		CreatedAt:    parseTimestamp(now),
	}
	err := b.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO custom_foods
			 (id, profile_id, name, serving_size_g, calories, protein, carbs, fat, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			food.FoodID, profileID, name, servingSizeG, m.Calories, m.Protein, m.Carbs, m.Fat, now,
		)
		return err
	})
	if err != nil {
		return types.CustomFood{}, fmt.Errorf("add custom food: %w", err)
	}
	return food, nil
}

// SearchCustomFoods returns up to eight of the profile's foods whose name
// contains query, newest first. An empty profile ID yields no results.
func (b *Backend) SearchCustomFoods(ctx context.Context, profileID, query string) ([]types.CustomFood, error) {
	if profileID == "" {
		return nil, nil
	}
	var foods []types.CustomFood
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, profile_id, name, serving_size_g, calories, protein, carbs, fat, created_at
			 FROM custom_foods
			 WHERE name LIKE ? AND profile_id = ?
			 ORDER BY created_at DESC, id DESC
			 LIMIT ?`,
			"%"+strings.TrimSpace(query)+"%", profileID, customFoodSearchLimit,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				f         types.CustomFood
				createdAt string
			)
			if err := rows.Scan(&f.FoodID, &f.ProfileID, &f.Name, &f.ServingSizeG,
				&f.Macros.Calories, &f.Macros.Protein, &f.Macros.Carbs, &f.Macros.Fat, &createdAt); err != nil {
				return err
			}
			f.CreatedAt = parseTimestamp(createdAt)
			foods = append(foods, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("search custom foods: %w", err)
	}
	return foods, nil
}

// customFoodSearcher adapts a profile's library to types.FoodSearcher.
type customFoodSearcher struct {
	backend   *Backend
	profileID string
}

var _ types.FoodSearcher = (*customFoodSearcher)(nil)

// CustomFoodSearcher returns a FoodSearcher over the profile's custom foods.
func (b *Backend) CustomFoodSearcher(profileID string) types.FoodSearcher {
	return &customFoodSearcher{backend: b, profileID: profileID}
}

func (s *customFoodSearcher) SearchFoods(ctx context.Context, query string) ([]types.FoodSearchResult, error) {
	foods, err := s.backend.SearchCustomFoods(ctx, s.profileID, query)
	if err != nil {
		return nil, err
	}
	results := make([]types.FoodSearchResult, 0, len(foods))
	for _, f := range foods {
		results = append(results, types.FoodSearchResult{
			ID:          f.FoodID,
			Name:        f.Name,
			Macros:      f.Macros,
			ServingSize: f.ServingSizeG,
			ServingUnit: string(types.UnitGram),
			Source:      types.FoodSourceCustom,
		})
	}
	return results, nil
}
