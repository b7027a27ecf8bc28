// This file implements meal plan and meal item storage. Every item mutation
// publishes events.MealPlanChanged on the backend's bus after it commits.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/nutrio/internal/events"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

const mealItemColumns = `mi.id, mi.meal_plan_id, mi.type, mi.meal_type, mi.name,
	mi.calories, mi.protein, mi.carbs, mi.fat, mi.servings,
	mi.serving_unit, mi.base_amount, mi.base_unit`

// GetOrCreateMealPlan returns the profile's plan for the calendar date of
// date, creating it on first access.
func (b *Backend) GetOrCreateMealPlan(ctx context.Context, profileID string, date time.Time) (types.MealPlan, error) {
	if profileID == "" {
		return types.MealPlan{}, types.ErrInvalidID
	}
	dateKey := types.DateKey(date)
	var plan types.MealPlan
	err := b.write(ctx, func(tx *sql.Tx) error {
		var err error
		plan, err = getOrCreatePlan(ctx, tx, profileID, dateKey, b.timestamp())
		return err
	})
	if err != nil {
		return types.MealPlan{}, fmt.Errorf("get meal plan %s: %w", dateKey, err)
	}
	return plan, nil
}

func getOrCreatePlan(ctx context.Context, tx *sql.Tx, profileID, dateKey, now string) (types.MealPlan, error) {
	plan, err := hydrateMealPlan(tx.QueryRowContext(ctx,
		`SELECT id, profile_id, date, notes, created_at, updated_at
		 FROM meal_plans WHERE profile_id = ? AND date = ? LIMIT 1`,
		profileID, dateKey,
	))
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return types.MealPlan{}, err
	}

	plan = types.MealPlan{
		PlanID:    generateUUID(),
		ProfileID: profileID,
		Date:      dateKey,
		CreatedAt: parseTimestamp(now),
		UpdatedAt: parseTimestamp(now),
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO meal_plans (id, profile_id, date, notes, created_at, updated_at)
		 VALUES (?, ?, ?, NULL, ?, ?)`,
		plan.PlanID, profileID, dateKey, now, now,
	)
	if err != nil {
		return types.MealPlan{}, err
	}
	return plan, nil
}

func hydrateMealPlan(row *sql.Row) (types.MealPlan, error) {
	var (
		p                    types.MealPlan
		profileID, notes     sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.PlanID, &profileID, &p.Date, &notes, &createdAt, &updatedAt); err != nil {
		return types.MealPlan{}, err
	}
	p.ProfileID = profileID.String
	p.Notes = stringPtr(notes)
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return p, nil
}

// MealItemsForPlan returns a plan's items ordered by meal type.
func (b *Backend) MealItemsForPlan(ctx context.Context, planID string) ([]types.MealItem, error) {
	if planID == "" {
		return nil, types.ErrInvalidID
	}
	var items []types.MealItem
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+mealItemColumns+" FROM meal_items mi WHERE mi.meal_plan_id = ? ORDER BY mi.meal_type ASC, mi.rowid ASC",
			planID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			item, err := hydrateMealItem(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list meal items for plan %s: %w", planID, err)
	}
	return items, nil
}

// MealItem returns the item with the given ID.
func (b *Backend) MealItem(ctx context.Context, itemID string) (types.MealItem, error) {
	if itemID == "" {
		return types.MealItem{}, types.ErrInvalidID
	}
	var item types.MealItem
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, "SELECT "+mealItemColumns+" FROM meal_items mi WHERE mi.id = ?", itemID)
		if err != nil {
			return err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return types.ErrNotFound
		}
		item, err = hydrateMealItem(rows)
		return err
	})
	if err != nil {
		return types.MealItem{}, fmt.Errorf("get meal item %s: %w", itemID, err)
	}
	return item, nil
}

// MealItemsInRange returns every item whose plan belongs to the profile and
// is dated within [start, end] inclusive, ordered by date and meal type.
func (b *Backend) MealItemsInRange(ctx context.Context, profileID string, start, end time.Time) ([]types.ScheduledItem, error) {
	if profileID == "" {
		return nil, nil
	}
	var items []types.ScheduledItem
	err := b.read(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			"SELECT "+mealItemColumns+`, mp.date
			 FROM meal_items mi
			 JOIN meal_plans mp ON mp.id = mi.meal_plan_id
			 WHERE mp.profile_id = ? AND mp.date >= ? AND mp.date <= ?
			 ORDER BY mp.date ASC, mi.meal_type ASC, mi.rowid ASC`,
			profileID, types.DateKey(start), types.DateKey(end),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var date string
			item, err := hydrateMealItem(rows, &date)
			if err != nil {
				return err
			}
			items = append(items, types.ScheduledItem{MealItem: item, Date: date})
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list meal items in range: %w", err)
	}
	return items, nil
}

func hydrateMealItem(rows *sql.Rows, extra ...any) (types.MealItem, error) {
	var (
		item                  types.MealItem
		itemType, mealType    string
		servingUnit, baseUnit sql.NullString
		baseAmount            sql.NullFloat64
	)
	dest := []any{
		&item.ItemID, &item.PlanID, &itemType, &mealType, &item.Name,
		&item.Macros.Calories, &item.Macros.Protein, &item.Macros.Carbs, &item.Macros.Fat,
		&item.Servings, &servingUnit, &baseAmount, &baseUnit,
	}
	if err := rows.Scan(append(dest, extra...)...); err != nil {
		return types.MealItem{}, err
	}
	item.Type = types.ItemType(itemType)
	item.MealType = types.MealType(mealType)
	item.ServingUnit = types.Unit(servingUnit.String)
	item.BaseAmount = baseAmount.Float64
	item.BaseUnit = types.Unit(baseUnit.String)
	return item, nil
}

// AddMealItem stores item in the plan named by item.PlanID and returns it
// with its generated ID. Zero servings default to 1.
func (b *Backend) AddMealItem(ctx context.Context, item types.MealItem) (types.MealItem, error) {
	if item.PlanID == "" {
		return types.MealItem{}, types.ErrInvalidID
	}
	if err := normalizeMealItem(&item); err != nil {
		return types.MealItem{}, err
	}
	item.ItemID = generateUUID()

	var plan types.MealPlan
	err := b.write(ctx, func(tx *sql.Tx) error {
		var err error
		if plan, err = planByID(ctx, tx, item.PlanID); err != nil {
			return err
		}
		return insertMealItem(ctx, tx, item)
	})
	if err != nil {
		return types.MealItem{}, fmt.Errorf("add meal item: %w", err)
	}
	b.publish(plan, item.ItemID, events.ItemAdded)
	return item, nil
}

// UpdateMealItem replaces the mutable fields of an existing item. The plan
// an item belongs to never changes.
func (b *Backend) UpdateMealItem(ctx context.Context, item types.MealItem) error {
	if item.ItemID == "" {
		return types.ErrInvalidID
	}
	if err := normalizeMealItem(&item); err != nil {
		return err
	}
	var plan types.MealPlan
	err := b.write(ctx, func(tx *sql.Tx) error {
		var planID string
		err := tx.QueryRowContext(ctx, "SELECT meal_plan_id FROM meal_items WHERE id = ?", item.ItemID).Scan(&planID)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}
		if plan, err = planByID(ctx, tx, planID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE meal_items
			 SET type = ?, meal_type = ?, name = ?, calories = ?, protein = ?, carbs = ?, fat = ?,
			     servings = ?, serving_unit = ?, base_amount = ?, base_unit = ?
			 WHERE id = ?`,
			string(item.Type), string(item.MealType), item.Name,
			item.Macros.Calories, item.Macros.Protein, item.Macros.Carbs, item.Macros.Fat,
			item.Servings, unitOrNull(item.ServingUnit), amountOrNull(item.BaseAmount), unitOrNull(item.BaseUnit),
			item.ItemID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("update meal item %s: %w", item.ItemID, err)
	}
	b.publish(plan, item.ItemID, events.ItemUpdated)
	return nil
}

// DeleteMealItem removes an item.
func (b *Backend) DeleteMealItem(ctx context.Context, itemID string) error {
	if itemID == "" {
		return types.ErrInvalidID
	}
	var plan types.MealPlan
	err := b.write(ctx, func(tx *sql.Tx) error {
		var planID string
		err := tx.QueryRowContext(ctx, "SELECT meal_plan_id FROM meal_items WHERE id = ?", itemID).Scan(&planID)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return err
		}
		if plan, err = planByID(ctx, tx, planID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, "DELETE FROM meal_items WHERE id = ?", itemID)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete meal item %s: %w", itemID, err)
	}
	b.publish(plan, itemID, events.ItemDeleted)
	return nil
}

func (b *Backend) publish(plan types.MealPlan, itemID string, kind events.ChangeKind) {
	b.bus.Publish(events.MealPlanChanged{
		ProfileID: plan.ProfileID,
		PlanID:    plan.PlanID,
		ItemID:    itemID,
		Date:      plan.Date,
		Kind:      kind,
	})
}

func planByID(ctx context.Context, tx *sql.Tx, planID string) (types.MealPlan, error) {
	plan, err := hydrateMealPlan(tx.QueryRowContext(ctx,
		"SELECT id, profile_id, date, notes, created_at, updated_at FROM meal_plans WHERE id = ?",
		planID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return types.MealPlan{}, types.ErrNotFound
	}
	return plan, err
}

func insertMealItem(ctx context.Context, tx *sql.Tx, item types.MealItem) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO meal_items
		 (id, meal_plan_id, type, meal_type, name, calories, protein, carbs, fat,
		  servings, serving_unit, base_amount, base_unit)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ItemID, item.PlanID, string(item.Type), string(item.MealType), item.Name,
		item.Macros.Calories, item.Macros.Protein, item.Macros.Carbs, item.Macros.Fat,
		item.Servings, unitOrNull(item.ServingUnit), amountOrNull(item.BaseAmount), unitOrNull(item.BaseUnit),
	)
	return err
}

func normalizeMealItem(item *types.MealItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return err
	}
	if item.Servings == 0 {
		item.Servings = 1
	}
	if item.Servings < 0 || item.BaseAmount < 0 {
		return types.ErrInvalidData
	}
	return nil
}

func unitOrNull(u types.Unit) any {
	if u == "" {
		return nil
	}
	return string(u)
}

func amountOrNull(v float64) any {
	if v == 0 {
		return nil
	}
	return v
}
