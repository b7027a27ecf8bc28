// This file implements profile storage.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/nutrio/internal/events"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

const profileColumns = `id, email, display_name, diet_tags, height_cm, weight_kg, age, sex,
	activity_level, goal, timezone, created_at`

// CreateProfile stores a new profile with trimmed email and display name.
func (b *Backend) CreateProfile(ctx context.Context, email, displayName string) (types.Profile, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)
	if email == "" {
		return types.Profile{}, types.ErrInvalidData
	}
	p := types.Profile{
		ProfileID: generateUUID(),
		Email:     email,
	}
	if displayName != "" {
		p.DisplayName = &displayName
	}
	createdAt := b.timestamp()
	p.CreatedAt = parseTimestamp(createdAt)

	err := b.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO profiles (id, email, display_name, created_at) VALUES (?, ?, ?, ?)",
			p.ProfileID, p.Email, nullable(p.DisplayName), createdAt,
		)
		return err
	})
	if err != nil {
		return types.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// Profile returns the profile with the given ID.
func (b *Backend) Profile(ctx context.Context, id string) (types.Profile, error) {
	if id == "" {
		return types.Profile{}, types.ErrInvalidID
	}
	return b.queryProfile(ctx, "SELECT "+profileColumns+" FROM profiles WHERE id = ? LIMIT 1", id)
}

// ProfileByEmail looks a profile up by email, ignoring case.
func (b *Backend) ProfileByEmail(ctx context.Context, email string) (types.Profile, error) {
	return b.queryProfile(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE LOWER(email) = LOWER(?) LIMIT 1",
		strings.TrimSpace(email),
	)
}

// EmailExists reports whether any profile uses email, ignoring case.
func (b *Backend) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := b.ProfileByEmail(ctx, email)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *Backend) queryProfile(ctx context.Context, query string, args ...any) (types.Profile, error) {
	var p types.Profile
	err := b.read(func(db *sql.DB) error {
		var err error
		p, err = hydrateProfile(db.QueryRowContext(ctx, query, args...))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return types.Profile{}, types.ErrNotFound
	}
	if err != nil {
		return types.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func hydrateProfile(row *sql.Row) (types.Profile, error) {
	var (
		p                          types.Profile
		displayName, dietTags, sex sql.NullString
		activity, goal, timezone   sql.NullString
		heightCm, weightKg         sql.NullFloat64
		age                        sql.NullInt64
		createdAt                  string
	)
	err := row.Scan(&p.ProfileID, &p.Email, &displayName, &dietTags, &heightCm, &weightKg,
		&age, &sex, &activity, &goal, &timezone, &createdAt)
	if err != nil {
		return types.Profile{}, err
	}
	p.DisplayName = stringPtr(displayName)
	p.DietTags = stringPtr(dietTags)
	p.HeightCm = floatPtr(heightCm)
	p.WeightKg = floatPtr(weightKg)
	p.Age = intPtr(age)
	if sex.Valid {
		s := types.Sex(sex.String)
		p.Sex = &s
	}
	if activity.Valid {
		a := types.ActivityLevel(activity.String)
		p.ActivityLevel = &a
	}
	p.Goal = stringPtr(goal)
	p.Timezone = stringPtr(timezone)
	p.CreatedAt = parseTimestamp(createdAt)
	return p, nil
}

// UpdateProfile replaces every optional field. Nil fields are stored as NULL.
func (b *Backend) UpdateProfile(ctx context.Context, id string, u types.ProfileUpdate) error {
	if id == "" {
		return types.ErrInvalidID
	}
	return b.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE profiles
			 SET diet_tags = ?, height_cm = ?, weight_kg = ?, age = ?, sex = ?,
			     activity_level = ?, goal = ?, timezone = ?
			 WHERE id = ?`,
			nullable(u.DietTags), nullable(u.HeightCm), nullable(u.WeightKg), nullable(u.Age),
			nullable(u.Sex), nullable(u.ActivityLevel), nullable(u.Goal), nullable(u.Timezone), id,
		)
		if err != nil {
			return fmt.Errorf("update profile %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return types.ErrNotFound
		}
		return nil
	})
}

// ResetProfile deletes every meal plan, meal item and water log of a profile.
func (b *Backend) ResetProfile(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	err := b.write(ctx, func(tx *sql.Tx) error {
		return execAllArgs(ctx, tx, []any{id},
			"DELETE FROM meal_items WHERE meal_plan_id IN (SELECT id FROM meal_plans WHERE profile_id = ?)",
			"DELETE FROM meal_plans WHERE profile_id = ?",
			"DELETE FROM water_logs WHERE profile_id = ?",
		)
	})
	if err != nil {
		return fmt.Errorf("reset profile %s: %w", id, err)
	}
	b.bus.Publish(events.MealPlanChanged{ProfileID: id, Kind: events.PlanReset})
	return nil
}

func execAllArgs(ctx context.Context, tx *sql.Tx, args []any, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}
