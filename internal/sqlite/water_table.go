// This file implements water intake logging.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// DefaultWaterSource labels manually logged drinks.
const DefaultWaterSource = "manual"

// AddWaterLog records amountMl, rounded to the nearest millilitre, on the
// calendar date of date. An empty profile ID is a no-op.
func (b *Backend) AddWaterLog(ctx context.Context, profileID string, date time.Time, amountMl float64, source string) (types.WaterLog, error) {
	if profileID == "" {
		return types.WaterLog{}, nil
	}
	if amountMl <= 0 || math.IsNaN(amountMl) || math.IsInf(amountMl, 0) {
		return types.WaterLog{}, types.ErrInvalidData
	}
	if source == "" {
		source = DefaultWaterSource
	}
	now := b.timestamp()
	log := types.WaterLog{
		LogID:     generateUUID(),
		ProfileID: profileID,
		Date:      types.DateKey(date),
		AmountMl:  int(math.Round(amountMl)),
		Source:    source,
		CreatedAt: parseTimestamp(now),
	}
	err := b.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO water_logs (id, profile_id, date, amount_ml, target_ml, source, created_at)
			 VALUES (?, ?, ?, ?, NULL, ?, ?)`,
			log.LogID, profileID, log.Date, log.AmountMl, source, now,
		)
		return err
	})
	if err != nil {
		return types.WaterLog{}, fmt.Errorf("add water log: %w", err)
	}
	return log, nil
}

// WaterTotal sums the millilitres logged by the profile on date.
func (b *Backend) WaterTotal(ctx context.Context, profileID string, date time.Time) (int, error) {
	if profileID == "" {
		return 0, nil
	}
	var total sql.NullInt64
	err := b.read(func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			"SELECT SUM(amount_ml) FROM water_logs WHERE date = ? AND profile_id = ?",
			types.DateKey(date), profileID,
		).Scan(&total)
	})
	if err != nil {
		return 0, fmt.Errorf("sum water logs: %w", err)
	}
	return int(total.Int64), nil
}
