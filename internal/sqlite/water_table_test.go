package sqlite

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func TestWaterLogs(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	log, err := b.AddWaterLog(ctx, "p1", date(2), 249.6, "")
	require.NoError(t, err)
	assert.Equal(t, 250, log.AmountMl)
	assert.Equal(t, DefaultWaterSource, log.Source)
	assert.Equal(t, "2026-03-02", log.Date)

	_, err = b.AddWaterLog(ctx, "p1", date(2), 500, "bottle")
	require.NoError(t, err)
	_, err = b.AddWaterLog(ctx, "p1", date(3), 300, "")
	require.NoError(t, err)
	_, err = b.AddWaterLog(ctx, "p2", date(2), 1000, "")
	require.NoError(t, err)

	tests := []struct {
		name      string
		profileID string
		day       int
		want      int
	}{
		{"two logs", "p1", 2, 750},
		{"one log", "p1", 3, 300},
		{"no logs", "p1", 4, 0},
		{"other profile", "p2", 2, 1000},
		{"no profile", "", 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.WaterTotal(ctx, tt.profileID, date(tt.day))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddWaterLogInvalid(t *testing.T) {
	b, _ := newTestBackend(t)
	ctx := context.Background()

	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		_, err := b.AddWaterLog(ctx, "p1", date(2), amount, "")
		assert.ErrorIs(t, err, types.ErrInvalidData)
	}

	log, err := b.AddWaterLog(ctx, "", date(2), 250, "")
	require.NoError(t, err)
	assert.Equal(t, types.WaterLog{}, log)
}
