package grocery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func TestWindowBounds(t *testing.T) {
	now := time.Date(2026, time.March, 2, 15, 30, 0, 0, time.Local)
	tests := []struct {
		name      string
		window    Window
		wantStart string
		wantEnd   string
	}{
		{"today", Window{Option: RangeToday}, "2026-03-02", "2026-03-02"},
		{"next3", Window{Option: RangeNext3}, "2026-03-02", "2026-03-04"},
		{"week", Window{Option: RangeWeek}, "2026-03-02", "2026-03-08"},
		{"week offset", Window{Option: RangeWeek, OffsetWeeks: 1}, "2026-03-09", "2026-03-15"},
		{"today offset crosses month", Window{Option: RangeToday, OffsetWeeks: 4}, "2026-03-30", "2026-03-30"},
		{"next3 offset", Window{Option: RangeNext3, OffsetWeeks: 5}, "2026-04-06", "2026-04-08"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.window.Bounds(now)
			assert.Equal(t, tt.wantStart, types.DateKey(start))
			assert.Equal(t, tt.wantEnd, types.DateKey(end))
			assert.Zero(t, start.Hour())
			assert.Equal(t, tt.wantStart+"_"+tt.wantEnd, RangeKey(start, end))
		})
	}
}

func TestParseRangeOption(t *testing.T) {
	for _, s := range []string{"today", "next3", "week"} {
		got, err := ParseRangeOption(s)
		require.NoError(t, err)
		assert.Equal(t, RangeOption(s), got)
	}
	_, err := ParseRangeOption("month")
	assert.ErrorIs(t, err, types.ErrInvalidRange)
}
