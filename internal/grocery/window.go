package grocery

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// RangeOption selects how many days a grocery window covers.
type RangeOption string

// Range options.
const (
	RangeToday RangeOption = "today"
	RangeNext3 RangeOption = "next3"
	RangeWeek  RangeOption = "week"
)

// ParseRangeOption validates a range option name.
func ParseRangeOption(s string) (RangeOption, error) {
	switch o := RangeOption(s); o {
	case RangeToday, RangeNext3, RangeWeek:
		return o, nil
	}
	return "", fmt.Errorf("range %q: %w", s, types.ErrInvalidRange)
}

// days returns the window length minus one.
func (o RangeOption) days() int {
	switch o {
	case RangeNext3:
		return 2
	case RangeWeek:
		return 6
	default:
		return 0
	}
}

// Window is a range option shifted forward by whole weeks.
type Window struct {
	Option      RangeOption
	OffsetWeeks int
}

// Bounds returns the first and last calendar day of the window relative to
// now, both at local midnight.
func (w Window) Bounds(now time.Time) (start, end time.Time) {
	y, m, d := now.Date()
	start = time.Date(y, m, d+w.OffsetWeeks*7, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 0, w.Option.days())
	return start, end
}

// RangeKey identifies a date range in persisted lifecycle state.
func RangeKey(start, end time.Time) string {
	return types.DateKey(start) + "_" + types.DateKey(end)
}
