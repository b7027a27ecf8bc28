package grocery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mesh-intelligence/nutrio/internal/events"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type refresherFixture struct {
	*trackerFixture
	bus     *events.Bus[events.MealPlanChanged]
	results chan Result
	cancel  context.CancelFunc
	done    chan error
	r       *Refresher
}

func startRefresher(t *testing.T, interval time.Duration) *refresherFixture {
	t.Helper()
	f := &refresherFixture{
		trackerFixture: newTrackerFixture(t),
		bus:            events.NewBus[events.MealPlanChanged](),
		results:        make(chan Result, 32),
		done:           make(chan error, 1),
	}
	f.src.add(profile, item(day(0), types.MealLunch, "rice", 100, types.UnitGram))
	session := f.tracker.Session(profile, RangeToday)
	f.r = NewRefresher(session, f.bus, nil,
		WithRolloverInterval(interval),
		WithResultHandler(func(res Result) { f.results <- res }),
	)
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() { f.done <- f.r.Run(ctx) }()
	t.Cleanup(f.stop)
	return f
}

func (f *refresherFixture) stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	f.cancel = nil
	<-f.done
}

func (f *refresherFixture) next(t *testing.T) Result {
	t.Helper()
	select {
	case res := <-f.results:
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for refresh")
		return Result{}
	}
}

func rowAmount(t *testing.T, res Result, name string) float64 {
	t.Helper()
	for _, g := range res.Groups {
		for _, r := range g.Rows {
			if r.Name == name {
				return r.Amount
			}
		}
	}
	t.Fatalf("no row %q", name)
	return 0
}

func TestRefresherRecomputesOnMealPlanChange(t *testing.T) {
	f := startRefresher(t, time.Hour)

	first := f.next(t)
	assert.Equal(t, 100.0, rowAmount(t, first, "rice"))

	f.src.setServings(profile, "rice", 250)
	f.bus.Publish(events.MealPlanChanged{ProfileID: profile, Kind: events.ItemUpdated})

	second := f.next(t)
	assert.Equal(t, 250.0, rowAmount(t, second, "rice"))
}

func TestRefresherRecomputesOnFocus(t *testing.T) {
	f := startRefresher(t, time.Hour)
	f.next(t)

	f.src.add(profile, item(day(0), types.MealSnack, "apple", 1, types.UnitServing))
	f.r.Focus()

	res := f.next(t)
	assert.Equal(t, 1.0, rowAmount(t, res, "apple"))
	assert.GreaterOrEqual(t, f.r.Runs(), 2)
}

func TestRefresherRecomputesOnDayRollover(t *testing.T) {
	f := startRefresher(t, 10*time.Millisecond)
	first := f.next(t)
	assert.Equal(t, "2026-03-02_2026-03-02", first.RangeKey)

	f.clock.Set(day(1).Add(time.Minute))

	res := f.next(t)
	assert.Equal(t, "2026-03-03_2026-03-03", res.RangeKey)
	assert.Empty(t, res.Groups)
}

func TestRefresherStopsOnCancel(t *testing.T) {
	f := startRefresher(t, time.Millisecond)
	f.next(t)
	f.cancel()
	f.cancel = nil

	select {
	case err := <-f.done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("refresher did not stop")
	}
	assert.Zero(t, f.bus.Len())
}
