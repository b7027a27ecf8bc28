package grocery

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/nutrio/internal/events"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// DefaultRolloverInterval is how often the Refresher compares the wall-clock
// date with the date of the last displayed list.
const DefaultRolloverInterval = time.Minute

// Refresher keeps a Session current. It recomputes on meal plan events for
// the session's profile, on Focus, and when the calendar date changes.
// Recomputations run one at a time in trigger order, and triggers that
// arrive while one is running collapse into a single follow-up run.
type Refresher struct {
	session  *Session
	bus      *events.Bus[events.MealPlanChanged]
	logger   *zap.Logger
	interval time.Duration
	onResult func(Result)

	focus   chan struct{}
	trigger chan struct{}

	mu        sync.Mutex
	displayed string
	runs      int
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithRolloverInterval sets the day-rollover polling interval.
func WithRolloverInterval(d time.Duration) RefresherOption {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithResultHandler registers fn to receive every successful recomputation.
// fn runs on the refresh goroutine.
func WithResultHandler(fn func(Result)) RefresherOption {
	return func(r *Refresher) { r.onResult = fn }
}

// NewRefresher returns a Refresher for session. A nil logger is replaced
// with a no-op logger.
func NewRefresher(session *Session, bus *events.Bus[events.MealPlanChanged], logger *zap.Logger, opts ...RefresherOption) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Refresher{
		session:  session,
		bus:      bus,
		logger:   logger,
		interval: DefaultRolloverInterval,
		focus:    make(chan struct{}, 1),
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Focus requests a recomputation, as when the list view becomes active.
func (r *Refresher) Focus() {
	select {
	case r.focus <- struct{}{}:
	default:
	}
}

// Runs returns how many recomputations have completed.
func (r *Refresher) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Run computes the list once and then recomputes on every trigger until ctx
// is canceled.
func (r *Refresher) Run(ctx context.Context) error {
	changes, sub := r.bus.SubscribeChan(16)
	defer sub.Unsubscribe()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-changes:
				if !ok {
					return nil
				}
				if ev.ProfileID == "" || ev.ProfileID == r.session.profileID {
					r.request()
				}
			case <-r.focus:
				r.request()
			}
		}
	})
	g.Go(func() error {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if types.DateKey(r.session.tracker.now()) != r.displayedDate() {
					r.logger.Debug("date changed, refreshing grocery list")
					r.request()
				}
			}
		}
	})
	g.Go(func() error {
		r.refresh(ctx)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-r.trigger:
				r.refresh(ctx)
			}
		}
	})
	return g.Wait()
}

func (r *Refresher) request() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

func (r *Refresher) displayedDate() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.displayed
}

func (r *Refresher) refresh(ctx context.Context) {
	today := types.DateKey(r.session.tracker.now())
	res, err := r.session.Refresh(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Error("refresh grocery list", zap.Error(err))
		}
		return
	}
	r.mu.Lock()
	r.displayed = today
	r.runs++
	r.mu.Unlock()
	if r.onResult != nil {
		r.onResult(res)
	}
}
