package grocery

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// KVStore persists lifecycle state as string values.
type KVStore interface {
	// GetValue reports false when the key is absent.
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// State is the lifecycle state of one (profile, range) list.
type State string

// Lifecycle states.
const (
	StateUncomputed State = "uncomputed"
	StateActive     State = "active"
	StateCompleted  State = "completed"
)

func signatureKey(profileID, rangeKey string) string {
	return "grocery.signature." + profileID + "." + rangeKey
}

func checkedKey(profileID, rangeKey string) string {
	return "grocery.checked." + profileID + "." + rangeKey
}

func completedKey(profileID string) string {
	return "grocery.completedRanges." + profileID
}

// Tracker creates lifecycle sessions over a key/value store and a Builder.
type Tracker struct {
	kv      KVStore
	builder *Builder
	logger  *zap.Logger
	now     func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the wall clock used to place range windows.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker returns a Tracker. A nil logger is replaced with a no-op logger.
func NewTracker(kv KVStore, builder *Builder, logger *zap.Logger, opts ...TrackerOption) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{kv: kv, builder: builder, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Session opens a list session for one profile starting at the current
// period of the given range option. An empty profile ID yields a session
// whose operations are all no-ops.
func (t *Tracker) Session(profileID string, option RangeOption) *Session {
	return &Session{
		tracker:   t,
		profileID: profileID,
		window:    Window{Option: option},
		state:     StateUncomputed,
		checked:   map[string]bool{},
		pantry:    map[string]bool{},
		expanded:  map[string]bool{},
	}
}

// Result is the outcome of loading a session's current window.
type Result struct {
	State    State
	RangeKey string
	Start    time.Time
	End      time.Time
	Groups   []CategoryGroup
	// RollForward is set when the range is already completed and unchanged;
	// the caller should advance the window.
	RollForward bool
	// Invalidated is set when a completed range was reopened because its
	// content changed.
	Invalidated bool
}

// Session is the mutable view of one profile's grocery list. Pantry marks,
// expanded rows and manual items live only in the session; the checked set
// is persisted per range.
type Session struct {
	tracker   *Tracker
	profileID string

	mu        sync.Mutex
	window    Window
	state     State
	rangeKey  string
	start     time.Time
	end       time.Time
	lines     []Line
	manual    []Line
	signature string
	checked   map[string]bool
	pantry    map[string]bool
	expanded  map[string]bool
}

// Load recomputes the list for the session's window and reconciles it with
// persisted state. A completed range whose signature is unchanged is reported
// with RollForward and left untouched. A completed range whose signature
// changed is reopened with an empty checked set.
func (s *Session) Load(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// maxRollForward bounds how many consecutive completed periods Refresh skips.
const maxRollForward = 52

// Refresh loads the window and, while the range is completed and unchanged,
// advances one period and loads again. After maxRollForward periods it
// returns the last completed result.
func (s *Session) Refresh(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.load(ctx)
	for i := 0; err == nil && res.RollForward && i < maxRollForward; i++ {
		s.window.OffsetWeeks++
		res, err = s.load(ctx)
	}
	return res, err
}

func (s *Session) load(ctx context.Context) (Result, error) {
	if s.profileID == "" {
		return Result{State: StateUncomputed}, nil
	}
	t := s.tracker
	start, end := s.window.Bounds(t.now())
	rangeKey := RangeKey(start, end)
	res := Result{RangeKey: rangeKey, Start: start, End: end}

	lines, err := t.builder.Build(ctx, s.profileID, start, end)
	if err != nil {
		return Result{}, err
	}
	sig := Signature(lines)

	completed, err := s.loadSet(ctx, completedKey(s.profileID))
	if err != nil {
		return Result{}, err
	}
	stored, hasStored, err := t.kv.GetValue(ctx, signatureKey(s.profileID, rangeKey))
	if err != nil {
		return Result{}, fmt.Errorf("load signature: %w", err)
	}

	if completed[rangeKey] {
		if hasStored && stored == sig {
			s.state = StateCompleted
			s.rangeKey = rangeKey
			s.start, s.end = start, end
			res.State = StateCompleted
			res.RollForward = true
			return res, nil
		}
		t.logger.Warn("grocery list changed after completion, reopening",
			zap.String("profile", s.profileID), zap.String("range", rangeKey))
		delete(completed, rangeKey)
		if err := s.storeSet(ctx, completedKey(s.profileID), completed); err != nil {
			return Result{}, err
		}
		if err := t.kv.DeleteValue(ctx, checkedKey(s.profileID, rangeKey)); err != nil {
			return Result{}, fmt.Errorf("clear checked items: %w", err)
		}
		res.Invalidated = true
	}

	checked := map[string]bool{}
	if !res.Invalidated {
		if checked, err = s.loadSet(ctx, checkedKey(s.profileID, rangeKey)); err != nil {
			return Result{}, err
		}
	}
	if !hasStored || stored != sig {
		if err := t.kv.SetValue(ctx, signatureKey(s.profileID, rangeKey), sig); err != nil {
			return Result{}, fmt.Errorf("store signature: %w", err)
		}
	}
	if !hasStored || res.Invalidated {
		if err := s.storeSet(ctx, checkedKey(s.profileID, rangeKey), checked); err != nil {
			return Result{}, err
		}
	}

	s.state = StateActive
	s.rangeKey = rangeKey
	s.start, s.end = start, end
	s.lines = lines
	s.signature = sig
	s.checked = checked
	s.pantry = map[string]bool{}
	s.expanded = map[string]bool{}
	s.manual = nil

	res.State = StateActive
	res.Groups = s.groups()
	return res, nil
}

// State returns the session's lifecycle state for its current window.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Window returns the session's current window.
func (s *Session) Window() Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// SetWindow replaces the window. The next Load computes the new range.
func (s *Session) SetWindow(w Window) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window = w
	s.state = StateUncomputed
}

// Groups returns the current list, manual items included, grouped by category.
func (s *Session) Groups() []CategoryGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups()
}

func (s *Session) groups() []CategoryGroup {
	if s.state != StateActive {
		return nil
	}
	all := make([]Line, 0, len(s.manual)+len(s.lines))
	all = append(all, s.manual...)
	all = append(all, s.lines...)
	return Group(all, ViewState{Checked: s.checked, Pantry: s.pantry, Expanded: s.expanded})
}

// ToggleChecked flips the checked flag of a line and persists the checked set.
func (s *Session) ToggleChecked(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileID == "" || s.state != StateActive {
		return nil
	}
	if s.checked[id] {
		delete(s.checked, id)
	} else {
		s.checked[id] = true
	}
	return s.storeSet(ctx, checkedKey(s.profileID, s.rangeKey), s.checked)
}

// MarkInPantry flips the pantry flag of a line. Pantry marks are not persisted.
func (s *Session) MarkInPantry(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileID == "" {
		return
	}
	toggle(s.pantry, id)
}

// ToggleExpanded flips whether a line's usages are shown.
func (s *Session) ToggleExpanded(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileID == "" {
		return
	}
	toggle(s.expanded, id)
}

// AddManualItem adds a user-typed line with amount 1 pcs and no usages. It
// reports false when the trimmed name is empty or there is no profile.
func (s *Session) AddManualItem(name string) (Line, bool) {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" || s.profileID == "" {
		return Line{}, false
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	line := Line{
		ID:     "manual_" + id.String(),
		Name:   name,
		Amount: 1,
		Unit:   types.UnitPieces,
		Manual: true,
	}
	s.manual = append([]Line{line}, s.manual...)
	return line, true
}

// Complete marks the current range as shopped: it persists the current
// signature, adds the range to the completed set, clears session-only state
// and advances the window one period.
func (s *Session) Complete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profileID == "" || s.state != StateActive {
		return nil
	}
	t := s.tracker
	completed, err := s.loadSet(ctx, completedKey(s.profileID))
	if err != nil {
		return err
	}
	completed[s.rangeKey] = true
	if err := s.storeSet(ctx, completedKey(s.profileID), completed); err != nil {
		return err
	}
	if err := t.kv.SetValue(ctx, signatureKey(s.profileID, s.rangeKey), s.signature); err != nil {
		return fmt.Errorf("store signature: %w", err)
	}
	t.logger.Info("grocery range completed",
		zap.String("profile", s.profileID), zap.String("range", s.rangeKey))

	s.pantry = map[string]bool{}
	s.expanded = map[string]bool{}
	s.manual = nil
	s.window.OffsetWeeks++
	s.state = StateUncomputed
	return nil
}

// loadSet reads a JSON string array. Malformed values are logged and read
// as empty.
func (s *Session) loadSet(ctx context.Context, key string) (map[string]bool, error) {
	raw, ok, err := s.tracker.kv.GetValue(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	set := map[string]bool{}
	if !ok || raw == "" {
		return set, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.tracker.logger.Warn("ignoring malformed grocery state",
			zap.String("key", key), zap.Error(err))
		return set, nil
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *Session) storeSet(ctx context.Context, key string, set map[string]bool) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.tracker.kv.SetValue(ctx, key, string(data)); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func toggle(set map[string]bool, id string) {
	if set[id] {
		delete(set, id)
		return
	}
	set[id] = true
}
