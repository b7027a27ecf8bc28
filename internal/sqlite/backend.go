// Package sqlite implements the embedded SQLite store for nutrio: schema
// migrations, the meal and recipe store, profiles, custom foods, water logs,
// and the key/value table that backs grocery list lifecycle state.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/nutrio/internal/events"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

// Backend owns the SQLite connection. All accessors return ErrDetached until
// Attach succeeds and after Detach.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger
	bus      *events.Bus[events.MealPlanChanged]
	now      func() time.Time

	// schemaReady is set once the attached database is at the latest
	// version; EnsureSchema is a no-op afterwards.
	schemaReady bool
}

var _ types.Store = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithBus sets the bus that meal item mutations are published on. The
// default is a private bus.
func WithBus(bus *events.Bus[events.MealPlanChanged]) Option {
	return func(b *Backend) {
		if bus != nil {
			b.bus = bus
		}
	}
}

// WithClock overrides the clock used for created_at and updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// NewBackend creates a detached backend. Call Attach to open the database.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		logger: zap.NewNop(),
		bus:    events.NewBus[events.MealPlanChanged](),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens nutrio.db inside config.DataDir, creating the directory if
// needed, migrates the schema to the latest version and seeds the recipe
// catalog on first run. A migration failure leaves the backend detached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(config.DataDir, types.DatabaseFile)
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	b.db = db
	b.config = config
	b.schemaReady = false

	ctx := context.Background()
	if err := b.ensureSchema(ctx); err != nil {
		db.Close()
		b.db = nil
		return err
	}
	if err := b.seedRecipes(ctx); err != nil {
		db.Close()
		b.db = nil
		return err
	}

	b.attached = true
	b.logger.Debug("store attached", zap.String("path", dbPath))
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.schemaReady = false
	return nil
}

// EnsureSchema brings the attached database to the latest schema version.
// It migrates at most once per attach and never downgrades.
func (b *Backend) EnsureSchema(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.conn(); err != nil {
		return err
	}
	return b.ensureSchema(ctx)
}

func (b *Backend) ensureSchema(ctx context.Context) error {
	if b.schemaReady {
		return nil
	}
	if _, err := migrate(ctx, b.db, migrations, b.logger); err != nil {
		return err
	}
	b.schemaReady = true
	return nil
}

// Bus returns the bus meal plan changes are published on.
func (b *Backend) Bus() *events.Bus[events.MealPlanChanged] {
	return b.bus
}

// conn returns the open database or ErrDetached. The caller must hold b.mu.
func (b *Backend) conn() (*sql.DB, error) {
	if !b.attached || b.db == nil {
		return nil, types.ErrDetached
	}
	return b.db, nil
}

// read runs fn under the read lock with the open database.
func (b *Backend) read(fn func(db *sql.DB) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	db, err := b.conn()
	if err != nil {
		return err
	}
	return fn(db)
}

// write runs fn inside a transaction under the write lock.
func (b *Backend) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	db, err := b.conn()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (b *Backend) timestamp() string {
	return b.now().UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
