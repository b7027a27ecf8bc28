package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

const schemaVersionKey = "schema_version"

// migration is one named, additive schema step. Up runs inside the same
// transaction that records Version, so a step is either fully applied and
// recorded or not at all. Up must still tolerate objects that already exist,
// since databases written by older builds may carry them without a version.
type migration struct {
	Version int
	Name    string
	Up      func(ctx context.Context, tx *sql.Tx) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// LatestSchemaVersion is the version a fully migrated database reports.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

// migrate applies every step above the stored version in order and returns
// the resulting version. A stored version above the last step is
// ErrSchemaAhead. A failing step aborts the run; earlier steps stay applied.
func migrate(ctx context.Context, db *sql.DB, steps []migration, logger *zap.Logger) (int, error) {
	if _, err := db.ExecContext(ctx, createAppMeta); err != nil {
		return 0, fmt.Errorf("create app_meta: %w", err)
	}

	current, err := schemaVersion(ctx, db, logger)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	latest := 0
	if len(steps) > 0 {
		latest = steps[len(steps)-1].Version
	}
	if current > latest {
		return current, fmt.Errorf("schema version %d, latest %d: %w", current, latest, types.ErrSchemaAhead)
	}

	for _, m := range steps {
		if m.Version <= current {
			continue
		}
		if m.Version != current+1 {
			return current, fmt.Errorf("version %d: %w", current+1, types.ErrMissingMigration)
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return current, err
		}
		logger.Info("applied migration", zap.Int("version", m.Version), zap.String("name", m.Name))
		current = m.Version
	}
	logger.Debug("schema up to date", zap.Int("version", current))
	return current, nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if err := m.Up(ctx, tx); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err := setMetaValue(ctx, tx, schemaVersionKey, strconv.Itoa(m.Version)); err != nil {
		return fmt.Errorf("record schema version %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}
	return nil
}

// schemaVersion reads the stored version. A missing or unparsable value
// reads as 0; every step is idempotent, so re-running from 0 is safe.
func schemaVersion(ctx context.Context, q querier, logger *zap.Logger) (int, error) {
	val, ok, err := metaValue(ctx, q, schemaVersionKey)
	if err != nil || !ok {
		return 0, err
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		logger.Warn("unparsable schema version, starting from 0", zap.String("value", val))
		return 0, nil
	}
	return v, nil
}

// tableExists checks sqlite_master for a table.
func tableExists(ctx context.Context, q querier, table string) (bool, error) {
	var name string
	err := q.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return true, nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info.
func columnExists(ctx context.Context, q querier, table, column string) (bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// addColumn adds column to table unless it is already there.
func addColumn(ctx context.Context, tx *sql.Tx, table, column, decl string) error {
	exists, err := columnExists(ctx, tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl)); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

// execAll runs each statement in order.
func execAll(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
