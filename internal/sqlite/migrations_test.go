package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/nutrio/pkg/types"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "raw.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func storedVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	v, err := schemaVersion(context.Background(), db, zap.NewNop())
	require.NoError(t, err)
	return v
}

func tableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		require.NoError(t, rows.Scan(&n))
		names = append(names, n)
	}
	require.NoError(t, rows.Err())
	return names
}

func columnCount(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?)", table).Scan(&n))
	return n
}

func TestMigrateFreshDatabase(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	v, err := migrate(ctx, db, migrations, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), v)
	assert.Equal(t, 6, storedVersion(t, db))

	assert.Equal(t, []string{
		"app_meta", "custom_foods", "grocery_items", "ingredients", "kv_store",
		"macro_logs", "meal_items", "meal_plans", "profiles", "recipe_ingredients",
		"recipe_steps", "recipes", "water_logs",
	}, tableNames(t, db))

	for _, tc := range []struct{ table, column string }{
		{"meal_plans", "profile_id"},
		{"water_logs", "profile_id"},
		{"meal_items", "serving_unit"},
		{"meal_items", "base_amount"},
		{"meal_items", "base_unit"},
		{"recipes", "total_calories"},
		{"recipes", "total_fat"},
	} {
		ok, err := columnExists(ctx, db, tc.table, tc.column)
		require.NoError(t, err)
		assert.True(t, ok, "%s.%s", tc.table, tc.column)
	}
}

func TestMigrateTwiceIsIdempotent(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	_, err := migrate(ctx, db, migrations, zap.NewNop())
	require.NoError(t, err)
	tables := tableNames(t, db)
	cols := columnCount(t, db, "meal_items")

	v, err := migrate(ctx, db, migrations, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, LatestSchemaVersion(), v)
	assert.Equal(t, tables, tableNames(t, db))
	assert.Equal(t, cols, columnCount(t, db, "meal_items"))
}

func TestMigrateResumesOverPartiallyAppliedStep(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	v, err := migrate(ctx, db, migrations[:2], zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 2, v)

	// A build without transactional steps could leave step 3 half done.
	_, err = db.Exec("ALTER TABLE meal_items ADD COLUMN serving_unit TEXT")
	require.NoError(t, err)
	_, err = db.Exec(createRecipeSteps)
	require.NoError(t, err)

	v, err = migrate(ctx, db, migrations, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.Equal(t, 13, columnCount(t, db, "meal_items"))
}

func TestMigrateUpgradesVersionOneDatabase(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	_, err := migrate(ctx, db, migrations[:1], zap.NewNop())
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO meal_plans (id, date, created_at, updated_at) VALUES ('p', '2026-03-02', 'x', 'x')`)
	require.NoError(t, err)

	v, err := migrate(ctx, db, migrations, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	var profileID sql.NullString
	require.NoError(t, db.QueryRow("SELECT profile_id FROM meal_plans WHERE id = 'p'").Scan(&profileID))
	assert.False(t, profileID.Valid, "existing rows survive with a NULL profile")
}

func TestMigrateFailingStepAborts(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	steps := []migration{
		migrations[0],
		{Version: 2, Name: "broken", Up: func(ctx context.Context, tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "CREATE TABLE half_done (id TEXT)"); err != nil {
				return err
			}
			return boom
		}},
		migrations[2],
	}

	v, err := migrate(ctx, db, steps, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, storedVersion(t, db))

	ok, err := tableExists(ctx, db, "half_done")
	require.NoError(t, err)
	assert.False(t, ok, "the failed step is rolled back")
}

func TestMigrateSchemaAhead(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	_, err := db.Exec(createAppMeta)
	require.NoError(t, err)
	require.NoError(t, setMetaValue(ctx, db, schemaVersionKey, "99"))

	_, err = migrate(ctx, db, migrations, zap.NewNop())
	assert.ErrorIs(t, err, types.ErrSchemaAhead)
	assert.Equal(t, 99, storedVersion(t, db), "never downgrades")

	ok, err := tableExists(ctx, db, "profiles")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMigrateMissingStep(t *testing.T) {
	db := openRawDB(t)
	steps := []migration{migrations[0], migrations[2]}

	v, err := migrate(context.Background(), db, steps, zap.NewNop())
	assert.ErrorIs(t, err, types.ErrMissingMigration)
	assert.Equal(t, 1, v)
}

func TestMigrateUnparsableVersionStartsOver(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()
	_, err := migrate(ctx, db, migrations, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, setMetaValue(ctx, db, schemaVersionKey, "six"))

	v, err := migrate(ctx, db, migrations, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 6, v)
}

func TestColumnAndTableExists(t *testing.T) {
	db := openRawDB(t)
	ctx := context.Background()

	ok, err := tableExists(ctx, db, "things")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = db.Exec("CREATE TABLE things (id TEXT PRIMARY KEY, label TEXT DEFAULT 'x')")
	require.NoError(t, err)

	ok, err = tableExists(ctx, db, "things")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = columnExists(ctx, db, "things", "label")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = columnExists(ctx, db, "things", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
