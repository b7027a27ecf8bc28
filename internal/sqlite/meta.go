package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// metaValue reads an app_meta value. ok is false when the key is absent.
func metaValue(ctx context.Context, q querier, key string) (value string, ok bool, err error) {
	err = q.QueryRowContext(ctx, "SELECT value FROM app_meta WHERE key = ? LIMIT 1", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, true, nil
}

func setMetaValue(ctx context.Context, q querier, key, value string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO app_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}

// SchemaVersion returns the stored schema version.
func (b *Backend) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := b.read(func(db *sql.DB) error {
		var err error
		v, err = schemaVersion(ctx, db, b.logger)
		return err
	})
	return v, err
}

// GetValue reads a key/value entry. ok is false when the key is absent.
func (b *Backend) GetValue(ctx context.Context, key string) (value string, ok bool, err error) {
	err = b.read(func(db *sql.DB) error {
		err := db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get value %s: %w", key, err)
		}
		ok = true
		return nil
	})
	return value, ok, err
}

// SetValue creates or replaces a key/value entry.
func (b *Backend) SetValue(ctx context.Context, key, value string) error {
	return b.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, b.timestamp(),
		)
		if err != nil {
			return fmt.Errorf("set value %s: %w", key, err)
		}
		return nil
	})
}

// DeleteValue removes a key/value entry. Deleting an absent key is not an error.
func (b *Backend) DeleteValue(ctx context.Context, key string) error {
	return b.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
			return fmt.Errorf("delete value %s: %w", key, err)
		}
		return nil
	})
}
