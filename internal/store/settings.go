package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.get(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.exec(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	return err
}

func (db *DB) DeleteSetting(ctx context.Context, key string) error {
	_, err := db.exec(ctx, "DELETE FROM settings WHERE key = ?", key)
	return err
}

const (
	SettingLastPassID      = "last_pass_id"
	SettingLastPassAt      = "last_pass_at"
	SettingLastPassTrigger = "last_pass_trigger"
	SettingLastPassChanges = "last_pass_changes"
)
