package store

import (
	"context"
	"fmt"

	"github.com/cesargomez89/ingestq/internal/domain"
)

// InsertPriorityLog appends one audit row. Entries are never updated or deleted.
func (db *DB) InsertPriorityLog(ctx context.Context, e *domain.PriorityLogEntry) error {
	query := `INSERT INTO priority_log (config_id, old_priority, new_priority, updated_by, updated_at)
		VALUES (:config_id, :old_priority, :new_priority, :updated_by, :updated_at) RETURNING id`

	e.UpdatedAt = e.UpdatedAt.UTC()
	id, err := db.namedInsert(ctx, query, e)
	if err != nil {
		return fmt.Errorf("failed to log priority change for config %d: %w", e.ConfigID, err)
	}
	e.ID = id
	return nil
}

// ListPriorityLog returns the newest entries first. configID 0 lists every configuration.
func (db *DB) ListPriorityLog(ctx context.Context, configID int64, limit int) ([]*domain.PriorityLogEntry, error) {
	query := `SELECT id, config_id, old_priority, new_priority, updated_by, updated_at FROM priority_log`
	var args []interface{}
	if configID != 0 {
		query += ` WHERE config_id = ?`
		args = append(args, configID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	var entries []*domain.PriorityLogEntry
	err := db.selectAll(ctx, &entries, query, args...)
	return entries, err
}
