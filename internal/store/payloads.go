package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cesargomez89/ingestq/internal/domain"
)

func (db *DB) CreatePayload(ctx context.Context, p *domain.Payload) error {
	query := `INSERT INTO payloads (
		source_id, script_id, config_id, payload_input, priority, queue_date,
		is_queued, is_aggregated, is_parsed, is_active_status, created_by, updated_at
	) VALUES (
		:source_id, :script_id, :config_id, :payload_input, :priority, :queue_date,
		:is_queued, :is_aggregated, :is_parsed, :is_active_status, :created_by, :updated_at
	) RETURNING id`

	id, err := db.namedInsert(ctx, query, p)
	if err != nil {
		return fmt.Errorf("failed to create payload: %w", err)
	}
	p.ID = id
	return nil
}

// ListPayloads returns the newest payloads first. configID 0 lists all.
func (db *DB) ListPayloads(ctx context.Context, configID int64, limit int) ([]*domain.Payload, error) {
	query := `SELECT id, source_id, script_id, config_id, payload_input, priority, queue_date,
		is_queued, is_aggregated, is_parsed, is_active_status, created_by, updated_at FROM payloads`
	var args []interface{}
	if configID != 0 {
		query += ` WHERE config_id = ?`
		args = append(args, configID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	var payloads []*domain.Payload
	err := db.selectAll(ctx, &payloads, query, args...)
	return payloads, err
}

// UpdatePayloadPriority carries a configuration's priority to its payloads.
func (db *DB) UpdatePayloadPriority(ctx context.Context, configID int64, priority int, at time.Time) error {
	_, err := db.exec(ctx, `UPDATE payloads SET priority = ?, updated_at = ? WHERE config_id = ?`,
		priority, at, configID)
	if err != nil {
		return fmt.Errorf("failed to update payload priority for config %d: %w", configID, err)
	}
	return nil
}
