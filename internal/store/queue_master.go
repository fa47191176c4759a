package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cesargomez89/ingestq/internal/domain"
)

func (db *DB) CreateQueueInstance(ctx context.Context, q *domain.QueueInstance) error {
	query := `INSERT INTO queue_master (
		source_id, source_name, script_id, config_id, queue_name, queue_type, priority, queue_date,
		process_status, error_details, is_queued, is_aggregated, is_parsed, is_dropped,
		retry_count, created_by, updated_at
	) VALUES (
		:source_id, :source_name, :script_id, :config_id, :queue_name, :queue_type, :priority, :queue_date,
		:process_status, :error_details, :is_queued, :is_aggregated, :is_parsed, :is_dropped,
		:retry_count, :created_by, :updated_at
	) RETURNING id`

	id, err := db.namedInsert(ctx, query, q)
	if err != nil {
		return fmt.Errorf("failed to create queue instance: %w", err)
	}
	q.ID = id
	return nil
}

// ListQueueInstances returns queue instances by priority. configID 0 lists all.
func (db *DB) ListQueueInstances(ctx context.Context, configID int64, limit int) ([]*domain.QueueInstance, error) {
	query := `SELECT id, source_id, source_name, script_id, config_id, queue_name, queue_type, priority,
		queue_date, process_status, error_details, is_queued, is_aggregated, is_parsed, is_dropped,
		retry_count, created_by, updated_at FROM queue_master`
	var args []interface{}
	if configID != 0 {
		query += ` WHERE config_id = ?`
		args = append(args, configID)
	}
	query += ` ORDER BY priority ASC, id DESC LIMIT ?`
	args = append(args, limit)

	var instances []*domain.QueueInstance
	err := db.selectAll(ctx, &instances, query, args...)
	return instances, err
}

// UpdateQueueInstancePriority carries a configuration's priority to its queue instances.
func (db *DB) UpdateQueueInstancePriority(ctx context.Context, configID int64, priority int, at time.Time) error {
	_, err := db.exec(ctx, `UPDATE queue_master SET priority = ?, updated_at = ? WHERE config_id = ?`,
		priority, at, configID)
	if err != nil {
		return fmt.Errorf("failed to update queue priority for config %d: %w", configID, err)
	}
	return nil
}
