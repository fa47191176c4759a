package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/ingestq/internal/constants"
	"github.com/cesargomez89/ingestq/internal/domain"
	"github.com/cesargomez89/ingestq/internal/priority"
)

const configColumns = `id, script_id, source_id, source_name, query_string, queue_type, description,
	frequency, cron_logic, start_date, end_date, maxcount_per_day, priority,
	live_process_status, is_priority_updated, is_active_status, input_count, target_days,
	error_string, error_desc, created_by, created_at, updated_by, updated_at`

func (db *DB) CreateConfig(ctx context.Context, c *domain.QueueConfiguration) error {
	query := `INSERT INTO queue_configs (
		script_id, source_id, source_name, query_string, queue_type, description,
		frequency, cron_logic, start_date, end_date, maxcount_per_day, priority,
		live_process_status, is_priority_updated, is_active_status, input_count, target_days,
		error_string, error_desc, created_by, created_at, updated_by, updated_at
	) VALUES (
		:script_id, :source_id, :source_name, :query_string, :queue_type, :description,
		:frequency, :cron_logic, :start_date, :end_date, :maxcount_per_day, :priority,
		:live_process_status, :is_priority_updated, :is_active_status, :input_count, :target_days,
		:error_string, :error_desc, :created_by, :created_at, :updated_by, :updated_at
	) RETURNING id`

	id, err := db.namedInsert(ctx, query, c)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	c.ID = id
	return nil
}

func (db *DB) GetConfig(ctx context.Context, id int64) (*domain.QueueConfiguration, error) {
	query := `SELECT ` + configColumns + ` FROM queue_configs WHERE id = ?`

	c := &domain.QueueConfiguration{}
	if err := db.get(ctx, c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListConfigs returns configurations matching search on query text, source
// name or description, ordered by priority with unassigned ones last.
func (db *DB) ListConfigs(ctx context.Context, search string, limit int) ([]*domain.QueueConfiguration, error) {
	query := `SELECT ` + configColumns + ` FROM queue_configs`
	var args []interface{}
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query += ` WHERE LOWER(query_string) LIKE ? OR LOWER(source_name) LIKE ? OR LOWER(description) LIKE ?`
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY CASE WHEN priority = 0 THEN 1 ELSE 0 END, priority ASC, id ASC LIMIT ?`
	args = append(args, limit)

	var configs []*domain.QueueConfiguration
	err := db.selectAll(ctx, &configs, query, args...)
	return configs, err
}

// ListAllConfigs returns every configuration, active or not, ordered by id.
func (db *DB) ListAllConfigs(ctx context.Context) ([]*domain.QueueConfiguration, error) {
	query := `SELECT ` + configColumns + ` FROM queue_configs ORDER BY id ASC`

	var configs []*domain.QueueConfiguration
	err := db.selectAll(ctx, &configs, query)
	return configs, err
}

// ListDispatchable returns the active configurations the fetch worker may run,
// highest priority (lowest number) first.
func (db *DB) ListDispatchable(ctx context.Context) ([]*domain.QueueConfiguration, error) {
	query := `SELECT ` + configColumns + ` FROM queue_configs
		WHERE is_active_status = ? AND live_process_status IN (?, ?) AND priority > 0
		ORDER BY priority ASC`

	var configs []*domain.QueueConfiguration
	err := db.selectAll(ctx, &configs, query,
		domain.FlagYes, domain.LiveStatusProcessing, domain.LiveStatusError)
	return configs, err
}

// UpdateConfig writes every editable column of c.
func (db *DB) UpdateConfig(ctx context.Context, c *domain.QueueConfiguration) error {
	query := `UPDATE queue_configs SET
		script_id = :script_id, source_id = :source_id, source_name = :source_name,
		query_string = :query_string, queue_type = :queue_type, description = :description,
		frequency = :frequency, cron_logic = :cron_logic, start_date = :start_date, end_date = :end_date,
		maxcount_per_day = :maxcount_per_day, priority = :priority,
		live_process_status = :live_process_status, is_priority_updated = :is_priority_updated,
		is_active_status = :is_active_status, input_count = :input_count, target_days = :target_days,
		error_string = :error_string, error_desc = :error_desc,
		updated_by = :updated_by, updated_at = :updated_at
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, db, query, c)
	if err != nil {
		return fmt.Errorf("failed to update config %d: %w", c.ID, err)
	}
	return requireRow(res)
}

// DeleteConfig removes a configuration. Its priority log rows are kept.
func (db *DB) DeleteConfig(ctx context.Context, id int64) error {
	res, err := db.exec(ctx, `DELETE FROM queue_configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete config %d: %w", id, err)
	}
	return requireRow(res)
}

// DeactivateDuplicate marks pair.DuplicateID inactive and records which
// configuration it repeats.
func (db *DB) DeactivateDuplicate(ctx context.Context, pair priority.DuplicatePair, actor string, at time.Time) error {
	query := `UPDATE queue_configs SET is_active_status = ?, error_string = ?, error_desc = ?,
		updated_by = ?, updated_at = ? WHERE id = ?`

	_, err := db.exec(ctx, query,
		domain.FlagNo,
		constants.DuplicateErrorString,
		fmt.Sprintf(constants.DuplicateErrorDesc, pair.KeptID),
		actor, at, pair.DuplicateID)
	if err != nil {
		return fmt.Errorf("failed to deactivate duplicate config %d: %w", pair.DuplicateID, err)
	}
	return nil
}

// ApplyReconciliation persists a renumbering. For every change it updates the
// configuration, appends a priority log row and carries the new priority to
// the payloads and queue instances built from that configuration.
// It must run inside RunInTx so a failure leaves nothing behind.
func (db *DB) ApplyReconciliation(ctx context.Context, changes []priority.Change, actor string, at time.Time) error {
	if !db.inTx {
		return fmt.Errorf("apply reconciliation requires a transaction")
	}

	for _, ch := range changes {
		_, err := db.exec(ctx, `UPDATE queue_configs SET priority = ?, live_process_status = ?,
			is_priority_updated = ?, updated_by = ?, updated_at = ? WHERE id = ?`,
			ch.NewPriority, ch.NewStatus, ch.NewUpdated, actor, at, ch.ConfigID)
		if err != nil {
			return fmt.Errorf("failed to update priority of config %d: %w", ch.ConfigID, err)
		}

		if err := db.InsertPriorityLog(ctx, &domain.PriorityLogEntry{
			ConfigID:    ch.ConfigID,
			OldPriority: ch.OldPriority,
			NewPriority: ch.NewPriority,
			UpdatedBy:   actor,
			UpdatedAt:   at,
		}); err != nil {
			return err
		}

		if err := db.UpdatePayloadPriority(ctx, ch.ConfigID, ch.NewPriority, at); err != nil {
			return err
		}
		if err := db.UpdateQueueInstancePriority(ctx, ch.ConfigID, ch.NewPriority, at); err != nil {
			return err
		}
	}
	return nil
}

// PromotePending moves active pending configurations that already hold a
// priority to Processing. It returns how many rows moved.
func (db *DB) PromotePending(ctx context.Context, actor string, at time.Time) (int64, error) {
	res, err := db.exec(ctx, `UPDATE queue_configs SET live_process_status = ?, updated_by = ?, updated_at = ?
		WHERE is_active_status = ? AND live_process_status = ? AND priority > 0`,
		domain.LiveStatusProcessing, actor, at, domain.FlagYes, domain.LiveStatusAssignPriorityPending)
	if err != nil {
		return 0, fmt.Errorf("failed to promote pending configs: %w", err)
	}
	return res.RowsAffected()
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
