package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/cesargomez89/ingestq/internal/domain"
)

const sourceColumns = `id, source_name, source_domain, description, maxcount_per_day,
	is_active_status, created_by, created_at, updated_by, updated_at`

func (db *DB) CreateSource(ctx context.Context, s *domain.Source) error {
	query := `INSERT INTO sources (
		source_name, source_domain, description, maxcount_per_day,
		is_active_status, created_by, created_at, updated_by, updated_at
	) VALUES (
		:source_name, :source_domain, :description, :maxcount_per_day,
		:is_active_status, :created_by, :created_at, :updated_by, :updated_at
	) RETURNING id`

	id, err := db.namedInsert(ctx, query, s)
	if err != nil {
		return fmt.Errorf("failed to create source: %w", err)
	}
	s.ID = id
	return nil
}

func (db *DB) GetSource(ctx context.Context, id int64) (*domain.Source, error) {
	s := &domain.Source{}
	if err := db.get(ctx, s, `SELECT `+sourceColumns+` FROM sources WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (db *DB) ListSources(ctx context.Context, search string, limit int) ([]*domain.Source, error) {
	query := `SELECT ` + sourceColumns + ` FROM sources`
	var args []interface{}
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query += ` WHERE LOWER(source_name) LIKE ? OR LOWER(source_domain) LIKE ?`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit)

	var sources []*domain.Source
	err := db.selectAll(ctx, &sources, query, args...)
	return sources, err
}

func (db *DB) UpdateSource(ctx context.Context, s *domain.Source) error {
	query := `UPDATE sources SET source_name = :source_name, source_domain = :source_domain,
		description = :description, maxcount_per_day = :maxcount_per_day,
		is_active_status = :is_active_status, updated_by = :updated_by, updated_at = :updated_at
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, db, query, s)
	if err != nil {
		return fmt.Errorf("failed to update source %d: %w", s.ID, err)
	}
	return requireRow(res)
}

// RenameSourceOnConfigs keeps the denormalized source name of configurations in step.
func (db *DB) RenameSourceOnConfigs(ctx context.Context, sourceID int64, name string) error {
	_, err := db.exec(ctx, `UPDATE queue_configs SET source_name = ? WHERE source_id = ?`, name, sourceID)
	if err != nil {
		return fmt.Errorf("failed to rename source %d on configs: %w", sourceID, err)
	}
	return nil
}
