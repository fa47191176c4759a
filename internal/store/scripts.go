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

const scriptColumns = `id, source_id, script_name, source_code_path, version, description,
	dependency_description, is_active_status, created_by, created_at, updated_by, updated_at`

func (db *DB) CreateScript(ctx context.Context, s *domain.Script) error {
	query := `INSERT INTO scripts (
		source_id, script_name, source_code_path, version, description,
		dependency_description, is_active_status, created_by, created_at, updated_by, updated_at
	) VALUES (
		:source_id, :script_name, :source_code_path, :version, :description,
		:dependency_description, :is_active_status, :created_by, :created_at, :updated_by, :updated_at
	) RETURNING id`

	id, err := db.namedInsert(ctx, query, s)
	if err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}
	s.ID = id
	return nil
}

func (db *DB) GetScript(ctx context.Context, id int64) (*domain.Script, error) {
	s := &domain.Script{}
	if err := db.get(ctx, s, `SELECT `+scriptColumns+` FROM scripts WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (db *DB) ListScripts(ctx context.Context, search string, limit int) ([]*domain.Script, error) {
	query := `SELECT ` + scriptColumns + ` FROM scripts`
	var args []interface{}
	if search = strings.TrimSpace(search); search != "" {
		pattern := likePattern(strings.ToLower(search))
		query += ` WHERE LOWER(script_name) LIKE ? OR LOWER(description) LIKE ?`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit)

	var scripts []*domain.Script
	err := db.selectAll(ctx, &scripts, query, args...)
	return scripts, err
}

func (db *DB) UpdateScript(ctx context.Context, s *domain.Script) error {
	query := `UPDATE scripts SET source_id = :source_id, script_name = :script_name,
		source_code_path = :source_code_path, version = :version, description = :description,
		dependency_description = :dependency_description, is_active_status = :is_active_status,
		updated_by = :updated_by, updated_at = :updated_at
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, db, query, s)
	if err != nil {
		return fmt.Errorf("failed to update script %d: %w", s.ID, err)
	}
	return requireRow(res)
}
