package postgres

import (
	"context"
	"database/sql"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// ChildPostgres is a PostgreSQL implementation of repository.ChildRepository.
type ChildPostgres struct {
	db *sql.DB
}

// NewChildPostgres creates a new ChildPostgres repository.
func NewChildPostgres(db *sql.DB) *ChildPostgres {
	return &ChildPostgres{db: db}
}

var _ repository.ChildRepository = (*ChildPostgres)(nil)

const childColumns = `id, parent_id, username, display_name, password_hash, oversight_mode,
		quiet_enabled, quiet_start, quiet_end, timezone, created_at`

func scanChild(s scanner) (*model.Child, error) {
	var c model.Child
	if err := s.Scan(
		&c.ID,
		&c.ParentID,
		&c.Username,
		&c.DisplayName,
		&c.PasswordHash,
		&c.Oversight,
		&c.QuietHours.Enabled,
		&c.QuietHours.Start,
		&c.QuietHours.End,
		&c.QuietHours.Zone,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new child row and returns the stored record.
func (r *ChildPostgres) Create(ctx context.Context, c *model.Child) (*model.Child, error) {
	const q = `
		INSERT INTO children (id, parent_id, username, display_name, password_hash, oversight_mode,
			quiet_enabled, quiet_start, quiet_end, timezone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + childColumns
	out, err := scanChild(r.db.QueryRowContext(ctx, q,
		c.ID,
		c.ParentID,
		c.Username,
		c.DisplayName,
		c.PasswordHash,
		c.Oversight,
		c.QuietHours.Enabled,
		c.QuietHours.Start,
		c.QuietHours.End,
		c.QuietHours.Zone,
		c.CreatedAt,
	))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a child by ID.
func (r *ChildPostgres) FindByID(ctx context.Context, id string) (*model.Child, error) {
	const q = `SELECT ` + childColumns + ` FROM children WHERE id = $1`
	return scanChild(r.db.QueryRowContext(ctx, q, id))
}

// FindByUsername fetches a child by username.
func (r *ChildPostgres) FindByUsername(ctx context.Context, username string) (*model.Child, error) {
	const q = `SELECT ` + childColumns + ` FROM children WHERE username = $1`
	return scanChild(r.db.QueryRowContext(ctx, q, username))
}

// ListByParent returns the children of a parent ordered by creation.
func (r *ChildPostgres) ListByParent(ctx context.Context, parentID string) ([]model.Child, error) {
	const q = `SELECT ` + childColumns + ` FROM children WHERE parent_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Child, 0)
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// UpdateOversight sets the oversight mode of a child.
func (r *ChildPostgres) UpdateOversight(ctx context.Context, id string, mode model.OversightMode) error {
	const q = `UPDATE children SET oversight_mode = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, mode)
	if err := expectOne(res, err); err != nil {
		if err == repository.ErrStale {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

// UpdateQuietHours replaces the quiet hours of a child.
func (r *ChildPostgres) UpdateQuietHours(ctx context.Context, id string, qh model.QuietHours) error {
	const q = `
		UPDATE children
		SET quiet_enabled = $2, quiet_start = $3, quiet_end = $4, timezone = $5
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q, id, qh.Enabled, qh.Start, qh.End, qh.Zone)
	if err := expectOne(res, err); err != nil {
		if err == repository.ErrStale {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}
