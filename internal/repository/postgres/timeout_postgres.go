package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// TimeoutPostgres is a PostgreSQL implementation of repository.TimeoutRepository.
type TimeoutPostgres struct {
	db *sql.DB
}

// NewTimeoutPostgres creates a new TimeoutPostgres repository.
func NewTimeoutPostgres(db *sql.DB) *TimeoutPostgres {
	return &TimeoutPostgres{db: db}
}

var _ repository.TimeoutRepository = (*TimeoutPostgres)(nil)

const timeoutColumns = `id, child_id, parent_id, reason, starts_at, ends_at, lifted_at, created_at`

func scanTimeout(s scanner) (*model.Timeout, error) {
	var (
		t      model.Timeout
		lifted sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.ChildID, &t.ParentID, &t.Reason, &t.StartsAt, &t.EndsAt, &lifted, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.LiftedAt = timePtr(lifted)
	return &t, nil
}

func (r *TimeoutPostgres) list(ctx context.Context, q string, args ...any) ([]model.Timeout, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Timeout, 0)
	for rows.Next() {
		t, err := scanTimeout(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Create inserts a timeout and returns the stored record.
func (r *TimeoutPostgres) Create(ctx context.Context, t *model.Timeout) (*model.Timeout, error) {
	const q = `
		INSERT INTO timeouts (id, child_id, parent_id, reason, starts_at, ends_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + timeoutColumns
	return scanTimeout(r.db.QueryRowContext(ctx, q,
		t.ID, t.ChildID, t.ParentID, t.Reason, t.StartsAt, t.EndsAt, t.CreatedAt))
}

// FindByID fetches a timeout by ID.
func (r *TimeoutPostgres) FindByID(ctx context.Context, id string) (*model.Timeout, error) {
	const q = `SELECT ` + timeoutColumns + ` FROM timeouts WHERE id = $1`
	return scanTimeout(r.db.QueryRowContext(ctx, q, id))
}

// ListCurrent returns timeouts of the child that are neither lifted nor over.
func (r *TimeoutPostgres) ListCurrent(ctx context.Context, childID string, now time.Time) ([]model.Timeout, error) {
	const q = `
		SELECT ` + timeoutColumns + `
		FROM timeouts
		WHERE child_id = $1 AND lifted_at IS NULL AND ends_at > $2
		ORDER BY starts_at
	`
	return r.list(ctx, q, childID, now)
}

// ListByChild returns the timeout history of a child, newest first.
func (r *TimeoutPostgres) ListByChild(ctx context.Context, childID string) ([]model.Timeout, error) {
	const q = `
		SELECT ` + timeoutColumns + `
		FROM timeouts
		WHERE child_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, q, childID)
}

// Lift ends a timeout early.
func (r *TimeoutPostgres) Lift(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE timeouts SET lifted_at = $2 WHERE id = $1 AND lifted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id, at)
	return expectOne(res, err)
}
