package postgres

import (
	"context"
	"database/sql"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// ParentPostgres is a PostgreSQL implementation of repository.ParentRepository.
type ParentPostgres struct {
	db *sql.DB
}

// NewParentPostgres creates a new ParentPostgres repository.
func NewParentPostgres(db *sql.DB) *ParentPostgres {
	return &ParentPostgres{db: db}
}

var _ repository.ParentRepository = (*ParentPostgres)(nil)

const parentColumns = `id, email, name, password_hash, created_at`

func scanParent(s scanner) (*model.Parent, error) {
	var p model.Parent
	if err := s.Scan(&p.ID, &p.Email, &p.Name, &p.PasswordHash, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new parent row and returns the stored record.
func (r *ParentPostgres) Create(ctx context.Context, p *model.Parent) (*model.Parent, error) {
	const q = `
		INSERT INTO parents (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + parentColumns
	out, err := scanParent(r.db.QueryRowContext(ctx, q, p.ID, p.Email, p.Name, p.PasswordHash, p.CreatedAt))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a parent by ID.
func (r *ParentPostgres) FindByID(ctx context.Context, id string) (*model.Parent, error) {
	const q = `SELECT ` + parentColumns + ` FROM parents WHERE id = $1`
	return scanParent(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches a parent by email. Emails are stored lower-cased.
func (r *ParentPostgres) FindByEmail(ctx context.Context, email string) (*model.Parent, error) {
	const q = `SELECT ` + parentColumns + ` FROM parents WHERE email = $1`
	return scanParent(r.db.QueryRowContext(ctx, q, email))
}
