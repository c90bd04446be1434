package postgres

import (
	"context"
	"database/sql"

	"hearth/internal/database"
	"hearth/internal/model"
	"hearth/internal/repository"
)

// IdentityPostgres is a PostgreSQL implementation of repository.IdentityRepository.
type IdentityPostgres struct {
	db *sql.DB
}

// NewIdentityPostgres creates a new IdentityPostgres repository.
func NewIdentityPostgres(db *sql.DB) *IdentityPostgres {
	return &IdentityPostgres{db: db}
}

var _ repository.IdentityRepository = (*IdentityPostgres)(nil)

const identityColumns = `id, email, password_hash, tier, created_at`

func scanIdentity(s scanner) (*model.Identity, error) {
	var i model.Identity
	if err := s.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.Tier, &i.CreatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

// CreateWithProfile inserts an identity and its first profile in one transaction.
func (r *IdentityPostgres) CreateWithProfile(ctx context.Context, i *model.Identity, p *model.Profile) (*model.Identity, *model.Profile, error) {
	var (
		outI *model.Identity
		outP *model.Profile
	)
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		const qi = `
			INSERT INTO identities (id, email, password_hash, tier, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + identityColumns
		var err error
		outI, err = scanIdentity(tx.QueryRowContext(ctx, qi, i.ID, i.Email, i.PasswordHash, i.Tier, i.CreatedAt))
		if err != nil {
			return translate(err)
		}
		first := *p
		first.IdentityID = outI.ID
		outP, err = insertProfile(ctx, tx, &first)
		return translate(err)
	})
	if err != nil {
		return nil, nil, err
	}
	return outI, outP, nil
}

// FindByID fetches an identity by ID.
func (r *IdentityPostgres) FindByID(ctx context.Context, id string) (*model.Identity, error) {
	const q = `SELECT ` + identityColumns + ` FROM identities WHERE id = $1`
	return scanIdentity(r.db.QueryRowContext(ctx, q, id))
}

// FindByEmail fetches an identity by email.
func (r *IdentityPostgres) FindByEmail(ctx context.Context, email string) (*model.Identity, error) {
	const q = `SELECT ` + identityColumns + ` FROM identities WHERE email = $1`
	return scanIdentity(r.db.QueryRowContext(ctx, q, email))
}

// UpdateTier sets the subscription tier of an identity.
func (r *IdentityPostgres) UpdateTier(ctx context.Context, id string, tier model.Tier) error {
	const q = `UPDATE identities SET tier = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, tier)
	if err := expectOne(res, err); err != nil {
		if err == repository.ErrStale {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}
