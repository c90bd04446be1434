package postgres

import (
	"context"
	"database/sql"

	"hearth/internal/database"
	"hearth/internal/model"
	"hearth/internal/repository"
)

// ProfilePostgres is a PostgreSQL implementation of repository.ProfileRepository.
type ProfilePostgres struct {
	db *sql.DB
}

// NewProfilePostgres creates a new ProfilePostgres repository.
func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

const profileColumns = `id, identity_id, handle, display_name, bio, avatar_key, created_at`

func scanProfile(s scanner) (*model.Profile, error) {
	var p model.Profile
	if err := s.Scan(&p.ID, &p.IdentityID, &p.Handle, &p.DisplayName, &p.Bio, &p.AvatarKey, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func insertProfile(ctx context.Context, tx *sql.Tx, p *model.Profile) (*model.Profile, error) {
	const q = `
		INSERT INTO profiles (id, identity_id, handle, display_name, bio, avatar_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + profileColumns
	return scanProfile(tx.QueryRowContext(ctx, q,
		p.ID, p.IdentityID, p.Handle, p.DisplayName, p.Bio, p.AvatarKey, p.CreatedAt))
}

// lockIdentity takes a row lock on the identity and returns how many profiles it owns.
func lockIdentity(ctx context.Context, tx *sql.Tx, identityID string) (int, error) {
	var id string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM identities WHERE id = $1 FOR UPDATE`, identityID).Scan(&id); err != nil {
		return 0, err
	}
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE identity_id = $1`, identityID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateWithinLimit inserts a profile while the identity is below limit.
func (r *ProfilePostgres) CreateWithinLimit(ctx context.Context, p *model.Profile, limit int) (*model.Profile, error) {
	var out *model.Profile
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		n, err := lockIdentity(ctx, tx, p.IdentityID)
		if err != nil {
			return err
		}
		if n >= limit {
			return repository.ErrLimitReached
		}
		out, err = insertProfile(ctx, tx, p)
		return translate(err)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a profile by ID.
func (r *ProfilePostgres) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, id))
}

// FindByHandle fetches a profile by its public handle.
func (r *ProfilePostgres) FindByHandle(ctx context.Context, handle string) (*model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE handle = $1`
	return scanProfile(r.db.QueryRowContext(ctx, q, handle))
}

// ListByIdentity returns an identity's profiles, oldest first.
func (r *ProfilePostgres) ListByIdentity(ctx context.Context, identityID string) ([]model.Profile, error) {
	const q = `SELECT ` + profileColumns + ` FROM profiles WHERE identity_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Update writes the editable fields of a profile.
func (r *ProfilePostgres) Update(ctx context.Context, p *model.Profile) error {
	const q = `UPDATE profiles SET display_name = $2, bio = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.DisplayName, p.Bio)
	if err := expectOne(res, err); err != nil {
		if err == repository.ErrStale {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

// UpdateAvatar sets the object key of a profile's avatar.
func (r *ProfilePostgres) UpdateAvatar(ctx context.Context, id, key string) error {
	const q = `UPDATE profiles SET avatar_key = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, key)
	if err := expectOne(res, err); err != nil {
		if err == repository.ErrStale {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

// DeleteUnlessLast removes a profile as long as its identity keeps at least one.
func (r *ProfilePostgres) DeleteUnlessLast(ctx context.Context, id, identityID string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		n, err := lockIdentity(ctx, tx, identityID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return repository.ErrLastProfile
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1 AND identity_id = $2`, id, identityID)
		if err := expectOne(res, err); err != nil {
			if err == repository.ErrStale {
				return sql.ErrNoRows
			}
			return err
		}
		return nil
	})
}
