package postgres

import (
	"context"
	"database/sql"
	"time"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// FriendshipPostgres is a PostgreSQL implementation of repository.FriendshipRepository.
type FriendshipPostgres struct {
	db *sql.DB
}

// NewFriendshipPostgres creates a new FriendshipPostgres repository.
func NewFriendshipPostgres(db *sql.DB) *FriendshipPostgres {
	return &FriendshipPostgres{db: db}
}

var _ repository.FriendshipRepository = (*FriendshipPostgres)(nil)

const friendshipColumns = `f.id, f.requester_id, f.addressee_id, f.status, f.created_at, f.decided_at`

func scanFriendship(s scanner) (*model.Friendship, error) {
	var (
		f       model.Friendship
		decided sql.NullTime
	)
	if err := s.Scan(&f.ID, &f.RequesterID, &f.AddresseeID, &f.Status, &f.CreatedAt, &decided); err != nil {
		return nil, err
	}
	f.DecidedAt = timePtr(decided)
	return &f, nil
}

func (r *FriendshipPostgres) list(ctx context.Context, q string, args ...any) ([]model.Friendship, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Friendship, 0)
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	return items, rows.Err()
}

// Create inserts a friend request.
func (r *FriendshipPostgres) Create(ctx context.Context, f *model.Friendship) (*model.Friendship, error) {
	const q = `
		INSERT INTO friendships AS f (id, requester_id, addressee_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + friendshipColumns
	out, err := scanFriendship(r.db.QueryRowContext(ctx, q, f.ID, f.RequesterID, f.AddresseeID, f.Status, f.CreatedAt))
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// FindByID fetches a friendship by ID.
func (r *FriendshipPostgres) FindByID(ctx context.Context, id string) (*model.Friendship, error) {
	const q = `SELECT ` + friendshipColumns + ` FROM friendships f WHERE f.id = $1`
	return scanFriendship(r.db.QueryRowContext(ctx, q, id))
}

// FindBetween fetches the friendship of two children in either direction.
func (r *FriendshipPostgres) FindBetween(ctx context.Context, a, b string) (*model.Friendship, error) {
	const q = `
		SELECT ` + friendshipColumns + `
		FROM friendships f
		WHERE (f.requester_id = $1 AND f.addressee_id = $2)
		   OR (f.requester_id = $2 AND f.addressee_id = $1)
	`
	return scanFriendship(r.db.QueryRowContext(ctx, q, a, b))
}

// ListAccepted returns accepted friendships of a child.
func (r *FriendshipPostgres) ListAccepted(ctx context.Context, childID string) ([]model.Friendship, error) {
	const q = `
		SELECT ` + friendshipColumns + `
		FROM friendships f
		WHERE (f.requester_id = $1 OR f.addressee_id = $1) AND f.status = 'accepted'
		ORDER BY f.decided_at, f.id
	`
	return r.list(ctx, q, childID)
}

// ListPendingForParent returns pending requests addressed to children of a parent.
func (r *FriendshipPostgres) ListPendingForParent(ctx context.Context, parentID string) ([]model.Friendship, error) {
	const q = `
		SELECT ` + friendshipColumns + `
		FROM friendships f
		JOIN children c ON c.id = f.addressee_id
		WHERE c.parent_id = $1 AND f.status = 'pending'
		ORDER BY f.created_at, f.id
	`
	return r.list(ctx, q, parentID)
}

// Decide accepts or declines a pending request.
func (r *FriendshipPostgres) Decide(ctx context.Context, id string, status model.FriendshipStatus, at time.Time) error {
	const q = `UPDATE friendships SET status = $2, decided_at = $3 WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, q, id, status, at)
	return expectOne(res, err)
}

// Reopen lets a declined pair ask again, possibly from the other side.
func (r *FriendshipPostgres) Reopen(ctx context.Context, id, requesterID, addresseeID string, at time.Time) (*model.Friendship, error) {
	const q = `
		UPDATE friendships AS f
		SET requester_id = $2, addressee_id = $3, status = 'pending', created_at = $4, decided_at = NULL
		WHERE f.id = $1 AND f.status = 'declined'
		RETURNING ` + friendshipColumns
	out, err := scanFriendship(r.db.QueryRowContext(ctx, q, id, requesterID, addresseeID, at))
	if err == sql.ErrNoRows {
		return nil, repository.ErrStale
	}
	return out, err
}
