package postgres

import (
	"context"
	"database/sql"

	"hearth/internal/repository"
)

// FollowPostgres is a PostgreSQL implementation of repository.FollowRepository.
type FollowPostgres struct {
	db *sql.DB
}

// NewFollowPostgres creates a new FollowPostgres repository.
func NewFollowPostgres(db *sql.DB) *FollowPostgres {
	return &FollowPostgres{db: db}
}

var _ repository.FollowRepository = (*FollowPostgres)(nil)

// Follow records a follow edge; following twice is a no-op.
func (r *FollowPostgres) Follow(ctx context.Context, followerID, followeeID string) error {
	const q = `
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, followerID, followeeID)
	return err
}

// Unfollow removes a follow edge if present.
func (r *FollowPostgres) Unfollow(ctx context.Context, followerID, followeeID string) error {
	const q = `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	_, err := r.db.ExecContext(ctx, q, followerID, followeeID)
	return err
}

// Counts returns how many profiles follow profileID and how many it follows.
func (r *FollowPostgres) Counts(ctx context.Context, profileID string) (int, int, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)
	`
	var followers, following int
	if err := r.db.QueryRowContext(ctx, q, profileID).Scan(&followers, &following); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
