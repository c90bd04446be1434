package postgres

import (
	"context"
	"database/sql"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// PostPostgres is a PostgreSQL implementation of repository.PostRepository.
type PostPostgres struct {
	db *sql.DB
}

// NewPostPostgres creates a new PostPostgres repository.
func NewPostPostgres(db *sql.DB) *PostPostgres {
	return &PostPostgres{db: db}
}

var _ repository.PostRepository = (*PostPostgres)(nil)

const postColumns = `p.id, p.profile_id, pr.handle, p.body, p.media_key, p.created_at`

func scanPost(s scanner) (*model.Post, error) {
	var p model.Post
	if err := s.Scan(&p.ID, &p.ProfileID, &p.Handle, &p.Body, &p.MediaKey, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostPostgres) page(ctx context.Context, qCount, qList string, arg any, pq repository.PageQuery) (*repository.PageResult[model.Post], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, arg).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, qList, arg, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Post]{Items: items, Total: total}, nil
}

// Create inserts a post and returns it with the author's handle.
func (r *PostPostgres) Create(ctx context.Context, p *model.Post) (*model.Post, error) {
	const q = `
		WITH p AS (
			INSERT INTO posts (id, profile_id, body, media_key, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, profile_id, body, media_key, created_at
		)
		SELECT ` + postColumns + `
		FROM p JOIN profiles pr ON pr.id = p.profile_id
	`
	return scanPost(r.db.QueryRowContext(ctx, q, p.ID, p.ProfileID, p.Body, p.MediaKey, p.CreatedAt))
}

// FindByID fetches a post by ID.
func (r *PostPostgres) FindByID(ctx context.Context, id string) (*model.Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts p JOIN profiles pr ON pr.id = p.profile_id WHERE p.id = $1`
	return scanPost(r.db.QueryRowContext(ctx, q, id))
}

// ListByProfile returns a profile's posts, newest first.
func (r *PostPostgres) ListByProfile(ctx context.Context, profileID string, pq repository.PageQuery) (*repository.PageResult[model.Post], error) {
	const qCount = `SELECT COUNT(*) FROM posts WHERE profile_id = $1`
	const qList = `
		SELECT ` + postColumns + `
		FROM posts p JOIN profiles pr ON pr.id = p.profile_id
		WHERE p.profile_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.page(ctx, qCount, qList, profileID, pq)
}

// Feed returns posts authored by the profiles a follower follows, newest first.
func (r *PostPostgres) Feed(ctx context.Context, followerID string, pq repository.PageQuery) (*repository.PageResult[model.Post], error) {
	const qCount = `
		SELECT COUNT(*)
		FROM posts p JOIN follows f ON f.followee_id = p.profile_id
		WHERE f.follower_id = $1
	`
	const qList = `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN follows f ON f.followee_id = p.profile_id
		JOIN profiles pr ON pr.id = p.profile_id
		WHERE f.follower_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`
	return r.page(ctx, qCount, qList, followerID, pq)
}

// Delete removes a post by ID.
func (r *PostPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM posts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err := expectOne(res, err); err != nil {
		if err == repository.ErrStale {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}
