package postgres

import (
	"context"
	"database/sql"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// AlbumPostgres is a PostgreSQL implementation of repository.AlbumRepository.
type AlbumPostgres struct {
	db *sql.DB
}

// NewAlbumPostgres creates a new AlbumPostgres repository.
func NewAlbumPostgres(db *sql.DB) *AlbumPostgres {
	return &AlbumPostgres{db: db}
}

var _ repository.AlbumRepository = (*AlbumPostgres)(nil)

// Create inserts an album.
func (r *AlbumPostgres) Create(ctx context.Context, a *model.Album) (*model.Album, error) {
	const q = `
		INSERT INTO albums (id, profile_id, title, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, profile_id, title, created_at
	`
	var out model.Album
	if err := r.db.QueryRowContext(ctx, q, a.ID, a.ProfileID, a.Title, a.CreatedAt).
		Scan(&out.ID, &out.ProfileID, &out.Title, &out.CreatedAt); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches an album without its photos.
func (r *AlbumPostgres) FindByID(ctx context.Context, id string) (*model.Album, error) {
	const q = `SELECT id, profile_id, title, created_at FROM albums WHERE id = $1`
	var a model.Album
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.ProfileID, &a.Title, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByProfile returns a profile's albums, newest first.
func (r *AlbumPostgres) ListByProfile(ctx context.Context, profileID string) ([]model.Album, error) {
	const q = `
		SELECT id, profile_id, title, created_at
		FROM albums
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Album, 0)
	for rows.Next() {
		var a model.Album
		if err := rows.Scan(&a.ID, &a.ProfileID, &a.Title, &a.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// AddPhoto inserts a photo into an album.
func (r *AlbumPostgres) AddPhoto(ctx context.Context, p *model.AlbumPhoto) (*model.AlbumPhoto, error) {
	const q = `
		INSERT INTO album_photos (id, album_id, media_key, caption, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, album_id, media_key, caption, created_at
	`
	var out model.AlbumPhoto
	if err := r.db.QueryRowContext(ctx, q, p.ID, p.AlbumID, p.MediaKey, p.Caption, p.CreatedAt).
		Scan(&out.ID, &out.AlbumID, &out.MediaKey, &out.Caption, &out.CreatedAt); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// ListPhotos returns the photos of an album in upload order.
func (r *AlbumPostgres) ListPhotos(ctx context.Context, albumID string) ([]model.AlbumPhoto, error) {
	const q = `
		SELECT id, album_id, media_key, caption, created_at
		FROM album_photos
		WHERE album_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AlbumPhoto, 0)
	for rows.Next() {
		var p model.AlbumPhoto
		if err := rows.Scan(&p.ID, &p.AlbumID, &p.MediaKey, &p.Caption, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
