package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/internal/model"
	"hearth/internal/repository"
)

var (
	identityCols = []string{"id", "email", "password_hash", "tier", "created_at"}
	profileCols  = []string{"id", "identity_id", "handle", "display_name", "bio", "avatar_key", "created_at"}
	postCols     = []string{"id", "profile_id", "handle", "body", "media_key", "created_at"}
)

func TestIdentityPostgres_CreateWithProfile(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	ident := &model.Identity{ID: "i-1", Email: "a@example.com", PasswordHash: "hash", Tier: model.TierFree, CreatedAt: now}
	prof := &model.Profile{ID: "p-1", IdentityID: "i-1", Handle: "alice", DisplayName: "Alice", CreatedAt: now}

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewIdentityPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO identities").
			WithArgs("i-1", "a@example.com", "hash", model.TierFree, now).
			WillReturnRows(sqlmock.NewRows(identityCols).AddRow("i-1", "a@example.com", "hash", "free", now))
		mock.ExpectQuery("INSERT INTO profiles").
			WithArgs("p-1", "i-1", "alice", "Alice", "", "", now).
			WillReturnRows(sqlmock.NewRows(profileCols).AddRow("p-1", "i-1", "alice", "Alice", "", "", now))
		mock.ExpectCommit()

		i, p, err := repo.CreateWithProfile(ctx, ident, prof)
		require.NoError(t, err)
		assert.Equal(t, model.TierFree, i.Tier)
		assert.Equal(t, "alice", p.Handle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("profile is attached to the inserted identity", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewIdentityPostgres(db)
		orphan := &model.Profile{ID: "p-2", Handle: "bea", DisplayName: "Bea", CreatedAt: now}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO identities").
			WillReturnRows(sqlmock.NewRows(identityCols).AddRow("i-1", "a@example.com", "hash", "free", now))
		mock.ExpectQuery("INSERT INTO profiles").
			WithArgs("p-2", "i-1", "bea", "Bea", "", "", now).
			WillReturnRows(sqlmock.NewRows(profileCols).AddRow("p-2", "i-1", "bea", "Bea", "", "", now))
		mock.ExpectCommit()

		_, p, err := repo.CreateWithProfile(ctx, ident, orphan)
		require.NoError(t, err)
		assert.Equal(t, "i-1", p.IdentityID)
		assert.Empty(t, orphan.IdentityID, "caller's profile is not mutated")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("handle taken rolls back", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewIdentityPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO identities").
			WillReturnRows(sqlmock.NewRows(identityCols).AddRow("i-1", "a@example.com", "hash", "free", now))
		mock.ExpectQuery("INSERT INTO profiles").
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		_, _, err := repo.CreateWithProfile(ctx, ident, prof)
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIdentityPostgres_UpdateTier(t *testing.T) {
	db, mock := newMock(t)
	repo := NewIdentityPostgres(db)

	mock.ExpectExec("UPDATE identities SET tier").
		WithArgs("i-1", model.TierPro).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateTier(context.Background(), "i-1", model.TierPro))

	mock.ExpectExec("UPDATE identities SET tier").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateTier(context.Background(), "nope", model.TierPro), sql.ErrNoRows)
}

func TestProfilePostgres_CreateWithinLimit(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	prof := &model.Profile{ID: "p-2", IdentityID: "i-1", Handle: "alice_art", DisplayName: "Alice Art", CreatedAt: now}

	t.Run("below limit", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewProfilePostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM identities WHERE id = (.+) FOR UPDATE").
			WithArgs("i-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("i-1"))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM profiles WHERE identity_id").
			WithArgs("i-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("INSERT INTO profiles").
			WillReturnRows(sqlmock.NewRows(profileCols).AddRow("p-2", "i-1", "alice_art", "Alice Art", "", "", now))
		mock.ExpectCommit()

		out, err := repo.CreateWithinLimit(ctx, prof, 3)
		require.NoError(t, err)
		assert.Equal(t, "p-2", out.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("at limit", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewProfilePostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM identities WHERE id = (.+) FOR UPDATE").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("i-1"))
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM profiles WHERE identity_id").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := repo.CreateWithinLimit(ctx, prof, 1)
		assert.ErrorIs(t, err, repository.ErrLimitReached)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfilePostgres_DeleteUnlessLast(t *testing.T) {
	ctx := context.Background()

	t.Run("last profile", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewProfilePostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("i-1"))
		mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.DeleteUnlessLast(ctx, "p-1", "i-1"), repository.ErrLastProfile)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewProfilePostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("i-1"))
		mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectExec("DELETE FROM profiles WHERE id = (.+) AND identity_id").
			WithArgs("p-2", "i-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteUnlessLast(ctx, "p-2", "i-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostPostgres_Feed(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM posts p JOIN follows f").
		WithArgs("p-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM posts p JOIN follows f (.+) JOIN profiles pr").
		WithArgs("p-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(postCols).AddRow("post-1", "p-9", "bob", "hello", "", now))

	res, err := repo.Feed(context.Background(), "p-1", repository.PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "bob", res.Items[0].Handle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostPostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostPostgres(db)

	mock.ExpectExec("DELETE FROM posts WHERE id = ?").
		WithArgs("post-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), "post-1"))

	mock.ExpectExec("DELETE FROM posts WHERE id = ?").
		WithArgs("post-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), "post-1"), sql.ErrNoRows)
}

func TestFollowPostgres(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFollowPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("INSERT INTO follows (.+) ON CONFLICT").
		WithArgs("p-1", "p-2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.Follow(ctx, "p-1", "p-2"))

	mock.ExpectQuery("SELECT \\(SELECT COUNT").
		WithArgs("p-2").
		WillReturnRows(sqlmock.NewRows([]string{"followers", "following"}).AddRow(4, 7))
	followers, following, err := repo.Counts(ctx, "p-2")
	require.NoError(t, err)
	assert.Equal(t, 4, followers)
	assert.Equal(t, 7, following)

	mock.ExpectExec("DELETE FROM follows").
		WithArgs("p-1", "p-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Unfollow(ctx, "p-1", "p-2"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAlbumPostgres_ListPhotos(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAlbumPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM album_photos WHERE album_id").
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "album_id", "media_key", "caption", "created_at"}).
			AddRow("ph-1", "a-1", "albums/a-1/x.jpg", "beach", now))

	photos, err := repo.ListPhotos(context.Background(), "a-1")
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "beach", photos[0].Caption)
	assert.NoError(t, mock.ExpectationsWereMet())
}
