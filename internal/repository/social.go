package repository

import (
	"context"

	"hearth/internal/model"
)

// IdentityRepository persists login identities of the social application.
type IdentityRepository interface {
	// CreateWithProfile inserts an identity and its first profile atomically.
	// A taken email or handle yields ErrDuplicate.
	CreateWithProfile(ctx context.Context, i *model.Identity, p *model.Profile) (*model.Identity, *model.Profile, error)
	FindByID(ctx context.Context, id string) (*model.Identity, error)
	FindByEmail(ctx context.Context, email string) (*model.Identity, error)
	UpdateTier(ctx context.Context, id string, tier model.Tier) error
}

// ProfileRepository persists public profiles.
type ProfileRepository interface {
	// CreateWithinLimit inserts p unless its identity already owns limit profiles (ErrLimitReached).
	// The identity row is locked for the duration so concurrent creates cannot overshoot.
	CreateWithinLimit(ctx context.Context, p *model.Profile, limit int) (*model.Profile, error)
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	FindByHandle(ctx context.Context, handle string) (*model.Profile, error)
	// ListByIdentity returns the identity's profiles, oldest first. The first one is the default.
	ListByIdentity(ctx context.Context, identityID string) ([]model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	UpdateAvatar(ctx context.Context, id, key string) error
	// DeleteUnlessLast removes the profile unless it is the identity's only one (ErrLastProfile).
	DeleteUnlessLast(ctx context.Context, id, identityID string) error
}

// PostRepository persists posts.
type PostRepository interface {
	Create(ctx context.Context, p *model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	ListByProfile(ctx context.Context, profileID string, pq PageQuery) (*PageResult[model.Post], error)
	// Feed returns posts of the profiles followerID follows, newest first.
	Feed(ctx context.Context, followerID string, pq PageQuery) (*PageResult[model.Post], error)
	Delete(ctx context.Context, id string) error
}

// AlbumRepository persists albums and their photos.
type AlbumRepository interface {
	Create(ctx context.Context, a *model.Album) (*model.Album, error)
	FindByID(ctx context.Context, id string) (*model.Album, error)
	ListByProfile(ctx context.Context, profileID string) ([]model.Album, error)
	AddPhoto(ctx context.Context, p *model.AlbumPhoto) (*model.AlbumPhoto, error)
	ListPhotos(ctx context.Context, albumID string) ([]model.AlbumPhoto, error)
}

// FollowRepository persists follow edges between profiles.
type FollowRepository interface {
	// Follow is idempotent.
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	Counts(ctx context.Context, profileID string) (followers int, following int, err error)
}
