package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hearth/internal/model"
	"hearth/internal/repository"
	"hearth/internal/storage"
)

// AlbumInput is the payload of a new album.
type AlbumInput struct {
	Title string `json:"title" validate:"required,max=100"`
}

// AlbumService manages photo albums.
type AlbumService interface {
	Create(ctx context.Context, acting *model.Profile, in AlbumInput) (*model.Album, error)
	ListByHandle(ctx context.Context, handle string) ([]model.Album, error)
	// AddPhoto uploads a photo into an album owned by any profile of identityID.
	AddPhoto(ctx context.Context, identityID, albumID, caption string, media *Media) (*model.AlbumPhoto, error)
	// Get returns an album with its photos and signed URLs.
	Get(ctx context.Context, albumID string) (*model.Album, error)
}

type albumService struct {
	profiles repository.ProfileRepository
	albums   repository.AlbumRepository
	media    mediaStore
	now      func() time.Time
}

// NewAlbumService constructs an AlbumService.
func NewAlbumService(profiles repository.ProfileRepository, albums repository.AlbumRepository, store storage.Store, maxUploadBytes int64, log zerolog.Logger) AlbumService {
	log = log.With().Str("component", "album_service").Logger()
	return &albumService{
		profiles: profiles,
		albums:   albums,
		media:    mediaStore{store: store, maxBytes: maxUploadBytes, log: log},
		now:      time.Now,
	}
}

func (s *albumService) Create(ctx context.Context, acting *model.Profile, in AlbumInput) (*model.Album, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalidf("title must not be empty")
	}
	return s.albums.Create(ctx, &model.Album{
		ID:        uuid.NewString(),
		ProfileID: acting.ID,
		Title:     title,
		CreatedAt: s.now().UTC(),
	})
}

func (s *albumService) ListByHandle(ctx context.Context, handle string) ([]model.Album, error) {
	p, err := s.profiles.FindByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		return nil, notFound(err, "profile")
	}
	return s.albums.ListByProfile(ctx, p.ID)
}

func (s *albumService) AddPhoto(ctx context.Context, identityID, albumID, caption string, media *Media) (*model.AlbumPhoto, error) {
	a, err := s.albums.FindByID(ctx, albumID)
	if err != nil {
		return nil, notFound(err, "album")
	}
	owner, err := s.profiles.FindByID(ctx, a.ProfileID)
	if err != nil {
		return nil, notFound(err, "album")
	}
	if owner.IdentityID != identityID {
		return nil, fmt.Errorf("%w: album belongs to another account", ErrForbidden)
	}
	if media != nil && !strings.HasPrefix(media.ContentType, "image/") {
		return nil, fmt.Errorf("%w: albums hold images only", ErrUnsupportedMedia)
	}
	key, err := s.media.put(ctx, storage.KindAlbum, a.ID, media)
	if err != nil {
		return nil, err
	}
	photo, err := s.albums.AddPhoto(ctx, &model.AlbumPhoto{
		ID:        uuid.NewString(),
		AlbumID:   a.ID,
		MediaKey:  key,
		Caption:   strings.TrimSpace(caption),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.media.remove(ctx, key)
		return nil, fmt.Errorf("store photo: %w", err)
	}
	photo.URL = s.media.url(ctx, photo.MediaKey)
	return photo, nil
}

func (s *albumService) Get(ctx context.Context, albumID string) (*model.Album, error) {
	a, err := s.albums.FindByID(ctx, albumID)
	if err != nil {
		return nil, notFound(err, "album")
	}
	photos, err := s.albums.ListPhotos(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		photos[i].URL = s.media.url(ctx, photos[i].MediaKey)
	}
	a.Photos = photos
	return a, nil
}
