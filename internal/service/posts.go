package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hearth/internal/model"
	"hearth/internal/repository"
	"hearth/internal/storage"
)

const maxPostLen = 5000

// PostInput is a new post; Media is optional.
type PostInput struct {
	Body  string
	Media *Media
}

// PostService publishes and reads posts.
type PostService interface {
	Create(ctx context.Context, acting *model.Profile, in PostInput) (*model.Post, error)
	ListByHandle(ctx context.Context, handle string, limit, offset int) (*Page[model.Post], error)
	Feed(ctx context.Context, acting *model.Profile, limit, offset int) (*Page[model.Post], error)
	// Delete removes a post authored by any profile of identityID.
	Delete(ctx context.Context, identityID, postID string) error
}

type postService struct {
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	media    mediaStore
	now      func() time.Time
}

// NewPostService constructs a PostService.
func NewPostService(profiles repository.ProfileRepository, posts repository.PostRepository, store storage.Store, maxUploadBytes int64, log zerolog.Logger) PostService {
	log = log.With().Str("component", "post_service").Logger()
	return &postService{
		profiles: profiles,
		posts:    posts,
		media:    mediaStore{store: store, maxBytes: maxUploadBytes, log: log},
		now:      time.Now,
	}
}

func (s *postService) withMedia(ctx context.Context, items []model.Post) {
	for i := range items {
		items[i].MediaURL = s.media.url(ctx, items[i].MediaKey)
	}
}

func (s *postService) Create(ctx context.Context, acting *model.Profile, in PostInput) (*model.Post, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" && in.Media == nil {
		return nil, invalidf("a post needs a body or media")
	}
	if utf8.RuneCountInString(body) > maxPostLen {
		return nil, invalidf("body must not exceed %d characters", maxPostLen)
	}

	var key string
	if in.Media != nil {
		var err error
		if key, err = s.media.put(ctx, storage.KindPost, acting.ID, in.Media); err != nil {
			return nil, err
		}
	}
	p, err := s.posts.Create(ctx, &model.Post{
		ID:        uuid.NewString(),
		ProfileID: acting.ID,
		Body:      body,
		MediaKey:  key,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		s.media.remove(ctx, key)
		return nil, fmt.Errorf("store post: %w", err)
	}
	p.MediaURL = s.media.url(ctx, p.MediaKey)
	return p, nil
}

func (s *postService) ListByHandle(ctx context.Context, handle string, limit, offset int) (*Page[model.Post], error) {
	profile, err := s.profiles.FindByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		return nil, notFound(err, "profile")
	}
	pq := pageQuery(limit, offset)
	res, err := s.posts.ListByProfile(ctx, profile.ID, pq)
	if err != nil {
		return nil, err
	}
	page := toPage(res, pq)
	s.withMedia(ctx, page.Items)
	return page, nil
}

func (s *postService) Feed(ctx context.Context, acting *model.Profile, limit, offset int) (*Page[model.Post], error) {
	pq := pageQuery(limit, offset)
	res, err := s.posts.Feed(ctx, acting.ID, pq)
	if err != nil {
		return nil, err
	}
	page := toPage(res, pq)
	s.withMedia(ctx, page.Items)
	return page, nil
}

func (s *postService) Delete(ctx context.Context, identityID, postID string) error {
	p, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return notFound(err, "post")
	}
	author, err := s.profiles.FindByID(ctx, p.ProfileID)
	if err != nil {
		return notFound(err, "post")
	}
	if author.IdentityID != identityID {
		return fmt.Errorf("%w: post belongs to another account", ErrForbidden)
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return notFound(err, "post")
	}
	s.media.remove(ctx, p.MediaKey)
	return nil
}
