package service

import (
	"context"
	"strings"

	"hearth/internal/model"
	"hearth/internal/repository"
)

// FollowService lets a profile follow others.
type FollowService interface {
	Follow(ctx context.Context, acting *model.Profile, handle string) error
	Unfollow(ctx context.Context, acting *model.Profile, handle string) error
}

type followService struct {
	profiles repository.ProfileRepository
	follows  repository.FollowRepository
}

// NewFollowService constructs a FollowService.
func NewFollowService(profiles repository.ProfileRepository, follows repository.FollowRepository) FollowService {
	return &followService{profiles: profiles, follows: follows}
}

func (s *followService) target(ctx context.Context, acting *model.Profile, handle string) (*model.Profile, error) {
	p, err := s.profiles.FindByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		return nil, notFound(err, "profile")
	}
	if p.ID == acting.ID {
		return nil, invalidf("a profile cannot follow itself")
	}
	return p, nil
}

// Follow is idempotent.
func (s *followService) Follow(ctx context.Context, acting *model.Profile, handle string) error {
	p, err := s.target(ctx, acting, handle)
	if err != nil {
		return err
	}
	return s.follows.Follow(ctx, acting.ID, p.ID)
}

func (s *followService) Unfollow(ctx context.Context, acting *model.Profile, handle string) error {
	p, err := s.target(ctx, acting, handle)
	if err != nil {
		return err
	}
	return s.follows.Unfollow(ctx, acting.ID, p.ID)
}
