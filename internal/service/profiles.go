package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hearth/internal/model"
	"hearth/internal/repository"
	"hearth/internal/storage"
)

// CreateProfileInput is the payload of a new profile.
type CreateProfileInput struct {
	Handle      string `json:"handle" validate:"required,handle"`
	DisplayName string `json:"display_name" validate:"required,max=60"`
	Bio         string `json:"bio" validate:"max=500"`
}

// UpdateProfileInput changes the public details of a profile. Nil fields are left alone.
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=60"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
}

// PublicProfile is a profile as anyone may see it.
type PublicProfile struct {
	model.Profile
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// ProfileService manages the profiles owned by an identity.
type ProfileService interface {
	// Acting resolves the profile an identity acts as. An empty profileID picks the default profile.
	Acting(ctx context.Context, identityID, profileID string) (*model.Profile, error)
	List(ctx context.Context, identityID string) ([]model.Profile, error)
	Create(ctx context.Context, identityID string, in CreateProfileInput) (*model.Profile, error)
	Public(ctx context.Context, handle string) (*PublicProfile, error)
	Update(ctx context.Context, identityID, profileID string, in UpdateProfileInput) (*model.Profile, error)
	Delete(ctx context.Context, identityID, profileID string) error
	SetAvatar(ctx context.Context, identityID, profileID string, media *Media) (*model.Profile, error)
}

type profileService struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	follows    repository.FollowRepository
	media      mediaStore
	limits     TierLimits
	metrics    *Metrics
	log        zerolog.Logger
	now        func() time.Time
}

// ProfileDeps groups the collaborators of the profile service.
type ProfileDeps struct {
	Identities     repository.IdentityRepository
	Profiles       repository.ProfileRepository
	Follows        repository.FollowRepository
	Store          storage.Store
	MaxUploadBytes int64
	Limits         TierLimits
	Metrics        *Metrics
	Log            zerolog.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(d ProfileDeps) ProfileService {
	log := d.Log.With().Str("component", "profile_service").Logger()
	return &profileService{
		identities: d.Identities,
		profiles:   d.Profiles,
		follows:    d.Follows,
		media:      mediaStore{store: d.Store, maxBytes: d.MaxUploadBytes, log: log},
		limits:     d.Limits,
		metrics:    d.Metrics,
		log:        log,
		now:        time.Now,
	}
}

func (s *profileService) withAvatar(ctx context.Context, p *model.Profile) *model.Profile {
	p.AvatarURL = s.media.url(ctx, p.AvatarKey)
	return p
}

// owned loads a profile and refuses it to any identity but its owner.
func (s *profileService) owned(ctx context.Context, identityID, profileID string) (*model.Profile, error) {
	p, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		if errors.Is(notFound(err, ""), ErrNotFound) {
			return nil, fmt.Errorf("%w: profile does not belong to this account", ErrForbidden)
		}
		return nil, err
	}
	if p.IdentityID != identityID {
		return nil, fmt.Errorf("%w: profile does not belong to this account", ErrForbidden)
	}
	return p, nil
}

func (s *profileService) Acting(ctx context.Context, identityID, profileID string) (*model.Profile, error) {
	if profileID != "" {
		if _, err := uuid.Parse(profileID); err != nil {
			return nil, fmt.Errorf("%w: profile does not belong to this account", ErrForbidden)
		}
		return s.owned(ctx, identityID, profileID)
	}
	profiles, err := s.profiles.ListByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: account has no profile", ErrNotFound)
	}
	return &profiles[0], nil
}

func (s *profileService) List(ctx context.Context, identityID string) ([]model.Profile, error) {
	profiles, err := s.profiles.ListByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		s.withAvatar(ctx, &profiles[i])
	}
	return profiles, nil
}

func (s *profileService) Create(ctx context.Context, identityID string, in CreateProfileInput) (*model.Profile, error) {
	ctx, span := startSpan(ctx, "profiles.Create")
	defer span.End()

	identity, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		return nil, notFound(err, "identity")
	}
	limit := s.limits.For(identity.Tier)
	p, err := s.profiles.CreateWithinLimit(ctx, &model.Profile{
		ID:          uuid.NewString(),
		IdentityID:  identity.ID,
		Handle:      strings.ToLower(in.Handle),
		DisplayName: strings.TrimSpace(in.DisplayName),
		Bio:         strings.TrimSpace(in.Bio),
		CreatedAt:   s.now().UTC(),
	}, limit)
	switch {
	case errors.Is(err, repository.ErrLimitReached):
		return nil, fmt.Errorf("%w: %s tier allows %d profiles", ErrProfileLimit, identity.Tier, limit)
	case err != nil:
		return nil, conflict(err, "handle already taken")
	}
	s.metrics.profileCreated()
	return p, nil
}

func (s *profileService) Public(ctx context.Context, handle string) (*PublicProfile, error) {
	p, err := s.profiles.FindByHandle(ctx, strings.ToLower(handle))
	if err != nil {
		return nil, notFound(err, "profile")
	}
	followers, following, err := s.follows.Counts(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &PublicProfile{Profile: *s.withAvatar(ctx, p), Followers: followers, Following: following}, nil
}

func (s *profileService) Update(ctx context.Context, identityID, profileID string, in UpdateProfileInput) (*model.Profile, error) {
	p, err := s.owned(ctx, identityID, profileID)
	if err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return nil, invalidf("display_name must not be empty")
		}
		p.DisplayName = name
	}
	if in.Bio != nil {
		p.Bio = strings.TrimSpace(*in.Bio)
	}
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, notFound(err, "profile")
	}
	return s.withAvatar(ctx, p), nil
}

func (s *profileService) Delete(ctx context.Context, identityID, profileID string) error {
	p, err := s.owned(ctx, identityID, profileID)
	if err != nil {
		return err
	}
	switch err := s.profiles.DeleteUnlessLast(ctx, p.ID, identityID); {
	case errors.Is(err, repository.ErrLastProfile):
		return ErrLastProfile
	case err != nil:
		return notFound(err, "profile")
	}
	s.media.remove(ctx, p.AvatarKey)
	return nil
}

func (s *profileService) SetAvatar(ctx context.Context, identityID, profileID string, media *Media) (*model.Profile, error) {
	p, err := s.owned(ctx, identityID, profileID)
	if err != nil {
		return nil, err
	}
	key, err := s.media.put(ctx, storage.KindAvatar, p.ID, media)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.UpdateAvatar(ctx, p.ID, key); err != nil {
		s.media.remove(ctx, key)
		return nil, notFound(err, "profile")
	}
	s.media.remove(ctx, p.AvatarKey)
	p.AvatarKey = key
	return s.withAvatar(ctx, p), nil
}
