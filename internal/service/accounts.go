package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hearth/internal/auth"
	"hearth/internal/model"
	"hearth/internal/notify"
	"hearth/internal/repository"
)

// TierLimits is how many profiles each tier may own.
type TierLimits map[model.Tier]int

// For returns the limit of t, falling back to the free tier.
func (l TierLimits) For(t model.Tier) int {
	if n, ok := l[t]; ok {
		return n
	}
	return l[model.TierFree]
}

// RegisterInput creates an identity together with its first profile.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Handle      string `json:"handle" validate:"required,handle"`
	DisplayName string `json:"display_name" validate:"required,max=60"`
}

// Account is what an identity sees about itself.
type Account struct {
	Identity     *model.Identity `json:"identity"`
	Profiles     []model.Profile `json:"profiles"`
	ProfileLimit int             `json:"profile_limit"`
}

// AccountService manages login identities of the social application.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*Account, error)
	Login(ctx context.Context, email, password string) (*model.Identity, error)
	Account(ctx context.Context, identityID string) (*Account, error)
	// SetTier changes the subscription tier. Existing profiles above a lower limit are kept.
	SetTier(ctx context.Context, identityID string, tier model.Tier) (*model.Identity, error)
}

type accountService struct {
	identities repository.IdentityRepository
	profiles   repository.ProfileRepository
	hasher     *auth.PasswordHasher
	limits     TierLimits
	notifier   notify.Notifier
	metrics    *Metrics
	log        zerolog.Logger
	now        func() time.Time
}

// AccountDeps groups the collaborators of the account service.
type AccountDeps struct {
	Identities repository.IdentityRepository
	Profiles   repository.ProfileRepository
	Hasher     *auth.PasswordHasher
	Limits     TierLimits
	Notifier   notify.Notifier
	Metrics    *Metrics
	Log        zerolog.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(d AccountDeps) AccountService {
	n := d.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	return &accountService{
		identities: d.Identities,
		profiles:   d.Profiles,
		hasher:     d.Hasher,
		limits:     d.Limits,
		notifier:   n,
		metrics:    d.Metrics,
		log:        d.Log.With().Str("component", "account_service").Logger(),
		now:        time.Now,
	}
}

func (s *accountService) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	ctx, span := startSpan(ctx, "accounts.Register")
	defer span.End()

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	identityID := uuid.NewString()
	identity, profile, err := s.identities.CreateWithProfile(ctx,
		&model.Identity{
			ID:           identityID,
			Email:        normalizeEmail(in.Email),
			PasswordHash: hash,
			Tier:         model.TierFree,
			CreatedAt:    now,
		},
		&model.Profile{
			ID:          uuid.NewString(),
			IdentityID:  identityID,
			Handle:      strings.ToLower(in.Handle),
			DisplayName: strings.TrimSpace(in.DisplayName),
			CreatedAt:   now,
		},
	)
	if err != nil {
		return nil, conflict(err, "email or handle already taken")
	}
	s.metrics.profileCreated()
	if err := s.notifier.Welcome(ctx, identity.Email, profile.DisplayName); err != nil {
		s.log.Warn().Err(err).Str("event", "welcome_email_failed").Str("identity_id", identity.ID).Msg("welcome email not sent")
	}
	return &Account{
		Identity:     identity,
		Profiles:     []model.Profile{*profile},
		ProfileLimit: s.limits.For(identity.Tier),
	}, nil
}

func (s *accountService) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	i, err := s.identities.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(notFound(err, ""), ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, auth.ErrBadCredentials)
		}
		return nil, err
	}
	if err := s.hasher.Compare(i.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return i, nil
}

func (s *accountService) Account(ctx context.Context, identityID string) (*Account, error) {
	i, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		return nil, notFound(err, "identity")
	}
	profiles, err := s.profiles.ListByIdentity(ctx, i.ID)
	if err != nil {
		return nil, err
	}
	return &Account{Identity: i, Profiles: profiles, ProfileLimit: s.limits.For(i.Tier)}, nil
}

func (s *accountService) SetTier(ctx context.Context, identityID string, tier model.Tier) (*model.Identity, error) {
	if !tier.Valid() {
		return nil, invalidf("unknown tier %q", tier)
	}
	i, err := s.identities.FindByID(ctx, identityID)
	if err != nil {
		return nil, notFound(err, "identity")
	}
	if err := s.identities.UpdateTier(ctx, i.ID, tier); err != nil {
		return nil, notFound(err, "identity")
	}
	s.log.Info().Str("event", "tier_changed").Str("identity_id", i.ID).
		Str("from", string(i.Tier)).Str("to", string(tier)).Msg("tier changed")
	i.Tier = tier
	return i, nil
}
