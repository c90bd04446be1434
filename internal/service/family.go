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
	"hearth/internal/moderation"
	"hearth/internal/notify"
	"hearth/internal/repository"
)

// RegisterParentInput is the payload for creating a parent account.
type RegisterParentInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

// CreateChildInput is the payload a parent uses to add a child account.
type CreateChildInput struct {
	Username    string              `json:"username" validate:"required,handle"`
	Password    string              `json:"password" validate:"required,min=6,max=72"`
	DisplayName string              `json:"display_name" validate:"required,max=60"`
	Oversight   model.OversightMode `json:"oversight_mode" validate:"omitempty,oneof=off monitor approve"`
	Timezone    string              `json:"timezone" validate:"omitempty,timezone"`
}

// TimeoutInput starts a timeout now (or at StartsAt) for Minutes minutes.
type TimeoutInput struct {
	Reason   string     `json:"reason" validate:"max=200"`
	Minutes  int        `json:"minutes" validate:"required,min=1,max=43200"`
	StartsAt *time.Time `json:"starts_at"`
}

// ChildStatus is a child together with its current oversight situation.
type ChildStatus struct {
	model.Child
	ActiveTimeout *model.Timeout `json:"active_timeout,omitempty"`
	InQuietHours  bool           `json:"in_quiet_hours"`
}

// FamilyService manages parent and child accounts and the parental controls.
type FamilyService interface {
	RegisterParent(ctx context.Context, in RegisterParentInput) (*model.Parent, error)
	LoginParent(ctx context.Context, email, password string) (*model.Parent, error)
	LoginChild(ctx context.Context, username, password string) (*model.Child, error)
	Parent(ctx context.Context, parentID string) (*model.Parent, error)
	Child(ctx context.Context, childID string) (*model.Child, error)

	CreateChild(ctx context.Context, parentID string, in CreateChildInput) (*model.Child, error)
	ListChildren(ctx context.Context, parentID string) ([]model.Child, error)
	GetChild(ctx context.Context, parentID, childID string) (*ChildStatus, error)
	SetOversight(ctx context.Context, parentID, childID string, mode model.OversightMode) (*model.Child, error)
	SetQuietHours(ctx context.Context, parentID, childID string, q model.QuietHours) (*model.Child, error)

	StartTimeout(ctx context.Context, parentID, childID string, in TimeoutInput) (*model.Timeout, error)
	ListTimeouts(ctx context.Context, parentID, childID string) ([]model.Timeout, error)
	LiftTimeout(ctx context.Context, parentID, childID, timeoutID string) error

	ChildMessages(ctx context.Context, parentID, childID string, limit, offset int) (*Page[model.Message], error)
}

type familyService struct {
	parents     repository.ParentRepository
	children    repository.ChildRepository
	timeouts    repository.TimeoutRepository
	messages    repository.MessageRepository
	hasher      *auth.PasswordHasher
	notifier    notify.Notifier
	defaultZone string
	log         zerolog.Logger
	now         func() time.Time
}

// FamilyDeps groups the collaborators of the family service.
type FamilyDeps struct {
	Parents     repository.ParentRepository
	Children    repository.ChildRepository
	Timeouts    repository.TimeoutRepository
	Messages    repository.MessageRepository
	Hasher      *auth.PasswordHasher
	Notifier    notify.Notifier
	DefaultZone string
	Log         zerolog.Logger
}

// NewFamilyService constructs a FamilyService.
func NewFamilyService(d FamilyDeps) FamilyService {
	n := d.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	zone := d.DefaultZone
	if zone == "" {
		zone = "UTC"
	}
	return &familyService{
		parents:     d.Parents,
		children:    d.Children,
		timeouts:    d.Timeouts,
		messages:    d.Messages,
		hasher:      d.Hasher,
		notifier:    n,
		defaultZone: zone,
		log:         d.Log.With().Str("component", "family_service").Logger(),
		now:         time.Now,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *familyService) RegisterParent(ctx context.Context, in RegisterParentInput) (*model.Parent, error) {
	ctx, span := startSpan(ctx, "family.RegisterParent")
	defer span.End()

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	p, err := s.parents.Create(ctx, &model.Parent{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(in.Email),
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, conflict(err, "email already registered")
	}
	if err := s.notifier.Welcome(ctx, p.Email, p.Name); err != nil {
		s.log.Warn().Err(err).Str("event", "welcome_email_failed").Str("parent_id", p.ID).Msg("welcome email not sent")
	}
	return p, nil
}

func (s *familyService) LoginParent(ctx context.Context, email, password string) (*model.Parent, error) {
	p, err := s.parents.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(notFound(err, ""), ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, auth.ErrBadCredentials)
		}
		return nil, err
	}
	if err := s.hasher.Compare(p.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return p, nil
}

func (s *familyService) LoginChild(ctx context.Context, username, password string) (*model.Child, error) {
	c, err := s.children.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(notFound(err, ""), ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, auth.ErrBadCredentials)
		}
		return nil, err
	}
	if err := s.hasher.Compare(c.PasswordHash, password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return c, nil
}

func (s *familyService) Parent(ctx context.Context, parentID string) (*model.Parent, error) {
	p, err := s.parents.FindByID(ctx, parentID)
	if err != nil {
		return nil, notFound(err, "parent")
	}
	return p, nil
}

func (s *familyService) Child(ctx context.Context, childID string) (*model.Child, error) {
	c, err := s.children.FindByID(ctx, childID)
	if err != nil {
		return nil, notFound(err, "child")
	}
	return c, nil
}

// ownedChild loads a child and hides it from any parent but its own.
func (s *familyService) ownedChild(ctx context.Context, parentID, childID string) (*model.Child, error) {
	return ownedChild(ctx, s.children, parentID, childID)
}

func ownedChild(ctx context.Context, children repository.ChildRepository, parentID, childID string) (*model.Child, error) {
	c, err := children.FindByID(ctx, childID)
	if err != nil {
		return nil, notFound(err, "child")
	}
	if c.ParentID != parentID {
		return nil, fmt.Errorf("%w: child", ErrNotFound)
	}
	return c, nil
}

func (s *familyService) CreateChild(ctx context.Context, parentID string, in CreateChildInput) (*model.Child, error) {
	mode := in.Oversight
	if mode == "" {
		mode = model.OversightApprove
	}
	if !mode.Valid() {
		return nil, invalidf("unknown oversight mode %q", mode)
	}
	zone := in.Timezone
	if zone == "" {
		zone = s.defaultZone
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return nil, invalidf("unknown timezone %q", zone)
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	c, err := s.children.Create(ctx, &model.Child{
		ID:           uuid.NewString(),
		ParentID:     parentID,
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		Oversight:    mode,
		QuietHours:   model.QuietHours{Zone: zone},
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return nil, conflict(err, "username already taken")
	}
	return c, nil
}

func (s *familyService) ListChildren(ctx context.Context, parentID string) ([]model.Child, error) {
	return s.children.ListByParent(ctx, parentID)
}

func (s *familyService) GetChild(ctx context.Context, parentID, childID string) (*ChildStatus, error) {
	c, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	current, err := s.timeouts.ListCurrent(ctx, c.ID, now)
	if err != nil {
		return nil, err
	}
	st := moderation.StateOf(c, current)
	out := &ChildStatus{Child: *c, InQuietHours: moderation.InQuietHours(c.QuietHours, now)}
	if t, ok := st.ActiveTimeout(now); ok {
		out.ActiveTimeout = &t
	}
	return out, nil
}

func (s *familyService) SetOversight(ctx context.Context, parentID, childID string, mode model.OversightMode) (*model.Child, error) {
	if !mode.Valid() {
		return nil, invalidf("unknown oversight mode %q", mode)
	}
	c, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	if err := s.children.UpdateOversight(ctx, c.ID, mode); err != nil {
		return nil, notFound(err, "child")
	}
	c.Oversight = mode
	s.log.Info().Str("event", "oversight_changed").Str("child_id", c.ID).Str("mode", string(mode)).Msg("oversight mode changed")
	return c, nil
}

func (s *familyService) SetQuietHours(ctx context.Context, parentID, childID string, q model.QuietHours) (*model.Child, error) {
	c, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	if q.Zone == "" {
		q.Zone = c.QuietHours.Zone
	}
	if !moderation.ValidQuietHours(q) {
		return nil, invalidf("quiet hours need minutes in [0,1440) and a known timezone")
	}
	if err := s.children.UpdateQuietHours(ctx, c.ID, q); err != nil {
		return nil, notFound(err, "child")
	}
	c.QuietHours = q
	return c, nil
}

func (s *familyService) StartTimeout(ctx context.Context, parentID, childID string, in TimeoutInput) (*model.Timeout, error) {
	c, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	if in.Minutes <= 0 {
		return nil, invalidf("minutes must be positive")
	}
	now := s.now().UTC()
	start := now
	if in.StartsAt != nil {
		if in.StartsAt.Before(now.Add(-time.Minute)) {
			return nil, invalidf("starts_at is in the past")
		}
		start = in.StartsAt.UTC()
	}
	t, err := s.timeouts.Create(ctx, &model.Timeout{
		ID:        uuid.NewString(),
		ChildID:   c.ID,
		ParentID:  parentID,
		Reason:    strings.TrimSpace(in.Reason),
		StartsAt:  start,
		EndsAt:    start.Add(time.Duration(in.Minutes) * time.Minute),
		CreatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("event", "timeout_started").Str("child_id", c.ID).Time("ends_at", t.EndsAt).Msg("timeout started")
	return t, nil
}

func (s *familyService) ListTimeouts(ctx context.Context, parentID, childID string) ([]model.Timeout, error) {
	c, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	return s.timeouts.ListByChild(ctx, c.ID)
}

func (s *familyService) LiftTimeout(ctx context.Context, parentID, childID, timeoutID string) error {
	c, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return err
	}
	t, err := s.timeouts.FindByID(ctx, timeoutID)
	if err != nil {
		return notFound(err, "timeout")
	}
	if t.ChildID != c.ID {
		return fmt.Errorf("%w: timeout", ErrNotFound)
	}
	if err := s.timeouts.Lift(ctx, t.ID, s.now().UTC()); err != nil {
		return conflict(err, "timeout already lifted")
	}
	return nil
}

func (s *familyService) ChildMessages(ctx context.Context, parentID, childID string, limit, offset int) (*Page[model.Message], error) {
	c, err := s.ownedChild(ctx, parentID, childID)
	if err != nil {
		return nil, err
	}
	pq := pageQuery(limit, offset)
	res, err := s.messages.ListByChild(ctx, c.ID, pq)
	if err != nil {
		return nil, err
	}
	return toPage(res, pq), nil
}
