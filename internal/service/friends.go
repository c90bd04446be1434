package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hearth/internal/model"
	"hearth/internal/notify"
	"hearth/internal/repository"
)

// Friend is an accepted friend as a child sees it.
type Friend struct {
	FriendshipID string    `json:"friendship_id"`
	ChildID      string    `json:"child_id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Since        time.Time `json:"since"`
}

// FriendRequest is a pending request as the addressee's parent sees it.
type FriendRequest struct {
	model.Friendship
	RequesterUsername string `json:"requester_username"`
	RequesterName     string `json:"requester_display_name"`
	AddresseeName     string `json:"addressee_display_name"`
}

// FriendService handles friend requests between children.
type FriendService interface {
	Request(ctx context.Context, childID, username string) (*model.Friendship, error)
	ListFriends(ctx context.Context, childID string) ([]Friend, error)
	PendingForParent(ctx context.Context, parentID string) ([]FriendRequest, error)
	Decide(ctx context.Context, parentID, friendshipID string, accept bool) (*model.Friendship, error)
}

type friendService struct {
	parents     repository.ParentRepository
	children    repository.ChildRepository
	friendships repository.FriendshipRepository
	notifier    notify.Notifier
	log         zerolog.Logger
	now         func() time.Time
}

// NewFriendService constructs a FriendService.
func NewFriendService(parents repository.ParentRepository, children repository.ChildRepository, friendships repository.FriendshipRepository, n notify.Notifier, log zerolog.Logger) FriendService {
	if n == nil {
		n = notify.Nop{}
	}
	return &friendService{
		parents:     parents,
		children:    children,
		friendships: friendships,
		notifier:    n,
		log:         log.With().Str("component", "friend_service").Logger(),
		now:         time.Now,
	}
}

// Request asks the child named username to be friends with childID.
// A declined request between the same pair can be made again; anything else is a conflict.
func (s *friendService) Request(ctx context.Context, childID, username string) (*model.Friendship, error) {
	requester, err := s.children.FindByID(ctx, childID)
	if err != nil {
		return nil, notFound(err, "child")
	}
	addressee, err := s.children.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, notFound(err, "child")
	}
	if addressee.ID == requester.ID {
		return nil, invalidf("cannot befriend yourself")
	}

	now := s.now().UTC()
	var f *model.Friendship
	existing, err := s.friendships.FindBetween(ctx, requester.ID, addressee.ID)
	switch {
	case err == nil && existing.Status == model.FriendshipDeclined:
		f, err = s.friendships.Reopen(ctx, existing.ID, requester.ID, addressee.ID, now)
		if err != nil {
			return nil, conflict(err, "friend request changed")
		}
	case err == nil:
		return nil, fmt.Errorf("%w: friend request already exists", ErrConflict)
	case errors.Is(err, sql.ErrNoRows):
		f, err = s.friendships.Create(ctx, &model.Friendship{
			ID:          uuid.NewString(),
			RequesterID: requester.ID,
			AddresseeID: addressee.ID,
			Status:      model.FriendshipPending,
			CreatedAt:   now,
		})
		if err != nil {
			return nil, conflict(err, "friend request already exists")
		}
	default:
		return nil, err
	}

	s.notifyParent(ctx, addressee, requester)
	return f, nil
}

func (s *friendService) notifyParent(ctx context.Context, addressee, requester *model.Child) {
	parent, err := s.parents.FindByID(ctx, addressee.ParentID)
	if err == nil {
		err = s.notifier.FriendRequest(ctx, parent.Email, addressee.DisplayName, requester.DisplayName)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("event", "friend_request_email_failed").Str("child_id", addressee.ID).Msg("friend request email not sent")
	}
}

func (s *friendService) ListFriends(ctx context.Context, childID string) ([]Friend, error) {
	accepted, err := s.friendships.ListAccepted(ctx, childID)
	if err != nil {
		return nil, err
	}
	out := make([]Friend, 0, len(accepted))
	for _, f := range accepted {
		other, err := s.children.FindByID(ctx, f.Other(childID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}
		since := f.CreatedAt
		if f.DecidedAt != nil {
			since = *f.DecidedAt
		}
		out = append(out, Friend{
			FriendshipID: f.ID,
			ChildID:      other.ID,
			Username:     other.Username,
			DisplayName:  other.DisplayName,
			Since:        since,
		})
	}
	return out, nil
}

func (s *friendService) PendingForParent(ctx context.Context, parentID string) ([]FriendRequest, error) {
	pending, err := s.friendships.ListPendingForParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	out := make([]FriendRequest, 0, len(pending))
	for _, f := range pending {
		fr := FriendRequest{Friendship: f}
		if c, err := s.children.FindByID(ctx, f.RequesterID); err == nil {
			fr.RequesterUsername = c.Username
			fr.RequesterName = c.DisplayName
		}
		if c, err := s.children.FindByID(ctx, f.AddresseeID); err == nil {
			fr.AddresseeName = c.DisplayName
		}
		out = append(out, fr)
	}
	return out, nil
}

// Decide lets the addressee's parent accept or decline a pending request.
func (s *friendService) Decide(ctx context.Context, parentID, friendshipID string, accept bool) (*model.Friendship, error) {
	f, err := s.friendships.FindByID(ctx, friendshipID)
	if err != nil {
		return nil, notFound(err, "friend request")
	}
	if _, err := ownedChild(ctx, s.children, parentID, f.AddresseeID); err != nil {
		return nil, fmt.Errorf("%w: friend request", ErrNotFound)
	}
	if f.Status != model.FriendshipPending {
		return nil, fmt.Errorf("%w: friend request is %s", ErrConflict, f.Status)
	}
	status := model.FriendshipDeclined
	if accept {
		status = model.FriendshipAccepted
	}
	now := s.now().UTC()
	if err := s.friendships.Decide(ctx, f.ID, status, now); err != nil {
		return nil, conflict(err, "friend request already decided")
	}
	f.Status = status
	f.DecidedAt = &now
	return f, nil
}
