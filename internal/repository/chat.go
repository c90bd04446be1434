package repository

import (
	"context"
	"time"

	"hearth/internal/model"
)

// ParentRepository persists parent accounts.
type ParentRepository interface {
	// Create inserts a parent. A taken email yields ErrDuplicate.
	Create(ctx context.Context, p *model.Parent) (*model.Parent, error)
	FindByID(ctx context.Context, id string) (*model.Parent, error)
	FindByEmail(ctx context.Context, email string) (*model.Parent, error)
}

// ChildRepository persists child accounts and their oversight settings.
type ChildRepository interface {
	// Create inserts a child. A taken username yields ErrDuplicate.
	Create(ctx context.Context, c *model.Child) (*model.Child, error)
	FindByID(ctx context.Context, id string) (*model.Child, error)
	FindByUsername(ctx context.Context, username string) (*model.Child, error)
	ListByParent(ctx context.Context, parentID string) ([]model.Child, error)
	UpdateOversight(ctx context.Context, id string, mode model.OversightMode) error
	UpdateQuietHours(ctx context.Context, id string, q model.QuietHours) error
}

// TimeoutRepository persists parental timeouts.
type TimeoutRepository interface {
	Create(ctx context.Context, t *model.Timeout) (*model.Timeout, error)
	FindByID(ctx context.Context, id string) (*model.Timeout, error)
	// ListCurrent returns timeouts of the child that are not lifted and have not ended at now,
	// including ones scheduled to start later.
	ListCurrent(ctx context.Context, childID string, now time.Time) ([]model.Timeout, error)
	// ListByChild returns every timeout of the child, newest first.
	ListByChild(ctx context.Context, childID string) ([]model.Timeout, error)
	// Lift sets lifted_at on a timeout that is not lifted yet; otherwise ErrStale.
	Lift(ctx context.Context, id string, at time.Time) error
}

// FriendshipRepository persists friend requests between children.
type FriendshipRepository interface {
	// Create inserts a request. An existing request for the same pair, in either direction, yields ErrDuplicate.
	Create(ctx context.Context, f *model.Friendship) (*model.Friendship, error)
	FindByID(ctx context.Context, id string) (*model.Friendship, error)
	// FindBetween returns the friendship of a and b regardless of who asked.
	FindBetween(ctx context.Context, a, b string) (*model.Friendship, error)
	ListAccepted(ctx context.Context, childID string) ([]model.Friendship, error)
	// ListPendingForParent returns pending requests addressed to any child of parentID.
	ListPendingForParent(ctx context.Context, parentID string) ([]model.Friendship, error)
	// Decide moves a pending request to status; a request that is no longer pending yields ErrStale.
	Decide(ctx context.Context, id string, status model.FriendshipStatus, at time.Time) error
	// Reopen turns a declined request back into a pending one from requesterID; otherwise ErrStale.
	Reopen(ctx context.Context, id, requesterID, addresseeID string, at time.Time) (*model.Friendship, error)
}

// MessageRepository persists chat messages and their moderation state.
type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) (*model.Message, error)
	FindByID(ctx context.Context, id string) (*model.Message, error)
	// Conversation returns what childID may see of its exchange with otherID:
	// everything it sent plus what was delivered to it, oldest first.
	Conversation(ctx context.Context, childID, otherID string, pq PageQuery) (*PageResult[model.Message], error)
	// ListByChild returns every message sent or received by childID regardless of status, newest first.
	ListByChild(ctx context.Context, childID string, pq PageQuery) (*PageResult[model.Message], error)
	// ListPendingForParent returns pending messages sent by any child of parentID, oldest first.
	ListPendingForParent(ctx context.Context, parentID string) ([]model.Message, error)
	// SaveDecision persists status, deny reason and decision fields of a message that is still pending; otherwise ErrStale.
	SaveDecision(ctx context.Context, m *model.Message) error
	// MarkDelivered delivers an approved message; otherwise ErrStale.
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	// ListHeld returns approved, undelivered messages addressed to recipientID, oldest first.
	ListHeld(ctx context.Context, recipientID string) ([]model.Message, error)
	// ListHeldRecipients returns up to limit distinct recipients with held
	// messages whose ID sorts after after, in ID order. An empty after starts
	// from the beginning.
	ListHeldRecipients(ctx context.Context, after string, limit int) ([]string, error)
}
