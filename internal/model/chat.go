package model

import "time"

// Parent is the supervising account of the chat application.
// PasswordHash never leaves the service layer.
type Parent struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// OversightMode is how closely a parent supervises a child's outgoing messages.
type OversightMode string

const (
	OversightOff     OversightMode = "off"
	OversightMonitor OversightMode = "monitor"
	OversightApprove OversightMode = "approve"
)

// Valid reports whether m is a known mode.
func (m OversightMode) Valid() bool {
	switch m {
	case OversightOff, OversightMonitor, OversightApprove:
		return true
	}
	return false
}

// QuietHours is a daily window, in minutes after local midnight, during which
// a child neither sends nor receives messages. Start > End wraps past midnight.
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   int    `json:"start_minute"`
	End     int    `json:"end_minute"`
	Zone    string `json:"timezone"`
}

// Child is a supervised chat account owned by a parent.
type Child struct {
	ID           string        `json:"id"`
	ParentID     string        `json:"parent_id"`
	Username     string        `json:"username"`
	DisplayName  string        `json:"display_name"`
	PasswordHash string        `json:"-"`
	Oversight    OversightMode `json:"oversight_mode"`
	QuietHours   QuietHours    `json:"quiet_hours"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Timeout suspends a child's messaging until EndsAt unless lifted earlier.
type Timeout struct {
	ID        string     `json:"id"`
	ChildID   string     `json:"child_id"`
	ParentID  string     `json:"parent_id"`
	Reason    string     `json:"reason"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    time.Time  `json:"ends_at"`
	LiftedAt  *time.Time `json:"lifted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ActiveAt reports whether the timeout is in force at t.
func (t Timeout) ActiveAt(at time.Time) bool {
	if t.LiftedAt != nil && !t.LiftedAt.After(at) {
		return false
	}
	return !at.Before(t.StartsAt) && at.Before(t.EndsAt)
}

// FriendshipStatus is the lifecycle of a friend request between two children.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipDeclined FriendshipStatus = "declined"
)

// Friendship links two children. The addressee's parent decides on it.
type Friendship struct {
	ID          string           `json:"id"`
	RequesterID string           `json:"requester_id"`
	AddresseeID string           `json:"addressee_id"`
	Status      FriendshipStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	DecidedAt   *time.Time       `json:"decided_at,omitempty"`
}

// Other returns the child on the other side of the friendship from childID.
func (f Friendship) Other(childID string) string {
	if f.RequesterID == childID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// MessageStatus is the moderation state of a chat message.
type MessageStatus string

const (
	MessagePending   MessageStatus = "pending"
	MessageApproved  MessageStatus = "approved"
	MessageDenied    MessageStatus = "denied"
	MessageDelivered MessageStatus = "delivered"
)

// Message is a chat message between two children.
type Message struct {
	ID          string        `json:"id"`
	SenderID    string        `json:"sender_id"`
	RecipientID string        `json:"recipient_id"`
	Body        string        `json:"body"`
	Status      MessageStatus `json:"status"`
	DenyReason  string        `json:"deny_reason,omitempty"`
	DecidedBy   string        `json:"decided_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
	DeliveredAt *time.Time    `json:"delivered_at,omitempty"`
}
