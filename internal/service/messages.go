package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"hearth/internal/model"
	"hearth/internal/moderation"
	"hearth/internal/notify"
	"hearth/internal/repository"
)

// SendInput is the payload of a new chat message.
type SendInput struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Body        string `json:"body" validate:"required"`
}

// SendResult is a stored message and, when it is held, the earliest time it could be delivered.
type SendResult struct {
	Message   *model.Message `json:"message"`
	HeldUntil *time.Time     `json:"held_until,omitempty"`
}

// SweepResult summarizes one release sweep.
type SweepResult struct {
	Recipients int
	Released   int
	Failed     int
}

// MessageService sends, moderates and delivers chat messages.
type MessageService interface {
	Send(ctx context.Context, senderID string, in SendInput) (*SendResult, error)
	Conversation(ctx context.Context, childID, withID string, limit, offset int) (*Page[model.Message], error)
	PendingApprovals(ctx context.Context, parentID string) ([]model.Message, error)
	Approve(ctx context.Context, parentID, messageID string) (*model.Message, error)
	Deny(ctx context.Context, parentID, messageID, reason string) (*model.Message, error)
	// ReleaseHeld delivers approved messages waiting for recipientID if it can receive now.
	ReleaseHeld(ctx context.Context, recipientID string) (int, error)
	// Sweep runs ReleaseHeld for every recipient with held messages, loading
	// them batch at a time.
	Sweep(ctx context.Context, batch int) (SweepResult, error)
}

type messageService struct {
	parents     repository.ParentRepository
	children    repository.ChildRepository
	friendships repository.FriendshipRepository
	timeouts    repository.TimeoutRepository
	messages    repository.MessageRepository
	notifier    notify.Notifier
	metrics     *Metrics
	maxLen      int
	log         zerolog.Logger
	now         func() time.Time
}

// MessageDeps groups the collaborators of the message service.
type MessageDeps struct {
	Parents     repository.ParentRepository
	Children    repository.ChildRepository
	Friendships repository.FriendshipRepository
	Timeouts    repository.TimeoutRepository
	Messages    repository.MessageRepository
	Notifier    notify.Notifier
	Metrics     *Metrics
	MaxLen      int
	Log         zerolog.Logger
}

// NewMessageService constructs a MessageService.
func NewMessageService(d MessageDeps) MessageService {
	n := d.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	maxLen := d.MaxLen
	if maxLen <= 0 {
		maxLen = 2000
	}
	return &messageService{
		parents:     d.Parents,
		children:    d.Children,
		friendships: d.Friendships,
		timeouts:    d.Timeouts,
		messages:    d.Messages,
		notifier:    n,
		metrics:     d.Metrics,
		maxLen:      maxLen,
		log:         d.Log.With().Str("component", "message_service").Logger(),
		now:         time.Now,
	}
}

func (s *messageService) state(ctx context.Context, c *model.Child, now time.Time) (moderation.ChildState, error) {
	current, err := s.timeouts.ListCurrent(ctx, c.ID, now)
	if err != nil {
		return moderation.ChildState{}, fmt.Errorf("load timeouts: %w", err)
	}
	return moderation.StateOf(c, current), nil
}

func (s *messageService) Send(ctx context.Context, senderID string, in SendInput) (*SendResult, error) {
	ctx, span := startSpan(ctx, "messages.Send", attribute.String("sender_id", senderID))
	defer span.End()

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, invalidf("body must not be empty")
	}
	if utf8.RuneCountInString(body) > s.maxLen {
		return nil, invalidf("body must not exceed %d characters", s.maxLen)
	}
	if in.RecipientID == senderID {
		return nil, invalidf("cannot message yourself")
	}

	sender, err := s.children.FindByID(ctx, senderID)
	if err != nil {
		return nil, notFound(err, "sender")
	}
	recipient, err := s.children.FindByID(ctx, in.RecipientID)
	if err != nil {
		return nil, notFound(err, "recipient")
	}
	f, err := s.friendships.FindBetween(ctx, sender.ID, recipient.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil || f.Status != model.FriendshipAccepted {
		return nil, ErrNotFriends
	}

	now := s.now().UTC()
	senderState, err := s.state(ctx, sender, now)
	if err != nil {
		return nil, err
	}
	if err := moderation.CanSend(senderState, now); err != nil {
		return nil, err
	}

	m := &model.Message{
		ID:          uuid.NewString(),
		SenderID:    sender.ID,
		RecipientID: recipient.ID,
		Body:        body,
		Status:      moderation.InitialStatus(senderState),
		CreatedAt:   now,
	}

	var heldUntil *time.Time
	if m.Status == model.MessageApproved {
		recipientState, err := s.state(ctx, recipient, now)
		if err != nil {
			return nil, err
		}
		if moderation.CanDeliver(recipientState, now) {
			if err := moderation.Deliver(m, now); err != nil {
				return nil, err
			}
		} else {
			next := moderation.NextBoundary(recipientState, now)
			heldUntil = &next
		}
	}

	stored, err := s.messages.Create(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}
	s.metrics.messageSent(string(m.Status))
	span.SetAttributes(attribute.String("status", string(stored.Status)))

	if stored.Status == model.MessagePending {
		s.notifyPending(ctx, sender, recipient)
	}
	return &SendResult{Message: stored, HeldUntil: heldUntil}, nil
}

func (s *messageService) notifyPending(ctx context.Context, sender, recipient *model.Child) {
	parent, err := s.parents.FindByID(ctx, sender.ParentID)
	if err == nil {
		err = s.notifier.PendingApproval(ctx, parent.Email, sender.DisplayName, recipient.DisplayName)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("event", "approval_email_failed").Str("child_id", sender.ID).Msg("approval email not sent")
	}
}

// Conversation releases what can be delivered to the caller, then returns the exchange.
func (s *messageService) Conversation(ctx context.Context, childID, withID string, limit, offset int) (*Page[model.Message], error) {
	if withID == "" {
		return nil, invalidf("query parameter with is required")
	}
	if _, err := s.children.FindByID(ctx, withID); err != nil {
		return nil, notFound(err, "child")
	}
	if _, err := s.ReleaseHeld(ctx, childID); err != nil {
		s.log.Error().Err(err).Str("event", "release_failed").Str("child_id", childID).Msg("release before read failed")
	}
	pq := pageQuery(limit, offset)
	res, err := s.messages.Conversation(ctx, childID, withID, pq)
	if err != nil {
		return nil, err
	}
	return toPage(res, pq), nil
}

func (s *messageService) PendingApprovals(ctx context.Context, parentID string) ([]model.Message, error) {
	return s.messages.ListPendingForParent(ctx, parentID)
}

// ownedMessage loads a message sent by one of parentID's children.
func (s *messageService) ownedMessage(ctx context.Context, parentID, messageID string) (*model.Message, error) {
	m, err := s.messages.FindByID(ctx, messageID)
	if err != nil {
		return nil, notFound(err, "message")
	}
	if _, err := ownedChild(ctx, s.children, parentID, m.SenderID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: message", ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (s *messageService) decide(ctx context.Context, parentID, messageID string, approve bool, reason string) (*model.Message, error) {
	ctx, span := startSpan(ctx, "messages.Decide", attribute.String("message_id", messageID), attribute.Bool("approve", approve))
	defer span.End()

	m, err := s.ownedMessage(ctx, parentID, messageID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if err := moderation.Decide(m, parentID, approve, strings.TrimSpace(reason), now); err != nil {
		if errors.Is(err, moderation.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: message is %s", ErrConflict, m.Status)
		}
		return nil, err
	}
	if err := s.messages.SaveDecision(ctx, m); err != nil {
		return nil, conflict(err, "message already decided")
	}
	s.metrics.decision(string(m.Status))

	if m.Status == model.MessageApproved {
		if _, err := s.releaseOne(ctx, m, now); err != nil {
			s.log.Error().Err(err).Str("event", "release_failed").Str("message_id", m.ID).Msg("delivery after approval failed")
		}
	}
	return m, nil
}

func (s *messageService) Approve(ctx context.Context, parentID, messageID string) (*model.Message, error) {
	return s.decide(ctx, parentID, messageID, true, "")
}

func (s *messageService) Deny(ctx context.Context, parentID, messageID, reason string) (*model.Message, error) {
	if utf8.RuneCountInString(reason) > 500 {
		return nil, invalidf("reason must not exceed 500 characters")
	}
	return s.decide(ctx, parentID, messageID, false, reason)
}

// releaseOne delivers a single approved message if its recipient can receive now.
func (s *messageService) releaseOne(ctx context.Context, m *model.Message, now time.Time) (bool, error) {
	recipient, err := s.children.FindByID(ctx, m.RecipientID)
	if err != nil {
		return false, notFound(err, "recipient")
	}
	st, err := s.state(ctx, recipient, now)
	if err != nil {
		return false, err
	}
	if !moderation.CanDeliver(st, now) {
		return false, nil
	}
	if err := moderation.Deliver(m, now); err != nil {
		return false, err
	}
	if err := s.messages.MarkDelivered(ctx, m.ID, now); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return false, nil
		}
		return false, err
	}
	s.metrics.releasedN(1)
	return true, nil
}

func (s *messageService) ReleaseHeld(ctx context.Context, recipientID string) (int, error) {
	recipient, err := s.children.FindByID(ctx, recipientID)
	if err != nil {
		return 0, notFound(err, "recipient")
	}
	now := s.now().UTC()
	st, err := s.state(ctx, recipient, now)
	if err != nil {
		return 0, err
	}
	if !moderation.CanDeliver(st, now) {
		return 0, nil
	}
	held, err := s.messages.ListHeld(ctx, recipient.ID)
	if err != nil {
		return 0, err
	}
	released := 0
	for i := range held {
		m := &held[i]
		if err := moderation.Deliver(m, now); err != nil {
			return released, err
		}
		if err := s.messages.MarkDelivered(ctx, m.ID, now); err != nil {
			// Another reader or the sweep got there first.
			if errors.Is(err, repository.ErrStale) {
				continue
			}
			return released, err
		}
		released++
	}
	s.metrics.releasedN(released)
	return released, nil
}

const defaultSweepBatch = 200

func (s *messageService) Sweep(ctx context.Context, batch int) (SweepResult, error) {
	ctx, span := startSpan(ctx, "messages.Sweep")
	defer span.End()

	if batch <= 0 {
		batch = defaultSweepBatch
	}
	// Walk every recipient with held messages in ID order, so recipients that
	// stay undeliverable never hide the ones behind them.
	var (
		res   SweepResult
		after string
	)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		recipients, err := s.messages.ListHeldRecipients(ctx, after, batch)
		if err != nil {
			return res, fmt.Errorf("list held recipients: %w", err)
		}
		res.Recipients += len(recipients)
		for _, id := range recipients {
			n, err := s.ReleaseHeld(ctx, id)
			res.Released += n
			if err != nil {
				res.Failed++
				s.log.Error().Err(err).Str("event", "release_failed").Str("child_id", id).Msg("sweep release failed")
			}
		}
		if len(recipients) < batch {
			break
		}
		after = recipients[len(recipients)-1]
	}
	span.SetAttributes(attribute.Int("released", res.Released))
	return res, nil
}
