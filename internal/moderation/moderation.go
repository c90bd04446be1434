// Package moderation holds the oversight rules of the chat application:
// which messages may be sent, which wait for a parent, and when an approved
// message may reach its recipient.
//
// Everything here is pure; callers load state, ask, and persist the answer.
package moderation

import (
	"errors"
	"fmt"
	"time"

	"hearth/internal/model"
)

var (
	ErrTimedOut          = errors.New("child is in a timeout")
	ErrQuietHours        = errors.New("child is in quiet hours")
	ErrInvalidTransition = errors.New("invalid message status transition")
)

// ChildState is the part of a child's account that oversight depends on.
type ChildState struct {
	Mode       model.OversightMode
	QuietHours model.QuietHours
	Timeouts   []model.Timeout
}

// StateOf builds a ChildState from a child and its timeouts.
func StateOf(c *model.Child, timeouts []model.Timeout) ChildState {
	return ChildState{Mode: c.Oversight, QuietHours: c.QuietHours, Timeouts: timeouts}
}

// ActiveTimeout returns the timeout in force at now, if any.
// When several overlap the one ending last wins.
func (s ChildState) ActiveTimeout(now time.Time) (model.Timeout, bool) {
	var (
		found model.Timeout
		ok    bool
	)
	for _, t := range s.Timeouts {
		if !t.ActiveAt(now) {
			continue
		}
		if !ok || t.EndsAt.After(found.EndsAt) {
			found, ok = t, true
		}
	}
	return found, ok
}

// CanSend reports whether a child in state s may send a message at now.
func CanSend(s ChildState, now time.Time) error {
	if _, ok := s.ActiveTimeout(now); ok {
		return ErrTimedOut
	}
	if InQuietHours(s.QuietHours, now) {
		return ErrQuietHours
	}
	return nil
}

// InitialStatus is the status a new message from a sender in state s starts in.
func InitialStatus(s ChildState) model.MessageStatus {
	if s.Mode == model.OversightApprove {
		return model.MessagePending
	}
	return model.MessageApproved
}

// CanDeliver reports whether an approved message may reach a recipient in state s at now.
func CanDeliver(s ChildState, now time.Time) bool {
	if _, ok := s.ActiveTimeout(now); ok {
		return false
	}
	return !InQuietHours(s.QuietHours, now)
}

var transitions = map[model.MessageStatus][]model.MessageStatus{
	model.MessagePending:  {model.MessageApproved, model.MessageDenied},
	model.MessageApproved: {model.MessageDelivered},
}

// Transition validates a status change. Denied and delivered are terminal.
func Transition(from, to model.MessageStatus) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Decide applies a parent's decision to a pending message.
func Decide(m *model.Message, parentID string, approve bool, reason string, now time.Time) error {
	to := model.MessageDenied
	if approve {
		to = model.MessageApproved
	}
	if err := Transition(m.Status, to); err != nil {
		return err
	}
	m.Status = to
	m.DecidedBy = parentID
	m.DecidedAt = &now
	if !approve {
		m.DenyReason = reason
	}
	return nil
}

// Deliver marks an approved message as delivered.
func Deliver(m *model.Message, now time.Time) error {
	if err := Transition(m.Status, model.MessageDelivered); err != nil {
		return err
	}
	m.Status = model.MessageDelivered
	m.DeliveredAt = &now
	return nil
}

// NextBoundary returns the earliest time after now at which a recipient in
// state s could become deliverable. It returns now when s is already deliverable.
func NextBoundary(s ChildState, now time.Time) time.Time {
	at := now
	// Quiet hours and timeouts can chain, so advance until both are clear.
	for i := 0; i < 8; i++ {
		moved := false
		if t, ok := s.ActiveTimeout(at); ok {
			at = t.EndsAt
			moved = true
		}
		if InQuietHours(s.QuietHours, at) {
			at = quietEnd(s.QuietHours, at)
			moved = true
		}
		if !moved {
			return at
		}
	}
	return at
}
