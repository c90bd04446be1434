package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hearth/internal/model"
	"hearth/internal/repository"
	repoMocks "hearth/internal/repository/mocks"
)

var chatNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

type chatRepos struct {
	parents     *repoMocks.MockParentRepository
	children    *repoMocks.MockChildRepository
	friendships *repoMocks.MockFriendshipRepository
	timeouts    *repoMocks.MockTimeoutRepository
	messages    *repoMocks.MockMessageRepository
	notes       *recordingNotifier
}

func (r *chatRepos) assert(t *testing.T) {
	r.parents.AssertExpectations(t)
	r.children.AssertExpectations(t)
	r.friendships.AssertExpectations(t)
	r.timeouts.AssertExpectations(t)
	r.messages.AssertExpectations(t)
}

func newChatRepos() *chatRepos {
	return &chatRepos{
		parents:     &repoMocks.MockParentRepository{},
		children:    &repoMocks.MockChildRepository{},
		friendships: &repoMocks.MockFriendshipRepository{},
		timeouts:    &repoMocks.MockTimeoutRepository{},
		messages:    &repoMocks.MockMessageRepository{},
		notes:       &recordingNotifier{},
	}
}

func newTestMessageService(r *chatRepos, metrics *Metrics) *messageService {
	s := NewMessageService(MessageDeps{
		Parents:     r.parents,
		Children:    r.children,
		Friendships: r.friendships,
		Timeouts:    r.timeouts,
		Messages:    r.messages,
		Notifier:    r.notes,
		Metrics:     metrics,
		MaxLen:      20,
		Log:         zerolog.Nop(),
	}).(*messageService)
	s.now = func() time.Time { return chatNow }
	return s
}

func child(id, parentID string, mode model.OversightMode) *model.Child {
	return &model.Child{ID: id, ParentID: parentID, Username: id, DisplayName: id, Oversight: mode}
}

func quiet(startHour, endHour int) model.QuietHours {
	return model.QuietHours{Enabled: true, Start: startHour * 60, End: endHour * 60, Zone: "UTC"}
}

func accepted() *model.Friendship {
	return &model.Friendship{ID: "f1", RequesterID: "sender", AddresseeID: "recipient", Status: model.FriendshipAccepted}
}

func echoMessage(_ context.Context, m *model.Message) *model.Message {
	out := *m
	return &out
}

func TestMessageService_Send(t *testing.T) {
	tests := []struct {
		name      string
		in        SendInput
		setup     func(r *chatRepos)
		wantErr   error
		wantState model.MessageStatus
		wantHeld  *time.Time
		wantNotes []string
	}{
		{
			name:    "empty body",
			in:      SendInput{RecipientID: "recipient", Body: "   "},
			setup:   func(r *chatRepos) {},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "body too long",
			in:      SendInput{RecipientID: "recipient", Body: "this body is longer than twenty runes"},
			setup:   func(r *chatRepos) {},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "to self",
			in:      SendInput{RecipientID: "sender", Body: "hi"},
			setup:   func(r *chatRepos) {},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown recipient",
			in:   SendInput{RecipientID: "recipient", Body: "hi"},
			setup: func(r *chatRepos) {
				r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightOff), nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "not friends",
			in:   SendInput{RecipientID: "recipient", Body: "hi"},
			setup: func(r *chatRepos) {
				r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightOff), nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
				r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFriends,
		},
		{
			name: "friend request still pending",
			in:   SendInput{RecipientID: "recipient", Body: "hi"},
			setup: func(r *chatRepos) {
				r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightOff), nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
				r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").
					Return(&model.Friendship{ID: "f1", Status: model.FriendshipPending}, nil)
			},
			wantErr: ErrNotFriends,
		},
		{
			name: "sender timed out",
			in:   SendInput{RecipientID: "recipient", Body: "hi"},
			setup: func(r *chatRepos) {
				r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightOff), nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
				r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").Return(accepted(), nil)
				r.timeouts.On("ListCurrent", mock.Anything, "sender", chatNow).Return([]model.Timeout{
					{ID: "t1", ChildID: "sender", StartsAt: chatNow.Add(-time.Hour), EndsAt: chatNow.Add(time.Hour)},
				}, nil)
			},
			wantErr: ErrTimedOut,
		},
		{
			name: "sender in quiet hours",
			in:   SendInput{RecipientID: "recipient", Body: "hi"},
			setup: func(r *chatRepos) {
				sender := child("sender", "p1", model.OversightOff)
				sender.QuietHours = quiet(11, 13)
				r.children.On("FindByID", mock.Anything, "sender").Return(sender, nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
				r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").Return(accepted(), nil)
				r.timeouts.On("ListCurrent", mock.Anything, "sender", chatNow).Return([]model.Timeout{}, nil)
			},
			wantErr: ErrQuietHours,
		},
		{
			name: "approve mode waits for parent",
			in:   SendInput{RecipientID: "recipient", Body: " hi "},
			setup: func(r *chatRepos) {
				r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
				r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").Return(accepted(), nil)
				r.timeouts.On("ListCurrent", mock.Anything, "sender", chatNow).Return([]model.Timeout{}, nil)
				r.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
					return m.Status == model.MessagePending && m.Body == "hi" && m.DeliveredAt == nil
				})).Return(echoMessage, nil)
				r.parents.On("FindByID", mock.Anything, "p1").Return(&model.Parent{ID: "p1", Email: "p1@example.com"}, nil)
			},
			wantState: model.MessagePending,
			wantNotes: []string{"pending:p1@example.com"},
		},
		{
			name: "monitor mode delivers immediately",
			in:   SendInput{RecipientID: "recipient", Body: "hi"},
			setup: func(r *chatRepos) {
				r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightMonitor), nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
				r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").Return(accepted(), nil)
				r.timeouts.On("ListCurrent", mock.Anything, "sender", chatNow).Return([]model.Timeout{}, nil)
				r.timeouts.On("ListCurrent", mock.Anything, "recipient", chatNow).Return([]model.Timeout{}, nil)
				r.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
					return m.Status == model.MessageDelivered && m.DeliveredAt != nil && m.DeliveredAt.Equal(chatNow)
				})).Return(echoMessage, nil)
			},
			wantState: model.MessageDelivered,
		},
		{
			name: "recipient in quiet hours holds the message",
			in:   SendInput{RecipientID: "recipient", Body: "hi"},
			setup: func(r *chatRepos) {
				recipient := child("recipient", "p2", model.OversightOff)
				recipient.QuietHours = quiet(11, 13)
				r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightOff), nil)
				r.children.On("FindByID", mock.Anything, "recipient").Return(recipient, nil)
				r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").Return(accepted(), nil)
				r.timeouts.On("ListCurrent", mock.Anything, "sender", chatNow).Return([]model.Timeout{}, nil)
				r.timeouts.On("ListCurrent", mock.Anything, "recipient", chatNow).Return([]model.Timeout{}, nil)
				r.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
					return m.Status == model.MessageApproved && m.DeliveredAt == nil
				})).Return(echoMessage, nil)
			},
			wantState: model.MessageApproved,
			wantHeld:  ptrTime(time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newChatRepos()
			tt.setup(r)
			s := newTestMessageService(r, nil)

			res, err := s.Send(context.Background(), "sender", tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				r.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, res.Message.Status)
			if tt.wantHeld == nil {
				assert.Nil(t, res.HeldUntil)
			} else {
				require.NotNil(t, res.HeldUntil)
				assert.True(t, tt.wantHeld.Equal(*res.HeldUntil), "held until %s", res.HeldUntil)
			}
			assert.Equal(t, tt.wantNotes, r.notes.calls)
			r.assert(t)
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestMessageService_SendCountsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	r := newChatRepos()
	r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)
	r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
	r.friendships.On("FindBetween", mock.Anything, "sender", "recipient").Return(accepted(), nil)
	r.timeouts.On("ListCurrent", mock.Anything, "sender", chatNow).Return([]model.Timeout{}, nil)
	r.messages.On("Create", mock.Anything, mock.Anything).Return(echoMessage, nil)
	r.parents.On("FindByID", mock.Anything, "p1").Return(nil, sql.ErrNoRows)

	s := newTestMessageService(r, metrics)
	_, err = s.Send(context.Background(), "sender", SendInput{RecipientID: "recipient", Body: "hi"})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.messages.WithLabelValues("pending")))
	// a failed email never fails the send
	assert.Empty(t, r.notes.calls)
}

func pendingMessage() *model.Message {
	return &model.Message{ID: "m1", SenderID: "sender", RecipientID: "recipient", Body: "hi", Status: model.MessagePending, CreatedAt: chatNow.Add(-time.Minute)}
}

func TestMessageService_Approve(t *testing.T) {
	t.Run("delivers when recipient is free", func(t *testing.T) {
		r := newChatRepos()
		r.messages.On("FindByID", mock.Anything, "m1").Return(pendingMessage(), nil)
		r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)
		r.messages.On("SaveDecision", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
			return m.Status == model.MessageApproved && m.DecidedBy == "p1" && m.DecidedAt != nil
		})).Return(nil)
		r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
		r.timeouts.On("ListCurrent", mock.Anything, "recipient", chatNow).Return([]model.Timeout{}, nil)
		r.messages.On("MarkDelivered", mock.Anything, "m1", chatNow).Return(nil)

		m, err := newTestMessageService(r, nil).Approve(context.Background(), "p1", "m1")
		require.NoError(t, err)
		assert.Equal(t, model.MessageDelivered, m.Status)
		assert.NotNil(t, m.DeliveredAt)
		r.assert(t)
	})

	t.Run("stays approved while recipient is timed out", func(t *testing.T) {
		r := newChatRepos()
		r.messages.On("FindByID", mock.Anything, "m1").Return(pendingMessage(), nil)
		r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)
		r.messages.On("SaveDecision", mock.Anything, mock.Anything).Return(nil)
		r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
		r.timeouts.On("ListCurrent", mock.Anything, "recipient", chatNow).Return([]model.Timeout{
			{ID: "t1", StartsAt: chatNow.Add(-time.Hour), EndsAt: chatNow.Add(time.Hour)},
		}, nil)

		m, err := newTestMessageService(r, nil).Approve(context.Background(), "p1", "m1")
		require.NoError(t, err)
		assert.Equal(t, model.MessageApproved, m.Status)
		assert.Nil(t, m.DeliveredAt)
		r.messages.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("another parent's child", func(t *testing.T) {
		r := newChatRepos()
		r.messages.On("FindByID", mock.Anything, "m1").Return(pendingMessage(), nil)
		r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)

		_, err := newTestMessageService(r, nil).Approve(context.Background(), "intruder", "m1")
		require.ErrorIs(t, err, ErrNotFound)
		r.messages.AssertNotCalled(t, "SaveDecision", mock.Anything, mock.Anything)
	})

	t.Run("already decided", func(t *testing.T) {
		r := newChatRepos()
		m := pendingMessage()
		m.Status = model.MessageDenied
		r.messages.On("FindByID", mock.Anything, "m1").Return(m, nil)
		r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)

		_, err := newTestMessageService(r, nil).Approve(context.Background(), "p1", "m1")
		require.ErrorIs(t, err, ErrConflict)
	})

	t.Run("lost the race", func(t *testing.T) {
		r := newChatRepos()
		r.messages.On("FindByID", mock.Anything, "m1").Return(pendingMessage(), nil)
		r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)
		r.messages.On("SaveDecision", mock.Anything, mock.Anything).Return(repository.ErrStale)

		_, err := newTestMessageService(r, nil).Approve(context.Background(), "p1", "m1")
		require.ErrorIs(t, err, ErrConflict)
	})
}

func TestMessageService_Deny(t *testing.T) {
	r := newChatRepos()
	r.messages.On("FindByID", mock.Anything, "m1").Return(pendingMessage(), nil)
	r.children.On("FindByID", mock.Anything, "sender").Return(child("sender", "p1", model.OversightApprove), nil)
	r.messages.On("SaveDecision", mock.Anything, mock.MatchedBy(func(m *model.Message) bool {
		return m.Status == model.MessageDenied && m.DenyReason == "not kind"
	})).Return(nil)

	m, err := newTestMessageService(r, nil).Deny(context.Background(), "p1", "m1", " not kind ")
	require.NoError(t, err)
	assert.Equal(t, model.MessageDenied, m.Status)
	assert.Nil(t, m.DeliveredAt)
	r.messages.AssertNotCalled(t, "MarkDelivered", mock.Anything, mock.Anything, mock.Anything)
	r.assert(t)
}

func TestMessageService_ReleaseHeld(t *testing.T) {
	t.Run("delivers held messages and skips ones already taken", func(t *testing.T) {
		r := newChatRepos()
		r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
		r.timeouts.On("ListCurrent", mock.Anything, "recipient", chatNow).Return([]model.Timeout{}, nil)
		r.messages.On("ListHeld", mock.Anything, "recipient").Return([]model.Message{
			{ID: "m1", Status: model.MessageApproved},
			{ID: "m2", Status: model.MessageApproved},
		}, nil)
		r.messages.On("MarkDelivered", mock.Anything, "m1", chatNow).Return(nil)
		r.messages.On("MarkDelivered", mock.Anything, "m2", chatNow).Return(repository.ErrStale)

		n, err := newTestMessageService(r, nil).ReleaseHeld(context.Background(), "recipient")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		r.assert(t)
	})

	t.Run("recipient still in quiet hours", func(t *testing.T) {
		r := newChatRepos()
		recipient := child("recipient", "p2", model.OversightOff)
		recipient.QuietHours = quiet(22, 13)
		r.children.On("FindByID", mock.Anything, "recipient").Return(recipient, nil)
		r.timeouts.On("ListCurrent", mock.Anything, "recipient", chatNow).Return([]model.Timeout{}, nil)

		n, err := newTestMessageService(r, nil).ReleaseHeld(context.Background(), "recipient")
		require.NoError(t, err)
		assert.Zero(t, n)
		r.messages.AssertNotCalled(t, "ListHeld", mock.Anything, mock.Anything)
	})
}

func TestMessageService_Sweep(t *testing.T) {
	t.Run("counts releases and failures", func(t *testing.T) {
		r := newChatRepos()
		r.messages.On("ListHeldRecipients", mock.Anything, "", 50).Return([]string{"gone", "recipient"}, nil)
		r.children.On("FindByID", mock.Anything, "gone").Return(nil, sql.ErrNoRows)
		r.children.On("FindByID", mock.Anything, "recipient").Return(child("recipient", "p2", model.OversightOff), nil)
		r.timeouts.On("ListCurrent", mock.Anything, "recipient", chatNow).Return([]model.Timeout{}, nil)
		r.messages.On("ListHeld", mock.Anything, "recipient").Return([]model.Message{{ID: "m1", Status: model.MessageApproved}}, nil)
		r.messages.On("MarkDelivered", mock.Anything, "m1", chatNow).Return(nil)

		res, err := newTestMessageService(r, nil).Sweep(context.Background(), 50)
		require.NoError(t, err)
		assert.Equal(t, SweepResult{Recipients: 2, Released: 1, Failed: 1}, res)
	})

	t.Run("undeliverable recipients do not block later ones", func(t *testing.T) {
		r := newChatRepos()
		for _, id := range []string{"a-quiet", "b-quiet"} {
			c := child(id, "p2", model.OversightOff)
			c.QuietHours = quiet(10, 14)
			r.children.On("FindByID", mock.Anything, id).Return(c, nil)
			r.timeouts.On("ListCurrent", mock.Anything, id, chatNow).Return([]model.Timeout{}, nil)
		}
		r.children.On("FindByID", mock.Anything, "c-awake").Return(child("c-awake", "p2", model.OversightOff), nil)
		r.timeouts.On("ListCurrent", mock.Anything, "c-awake", chatNow).Return([]model.Timeout{}, nil)
		r.messages.On("ListHeld", mock.Anything, "c-awake").Return([]model.Message{{ID: "m9", Status: model.MessageApproved}}, nil)
		r.messages.On("MarkDelivered", mock.Anything, "m9", chatNow).Return(nil)

		r.messages.On("ListHeldRecipients", mock.Anything, "", 2).Return([]string{"a-quiet", "b-quiet"}, nil).Once()
		r.messages.On("ListHeldRecipients", mock.Anything, "b-quiet", 2).Return([]string{"c-awake"}, nil).Once()

		res, err := newTestMessageService(r, nil).Sweep(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, SweepResult{Recipients: 3, Released: 1}, res)
		r.assert(t)
	})

	t.Run("stops when cancelled", func(t *testing.T) {
		r := newChatRepos()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestMessageService(r, nil).Sweep(ctx, 2)
		assert.ErrorIs(t, err, context.Canceled)
		r.messages.AssertNotCalled(t, "ListHeldRecipients", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMessageService_Conversation(t *testing.T) {
	r := newChatRepos()
	r.children.On("FindByID", mock.Anything, "friend").Return(child("friend", "p2", model.OversightOff), nil)
	r.children.On("FindByID", mock.Anything, "me").Return(child("me", "p1", model.OversightOff), nil)
	r.timeouts.On("ListCurrent", mock.Anything, "me", chatNow).Return([]model.Timeout{}, nil)
	r.messages.On("ListHeld", mock.Anything, "me").Return([]model.Message{}, nil)
	r.messages.On("Conversation", mock.Anything, "me", "friend", repository.PageQuery{Limit: 20, Offset: 0}).
		Return(&repository.PageResult[model.Message]{Items: []model.Message{{ID: "m1"}}, Total: 1}, nil)

	page, err := newTestMessageService(r, nil).Conversation(context.Background(), "me", "friend", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Items, 1)
	r.assert(t)

	_, err = newTestMessageService(newChatRepos(), nil).Conversation(context.Background(), "me", "", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
