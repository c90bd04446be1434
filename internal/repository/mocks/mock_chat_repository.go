package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"hearth/internal/model"
	"hearth/internal/repository"
)

type MockParentRepository struct {
	mock.Mock
}

func (m *MockParentRepository) Create(ctx context.Context, p *model.Parent) (*model.Parent, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parent), args.Error(1)
}

func (m *MockParentRepository) FindByID(ctx context.Context, id string) (*model.Parent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parent), args.Error(1)
}

func (m *MockParentRepository) FindByEmail(ctx context.Context, email string) (*model.Parent, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parent), args.Error(1)
}

type MockChildRepository struct {
	mock.Mock
}

func (m *MockChildRepository) Create(ctx context.Context, c *model.Child) (*model.Child, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockChildRepository) FindByID(ctx context.Context, id string) (*model.Child, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockChildRepository) FindByUsername(ctx context.Context, username string) (*model.Child, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockChildRepository) ListByParent(ctx context.Context, parentID string) ([]model.Child, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Child), args.Error(1)
}

func (m *MockChildRepository) UpdateOversight(ctx context.Context, id string, mode model.OversightMode) error {
	args := m.Called(ctx, id, mode)
	return args.Error(0)
}

func (m *MockChildRepository) UpdateQuietHours(ctx context.Context, id string, q model.QuietHours) error {
	args := m.Called(ctx, id, q)
	return args.Error(0)
}

type MockTimeoutRepository struct {
	mock.Mock
}

func (m *MockTimeoutRepository) Create(ctx context.Context, t *model.Timeout) (*model.Timeout, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Timeout), args.Error(1)
}

func (m *MockTimeoutRepository) FindByID(ctx context.Context, id string) (*model.Timeout, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Timeout), args.Error(1)
}

func (m *MockTimeoutRepository) ListCurrent(ctx context.Context, childID string, now time.Time) ([]model.Timeout, error) {
	args := m.Called(ctx, childID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Timeout), args.Error(1)
}

func (m *MockTimeoutRepository) ListByChild(ctx context.Context, childID string) ([]model.Timeout, error) {
	args := m.Called(ctx, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Timeout), args.Error(1)
}

func (m *MockTimeoutRepository) Lift(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockFriendshipRepository struct {
	mock.Mock
}

func (m *MockFriendshipRepository) Create(ctx context.Context, f *model.Friendship) (*model.Friendship, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) FindByID(ctx context.Context, id string) (*model.Friendship, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) FindBetween(ctx context.Context, a, b string) (*model.Friendship, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) ListAccepted(ctx context.Context, childID string) ([]model.Friendship, error) {
	args := m.Called(ctx, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) ListPendingForParent(ctx context.Context, parentID string) ([]model.Friendship, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Friendship), args.Error(1)
}

func (m *MockFriendshipRepository) Decide(ctx context.Context, id string, status model.FriendshipStatus, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}

func (m *MockFriendshipRepository) Reopen(ctx context.Context, id, requesterID, addresseeID string, at time.Time) (*model.Friendship, error) {
	args := m.Called(ctx, id, requesterID, addresseeID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Friendship), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.Message) (*model.Message, error) {
	args := m.Called(ctx, msg)
	if f, ok := args.Get(0).(func(context.Context, *model.Message) *model.Message); ok {
		return f(ctx, msg), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) Conversation(ctx context.Context, childID, otherID string, pq repository.PageQuery) (*repository.PageResult[model.Message], error) {
	args := m.Called(ctx, childID, otherID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Message]), args.Error(1)
}

func (m *MockMessageRepository) ListByChild(ctx context.Context, childID string, pq repository.PageQuery) (*repository.PageResult[model.Message], error) {
	args := m.Called(ctx, childID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Message]), args.Error(1)
}

func (m *MockMessageRepository) ListPendingForParent(ctx context.Context, parentID string) ([]model.Message, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) SaveDecision(ctx context.Context, msg *model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockMessageRepository) ListHeld(ctx context.Context, recipientID string) ([]model.Message, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) ListHeldRecipients(ctx context.Context, after string, limit int) ([]string, error) {
	args := m.Called(ctx, after, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
