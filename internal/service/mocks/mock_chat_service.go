package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearth/internal/auth"
	"hearth/internal/model"
	"hearth/internal/service"
)

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Start(subjectID string, role auth.Role) (string, auth.Session, error) {
	args := m.Called(subjectID, role)
	return args.String(0), args.Get(1).(auth.Session), args.Error(2)
}

func (m *MockSessionService) Verify(ctx context.Context, token string) (auth.Session, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(auth.Session), args.Error(1)
}

func (m *MockSessionService) End(ctx context.Context, s auth.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockFamilyService struct {
	mock.Mock
}

func (m *MockFamilyService) RegisterParent(ctx context.Context, in service.RegisterParentInput) (*model.Parent, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parent), args.Error(1)
}

func (m *MockFamilyService) LoginParent(ctx context.Context, email, password string) (*model.Parent, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parent), args.Error(1)
}

func (m *MockFamilyService) LoginChild(ctx context.Context, username, password string) (*model.Child, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockFamilyService) Parent(ctx context.Context, parentID string) (*model.Parent, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Parent), args.Error(1)
}

func (m *MockFamilyService) Child(ctx context.Context, childID string) (*model.Child, error) {
	args := m.Called(ctx, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockFamilyService) CreateChild(ctx context.Context, parentID string, in service.CreateChildInput) (*model.Child, error) {
	args := m.Called(ctx, parentID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockFamilyService) ListChildren(ctx context.Context, parentID string) ([]model.Child, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Child), args.Error(1)
}

func (m *MockFamilyService) GetChild(ctx context.Context, parentID, childID string) (*service.ChildStatus, error) {
	args := m.Called(ctx, parentID, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ChildStatus), args.Error(1)
}

func (m *MockFamilyService) SetOversight(ctx context.Context, parentID, childID string, mode model.OversightMode) (*model.Child, error) {
	args := m.Called(ctx, parentID, childID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockFamilyService) SetQuietHours(ctx context.Context, parentID, childID string, q model.QuietHours) (*model.Child, error) {
	args := m.Called(ctx, parentID, childID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Child), args.Error(1)
}

func (m *MockFamilyService) StartTimeout(ctx context.Context, parentID, childID string, in service.TimeoutInput) (*model.Timeout, error) {
	args := m.Called(ctx, parentID, childID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Timeout), args.Error(1)
}

func (m *MockFamilyService) ListTimeouts(ctx context.Context, parentID, childID string) ([]model.Timeout, error) {
	args := m.Called(ctx, parentID, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Timeout), args.Error(1)
}

func (m *MockFamilyService) LiftTimeout(ctx context.Context, parentID, childID, timeoutID string) error {
	args := m.Called(ctx, parentID, childID, timeoutID)
	return args.Error(0)
}

func (m *MockFamilyService) ChildMessages(ctx context.Context, parentID, childID string, limit, offset int) (*service.Page[model.Message], error) {
	args := m.Called(ctx, parentID, childID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[model.Message]), args.Error(1)
}

type MockFriendService struct {
	mock.Mock
}

func (m *MockFriendService) Request(ctx context.Context, childID, username string) (*model.Friendship, error) {
	args := m.Called(ctx, childID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Friendship), args.Error(1)
}

func (m *MockFriendService) ListFriends(ctx context.Context, childID string) ([]service.Friend, error) {
	args := m.Called(ctx, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Friend), args.Error(1)
}

func (m *MockFriendService) PendingForParent(ctx context.Context, parentID string) ([]service.FriendRequest, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.FriendRequest), args.Error(1)
}

func (m *MockFriendService) Decide(ctx context.Context, parentID, friendshipID string, accept bool) (*model.Friendship, error) {
	args := m.Called(ctx, parentID, friendshipID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Friendship), args.Error(1)
}

type MockMessageService struct {
	mock.Mock
}

func (m *MockMessageService) Send(ctx context.Context, senderID string, in service.SendInput) (*service.SendResult, error) {
	args := m.Called(ctx, senderID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SendResult), args.Error(1)
}

func (m *MockMessageService) Conversation(ctx context.Context, childID, withID string, limit, offset int) (*service.Page[model.Message], error) {
	args := m.Called(ctx, childID, withID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[model.Message]), args.Error(1)
}

func (m *MockMessageService) PendingApprovals(ctx context.Context, parentID string) ([]model.Message, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageService) Approve(ctx context.Context, parentID, messageID string) (*model.Message, error) {
	args := m.Called(ctx, parentID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) Deny(ctx context.Context, parentID, messageID, reason string) (*model.Message, error) {
	args := m.Called(ctx, parentID, messageID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) ReleaseHeld(ctx context.Context, recipientID string) (int, error) {
	args := m.Called(ctx, recipientID)
	return args.Int(0), args.Error(1)
}

func (m *MockMessageService) Sweep(ctx context.Context, batch int) (service.SweepResult, error) {
	args := m.Called(ctx, batch)
	return args.Get(0).(service.SweepResult), args.Error(1)
}
