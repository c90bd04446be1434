package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hearth/internal/model"
	"hearth/internal/service"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, in service.RegisterInput) (*service.Account, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Account), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (*model.Identity, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

func (m *MockAccountService) Account(ctx context.Context, identityID string) (*service.Account, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Account), args.Error(1)
}

func (m *MockAccountService) SetTier(ctx context.Context, identityID string, tier model.Tier) (*model.Identity, error) {
	args := m.Called(ctx, identityID, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Identity), args.Error(1)
}

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Acting(ctx context.Context, identityID, profileID string) (*model.Profile, error) {
	args := m.Called(ctx, identityID, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) List(ctx context.Context, identityID string) ([]model.Profile, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *MockProfileService) Create(ctx context.Context, identityID string, in service.CreateProfileInput) (*model.Profile, error) {
	args := m.Called(ctx, identityID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) Public(ctx context.Context, handle string) (*service.PublicProfile, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublicProfile), args.Error(1)
}

func (m *MockProfileService) Update(ctx context.Context, identityID, profileID string, in service.UpdateProfileInput) (*model.Profile, error) {
	args := m.Called(ctx, identityID, profileID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileService) Delete(ctx context.Context, identityID, profileID string) error {
	args := m.Called(ctx, identityID, profileID)
	return args.Error(0)
}

func (m *MockProfileService) SetAvatar(ctx context.Context, identityID, profileID string, media *service.Media) (*model.Profile, error) {
	args := m.Called(ctx, identityID, profileID, media)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) Create(ctx context.Context, acting *model.Profile, in service.PostInput) (*model.Post, error) {
	args := m.Called(ctx, acting, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) ListByHandle(ctx context.Context, handle string, limit, offset int) (*service.Page[model.Post], error) {
	args := m.Called(ctx, handle, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[model.Post]), args.Error(1)
}

func (m *MockPostService) Feed(ctx context.Context, acting *model.Profile, limit, offset int) (*service.Page[model.Post], error) {
	args := m.Called(ctx, acting, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Page[model.Post]), args.Error(1)
}

func (m *MockPostService) Delete(ctx context.Context, identityID, postID string) error {
	args := m.Called(ctx, identityID, postID)
	return args.Error(0)
}

type MockAlbumService struct {
	mock.Mock
}

func (m *MockAlbumService) Create(ctx context.Context, acting *model.Profile, in service.AlbumInput) (*model.Album, error) {
	args := m.Called(ctx, acting, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Album), args.Error(1)
}

func (m *MockAlbumService) ListByHandle(ctx context.Context, handle string) ([]model.Album, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Album), args.Error(1)
}

func (m *MockAlbumService) AddPhoto(ctx context.Context, identityID, albumID, caption string, media *service.Media) (*model.AlbumPhoto, error) {
	args := m.Called(ctx, identityID, albumID, caption, media)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AlbumPhoto), args.Error(1)
}

func (m *MockAlbumService) Get(ctx context.Context, albumID string) (*model.Album, error) {
	args := m.Called(ctx, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Album), args.Error(1)
}

type MockFollowService struct {
	mock.Mock
}

func (m *MockFollowService) Follow(ctx context.Context, acting *model.Profile, handle string) error {
	args := m.Called(ctx, acting, handle)
	return args.Error(0)
}

func (m *MockFollowService) Unfollow(ctx context.Context, acting *model.Profile, handle string) error {
	args := m.Called(ctx, acting, handle)
	return args.Error(0)
}
