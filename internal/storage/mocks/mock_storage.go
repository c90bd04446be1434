package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"hearth/internal/storage"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, u storage.Upload) (storage.Object, error) {
	args := m.Called(ctx, u)
	if f, ok := args.Get(0).(func(context.Context, storage.Upload) storage.Object); ok {
		return f(ctx, u), args.Error(1)
	}
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockStore) Get(ctx context.Context, key string) (io.ReadCloser, storage.Object, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, storage.Object{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.Object), args.Error(2)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStore) PresignGet(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
