package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/spywithcode/ntpc/internal/model"
	"github.com/spywithcode/ntpc/internal/storage"
)

type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Save(ctx context.Context, r io.Reader, originalName string) (storage.StoredFile, error) {
	args := m.Called(ctx, r, originalName)
	return args.Get(0).(storage.StoredFile), args.Error(1)
}

func (m *MockAssetStore) Open(ctx context.Context, filename string) (io.ReadCloser, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

func (m *MockAssetStore) List(ctx context.Context) ([]model.FileInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileInfo), args.Error(1)
}

func (m *MockAssetStore) URLFor(filename string) string {
	args := m.Called(filename)
	return args.String(0)
}

func (m *MockAssetStore) Dir() string {
	args := m.Called()
	return args.String(0)
}

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) Put(ctx context.Context, filename string, r io.Reader, size int64) error {
	args := m.Called(ctx, filename, r, size)
	return args.Error(0)
}

func (m *MockMirror) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}
