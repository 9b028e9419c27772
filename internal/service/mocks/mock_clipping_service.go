package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/spywithcode/ntpc/internal/model"
	"github.com/spywithcode/ntpc/internal/service"
)

// MockClippingService is a testify mock of service.ClippingService.
type MockClippingService struct {
	mock.Mock
}

func (m *MockClippingService) Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64, meta service.UploadMeta) (*service.UploadResult, error) {
	args := m.Called(ctx, r, originalName, contentType, size, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockClippingService) List(ctx context.Context) ([]model.Clipping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Clipping), args.Error(1)
}

func (m *MockClippingService) Replace(ctx context.Context, records []model.Clipping) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockClippingService) Refresh(ctx context.Context) (*service.ScanResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ScanResult), args.Error(1)
}

func (m *MockClippingService) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClippingService) Files(ctx context.Context) ([]model.FileInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileInfo), args.Error(1)
}
