package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/spywithcode/ntpc/internal/model"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) Load(ctx context.Context) ([]model.Clipping, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Clipping), args.Error(1)
}

func (m *MockCatalogRepository) Replace(ctx context.Context, records []model.Clipping) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}
