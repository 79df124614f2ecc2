package mocks

import (
	"context"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAssetStore struct {
	mock.Mock
	domain.AssetStore
}

func (m *MockAssetStore) Upload(ctx context.Context, data []byte, mimeType, folder string) (*domain.Asset, error) {
	args := m.Called(ctx, data, mimeType, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetStore) Delete(ctx context.Context, publicID uuid.UUID) (bool, error) {
	args := m.Called(ctx, publicID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssetStore) Get(ctx context.Context, publicID uuid.UUID) (*domain.Asset, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}
