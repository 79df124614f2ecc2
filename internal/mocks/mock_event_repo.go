package mocks

import (
	"context"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockEventRepo struct {
	mock.Mock
	domain.EventRepository
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepo) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepo) GetById(ctx context.Context, id int) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepo) GetAll(ctx context.Context, filters domain.EventFilters) ([]*domain.Event, *domain.Metadata, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*domain.Event), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockEventRepo) ListIDs(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}
