package mocks

import (
	"context"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatRepo struct {
	mock.Mock
	domain.SeatRepository
}

func (m *MockSeatRepo) GetByEvent(ctx context.Context, eventID int) ([]domain.Seat, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepo) Reseed(ctx context.Context, eventID int, templates []domain.SeatTemplate) (*domain.ReseedStats, error) {
	args := m.Called(ctx, eventID, templates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReseedStats), args.Error(1)
}

func (m *MockSeatRepo) SetBlocked(ctx context.Context, eventID int, seatIDs []string, blocked bool) ([]string, error) {
	args := m.Called(ctx, eventID, seatIDs, blocked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
