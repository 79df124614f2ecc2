package mocks

import (
	"context"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockReservationRepo struct {
	mock.Mock
	domain.ReservationRepository
}

func (m *MockReservationRepo) Create(ctx context.Context, req domain.HoldRequest, policy domain.HoldPolicy) (*domain.Reservation, error) {
	args := m.Called(ctx, req, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) Confirm(ctx context.Context, id uuid.UUID, paymentID string) (*domain.ConfirmResult, error) {
	args := m.Called(ctx, id, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConfirmResult), args.Error(1)
}

func (m *MockReservationRepo) Cancel(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ExpireHolds(ctx context.Context, now time.Time, eventID *int) (int, error) {
	args := m.Called(ctx, now, eventID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepo) SetCheckoutSession(ctx context.Context, id uuid.UUID, checkoutSessionID string) error {
	args := m.Called(ctx, id, checkoutSessionID)
	return args.Error(0)
}

func (m *MockReservationRepo) CheckIn(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetById(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.ReservationSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.ReservationSummary), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockReservationRepo) GetConfirmedBetween(ctx context.Context, from, to time.Time) ([]*domain.Reservation, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

// StreamConfirmedLedger feeds the []domain.LedgerEntry given to Return to fn.
func (m *MockReservationRepo) StreamConfirmedLedger(ctx context.Context, fn func(domain.LedgerEntry) error) error {
	args := m.Called(ctx)
	if entries, ok := args.Get(0).([]domain.LedgerEntry); ok {
		for _, e := range entries {
			if err := fn(e); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}
