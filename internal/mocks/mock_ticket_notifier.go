package mocks

import (
	"context"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockTicketNotifier struct {
	mock.Mock
}

func (m *MockTicketNotifier) NotifyConfirmed(ctx context.Context, event domain.BookingConfirmed) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
