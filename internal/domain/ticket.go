package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingConfirmed is emitted once per newly confirmed reservation and
// drives ticket delivery.
type BookingConfirmed struct {
	ReservationID uuid.UUID       `json:"reservationId"`
	EventID       int             `json:"eventId"`
	EventTitle    string          `json:"eventTitle"`
	EventStartsAt time.Time       `json:"eventStartsAt"`
	SeatIDs       []string        `json:"seatIds"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PayerName     string          `json:"payerName"`
	PayerEmail    string          `json:"payerEmail"`
	ConfirmedAt   time.Time       `json:"confirmedAt"`
}

type TicketNotifier interface {
	NotifyConfirmed(ctx context.Context, event BookingConfirmed) error
}
