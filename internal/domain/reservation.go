package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// CanTransition reports whether a reservation may move from s to next.
// Confirmed and cancelled are terminal.
func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	return s == ReservationPending && (next == ReservationConfirmed || next == ReservationCancelled)
}

type Channel string

const (
	ChannelOnline Channel = "online"
	ChannelGuest  Channel = "guest"
	ChannelManual Channel = "manual"
)

type Payer struct {
	Name  string
	Email string
	Phone string
}

type Reservation struct {
	ID                uuid.UUID
	UserID            *int
	EventID           int
	SeatIDs           []string
	TotalAmount       decimal.Decimal
	Status            ReservationStatus
	Channel           Channel
	Payer             Payer
	PaymentID         *string
	CheckoutSessionID *string
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	ConfirmedAt       *time.Time
	CancelledAt       *time.Time
	CheckedInAt       *time.Time
}

// Linked reports whether the reservation counts towards a user's loyalty.
func (r *Reservation) Linked() bool {
	return r.UserID != nil
}

type HoldRequest struct {
	EventID int
	SeatIDs []string
	UserID  *int
	Payer   Payer
	Channel Channel
	// Amount overrides the computed price. Only honoured for manual bookings.
	Amount *decimal.Decimal
}

type HoldPolicy struct {
	TTL        time.Duration
	ServiceFee decimal.Decimal
}

type ConfirmResult struct {
	Reservation      *Reservation
	AlreadyConfirmed bool
	PointsAwarded    int
}

// PriceReservation sums seat prices and applies the service fee rate,
// rounded to cents.
func PriceReservation(seats []Seat, feeRate decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, s := range seats {
		subtotal = subtotal.Add(s.Price)
	}

	return subtotal.Mul(decimal.NewFromInt(1).Add(feeRate)).Round(2)
}

// ValidateSeatSelection rejects an empty selection and repeated ids, so a
// reservation never lists a seat it was not charged for.
func ValidateSeatSelection(seatIDs []string) error {
	v := NewValidationError()

	v.Check(len(seatIDs) > 0, "seatIds", "must contain at least one seat")

	seen := make(map[string]bool, len(seatIDs))
	for _, id := range seatIDs {
		if seen[id] {
			v.Add("seatIds", "must not contain duplicates")
		}
		seen[id] = true
	}

	return v.Err()
}

// Validate checks what every caller of a hold must get right, whichever
// path the request came through.
func (r HoldRequest) Validate() error {
	if err := ValidateSeatSelection(r.SeatIDs); err != nil {
		return err
	}

	if r.Amount != nil && r.Amount.IsNegative() {
		v := NewValidationError()
		v.Add("amount", "must be zero or greater")
		return v
	}

	return nil
}

// CheckHoldable returns ErrSeatUnavailable unless every requested id is
// present in seats with status available.
func CheckHoldable(seats []Seat, seatIDs []string) error {
	byID := make(map[string]SeatStatus, len(seats))
	for _, s := range seats {
		byID[s.ID] = s.Status
	}

	for _, id := range seatIDs {
		status, ok := byID[id]
		if !ok || status != SeatAvailable {
			return ErrSeatUnavailable
		}
	}

	return nil
}

// ReservationSummary is a reservation joined with its event, as shown to
// users and on exports.
type ReservationSummary struct {
	ReservationID uuid.UUID
	EventID       int
	EventTitle    string
	EventStartsAt time.Time
	SeatIDs       []string
	TotalAmount   decimal.Decimal
	Status        ReservationStatus
	CreatedAt     time.Time
}

type ReservationRepository interface {
	Create(ctx context.Context, req HoldRequest, policy HoldPolicy) (*Reservation, error)
	Confirm(ctx context.Context, id uuid.UUID, paymentID string) (*ConfirmResult, error)
	Cancel(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ExpireHolds(ctx context.Context, now time.Time, eventID *int) (int, error)
	SetCheckoutSession(ctx context.Context, id uuid.UUID, checkoutSessionID string) error
	CheckIn(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetById(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]ReservationSummary, *Metadata, error)
	GetConfirmedBetween(ctx context.Context, from, to time.Time) ([]*Reservation, error)
	StreamConfirmedLedger(ctx context.Context, fn func(LedgerEntry) error) error
}
