package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	Name        string
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int
}

type CheckoutRequest struct {
	ReservationID uuid.UUID
	EventID       int
	UserID        *int
	Payer         Payer
	Items         []CheckoutItem
	Currency      string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
	PaymentIgnored  PaymentStatus = "ignored"
)

// PaymentNotification is a verified webhook delivery reduced to what the
// reservation flow needs.
type PaymentNotification struct {
	Type          string
	PaymentID     string
	ReservationID uuid.UUID
	Status        PaymentStatus
}

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*PaymentNotification, error)
}
