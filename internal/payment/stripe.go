package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	// Stripe rejects expiries closer than 30 minutes to the request.
	checkoutTTL = 31 * time.Minute

	eventCheckoutCompleted     = "checkout.session.completed"
	eventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	eventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
	eventCheckoutExpired       = "checkout.session.expired"
)

type StripePaymentProvider struct {
	failureUrl    string
	successUrl    string
	webhookSecret string
	newSession    func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

func NewStripePaymentProvider(failureUrl, successUrl, webhookSecret string) *StripePaymentProvider {
	return &StripePaymentProvider{
		failureUrl:    failureUrl,
		successUrl:    successUrl,
		webhookSecret: webhookSecret,
		newSession:    session.New,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	req domain.CheckoutRequest) (*domain.CheckoutSession, error) {

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.Items))

	for _, item := range req.Items {
		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(req.Currency),
				UnitAmount: stripe.Int64(toCents(item.UnitPrice)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		}

		if item.Description != "" {
			lineItem.PriceData.ProductData.Description = stripe.String(item.Description)
		}

		lineItems = append(lineItems, lineItem)
	}

	userID := ""
	if req.UserID != nil {
		userID = strconv.Itoa(*req.UserID)
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(withReservation(s.successUrl, req.ReservationID)),
		CancelURL:  stripe.String(withReservation(s.failureUrl, req.ReservationID)),
		ExpiresAt:  stripe.Int64(time.Now().Add(checkoutTTL).Unix()),
		Metadata: map[string]string{
			"reservation_id": req.ReservationID.String(),
			"event_id":       strconv.Itoa(req.EventID),
			"user_id":        userID,
			"is_guest":       strconv.FormatBool(req.UserID == nil),
		},
		ClientReferenceID: stripe.String(req.ReservationID.String()),
	}

	if req.Payer.Email != "" {
		params.CustomerEmail = stripe.String(req.Payer.Email)
	}

	cs, err := s.newSession(params)
	if err != nil {
		return nil, domain.NewUpstreamError("stripe", err)
	}

	return &domain.CheckoutSession{ID: cs.ID, URL: cs.URL}, nil
}

// ParseWebhook verifies the signature and reduces a checkout event to a
// notification. Event types the booking flow does not act on come back
// with status PaymentIgnored.
func (s *StripePaymentProvider) ParseWebhook(payload []byte, signature string) (*domain.PaymentNotification, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("verify webhook: %w", err)
	}

	notification := &domain.PaymentNotification{
		Type:   string(event.Type),
		Status: domain.PaymentIgnored,
	}

	switch notification.Type {
	case eventCheckoutCompleted, eventAsyncPaymentSucceeded, eventAsyncPaymentFailed, eventCheckoutExpired:
	default:
		return notification, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}

	reservationID, err := uuid.Parse(cs.Metadata["reservation_id"])
	if err != nil {
		return nil, domain.ErrUnsupportedPayment
	}

	notification.ReservationID = reservationID
	notification.PaymentID = cs.ID
	if cs.PaymentIntent != nil && cs.PaymentIntent.ID != "" {
		notification.PaymentID = cs.PaymentIntent.ID
	}

	switch notification.Type {
	case eventCheckoutCompleted, eventAsyncPaymentSucceeded:
		if cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
			cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			notification.Status = domain.PaymentApproved
		}
	case eventAsyncPaymentFailed, eventCheckoutExpired:
		notification.Status = domain.PaymentRejected
	}

	return notification, nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func withReservation(base string, id uuid.UUID) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	q := u.Query()
	q.Set("reservation_id", id.String())
	u.RawQuery = q.Encode()

	return u.String()
}
