package app

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
)

const (
	maxWebhookBytes = 65_536
	paymentLockTTL  = 30 * time.Second
)

func paymentLockKey(paymentId string) string {
	return "payment:" + paymentId
}

// PaymentWebhook applies a verified payment notification to its
// reservation. Redeliveries of an already applied notification are
// acknowledged without side effects.
func (app *Application) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	notification, err := app.paymentProvider.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedPayment) {
			logger.Warn("payment notification without a reservation")
			w.WriteHeader(http.StatusOK)
			return
		}

		logger.Warn("rejected payment notification", "error", err)
		app.badRequestResponse(w, r, err)
		return
	}

	if notification.Status == domain.PaymentIgnored {
		logger.Debug("payment notification ignored", "type", notification.Type)
		w.WriteHeader(http.StatusOK)
		return
	}

	logger = logger.With(
		"reservation_id", notification.ReservationID,
		"payment_id", notification.PaymentID,
		"type", notification.Type)

	// serialize concurrent deliveries of the same payment
	key := paymentLockKey(notification.PaymentID)

	acquired, err := app.redis.SetNX(r.Context(), key, notification.ReservationID.String(), paymentLockTTL).Result()
	switch {
	case err != nil:
		logger.Error("failed to take payment lock, continuing without it", "error", err)
	case !acquired:
		logger.Info(domain.ErrDuplicateNotice.Error())
		w.WriteHeader(http.StatusOK)
		return
	default:
		defer func() {
			if err := app.redis.Del(r.Context(), key).Err(); err != nil {
				logger.Warn("failed to release payment lock", "error", err)
			}
		}()
	}

	switch notification.Status {
	case domain.PaymentApproved:
		app.paymentApproved(w, r, notification)
	case domain.PaymentRejected:
		app.paymentRejected(w, r, notification)
	}
}

func (app *Application) paymentApproved(w http.ResponseWriter, r *http.Request, n *domain.PaymentNotification) {
	logger := app.contextGetLogger(r).With("reservation_id", n.ReservationID, "payment_id", n.PaymentID)

	result, err := app.reservationRepo.Confirm(r.Context(), n.ReservationID, n.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			// the hold expired or was cancelled before the money arrived
			logger.Error("payment received for a cancelled reservation, refund required")
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, domain.ErrPaymentMismatch):
			logger.Error("reservation already confirmed by another payment")
			app.conflictResponse(w, r, err)
		default:
			app.domainErrorResponse(w, r, err)
		}

		return
	}

	if result.AlreadyConfirmed {
		logger.Info("payment already applied")
		w.WriteHeader(http.StatusOK)
		return
	}

	logger.Info("reservation confirmed", "points_awarded", result.PointsAwarded)

	app.bookingConfirmed(r.Context(), logger, result.Reservation)

	w.WriteHeader(http.StatusOK)
}

func (app *Application) paymentRejected(w http.ResponseWriter, r *http.Request, n *domain.PaymentNotification) {
	logger := app.contextGetLogger(r).With("reservation_id", n.ReservationID)

	_, err := app.reservationRepo.Cancel(r.Context(), n.ReservationID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			logger.Info("rejected payment for a reservation that is no longer pending")
			w.WriteHeader(http.StatusOK)
		default:
			app.domainErrorResponse(w, r, err)
		}

		return
	}

	logger.Info("reservation cancelled after rejected payment")

	w.WriteHeader(http.StatusOK)
}
