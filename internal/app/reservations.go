package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/api"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/jobs"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/pdf"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// CreateReservation holds the requested seats and opens a checkout session
// for them. Signed-in users book under their own name unless a payer is
// given; guests must always name one. Bookings for free events are
// confirmed at once; every other booking goes through checkout.
func (app *Application) CreateReservation(w http.ResponseWriter, r *http.Request) {
	eventId, err := readIntParam(r, "eventId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateReservationRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	logger := app.contextGetLogger(r)

	req := domain.HoldRequest{
		EventID: eventId,
		SeatIDs: input.SeatIds,
		UserID:  app.sessionUserId(r),
		Channel: domain.ChannelOnline,
	}

	if req.UserID != nil {
		user, err := app.userRepo.GetById(r.Context(), *req.UserID)
		if err != nil {
			app.domainErrorResponse(w, r, err)
			return
		}

		req.Payer = domain.Payer{Name: user.FullName(), Email: user.Email, Phone: user.Phone}
	} else {
		req.Channel = domain.ChannelGuest
	}

	if input.Payer != nil {
		req.Payer = domain.Payer{Name: input.Payer.Name, Email: input.Payer.Email, Phone: input.Payer.Phone}
	} else if req.UserID == nil {
		v := domain.NewValidationError()
		v.Add("payer", "must be provided when booking without an account")
		app.domainValidationResponse(w, r, v)
		return
	}

	event, err := app.eventRepo.GetById(r.Context(), eventId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if !event.IsActive {
		app.notFoundResponse(w, r)
		return
	}

	reservation, err := app.reservationRepo.Create(r.Context(), req, app.holdPolicy())
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	logger = logger.With("reservation_id", reservation.ID, "event_id", eventId)
	logger.Info("seats held", "seat_ids", reservation.SeatIDs, "total", reservation.TotalAmount.StringFixed(2))

	if reservation.TotalAmount.IsZero() && event.PricingType != domain.PricingFree {
		logger.Error("priced event produced a zero total", "pricing_type", event.PricingType)
		app.releaseHold(r.Context(), logger, reservation.ID)

		v := domain.NewValidationError()
		v.Add("seatIds", "have no price configured for this event")
		app.domainValidationResponse(w, r, v)
		return
	}

	if event.PricingType == domain.PricingFree && reservation.TotalAmount.IsZero() {
		result, err := app.reservationRepo.Confirm(r.Context(), reservation.ID, "free-"+reservation.ID.String())
		if err != nil {
			app.domainErrorResponse(w, r, err)
			return
		}

		app.bookingConfirmed(r.Context(), logger, result.Reservation)

		err = app.writeJSON(w, http.StatusCreated, toReservationResponse(result.Reservation, ""), nil)
		if err != nil {
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	items, err := app.checkoutItems(r.Context(), event, reservation)
	if err != nil {
		app.releaseHold(r.Context(), logger, reservation.ID)
		app.serverErrorResponse(w, r, err)
		return
	}

	session, err := app.paymentProvider.CreateCheckoutSession(r.Context(), domain.CheckoutRequest{
		ReservationID: reservation.ID,
		EventID:       eventId,
		UserID:        reservation.UserID,
		Payer:         reservation.Payer,
		Items:         items,
		Currency:      app.config.Booking.Currency,
	})
	if err != nil {
		app.releaseHold(r.Context(), logger, reservation.ID)
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.reservationRepo.SetCheckoutSession(r.Context(), reservation.ID, session.ID)
	if err != nil {
		logger.Error("failed to store checkout session", "checkout_session_id", session.ID, "error", err)
	}

	err = app.writeJSON(w, http.StatusCreated, toReservationResponse(reservation, session.URL), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// checkoutItems lists one line per held seat plus the service fee, which
// is whatever the reservation total adds on top of the seat prices.
func (app *Application) checkoutItems(
	ctx context.Context,
	event *domain.Event,
	reservation *domain.Reservation) ([]domain.CheckoutItem, error) {

	seats, err := app.seatRepo.GetByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Seat, len(seats))
	for _, s := range seats {
		byID[s.ID] = s
	}

	items := make([]domain.CheckoutItem, 0, len(reservation.SeatIDs)+1)
	subtotal := decimal.Zero

	for _, id := range reservation.SeatIDs {
		seat, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("held seat %s missing from event %d", id, event.ID)
		}

		items = append(items, domain.CheckoutItem{
			Name:        event.Title,
			Description: fmt.Sprintf("Mesa %d, asiento %s", seat.TableNumber, seat.ID),
			UnitPrice:   seat.Price,
			Quantity:    1,
		})
		subtotal = subtotal.Add(seat.Price)
	}

	if fee := reservation.TotalAmount.Sub(subtotal); fee.IsPositive() {
		items = append(items, domain.CheckoutItem{
			Name:      "Cargo por servicio",
			UnitPrice: fee,
			Quantity:  1,
		})
	}

	return items, nil
}

// releaseHold cancels a reservation whose checkout could not be started so
// its seats do not stay locked until expiry.
func (app *Application) releaseHold(ctx context.Context, logger *slog.Logger, id uuid.UUID) {
	if _, err := app.reservationRepo.Cancel(ctx, id); err != nil {
		logger.Error("failed to release hold", "error", err)
	}
}

func (app *Application) CancelReservation(w http.ResponseWriter, r *http.Request) {
	reservationId, err := readUUIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	reservation, err := app.reservationRepo.GetById(r.Context(), reservationId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if reservation.UserID == nil || *reservation.UserID != userId {
		app.notFoundResponse(w, r)
		return
	}

	reservation, err = app.reservationRepo.Cancel(r.Context(), reservationId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("reservation cancelled by user", "reservation_id", reservationId, "user_id", userId)

	err = app.writeJSON(w, http.StatusOK, toReservationResponse(reservation, ""), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetReservationsOfUser(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	summaries, metadata, err := app.reservationRepo.GetSummariesByUserId(r.Context(), userId, readPagination(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserReservationsResponse{
		Reservations: make([]api.ReservationSummary, 0, len(summaries)),
		Metadata:     toMetadataResponse(metadata),
	}

	for _, s := range summaries {
		resp.Reservations = append(resp.Reservations, api.ReservationSummary{
			ReservationId: s.ReservationID.String(),
			EventId:       s.EventID,
			EventTitle:    s.EventTitle,
			EventStartsAt: s.EventStartsAt,
			SeatIds:       s.SeatIDs,
			TotalAmount:   s.TotalAmount,
			Status:        string(s.Status),
			CreatedAt:     s.CreatedAt,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CreateManualBooking records a box office sale. The seats are held and
// confirmed straight away; amount, when given, replaces the computed price.
func (app *Application) CreateManualBooking(w http.ResponseWriter, r *http.Request) {
	eventId, err := readIntParam(r, "eventId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.ManualBookingRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	if input.Amount != nil && input.Amount.IsNegative() {
		v := domain.NewValidationError()
		v.Add("amount", "must be zero or greater")
		app.domainValidationResponse(w, r, v)
		return
	}

	reservation, err := app.reservationRepo.Create(r.Context(), domain.HoldRequest{
		EventID: eventId,
		SeatIDs: input.SeatIds,
		Payer:   domain.Payer{Name: input.Payer.Name, Email: input.Payer.Email, Phone: input.Payer.Phone},
		Channel: domain.ChannelManual,
		Amount:  input.Amount,
	}, app.holdPolicy())
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	logger := app.contextGetLogger(r).With("reservation_id", reservation.ID, "event_id", eventId)

	result, err := app.reservationRepo.Confirm(r.Context(), reservation.ID, "manual-"+reservation.ID.String())
	if err != nil {
		app.releaseHold(r.Context(), logger, reservation.ID)
		app.domainErrorResponse(w, r, err)
		return
	}

	logger.Info("manual booking created", "admin_id", app.contextGetUserId(r), "total", result.Reservation.TotalAmount.StringFixed(2))

	app.bookingConfirmed(r.Context(), logger, result.Reservation)

	err = app.writeJSON(w, http.StatusCreated, toReservationResponse(result.Reservation, ""), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CheckIn(w http.ResponseWriter, r *http.Request) {
	reservationId, err := readUUIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	reservation, err := app.reservationRepo.CheckIn(r.Context(), reservationId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toReservationResponse(reservation, ""), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ExportAttendees returns the attendee list for ?date=YYYY-MM-DD as CSV,
// or as PDF when format=pdf.
func (app *Application) ExportAttendees(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := time.ParseInLocation(time.DateOnly, query.Get("date"), app.location)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("date must be given as YYYY-MM-DD"))
		return
	}

	format := query.Get("format")
	if format == "" {
		format = "csv"
	}

	if format != "csv" && format != "pdf" {
		app.badRequestResponse(w, r, errors.New("format must be csv or pdf"))
		return
	}

	report, err := jobs.BuildAttendeeReport(r.Context(), app.reservationRepo, jobs.NewEventCache(app.eventRepo), date)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	filename := fmt.Sprintf("asistentes-%s.%s", date.Format(time.DateOnly), format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "pdf" {
		doc, err := pdf.RenderAttendees(report)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.WriteHeader(http.StatusOK)
		w.Write(doc)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := jobs.WriteAttendeesCSV(w, report); err != nil {
		app.logError(r, err)
	}
}

// bookingConfirmed counts a new confirmation and hands the ticket to the
// notifier in the background.
func (app *Application) bookingConfirmed(ctx context.Context, logger *slog.Logger, reservation *domain.Reservation) {
	if app.confirmations != nil {
		app.confirmations.Add(ctx, 1, metric.WithAttributes(attribute.String("channel", string(reservation.Channel))))
	}

	ctx = context.WithoutCancel(ctx)

	app.background(logger, func() {
		event, err := app.eventRepo.GetById(ctx, reservation.EventID)
		if err != nil {
			logger.Error("failed to load event for ticket", "error", err)
			return
		}

		confirmedAt := time.Now()
		if reservation.ConfirmedAt != nil {
			confirmedAt = *reservation.ConfirmedAt
		}

		err = app.notifier.NotifyConfirmed(ctx, domain.BookingConfirmed{
			ReservationID: reservation.ID,
			EventID:       event.ID,
			EventTitle:    event.Title,
			EventStartsAt: event.StartsAt,
			SeatIDs:       reservation.SeatIDs,
			TotalAmount:   reservation.TotalAmount,
			PayerName:     reservation.Payer.Name,
			PayerEmail:    reservation.Payer.Email,
			ConfirmedAt:   confirmedAt,
		})
		if err != nil {
			logger.Error("failed to deliver ticket", "error", err)
			return
		}

		logger.Info("ticket dispatched")
	})
}

func toReservationResponse(r *domain.Reservation, checkoutUrl string) api.ReservationResponse {
	return api.ReservationResponse{
		Id:          r.ID.String(),
		EventId:     r.EventID,
		SeatIds:     r.SeatIDs,
		TotalAmount: r.TotalAmount,
		Status:      string(r.Status),
		Channel:     string(r.Channel),
		ExpiresAt:   r.ExpiresAt,
		CheckoutUrl: checkoutUrl,
		CreatedAt:   r.CreatedAt,
		ConfirmedAt: r.ConfirmedAt,
		CheckedInAt: r.CheckedInAt,
	}
}
