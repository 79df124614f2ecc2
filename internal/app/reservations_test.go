package app

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/api"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	testReservationId = uuid.MustParse("6f1c3a52-7d0e-4c43-9a55-1b2f6f0a9e01")
	testEventStart    = time.Date(2025, 6, 14, 21, 30, 0, 0, time.UTC)
)

func testEvent() *domain.Event {
	return &domain.Event{
		ID:           1,
		Title:        "Cuarteto de Jazz",
		StartsAt:     testEventStart,
		PricingType:  domain.PricingGeneral,
		GeneralPrice: decimal.NewFromInt(1000),
		IsActive:     true,
		Version:      1,
	}
}

func testSeats() []domain.Seat {
	return []domain.Seat{
		{ID: "A1-1", EventID: 1, TableID: "A1", TableNumber: 1, Label: "Salon", Status: domain.SeatAvailable, Price: decimal.NewFromInt(1000)},
		{ID: "A1-2", EventID: 1, TableID: "A1", TableNumber: 1, Label: "Salon", Status: domain.SeatAvailable, Price: decimal.NewFromInt(1000)},
	}
}

type ReservationsTestSuite struct {
	suite.Suite
	app             *Application
	userRepo        *mocks.MockUserRepo
	eventRepo       *mocks.MockEventRepo
	seatRepo        *mocks.MockSeatRepo
	reservationRepo *mocks.MockReservationRepo
	paymentProvider *mocks.MockPaymentProvider
	notifier        *mocks.MockTicketNotifier
}

func (s *ReservationsTestSuite) SetupTest() {
	s.userRepo = new(mocks.MockUserRepo)
	s.eventRepo = new(mocks.MockEventRepo)
	s.seatRepo = new(mocks.MockSeatRepo)
	s.reservationRepo = new(mocks.MockReservationRepo)
	s.paymentProvider = new(mocks.MockPaymentProvider)
	s.notifier = new(mocks.MockTicketNotifier)

	s.app = newTestApplication(func(a *Application) {
		a.userRepo = s.userRepo
		a.eventRepo = s.eventRepo
		a.seatRepo = s.seatRepo
		a.reservationRepo = s.reservationRepo
		a.paymentProvider = s.paymentProvider
		a.notifier = s.notifier
	})
}

func (s *ReservationsTestSuite) assertMocks() {
	s.app.wg.Wait()

	s.userRepo.AssertExpectations(s.T())
	s.eventRepo.AssertExpectations(s.T())
	s.seatRepo.AssertExpectations(s.T())
	s.reservationRepo.AssertExpectations(s.T())
	s.paymentProvider.AssertExpectations(s.T())
	s.notifier.AssertExpectations(s.T())
}

func TestReservationsSuite(t *testing.T) {
	suite.Run(t, new(ReservationsTestSuite))
}

func (s *ReservationsTestSuite) TestCreateReservation() {
	guestPayer := &api.PayerRequest{Name: "Lucia Paz", Email: "lucia@example.com", Phone: "+54 11 5555-0101"}

	pending := func(total int64) *domain.Reservation {
		return &domain.Reservation{
			ID:          testReservationId,
			EventID:     1,
			SeatIDs:     []string{"A1-1", "A1-2"},
			TotalAmount: decimal.NewFromInt(total),
			Status:      domain.ReservationPending,
			Channel:     domain.ChannelGuest,
			Payer:       domain.Payer{Name: guestPayer.Name, Email: guestPayer.Email, Phone: guestPayer.Phone},
			ExpiresAt:   ptr(testEventStart.Add(-24 * time.Hour)),
			CreatedAt:   testEventStart.Add(-25 * time.Hour),
		}
	}

	tests := []struct {
		name           string
		userId         int
		input          api.CreateReservationRequest
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.ReservationResponse
	}{
		{
			name:           "no seats",
			input:          api.CreateReservationRequest{Payer: guestPayer},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "is required",
		},
		{
			name:           "duplicate seats",
			input:          api.CreateReservationRequest{SeatIds: []string{"A1-1", "A1-1"}, Payer: guestPayer},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must not contain duplicates",
		},
		{
			name:           "guest without payer",
			input:          api.CreateReservationRequest{SeatIds: []string{"A1-1"}},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "must be provided when booking without an account",
		},
		{
			name:  "inactive event",
			input: api.CreateReservationRequest{SeatIds: []string{"A1-1"}, Payer: guestPayer},
			setupMocks: func() {
				event := testEvent()
				event.IsActive = false
				s.eventRepo.On("GetById", mock.Anything, 1).Return(event, nil)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name:  "seat taken",
			input: api.CreateReservationRequest{SeatIds: []string{"A1-1"}, Payer: guestPayer},
			setupMocks: func() {
				s.eventRepo.On("GetById", mock.Anything, 1).Return(testEvent(), nil)
				s.reservationRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, domain.ErrSeatUnavailable)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrSeatUnavailable.Error(),
		},
		{
			name:  "guest checkout",
			input: api.CreateReservationRequest{SeatIds: []string{"A1-1", "A1-2"}, Payer: guestPayer},
			setupMocks: func() {
				s.eventRepo.On("GetById", mock.Anything, 1).Return(testEvent(), nil)
				s.reservationRepo.On("Create", mock.Anything, mock.MatchedBy(func(req domain.HoldRequest) bool {
					return req.EventID == 1 &&
						req.UserID == nil &&
						req.Channel == domain.ChannelGuest &&
						req.Payer.Email == "lucia@example.com" &&
						req.Amount == nil
				}), mock.Anything).Return(pending(2200), nil)
				s.seatRepo.On("GetByEvent", mock.Anything, 1).Return(testSeats(), nil)
				s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req domain.CheckoutRequest) bool {
					return req.ReservationID == testReservationId &&
						req.Currency == "ars" &&
						len(req.Items) == 3 &&
						req.Items[2].UnitPrice.Equal(decimal.NewFromInt(200))
				})).Return(&domain.CheckoutSession{ID: "cs_1", URL: "https://checkout.example.com/cs_1"}, nil)
				s.reservationRepo.On("SetCheckoutSession", mock.Anything, testReservationId, "cs_1").Return(nil)
			},
			wantStatus: http.StatusCreated,
			wantResponse: &api.ReservationResponse{
				Id:          testReservationId.String(),
				EventId:     1,
				SeatIds:     []string{"A1-1", "A1-2"},
				TotalAmount: decimal.NewFromInt(2200),
				Status:      "pending",
				Channel:     "guest",
				ExpiresAt:   ptr(testEventStart.Add(-24 * time.Hour)),
				CheckoutUrl: "https://checkout.example.com/cs_1",
				CreatedAt:   testEventStart.Add(-25 * time.Hour),
			},
		},
		{
			name:   "signed in user books under their account",
			userId: 7,
			input:  api.CreateReservationRequest{SeatIds: []string{"A1-1", "A1-2"}},
			setupMocks: func() {
				s.userRepo.On("GetById", mock.Anything, 7).Return(&domain.User{
					ID: 7, FirstName: "Ana", LastName: "Gomez", Email: "ana@example.com",
				}, nil)
				s.eventRepo.On("GetById", mock.Anything, 1).Return(testEvent(), nil)

				res := pending(2200)
				res.UserID = ptr(7)
				res.Channel = domain.ChannelOnline

				s.reservationRepo.On("Create", mock.Anything, mock.MatchedBy(func(req domain.HoldRequest) bool {
					return req.UserID != nil && *req.UserID == 7 &&
						req.Channel == domain.ChannelOnline &&
						req.Payer.Name == "Ana Gomez"
				}), mock.Anything).Return(res, nil)
				s.seatRepo.On("GetByEvent", mock.Anything, 1).Return(testSeats(), nil)
				s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
					Return(&domain.CheckoutSession{ID: "cs_2", URL: "https://checkout.example.com/cs_2"}, nil)
				s.reservationRepo.On("SetCheckoutSession", mock.Anything, testReservationId, "cs_2").Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:  "checkout failure releases the hold",
			input: api.CreateReservationRequest{SeatIds: []string{"A1-1", "A1-2"}, Payer: guestPayer},
			setupMocks: func() {
				s.eventRepo.On("GetById", mock.Anything, 1).Return(testEvent(), nil)
				s.reservationRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(pending(2200), nil)
				s.seatRepo.On("GetByEvent", mock.Anything, 1).Return(testSeats(), nil)
				s.paymentProvider.On("CreateCheckoutSession", mock.Anything, mock.Anything).
					Return(nil, domain.NewUpstreamError("stripe", errors.New("connection refused")))
				s.reservationRepo.On("Cancel", mock.Anything, testReservationId).Return(&domain.Reservation{}, nil)
			},
			wantStatus:     http.StatusBadGateway,
			wantErrMessage: "The stripe service is unavailable, please try again later",
		},
		{
			name:  "priced event with a zero total is never confirmed",
			input: api.CreateReservationRequest{SeatIds: []string{"A1-1"}, Payer: guestPayer},
			setupMocks: func() {
				event := testEvent()
				event.PricingType = domain.PricingZones
				event.ZonePrices = []domain.ZonePrice{{ZoneName: "VIP", Price: decimal.NewFromInt(3000)}}
				s.eventRepo.On("GetById", mock.Anything, 1).Return(event, nil)

				res := pending(0)
				res.SeatIDs = []string{"A1-1"}
				s.reservationRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(res, nil)
				s.reservationRepo.On("Cancel", mock.Anything, testReservationId).Return(&domain.Reservation{}, nil)
			},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: "have no price configured for this event",
		},
		{
			name:  "free event is confirmed at once",
			input: api.CreateReservationRequest{SeatIds: []string{"A1-1"}, Payer: guestPayer},
			setupMocks: func() {
				event := testEvent()
				event.PricingType = domain.PricingFree
				s.eventRepo.On("GetById", mock.Anything, 1).Return(event, nil)

				res := pending(0)
				res.SeatIDs = []string{"A1-1"}
				s.reservationRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(res, nil)

				confirmed := *res
				confirmed.Status = domain.ReservationConfirmed
				confirmed.ConfirmedAt = ptr(testEventStart.Add(-24 * time.Hour))
				s.reservationRepo.On("Confirm", mock.Anything, testReservationId, "free-"+testReservationId.String()).
					Return(&domain.ConfirmResult{Reservation: &confirmed}, nil)

				s.notifier.On("NotifyConfirmed", mock.Anything, mock.MatchedBy(func(b domain.BookingConfirmed) bool {
					return b.ReservationID == testReservationId && b.PayerEmail == "lucia@example.com"
				})).Return(nil)
			},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setupMocks != nil {
				tt.setupMocks()
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/events/1/reservations", tt.input)
			r = withURLParams(r, "eventId", "1")

			if tt.userId != 0 {
				r = setupTestSession(s.T(), s.app, r, tt.userId)
			}

			handler := s.app.sessionManager.LoadAndSave(http.HandlerFunc(s.app.CreateReservation))
			handler.ServeHTTP(w, r)

			s.assertMocks()
			s.Equal(tt.wantStatus, w.Code)

			if tt.wantResponse != nil {
				var response api.ReservationResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				diff := cmp.Diff(tt.wantResponse, &response, decimalComparer)
				s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
			}

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ReservationsTestSuite) TestCancelReservation() {
	owned := func(userId int, status domain.ReservationStatus) *domain.Reservation {
		return &domain.Reservation{
			ID:      testReservationId,
			UserID:  ptr(userId),
			EventID: 1,
			SeatIDs: []string{"A1-1"},
			Status:  status,
			Channel: domain.ChannelOnline,
		}
	}

	tests := []struct {
		name           string
		setupMocks     func()
		wantStatus     int
		wantErrMessage string
	}{
		{
			name: "not found",
			setupMocks: func() {
				s.reservationRepo.On("GetById", mock.Anything, testReservationId).Return(nil, domain.ErrRecordNotFound)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name: "belongs to another user",
			setupMocks: func() {
				s.reservationRepo.On("GetById", mock.Anything, testReservationId).
					Return(owned(2, domain.ReservationPending), nil)
			},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name: "already confirmed",
			setupMocks: func() {
				s.reservationRepo.On("GetById", mock.Anything, testReservationId).
					Return(owned(1, domain.ReservationConfirmed), nil)
				s.reservationRepo.On("Cancel", mock.Anything, testReservationId).Return(nil, domain.ErrInvalidTransition)
			},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrInvalidTransition.Error(),
		},
		{
			name: "cancelled",
			setupMocks: func() {
				s.reservationRepo.On("GetById", mock.Anything, testReservationId).
					Return(owned(1, domain.ReservationPending), nil)
				s.reservationRepo.On("Cancel", mock.Anything, testReservationId).
					Return(owned(1, domain.ReservationCancelled), nil)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			tt.setupMocks()

			w, r := executeRequest(s.T(), http.MethodPost, "/users/me/reservations/"+testReservationId.String()+"/cancel", nil)
			r = withURLParams(r, "reservationId", testReservationId.String())
			r = setupTestSession(s.T(), s.app, r, 1)

			authenticated(s.app, s.app.CancelReservation).ServeHTTP(w, r)

			s.assertMocks()
			s.Equal(tt.wantStatus, w.Code)

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *ReservationsTestSuite) TestGetReservationsOfUser() {
	pagination := domain.NewPagination(1, 10)

	s.reservationRepo.On("GetSummariesByUserId", mock.Anything, 1, pagination).Return(
		[]domain.ReservationSummary{
			{
				ReservationID: testReservationId,
				EventID:       1,
				EventTitle:    "Cuarteto de Jazz",
				EventStartsAt: testEventStart,
				SeatIDs:       []string{"A1-1"},
				TotalAmount:   decimal.NewFromInt(1100),
				Status:        domain.ReservationConfirmed,
				CreatedAt:     testEventStart.Add(-48 * time.Hour),
			},
		},
		&domain.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 10, TotalRecords: 1},
		nil,
	)

	w, r := executeRequest(s.T(), http.MethodGet, "/users/me/reservations?page=1&pageSize=10", nil)
	r = setupTestSession(s.T(), s.app, r, 1)

	authenticated(s.app, s.app.GetReservationsOfUser).ServeHTTP(w, r)

	s.assertMocks()
	s.Equal(http.StatusOK, w.Code)

	var response api.UserReservationsResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&response))

	want := api.UserReservationsResponse{
		Reservations: []api.ReservationSummary{
			{
				ReservationId: testReservationId.String(),
				EventId:       1,
				EventTitle:    "Cuarteto de Jazz",
				EventStartsAt: testEventStart,
				SeatIds:       []string{"A1-1"},
				TotalAmount:   decimal.NewFromInt(1100),
				Status:        "confirmed",
				CreatedAt:     testEventStart.Add(-48 * time.Hour),
			},
		},
		Metadata: api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 10, TotalRecords: 1},
	}

	diff := cmp.Diff(want, response, decimalComparer)
	s.Empty(diff, "Response mismatch (-want +got):\n%s", diff)
}

func (s *ReservationsTestSuite) TestGetReservationsOfUserWithoutSession() {
	w, r := executeRequest(s.T(), http.MethodGet, "/users/me/reservations", nil)

	authenticated(s.app, s.app.GetReservationsOfUser).ServeHTTP(w, r)

	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *ReservationsTestSuite) TestCreateManualBooking() {
	payer := api.PayerRequest{Name: "Mesa de prensa", Email: "prensa@example.com"}

	s.Run("negative amount", func() {
		s.SetupTest()

		w, r := executeRequest(s.T(), http.MethodPost, "/admin/events/1/bookings", api.ManualBookingRequest{
			SeatIds: []string{"A1-1"},
			Payer:   payer,
			Amount:  ptr(decimal.NewFromInt(-5)),
		})
		r = withURLParams(r, "eventId", "1")
		r = setupTestSession(s.T(), s.app, r, 99)

		authenticated(s.app, s.app.CreateManualBooking).ServeHTTP(w, r)

		s.Equal(http.StatusUnprocessableEntity, w.Code)
		checkErrorResponse(s.T(), w, struct {
			wantStatus     int
			wantErrMessage string
		}{http.StatusUnprocessableEntity, "must be zero or greater"})
	})

	s.Run("booked and confirmed", func() {
		s.SetupTest()

		amount := decimal.NewFromInt(500)
		res := &domain.Reservation{
			ID:          testReservationId,
			EventID:     1,
			SeatIDs:     []string{"A1-1"},
			TotalAmount: amount,
			Status:      domain.ReservationPending,
			Channel:     domain.ChannelManual,
			Payer:       domain.Payer{Name: payer.Name, Email: payer.Email},
		}
		confirmed := *res
		confirmed.Status = domain.ReservationConfirmed

		s.reservationRepo.On("Create", mock.Anything, mock.MatchedBy(func(req domain.HoldRequest) bool {
			return req.Channel == domain.ChannelManual && req.Amount != nil && req.Amount.Equal(amount)
		}), mock.Anything).Return(res, nil)
		s.reservationRepo.On("Confirm", mock.Anything, testReservationId, "manual-"+testReservationId.String()).
			Return(&domain.ConfirmResult{Reservation: &confirmed}, nil)
		s.eventRepo.On("GetById", mock.Anything, 1).Return(testEvent(), nil)
		s.notifier.On("NotifyConfirmed", mock.Anything, mock.Anything).Return(nil)

		w, r := executeRequest(s.T(), http.MethodPost, "/admin/events/1/bookings", api.ManualBookingRequest{
			SeatIds: []string{"A1-1"},
			Payer:   payer,
			Amount:  &amount,
		})
		r = withURLParams(r, "eventId", "1")
		r = setupTestSession(s.T(), s.app, r, 99)

		authenticated(s.app, s.app.CreateManualBooking).ServeHTTP(w, r)

		s.assertMocks()
		s.Equal(http.StatusCreated, w.Code)

		var response api.ReservationResponse
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&response))
		s.Equal("confirmed", response.Status)
		s.Equal("manual", response.Channel)
	})
}

func (s *ReservationsTestSuite) TestCheckIn() {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantErrMessage string
	}{
		{name: "checked in", wantStatus: http.StatusOK},
		{name: "already used", err: domain.ErrAlreadyCheckedIn, wantStatus: http.StatusConflict, wantErrMessage: domain.ErrAlreadyCheckedIn.Error()},
		{name: "not confirmed", err: domain.ErrInvalidTransition, wantStatus: http.StatusConflict, wantErrMessage: domain.ErrInvalidTransition.Error()},
		{name: "unknown", err: domain.ErrRecordNotFound, wantStatus: http.StatusNotFound, wantErrMessage: ErrNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.err != nil {
				s.reservationRepo.On("CheckIn", mock.Anything, testReservationId).Return(nil, tt.err)
			} else {
				s.reservationRepo.On("CheckIn", mock.Anything, testReservationId).Return(&domain.Reservation{
					ID:          testReservationId,
					Status:      domain.ReservationConfirmed,
					CheckedInAt: ptr(testEventStart),
				}, nil)
			}

			w, r := executeRequest(s.T(), http.MethodPost, "/admin/reservations/x/check-in", nil)
			r = withURLParams(r, "reservationId", testReservationId.String())

			s.app.CheckIn(w, r)

			s.assertMocks()
			s.Equal(tt.wantStatus, w.Code)

			checkErrorResponse(s.T(), w, struct {
				wantStatus     int
				wantErrMessage string
			}{tt.wantStatus, tt.wantErrMessage})
		})
	}
}

func (s *ReservationsTestSuite) TestExportAttendees() {
	s.Run("bad date", func() {
		s.SetupTest()

		w, r := executeRequest(s.T(), http.MethodGet, "/admin/attendees/export?date=14-06-2025", nil)
		s.app.ExportAttendees(w, r)

		s.Equal(http.StatusBadRequest, w.Code)
		checkErrorResponse(s.T(), w, struct {
			wantStatus     int
			wantErrMessage string
		}{http.StatusBadRequest, "date must be given as YYYY-MM-DD"})
	})

	s.Run("csv", func() {
		s.SetupTest()

		from := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
		s.reservationRepo.On("GetConfirmedBetween", mock.Anything,
			mock.MatchedBy(func(t time.Time) bool { return t.Equal(from) }),
			mock.MatchedBy(func(t time.Time) bool { return t.Equal(from.AddDate(0, 0, 1)) }),
		).Return([]*domain.Reservation{
			{
				ID:          testReservationId,
				EventID:     1,
				SeatIDs:     []string{"A1-1", "A1-2"},
				TotalAmount: decimal.NewFromInt(2200),
				Status:      domain.ReservationConfirmed,
				Channel:     domain.ChannelGuest,
				Payer:       domain.Payer{Name: "Lucia Paz", Email: "lucia@example.com"},
			},
		}, nil)
		s.eventRepo.On("GetById", mock.Anything, 1).Return(testEvent(), nil).Once()

		w, r := executeRequest(s.T(), http.MethodGet, "/admin/attendees/export?date=2025-06-14", nil)
		s.app.ExportAttendees(w, r)

		s.assertMocks()
		s.Equal(http.StatusOK, w.Code)
		s.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		s.Contains(w.Header().Get("Content-Disposition"), "asistentes-2025-06-14.csv")

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		s.Require().Len(lines, 2)
		s.True(strings.HasPrefix(lines[0], "reservation_id,event_id,event"))
		s.Contains(lines[1], "Lucia Paz")
		s.Contains(lines[1], "A1-1 A1-2")
		s.Contains(lines[1], "2200.00")
	})
}
