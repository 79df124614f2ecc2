package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/api"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testPassword     = "Blue&Note1959"
	sessionCookie    = "session_id"
	defaultSeatA     = "Z1-5-1"
	defaultSeatB     = "Z1-5-2"
	defaultSeatC     = "Z1-6-1"
	generalSeatPrice = 5000
)

// showDate is far enough ahead that no test data crosses it by accident.
var showDate = time.Date(2030, time.May, 10, 21, 0, 0, 0, time.Local)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	return req
}

func compareResponse(t *testing.T, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

func (s *BaseSuite) createUser(email string, role domain.Role) *domain.User {
	ctx := context.Background()

	user := &domain.User{
		FirstName: strings.Split(email, "@")[0],
		LastName:  "Test",
		Email:     email,
	}
	s.Require().NoError(user.Password.Set(testPassword))
	s.Require().NoError(s.app.Users.Create(ctx, user))

	if role == domain.RoleAdmin {
		promoted, _, err := s.app.Users.SetRoleByEmail(ctx, email, domain.RoleAdmin)
		s.Require().NoError(err)
		user = promoted
	}

	return user
}

func (s *BaseSuite) login(email string) *http.Cookie {
	res := s.do(http.MethodPost, "/auth/login", api.LoginRequest{Email: email, Password: testPassword}, nil, nil)
	s.Require().Equal(http.StatusNoContent, res.StatusCode)

	for _, c := range res.Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}

	s.FailNow("login did not set a session cookie")
	return nil
}

func (s *BaseSuite) createEvent(title string) *domain.Event {
	event := &domain.Event{
		Title:        title,
		StartsAt:     showDate,
		PricingType:  domain.PricingGeneral,
		GeneralPrice: decimal.NewFromInt(generalSeatPrice),
		ZonePrices:   []domain.ZonePrice{},
		IsActive:     true,
	}
	s.Require().NoError(s.app.Events.Create(context.Background(), event))

	return event
}

func (s *BaseSuite) holdPolicy() domain.HoldPolicy {
	return domain.HoldPolicy{TTL: 35 * time.Minute, ServiceFee: decimal.RequireFromString("0.1")}
}

// book holds seats for userID and confirms them with a fresh payment id.
func (s *BaseSuite) book(eventID int, userID *int, seats ...string) *domain.Reservation {
	ctx := context.Background()

	reservation, err := s.app.Reservations.Create(ctx, domain.HoldRequest{
		EventID: eventID,
		SeatIDs: seats,
		UserID:  userID,
		Payer:   domain.Payer{Name: "Test Payer", Email: "payer@example.com"},
		Channel: domain.ChannelOnline,
	}, s.holdPolicy())
	s.Require().NoError(err)

	result, err := s.app.Reservations.Confirm(ctx, reservation.ID, "pi_"+uuid.NewString())
	s.Require().NoError(err)

	return result.Reservation
}

func (s *BaseSuite) seatStatuses(eventID int) map[string]domain.SeatStatus {
	seats, err := s.app.Seats.GetByEvent(context.Background(), eventID)
	s.Require().NoError(err)

	out := make(map[string]domain.SeatStatus, len(seats))
	for _, seat := range seats {
		out[seat.ID] = seat.Status
	}

	return out
}

func webhookPayload(reservationID uuid.UUID, paymentID string, status domain.PaymentStatus) domain.PaymentNotification {
	return domain.PaymentNotification{
		Type:          "checkout.session.completed",
		PaymentID:     paymentID,
		ReservationID: reservationID,
		Status:        status,
	}
}

func reservationsPath(eventID int) string {
	return fmt.Sprintf("/events/%d/reservations", eventID)
}
