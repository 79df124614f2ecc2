// Package api holds the JSON request and response bodies of the HTTP API.
package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date is a calendar date encoded as "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = time.DateOnly

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}

	d.Time = t

	return nil
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Password  string `json:"password" validate:"required,password"`
	BirthDate *Date  `json:"birthDate" validate:"omitempty,age_check"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AlreadyLoggedInResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	Id         int             `json:"id"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone,omitempty"`
	BirthDate  *Date           `json:"birthDate,omitempty"`
	Role       string          `json:"role"`
	Points     int             `json:"points"`
	Tier       string          `json:"tier"`
	TotalSpent decimal.Decimal `json:"totalSpent"`
	VisitCount int             `json:"visitCount"`
	LastVisit  *time.Time      `json:"lastVisit,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Version    int             `json:"version"`
}

type PointsAdjustRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=200"`
}

type ZonePrice struct {
	ZoneName string          `json:"zoneName" validate:"required,max=50"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Color    string          `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type EventRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"max=5000"`
	FlyerUrl     string          `json:"flyerUrl" validate:"omitempty,url"`
	Category     string          `json:"category" validate:"max=50"`
	StartsAt     time.Time       `json:"startsAt" validate:"required"`
	PricingType  string          `json:"pricingType" validate:"required,oneof=zones general free"`
	GeneralPrice decimal.Decimal `json:"generalPrice" validate:"gte=0"`
	ZonePrices   []ZonePrice     `json:"zonePrices" validate:"required_if=PricingType zones,dive"`
	IsActive     *bool           `json:"isActive"`
	Version      int             `json:"version"`
}

type EventResponse struct {
	Id           int             `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	FlyerUrl     string          `json:"flyerUrl"`
	Category     string          `json:"category"`
	StartsAt     time.Time       `json:"startsAt"`
	PricingType  string          `json:"pricingType"`
	GeneralPrice decimal.Decimal `json:"generalPrice"`
	ZonePrices   []ZonePrice     `json:"zonePrices"`
	IsActive     bool            `json:"isActive"`
	Version      int             `json:"version"`
}

type EventsResponse struct {
	Events   []EventResponse `json:"events"`
	Metadata Metadata        `json:"metadata"`
}

type SeatResponse struct {
	Id          string          `json:"id"`
	TableId     string          `json:"tableId"`
	TableNumber int             `json:"tableNumber"`
	Label       string          `json:"label"`
	Status      string          `json:"status"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Price       decimal.Decimal `json:"price"`
}

type SeatMapResponse struct {
	EventId   int            `json:"eventId"`
	Persisted bool           `json:"persisted"`
	Seats     []SeatResponse `json:"seats"`
}

type SeatIdsRequest struct {
	SeatIds []string `json:"seatIds" validate:"required,min=1,max=100,dive,required,max=32"`
}

type BlockSeatsResponse struct {
	Changed []string `json:"changed"`
	Skipped []string `json:"skipped"`
}

type ReseedResponse struct {
	Total       int      `json:"total"`
	Preserved   int      `json:"preserved"`
	Reset       int      `json:"reset"`
	Added       int      `json:"added"`
	Removed     int      `json:"removed"`
	DroppedHeld []string `json:"droppedHeld"`
}

type PayerRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

type CreateReservationRequest struct {
	SeatIds []string      `json:"seatIds" validate:"required,min=1,max=20,unique,dive,required,max=32"`
	Payer   *PayerRequest `json:"payer"`
}

type ManualBookingRequest struct {
	SeatIds []string         `json:"seatIds" validate:"required,min=1,max=50,unique,dive,required,max=32"`
	Payer   PayerRequest     `json:"payer"`
	Amount  *decimal.Decimal `json:"amount"`
}

type ReservationResponse struct {
	Id          string          `json:"id"`
	EventId     int             `json:"eventId"`
	SeatIds     []string        `json:"seatIds"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      string          `json:"status"`
	Channel     string          `json:"channel"`
	ExpiresAt   *time.Time      `json:"expiresAt,omitempty"`
	CheckoutUrl string          `json:"checkoutUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	ConfirmedAt *time.Time      `json:"confirmedAt,omitempty"`
	CheckedInAt *time.Time      `json:"checkedInAt,omitempty"`
}

type ReservationSummary struct {
	ReservationId string          `json:"reservationId"`
	EventId       int             `json:"eventId"`
	EventTitle    string          `json:"eventTitle"`
	EventStartsAt time.Time       `json:"eventStartsAt"`
	SeatIds       []string        `json:"seatIds"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type UserReservationsResponse struct {
	Reservations []ReservationSummary `json:"reservations"`
	Metadata     Metadata             `json:"metadata"`
}

type AssetResponse struct {
	PublicId string `json:"publicId"`
	Url      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
}
