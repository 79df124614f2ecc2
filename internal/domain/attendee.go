package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendeeRow is one confirmed reservation on the door list.
type AttendeeRow struct {
	ReservationID string
	EventID       int
	EventTitle    string
	EventStartsAt time.Time
	PayerName     string
	PayerEmail    string
	PayerPhone    string
	SeatIDs       []string
	Channel       Channel
	TotalAmount   decimal.Decimal
	CheckedIn     bool
}

type AttendeeReport struct {
	Date time.Time
	Rows []AttendeeRow
}

func (r AttendeeReport) Total() decimal.Decimal {
	total := decimal.Zero
	for _, row := range r.Rows {
		total = total.Add(row.TotalAmount)
	}

	return total
}

func (r AttendeeReport) SeatCount() int {
	n := 0
	for _, row := range r.Rows {
		n += len(row.SeatIDs)
	}

	return n
}
