package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatReserved  SeatStatus = "reserved"
	SeatOccupied  SeatStatus = "occupied"
	SeatBlocked   SeatStatus = "blocked"
)

func (s SeatStatus) Valid() bool {
	switch s {
	case SeatAvailable, SeatReserved, SeatOccupied, SeatBlocked:
		return true
	}

	return false
}

// Preserved reports whether a reseed must carry this status forward.
func (s SeatStatus) Preserved() bool {
	return s == SeatOccupied || s == SeatReserved
}

type Seat struct {
	ID          string
	EventID     int
	TableID     string
	TableNumber int
	Label       string
	Status      SeatStatus
	X           float64
	Y           float64
	Price       decimal.Decimal
	HeldBy      *uuid.UUID
}

// SeatTemplate is one entry of a seat layout. Numeric fields accept JSON
// numbers or numeric strings; anything else decodes as zero.
type SeatTemplate struct {
	ID          string          `json:"id"`
	TableID     string          `json:"tableId"`
	TableNumber int             `json:"tableNumber"`
	Label       string          `json:"label"`
	X           float64         `json:"x"`
	Y           float64         `json:"y"`
	Price       decimal.Decimal `json:"price"`
}

func (t *SeatTemplate) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID          json.RawMessage `json:"id"`
		TableID     json.RawMessage `json:"tableId"`
		TableNumber json.RawMessage `json:"tableNumber"`
		Label       json.RawMessage `json:"label"`
		X           json.RawMessage `json:"x"`
		Y           json.RawMessage `json:"y"`
		Price       json.RawMessage `json:"price"`
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.ID = coerceString(aux.ID)
	t.TableID = coerceString(aux.TableID)
	t.Label = coerceString(aux.Label)
	t.TableNumber = coerceInt(aux.TableNumber)
	t.X = coerceFloat(aux.X)
	t.Y = coerceFloat(aux.Y)
	t.Price = coerceDecimal(aux.Price)

	return nil
}

func rawNumberText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}

	return string(raw)
}

func coerceFloat(raw json.RawMessage) float64 {
	text := rawNumberText(raw)
	if text == "" {
		return 0
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return f
}

// coerceInt truncates to an integer that fits the int4 column; anything
// outside that range counts as invalid.
func coerceInt(raw json.RawMessage) int {
	f := math.Trunc(coerceFloat(raw))
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0
	}

	return int(f)
}

func coerceDecimal(raw json.RawMessage) decimal.Decimal {
	text := rawNumberText(raw)
	if text == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}

	return d
}

func coerceString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	// numeric ids such as 12 are kept as their literal text
	return string(raw)
}

// ValidateLayout checks that every template has a unique, non-empty key.
func ValidateLayout(templates []SeatTemplate) error {
	v := NewValidationError()

	v.Check(len(templates) > 0, "layout", "must contain at least one seat")

	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		if t.ID == "" {
			v.Add("layout", "every seat must have an id")
			continue
		}
		if seen[t.ID] {
			v.Add("layout", "duplicate seat id "+t.ID)
		}
		seen[t.ID] = true
	}

	return v.Err()
}

type ReseedStats struct {
	Total     int
	Preserved int
	Reset     int
	Added     int
	Removed   int
	// Ids of held or occupied seats that the new layout no longer contains.
	DroppedHeld []string
}

// MergeLayout builds the seat set that replaces prev. Seats whose key
// already existed as occupied or reserved keep that status and hold; all
// others start available. Prices follow the event's pricing rule.
func MergeLayout(event *Event, prev []Seat, templates []SeatTemplate) ([]Seat, ReseedStats) {
	prevByID := make(map[string]Seat, len(prev))
	for _, s := range prev {
		prevByID[s.ID] = s
	}

	seats := make([]Seat, 0, len(templates))
	stats := ReseedStats{Total: len(templates)}
	kept := make(map[string]bool, len(templates))

	for _, t := range templates {
		seat := Seat{
			ID:          t.ID,
			EventID:     event.ID,
			TableID:     t.TableID,
			TableNumber: t.TableNumber,
			Label:       t.Label,
			Status:      SeatAvailable,
			X:           t.X,
			Y:           t.Y,
			Price:       event.PriceFor(t.Label, t.Price),
		}

		old, existed := prevByID[t.ID]
		switch {
		case !existed:
			stats.Added++
		case old.Status.Preserved():
			seat.Status = old.Status
			seat.HeldBy = old.HeldBy
			stats.Preserved++
		default:
			stats.Reset++
		}

		kept[t.ID] = true
		seats = append(seats, seat)
	}

	for _, s := range prev {
		if kept[s.ID] {
			continue
		}
		stats.Removed++
		if s.Status.Preserved() {
			stats.DroppedHeld = append(stats.DroppedHeld, s.ID)
		}
	}

	return seats, stats
}

// LayoutSeats prices a template layout for an event without persisting it.
func LayoutSeats(event *Event, templates []SeatTemplate) []Seat {
	seats, _ := MergeLayout(event, nil, templates)
	return seats
}

type SeatRepository interface {
	GetByEvent(ctx context.Context, eventID int) ([]Seat, error)
	Reseed(ctx context.Context, eventID int, templates []SeatTemplate) (*ReseedStats, error)
	SetBlocked(ctx context.Context, eventID int, seatIDs []string, blocked bool) (changed []string, err error)
}
