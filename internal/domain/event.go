package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type PricingType string

const (
	PricingZones   PricingType = "zones"
	PricingGeneral PricingType = "general"
	PricingFree    PricingType = "free"
)

func (p PricingType) Valid() bool {
	switch p {
	case PricingZones, PricingGeneral, PricingFree:
		return true
	}

	return false
}

type ZonePrice struct {
	ZoneName string          `json:"zoneName"`
	Price    decimal.Decimal `json:"price"`
	Color    string          `json:"color,omitempty"`
}

type Event struct {
	ID           int
	Title        string
	Description  string
	FlyerURL     string
	Category     string
	StartsAt     time.Time
	PricingType  PricingType
	GeneralPrice decimal.Decimal
	ZonePrices   []ZonePrice
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int
}

// PriceFor returns the price of a seat under the event's pricing rule. A
// zones event prices seats whose label matches no zone at base, the price
// the layout carries for that seat.
func (e *Event) PriceFor(label string, base decimal.Decimal) decimal.Decimal {
	switch e.PricingType {
	case PricingGeneral:
		return e.GeneralPrice
	case PricingFree:
		return decimal.Zero
	case PricingZones:
		for _, z := range e.ZonePrices {
			if z.ZoneName == label {
				return z.Price
			}
		}
	}

	return base
}

// CheckZoneNames reports every zone whose name is not a seat label of the
// layout the event is sold with.
func CheckZoneNames(zones []ZonePrice, labels map[string]bool) error {
	v := NewValidationError()

	for _, z := range zones {
		if !labels[z.ZoneName] {
			v.Add("zonePrices", fmt.Sprintf("zone %q matches no seat label", z.ZoneName))
		}
	}

	return v.Err()
}

type EventFilters struct {
	ActiveOnly bool
	From       *time.Time
	Pagination
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	Update(ctx context.Context, event *Event) error
	GetById(ctx context.Context, id int) (*Event, error)
	GetAll(ctx context.Context, filters EventFilters) ([]*Event, *Metadata, error)
	ListIDs(ctx context.Context) ([]int, error)
}
