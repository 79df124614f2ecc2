package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatTemplateUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		data string
		want SeatTemplate
	}{
		{
			name: "numbers",
			data: `{"id":"A1-1","tableId":"A1","tableNumber":1,"label":"Salon","x":10.5,"y":20,"price":1500}`,
			want: SeatTemplate{ID: "A1-1", TableID: "A1", TableNumber: 1, Label: "Salon", X: 10.5, Y: 20, Price: decimal.NewFromInt(1500)},
		},
		{
			name: "numeric strings",
			data: `{"id":"B2-3","tableId":"B2","tableNumber":"2","label":"Barra","x":" 7.25 ","y":"3","price":"2000.50"}`,
			want: SeatTemplate{ID: "B2-3", TableID: "B2", TableNumber: 2, Label: "Barra", X: 7.25, Y: 3, Price: decimal.RequireFromString("2000.50")},
		},
		{
			name: "garbage becomes zero",
			data: `{"id":"C1-1","tableNumber":"uno","x":null,"y":true,"price":"gratis"}`,
			want: SeatTemplate{ID: "C1-1", Price: decimal.Zero},
		},
		{
			name: "non-finite and out of range",
			data: `{"id":"E1-1","x":"NaN","y":"Infinity","tableNumber":"1e30","price":"NaN"}`,
			want: SeatTemplate{ID: "E1-1", Price: decimal.Zero},
		},
		{
			name: "signed infinities",
			data: `{"id":"E1-2","x":"-Inf","y":"+Inf","tableNumber":"-1e30"}`,
			want: SeatTemplate{ID: "E1-2", Price: decimal.Zero},
		},
		{
			name: "fractional table number",
			data: `{"id":"E1-3","tableNumber":"4.7"}`,
			want: SeatTemplate{ID: "E1-3", TableNumber: 4, Price: decimal.Zero},
		},
		{
			name: "numeric id",
			data: `{"id":12,"tableId":"D1"}`,
			want: SeatTemplate{ID: "12", TableID: "D1", Price: decimal.Zero},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SeatTemplate
			require.NoError(t, json.Unmarshal([]byte(tt.data), &got))

			if diff := cmp.Diff(tt.want, got, decimalComparer); diff != "" {
				t.Errorf("unmarshal mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateLayout(t *testing.T) {
	assert.NoError(t, ValidateLayout([]SeatTemplate{{ID: "A1-1"}, {ID: "A1-2"}}))

	err := ValidateLayout(nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must contain at least one seat", verr.Fields["layout"])

	err = ValidateLayout([]SeatTemplate{{ID: "A1-1"}, {ID: "A1-1"}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duplicate seat id A1-1", verr.Fields["layout"])

	err = ValidateLayout([]SeatTemplate{{ID: ""}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "every seat must have an id", verr.Fields["layout"])
}

func zonesEvent() *Event {
	return &Event{
		ID:          3,
		PricingType: PricingZones,
		ZonePrices: []ZonePrice{
			{ZoneName: "Salon", Price: decimal.NewFromInt(5000)},
			{ZoneName: "Barra", Price: decimal.NewFromInt(3000)},
		},
	}
}

func TestMergeLayout(t *testing.T) {
	holder := uuid.MustParse("0b9a3c7e-8f41-4a53-9a0c-1f2e3d4c5b6a")

	prev := []Seat{
		{ID: "A1-1", EventID: 3, Status: SeatReserved, HeldBy: &holder},
		{ID: "A1-2", EventID: 3, Status: SeatOccupied},
		{ID: "A1-3", EventID: 3, Status: SeatBlocked},
		{ID: "A1-4", EventID: 3, Status: SeatAvailable},
		{ID: "Z9-1", EventID: 3, Status: SeatOccupied},
		{ID: "Z9-2", EventID: 3, Status: SeatAvailable},
	}

	templates := []SeatTemplate{
		{ID: "A1-1", TableID: "A1", TableNumber: 1, Label: "Salon"},
		{ID: "A1-2", TableID: "A1", TableNumber: 1, Label: "Salon"},
		{ID: "A1-3", TableID: "A1", TableNumber: 1, Label: "Salon"},
		{ID: "A1-4", TableID: "A1", TableNumber: 1, Label: "Salon"},
		{ID: "B1-1", TableID: "B1", TableNumber: 2, Label: "Barra"},
		{ID: "C1-1", TableID: "C1", TableNumber: 3, Label: "Terraza", Price: decimal.NewFromInt(2000)},
	}

	seats, stats := MergeLayout(zonesEvent(), prev, templates)

	require.Len(t, seats, 6)

	status := make(map[string]SeatStatus)
	for _, s := range seats {
		status[s.ID] = s.Status
		assert.Equal(t, 3, s.EventID)
	}

	assert.Equal(t, SeatReserved, status["A1-1"])
	assert.Equal(t, SeatOccupied, status["A1-2"])
	assert.Equal(t, SeatAvailable, status["A1-3"], "blocked seats are reset")
	assert.Equal(t, SeatAvailable, status["A1-4"])
	assert.Equal(t, SeatAvailable, status["B1-1"])

	assert.Equal(t, &holder, seats[0].HeldBy)
	assert.True(t, seats[0].Price.Equal(decimal.NewFromInt(5000)))
	assert.True(t, seats[4].Price.Equal(decimal.NewFromInt(3000)))
	assert.True(t, seats[5].Price.Equal(decimal.NewFromInt(2000)), "seats outside every zone keep the layout price")

	assert.Equal(t, ReseedStats{
		Total:       6,
		Preserved:   2,
		Reset:       2,
		Added:       2,
		Removed:     2,
		DroppedHeld: []string{"Z9-1"},
	}, stats)
}

func TestMergeLayoutIsIdempotent(t *testing.T) {
	templates := []SeatTemplate{
		{ID: "A1-1", Label: "Salon"},
		{ID: "A1-2", Label: "Salon"},
	}

	first, _ := MergeLayout(zonesEvent(), nil, templates)
	first[1].Status = SeatOccupied

	second, stats := MergeLayout(zonesEvent(), first, templates)
	third, _ := MergeLayout(zonesEvent(), second, templates)

	if diff := cmp.Diff(second, third, decimalComparer); diff != "" {
		t.Errorf("reseed changed a stable layout (-second +third):\n%s", diff)
	}
	assert.Equal(t, 1, stats.Preserved)
	assert.Equal(t, 1, stats.Reset)
}

func TestLayoutSeatsPricing(t *testing.T) {
	templates := []SeatTemplate{{ID: "A1-1", Label: "Salon"}}

	general := &Event{PricingType: PricingGeneral, GeneralPrice: decimal.NewFromInt(2500)}
	free := &Event{PricingType: PricingFree, GeneralPrice: decimal.NewFromInt(2500)}

	assert.True(t, LayoutSeats(general, templates)[0].Price.Equal(decimal.NewFromInt(2500)))
	assert.True(t, LayoutSeats(free, templates)[0].Price.IsZero())
	assert.Equal(t, SeatAvailable, LayoutSeats(general, templates)[0].Status)
}

func TestLayoutSeatsZonesFallBackToLayoutPrice(t *testing.T) {
	event := &Event{
		PricingType: PricingZones,
		ZonePrices:  []ZonePrice{{ZoneName: "VIP", Price: decimal.NewFromInt(3000)}},
	}

	seats := LayoutSeats(event, []SeatTemplate{
		{ID: "A1", Label: "Area Azul", Price: decimal.NewFromInt(5000)},
		{ID: "V1", Label: "VIP", Price: decimal.NewFromInt(5000)},
	})

	assert.True(t, seats[0].Price.Equal(decimal.NewFromInt(5000)))
	assert.True(t, seats[1].Price.Equal(decimal.NewFromInt(3000)))
	assert.False(t, PriceReservation(seats[:1], decimal.Zero).IsZero())
}

func TestCheckZoneNames(t *testing.T) {
	labels := map[string]bool{"Area Azul": true, "Area Roja": true}

	assert.NoError(t, CheckZoneNames([]ZonePrice{{ZoneName: "Area Azul"}, {ZoneName: "Area Roja"}}, labels))
	assert.NoError(t, CheckZoneNames(nil, labels))

	err := CheckZoneNames([]ZonePrice{{ZoneName: "Area Azul"}, {ZoneName: "Zona 1"}}, labels)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, `zone "Zona 1" matches no seat label`, verr.Fields["zonePrices"])
}

func TestSeatStatus(t *testing.T) {
	assert.True(t, SeatBlocked.Valid())
	assert.False(t, SeatStatus("broken").Valid())
	assert.True(t, SeatReserved.Preserved())
	assert.True(t, SeatOccupied.Preserved())
	assert.False(t, SeatBlocked.Preserved())
	assert.False(t, SeatAvailable.Preserved())
}
