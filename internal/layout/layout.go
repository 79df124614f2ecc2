// Package layout holds the club's canonical seat map, used whenever an
// event has no seats of its own.
package layout

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
)

//go:embed default_seats.json
var defaultSeatsJSON []byte

var (
	defaultOnce  sync.Once
	defaultSeats []domain.SeatTemplate
)

// Default returns a copy of the canonical layout.
func Default() []domain.SeatTemplate {
	defaultOnce.Do(func() {
		seats, err := Parse(defaultSeatsJSON)
		if err != nil {
			panic(fmt.Sprintf("layout: embedded default layout is invalid: %v", err))
		}
		defaultSeats = seats
	})

	out := make([]domain.SeatTemplate, len(defaultSeats))
	copy(out, defaultSeats)

	return out
}

// Parse decodes and validates a JSON array of seat templates.
func Parse(data []byte) ([]domain.SeatTemplate, error) {
	var seats []domain.SeatTemplate

	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}

	if err := domain.ValidateLayout(seats); err != nil {
		return nil, err
	}

	return seats, nil
}

func Read(r io.Reader) ([]domain.SeatTemplate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}
