package jobs

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
)

// BuildAttendeeReport lists confirmed reservations for events starting on
// date's calendar day, ordered by show time and payer.
func BuildAttendeeReport(
	ctx context.Context,
	reservations domain.ReservationRepository,
	cache *EventCache,
	date time.Time) (domain.AttendeeReport, error) {

	from := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	to := from.AddDate(0, 0, 1)

	report := domain.AttendeeReport{Date: from}

	confirmed, err := reservations.GetConfirmedBetween(ctx, from, to)
	if err != nil {
		return report, fmt.Errorf("list confirmed reservations: %w", err)
	}

	rows := make([]domain.AttendeeRow, 0, len(confirmed))

	for _, r := range confirmed {
		event, err := cache.Get(ctx, r.EventID)
		if err != nil {
			return report, fmt.Errorf("resolve event %d: %w", r.EventID, err)
		}

		rows = append(rows, domain.AttendeeRow{
			ReservationID: r.ID.String(),
			EventID:       event.ID,
			EventTitle:    event.Title,
			EventStartsAt: event.StartsAt,
			PayerName:     r.Payer.Name,
			PayerEmail:    r.Payer.Email,
			PayerPhone:    r.Payer.Phone,
			SeatIDs:       r.SeatIDs,
			Channel:       r.Channel,
			TotalAmount:   r.TotalAmount,
			CheckedIn:     r.CheckedInAt != nil,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].EventStartsAt.Equal(rows[j].EventStartsAt) {
			return rows[i].EventStartsAt.Before(rows[j].EventStartsAt)
		}
		return strings.ToLower(rows[i].PayerName) < strings.ToLower(rows[j].PayerName)
	})

	report.Rows = rows

	return report, nil
}

var attendeeHeader = []string{
	"reservation_id", "event_id", "event", "starts_at", "payer", "email", "phone",
	"seats", "channel", "total", "checked_in",
}

func WriteAttendeesCSV(w io.Writer, report domain.AttendeeReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(attendeeHeader); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{
			row.ReservationID,
			fmt.Sprint(row.EventID),
			row.EventTitle,
			row.EventStartsAt.Format(time.RFC3339),
			row.PayerName,
			row.PayerEmail,
			row.PayerPhone,
			strings.Join(row.SeatIDs, " "),
			string(row.Channel),
			row.TotalAmount.StringFixed(2),
			fmt.Sprint(row.CheckedIn),
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
