// Package ticket delivers PDF tickets for confirmed bookings.
package ticket

import (
	"context"
	"fmt"
	"strings"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/mailer"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/pdf"
)

const TemplateFile = "ticket.tmpl"

type Sender struct {
	mailer mailer.Mailer
}

func NewSender(m mailer.Mailer) *Sender {
	return &Sender{mailer: m}
}

// Send renders the ticket and mails it to the payer. Bookings without a
// payer email are skipped.
func (s *Sender) Send(ctx context.Context, b domain.BookingConfirmed) error {
	if b.PayerEmail == "" {
		return nil
	}

	doc, err := pdf.RenderTicket(b)
	if err != nil {
		return err
	}

	data := map[string]any{
		"PayerName":     b.PayerName,
		"EventTitle":    b.EventTitle,
		"EventDate":     b.EventStartsAt.Format("02/01/2006 15:04"),
		"Seats":         strings.Join(b.SeatIDs, ", "),
		"Total":         b.TotalAmount.StringFixed(2),
		"ReservationID": b.ReservationID.String(),
	}

	attachment := mailer.Attachment{
		Filename: fmt.Sprintf("entrada-%s.pdf", b.ReservationID),
		Data:     doc,
	}

	if err := s.mailer.Send(b.PayerEmail, TemplateFile, data, attachment); err != nil {
		return domain.NewUpstreamError("smtp", err)
	}

	return nil
}

// InlineNotifier sends tickets in the calling goroutine. It is used when no
// message broker is configured.
type InlineNotifier struct {
	sender *Sender
}

func NewInlineNotifier(sender *Sender) *InlineNotifier {
	return &InlineNotifier{sender: sender}
}

func (n *InlineNotifier) NotifyConfirmed(ctx context.Context, b domain.BookingConfirmed) error {
	return n.sender.Send(ctx, b)
}
