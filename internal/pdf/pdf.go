// Package pdf renders printable tickets and door lists.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

const dateLayout = "02/01/2006 15:04"

// RenderTicket produces a one-page ticket whose QR code carries the
// reservation id scanned at the door.
func RenderTicket(b domain.BookingConfirmed) ([]byte, error) {
	qr, err := qrcode.Encode(b.ReservationID.String(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Entrada "+b.ReservationID.String(), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Bargoglio", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 15)
	pdf.MultiCell(0, 8, tr(b.EventTitle), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		"Fecha: " + b.EventStartsAt.Format(dateLayout),
		"Titular: " + b.PayerName,
		"Ubicaciones: " + strings.Join(b.SeatIDs, ", "),
		"Total: $" + b.TotalAmount.StringFixed(2),
	}
	for _, line := range lines {
		pdf.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.RegisterImageOptionsReader("qr", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 39, pdf.GetY()+6, 70, 70, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetY(pdf.GetY() + 80)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, b.ReservationID.String(), "", 1, "C", false, 0, "")

	return output(pdf)
}

// RenderAttendees lays out the door list for one night as a table.
func RenderAttendees(report domain.AttendeeReport) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Asistentes "+report.Date.Format("02/01/2006")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	headers := []string{"Evento", "Hora", "Titular", "Email", "Ubicaciones", "Canal", "Total", "Ingreso"}
	widths := []float64{55, 18, 45, 60, 40, 20, 22, 17}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range report.Rows {
		checkedIn := ""
		if row.CheckedIn {
			checkedIn = "si"
		}

		cells := []string{
			row.EventTitle,
			row.EventStartsAt.Format("15:04"),
			row.PayerName,
			row.PayerEmail,
			strings.Join(row.SeatIDs, " "),
			string(row.Channel),
			row.TotalAmount.StringFixed(2),
			checkedIn,
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, tr(truncate(c, int(widths[i]/1.6))), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, fmt.Sprintf("Reservas: %d  Ubicaciones: %d  Total: $%s",
		len(report.Rows), report.SeatCount(), report.Total().StringFixed(2)), "", 1, "R", false, 0, "")

	return output(pdf)
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
