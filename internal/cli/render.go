package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

var seatMarks = map[domain.SeatStatus]string{
	domain.SeatStatusAvailable: ".",
	domain.SeatStatusLocked:    "L",
	domain.SeatStatusBooked:    "B",
}

// renderLayout draws one table row per seat row. Seat layouts come ordered by
// row and number.
func renderLayout(out io.Writer, showID, available int, seats []domain.ShowSeat) {
	maxNumber := 0
	for _, seat := range seats {
		maxNumber = max(maxNumber, seat.Number)
	}

	header := table.Row{"Row"}
	for n := 1; n <= maxNumber; n++ {
		header = append(header, n)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Show %d", showID)
	t.AppendHeader(header)

	var (
		current string
		row     table.Row
	)
	flush := func() {
		if row != nil {
			t.AppendRow(row)
		}
	}

	for _, seat := range seats {
		if seat.Row != current {
			flush()
			current = seat.Row
			row = make(table.Row, maxNumber+1)
			row[0] = seat.Row
			for i := 1; i <= maxNumber; i++ {
				row[i] = ""
			}
		}
		row[seat.Number] = seatMarks[seat.Status]
	}
	flush()

	t.AppendFooter(table.Row{"Free", available})
	t.SetCaption(". available  L locked  B booked")
	t.Render()
}

func renderBooking(out io.Writer, b *domain.Booking, payment *domain.Payment) error {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(b.Reference)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.Bold}},
	})

	t.AppendRows([]table.Row{
		{"Status", b.Status},
		{"User", b.UserID},
		{"Show", b.ShowID},
		{"Seats", fmt.Sprint(b.SeatIDs)},
		{"Total", b.TotalAmount.StringFixed(2)},
		{"Fee", b.Fee.StringFixed(2)},
		{"Final", b.FinalAmount.StringFixed(2)},
		{"Created", b.CreatedAt.Format(time.RFC3339)},
	})

	if b.FailureReason != nil {
		t.AppendRow(table.Row{"Failure", *b.FailureReason})
	}
	if b.CancelledAt != nil {
		t.AppendRow(table.Row{"Cancelled", b.CancelledAt.Format(time.RFC3339)})
	}
	if b.CancellationReason != nil {
		t.AppendRow(table.Row{"Reason", *b.CancellationReason})
	}

	if payment != nil {
		t.AppendSeparator()
		t.AppendRows([]table.Row{
			{"Payment", payment.Status},
			{"Intent", payment.ExternalRef},
			{"Amount", payment.Amount.StringFixed(2) + " " + payment.Currency},
			{"Settlement", deref(payment.SettlementRef)},
			{"Refund", deref(payment.RefundRef)},
		})
		if payment.ErrorMsg != nil {
			t.AppendRow(table.Row{"Error", *payment.ErrorMsg})
		}
	}

	t.Render()
	return nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
