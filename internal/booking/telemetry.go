package booking

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/metinatakli/cinex-booking/internal/booking"

var tracer = otel.Tracer(instrumentationName)

type metrics struct {
	reservations  metric.Int64Counter
	seatConflicts metric.Int64Counter
	transitions   metric.Int64Counter
	swept         metric.Int64Counter
	refundFailed  metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter(instrumentationName)

	m := &metrics{}
	m.reservations, _ = meter.Int64Counter("booking.reservations",
		metric.WithDescription("Bookings created in PENDING state"))
	m.seatConflicts, _ = meter.Int64Counter("booking.seat_conflicts",
		metric.WithDescription("Reservations rejected because a seat was taken"))
	m.transitions, _ = meter.Int64Counter("booking.transitions",
		metric.WithDescription("Booking status transitions by target status"))
	m.swept, _ = meter.Int64Counter("booking.expired",
		metric.WithDescription("PENDING bookings expired by the sweeper"))
	m.refundFailed, _ = meter.Int64Counter("payment.refund_failures",
		metric.WithDescription("Refund attempts rejected by the payment provider"))

	return m
}
