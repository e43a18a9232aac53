package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventBookingConfirmed    EventType = "booking.confirmed"
	EventBookingFailed       EventType = "booking.failed"
	EventBookingCancelled    EventType = "booking.cancelled"
	EventBookingRefunded     EventType = "booking.refunded"
	EventPaymentRefundFailed EventType = "payment.refund_failed"
)

type Event struct {
	Type             EventType       `json:"type"`
	BookingID        int             `json:"bookingId"`
	BookingReference string          `json:"bookingReference"`
	UserID           int             `json:"userId"`
	ShowID           int             `json:"showId"`
	SeatIDs          []int           `json:"seatIds"`
	Amount           decimal.Decimal `json:"amount"`
	Reason           string          `json:"reason,omitempty"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

func NewBookingEvent(t EventType, b *Booking, reason string, at time.Time) Event {
	return Event{
		Type:             t,
		BookingID:        b.ID,
		BookingReference: b.Reference,
		UserID:           b.UserID,
		ShowID:           b.ShowID,
		SeatIDs:          b.SeatIDs,
		Amount:           b.FinalAmount,
		Reason:           reason,
		OccurredAt:       at,
	}
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
