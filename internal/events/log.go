package events

import (
	"context"
	"log/slog"

	"github.com/metinatakli/cinex-booking/internal/domain"
)

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.logger.InfoContext(ctx, "booking event",
		"type", event.Type,
		"booking_reference", event.BookingReference,
		"show_id", event.ShowID,
		"reason", event.Reason)
	return nil
}
