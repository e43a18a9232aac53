package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Coordinator turns a seat selection into either a PENDING booking holding
// every requested seat or a rejection that holds none of them.
type Coordinator struct {
	cfg       Config
	tx        domain.TxManager
	shows     domain.ShowRepository
	inventory domain.SeatInventory
	counter   domain.SeatCounter
	ledger    *Ledger
	clock     clock.Clock
	logger    *slog.Logger
	metrics   *metrics
}

func NewCoordinator(cfg Config, deps Deps, ledger *Ledger) *Coordinator {
	deps = deps.withDefaults()

	return &Coordinator{
		cfg:       cfg,
		tx:        deps.Tx,
		shows:     deps.Shows,
		inventory: deps.Inventory,
		counter:   deps.Counter,
		ledger:    ledger,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   newMetrics(),
	}
}

func (c *Coordinator) Reserve(ctx context.Context, showID int, seatIDs []int, userID int) (*domain.Booking, error) {
	ctx, span := tracer.Start(ctx, "booking.Reserve", trace.WithAttributes(
		attribute.Int("show.id", showID),
		attribute.IntSlice("seat.ids", seatIDs),
	))
	defer span.End()

	if err := validateSeatIDs(seatIDs); err != nil {
		return nil, err
	}

	show, err := c.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}

	if !show.Bookable(c.clock.Now()) {
		return nil, fmt.Errorf("%w: show %d is not open for booking", domain.ErrInvalidRequest, showID)
	}

	seats, err := c.showSeats(ctx, showID, seatIDs)
	if err != nil {
		return nil, err
	}

	reference, err := c.ledger.NewReference(ctx)
	if err != nil {
		return nil, err
	}

	logger := c.logger.With("booking_reference", reference, "show_id", showID, "user_id", userID)

	var booking *domain.Booking

	err = c.tx.RunInTx(ctx, func(ctx context.Context) error {
		result, err := c.inventory.TryLock(ctx, showID, seatIDs, reference)
		if err != nil {
			return errors.Wrap(err, "lock seats")
		}

		if len(result.Rejected) > 0 {
			if _, err := c.inventory.Release(ctx, showID, result.Granted, reference); err != nil {
				return errors.Wrap(err, "release partial lock")
			}
			return &domain.SeatUnavailableError{SeatIDs: result.Rejected}
		}

		booking, err = c.ledger.CreatePending(ctx, PendingBooking{
			Reference: reference,
			UserID:    userID,
			ShowID:    showID,
			Seats:     seats,
		})
		if err != nil {
			if _, releaseErr := c.inventory.Release(ctx, showID, result.Granted, reference); releaseErr != nil {
				return errors.CombineErrors(err, releaseErr)
			}
			return err
		}

		domain.AfterCommit(ctx, func(ctx context.Context) {
			if err := c.counter.Adjust(ctx, showID, -len(seatIDs)); err != nil {
				logger.Warn("failed to decrement available seat counter", "error", err)
			}
		})

		return nil
	})
	if err != nil {
		var unavailable *domain.SeatUnavailableError
		if errors.As(err, &unavailable) {
			c.metrics.seatConflicts.Add(ctx, 1)
			logger.Info("seat lock rejected", "rejected_seat_ids", unavailable.SeatIDs)
		}
		span.RecordError(err)
		return nil, err
	}

	c.metrics.reservations.Add(ctx, 1)
	logger.Info("booking created", "final_amount", booking.FinalAmount.String())

	return booking, nil
}

// showSeats loads the requested seats in request order and rejects any seat
// that is not part of the show.
func (c *Coordinator) showSeats(ctx context.Context, showID int, seatIDs []int) ([]domain.ShowSeat, error) {
	found, err := c.inventory.GetSeats(ctx, showID, seatIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]domain.ShowSeat, len(found))
	for _, seat := range found {
		byID[seat.SeatID] = seat
	}

	seats := make([]domain.ShowSeat, 0, len(seatIDs))
	var missing []int
	for _, id := range seatIDs {
		seat, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		seats = append(seats, seat)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: seat(s) %v do not belong to show %d", domain.ErrInvalidRequest, missing, showID)
	}

	return seats, nil
}

func validateSeatIDs(seatIDs []int) error {
	if len(seatIDs) == 0 {
		return fmt.Errorf("%w: at least one seat must be selected", domain.ErrInvalidRequest)
	}

	seen := make(map[int]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if id <= 0 {
			return fmt.Errorf("%w: seat ID must be greater than zero", domain.ErrInvalidRequest)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: seat %d selected more than once", domain.ErrInvalidRequest, id)
		}
		seen[id] = struct{}{}
	}

	return nil
}
