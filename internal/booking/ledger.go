package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const reasonExpired = "payment window expired"

var ErrReferenceExhausted = errors.New("could not generate a unique booking reference")

type PendingBooking struct {
	Reference string
	UserID    int
	ShowID    int
	Seats     []domain.ShowSeat
}

// Ledger owns booking state transitions. Each transition runs in one storage
// transaction that locks the booking, checks the move is legal, applies the
// seat side effect and compare-and-sets the status.
type Ledger struct {
	cfg       Config
	tx        domain.TxManager
	bookings  domain.BookingRepository
	shows     domain.ShowRepository
	inventory domain.SeatInventory
	counter   domain.SeatCounter
	publisher domain.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
	metrics   *metrics
}

func NewLedger(cfg Config, deps Deps) *Ledger {
	deps = deps.withDefaults()

	return &Ledger{
		cfg:       cfg,
		tx:        deps.Tx,
		bookings:  deps.Bookings,
		shows:     deps.Shows,
		inventory: deps.Inventory,
		counter:   deps.Counter,
		publisher: deps.Publisher,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   newMetrics(),
	}
}

// NewReference returns a reference such as MBK-3F9A0C1D that no stored
// booking uses yet.
func (l *Ledger) NewReference(ctx context.Context) (string, error) {
	attempts := max(l.cfg.ReferenceAttempts, 1)

	for range attempts {
		ref := l.cfg.ReferencePrefix + strings.ToUpper(uuid.NewString()[:8])

		exists, err := l.bookings.ReferenceExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}

	return "", ErrReferenceExhausted
}

func (l *Ledger) CreatePending(ctx context.Context, p PendingBooking) (*domain.Booking, error) {
	total := decimal.Zero
	seatIDs := make([]int, 0, len(p.Seats))
	for _, seat := range p.Seats {
		total = total.Add(seat.Price)
		seatIDs = append(seatIDs, seat.SeatID)
	}

	fee := domain.CalculateFee(total, l.cfg.FeeRate)
	now := l.clock.Now()

	booking := &domain.Booking{
		Reference:   p.Reference,
		UserID:      p.UserID,
		ShowID:      p.ShowID,
		SeatIDs:     seatIDs,
		TotalAmount: total,
		Fee:         fee,
		FinalAmount: total.Add(fee),
		Status:      domain.BookingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := l.bookings.Create(ctx, booking); err != nil {
		return nil, errors.Wrapf(err, "create booking %s", p.Reference)
	}

	return booking, nil
}

// Confirm commits the booking's seats. Confirming an already confirmed
// booking returns it unchanged.
func (l *Ledger) Confirm(ctx context.Context, bookingID int) (*domain.Booking, error) {
	return l.transition(ctx, bookingID, domain.BookingStatusConfirmed, transitionSpec{
		skip: func(b *domain.Booking) (bool, error) {
			return b.Status == domain.BookingStatusConfirmed, nil
		},
		apply: func(ctx context.Context, b *domain.Booking) (int, error) {
			if err := l.inventory.Commit(ctx, b.ShowID, b.SeatIDs, b.Reference); err != nil {
				return 0, errors.Wrapf(err, "commit seats of %s", b.Reference)
			}
			return 0, nil
		},
	})
}

func (l *Ledger) MarkFailed(ctx context.Context, bookingID int, reason string) (*domain.Booking, error) {
	return l.transition(ctx, bookingID, domain.BookingStatusFailed, transitionSpec{
		reason: reason,
		skip: func(b *domain.Booking) (bool, error) {
			return b.Status == domain.BookingStatusFailed, nil
		},
		apply: func(ctx context.Context, b *domain.Booking) (int, error) {
			b.FailureReason = &reason
			return l.release(ctx, b)
		},
	})
}

// Expire fails a PENDING booking whose payment window has passed. Any other
// status is left alone, so overlapping sweeps are harmless.
func (l *Ledger) Expire(ctx context.Context, bookingID int) (bool, error) {
	expired := false

	_, err := l.transition(ctx, bookingID, domain.BookingStatusFailed, transitionSpec{
		reason: reasonExpired,
		skip: func(b *domain.Booking) (bool, error) {
			expired = false
			return b.Status != domain.BookingStatusPending, nil
		},
		apply: func(ctx context.Context, b *domain.Booking) (int, error) {
			reason := reasonExpired
			b.FailureReason = &reason
			expired = true
			return l.release(ctx, b)
		},
	})
	if err != nil {
		return false, err
	}

	return expired, nil
}

func (l *Ledger) Cancel(ctx context.Context, bookingID int, userID int, reason string) (*domain.Booking, error) {
	return l.transition(ctx, bookingID, domain.BookingStatusCancelled, transitionSpec{
		reason: reason,
		skip: func(b *domain.Booking) (bool, error) {
			if b.UserID != userID {
				return false, domain.ErrUnauthorized
			}
			if b.Status != domain.BookingStatusConfirmed {
				return false, &domain.IllegalStateError{Current: b.Status, Attempted: domain.BookingStatusCancelled}
			}

			show, err := l.shows.GetByID(ctx, b.ShowID)
			if err != nil {
				return false, err
			}
			if show.Started(l.clock.Now()) {
				return false, fmt.Errorf("%w: show has already started", domain.ErrInvalidRequest)
			}

			return false, nil
		},
		apply: func(ctx context.Context, b *domain.Booking) (int, error) {
			now := l.clock.Now()
			b.CancelledAt = &now
			b.CancellationReason = &reason
			return l.release(ctx, b)
		},
	})
}

func (l *Ledger) MarkRefunded(ctx context.Context, bookingID int) (*domain.Booking, error) {
	return l.transition(ctx, bookingID, domain.BookingStatusRefunded, transitionSpec{
		skip: func(b *domain.Booking) (bool, error) {
			return b.Status == domain.BookingStatusRefunded, nil
		},
	})
}

func (l *Ledger) GetByID(ctx context.Context, id int) (*domain.Booking, error) {
	return l.bookings.GetByID(ctx, id)
}

func (l *Ledger) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return l.bookings.GetByReference(ctx, reference)
}

// ListForUser returns the user's bookings, most recent first.
func (l *Ledger) ListForUser(ctx context.Context, userID int) ([]domain.Booking, error) {
	return l.bookings.ListByUser(ctx, userID)
}

type transitionSpec struct {
	reason string
	// skip returns true to leave the booking untouched and report it as is.
	skip func(b *domain.Booking) (bool, error)
	// apply runs the seat side effect and returns how many seats were freed.
	apply func(ctx context.Context, b *domain.Booking) (int, error)
}

func (l *Ledger) transition(
	ctx context.Context,
	bookingID int,
	to domain.BookingStatus,
	spec transitionSpec) (*domain.Booking, error) {

	ctx, span := tracer.Start(ctx, "booking.Transition")
	defer span.End()
	span.SetAttributes(attribute.Int("booking.id", bookingID), attribute.String("booking.to", string(to)))

	var booking *domain.Booking

	err := l.tx.RunInTx(ctx, func(ctx context.Context) error {
		b, err := l.bookings.GetForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		booking = b

		if spec.skip != nil {
			skip, err := spec.skip(b)
			if err != nil || skip {
				return err
			}
		}

		from := b.Status
		if !from.CanTransitionTo(to) {
			return &domain.IllegalStateError{Current: from, Attempted: to}
		}

		released := 0
		if spec.apply != nil {
			released, err = spec.apply(ctx, b)
			if err != nil {
				return err
			}
		}

		b.Status = to
		b.UpdatedAt = l.clock.Now()

		if err := l.bookings.UpdateStatus(ctx, b, from); err != nil {
			return errors.Wrapf(err, "update booking %s to %s", b.Reference, to)
		}

		snapshot := *b
		domain.AfterCommit(ctx, func(ctx context.Context) {
			l.afterTransition(ctx, &snapshot, from, released, spec.reason)
		})

		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrInventory) {
			l.logger.Error("seat inventory disagrees with booking ledger",
				"booking_id", bookingID, "to", to, "error", fmt.Sprintf("%+v", err))
		}
		return nil, err
	}

	return booking, nil
}

func (l *Ledger) afterTransition(ctx context.Context, b *domain.Booking, from domain.BookingStatus, released int, reason string) {
	logger := l.logger.With("booking_reference", b.Reference, "from", from, "to", b.Status)

	if released > 0 {
		if err := l.counter.Adjust(ctx, b.ShowID, released); err != nil {
			logger.Warn("failed to restore available seat counter", "error", err)
		}
	}

	l.metrics.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(b.Status))))
	logger.Info("booking status changed", "released_seats", released)

	eventType, ok := transitionEvents[b.Status]
	if !ok {
		return
	}

	if err := l.publisher.Publish(ctx, domain.NewBookingEvent(eventType, b, reason, l.clock.Now())); err != nil {
		logger.Warn("failed to publish booking event", "event", eventType, "error", err)
	}
}

func (l *Ledger) release(ctx context.Context, b *domain.Booking) (int, error) {
	released, err := l.inventory.Release(ctx, b.ShowID, b.SeatIDs, b.Reference)
	if err != nil {
		return 0, errors.Wrapf(err, "release seats of %s", b.Reference)
	}
	return released, nil
}

var transitionEvents = map[domain.BookingStatus]domain.EventType{
	domain.BookingStatusConfirmed: domain.EventBookingConfirmed,
	domain.BookingStatusFailed:    domain.EventBookingFailed,
	domain.BookingStatusCancelled: domain.EventBookingCancelled,
	domain.BookingStatusRefunded:  domain.EventBookingRefunded,
}
