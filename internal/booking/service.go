package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

// Deps are the collaborators shared by the booking components. Counter,
// Publisher, Clock and Logger fall back to no-op or real defaults.
type Deps struct {
	Tx        domain.TxManager
	Shows     domain.ShowRepository
	Inventory domain.SeatInventory
	Bookings  domain.BookingRepository
	Payments  domain.PaymentRepository
	Provider  domain.PaymentProvider
	Counter   domain.SeatCounter
	Publisher domain.EventPublisher
	Clock     clock.Clock
	Logger    *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Counter == nil {
		d.Counter = nopCounter{}
	}
	if d.Publisher == nil {
		d.Publisher = nopPublisher{}
	}
	if d.Clock == nil {
		d.Clock = clock.New()
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Service is the entry point used by the HTTP layer and the operator CLI.
type Service struct {
	cfg         Config
	deps        Deps
	Coordinator *Coordinator
	Ledger      *Ledger
	Bridge      *Bridge
	Sweeper     *Sweeper
}

func NewService(cfg Config, deps Deps, locker Locker) *Service {
	deps = deps.withDefaults()

	ledger := NewLedger(cfg, deps)
	bridge := NewBridge(cfg, deps, ledger)

	return &Service{
		cfg:         cfg,
		deps:        deps,
		Ledger:      ledger,
		Coordinator: NewCoordinator(cfg, deps, ledger),
		Bridge:      bridge,
		Sweeper:     NewSweeper(cfg, deps, ledger, bridge, locker),
	}
}

func (s *Service) Reserve(ctx context.Context, showID int, seatIDs []int, userID int) (*domain.Booking, error) {
	return s.Coordinator.Reserve(ctx, showID, seatIDs, userID)
}

func (s *Service) InitiatePayment(ctx context.Context, reference string, userID int) (*domain.PaymentHandle, error) {
	booking, err := s.ownedBooking(ctx, reference, userID)
	if err != nil {
		return nil, err
	}

	return s.Bridge.InitiatePayment(ctx, booking)
}

func (s *Service) ConfirmPayment(ctx context.Context, externalRef string) (bool, error) {
	return s.Bridge.ConfirmPayment(ctx, externalRef)
}

// Cancel cancels a confirmed booking and asks for the refund. When the refund
// fails the cancelled booking is returned together with the payment error.
func (s *Service) Cancel(ctx context.Context, reference string, userID int, reason string) (*domain.Booking, error) {
	booking, err := s.Ledger.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	cancelled, err := s.Ledger.Cancel(ctx, booking.ID, userID, reason)
	if err != nil {
		return nil, err
	}

	_, err = s.Bridge.Refund(ctx, cancelled.ID)
	if err != nil {
		return cancelled, err
	}

	return s.Ledger.GetByID(ctx, cancelled.ID)
}

// RetryRefund re-attempts a rejected refund, either of a cancelled booking
// or of money that settled after the booking had failed.
func (s *Service) RetryRefund(ctx context.Context, reference string) (*domain.Booking, error) {
	booking, err := s.Ledger.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	_, err = s.Bridge.Refund(ctx, booking.ID)
	if err != nil {
		return booking, err
	}

	return s.Ledger.GetByID(ctx, booking.ID)
}

func (s *Service) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return s.Ledger.GetByReference(ctx, reference)
}

// GetOwnedByReference hides bookings of other users behind ErrRecordNotFound.
func (s *Service) GetOwnedByReference(ctx context.Context, reference string, userID int) (*domain.Booking, error) {
	booking, err := s.ownedBooking(ctx, reference, userID)
	if errors.Is(err, domain.ErrUnauthorized) {
		return nil, domain.ErrRecordNotFound
	}
	return booking, err
}

func (s *Service) ListForUser(ctx context.Context, userID int) ([]domain.Booking, error) {
	return s.Ledger.ListForUser(ctx, userID)
}

func (s *Service) Payment(ctx context.Context, bookingID int) (*domain.Payment, error) {
	return s.deps.Payments.GetByBookingID(ctx, bookingID)
}

func (s *Service) SeatLayout(ctx context.Context, showID int) ([]domain.ShowSeat, error) {
	seats, err := s.deps.Inventory.Layout(ctx, showID)
	if err != nil {
		return nil, err
	}

	if len(seats) == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return seats, nil
}

// SeatLabels returns labels such as "C7" for the booking's seats, in the
// order the seats were requested.
func (s *Service) SeatLabels(ctx context.Context, booking *domain.Booking) ([]string, error) {
	seats, err := s.deps.Inventory.GetSeats(ctx, booking.ShowID, booking.SeatIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]string, len(seats))
	for _, seat := range seats {
		byID[seat.SeatID] = seat.Label()
	}

	labels := make([]string, 0, len(booking.SeatIDs))
	for _, id := range booking.SeatIDs {
		if label, ok := byID[id]; ok {
			labels = append(labels, label)
		}
	}

	return labels, nil
}

// AvailableSeats reads the cached counter and falls back to counting seats,
// seeding the counter for the next caller.
func (s *Service) AvailableSeats(ctx context.Context, showID int) (int, error) {
	logger := s.deps.Logger.With("show_id", showID)

	n, ok, err := s.deps.Counter.Get(ctx, showID)
	if err != nil {
		logger.Warn("failed to read available seat counter", "error", err)
	}
	if err == nil && ok {
		return n, nil
	}

	n, err = s.deps.Inventory.CountAvailable(ctx, showID)
	if err != nil {
		return 0, err
	}

	if err := s.deps.Counter.Seed(ctx, showID, n); err != nil {
		logger.Warn("failed to seed available seat counter", "error", err)
	}

	return n, nil
}

func (s *Service) Sweep(ctx context.Context) (int, error) {
	return s.Sweeper.Sweep(ctx)
}

func (s *Service) ownedBooking(ctx context.Context, reference string, userID int) (*domain.Booking, error) {
	booking, err := s.Ledger.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return booking, nil
}

type nopCounter struct{}

func (nopCounter) Adjust(context.Context, int, int) error { return nil }
func (nopCounter) Get(context.Context, int) (int, bool, error) { return 0, false, nil }
func (nopCounter) Seed(context.Context, int, int) error { return nil }

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.Event) error { return nil }
