package booking_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/metinatakli/cinex-booking/internal/booking"
	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/memstore"
	"github.com/metinatakli/cinex-booking/internal/mocks"
	"github.com/metinatakli/cinex-booking/internal/payment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testShowID = 1
	userX      = 10
	userY      = 20

	seatA1 = 1
	seatA2 = 2
	seatA3 = 3
	seatB1 = 4
)

var showStart = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

type harness struct {
	ctx       context.Context
	store     *memstore.Store
	provider  *payment.MockPaymentProvider
	publisher *mocks.RecordingPublisher
	clock     *clock.MockClock
	cfg       booking.Config
	svc       *booking.Service
}

type harnessOption func(*harness, *booking.Deps)

func withProvider(p domain.PaymentProvider) harnessOption {
	return func(_ *harness, d *booking.Deps) { d.Provider = p }
}

func withPayments(p domain.PaymentRepository) harnessOption {
	return func(_ *harness, d *booking.Deps) { d.Payments = p }
}

func withPublisher(p domain.EventPublisher) harnessOption {
	return func(_ *harness, d *booking.Deps) { d.Publisher = p }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	h := &harness{
		ctx:       context.Background(),
		store:     memstore.New(),
		provider:  payment.NewMockPaymentProvider(false),
		publisher: &mocks.RecordingPublisher{},
		clock:     clock.NewMockClock(showStart.Add(-48 * time.Hour)),
		cfg:       booking.DefaultConfig(),
	}

	h.store.Shows.Put(domain.Show{
		ID:          testShowID,
		MovieTitle:  "Interstellar",
		TheaterName: "CineX Downtown",
		ScreenName:  "Screen 1",
		StartTime:   showStart,
		Status:      domain.ShowStatusUpcoming,
		Currency:    "INR",
	})

	h.store.Inventory.AddSeats(testShowID,
		domain.ShowSeat{SeatID: seatA1, Row: "A", Number: 1, Price: decimal.NewFromInt(200)},
		domain.ShowSeat{SeatID: seatA2, Row: "A", Number: 2, Price: decimal.NewFromInt(200)},
		domain.ShowSeat{SeatID: seatA3, Row: "A", Number: 3, Price: decimal.NewFromInt(200)},
		domain.ShowSeat{SeatID: seatB1, Row: "B", Number: 1, Price: decimal.NewFromInt(350)},
	)
	require.NoError(t, h.store.Counter.Seed(h.ctx, testShowID, 4))

	deps := booking.Deps{
		Tx:        h.store.Tx,
		Shows:     h.store.Shows,
		Inventory: h.store.Inventory,
		Bookings:  h.store.Bookings,
		Payments:  h.store.Payments,
		Provider:  h.provider,
		Counter:   h.store.Counter,
		Publisher: h.publisher,
		Clock:     h.clock,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(h, &deps)
	}

	h.svc = booking.NewService(h.cfg, deps, nil)

	return h
}

func (h *harness) reserve(t *testing.T, userID int, seatIDs ...int) *domain.Booking {
	t.Helper()

	b, err := h.svc.Reserve(h.ctx, testShowID, seatIDs, userID)
	require.NoError(t, err)

	return b
}

// pay starts the payment of b, lets the provider settle it and confirms it.
func (h *harness) pay(t *testing.T, b *domain.Booking) *domain.PaymentHandle {
	t.Helper()

	handle, err := h.svc.InitiatePayment(h.ctx, b.Reference, b.UserID)
	require.NoError(t, err)
	require.NoError(t, h.provider.Succeed(handle.ExternalRef))

	paid, err := h.svc.ConfirmPayment(h.ctx, handle.ExternalRef)
	require.NoError(t, err)
	require.True(t, paid)

	return handle
}

func (h *harness) seatStatuses(t *testing.T, seatIDs ...int) []domain.SeatStatus {
	t.Helper()

	seats, err := h.store.Inventory.GetSeats(h.ctx, testShowID, seatIDs)
	require.NoError(t, err)

	statuses := make([]domain.SeatStatus, 0, len(seats))
	for _, seat := range seats {
		statuses = append(statuses, seat.Status)
	}
	return statuses
}

func (h *harness) booking(t *testing.T, id int) *domain.Booking {
	t.Helper()

	b, err := h.store.Bookings.GetByID(h.ctx, id)
	require.NoError(t, err)
	return b
}

func (h *harness) available(t *testing.T) int {
	t.Helper()

	n, ok, err := h.store.Counter.Get(h.ctx, testShowID)
	require.NoError(t, err)
	require.True(t, ok)
	return n
}

func statuses(s domain.SeatStatus, n int) []domain.SeatStatus {
	out := make([]domain.SeatStatus, n)
	for i := range out {
		out[i] = s
	}
	return out
}
