package booking

import (
	"context"
	"log/slog"
	"time"

	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

const sweepLockKey = "booking:sweeper:lock"

// Locker keeps replicas from sweeping the same batch at the same time.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(context.Context) error, ok bool, err error)
}

// Sweeper fails PENDING bookings whose payment window has passed and frees
// their seats.
type Sweeper struct {
	cfg      Config
	bookings domain.BookingRepository
	ledger   *Ledger
	bridge   *Bridge
	locker   Locker
	clock    clock.Clock
	logger   *slog.Logger
	metrics  *metrics
}

func NewSweeper(cfg Config, deps Deps, ledger *Ledger, bridge *Bridge, locker Locker) *Sweeper {
	deps = deps.withDefaults()

	return &Sweeper{
		cfg:      cfg,
		bookings: deps.Bookings,
		ledger:   ledger,
		bridge:   bridge,
		locker:   locker,
		clock:    deps.Clock,
		logger:   deps.Logger.With("component", "sweeper"),
		metrics:  newMetrics(),
	}
}

func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	s.logger.Info("sweeper started", "interval", s.cfg.SweepInterval, "timeout", s.cfg.ExpiryTimeout)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopping")
			return nil
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

// Sweep expires one batch of stale bookings and reports how many it failed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "booking.Sweep")
	defer span.End()

	if s.locker != nil {
		unlock, ok, err := s.locker.TryLock(ctx, sweepLockKey, s.cfg.SweepInterval)
		if err != nil {
			return 0, err
		}
		if !ok {
			s.logger.Debug("sweep skipped, lock held by another instance")
			return 0, nil
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release sweeper lock", "error", err)
			}
		}()
	}

	cutoff := s.clock.Now().Add(-s.cfg.ExpiryTimeout)

	stale, err := s.bookings.ListExpiredPending(ctx, cutoff, s.cfg.SweepBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		if ctx.Err() != nil {
			break
		}

		logger := s.logger.With("booking_reference", b.Reference)

		if s.bridge != nil {
			confirmed, err := s.bridge.ReconcileBooking(ctx, b.ID)
			if err != nil {
				logger.Warn("payment reconciliation failed before expiry", "error", err)
			}
			if confirmed {
				logger.Info("stale booking confirmed by settled payment")
				continue
			}
		}

		ok, err := s.ledger.Expire(ctx, b.ID)
		if err != nil {
			logger.Error("failed to expire booking", "error", err)
			continue
		}
		if ok {
			expired++
		}
	}

	if expired > 0 {
		s.metrics.swept.Add(ctx, int64(expired))
		s.logger.Info("expired stale bookings", "count", expired, "cutoff", cutoff)
	}

	return expired, nil
}
