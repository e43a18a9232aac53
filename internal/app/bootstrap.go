package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/booking"
	"github.com/metinatakli/cinex-booking/internal/cache"
	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/events"
	"github.com/metinatakli/cinex-booking/internal/memstore"
	"github.com/metinatakli/cinex-booking/internal/payment"
	"github.com/metinatakli/cinex-booking/internal/repository"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v82"
)

// Components are the wired collaborators of the booking service. The API
// server and bookingctl both build them through Bootstrap.
type Components struct {
	Deps   booking.Deps
	Locker booking.Locker
	DB     *pgxpool.Pool
	Redis  *redis.Client

	closers []func()
}

func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func (c *Components) Service(cfg Config) *booking.Service {
	return booking.NewService(cfg.Booking.serviceConfig(), c.Deps, c.Locker)
}

func Bootstrap(ctx context.Context, cfg Config, logger *slog.Logger) (*Components, error) {
	c := &Components{}
	c.Deps.Clock = clock.New()
	c.Deps.Logger = logger

	var err error
	switch cfg.Storage {
	case StorageMemory:
		err = c.useMemory(ctx, logger)
	case StoragePostgres, "":
		err = c.usePostgres(ctx, cfg, logger)
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	if err != nil {
		c.Close()
		return nil, err
	}

	provider, err := newPaymentProvider(cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Deps.Provider = provider

	publisher, err := newEventPublisher(cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Deps.Publisher = publisher
	if closer, ok := publisher.(interface{ Close() error }); ok {
		c.closers = append(c.closers, func() { _ = closer.Close() })
	}

	return c, nil
}

func (c *Components) useMemory(ctx context.Context, logger *slog.Logger) error {
	store := memstore.New()
	if err := store.SeedDemo(ctx, c.Deps.Clock.Now()); err != nil {
		return err
	}

	c.Deps.Tx = store.Tx
	c.Deps.Shows = store.Shows
	c.Deps.Inventory = store.Inventory
	c.Deps.Bookings = store.Bookings
	c.Deps.Payments = store.Payments
	c.Deps.Counter = store.Counter

	logger.Info("using in-memory storage with demo show", "show_id", memstore.DemoShowID)

	return nil
}

func (c *Components) usePostgres(ctx context.Context, cfg Config, logger *slog.Logger) error {
	if cfg.Migrate {
		if err := Migrate(cfg.DB.DSN, "file://migrations"); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	c.DB = db
	c.closers = append(c.closers, db.Close)

	c.Deps.Tx = repository.NewTxManager(db, logger)
	c.Deps.Shows = repository.NewPostgresShowRepository(db)
	c.Deps.Inventory = repository.NewPostgresSeatInventory(db)
	c.Deps.Bookings = repository.NewPostgresBookingRepository(db)
	c.Deps.Payments = repository.NewPostgresPaymentRepository(db)

	if cfg.Redis.URL == "" {
		logger.Warn("Redis URL not set, available seat counter and sweeper lock disabled")
		return nil
	}

	rdb, err := NewRedisClient(cfg)
	if err != nil {
		return err
	}
	c.Redis = rdb
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	c.Deps.Counter = cache.NewSeatCounter(rdb, 0)
	c.Locker = cache.NewLocker(rdb)

	return nil
}

var errStripeKeyMissing = errors.New("stripe secret key is not set, use -payment-mock or memory storage to run without Stripe")

// newPaymentProvider picks the in-process provider only when it is asked for
// or when the memory backend runs without a Stripe key.
func newPaymentProvider(cfg Config, logger *slog.Logger) (domain.PaymentProvider, error) {
	useMock := cfg.Stripe.Mock || (cfg.Storage == StorageMemory && cfg.Stripe.SecretKey == "")

	if useMock {
		logger.Warn("using in-process payment provider", "auto_succeed", cfg.Stripe.MockAutoSucceed)
		return payment.NewMockPaymentProvider(cfg.Stripe.MockAutoSucceed), nil
	}

	if cfg.Stripe.SecretKey == "" {
		return nil, errStripeKeyMissing
	}

	stripe.Key = cfg.Stripe.SecretKey
	return payment.NewStripePaymentProvider(), nil
}

func newEventPublisher(cfg Config, logger *slog.Logger) (domain.EventPublisher, error) {
	if cfg.AMQP.URL == "" {
		return events.NewLogPublisher(logger), nil
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event publisher: %w", err)
	}

	return publisher, nil
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	if err := redisotel.InstrumentMetrics(rdb); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
