package integration_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinex-booking/internal/app"
	"github.com/metinatakli/cinex-booking/internal/booking"
	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/payment"
	appvalidator "github.com/metinatakli/cinex-booking/internal/validator"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App         *app.Application
	Service     *booking.Service
	DB          *pgxpool.Pool
	RedisClient *redis.Client
	Provider    *payment.MockPaymentProvider
	Clock       *clock.MockClock

	components *app.Components
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	components, err := app.Bootstrap(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	provider := payment.NewMockPaymentProvider(false)
	mockClock := clock.NewMockClock(time.Now().UTC())

	components.Deps.Provider = provider
	components.Deps.Clock = mockClock

	svc := components.Service(cfg)

	return &TestApp{
		App:         app.NewApp(cfg, logger, appvalidator.NewValidator(), svc),
		Service:     svc,
		DB:          components.DB,
		RedisClient: components.Redis,
		Provider:    provider,
		Clock:       mockClock,
		components:  components,
	}, nil
}

func (a *TestApp) Close() {
	a.components.Close()
}
