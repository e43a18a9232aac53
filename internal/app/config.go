package app

import (
	"flag"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/metinatakli/cinex-booking/internal/booking"
	"github.com/shopspring/decimal"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port             int    `envconfig:"PORT" default:"3000"`
	Env              string `envconfig:"ENV" default:"dev"`
	Storage          string `envconfig:"STORAGE" default:"postgres"`
	Migrate          bool   `envconfig:"MIGRATE" default:"false"`
	OtelCollectorUrl string `envconfig:"OTEL_COLLECTOR_URL"`

	DB      DBConfig
	Redis   RedisConfig
	Stripe  StripeConfig
	AMQP    AMQPConfig
	Auth    AuthConfig
	Booking BookingConfig
}

type DBConfig struct {
	DSN          string        `envconfig:"DSN"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleTime  time.Duration `envconfig:"MAX_IDLE_TIME" default:"15m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"URL"`
	MaxOpenConns int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `envconfig:"MAX_IDLE_CONNS" default:"10"`
	MaxIdleTime  time.Duration `envconfig:"MAX_IDLE_TIME" default:"2m"`
}

type StripeConfig struct {
	SecretKey     string `envconfig:"SECRET_KEY"`
	WebhookSecret string `envconfig:"WEBHOOK_SECRET"`
	// Mock swaps Stripe for the in-process provider. Payments settle
	// immediately when MockAutoSucceed is set.
	Mock            bool `envconfig:"MOCK" default:"false"`
	MockAutoSucceed bool `envconfig:"MOCK_AUTO_SUCCEED" default:"false"`
}

type AMQPConfig struct {
	URL      string `envconfig:"URL"`
	Exchange string `envconfig:"EXCHANGE" default:"booking.events"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"JWT_SECRET"`
}

type BookingConfig struct {
	FeeRate         decimal.Decimal `envconfig:"FEE_RATE" default:"0.02"`
	ExpiryTimeout   time.Duration   `envconfig:"EXPIRY_TIMEOUT" default:"15m"`
	Currency        string          `envconfig:"CURRENCY" default:"INR"`
	SweepInterval   time.Duration   `envconfig:"SWEEP_INTERVAL" default:"1m"`
	SweepBatchSize  int             `envconfig:"SWEEP_BATCH_SIZE" default:"100"`
	ReferencePrefix string          `envconfig:"REFERENCE_PREFIX" default:"MBK-"`
	SweeperEnabled  bool            `envconfig:"SWEEPER_ENABLED" default:"true"`
}

// LoadConfig reads CINEX_* environment variables. Variables such as
// CINEX_DB_DSN map onto the nested sections.
func LoadConfig() (Config, error) {
	var cfg Config

	if err := envconfig.Process("cinex", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// RegisterFlags lets command line flags override values taken from the
// environment.
func (cfg *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&cfg.Port, "port", cfg.Port, "server port")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Environment (dev|staging|prod)")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend (postgres|memory)")
	fs.BoolVar(&cfg.Migrate, "migrate", cfg.Migrate, "Apply database migrations on startup")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", cfg.DB.DSN, "PostgreSQL DSN")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", cfg.DB.MaxOpenConns, "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", cfg.DB.MaxIdleTime, "PostgreSQL max idle time for connections")

	fs.StringVar(&cfg.Redis.URL, "redis-url", cfg.Redis.URL, "Redis URL")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", cfg.Redis.MaxOpenConns, "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", cfg.Redis.MaxIdleConns, "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", cfg.Redis.MaxIdleTime, "Redis max idle time for connections")

	fs.StringVar(&cfg.Stripe.SecretKey, "stripe-key", cfg.Stripe.SecretKey, "Stripe secret key")
	fs.StringVar(&cfg.Stripe.WebhookSecret, "stripe-webhook-secret", cfg.Stripe.WebhookSecret, "Stripe webhook secret")
	fs.BoolVar(&cfg.Stripe.Mock, "payment-mock", cfg.Stripe.Mock, "Use the in-process payment provider")
	fs.BoolVar(&cfg.Stripe.MockAutoSucceed, "payment-mock-auto-succeed", cfg.Stripe.MockAutoSucceed, "Settle in-process payments without checkout")

	fs.StringVar(&cfg.AMQP.URL, "amqp-url", cfg.AMQP.URL, "RabbitMQ URL for booking events")
	fs.StringVar(&cfg.Auth.JWTSecret, "jwt-secret", cfg.Auth.JWTSecret, "HMAC secret of bearer tokens")

	fs.DurationVar(&cfg.Booking.ExpiryTimeout, "booking-expiry", cfg.Booking.ExpiryTimeout, "Payment window of pending bookings")
	fs.DurationVar(&cfg.Booking.SweepInterval, "sweep-interval", cfg.Booking.SweepInterval, "Interval between expiry sweeps")
	fs.BoolVar(&cfg.Booking.SweeperEnabled, "sweeper", cfg.Booking.SweeperEnabled, "Run the expiry sweeper")

	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", cfg.OtelCollectorUrl, "OpenTelemetry collector gRPC endpoint")
}

func (c BookingConfig) serviceConfig() booking.Config {
	cfg := booking.DefaultConfig()

	if !c.FeeRate.IsZero() {
		cfg.FeeRate = c.FeeRate
	}
	if c.ExpiryTimeout > 0 {
		cfg.ExpiryTimeout = c.ExpiryTimeout
	}
	if c.Currency != "" {
		cfg.Currency = c.Currency
	}
	if c.SweepInterval > 0 {
		cfg.SweepInterval = c.SweepInterval
	}
	if c.SweepBatchSize > 0 {
		cfg.SweepBatchSize = c.SweepBatchSize
	}
	if c.ReferencePrefix != "" {
		cfg.ReferencePrefix = c.ReferencePrefix
	}

	return cfg
}
