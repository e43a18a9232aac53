package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	FeeRate           decimal.Decimal
	ExpiryTimeout     time.Duration
	Currency          string
	SweepInterval     time.Duration
	SweepBatchSize    int
	ReferencePrefix   string
	ReferenceAttempts int
}

func DefaultConfig() Config {
	return Config{
		FeeRate:           decimal.RequireFromString("0.02"),
		ExpiryTimeout:     15 * time.Minute,
		Currency:          "INR",
		SweepInterval:     time.Minute,
		SweepBatchSize:    100,
		ReferencePrefix:   "MBK-",
		ReferenceAttempts: 5,
	}
}
