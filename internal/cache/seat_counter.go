package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCounterTTL = 24 * time.Hour

var adjustCounterScript = redis.NewScript(`
    -- KEYS[1] = available seat counter of a show (e.g., show:12:available_seats)
    -- ARGV[1] = delta

    if redis.call("EXISTS", KEYS[1]) == 0 then
        return -1 -- never seeded, the next reader recounts
    end

    local value = redis.call("INCRBY", KEYS[1], ARGV[1])
    if value < 0 then
        redis.call("SET", KEYS[1], 0, "KEEPTTL")
        return 0
    end

    return value
`)

// SeatCounter caches the number of AVAILABLE seats per show. It is only a
// display hint; seat rows stay authoritative.
type SeatCounter struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewSeatCounter(client redis.UniversalClient, ttl time.Duration) *SeatCounter {
	if ttl <= 0 {
		ttl = defaultCounterTTL
	}

	return &SeatCounter{
		client: client,
		ttl:    ttl,
	}
}

func (c *SeatCounter) Adjust(ctx context.Context, showID int, delta int) error {
	return adjustCounterScript.Run(ctx, c.client, []string{availableSeatsKey(showID)}, delta).Err()
}

func (c *SeatCounter) Get(ctx context.Context, showID int) (int, bool, error) {
	n, err := c.client.Get(ctx, availableSeatsKey(showID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return n, true, nil
}

func (c *SeatCounter) Seed(ctx context.Context, showID int, available int) error {
	return c.client.Set(ctx, availableSeatsKey(showID), available, c.ttl).Err()
}

func availableSeatsKey(showID int) string {
	return fmt.Sprintf("show:%d:available_seats", showID)
}
