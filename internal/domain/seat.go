package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusLocked    SeatStatus = "LOCKED"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

// ShowSeat is a physical seat in the context of one show. BookingRef is set
// exactly when the seat is LOCKED or BOOKED.
type ShowSeat struct {
	ShowID     int
	SeatID     int
	Row        string
	Number     int
	Status     SeatStatus
	Price      decimal.Decimal
	BookingRef *string
}

func (s ShowSeat) Label() string {
	return fmt.Sprintf("%s%d", s.Row, s.Number)
}

type LockResult struct {
	Granted  []int
	Rejected []int
}

type SeatInventory interface {
	GetSeats(ctx context.Context, showID int, seatIDs []int) ([]ShowSeat, error)
	Layout(ctx context.Context, showID int) ([]ShowSeat, error)
	TryLock(ctx context.Context, showID int, seatIDs []int, token string) (LockResult, error)
	// Release returns the number of seats that actually went back to
	// AVAILABLE. An empty owner releases the seats whoever holds them.
	Release(ctx context.Context, showID int, seatIDs []int, owner string) (int, error)
	Commit(ctx context.Context, showID int, seatIDs []int, bookingRef string) error
	CountAvailable(ctx context.Context, showID int) (int, error)
}

// SeatCounter is a best effort cache of the available seat count per show.
type SeatCounter interface {
	Adjust(ctx context.Context, showID int, delta int) error
	Get(ctx context.Context, showID int) (int, bool, error)
	Seed(ctx context.Context, showID int, available int) error
}
