package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusFailed    BookingStatus = "FAILED"
	BookingStatusRefunded  BookingStatus = "REFUNDED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusFailed},
	BookingStatusConfirmed: {BookingStatusCancelled},
	BookingStatusCancelled: {BookingStatusRefunded},
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

type Booking struct {
	ID                 int
	Reference          string
	UserID             int
	ShowID             int
	SeatIDs            []int
	TotalAmount        decimal.Decimal
	Fee                decimal.Decimal
	FinalAmount        decimal.Decimal
	Status             BookingStatus
	FailureReason      *string
	CancellationReason *string
	CancelledAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// CalculateFee rounds the fee up to the next whole currency unit.
func CalculateFee(total, rate decimal.Decimal) decimal.Decimal {
	return total.Mul(rate).Ceil()
}

type BookingRepository interface {
	// Create returns ErrDuplicateReference when the reference is taken.
	Create(ctx context.Context, booking *Booking) error
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	// GetForUpdate locks the booking row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id int) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]Booking, error)
	// UpdateStatus persists the booking only if its stored status is still
	// from, and returns ErrEditConflict otherwise.
	UpdateStatus(ctx context.Context, booking *Booking, from BookingStatus) error
}
