package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSuccess  PaymentStatus = "SUCCESS"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID            int
	BookingID     int
	ExternalRef   string
	ClientSecret  string
	SettlementRef *string
	RefundRef     *string
	Amount        decimal.Decimal
	Currency      string
	Status        PaymentStatus
	ErrorMsg      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PaymentHandle is what a client needs to complete the charge on its side.
type PaymentHandle struct {
	BookingReference string
	ExternalRef      string
	ClientSecret     string
	Amount           decimal.Decimal
	Currency         string
	Status           PaymentStatus
}

func (p *Payment) Handle(bookingRef string) *PaymentHandle {
	return &PaymentHandle{
		BookingReference: bookingRef,
		ExternalRef:      p.ExternalRef,
		ClientSecret:     p.ClientSecret,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Status:           p.Status,
	}
}

type PaymentRepository interface {
	// Create returns ErrDuplicatePayment when the booking already has a payment.
	Create(ctx context.Context, payment *Payment) error
	GetByBookingID(ctx context.Context, bookingID int) (*Payment, error)
	GetByExternalRef(ctx context.Context, externalRef string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
}
