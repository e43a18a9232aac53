package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

// Bridge turns payment provider outcomes into ledger transitions. It never
// calls the provider while a storage transaction is open.
type Bridge struct {
	cfg       Config
	tx        domain.TxManager
	bookings  domain.BookingRepository
	payments  domain.PaymentRepository
	shows     domain.ShowRepository
	provider  domain.PaymentProvider
	publisher domain.EventPublisher
	ledger    *Ledger
	clock     clock.Clock
	logger    *slog.Logger
	metrics   *metrics
}

func NewBridge(cfg Config, deps Deps, ledger *Ledger) *Bridge {
	deps = deps.withDefaults()

	return &Bridge{
		cfg:       cfg,
		tx:        deps.Tx,
		bookings:  deps.Bookings,
		payments:  deps.Payments,
		shows:     deps.Shows,
		provider:  deps.Provider,
		publisher: deps.Publisher,
		ledger:    ledger,
		clock:     deps.Clock,
		logger:    deps.Logger,
		metrics:   newMetrics(),
	}
}

// InitiatePayment creates the provider intent for a PENDING booking. Calling
// it again while the payment is pending returns the same handle.
func (b *Bridge) InitiatePayment(ctx context.Context, booking *domain.Booking) (*domain.PaymentHandle, error) {
	ctx, span := tracer.Start(ctx, "booking.InitiatePayment")
	defer span.End()

	if booking.Status != domain.BookingStatusPending {
		return nil, &domain.IllegalStateError{Current: booking.Status, Attempted: domain.BookingStatusConfirmed}
	}

	existing, err := b.payments.GetByBookingID(ctx, booking.ID)
	switch {
	case err == nil:
		if existing.Status != domain.PaymentStatusPending {
			return nil, paymentError(nil, "payment of %s is already %s", booking.Reference, existing.Status)
		}
		return existing.Handle(booking.Reference), nil
	case !errors.Is(err, domain.ErrRecordNotFound):
		return nil, err
	}

	currency, err := b.currency(ctx, booking.ShowID)
	if err != nil {
		return nil, err
	}

	intent, err := b.provider.CreateIntent(ctx, domain.IntentRequest{
		Amount:         booking.FinalAmount,
		Currency:       currency,
		IdempotencyKey: booking.Reference,
		Metadata: map[string]string{
			"booking_id":        strconv.Itoa(booking.ID),
			"booking_reference": booking.Reference,
			"user_id":           strconv.Itoa(booking.UserID),
			"show_id":           strconv.Itoa(booking.ShowID),
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, paymentError(err, "create payment intent for %s", booking.Reference)
	}

	now := b.clock.Now()
	payment := &domain.Payment{
		BookingID:    booking.ID,
		ExternalRef:  intent.ExternalRef,
		ClientSecret: intent.ClientSecret,
		Amount:       booking.FinalAmount,
		Currency:     currency,
		Status:       domain.PaymentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = b.payments.Create(ctx, payment)
	if errors.Is(err, domain.ErrDuplicatePayment) {
		existing, err := b.payments.GetByBookingID(ctx, booking.ID)
		if err != nil {
			return nil, err
		}
		return existing.Handle(booking.Reference), nil
	}
	if err != nil {
		return nil, err
	}

	b.logger.Info("payment initiated",
		"booking_reference", booking.Reference,
		"external_ref", payment.ExternalRef,
		"amount", payment.Amount.String(),
		"currency", currency)

	return payment.Handle(booking.Reference), nil
}

// ConfirmPayment asks the provider for the authoritative charge status and
// applies it. Once the payment is terminal further calls return the recorded
// outcome without side effects.
func (b *Bridge) ConfirmPayment(ctx context.Context, externalRef string) (bool, error) {
	ctx, span := tracer.Start(ctx, "booking.ConfirmPayment")
	defer span.End()

	payment, err := b.payments.GetByExternalRef(ctx, externalRef)
	if err != nil {
		return false, err
	}

	if payment.Status != domain.PaymentStatusPending {
		return b.recordedOutcome(ctx, payment)
	}

	result, err := b.provider.GetStatus(ctx, externalRef)
	if err != nil {
		span.RecordError(err)
		return false, paymentError(err, "verify payment %s", externalRef)
	}

	switch result.Status {
	case domain.ChargeSucceeded:
		return b.settle(ctx, payment, result.SettlementRef)
	case domain.ChargeFailed:
		return false, b.fail(ctx, payment, failureReason(result))
	default:
		return false, paymentError(nil, "payment %s is still pending", externalRef)
	}
}

// Refund returns the full amount of a cancelled booking, or of a payment that
// settled after its booking had failed. A rejected refund leaves both records
// untouched so it can be retried.
func (b *Bridge) Refund(ctx context.Context, bookingID int) (bool, error) {
	ctx, span := tracer.Start(ctx, "booking.Refund")
	defer span.End()

	booking, err := b.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return false, err
	}

	payment, err := b.payments.GetByBookingID(ctx, bookingID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return false, paymentError(nil, "booking %s has no payment to refund", booking.Reference)
	}
	if err != nil {
		return false, err
	}

	if payment.Status != domain.PaymentStatusSuccess {
		return false, paymentError(nil, "payment of %s is %s, only settled payments can be refunded",
			booking.Reference, payment.Status)
	}

	switch booking.Status {
	case domain.BookingStatusCancelled:
	case domain.BookingStatusFailed:
		return b.refundSettledFailure(ctx, booking, payment)
	default:
		return false, &domain.IllegalStateError{Current: booking.Status, Attempted: domain.BookingStatusRefunded}
	}

	if payment.SettlementRef == nil {
		return false, paymentError(nil, "payment of %s has no settlement reference", booking.Reference)
	}

	refund, err := b.provider.Refund(ctx, *payment.SettlementRef, payment.Amount, payment.Currency)
	if err != nil {
		span.RecordError(err)
		b.refundFailed(ctx, booking, err)
		return false, paymentError(err, "refund %s", booking.Reference)
	}

	err = b.tx.RunInTx(ctx, func(ctx context.Context) error {
		payment.Status = domain.PaymentStatusRefunded
		payment.RefundRef = &refund.RefundRef
		payment.UpdatedAt = b.clock.Now()

		if err := b.payments.Update(ctx, payment); err != nil {
			return err
		}

		_, err := b.ledger.MarkRefunded(ctx, booking.ID)
		return err
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// ReconcileBooking re-checks a pending payment of the booking so money that
// settled without a confirmation call is not lost to the sweeper.
func (b *Bridge) ReconcileBooking(ctx context.Context, bookingID int) (bool, error) {
	payment, err := b.payments.GetByBookingID(ctx, bookingID)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if payment.Status != domain.PaymentStatusPending {
		return false, nil
	}

	return b.ConfirmPayment(ctx, payment.ExternalRef)
}

func (b *Bridge) settle(ctx context.Context, payment *domain.Payment, settlementRef string) (bool, error) {
	err := b.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := b.ledger.Confirm(ctx, payment.BookingID); err != nil {
			return err
		}

		payment.Status = domain.PaymentStatusSuccess
		payment.SettlementRef = &settlementRef
		payment.UpdatedAt = b.clock.Now()

		return b.payments.Update(ctx, payment)
	})
	if err == nil {
		return true, nil
	}

	var illegal *domain.IllegalStateError
	if !errors.As(err, &illegal) {
		return false, err
	}

	return false, b.refundLatePayment(ctx, payment, settlementRef, illegal)
}

// refundLatePayment handles money that settled after the booking had already
// failed, typically because the sweeper expired it first.
func (b *Bridge) refundLatePayment(
	ctx context.Context,
	payment *domain.Payment,
	settlementRef string,
	cause *domain.IllegalStateError) error {

	logger := b.logger.With("external_ref", payment.ExternalRef, "booking_id", payment.BookingID)
	logger.Warn("payment settled for a booking that can no longer be confirmed", "booking_status", cause.Current)

	msg := cause.Error()
	payment.Status = domain.PaymentStatusSuccess
	payment.SettlementRef = &settlementRef
	payment.ErrorMsg = &msg
	payment.UpdatedAt = b.clock.Now()

	if err := b.payments.Update(ctx, payment); err != nil {
		return err
	}

	refund, err := b.provider.Refund(ctx, settlementRef, payment.Amount, payment.Currency)
	if err != nil {
		if booking, getErr := b.bookings.GetByID(ctx, payment.BookingID); getErr == nil {
			b.refundFailed(ctx, booking, err)
		}
		return paymentError(err, "refund late payment %s", payment.ExternalRef)
	}

	payment.Status = domain.PaymentStatusRefunded
	payment.RefundRef = &refund.RefundRef
	payment.UpdatedAt = b.clock.Now()

	if err := b.payments.Update(ctx, payment); err != nil {
		return err
	}

	logger.Info("late payment refunded", "refund_ref", refund.RefundRef)

	return paymentError(cause, "booking is %s, payment %s was refunded", cause.Current, payment.ExternalRef)
}

func (b *Bridge) fail(ctx context.Context, payment *domain.Payment, reason string) error {
	return b.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := b.ledger.MarkFailed(ctx, payment.BookingID, reason); err != nil {
			return err
		}

		payment.Status = domain.PaymentStatusFailed
		payment.ErrorMsg = &reason
		payment.UpdatedAt = b.clock.Now()

		return b.payments.Update(ctx, payment)
	})
}

func (b *Bridge) refundFailed(ctx context.Context, booking *domain.Booking, cause error) {
	b.metrics.refundFailed.Add(ctx, 1)
	b.logger.Error("refund rejected by payment provider, manual reconciliation required",
		"booking_reference", booking.Reference, "error", cause)

	event := domain.NewBookingEvent(domain.EventPaymentRefundFailed, booking, cause.Error(), b.clock.Now())
	if err := b.publisher.Publish(ctx, event); err != nil {
		b.logger.Warn("failed to publish refund failure", "booking_reference", booking.Reference, "error", err)
	}
}

func (b *Bridge) currency(ctx context.Context, showID int) (string, error) {
	show, err := b.shows.GetByID(ctx, showID)
	if err != nil {
		return "", err
	}

	if show.Currency != "" {
		return show.Currency, nil
	}

	return b.cfg.Currency, nil
}

// recordedOutcome answers a repeated confirmation from the stored records.
// Money that settled for a failed booking never counts as paid.
func (b *Bridge) recordedOutcome(ctx context.Context, payment *domain.Payment) (bool, error) {
	if payment.Status == domain.PaymentStatusFailed {
		return false, nil
	}

	booking, err := b.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return false, err
	}

	if booking.Status == domain.BookingStatusFailed {
		if payment.Status == domain.PaymentStatusRefunded {
			return false, paymentError(nil, "booking %s is %s, payment %s was refunded",
				booking.Reference, booking.Status, payment.ExternalRef)
		}
		return false, paymentError(nil, "booking %s is %s, payment %s awaits a refund",
			booking.Reference, booking.Status, payment.ExternalRef)
	}

	return payment.Status == domain.PaymentStatusSuccess, nil
}

// refundSettledFailure retries the refund of money that settled after the
// booking had failed. The booking itself stays FAILED.
func (b *Bridge) refundSettledFailure(ctx context.Context, booking *domain.Booking, payment *domain.Payment) (bool, error) {
	if payment.SettlementRef == nil {
		return false, paymentError(nil, "payment of %s has no settlement reference", booking.Reference)
	}

	refund, err := b.provider.Refund(ctx, *payment.SettlementRef, payment.Amount, payment.Currency)
	if err != nil {
		b.refundFailed(ctx, booking, err)
		return false, paymentError(err, "refund late payment of %s", booking.Reference)
	}

	payment.Status = domain.PaymentStatusRefunded
	payment.RefundRef = &refund.RefundRef
	payment.UpdatedAt = b.clock.Now()

	if err := b.payments.Update(ctx, payment); err != nil {
		return false, err
	}

	b.logger.Info("late payment refunded", "booking_reference", booking.Reference, "refund_ref", refund.RefundRef)

	return true, nil
}

func failureReason(result *domain.ChargeResult) string {
	if result.FailureReason != "" {
		return result.FailureReason
	}
	return "payment declined"
}

func paymentError(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return errors.WithStack(fmt.Errorf("%w: %s", domain.ErrPayment, msg))
	}
	return errors.WithStack(fmt.Errorf("%w: %s: %w", domain.ErrPayment, msg, cause))
}
