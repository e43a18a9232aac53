package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/refund"
)

var hundred = decimal.NewFromInt(100)

// StripePaymentProvider charges through Stripe PaymentIntents. The API key is
// taken from stripe.Key.
type StripePaymentProvider struct{}

func NewStripePaymentProvider() *StripePaymentProvider {
	return &StripePaymentProvider{}
}

func (s *StripePaymentProvider) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(toMinorUnits(req.Amount)),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, err
	}

	return &domain.Intent{
		ExternalRef:  pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (s *StripePaymentProvider) GetStatus(ctx context.Context, externalRef string) (*domain.ChargeResult, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(externalRef, params)
	if err != nil {
		return nil, err
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		settlementRef := pi.ID
		if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
			settlementRef = pi.LatestCharge.ID
		}
		return &domain.ChargeResult{Status: domain.ChargeSucceeded, SettlementRef: settlementRef}, nil

	case stripe.PaymentIntentStatusCanceled:
		reason := "payment intent canceled"
		if pi.CancellationReason != "" {
			reason = fmt.Sprintf("payment intent canceled: %s", pi.CancellationReason)
		}
		return &domain.ChargeResult{Status: domain.ChargeFailed, FailureReason: reason}, nil

	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// a declined attempt sends the intent back here with the error attached
		if pi.LastPaymentError != nil {
			return &domain.ChargeResult{Status: domain.ChargeFailed, FailureReason: pi.LastPaymentError.Msg}, nil
		}
	}

	return &domain.ChargeResult{Status: domain.ChargePending}, nil
}

func (s *StripePaymentProvider) Refund(
	ctx context.Context,
	settlementRef string,
	amount decimal.Decimal,
	currency string) (*domain.RefundResult, error) {

	params := &stripe.RefundParams{
		Amount: stripe.Int64(toMinorUnits(amount)),
	}
	if strings.HasPrefix(settlementRef, "pi_") {
		params.PaymentIntent = stripe.String(settlementRef)
	} else {
		params.Charge = stripe.String(settlementRef)
	}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + settlementRef)

	r, err := refund.New(params)
	if err != nil {
		return nil, err
	}

	if r.Status == stripe.RefundStatusFailed || r.Status == stripe.RefundStatusCanceled {
		return nil, fmt.Errorf("refund %s ended as %s", r.ID, r.Status)
	}

	return &domain.RefundResult{RefundRef: r.ID}, nil
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).IntPart()
}
