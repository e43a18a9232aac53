package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type ChargeStatus string

const (
	ChargePending   ChargeStatus = "pending"
	ChargeSucceeded ChargeStatus = "succeeded"
	ChargeFailed    ChargeStatus = "failed"
)

type IntentRequest struct {
	Amount         decimal.Decimal
	Currency       string
	IdempotencyKey string
	Metadata       map[string]string
}

type Intent struct {
	ExternalRef  string
	ClientSecret string
}

type ChargeResult struct {
	Status        ChargeStatus
	SettlementRef string
	FailureReason string
}

type RefundResult struct {
	RefundRef string
}

type PaymentProvider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetStatus(ctx context.Context, externalRef string) (*ChargeResult, error)
	Refund(ctx context.Context, settlementRef string, amount decimal.Decimal, currency string) (*RefundResult, error)
}
