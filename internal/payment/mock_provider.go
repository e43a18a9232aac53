package payment

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrUnknownIntent = errors.New("unknown payment intent")

// MockPaymentProvider is an in-process stand-in for the gateway used by the
// development server and the integration tests. Intents stay pending until
// Succeed or Decline is called; refunds fail while FailRefunds is set.
type MockPaymentProvider struct {
	mu          sync.Mutex
	intents     map[string]*mockIntent
	byKey       map[string]string
	failRefunds bool
	autoSucceed bool
}

type mockIntent struct {
	amount   decimal.Decimal
	currency string
	status   domain.ChargeStatus
	reason   string
	charge   string
	refunded bool
}

// NewMockPaymentProvider returns a provider whose intents settle as soon as
// they are checked when autoSucceed is set.
func NewMockPaymentProvider(autoSucceed bool) *MockPaymentProvider {
	return &MockPaymentProvider{
		intents:     make(map[string]*mockIntent),
		byKey:       make(map[string]string),
		autoSucceed: autoSucceed,
	}
}

func (m *MockPaymentProvider) CreateIntent(ctx context.Context, req domain.IntentRequest) (*domain.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ref, ok := m.byKey[req.IdempotencyKey]; ok && req.IdempotencyKey != "" {
		return &domain.Intent{ExternalRef: ref, ClientSecret: ref + "_secret"}, nil
	}

	ref := "pi_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	m.intents[ref] = &mockIntent{
		amount:   req.Amount,
		currency: req.Currency,
		status:   domain.ChargePending,
	}
	m.byKey[req.IdempotencyKey] = ref

	return &domain.Intent{ExternalRef: ref, ClientSecret: ref + "_secret"}, nil
}

func (m *MockPaymentProvider) GetStatus(ctx context.Context, externalRef string) (*domain.ChargeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, ok := m.intents[externalRef]
	if !ok {
		return nil, ErrUnknownIntent
	}

	if intent.status == domain.ChargePending && m.autoSucceed {
		m.settle(intent)
	}

	return &domain.ChargeResult{
		Status:        intent.status,
		SettlementRef: intent.charge,
		FailureReason: intent.reason,
	}, nil
}

func (m *MockPaymentProvider) Refund(
	ctx context.Context,
	settlementRef string,
	amount decimal.Decimal,
	currency string) (*domain.RefundResult, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failRefunds {
		return nil, errors.New("refund declined by issuer")
	}

	for _, intent := range m.intents {
		if intent.charge == settlementRef && intent.status == domain.ChargeSucceeded {
			intent.refunded = true
			return &domain.RefundResult{RefundRef: "re_mock_" + uuid.NewString()[:8]}, nil
		}
	}

	return nil, ErrUnknownIntent
}

// Succeed marks the intent as paid, as if the customer completed checkout.
func (m *MockPaymentProvider) Succeed(externalRef string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, ok := m.intents[externalRef]
	if !ok {
		return ErrUnknownIntent
	}

	m.settle(intent)
	return nil
}

func (m *MockPaymentProvider) Decline(externalRef, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, ok := m.intents[externalRef]
	if !ok {
		return ErrUnknownIntent
	}

	intent.status = domain.ChargeFailed
	intent.reason = reason
	return nil
}

func (m *MockPaymentProvider) FailRefunds(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRefunds = fail
}

func (m *MockPaymentProvider) Refunded(externalRef string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	intent, ok := m.intents[externalRef]
	return ok && intent.refunded
}

func (m *MockPaymentProvider) settle(intent *mockIntent) {
	intent.status = domain.ChargeSucceeded
	intent.charge = "ch_mock_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
