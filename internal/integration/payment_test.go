package integration_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82/webhook"
)

type PaymentTestSuite struct {
	BaseSuite
}

func TestPaymentSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(PaymentTestSuite))
}

func (s *PaymentTestSuite) reserve(userId int, seatIds ...int) *domain.Booking {
	b, err := s.app.Service.Reserve(context.Background(), TestShowID, seatIds, userId)
	s.Require().NoError(err)
	return b
}

func (s *PaymentTestSuite) initiate(b *domain.Booking) *domain.PaymentHandle {
	handle, err := s.app.Service.InitiatePayment(context.Background(), b.Reference, b.UserID)
	s.Require().NoError(err)
	return handle
}

func (s *PaymentTestSuite) webhook(eventType, intentID string) *http.Response {
	payload := fmt.Sprintf(`{
		"id": "evt_integration",
		"object": "event",
		"type": %q,
		"data": {"object": {"id": %q, "object": "payment_intent"}}
	}`, eventType, intentID)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  TestWebhookSecret,
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", bytes.NewReader(signed.Payload))
	req.Header.Set("Stripe-Signature", signed.Header)

	rec := httptest.NewRecorder()
	s.app.App.Routes().ServeHTTP(rec, req)

	return rec.Result()
}

func (s *PaymentTestSuite) TestInitiatePayment() {
	b := s.reserve(TestUserX, TestSeatA1, TestSeatB1)

	scenarios := []Scenario{
		{
			Name:             "returns 403 for another user's booking",
			Method:           "POST",
			URL:              "/bookings/" + b.Reference + "/payment",
			UserId:           TestUserY,
			ExpectedStatus:   http.StatusForbidden,
			ExpectedResponse: `{"message": "You do not have permission to access this resource"}`,
		},
		{
			Name:           "creates the intent for the final amount",
			Method:         "POST",
			URL:            "/bookings/" + b.Reference + "/payment",
			UserId:         TestUserX,
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				payment := decodeJSON[api.PaymentResponse](t, res)

				assert.Equal(t, b.Reference, payment.BookingReference)
				assert.True(t, payment.Amount.Equal(decimal.NewFromInt(561)))
				assert.Equal(t, "INR", payment.Currency)
				assert.Equal(t, "PENDING", payment.Status)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *PaymentTestSuite) TestWebhookConfirmsBooking() {
	b := s.reserve(TestUserX, TestSeatA1)
	handle := s.initiate(b)
	s.Require().NoError(s.app.Provider.Succeed(handle.ExternalRef))

	res := s.webhook("payment_intent.succeeded", handle.ExternalRef)
	s.Equal(http.StatusOK, res.StatusCode)
	s.Equal("CONFIRMED", bookingStatus(s.T(), s.app.DB, b.Reference))
	s.Equal("BOOKED", seatStatus(s.T(), s.app.DB, TestShowID, TestSeatA1))

	res = s.webhook("payment_intent.succeeded", handle.ExternalRef)
	s.Equal(http.StatusOK, res.StatusCode, "redelivered events are acknowledged")
}

func (s *PaymentTestSuite) TestDeclinedPaymentFailsBooking() {
	b := s.reserve(TestUserX, TestSeatA2)
	handle := s.initiate(b)
	s.Require().NoError(s.app.Provider.Decline(handle.ExternalRef, "insufficient funds"))

	scenario := Scenario{
		Name:             "confirmation reports the decline",
		Method:           "POST",
		URL:              "/payments/" + handle.ExternalRef + "/confirmation",
		ExpectedStatus:   http.StatusOK,
		ExpectedResponse: fmt.Sprintf(`{"externalRef": %q, "paid": false}`, handle.ExternalRef),
		AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
			assert.Equal(t, "FAILED", bookingStatus(t, app.DB, b.Reference))
			assert.Equal(t, "AVAILABLE", seatStatus(t, app.DB, TestShowID, TestSeatA2))
		},
	}

	scenario.Run(s.T(), s.app)
}

func (s *PaymentTestSuite) TestSweeperExpiresStaleBookings() {
	ctx := context.Background()

	stale := s.reserve(TestUserX, TestSeatA1, TestSeatA2)
	handle := s.initiate(stale)

	s.app.Clock.Add(16 * time.Minute)

	n, err := s.app.Service.Sweep(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)
	s.Equal("FAILED", bookingStatus(s.T(), s.app.DB, stale.Reference))

	other := s.reserve(TestUserY, TestSeatA1, TestSeatA2)
	s.Equal(domain.BookingStatusPending, other.Status)

	s.Require().NoError(s.app.Provider.Succeed(handle.ExternalRef))

	res := s.webhook("payment_intent.succeeded", handle.ExternalRef)
	s.Equal(http.StatusOK, res.StatusCode)
	s.Equal("FAILED", bookingStatus(s.T(), s.app.DB, stale.Reference), "a late payment never revives a failed booking")
	s.True(s.app.Provider.Refunded(handle.ExternalRef))
}

func (s *PaymentTestSuite) TestSweepSkipsWhileAnotherInstanceHoldsTheLock() {
	ctx := context.Background()

	s.reserve(TestUserX, TestSeatA3)
	s.app.Clock.Add(time.Hour)

	err := s.app.RedisClient.Set(ctx, "booking:sweeper:lock", "other-instance", time.Minute).Err()
	s.Require().NoError(err)

	n, err := s.app.Service.Sweep(ctx)
	s.Require().NoError(err)
	s.Equal(0, n)

	s.Require().NoError(s.app.RedisClient.Del(ctx, "booking:sweeper:lock").Err())

	n, err = s.app.Service.Sweep(ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	exists, err := s.app.RedisClient.Exists(ctx, "booking:sweeper:lock").Result()
	s.Require().NoError(err)
	s.Zero(exists, "the lock is released after the sweep")
}

func (s *PaymentTestSuite) TestRejectedRefundCanBeRetried() {
	ctx := context.Background()

	b := s.reserve(TestUserX, TestSeatB1)
	handle := s.initiate(b)
	s.Require().NoError(s.app.Provider.Succeed(handle.ExternalRef))
	_, err := s.app.Service.ConfirmPayment(ctx, handle.ExternalRef)
	s.Require().NoError(err)

	s.app.Provider.FailRefunds(true)

	scenario := Scenario{
		Name:           "cancellation succeeds while the refund is rejected",
		Method:         "POST",
		URL:            "/bookings/" + b.Reference + "/cancellation",
		UserId:         TestUserX,
		ExpectedStatus: http.StatusOK,
		AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
			resp := decodeJSON[api.CancelBookingResponse](t, res)
			assert.False(t, resp.Refunded)
			assert.NotNil(t, resp.RefundError)
			assert.Equal(t, "CANCELLED", bookingStatus(t, app.DB, b.Reference))
			assert.Equal(t, "AVAILABLE", seatStatus(t, app.DB, TestShowID, TestSeatB1))
		},
	}
	scenario.Run(s.T(), s.app)

	s.app.Provider.FailRefunds(false)

	refunded, err := s.app.Service.RetryRefund(ctx, b.Reference)
	s.Require().NoError(err)
	s.Equal(domain.BookingStatusRefunded, refunded.Status)
}
