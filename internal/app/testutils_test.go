package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/booking"
	"github.com/metinatakli/cinex-booking/internal/clock"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/metinatakli/cinex-booking/internal/memstore"
	"github.com/metinatakli/cinex-booking/internal/payment"
	"github.com/metinatakli/cinex-booking/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testJWTSecret     = "test-jwt-secret"
	testWebhookSecret = "whsec_test_secret"
	testShowID        = 1

	userX = 10
	userY = 20
)

var testShowStart = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

type testEnv struct {
	app      *Application
	store    *memstore.Store
	provider *payment.MockPaymentProvider
	clock    *clock.MockClock
	handler  http.Handler
}

// newTestApplication wires the HTTP layer to an in-memory store holding one
// show with seats A1-A3 at 200 and B1 at 350.
func newTestApplication(t *testing.T, opts ...func(*testEnv)) *testEnv {
	t.Helper()

	env := &testEnv{
		store:    memstore.New(),
		provider: payment.NewMockPaymentProvider(false),
		clock:    clock.NewMockClock(testShowStart.Add(-48 * time.Hour)),
	}

	env.store.Shows.Put(domain.Show{
		ID:          testShowID,
		MovieTitle:  "Interstellar",
		TheaterName: "CineX Downtown",
		ScreenName:  "Screen 1",
		StartTime:   testShowStart,
		Status:      domain.ShowStatusUpcoming,
		Currency:    "INR",
	})
	env.store.Inventory.AddSeats(testShowID,
		domain.ShowSeat{SeatID: 1, Row: "A", Number: 1, Price: decimal.NewFromInt(200)},
		domain.ShowSeat{SeatID: 2, Row: "A", Number: 2, Price: decimal.NewFromInt(200)},
		domain.ShowSeat{SeatID: 3, Row: "A", Number: 3, Price: decimal.NewFromInt(200)},
		domain.ShowSeat{SeatID: 4, Row: "B", Number: 1, Price: decimal.NewFromInt(350)},
	)
	require.NoError(t, env.store.Counter.Seed(context.Background(), testShowID, 4))

	for _, opt := range opts {
		opt(env)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := booking.NewService(booking.DefaultConfig(), booking.Deps{
		Tx:        env.store.Tx,
		Shows:     env.store.Shows,
		Inventory: env.store.Inventory,
		Bookings:  env.store.Bookings,
		Payments:  env.store.Payments,
		Provider:  env.provider,
		Counter:   env.store.Counter,
		Clock:     env.clock,
		Logger:    logger,
	}, nil)

	cfg := Config{
		Env:     "test",
		Storage: StorageMemory,
		Auth:    AuthConfig{JWTSecret: testJWTSecret},
		Stripe:  StripeConfig{WebhookSecret: testWebhookSecret, Mock: true},
	}

	env.app = NewApp(cfg, logger, validator.NewValidator(), svc)
	env.handler = env.app.Routes()

	return env
}

func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	if reader != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()

	return w, r
}

func bearerToken(t *testing.T, userId int) string {
	t.Helper()

	token, err := NewAccessToken(testJWTSecret, userId, time.Hour)
	require.NoError(t, err)

	return "Bearer " + token
}

// serve sends the request through the router, authenticated as userId unless
// it is zero.
func (e *testEnv) serve(t *testing.T, method, url string, body any, userId int) *httptest.ResponseRecorder {
	t.Helper()

	w, r := executeRequest(t, method, url, body)
	if userId != 0 {
		r.Header.Set("Authorization", bearerToken(t, userId))
	}

	e.handler.ServeHTTP(w, r)

	return w
}

func (e *testEnv) reserve(t *testing.T, userId int, seatIds ...int) *domain.Booking {
	t.Helper()

	b, err := e.app.bookings.Reserve(context.Background(), testShowID, seatIds, userId)
	require.NoError(t, err)

	return b
}

// confirm pays for b through the provider and returns the external reference.
func (e *testEnv) confirm(t *testing.T, b *domain.Booking) string {
	t.Helper()

	ctx := context.Background()

	handle, err := e.app.bookings.InitiatePayment(ctx, b.Reference, b.UserID)
	require.NoError(t, err)
	require.NoError(t, e.provider.Succeed(handle.ExternalRef))

	paid, err := e.app.bookings.ConfirmPayment(ctx, handle.ExternalRef)
	require.NoError(t, err)
	require.True(t, paid)

	return handle.ExternalRef
}

func (e *testEnv) bookingStatus(t *testing.T, reference string) domain.BookingStatus {
	t.Helper()

	b, err := e.store.Bookings.GetByReference(context.Background(), reference)
	require.NoError(t, err)

	return b.Status
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())

	return v
}

func ptr[T any](v T) *T {
	return &v
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	t.Helper()

	if w.Code != tt.wantStatus {
		t.Fatalf("Status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
	}

	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if tt.wantErrMessage != "" && !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

type errorCase = struct {
	wantStatus     int
	wantErrMessage string
}
