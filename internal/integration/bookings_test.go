package integration_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingsTestSuite struct {
	BaseSuite
}

func TestBookingsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(BookingsTestSuite))
}

func (s *BookingsTestSuite) TestCreateBooking() {
	scenarios := []Scenario{
		{
			Name:             "returns 401 without a token",
			Method:           "POST",
			URL:              "/shows/1/bookings",
			Body:             strings.NewReader(`{"seatIds": [1]}`),
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"message": "You must be authenticated to access this resource"}`,
		},
		{
			Name:           "returns 422 for duplicate seats",
			Method:         "POST",
			URL:            "/shows/1/bookings",
			Body:           strings.NewReader(`{"seatIds": [1, 1]}`),
			UserId:         TestUserX,
			ExpectedStatus: http.StatusUnprocessableEntity,
			ExpectedResponse: `{
				"message": "One or more fields have invalid values",
				"validationErrors": [{"field": "seatIds", "issue": "must not contain duplicate values"}]
			}`,
		},
		{
			Name:           "returns 400 when the show has already started",
			Method:         "POST",
			URL:            "/shows/2/bookings",
			Body:           strings.NewReader(`{"seatIds": [1]}`),
			UserId:         TestUserX,
			ExpectedStatus: http.StatusBadRequest,
		},
		{
			Name:           "creates a pending booking and locks its seats",
			Method:         "POST",
			URL:            "/shows/1/bookings",
			Body:           strings.NewReader(`{"seatIds": [1, 2]}`),
			UserId:         TestUserX,
			ExpectedStatus: http.StatusCreated,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				b := decodeJSON[api.BookingResponse](t, res)

				assert.Equal(t, "/bookings/"+b.Reference, res.Header.Get("Location"))
				assert.Regexp(t, `^MBK-[0-9A-F]{8}$`, b.Reference)
				assert.Equal(t, "PENDING", b.Status)
				assert.Equal(t, []string{"A1", "A2"}, b.SeatLabels)
				assert.True(t, b.TotalAmount.Equal(decimal.NewFromInt(400)))
				assert.True(t, b.Fee.Equal(decimal.NewFromInt(8)))
				assert.True(t, b.FinalAmount.Equal(decimal.NewFromInt(408)))

				assert.Equal(t, "LOCKED", seatStatus(t, app.DB, TestShowID, TestSeatA1))
				assert.Equal(t, "LOCKED", seatStatus(t, app.DB, TestShowID, TestSeatA2))
			},
		},
		{
			Name:           "returns 409 with the seats another user holds",
			Method:         "POST",
			URL:            "/shows/1/bookings",
			Body:           strings.NewReader(`{"seatIds": [2, 3]}`),
			UserId:         TestUserY,
			ExpectedStatus: http.StatusConflict,
			ExpectedResponse: `{
				"message": "Some of the selected seats are not available",
				"unavailableSeatIds": [2]
			}`,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				assert.Equal(t, "AVAILABLE", seatStatus(t, app.DB, TestShowID, TestSeatA3))
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *BookingsTestSuite) TestConcurrentReservationsGrantEachSeatOnce() {
	const workers = 12

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := range workers {
		wg.Add(1)
		go func(userId int) {
			defer wg.Done()

			_, err := s.app.Service.Reserve(context.Background(), TestShowID, []int{TestSeatA2, TestSeatA3}, userId)

			mu.Lock()
			defer mu.Unlock()

			var unavailable *domain.SeatUnavailableError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &unavailable):
				conflicts++
			default:
				s.T().Errorf("unexpected error: %v", err)
			}
		}(100 + i)
	}

	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(workers-1, conflicts)

	var pending int
	err := s.app.DB.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM bookings WHERE status = 'PENDING'`).Scan(&pending)
	s.Require().NoError(err)
	s.Equal(1, pending)

	var locked int
	err = s.app.DB.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM show_seats WHERE show_id = $1 AND status = 'LOCKED'`, TestShowID).Scan(&locked)
	s.Require().NoError(err)
	s.Equal(2, locked)
}

func (s *BookingsTestSuite) TestBookingLifecycle() {
	ctx := context.Background()

	b, err := s.app.Service.Reserve(ctx, TestShowID, []int{TestSeatA1, TestSeatA2}, TestUserX)
	s.Require().NoError(err)

	_, err = s.app.Service.Reserve(ctx, TestShowID, []int{TestSeatA2}, TestUserY)
	var unavailable *domain.SeatUnavailableError
	s.Require().True(errors.As(err, &unavailable))

	handle, err := s.app.Service.InitiatePayment(ctx, b.Reference, TestUserX)
	s.Require().NoError(err)
	s.Require().NoError(s.app.Provider.Succeed(handle.ExternalRef))

	paid, err := s.app.Service.ConfirmPayment(ctx, handle.ExternalRef)
	s.Require().NoError(err)
	s.True(paid)
	s.Equal("CONFIRMED", bookingStatus(s.T(), s.app.DB, b.Reference))
	s.Equal("BOOKED", seatStatus(s.T(), s.app.DB, TestShowID, TestSeatA1))

	scenario := Scenario{
		Name:           "cancelling refunds the booking and frees its seats",
		Method:         "POST",
		URL:            "/bookings/" + b.Reference + "/cancellation",
		Body:           strings.NewReader(`{"reason": "plans changed"}`),
		UserId:         TestUserX,
		ExpectedStatus: http.StatusOK,
		AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
			resp := decodeJSON[api.CancelBookingResponse](t, res)

			assert.True(t, resp.Refunded)
			assert.Equal(t, "REFUNDED", resp.Booking.Status)
			assert.Equal(t, "AVAILABLE", seatStatus(t, app.DB, TestShowID, TestSeatA1))
			assert.Equal(t, "AVAILABLE", seatStatus(t, app.DB, TestShowID, TestSeatA2))

			payment, err := app.Service.Payment(context.Background(), b.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.PaymentStatusRefunded, payment.Status)
			assert.NotNil(t, payment.RefundRef)
		},
	}
	scenario.Run(s.T(), s.app)

	_, err = s.app.Service.Reserve(ctx, TestShowID, []int{TestSeatA2}, TestUserY)
	s.NoError(err)
}

func (s *BookingsTestSuite) TestGetBookings() {
	ctx := context.Background()

	b, err := s.app.Service.Reserve(ctx, TestShowID, []int{TestSeatB1}, TestUserX)
	s.Require().NoError(err)

	scenarios := []Scenario{
		{
			Name:           "owner sees the booking",
			Method:         "GET",
			URL:            "/bookings/" + b.Reference,
			UserId:         TestUserX,
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:             "other users get 404",
			Method:           "GET",
			URL:              "/bookings/" + b.Reference,
			UserId:           TestUserY,
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "The requested resource not found"}`,
		},
		{
			Name:           "owner lists the booking",
			Method:         "GET",
			URL:            "/users/me/bookings",
			UserId:         TestUserX,
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				list := decodeJSON[api.BookingListResponse](t, res)
				require.Len(t, list.Bookings, 1)
				assert.Equal(t, b.Reference, list.Bookings[0].Reference)
				assert.Equal(t, []string{"B1"}, list.Bookings[0].SeatLabels)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}
