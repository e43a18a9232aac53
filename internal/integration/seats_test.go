package integration_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SeatLayoutTestSuite struct {
	BaseSuite
}

func TestSeatLayoutSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(SeatLayoutTestSuite))
}

func (s *SeatLayoutTestSuite) TestGetSeatLayout() {
	scenarios := []Scenario{
		{
			Name:             "returns 400 for invalid show ID",
			Method:           "GET",
			URL:              "/shows/0/seats",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"message": "showId must be a positive integer"}`,
		},
		{
			Name:             "returns 404 for non-existent show",
			Method:           "GET",
			URL:              "/shows/999/seats",
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "The requested resource not found"}`,
		},
		{
			Name:           "returns layout with every seat available",
			Method:         "GET",
			URL:            "/shows/1/seats",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				layout := decodeJSON[api.SeatLayoutResponse](t, res)

				assert.Equal(t, TestShowID, layout.ShowId)
				assert.Equal(t, 4, layout.AvailableSeats)
				require.Len(t, layout.Seats, 4)

				labels := make([]string, 0, len(layout.Seats))
				for _, seat := range layout.Seats {
					labels = append(labels, seat.Label)
					assert.Equal(t, "AVAILABLE", seat.Status)
				}
				assert.Equal(t, []string{"A1", "A2", "A3", "B1"}, labels)
				assert.True(t, layout.Seats[3].Price.Equal(decimal.NewFromInt(350)))
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *SeatLayoutTestSuite) TestLayoutReflectsLockedSeatsAndCachesCounter() {
	_, err := s.app.Service.Reserve(context.Background(), TestShowID, []int{TestSeatA1, TestSeatB1}, TestUserX)
	s.Require().NoError(err)

	scenario := Scenario{
		Name:           "locked seats are reported and the counter is seeded in redis",
		Method:         "GET",
		URL:            "/shows/1/seats",
		ExpectedStatus: http.StatusOK,
		AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
			layout := decodeJSON[api.SeatLayoutResponse](t, res)

			assert.Equal(t, 2, layout.AvailableSeats)
			assert.Equal(t, "LOCKED", layout.Seats[0].Status)
			assert.Equal(t, "LOCKED", layout.Seats[3].Status)

			cached, err := app.RedisClient.Get(context.Background(), "show:1:available_seats").Int()
			require.NoError(t, err)
			assert.Equal(t, 2, cached)
		},
	}

	scenario.Run(s.T(), s.app)
}
