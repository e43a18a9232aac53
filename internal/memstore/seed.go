package memstore

import (
	"context"
	"time"

	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/shopspring/decimal"
)

const DemoShowID = 1

var demoRows = []struct {
	row   string
	price decimal.Decimal
}{
	{"A", decimal.NewFromInt(200)},
	{"B", decimal.NewFromInt(200)},
	{"C", decimal.NewFromInt(250)},
	{"D", decimal.NewFromInt(250)},
	{"E", decimal.NewFromInt(350)},
}

// SeedDemo registers a single upcoming show with five rows of ten seats so
// the server can run without a database.
func (s *Store) SeedDemo(ctx context.Context, now time.Time) error {
	show := domain.Show{
		ID:          DemoShowID,
		MovieTitle:  "Interstellar",
		TheaterName: "CineX Downtown",
		ScreenName:  "Screen 1",
		StartTime:   now.Add(48 * time.Hour),
		Status:      domain.ShowStatusUpcoming,
		Currency:    "INR",
	}
	s.Shows.Put(show)

	seatID := 0
	seats := make([]domain.ShowSeat, 0, len(demoRows)*10)
	for _, r := range demoRows {
		for n := 1; n <= 10; n++ {
			seatID++
			seats = append(seats, domain.ShowSeat{
				SeatID: seatID,
				Row:    r.row,
				Number: n,
				Status: domain.SeatStatusAvailable,
				Price:  r.price,
			})
		}
	}
	s.Inventory.AddSeats(show.ID, seats...)

	return s.Counter.Seed(ctx, show.ID, len(seats))
}
