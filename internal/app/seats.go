package app

import (
	"net/http"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

func (app *Application) GetSeatLayoutHandler(w http.ResponseWriter, r *http.Request, showId int) {
	err := positiveIntParam("showId", showId)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.bookings.SeatLayout(r.Context(), showId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	available, err := app.bookings.AvailableSeats(r.Context(), showId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toSeatLayoutResponse(showId, available, seats), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toSeatLayoutResponse(showId, available int, seats []domain.ShowSeat) api.SeatLayoutResponse {
	resp := api.SeatLayoutResponse{
		ShowId:         showId,
		AvailableSeats: available,
		Seats:          make([]api.Seat, 0, len(seats)),
	}

	for _, seat := range seats {
		resp.Seats = append(resp.Seats, api.Seat{
			Id:     seat.SeatID,
			Label:  seat.Label(),
			Row:    seat.Row,
			Number: seat.Number,
			Status: string(seat.Status),
			Price:  seat.Price,
		})
	}

	return resp
}
