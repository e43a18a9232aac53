package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
)

const defaultCancellationReason = "cancelled by customer"

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request, showId int) {
	err := positiveIntParam("showId", showId)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateBookingRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userId := app.contextGetUserId(r)

	booking, err := app.bookings.Reserve(r.Context(), showId, input.SeatIds, userId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp, err := app.toBookingResponse(r, booking)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/bookings/%s", booking.Reference))

	err = app.writeJSON(w, http.StatusCreated, resp, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingsOfUserHandler(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	bookings, err := app.bookings.ListForUser(r.Context(), userId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.BookingListResponse{
		Bookings: make([]api.BookingResponse, 0, len(bookings)),
	}

	for i := range bookings {
		b, err := app.toBookingResponse(r, &bookings[i])
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}
		resp.Bookings = append(resp.Bookings, b)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request, reference string) {
	err := app.validateReference(reference)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	userId := app.contextGetUserId(r)

	booking, err := app.bookings.GetOwnedByReference(r.Context(), reference, userId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp, err := app.toBookingResponse(r, booking)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CancelBookingHandler cancels a confirmed booking. A rejected refund does not
// undo the cancellation; it is reported in the body so the client knows the
// money is still on its way.
func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request, reference string) {
	err := app.validateReference(reference)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CancelBookingRequest

	err = app.readOptionalJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	reason := defaultCancellationReason
	if input.Reason != nil && *input.Reason != "" {
		reason = *input.Reason
	}

	userId := app.contextGetUserId(r)

	booking, err := app.bookings.Cancel(r.Context(), reference, userId, reason)
	if err != nil && (booking == nil || !errors.Is(err, domain.ErrPayment)) {
		app.bookingErrorResponse(w, r, err)
		return
	}

	bookingResp, respErr := app.toBookingResponse(r, booking)
	if respErr != nil {
		app.serverErrorResponse(w, r, respErr)
		return
	}

	resp := api.CancelBookingResponse{
		Booking:  bookingResp,
		Refunded: booking.Status == domain.BookingStatusRefunded,
	}

	if err != nil {
		app.contextGetLogger(r).Warn("booking cancelled but refund failed",
			"booking_reference", booking.Reference, "error", err)
		msg := err.Error()
		resp.RefundError = &msg
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) toBookingResponse(r *http.Request, b *domain.Booking) (api.BookingResponse, error) {
	labels, err := app.bookings.SeatLabels(r.Context(), b)
	if err != nil {
		return api.BookingResponse{}, err
	}

	return api.BookingResponse{
		Id:                 b.ID,
		Reference:          b.Reference,
		ShowId:             b.ShowID,
		Status:             string(b.Status),
		SeatIds:            b.SeatIDs,
		SeatLabels:         labels,
		TotalAmount:        b.TotalAmount,
		Fee:                b.Fee,
		FinalAmount:        b.FinalAmount,
		FailureReason:      b.FailureReason,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
	}, nil
}
