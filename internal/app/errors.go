package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	appvalidator "github.com/metinatakli/cinex-booking/internal/validator"
)

const (
	ErrInternalServer     = "The server encountered a problem and could not process your request"
	ErrNotFound           = "The requested resource not found"
	ErrMethodNotAllowed   = "The method is not supported for this resource"
	ErrUnauthenticated    = "You must be authenticated to access this resource"
	ErrInvalidToken       = "Invalid or expired authentication token"
	ErrForbidden          = "You do not have permission to access this resource"
	ErrFailedValidation   = "One or more fields have invalid values"
	ErrSeatsNotAvailable  = "Some of the selected seats are not available"
	ErrPaymentUnavailable = "The payment could not be processed"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri, "request_id", middleware.GetReqID(r.Context()))
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeError(w, r, status, newErrorResponse(r, message))
}

func (app *Application) writeError(w http.ResponseWriter, r *http.Request, status int, resp any) {
	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func newErrorResponse(r *http.Request, message string) api.ErrorResponse {
	return api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// invalidParamResponse reports path parameters the router could not bind.
// The only typed path parameters are numeric ids.
func (app *Application) invalidParamResponse(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *api.InvalidParamFormatError
	if errors.As(err, &paramErr) {
		app.badRequestResponse(w, r, fmt.Errorf("%s must be a positive integer", paramErr.ParamName))
		return
	}

	app.badRequestResponse(w, r, err)
}

func (app *Application) unauthorizedAccessResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrUnauthenticated)
}

func (app *Application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidToken)
}

func (app *Application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusForbidden, ErrForbidden)
}

func (app *Application) editConflictResponseWithErr(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusConflict, err.Error())
}

func (app *Application) seatConflictResponse(w http.ResponseWriter, r *http.Request, err *domain.SeatUnavailableError) {
	base := newErrorResponse(r, ErrSeatsNotAvailable)
	resp := api.SeatConflictResponse{
		Message:            base.Message,
		RequestId:          base.RequestId,
		Timestamp:          base.Timestamp,
		UnavailableSeatIds: err.SeatIDs,
	}

	app.writeError(w, r, http.StatusConflict, resp)
}

func (app *Application) paymentErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.contextGetLogger(r).Warn("payment error", "error", err)
	app.errorResponse(w, r, http.StatusBadGateway, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	base := newErrorResponse(r, ErrFailedValidation)
	resp := api.ValidationErrorResponse{
		Message:          base.Message,
		RequestId:        base.RequestId,
		Timestamp:        base.Timestamp,
		ValidationErrors: make([]api.ValidationError, 0, len(validationErrs)),
	}

	for _, fieldErr := range validationErrs {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	app.writeError(w, r, http.StatusUnprocessableEntity, resp)
}

// bookingErrorResponse maps errors returned by the booking service onto
// HTTP responses.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var unavailable *domain.SeatUnavailableError

	switch {
	case errors.As(err, &unavailable):
		app.seatConflictResponse(w, r, unavailable)
	case errors.Is(err, domain.ErrInvalidRequest):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrUnauthorized):
		app.forbiddenResponse(w, r)
	case errors.Is(err, domain.ErrPayment):
		app.paymentErrorResponse(w, r, err)
	case errors.Is(err, domain.ErrIllegalBookingState):
		app.editConflictResponseWithErr(w, r, err)
	case errors.Is(err, domain.ErrInventory):
		app.contextGetLogger(r).Error("seat inventory inconsistency", "error", fmt.Sprintf("%+v", err))
		app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
