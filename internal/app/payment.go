package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/metinatakli/cinex-booking/api"
	"github.com/metinatakli/cinex-booking/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = int64(65536)

func (app *Application) InitiatePaymentHandler(w http.ResponseWriter, r *http.Request, reference string) {
	err := app.validateReference(reference)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	userId := app.contextGetUserId(r)

	handle, err := app.bookings.InitiatePayment(r.Context(), reference, userId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.PaymentResponse{
		BookingReference: handle.BookingReference,
		ExternalRef:      handle.ExternalRef,
		ClientSecret:     handle.ClientSecret,
		Amount:           handle.Amount,
		Currency:         handle.Currency,
		Status:           string(handle.Status),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ConfirmPaymentHandler re-checks the charge with the provider. The outcome
// comes from the provider, never from the caller, so it needs no session.
func (app *Application) ConfirmPaymentHandler(w http.ResponseWriter, r *http.Request, externalRef string) {
	paid, err := app.bookings.ConfirmPayment(r.Context(), externalRef)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.ConfirmPaymentResponse{
		ExternalRef: externalRef,
		Paid:        paid,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("failed to read request body"))
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		r.Header.Get("Stripe-Signature"),
		app.config.Stripe.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid webhook signature"))
		return
	}

	logger := app.contextGetLogger(r).With("event_id", event.ID, "event_type", event.Type)

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded,
		stripe.EventTypePaymentIntentPaymentFailed,
		stripe.EventTypePaymentIntentCanceled:

		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			app.badRequestResponse(w, r, errors.New("invalid payment intent payload"))
			return
		}

		paid, err := app.bookings.ConfirmPayment(r.Context(), intent.ID)
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("webhook for unknown payment intent", "external_ref", intent.ID)
		case errors.Is(err, domain.ErrPayment):
			// Already handled: a late charge was refunded or the intent is still pending.
			logger.Warn("webhook payment not applied", "external_ref", intent.ID, "error", err)
		case err != nil:
			// A non-2xx answer makes Stripe redeliver the event.
			app.serverErrorResponse(w, r, err)
			return
		default:
			logger.Info("webhook payment applied", "external_ref", intent.ID, "paid", paid)
		}
	default:
		logger.Debug("ignoring webhook event")
	}

	w.WriteHeader(http.StatusOK)
}
