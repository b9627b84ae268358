package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = int64(65536)

// StripeWebhookHandler receives payment notifications from Stripe. The
// signature check is the trust boundary: an invalid signature is rejected
// without touching any state. Events other than checkout.session.completed
// are acknowledged and ignored.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to read webhook body"))
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("webhook signature verification failed"))
		return
	}

	if event.Type != "checkout.session.completed" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var checkoutSession stripe.CheckoutSession
	err = json.Unmarshal(event.Data.Raw, &checkoutSession)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("malformed checkout session payload"))
		return
	}

	// Delayed payment methods complete the session before the money moves; the
	// async payment webhooks cover those. Only a paid session confirms seats.
	if checkoutSession.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		w.WriteHeader(http.StatusOK)
		return
	}

	bookingId := checkoutSession.Metadata["booking_id"]
	if bookingId == "" {
		app.badRequestResponse(w, r, fmt.Errorf("checkout session has no booking ID"))
		return
	}

	var paymentIntentId string
	if checkoutSession.PaymentIntent != nil {
		paymentIntentId = checkoutSession.PaymentIntent.ID
	}

	// A non-nil error here means a transient failure (database down, provider
	// unreachable during a refund). Responding 5xx makes Stripe redeliver the
	// event; the reconciler is idempotent under redelivery.
	err = app.reconciler.PaymentSucceeded(r.Context(), bookingId, paymentIntentId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
