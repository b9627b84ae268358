package domain

import (
	"context"

	"github.com/stripe/stripe-go/v82"
)

// PaymentProvider is the external payment collaborator. The coordinator calls
// CreateCheckoutSession exactly once per booking attempt; Refund is
// idempotency-keyed by booking id so duplicate late-payment notifications
// cannot refund twice.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, booking *Booking, show *Show) (*stripe.CheckoutSession, error)
	Refund(ctx context.Context, paymentIntentID, bookingID string) error
}
