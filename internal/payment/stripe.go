package payment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/refund"
)

// checkoutSessionLifetime bounds how long an abandoned checkout page stays
// payable at the provider. It is longer than the hold window on purpose: a
// payment completed between the two is the late-payment case and gets
// refunded by the reconciler.
const checkoutSessionLifetime = 30 * time.Minute

type StripePaymentProvider struct {
	successUrl string
	failureUrl string
}

func NewStripePaymentProvider(successUrl, failureUrl string) *StripePaymentProvider {
	return &StripePaymentProvider{
		successUrl: successUrl,
		failureUrl: failureUrl,
	}
}

func (s *StripePaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	booking *domain.Booking,
	show *domain.Show) (*stripe.CheckoutSession, error) {

	seatPriceCents := show.Price.Mul(decimal.NewFromInt(100)).IntPart()

	var lineItems []*stripe.CheckoutSessionLineItemParams

	for _, seat := range booking.Seats {
		lineItem := &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyUSD)),
				UnitAmount: stripe.Int64(seatPriceCents),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(fmt.Sprintf("🎬 %s - Seat %s", show.Title, seat)),
					Description: stripe.String(fmt.Sprintf(
						"Showtime: %s",
						show.StartsAt.Format("Jan 2, 2006 15:04"),
					)),
				},
			},
			Quantity: stripe.Int64(1),
		}

		lineItems = append(lineItems, lineItem)
	}

	params := &stripe.CheckoutSessionParams{
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.successUrl),
		CancelURL:  stripe.String(s.failureUrl),
		ExpiresAt:  stripe.Int64(time.Now().Add(checkoutSessionLifetime).Unix()),
		Metadata: map[string]string{
			"booking_id": booking.ID,
			"show_id":    strconv.FormatInt(booking.ShowID, 10),
			"user_id":    strconv.FormatInt(booking.UserID, 10),
		},
		CustomerEmail:     stripe.String(booking.CustomerEmail),
		ClientReferenceID: stripe.String(booking.ID),
	}

	params.Context = ctx
	params.SetIdempotencyKey("checkout-" + booking.ID)

	return session.New(params)
}

// Refund voids the payment of a booking that expired before its notification
// arrived. The idempotency key is derived from the booking id, so a
// redelivered notification cannot produce a second refund.
func (s *StripePaymentProvider) Refund(ctx context.Context, paymentIntentID, bookingID string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}

	params.Context = ctx
	params.SetIdempotencyKey("refund-" + bookingID)

	_, err := refund.New(params)

	return err
}
