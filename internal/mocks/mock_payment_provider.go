package mocks

import (
	"context"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"
)

type MockPaymentProvider struct {
	mock.Mock
	domain.PaymentProvider
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	booking *domain.Booking,
	show *domain.Show) (*stripe.CheckoutSession, error) {

	args := m.Called(ctx, booking, show)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) Refund(ctx context.Context, paymentIntentID, bookingID string) error {
	args := m.Called(ctx, paymentIntentID, bookingID)
	return args.Error(0)
}
