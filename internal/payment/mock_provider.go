package payment

import (
	"context"
	"sync"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/stripe/stripe-go/v82"
)

// MockPaymentProvider is the stand-in provider for integration tests. It
// issues fake checkout sessions and records refunds instead of calling out.
// Refunds may be recorded from concurrent reconciliations; read it only after
// the calls under test have finished.
type MockPaymentProvider struct {
	mu      sync.Mutex
	Refunds []string
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	booking *domain.Booking,
	show *domain.Show) (*stripe.CheckoutSession, error) {

	return &stripe.CheckoutSession{
		ID:  "cs_test_" + booking.ID,
		URL: "https://checkout.stripe.test/pay/cs_test_" + booking.ID,
	}, nil
}

func (m *MockPaymentProvider) Refund(ctx context.Context, paymentIntentID, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Refunds = append(m.Refunds, bookingID)
	return nil
}
