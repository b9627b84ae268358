package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockExpiryScheduler struct {
	mock.Mock
}

func (m *MockExpiryScheduler) ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error {
	args := m.Called(ctx, bookingID, at)
	return args.Error(0)
}
