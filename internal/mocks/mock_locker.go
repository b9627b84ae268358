package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) AcquireAll(ctx context.Context, showID int64, seats []string, holder string, ttl time.Duration) error {
	args := m.Called(ctx, showID, seats, holder, ttl)
	return args.Error(0)
}

func (m *MockLocker) ReleaseAll(ctx context.Context, showID int64, seats []string) error {
	args := m.Called(ctx, showID, seats)
	return args.Error(0)
}
