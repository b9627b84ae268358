// Package scheduler provides the durable deferred expiry check. Tasks are
// persisted in Redis by asynq and delivered at their scheduled time, so a
// pending booking's expiry survives deployments and process restarts.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TypeBookingExpire is the task delivered once per booking at creation
	// time plus the hold window.
	TypeBookingExpire = "booking:expire"

	// QueueBookings keeps expiry checks separate from any future task types.
	QueueBookings = "bookings"
)

type BookingExpirePayload struct {
	BookingID string `json:"booking_id"`
}

func NewBookingExpireTask(bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(BookingExpirePayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(TypeBookingExpire, payload), nil
}

func ParseBookingExpirePayload(task *asynq.Task) (BookingExpirePayload, error) {
	var payload BookingExpirePayload

	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal %s payload: %w", task.Type(), err)
	}

	return payload, nil
}
