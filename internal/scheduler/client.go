package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
)

type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr}),
	}
}

// ScheduleExpiry enqueues the expiry check for a booking. The task id is
// derived from the booking id, so scheduling the same booking twice is a
// no-op rather than a second timer.
func (c *Client) ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error {
	task, err := NewBookingExpireTask(bookingID)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(
		ctx,
		task,
		asynq.ProcessAt(at),
		asynq.TaskID("expire:"+bookingID),
		asynq.Queue(QueueBookings),
		asynq.MaxRetry(5),
		asynq.Retention(24*time.Hour),
	)

	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}

	return err
}

func (c *Client) Close() error {
	return c.client.Close()
}
