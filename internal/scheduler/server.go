package scheduler

import (
	"context"
	"log/slog"

	"github.com/barisyildiz/cinema-booking-system/internal/booking"
	"github.com/hibiken/asynq"
)

// Server wraps the asynq worker that consumes scheduled expiry tasks and
// routes them into the reconciler.
type Server struct {
	srv        *asynq.Server
	mux        *asynq.ServeMux
	reconciler *booking.Reconciler
	logger     *slog.Logger
}

func NewServer(redisAddr string, reconciler *booking.Reconciler, logger *slog.Logger) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueBookings: 1,
			},
		},
	)

	s := &Server{
		srv:        srv,
		mux:        asynq.NewServeMux(),
		reconciler: reconciler,
		logger:     logger,
	}

	s.mux.HandleFunc(TypeBookingExpire, s.handleBookingExpire)

	return s
}

// handleBookingExpire is Entry B of the reconciliation: it fires once at the
// end of the hold window regardless of whether a payment notification has
// arrived. An error return makes asynq redeliver the task; the guarded
// transition keeps redelivery safe.
func (s *Server) handleBookingExpire(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBookingExpirePayload(task)
	if err != nil {
		// A malformed payload never becomes valid; drop it instead of
		// retrying.
		s.logger.Error("dropping malformed expiry task", "error", err)
		return nil
	}

	return s.reconciler.Expire(ctx, payload.BookingID)
}

// Start runs the worker loop in the background.
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
