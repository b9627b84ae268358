package integration_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/barisyildiz/cinema-booking-system/internal/app"
	"github.com/barisyildiz/cinema-booking-system/internal/booking"
	"github.com/barisyildiz/cinema-booking-system/internal/mailer"
	"github.com/barisyildiz/cinema-booking-system/internal/payment"
	"github.com/barisyildiz/cinema-booking-system/internal/repository"
	"github.com/barisyildiz/cinema-booking-system/internal/seatlock"
	appvalidator "github.com/barisyildiz/cinema-booking-system/internal/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type TestApp struct {
	App        *app.Application
	DB         *pgxpool.Pool
	Redis      *redis.Client
	Mailer     *mailer.MockMailer
	Payments   *payment.MockPaymentProvider
	Scheduler  *expiryRecorder
	Locker     seatlock.Locker
	Reconciler *booking.Reconciler
}

// expiryRecorder captures expiry schedules instead of enqueuing real delayed
// tasks. Tests drive the expiry side of the reconciliation by calling the
// reconciler directly; waiting out a real hold window is not practical here.
type expiryRecorder struct {
	mu        sync.Mutex
	scheduled map[string]time.Time
}

func newExpiryRecorder() *expiryRecorder {
	return &expiryRecorder{
		scheduled: make(map[string]time.Time),
	}
}

func (r *expiryRecorder) ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scheduled[bookingID] = at

	return nil
}

func (r *expiryRecorder) ScheduledAt(bookingID string) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	at, ok := r.scheduled[bookingID]
	return at, ok
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	showRepo := repository.NewPostgresShowRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)

	locker := seatlock.NewRedisLocker(redisClient)
	paymentProvider := payment.NewMockPaymentProvider()
	scheduler := newExpiryRecorder()

	application := app.NewApp(
		cfg,
		logger,
		db,
		redisClient,
		validator,
		mockMailer,
		showRepo,
		bookingRepo,
		locker,
		scheduler,
		paymentProvider,
	)

	reconciler := booking.NewReconciler(bookingRepo, showRepo, locker, paymentProvider, mockMailer, logger)

	return &TestApp{
		App:        application,
		DB:         db,
		Redis:      redisClient,
		Mailer:     mockMailer,
		Payments:   paymentProvider,
		Scheduler:  scheduler,
		Locker:     locker,
		Reconciler: reconciler,
	}, nil
}
