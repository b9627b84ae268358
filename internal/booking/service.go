// Package booking contains the reservation coordinator and the confirmation
// reconciler: the two units of work that must agree on final seat ownership.
// The coordinator turns a purchase request into a durable PENDING booking
// with a payment session and a scheduled expiry; the reconciler resolves the
// race between the payment notification and the expiry into exactly one
// terminal state.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/barisyildiz/cinema-booking-system/internal/seatlock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldWindow is how long a PENDING booking keeps its seats before the
// deferred expiry fires. There is no extension mechanism: a payment that
// lands after the window is refunded, never re-granted.
const HoldWindow = 10 * time.Minute

// ExpiryScheduler schedules the durable deferred expiry check for a booking.
// The schedule must survive process restarts; an in-memory timer does not
// satisfy this contract.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error
}

type Service struct {
	shows      domain.ShowRepository
	bookings   domain.BookingRepository
	locks      seatlock.Locker
	payments   domain.PaymentProvider
	scheduler  ExpiryScheduler
	logger     *slog.Logger
	holdWindow time.Duration
	now        func() time.Time
}

type ServiceOption func(*Service)

// WithHoldWindow overrides the default hold window. Used by tests.
func WithHoldWindow(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.holdWindow = d
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	shows domain.ShowRepository,
	bookings domain.BookingRepository,
	locks seatlock.Locker,
	payments domain.PaymentProvider,
	scheduler ExpiryScheduler,
	logger *slog.Logger,
	opts ...ServiceOption) *Service {

	svc := &Service{
		shows:      shows,
		bookings:   bookings,
		locks:      locks,
		payments:   payments,
		scheduler:  scheduler,
		logger:     logger,
		holdWindow: HoldWindow,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

type ReserveInput struct {
	ShowID        int64
	UserID        int64
	CustomerEmail string
	Seats         []string
}

type ReserveResult struct {
	BookingID  string
	PaymentURL string
	AmountDue  decimal.Decimal
	ExpiresAt  time.Time
}

// Reserve runs the full reservation protocol: grid validation, best-effort
// advisory locks, the atomic ledger claim, exactly one payment session call,
// and the durable expiry schedule. Any failure after the claim unwinds
// everything acquired so far; no partial reservation is ever visible to the
// caller.
func (s *Service) Reserve(ctx context.Context, in ReserveInput) (*ReserveResult, error) {
	show, err := s.shows.GetByID(ctx, in.ShowID)
	if err != nil {
		return nil, err
	}

	if len(in.Seats) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", domain.ErrInvalidSeatSelection)
	}

	seen := make(map[string]bool, len(in.Seats))
	for _, seat := range in.Seats {
		if !show.HasSeat(seat) {
			return nil, fmt.Errorf("%w: seat %s is outside the show's grid", domain.ErrInvalidSeatSelection, seat)
		}
		if seen[seat] {
			return nil, fmt.Errorf("%w: seat %s requested twice", domain.ErrInvalidSeatSelection, seat)
		}
		seen[seat] = true
	}

	bookingID := uuid.New().String()

	// Best-effort fast path: a lock conflict means someone else is already
	// paying for one of these seats, so fail before touching the ledger. An
	// unreachable lock layer is only a warning; the ledger's uniqueness
	// constraint still guarantees correctness.
	locksHeld := true

	err = s.locks.AcquireAll(ctx, in.ShowID, in.Seats, bookingID, s.holdWindow)
	if err != nil {
		if errors.Is(err, seatlock.ErrSeatsLocked) {
			return nil, &domain.SeatsUnavailableError{}
		}

		s.logger.Warn("advisory lock layer unavailable, proceeding without locks", "error", err)
		locksHeld = false
	}

	booking := &domain.Booking{
		ID:            bookingID,
		UserID:        in.UserID,
		ShowID:        in.ShowID,
		CustomerEmail: in.CustomerEmail,
		Seats:         in.Seats,
		Amount:        show.Price.Mul(decimal.NewFromInt(int64(len(in.Seats)))),
		Status:        domain.BookingStatusPending,
		CreatedAt:     s.now(),
	}

	err = s.bookings.CreatePendingWithSeats(ctx, booking)
	if err != nil {
		if locksHeld {
			s.releaseLocks(ctx, in.ShowID, in.Seats)
		}

		return nil, err
	}

	checkoutSession, err := s.payments.CreateCheckoutSession(ctx, booking, show)
	if err != nil {
		s.unwind(ctx, booking, locksHeld)
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentGateway, err)
	}

	err = s.bookings.SetCheckoutSession(ctx, booking.ID, checkoutSession.ID)
	if err != nil {
		s.unwind(ctx, booking, locksHeld)
		return nil, err
	}

	expiresAt := booking.CreatedAt.Add(s.holdWindow)

	// A booking whose expiry can't be scheduled would hold its seats forever,
	// so scheduling failure unwinds the reservation like any other step. The
	// orphaned checkout session expires on the provider side.
	err = s.scheduler.ScheduleExpiry(ctx, booking.ID, expiresAt)
	if err != nil {
		s.unwind(ctx, booking, locksHeld)
		return nil, fmt.Errorf("failed to schedule expiry for booking %s: %w", booking.ID, err)
	}

	// Locks stay in place on purpose: their TTL equals the hold window, so
	// they expire together with the hold or get cleared by the reconciler.
	return &ReserveResult{
		BookingID:  booking.ID,
		PaymentURL: checkoutSession.URL,
		AmountDue:  booking.Amount,
		ExpiresAt:  expiresAt,
	}, nil
}

// unwind rolls back a reservation attempt that failed mid-protocol: the
// booking row and its seat claims are removed and any advisory locks
// released. Rollback failures are logged, not returned; the expiry TTL on the
// locks bounds the damage.
func (s *Service) unwind(ctx context.Context, booking *domain.Booking, locksHeld bool) {
	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		s.logger.Error("failed to roll back booking", "booking_id", booking.ID, "error", err)
	}

	if locksHeld {
		s.releaseLocks(ctx, booking.ShowID, booking.Seats)
	}
}

func (s *Service) releaseLocks(ctx context.Context, showID int64, seats []string) {
	if err := s.locks.ReleaseAll(ctx, showID, seats); err != nil {
		s.logger.Warn("failed to release seat locks", "show_id", showID, "error", err)
	}
}
