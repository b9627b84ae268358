package booking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/barisyildiz/cinema-booking-system/internal/mailer"
	"github.com/barisyildiz/cinema-booking-system/internal/seatlock"
)

// Reconciler owns the single guarded transition out of PENDING. The payment
// webhook and the deferred expiry task both converge here; whichever commits
// its compare-and-swap first determines the outcome and the loser's path is a
// no-op. Nothing outside this type is permitted to move a booking to a
// terminal state.
type Reconciler struct {
	bookings domain.BookingRepository
	shows    domain.ShowRepository
	locks    seatlock.Locker
	payments domain.PaymentProvider
	mailer   mailer.Mailer
	logger   *slog.Logger
}

func NewReconciler(
	bookings domain.BookingRepository,
	shows domain.ShowRepository,
	locks seatlock.Locker,
	payments domain.PaymentProvider,
	mailer mailer.Mailer,
	logger *slog.Logger) *Reconciler {

	return &Reconciler{
		bookings: bookings,
		shows:    shows,
		locks:    locks,
		payments: payments,
		mailer:   mailer,
		logger:   logger,
	}
}

// PaymentSucceeded handles a payment-succeeded notification. Deliveries may
// be duplicated or arrive after expiry; duplicates are no-ops and a payment
// for an already-expired booking is refunded, never re-granted, because the
// seats may belong to another booking by then.
func (r *Reconciler) PaymentSucceeded(ctx context.Context, bookingID, paymentIntentID string) error {
	booking, err := r.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			r.logger.Warn("payment notification for unknown booking", "booking_id", bookingID)
			return nil
		}

		return err
	}

	switch booking.Status {
	case domain.BookingStatusPaid:
		r.logger.Info("duplicate payment notification", "booking_id", bookingID)
		return nil

	case domain.BookingStatusExpired:
		return r.refund(ctx, booking, paymentIntentID)

	case domain.BookingStatusPending:
		err := r.bookings.MarkPaid(ctx, bookingID, paymentIntentID)
		if err != nil {
			if errors.Is(err, domain.ErrStaleTransition) {
				// Lost the race: the booking just left PENDING. Re-read and
				// resolve against the terminal state; this recurses at most
				// once because the status can never return to PENDING.
				return r.PaymentSucceeded(ctx, bookingID, paymentIntentID)
			}

			return err
		}

		r.logger.Info("booking confirmed", "booking_id", bookingID)
		r.notify(ctx, booking, "booking_confirmed.tmpl")

		return nil
	}

	return nil
}

// Expire handles the deferred expiry check, fired once per booking at
// creation time plus the hold window.
func (r *Reconciler) Expire(ctx context.Context, bookingID string) error {
	booking, err := r.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			r.logger.Warn("expiry fired for unknown booking", "booking_id", bookingID)
			return nil
		}

		return err
	}

	if booking.Status != domain.BookingStatusPending {
		// Payment won the race, or a duplicate expiry; either way the
		// terminal state stands.
		return nil
	}

	err = r.bookings.MarkExpired(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrStaleTransition) {
			return nil
		}

		return err
	}

	if err := r.locks.ReleaseAll(ctx, booking.ShowID, booking.Seats); err != nil {
		r.logger.Warn("failed to release seat locks on expiry", "booking_id", bookingID, "error", err)
	}

	r.logger.Info("booking expired, seats released", "booking_id", bookingID)
	r.notify(ctx, booking, "booking_expired.tmpl")

	return nil
}

// refund voids a legitimate payment for inventory that is no longer held.
// The provider call is idempotency-keyed by booking id so a redelivered
// notification cannot refund twice.
func (r *Reconciler) refund(ctx context.Context, booking *domain.Booking, paymentIntentID string) error {
	if paymentIntentID == "" {
		r.logger.Error("cannot refund expired booking without a payment intent", "booking_id", booking.ID)
		return nil
	}

	err := r.payments.Refund(ctx, paymentIntentID, booking.ID)
	if err != nil {
		return err
	}

	r.logger.Info("late payment refunded for expired booking", "booking_id", booking.ID)

	return nil
}

// notify sends the outcome email off the critical path. The notification
// boundary is fire-and-forget: a failed send is logged and dropped.
func (r *Reconciler) notify(ctx context.Context, booking *domain.Booking, templateFile string) {
	if booking.CustomerEmail == "" {
		return
	}

	go func(ctx context.Context) {
		defer func() {
			if err := recover(); err != nil {
				r.logger.Error("panic during booking notification", "panic", err)
			}
		}()

		show, err := r.shows.GetByID(ctx, booking.ShowID)
		if err != nil {
			r.logger.Error("failed to load show for notification", "booking_id", booking.ID, "error", err)
			return
		}

		data := map[string]any{
			"bookingID": booking.ID,
			"showTitle": show.Title,
			"showStart": show.StartsAt,
			"seats":     booking.Seats,
			"amount":    booking.Amount,
		}

		err = r.mailer.Send(booking.CustomerEmail, templateFile, data)
		if err != nil {
			r.logger.Error("failed to send booking notification", "booking_id", booking.ID, "error", err)
		}
	}(context.WithoutCancel(ctx))
}
