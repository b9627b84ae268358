package repository

import (
	"context"
	"errors"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

// CreatePendingWithSeats claims every requested seat and creates the booking
// in one transaction. The primary key on (show_id, seat_number) is the only
// mutual-exclusion mechanism: if any seat row already exists the whole
// transaction aborts, so a claim is always all-or-nothing.
func (p *PostgresBookingRepository) CreatePendingWithSeats(ctx context.Context, booking *domain.Booking) error {
	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (id, user_id, show_id, customer_email, seats, amount, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.ID,
			booking.UserID,
			booking.ShowID,
			booking.CustomerEmail,
			booking.Seats,
			booking.Amount,
			booking.Status,
		).Scan(&booking.CreatedAt)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			rows = append(rows, []any{
				booking.ShowID,
				seat,
				booking.ID,
				domain.SeatStatusReserved,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"show_id", "seat_number", "booking_id", "status"},
			pgx.CopyFromRows(rows),
		)

		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return p.seatsUnavailable(ctx, booking.ShowID, booking.Seats)
		}

		return err
	}

	return nil
}

// seatsUnavailable builds the conflict report after a failed claim. The read
// happens outside the aborted transaction, so under heavy contention the
// reported set can differ slightly from the row that fired the violation; it
// is never empty for the caller's purposes because a generic conflict is
// still returned when the re-read finds nothing.
func (p *PostgresBookingRepository) seatsUnavailable(ctx context.Context, showID int64, seats []string) error {
	query := `
		SELECT seat_number
		FROM booking_seats
		WHERE show_id = $1 AND seat_number = ANY($2)
		ORDER BY seat_number
	`

	rows, err := p.db.Query(ctx, query, showID, seats)
	if err != nil {
		return &domain.SeatsUnavailableError{}
	}
	defer rows.Close()

	conflicting := make([]string, 0, len(seats))

	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return &domain.SeatsUnavailableError{}
		}

		conflicting = append(conflicting, seat)
	}

	return &domain.SeatsUnavailableError{Seats: conflicting}
}

func (p *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, show_id, customer_email, seats, amount, status,
			checkout_session_id, payment_intent_id, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.CustomerEmail,
		&booking.Seats,
		&booking.Amount,
		&booking.Status,
		&booking.CheckoutSessionID,
		&booking.PaymentIntentID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) SetCheckoutSession(ctx context.Context, id, checkoutSessionID string) error {
	query := `
		UPDATE bookings
		SET checkout_session_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := p.db.Exec(ctx, query, id, checkoutSessionID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// MarkPaid performs the guarded PENDING -> PAID transition. The status check
// is part of the UPDATE itself, never a separate read, so whichever of the
// payment notification and the expiry task commits first wins and the other
// sees ErrStaleTransition.
func (p *PostgresBookingRepository) MarkPaid(ctx context.Context, id, paymentIntentID string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = $2, payment_intent_id = $3, updated_at = NOW()
			WHERE id = $1 AND status = $4
		`

		tag, err := tx.Exec(ctx, query, id, domain.BookingStatusPaid, paymentIntentID, domain.BookingStatusPending)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrStaleTransition
		}

		query = `
			UPDATE booking_seats
			SET status = $2
			WHERE booking_id = $1 AND status = $3
		`

		_, err = tx.Exec(ctx, query, id, domain.SeatStatusBooked, domain.SeatStatusReserved)

		return err
	})
}

// MarkExpired performs the guarded PENDING -> EXPIRED transition and releases
// the booking's RESERVED seat rows. BOOKED rows are never deleted here: they
// only exist once the booking is PAID, and the guard rules that case out.
func (p *PostgresBookingRepository) MarkExpired(ctx context.Context, id string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = $3
		`

		tag, err := tx.Exec(ctx, query, id, domain.BookingStatusExpired, domain.BookingStatusPending)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrStaleTransition
		}

		query = `
			DELETE FROM booking_seats
			WHERE booking_id = $1 AND status = $2
		`

		_, err = tx.Exec(ctx, query, id, domain.SeatStatusReserved)

		return err
	})
}

func (p *PostgresBookingRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM bookings
		WHERE id = $1 AND status = $2
	`

	_, err := p.db.Exec(ctx, query, id, domain.BookingStatusPending)

	return err
}

func (p *PostgresBookingRepository) OccupiedSeats(ctx context.Context, showID int64) ([]string, error) {
	query := `
		SELECT seat_number
		FROM booking_seats
		WHERE show_id = $1
		ORDER BY seat_number
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]string, 0)

	for rows.Next() {
		var seat string

		if err := rows.Scan(&seat); err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserID(
	ctx context.Context,
	userID int64,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			s.title,
			s.starts_at,
			b.seats,
			b.amount,
			b.status,
			b.created_at
		FROM bookings b
		JOIN shows s ON b.show_id = s.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.ShowTitle,
			&summary.ShowStart,
			&summary.Seats,
			&summary.Amount,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}
