package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

// A booking starts PENDING and moves to exactly one terminal state. Once PAID
// or EXPIRED it never changes again; the repository enforces this with a
// compare-and-swap on the current status.
const (
	BookingStatusPending BookingStatus = "PENDING"
	BookingStatusPaid    BookingStatus = "PAID"
	BookingStatusExpired BookingStatus = "EXPIRED"
)

type SeatStatus string

const (
	SeatStatusReserved SeatStatus = "RESERVED"
	SeatStatusBooked   SeatStatus = "BOOKED"
)

// Booking is one purchase attempt. Seats is the snapshot of seat labels taken
// at reservation time and is independent of the seat rows in the ledger.
type Booking struct {
	ID                string
	UserID            int64
	ShowID            int64
	CustomerEmail     string
	Seats             []string
	Amount            decimal.Decimal
	Status            BookingStatus
	CheckoutSessionID *string
	PaymentIntentID   *string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// BookingSummary is the flattened row returned for a user's booking history.
type BookingSummary struct {
	BookingID string
	ShowTitle string
	ShowStart time.Time
	Seats     []string
	Amount    decimal.Decimal
	Status    BookingStatus
	CreatedAt time.Time
}

// BookingRepository is the seat ledger plus the booking store. Every mutation
// is a single atomic transaction; MarkPaid and MarkExpired are guarded by
// "status is still PENDING" and return ErrStaleTransition when the guard
// fails, so racing callers resolve to exactly one winner.
type BookingRepository interface {
	// CreatePendingWithSeats inserts the booking row and one RESERVED seat
	// row per requested seat in one transaction. A uniqueness violation on
	// any seat aborts the whole transaction and is reported as a
	// *SeatsUnavailableError naming the conflicting seats.
	CreatePendingWithSeats(ctx context.Context, booking *Booking) error

	GetByID(ctx context.Context, id string) (*Booking, error)

	SetCheckoutSession(ctx context.Context, id, checkoutSessionID string) error

	// MarkPaid flips the booking PENDING -> PAID and its RESERVED seat rows
	// to BOOKED, all in one transaction.
	MarkPaid(ctx context.Context, id, paymentIntentID string) error

	// MarkExpired flips the booking PENDING -> EXPIRED and deletes its
	// RESERVED seat rows. BOOKED rows are never touched.
	MarkExpired(ctx context.Context, id string) error

	// Delete removes a still-PENDING booking and its seat rows. Used only to
	// unwind a reservation attempt that failed before a payment session was
	// issued.
	Delete(ctx context.Context, id string) error

	OccupiedSeats(ctx context.Context, showID int64) ([]string, error)

	GetSummariesByUserID(ctx context.Context, userID int64, pagination Pagination) ([]BookingSummary, *Metadata, error)
}
