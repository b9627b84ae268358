package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecordNotFound       = errors.New("record not found")
	ErrSeatsUnavailable     = errors.New("seat(s) are already taken")
	ErrInvalidSeatSelection = errors.New("invalid seat selection")
	ErrPaymentGateway       = errors.New("payment gateway failure")

	// ErrStaleTransition means a status guard found the booking already moved
	// out of PENDING. It marks a legitimate race, not a fault, and is never
	// surfaced to callers.
	ErrStaleTransition = errors.New("booking status already transitioned")
)

// SeatsUnavailableError carries the seat labels that caused a claim to fail.
// It unwraps to ErrSeatsUnavailable so callers can match either way.
type SeatsUnavailableError struct {
	Seats []string
}

func (e *SeatsUnavailableError) Error() string {
	if len(e.Seats) == 0 {
		return ErrSeatsUnavailable.Error()
	}

	return fmt.Sprintf("seat(s) %s are already taken", strings.Join(e.Seats, ", "))
}

func (e *SeatsUnavailableError) Unwrap() error {
	return ErrSeatsUnavailable
}
