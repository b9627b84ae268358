package domain

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Show is a single screening. The seat grid is rows x seats-per-row; rows are
// labeled A.. and seats within a row are numbered from 1, so "C7" is the
// seventh seat of the third row. The grid is immutable after creation.
type Show struct {
	ID          int64
	Title       string
	Rows        int
	SeatsPerRow int
	Price       decimal.Decimal
	StartsAt    time.Time
	CreatedAt   time.Time
}

// HasSeat reports whether a seat label falls inside the show's grid.
// Labels are an uppercase row letter followed by a 1-based seat number,
// with no leading zeros.
func (s Show) HasSeat(label string) bool {
	if len(label) < 2 {
		return false
	}

	row := label[0]
	if row < 'A' || row > 'Z' || int(row-'A') >= s.Rows {
		return false
	}

	num, err := strconv.Atoi(label[1:])
	if err != nil || label[1] == '0' {
		return false
	}

	return num >= 1 && num <= s.SeatsPerRow
}

type ShowRepository interface {
	Create(ctx context.Context, show *Show) error
	GetByID(ctx context.Context, id int64) (*Show, error)
	GetUpcoming(ctx context.Context, pagination Pagination) ([]Show, *Metadata, error)
}
