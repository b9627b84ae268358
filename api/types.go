// Package api defines the JSON wire types of the booking service.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type CreateShowRequest struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Rows        int             `json:"rows" validate:"required,min=1,max=26"`
	SeatsPerRow int             `json:"seatsPerRow" validate:"required,min=1,max=100"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	StartsAt    time.Time       `json:"startsAt" validate:"required"`
}

type ShowResponse struct {
	Id          int64           `json:"id"`
	Title       string          `json:"title"`
	Rows        int             `json:"rows"`
	SeatsPerRow int             `json:"seatsPerRow"`
	Price       decimal.Decimal `json:"price"`
	StartsAt    time.Time       `json:"startsAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type ShowListResponse struct {
	Shows    []ShowResponse `json:"shows"`
	Metadata Metadata       `json:"metadata"`
}

type OccupiedSeatsResponse struct {
	ShowId        int64    `json:"showId"`
	OccupiedSeats []string `json:"occupiedSeats"`
}

type CreateBookingRequest struct {
	ShowId int64    `json:"showId" validate:"required,gt=0"`
	UserId int64    `json:"userId" validate:"required,gt=0"`
	Email  string   `json:"email" validate:"required,email"`
	Seats  []string `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_label"`
}

type CreateBookingResponse struct {
	BookingId  string          `json:"bookingId"`
	PaymentUrl string          `json:"paymentUrl"`
	AmountDue  decimal.Decimal `json:"amountDue"`
	ExpiresAt  time.Time       `json:"expiresAt"`
}

type BookingResponse struct {
	BookingId string          `json:"bookingId"`
	ShowId    int64           `json:"showId"`
	UserId    int64           `json:"userId"`
	Seats     []string        `json:"seats"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type BookingSummary struct {
	BookingId string          `json:"bookingId"`
	ShowTitle string          `json:"showTitle"`
	ShowStart time.Time       `json:"showStart"`
	Seats     []string        `json:"seats"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

type UserBookingsResponse struct {
	Bookings []BookingSummary `json:"bookings"`
	Metadata Metadata         `json:"metadata"`
}
