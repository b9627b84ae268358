package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/barisyildiz/cinema-booking-system/api"
	"github.com/barisyildiz/cinema-booking-system/internal/booking"
	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	result, err := app.reservations.Reserve(r.Context(), booking.ReserveInput{
		ShowID:        req.ShowId,
		UserID:        req.UserId,
		CustomerEmail: req.Email,
		Seats:         req.Seats,
	})
	if err != nil {
		var seatsUnavailable *domain.SeatsUnavailableError

		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponseWithErr(w, r, fmt.Errorf("show %d not found", req.ShowId))
		case errors.Is(err, domain.ErrInvalidSeatSelection):
			app.badRequestResponse(w, r, err)
		case errors.As(err, &seatsUnavailable):
			app.editConflictResponseWithErr(w, r, fmt.Errorf("some of the selected seats are already taken"))
		case errors.Is(err, domain.ErrPaymentGateway):
			app.badGatewayResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.CreateBookingResponse{
		BookingId:  result.BookingID,
		PaymentUrl: result.PaymentURL,
		AmountDue:  result.AmountDue,
		ExpiresAt:  result.ExpiresAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingId := chi.URLParam(r, "bookingId")

	_, err := uuid.Parse(bookingId)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid booking ID"))
		return
	}

	b, err := app.bookingRepo.GetByID(r.Context(), bookingId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := api.BookingResponse{
		BookingId: b.ID,
		ShowId:    b.ShowID,
		UserId:    b.UserID,
		Seats:     b.Seats,
		Amount:    b.Amount,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userId := readIDParam(r, "userId")
	if userId == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("user ID must be greater than zero"))
		return
	}

	pagination := readPagination(r)

	summaries, metadata, err := app.bookingRepo.GetSummariesByUserID(r.Context(), userId, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	bookings := make([]api.BookingSummary, 0, len(summaries))
	for _, s := range summaries {
		bookings = append(bookings, api.BookingSummary{
			BookingId: s.BookingID,
			ShowTitle: s.ShowTitle,
			ShowStart: s.ShowStart,
			Seats:     s.Seats,
			Amount:    s.Amount,
			Status:    string(s.Status),
			CreatedAt: s.CreatedAt,
		})
	}

	resp := api.UserBookingsResponse{
		Bookings: bookings,
		Metadata: toMetadataResponse(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
