package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/barisyildiz/cinema-booking-system/api"
	"github.com/barisyildiz/cinema-booking-system/internal/domain"
)

func (app *Application) CreateShowHandler(w http.ResponseWriter, r *http.Request) {
	var req api.CreateShowRequest

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

	show := &domain.Show{
		Title:       req.Title,
		Rows:        req.Rows,
		SeatsPerRow: req.SeatsPerRow,
		Price:       req.Price,
		StartsAt:    req.StartsAt,
	}

	err = app.showRepo.Create(r.Context(), show)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toShowResponse(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowHandler(w http.ResponseWriter, r *http.Request) {
	showId := readIDParam(r, "showId")
	if showId == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("show ID must be greater than zero"))
		return
	}

	show, err := app.showRepo.GetByID(r.Context(), showId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, toShowResponse(show), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowsHandler(w http.ResponseWriter, r *http.Request) {
	pagination := readPagination(r)

	shows, metadata, err := app.showRepo.GetUpcoming(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	showResponses := make([]api.ShowResponse, 0, len(shows))
	for i := range shows {
		showResponses = append(showResponses, toShowResponse(&shows[i]))
	}

	resp := api.ShowListResponse{
		Shows:    showResponses,
		Metadata: toMetadataResponse(metadata),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// GetOccupiedSeatsHandler lists the seats a client cannot pick right now. It
// reads the seat ledger only, so seats held by an advisory lock but not yet
// reserved still show as free.
func (app *Application) GetOccupiedSeatsHandler(w http.ResponseWriter, r *http.Request) {
	showId := readIDParam(r, "showId")
	if showId == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("show ID must be greater than zero"))
		return
	}

	_, err := app.showRepo.GetByID(r.Context(), showId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	seats, err := app.bookingRepo.OccupiedSeats(r.Context(), showId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.OccupiedSeatsResponse{
		ShowId:        showId,
		OccupiedSeats: seats,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toShowResponse(show *domain.Show) api.ShowResponse {
	return api.ShowResponse{
		Id:          show.ID,
		Title:       show.Title,
		Rows:        show.Rows,
		SeatsPerRow: show.SeatsPerRow,
		Price:       show.Price,
		StartsAt:    show.StartsAt,
		CreatedAt:   show.CreatedAt,
	}
}

func toMetadataResponse(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
