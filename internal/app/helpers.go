package app

import (
	"net/http"
	"strconv"

	"github.com/barisyildiz/cinema-booking-system/internal/domain"
	"github.com/barisyildiz/cinema-booking-system/internal/jsonutil"
	"github.com/go-chi/chi/v5"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	return jsonutil.WriteJSON(w, status, data, headers)
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return jsonutil.ReadJSON(w, r, dst)
}

// readIDParam parses a positive int64 URL parameter, returning 0 when the
// parameter is missing or malformed.
func readIDParam(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0
	}

	return id
}

func readPagination(r *http.Request) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	qs := r.URL.Query()

	if page, err := strconv.Atoi(qs.Get("page")); err == nil && page > 0 {
		pagination.Page = page
	}

	if pageSize, err := strconv.Atoi(qs.Get("pageSize")); err == nil && pageSize > 0 && pageSize <= 100 {
		pagination.PageSize = pageSize
	}

	return pagination
}
