package app

import (
	"net/http"

	appmiddleware "github.com/barisyildiz/cinema-booking-system/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("cinema-booking-api", otelchi.WithChiRoutes(r)))
	r.Use(appmiddleware.RequestLogger(app.logger))
	r.Use(appmiddleware.RecoverPanic)

	r.NotFound(appmiddleware.NotFoundHandler)

	r.Get("/health", app.HealthcheckHandler)

	r.Route("/shows", func(r chi.Router) {
		r.Post("/", app.CreateShowHandler)
		r.Get("/", app.GetShowsHandler)
		r.Get("/{showId}", app.GetShowHandler)
		r.Get("/{showId}/seats", app.GetOccupiedSeatsHandler)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", app.CreateBookingHandler)
		r.Get("/{bookingId}", app.GetBookingHandler)
	})

	r.Get("/users/{userId}/bookings", app.GetUserBookingsHandler)

	r.Post("/webhook", app.StripeWebhookHandler)

	return r
}
