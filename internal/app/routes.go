package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/healthcheck", app.GetHealth)

	r.Get("/events", app.ListEvents)
	r.Get("/events/{eventId}", app.GetEvent)
	r.Get("/events/{eventId}/seats", app.GetSeatMap)
	r.Post("/events/{eventId}/reservations", app.CreateReservation)

	r.Get("/assets/{publicId}", app.GetAsset)

	r.Post("/webhooks/payment", app.PaymentWebhook)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", app.RegisterUser)
		r.Post("/login", app.Login)
		r.Post("/logout", app.Logout)
	})

	r.With(app.requireAuthentication).Route("/users/me", func(r chi.Router) {
		r.Get("/", app.GetCurrentUser)
		r.Get("/reservations", app.GetReservationsOfUser)
		r.Post("/reservations/{reservationId}/cancel", app.CancelReservation)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(app.requireAuthentication)
		r.Use(app.requireAdmin)

		r.Get("/events", app.AdminListEvents)
		r.Post("/events", app.CreateEvent)
		r.Put("/events/{eventId}", app.UpdateEvent)
		r.Post("/events/{eventId}/reseed", app.ReseedEvent)
		r.Post("/events/{eventId}/seats/block", app.BlockSeats)
		r.Post("/events/{eventId}/seats/unblock", app.UnblockSeats)
		r.Post("/events/{eventId}/bookings", app.CreateManualBooking)

		r.Post("/reservations/{reservationId}/check-in", app.CheckIn)
		r.Get("/attendees/export", app.ExportAttendees)

		r.Post("/users/{userId}/points", app.AdjustPoints)

		r.Post("/assets", app.UploadAsset)
		r.Delete("/assets/{publicId}", app.DeleteAsset)
	})

	return r
}
