// Package router wires handlers, middleware and access rules onto one chi router.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	appointmentCreate "appointments-service/internal/http-server/handlers/appointments/create"
	appointmentDelete "appointments-service/internal/http-server/handlers/appointments/delete"
	appointmentGet "appointments-service/internal/http-server/handlers/appointments/get"
	availCreate "appointments-service/internal/http-server/handlers/availability/create"
	availDelete "appointments-service/internal/http-server/handlers/availability/delete"
	availGet "appointments-service/internal/http-server/handlers/availability/get"
	availUpdate "appointments-service/internal/http-server/handlers/availability/update"
	creditGet "appointments-service/internal/http-server/handlers/credits/get"
	eventCreate "appointments-service/internal/http-server/handlers/events/create"
	eventDelete "appointments-service/internal/http-server/handlers/events/delete"
	eventGet "appointments-service/internal/http-server/handlers/events/get"
	eventUpdate "appointments-service/internal/http-server/handlers/events/update"
	recessCreate "appointments-service/internal/http-server/handlers/recess/create"
	recessDelete "appointments-service/internal/http-server/handlers/recess/delete"
	recessGet "appointments-service/internal/http-server/handlers/recess/get"
	recessUpdate "appointments-service/internal/http-server/handlers/recess/update"
	slotGet "appointments-service/internal/http-server/handlers/slots/get"
	"appointments-service/internal/http-server/handlers/webhook/stripe"
	"appointments-service/internal/http-server/middleware/auth"
	"appointments-service/internal/http-server/middleware/ratelimit"
	"appointments-service/pkg/middleware/mwLogger"
)

// Service is everything the HTTP layer calls.
type Service interface {
	availCreate.AvailabilityCreator
	availGet.AvailabilityGetter
	availGet.AvailabilityLister
	availUpdate.AvailabilityUpdater
	availDelete.AvailabilityDeleter

	recessCreate.RecessCreator
	recessGet.RecessGetter
	recessGet.RecessLister
	recessUpdate.RecessUpdater
	recessDelete.RecessDeleter

	eventCreate.EventCreator
	eventGet.EventGetter
	eventGet.EventLister
	eventUpdate.EventUpdater
	eventDelete.EventDeleter

	slotGet.SlotGetter

	appointmentCreate.AppointmentBooker
	appointmentGet.AppointmentLister
	appointmentDelete.AppointmentDeleter

	creditGet.CreditGetter
	stripe.PaymentRecorder
}

type Options struct {
	JWTSecret     string
	WebhookSecret string
	// Limiter throttles bookings. Nil disables rate limiting.
	Limiter *ratelimit.Limiter
	// Metrics is mounted at /metrics when not nil.
	Metrics http.Handler
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func New(log *slog.Logger, svc Service, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}

	// Payment provider, authenticated by signature
	router.Post("/webhook/stripe", stripe.New(log, opts.WebhookSecret, svc))

	router.Group(func(r chi.Router) {
		r.Use(auth.New(log, opts.JWTSecret))

		// Reads
		r.Get("/availability", availGet.List(log, svc))
		r.Get("/availability/{id}", availGet.New(log, svc))
		r.Get("/recess", recessGet.List(log, svc))
		r.Get("/recess/{id}", recessGet.New(log, svc))
		r.Get("/events", eventGet.List(log, svc))
		r.Get("/events/{id}", eventGet.New(log, svc))

		// Slots
		r.Get("/slots", slotGet.New(log, svc))

		// Appointments
		book := appointmentCreate.New(log, svc)
		if opts.Limiter != nil {
			r.With(opts.Limiter.Middleware).Post("/appointments", book)
		} else {
			r.Post("/appointments", book)
		}
		r.Get("/appointments", appointmentGet.New(log, svc))
		r.Get("/appointments/mine", appointmentGet.Mine(log, svc))
		r.Delete("/appointments/{id}", appointmentDelete.New(log, svc))

		// Credits
		r.Get("/credits", creditGet.New(log, svc))

		// Administration
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Post("/availability", availCreate.New(log, svc))
			r.Put("/availability/{id}", availUpdate.New(log, svc))
			r.Delete("/availability/{id}", availDelete.New(log, svc))

			r.Post("/recess", recessCreate.New(log, svc))
			r.Put("/recess/{id}", recessUpdate.New(log, svc))
			r.Delete("/recess/{id}", recessDelete.New(log, svc))

			r.Post("/events", eventCreate.New(log, svc))
			r.Put("/events/{id}", eventUpdate.New(log, svc))
			r.Delete("/events/{id}", eventDelete.New(log, svc))
		})
	})

	return router
}
