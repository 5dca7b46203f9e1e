package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/internal/http-server/middleware/auth"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type AppointmentLister interface {
	ListAppointments(ctx context.Context, email string, role models.Role, date string) ([]api.Appointment, error)
	UserAppointments(ctx context.Context, email string) ([]api.Appointment, error)
}

type Response struct {
	response.Response
	Appointments []api.Appointment `json:"appointments"`
}

// New serves GET /appointments. Admins see every appointment, other callers
// only their own. ?date= narrows the list to one day.
func New(log *slog.Logger, lister AppointmentLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.get.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := auth.FromContext(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "unauthorized")
			return
		}

		list, err := lister.ListAppointments(r.Context(), id.Email, id.Role, r.URL.Query().Get("date"))
		if err != nil {
			log.Error("Failed to list appointments", sl.Err(err))
			response.FailFrom(w, r, err, "failed to list appointments")
			return
		}

		render.JSON(w, r, Response{Appointments: list})
	}
}

// Mine serves GET /appointments/mine.
func Mine(log *slog.Logger, lister AppointmentLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.get.Mine"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := auth.FromContext(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "unauthorized")
			return
		}

		list, err := lister.UserAppointments(r.Context(), id.Email)
		if err != nil {
			log.Error("Failed to list user appointments", sl.Err(err))
			response.FailFrom(w, r, err, "failed to list appointments")
			return
		}

		render.JSON(w, r, Response{Appointments: list})
	}
}
