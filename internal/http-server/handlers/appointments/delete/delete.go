package delete

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"appointments-service/internal/http-server/middleware/auth"
	"appointments-service/internal/models"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type AppointmentDeleter interface {
	DeleteAppointment(ctx context.Context, id, email string, role models.Role) error
}

func New(log *slog.Logger, deleter AppointmentDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.delete.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		caller, ok := auth.FromContext(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "id is required")
			return
		}

		if err := deleter.DeleteAppointment(r.Context(), id, caller.Email, caller.Role); err != nil {
			log.Error("Failed to delete appointment", sl.Err(err), slog.String("user_email", caller.Email))
			response.FailFrom(w, r, err, "failed to delete appointment")
			return
		}

		log.Info("Appointment deleted", slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
