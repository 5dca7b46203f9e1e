package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/internal/http-server/middleware/auth"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type AppointmentBooker interface {
	BookAppointment(ctx context.Context, email string, req *api.AppointmentRequest) (*api.BookingResult, error)
}

type Request struct {
	api.AppointmentRequest
}

type Response struct {
	response.Response
	*api.BookingResult
}

func New(log *slog.Logger, booker AppointmentBooker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.appointments.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, ok := auth.FromContext(r.Context())
		if !ok {
			response.Fail(w, r, http.StatusUnauthorized, response.UNAUTHORIZED, "unauthorized")
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "failed to decode request")
			return
		}

		log.Info("Request body decoded", slog.Any("request", req), slog.String("user_email", id.Email))

		result, err := booker.BookAppointment(r.Context(), id.Email, &req.AppointmentRequest)

		if errors.Is(err, response.ErrDuplicateSlot) {
			log.Info("slot already taken")
			response.FailFrom(w, r, err, "")
			return
		}

		if errors.Is(err, response.ErrValidation) {
			log.Info("invalid booking request", sl.Err(err))
			response.FailFrom(w, r, err, "")
			return
		}

		if err != nil {
			log.Error("Failed to book appointment", sl.Err(err))
			response.Fail(w, r, http.StatusInternalServerError, response.FAILED_REQUEST, "failed to book appointment")
			return
		}

		if result.CalendarSyncFailed {
			log.Warn("Appointment booked without calendar mirror", slog.String("id", result.Appointment.ID))
		} else {
			log.Info("Appointment booked", slog.String("id", result.Appointment.ID))
		}

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, result)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, result *api.BookingResult) {
	render.JSON(w, r, Response{
		BookingResult: result,
	})
}
