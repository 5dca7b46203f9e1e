package delete

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type AvailabilityDeleter interface {
	DeleteAvailability(ctx context.Context, id string) error
}

func New(log *slog.Logger, deleter AvailabilityDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.delete.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "id is required")
			return
		}

		if err := deleter.DeleteAvailability(r.Context(), id); err != nil {
			log.Error("Failed to delete availability window", sl.Err(err))
			response.FailFrom(w, r, err, "failed to delete availability window")
			return
		}

		log.Info("Availability window deleted", slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
