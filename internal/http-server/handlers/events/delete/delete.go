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

type EventDeleter interface {
	DeleteEvent(ctx context.Context, id string) error
}

func New(log *slog.Logger, deleter EventDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.delete.New"

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

		if err := deleter.DeleteEvent(r.Context(), id); err != nil {
			log.Error("Failed to delete event", sl.Err(err))
			response.FailFrom(w, r, err, "failed to delete event")
			return
		}

		log.Info("Event deleted", slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
