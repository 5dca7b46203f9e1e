package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type EventUpdater interface {
	UpdateEvent(ctx context.Context, id string, req *api.EventRequest) (*api.Event, error)
}

type Request struct {
	api.EventRequest
}

type Response struct {
	response.Response
	Event *api.Event `json:"event,omitempty"`
}

func New(log *slog.Logger, updater EventUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.update.New"

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

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "failed to decode request")
			return
		}

		updated, err := updater.UpdateEvent(r.Context(), id, &req.EventRequest)
		if err != nil {
			log.Error("Failed to update event", sl.Err(err))
			response.FailFrom(w, r, err, "failed to update event")
			return
		}

		log.Info("Event updated", slog.String("id", id))

		render.JSON(w, r, Response{Event: updated})
	}
}
