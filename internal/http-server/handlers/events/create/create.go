package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"appointments-service/api"
	"appointments-service/pkg/response"
	"appointments-service/pkg/sl"
)

type EventCreator interface {
	CreateEvent(ctx context.Context, req *api.EventRequest) (*api.Event, error)
}

type Request struct {
	api.EventRequest
}

type Response struct {
	response.Response
	Event *api.Event `json:"event,omitempty"`
}

func New(log *slog.Logger, creator EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.create.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			response.Fail(w, r, http.StatusBadRequest, response.BAD_REQUEST, "failed to decode request")
			return
		}

		log.Debug("Request body decoded", slog.Any("request", req))

		created, err := creator.CreateEvent(r.Context(), &req.EventRequest)
		if err != nil {
			log.Error("Failed to create event", sl.Err(err))
			response.FailFrom(w, r, err, "failed to create event")
			return
		}

		log.Info("Event created", slog.String("id", created.ID))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, created)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, created *api.Event) {
	render.JSON(w, r, Response{
		Event: created,
	})
}
