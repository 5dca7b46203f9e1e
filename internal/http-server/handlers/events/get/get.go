package get

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

type EventGetter interface {
	GetEvent(ctx context.Context, id string) (*api.Event, error)
}

type EventLister interface {
	ListEvents(ctx context.Context, date string) ([]api.Event, error)
}

type Response struct {
	response.Response
	Event *api.Event `json:"event,omitempty"`
}

type ListResponse struct {
	response.Response
	Items []api.Event `json:"events"`
}

func New(log *slog.Logger, getter EventGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.get.New"

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

		found, err := getter.GetEvent(r.Context(), id)
		if err != nil {
			log.Error("Failed to get event", sl.Err(err))
			response.FailFrom(w, r, err, "failed to get event")
			return
		}

		render.JSON(w, r, Response{Event: found})
	}
}

func List(log *slog.Logger, lister EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.events.get.List"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		items, err := lister.ListEvents(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			log.Error("Failed to list events", sl.Err(err))
			response.FailFrom(w, r, err, "failed to list events")
			return
		}

		log.Debug("Events listed", slog.Int("count", len(items)))

		render.JSON(w, r, ListResponse{Items: items})
	}
}
