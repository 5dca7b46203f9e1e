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

type RecessGetter interface {
	GetRecess(ctx context.Context, id string) (*api.Recess, error)
}

type RecessLister interface {
	ListRecess(ctx context.Context) ([]api.Recess, error)
}

type Response struct {
	response.Response
	Recess *api.Recess `json:"recess,omitempty"`
}

type ListResponse struct {
	response.Response
	Items []api.Recess `json:"recesses"`
}

func New(log *slog.Logger, getter RecessGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recess.get.New"

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

		found, err := getter.GetRecess(r.Context(), id)
		if err != nil {
			log.Error("Failed to get recess window", sl.Err(err))
			response.FailFrom(w, r, err, "failed to get recess window")
			return
		}

		render.JSON(w, r, Response{Recess: found})
	}
}

func List(log *slog.Logger, lister RecessLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recess.get.List"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		items, err := lister.ListRecess(r.Context())
		if err != nil {
			log.Error("Failed to list recesses", sl.Err(err))
			response.FailFrom(w, r, err, "failed to list recesses")
			return
		}

		log.Debug("Recesses listed", slog.Int("count", len(items)))

		render.JSON(w, r, ListResponse{Items: items})
	}
}
