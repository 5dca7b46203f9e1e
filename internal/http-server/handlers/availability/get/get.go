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

type AvailabilityGetter interface {
	GetAvailability(ctx context.Context, id string) (*api.Availability, error)
}

type AvailabilityLister interface {
	ListAvailability(ctx context.Context) ([]api.Availability, error)
}

type Response struct {
	response.Response
	Availability *api.Availability `json:"availability,omitempty"`
}

type ListResponse struct {
	response.Response
	Items []api.Availability `json:"availability"`
}

func New(log *slog.Logger, getter AvailabilityGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.New"

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

		found, err := getter.GetAvailability(r.Context(), id)
		if err != nil {
			log.Error("Failed to get availability window", sl.Err(err))
			response.FailFrom(w, r, err, "failed to get availability window")
			return
		}

		render.JSON(w, r, Response{Availability: found})
	}
}

func List(log *slog.Logger, lister AvailabilityLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.availability.get.List"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		items, err := lister.ListAvailability(r.Context())
		if err != nil {
			log.Error("Failed to list availability", sl.Err(err))
			response.FailFrom(w, r, err, "failed to list availability")
			return
		}

		log.Debug("Availability listed", slog.Int("count", len(items)))

		render.JSON(w, r, ListResponse{Items: items})
	}
}
